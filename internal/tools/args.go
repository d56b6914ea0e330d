package tools

// Typed accessors over normalized argument bags. Validation has already
// run, so type assertions here cannot fail for declared fields; the
// zero-value fallbacks cover optional fields with no default.

func argString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func argFloat(args map[string]interface{}, name string) float64 {
	n, _ := args[name].(float64)
	return n
}

func argInt(args map[string]interface{}, name string) int {
	return int(argFloat(args, name))
}

func argBool(args map[string]interface{}, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func argArray(args map[string]interface{}, name string) []interface{} {
	arr, _ := args[name].([]interface{})
	return arr
}

func argObject(args map[string]interface{}, name string) map[string]interface{} {
	obj, _ := args[name].(map[string]interface{})
	return obj
}

// argStrings converts an array argument to its string elements,
// skipping non-string entries.
func argStrings(args map[string]interface{}, name string) []string {
	arr := argArray(args, name)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
