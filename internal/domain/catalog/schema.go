package catalog

// InputSchema renders the declared shape as a JSON Schema object for
// tools/list responses. Descriptors declare shapes natively; the schema is
// derived, never authored by hand.
func InputSchema(shape []Field) map[string]interface{} {
	properties := make(map[string]interface{}, len(shape))
	required := make([]string, 0, len(shape))

	for i := range shape {
		f := &shape[i]
		properties[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(f *Field) map[string]interface{} {
	prop := make(map[string]interface{}, 4)

	switch f.Type {
	case TypeEnum:
		prop["type"] = "string"
		enum := make([]interface{}, len(f.Enum))
		for i, v := range f.Enum {
			enum[i] = v
		}
		prop["enum"] = enum
	case TypeArray:
		items := f.Items
		if items == "" {
			items = TypeString
		}
		prop["type"] = "array"
		prop["items"] = map[string]interface{}{"type": string(items)}
	default:
		prop["type"] = string(f.Type)
	}

	if f.Description != "" {
		prop["description"] = f.Description
	}
	if f.Default != nil {
		prop["default"] = f.Default
	}
	if f.MinLen > 0 {
		prop["minLength"] = f.MinLen
	}
	if f.MaxLen > 0 {
		prop["maxLength"] = f.MaxLen
	}
	if f.Min != nil {
		prop["minimum"] = *f.Min
	}
	if f.Max != nil {
		prop["maximum"] = *f.Max
	}

	return prop
}
