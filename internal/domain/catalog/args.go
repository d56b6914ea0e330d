package catalog

import (
	"fmt"
	"math"
	"strings"
)

// ValidateArgs checks a raw argument bag against a declared shape and
// returns the normalized arguments: only declared fields, with defaults
// applied for omitted optionals. Validation is synchronous and fails fast
// on the first violation, walking fields in declaration order.
func ValidateArgs(shape []Field, args map[string]interface{}) (map[string]interface{}, error) {
	normalized := make(map[string]interface{}, len(shape))

	for i := range shape {
		f := &shape[i]

		val, present := args[f.Name]
		if !present || val == nil {
			if f.Required {
				return nil, &ArgumentError{Field: f.Name, Constraint: f.constraint(), Required: true}
			}
			if f.Default != nil {
				normalized[f.Name] = f.Default
			}
			continue
		}

		checked, err := f.check(val)
		if err != nil {
			return nil, err
		}
		normalized[f.Name] = checked
	}

	return normalized, nil
}

// check validates a present value against the field's type and bounds.
func (f *Field) check(val interface{}) (interface{}, error) {
	fail := func() (interface{}, error) {
		return nil, &ArgumentError{Field: f.Name, Constraint: f.constraint(), Required: f.Required}
	}

	switch f.Type {
	case TypeString:
		s, ok := val.(string)
		if !ok {
			return fail()
		}
		if f.Required && s == "" {
			return fail()
		}
		if f.MinLen > 0 && len(s) < f.MinLen {
			return fail()
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return fail()
		}
		return s, nil

	case TypeEnum:
		s, ok := val.(string)
		if !ok {
			return fail()
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return fail()

	case TypeNumber, TypeInteger:
		n, ok := toFloat(val)
		if !ok {
			return fail()
		}
		if f.Type == TypeInteger && n != math.Trunc(n) {
			return fail()
		}
		if f.Min != nil && n < *f.Min {
			return fail()
		}
		if f.Max != nil && n > *f.Max {
			return fail()
		}
		return n, nil

	case TypeBoolean:
		b, ok := val.(bool)
		if !ok {
			return fail()
		}
		return b, nil

	case TypeArray:
		arr, ok := val.([]interface{})
		if !ok {
			return fail()
		}
		if f.Required && len(arr) == 0 {
			return fail()
		}
		return arr, nil

	case TypeObject:
		obj, ok := val.(map[string]interface{})
		if !ok {
			return fail()
		}
		return obj, nil
	}

	return fail()
}

// toFloat accepts the numeric representations json.Unmarshal may produce.
func toFloat(val interface{}) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// constraint renders the human-readable expectation for error messages.
func (f *Field) constraint() string {
	switch f.Type {
	case TypeString:
		switch {
		case f.MinLen > 0 && f.MaxLen > 0:
			return fmt.Sprintf("a string of %d-%d characters", f.MinLen, f.MaxLen)
		case f.MaxLen > 0:
			return fmt.Sprintf("a string of at most %d characters", f.MaxLen)
		default:
			return "a non-empty string"
		}
	case TypeEnum:
		return fmt.Sprintf("one of [%s]", strings.Join(f.Enum, ", "))
	case TypeNumber:
		return boundedConstraint("a number", f.Min, f.Max)
	case TypeInteger:
		return boundedConstraint("an integer", f.Min, f.Max)
	case TypeBoolean:
		return "a boolean"
	case TypeArray:
		return "a non-empty array"
	case TypeObject:
		return "an object"
	}
	return "a valid value"
}

func boundedConstraint(base string, min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s between %g and %g", base, *min, *max)
	case min != nil:
		return fmt.Sprintf("%s >= %g", base, *min)
	case max != nil:
		return fmt.Sprintf("%s <= %g", base, *max)
	}
	return base
}
