package catalog

import (
	"errors"
	"testing"
)

func TestValidateArgs_MissingRequired(t *testing.T) {
	t.Parallel()

	shape := []Field{
		{Name: "action", Type: TypeString, Required: true},
		{Name: "environment", Type: TypeEnum, Enum: []string{"local", "staging", "production"}},
	}

	_, err := ValidateArgs(shape, map[string]interface{}{})
	if err == nil {
		t.Fatal("ValidateArgs() with missing required field: want error")
	}

	want := "Required parameter 'action' must be a non-empty string"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}

	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("error type = %T, want *ArgumentError", err)
	}
	if argErr.Field != "action" {
		t.Errorf("Field = %q, want action", argErr.Field)
	}
}

func TestValidateArgs_DeclarationOrder(t *testing.T) {
	t.Parallel()

	shape := []Field{
		{Name: "first", Type: TypeString, Required: true},
		{Name: "second", Type: TypeArray, Required: true},
	}

	// Both missing: the first declared field must be reported.
	_, err := ValidateArgs(shape, map[string]interface{}{})
	if err == nil {
		t.Fatal("want error")
	}
	var argErr *ArgumentError
	if !errors.As(err, &argErr) || argErr.Field != "first" {
		t.Errorf("reported field = %v, want first", err)
	}

	// First present: now the second is reported, with its own constraint.
	_, err = ValidateArgs(shape, map[string]interface{}{"first": "x"})
	want := "Required parameter 'second' must be a non-empty array"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestValidateArgs_Defaults(t *testing.T) {
	t.Parallel()

	shape := []Field{
		{Name: "text", Type: TypeString, Required: true},
		{Name: "chunk_size", Type: TypeInteger, Default: float64(1000)},
		{Name: "environment", Type: TypeEnum, Enum: []string{"local", "staging"}, Default: "local"},
		{Name: "verbose", Type: TypeBoolean},
	}

	got, err := ValidateArgs(shape, map[string]interface{}{"text": "hello"})
	if err != nil {
		t.Fatalf("ValidateArgs() error: %v", err)
	}

	if got["text"] != "hello" {
		t.Errorf("text = %v, want hello", got["text"])
	}
	if got["chunk_size"] != float64(1000) {
		t.Errorf("chunk_size = %v, want 1000", got["chunk_size"])
	}
	if got["environment"] != "local" {
		t.Errorf("environment = %v, want local", got["environment"])
	}
	if _, present := got["verbose"]; present {
		t.Error("verbose with no default should be absent from normalized args")
	}
}

func TestValidateArgs_DropsUndeclaredFields(t *testing.T) {
	t.Parallel()

	shape := []Field{{Name: "text", Type: TypeString, Required: true}}

	got, err := ValidateArgs(shape, map[string]interface{}{
		"text":      "hi",
		"injection": "ignored",
	})
	if err != nil {
		t.Fatalf("ValidateArgs() error: %v", err)
	}
	if _, present := got["injection"]; present {
		t.Error("undeclared field must not survive normalization")
	}
}

func TestValidateArgs_TypeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   Field
		value   interface{}
		wantErr string
	}{
		{
			name:    "empty required string",
			field:   Field{Name: "s", Type: TypeString, Required: true},
			value:   "",
			wantErr: "Required parameter 's' must be a non-empty string",
		},
		{
			name:    "wrong type for string",
			field:   Field{Name: "s", Type: TypeString, Required: true},
			value:   42.0,
			wantErr: "Required parameter 's' must be a non-empty string",
		},
		{
			name:    "enum mismatch",
			field:   Field{Name: "e", Type: TypeEnum, Enum: []string{"a", "b"}},
			value:   "c",
			wantErr: "Parameter 'e' must be one of [a, b]",
		},
		{
			name:    "fractional integer",
			field:   Field{Name: "n", Type: TypeInteger},
			value:   1.5,
			wantErr: "Parameter 'n' must be an integer",
		},
		{
			name:    "number below minimum",
			field:   Field{Name: "n", Type: TypeNumber, Min: Float(1), Max: Float(10)},
			value:   0.5,
			wantErr: "Parameter 'n' must be a number between 1 and 10",
		},
		{
			name:    "boolean from string",
			field:   Field{Name: "b", Type: TypeBoolean},
			value:   "true",
			wantErr: "Parameter 'b' must be a boolean",
		},
		{
			name:    "object from array",
			field:   Field{Name: "o", Type: TypeObject},
			value:   []interface{}{},
			wantErr: "Parameter 'o' must be an object",
		},
		{
			name:    "string over max length",
			field:   Field{Name: "s", Type: TypeString, Required: true, MaxLen: 3},
			value:   "abcd",
			wantErr: "Required parameter 's' must be a string of at most 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateArgs([]Field{tt.field}, map[string]interface{}{tt.field.Name: tt.value})
			if err == nil {
				t.Fatal("want error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateArgs_ValidValues(t *testing.T) {
	t.Parallel()

	shape := []Field{
		{Name: "names", Type: TypeArray, Required: true},
		{Name: "meta", Type: TypeObject},
		{Name: "count", Type: TypeInteger, Min: Float(0)},
	}

	got, err := ValidateArgs(shape, map[string]interface{}{
		"names": []interface{}{"a"},
		"meta":  map[string]interface{}{"k": "v"},
		"count": float64(3),
	})
	if err != nil {
		t.Fatalf("ValidateArgs() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("normalized size = %d, want 3", len(got))
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(
		Descriptor{Name: "s2t_one", Title: "One"},
		Descriptor{Name: "s2t_two", Title: "Two"},
	)

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	list := r.List()
	if list[0].Name != "s2t_one" || list[1].Name != "s2t_two" {
		t.Errorf("List() order = %q,%q, want declaration order", list[0].Name, list[1].Name)
	}

	if _, ok := r.Lookup("s2t_one"); !ok {
		t.Error("Lookup(s2t_one) = false, want true")
	}
	if _, ok := r.Lookup("S2T_ONE"); ok {
		t.Error("Lookup is case-sensitive; uppercase name must miss")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup(missing) = true, want false")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("NewRegistry with duplicate names: want panic")
		}
	}()
	NewRegistry(Descriptor{Name: "dup"}, Descriptor{Name: "dup"})
}

func TestInputSchema(t *testing.T) {
	t.Parallel()

	shape := []Field{
		{Name: "action", Type: TypeString, Required: true, Description: "command to assess"},
		{Name: "environment", Type: TypeEnum, Enum: []string{"local", "staging"}, Default: "local"},
		{Name: "tags", Type: TypeArray},
		{Name: "score", Type: TypeNumber, Min: Float(0), Max: Float(100)},
	}

	schema := InputSchema(shape)
	if schema["type"] != "object" {
		t.Errorf("type = %v, want object", schema["type"])
	}

	required, _ := schema["required"].([]string)
	if len(required) != 1 || required[0] != "action" {
		t.Errorf("required = %v, want [action]", schema["required"])
	}

	props := schema["properties"].(map[string]interface{})
	env := props["environment"].(map[string]interface{})
	if env["type"] != "string" {
		t.Errorf("enum renders as string type, got %v", env["type"])
	}
	if env["default"] != "local" {
		t.Errorf("enum default = %v, want local", env["default"])
	}

	tags := props["tags"].(map[string]interface{})
	items := tags["items"].(map[string]interface{})
	if items["type"] != "string" {
		t.Errorf("array items default to string, got %v", items["type"])
	}

	score := props["score"].(map[string]interface{})
	if score["minimum"] != 0.0 || score["maximum"] != 100.0 {
		t.Errorf("score bounds = %v..%v, want 0..100", score["minimum"], score["maximum"])
	}
}
