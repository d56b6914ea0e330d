// Package catalog contains the operation catalog domain: descriptors for
// every tool the server exposes, their declarative input shapes, and the
// generic argument-validation routine that interprets those shapes.
package catalog

import (
	"context"
	"fmt"
)

// FieldType enumerates the primitive types an input field may declare.
type FieldType string

const (
	// TypeString is a JSON string. Required strings must be non-empty.
	TypeString FieldType = "string"

	// TypeNumber is any JSON number.
	TypeNumber FieldType = "number"

	// TypeInteger is a JSON number with no fractional part.
	TypeInteger FieldType = "integer"

	// TypeBoolean is a JSON boolean.
	TypeBoolean FieldType = "boolean"

	// TypeEnum is a string restricted to a declared value set.
	TypeEnum FieldType = "enum"

	// TypeArray is a JSON array. Required arrays must be non-empty.
	TypeArray FieldType = "array"

	// TypeObject is a JSON object.
	TypeObject FieldType = "object"
)

// Field declares one input parameter of an operation.
type Field struct {
	// Name is the parameter name as it appears in the argument bag.
	Name string

	// Type is the expected primitive type.
	Type FieldType

	// Required marks the field as mandatory. Validation fails fast on the
	// first missing required field, in declaration order.
	Required bool

	// Description is surfaced in the rendered JSON schema.
	Description string

	// Default is applied when an optional field is omitted. Nil means no
	// default (the field is simply absent from the normalized args).
	Default interface{}

	// Enum lists the allowed values for TypeEnum fields.
	Enum []string

	// MinLen/MaxLen bound string lengths. Zero means unset.
	MinLen int
	MaxLen int

	// Min/Max bound numeric values. Nil means unset.
	Min *float64
	Max *float64

	// Items is the element type for TypeArray fields. Empty means string.
	Items FieldType
}

// Annotations carry advisory side-effect metadata for an operation.
// Callers use them to decide confirmation policy; the dispatcher itself
// enforces nothing based on them.
type Annotations struct {
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	OpenWorld   bool
}

// Handler executes one operation against the normalized argument bag and
// returns the formatted text result.
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Descriptor describes one operation in the catalog. Descriptors are
// constructed once at startup and never mutated.
type Descriptor struct {
	Name        string
	Title       string
	Description string
	Shape       []Field
	Annotations Annotations
	Handler     Handler
}

// ArgumentError reports a single argument-validation failure.
// Its message format is part of the caller-facing contract.
type ArgumentError struct {
	// Field is the offending parameter name.
	Field string

	// Constraint describes the violated expectation ("a non-empty string").
	Constraint string

	// Required distinguishes missing/invalid required fields from invalid
	// optional values; the two produce different message prefixes.
	Required bool
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Required {
		return fmt.Sprintf("Required parameter '%s' must be %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("Parameter '%s' must be %s", e.Field, e.Constraint)
}

// Float returns a pointer to v, for declaring numeric bounds inline.
func Float(v float64) *float64 {
	return &v
}
