package users

import (
	"errors"
	"strings"
)

// ErrEmptyUpdate is returned when an update draft carries no fields at all.
// It is record-level: no per-field validation runs when it fires.
var ErrEmptyUpdate = errors.New("at least one field must be provided for update")

// Kinds of field-scoped validation failure.
const (
	KindFormat       = "format"       // value fails its pattern/length/charset rule
	KindRequired     = "required"     // mandatory field absent
	KindRole         = "role"         // value is not a recognized UserRole
	KindCollaborator = "collaborator" // an external call (nickname generation) failed
)

// FieldError is a validation failure attributable to exactly one named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Violations aggregates every field failure from a single validation pass.
// A draft validation reports all offending fields at once, never just the first.
type Violations []FieldError

func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v *Violations) add(field, kind, message string) {
	*v = append(*v, FieldError{Field: field, Message: message, Kind: kind})
}

func (v *Violations) addErr(field, kind string, err error) {
	v.add(field, kind, err.Error())
}

// required records a missing mandatory field.
func (v *Violations) required(field string) {
	v.add(field, KindRequired, field+" is required")
}

// AsViolations unwraps err into a Violations slice if it carries one.
func AsViolations(err error) (Violations, bool) {
	var v Violations
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
