package options

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when a declared parameter type cannot be
	// mapped onto any option kind.
	ErrUnsupportedType = errors.New("unsupported option type")

	// ErrInvalidConstraint is returned when explicit parameter metadata
	// combines constraints illegally.
	ErrInvalidConstraint = errors.New("invalid option constraint")
)

// ConstraintError reports an illegal constraint combination on a parameter,
// naming the offending metadata field.
type ConstraintError struct {
	Param  string
	Field  string
	Reason string
}

// Error returns a formatted message naming the parameter and field.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("%v: parameter '%s', field '%s': %s", ErrInvalidConstraint, e.Param, e.Field, e.Reason)
}

// Is matches the error against ErrInvalidConstraint.
func (e ConstraintError) Is(target error) bool {
	return target == ErrInvalidConstraint
}

// NewConstraintError constructs a ConstraintError for the given field.
func NewConstraintError(param, field, reason string) error {
	return ConstraintError{Param: param, Field: field, Reason: reason}
}

// TypeError reports an unresolvable parameter type.
type TypeError struct {
	Param string
	Type  string
}

// Error returns a formatted message naming the parameter and its declared type.
func (e TypeError) Error() string {
	return fmt.Sprintf("%v: parameter '%s' declared as '%s'", ErrUnsupportedType, e.Param, e.Type)
}

// Is matches the error against ErrUnsupportedType.
func (e TypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
