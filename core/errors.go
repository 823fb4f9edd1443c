package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSignature is returned when a handler's declared shape cannot
	// be compiled into a command signature.
	ErrInvalidSignature = errors.New("invalid command signature")

	// ErrInvalidConverter is returned when a declared converter has an
	// unsupported shape.
	ErrInvalidConverter = errors.New("invalid converter")

	// ErrBadArgument is returned when a supplied value cannot be converted to
	// the kind its parameter expects. It is the one invocation-time error
	// surfaced to the remote caller.
	ErrBadArgument = errors.New("bad argument")

	// ErrMissingArgument is returned when a required parameter is absent from
	// the supplied arguments.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrCommandAlreadyDefined is returned when a command path has already
	// been registered with the dispatcher.
	ErrCommandAlreadyDefined = errors.New("command has already been defined")

	// ErrUnknownCommand is returned when an interaction names a command the
	// dispatcher does not know.
	ErrUnknownCommand = errors.New("unknown command")
)

// SignatureError reports a declaration-time defect in a command signature.
// Declaration-time errors always abort registration; there is no partial
// fallback.
type SignatureError struct {
	Command string
	Param   string
	Reason  string
}

// Error returns a formatted message locating the defect.
func (e SignatureError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%v: command '%s': %s", ErrInvalidSignature, e.Command, e.Reason)
	}

	return fmt.Sprintf("%v: command '%s', parameter '%s': %s", ErrInvalidSignature, e.Command, e.Param, e.Reason)
}

// Is matches the error against ErrInvalidSignature.
func (e SignatureError) Is(target error) bool {
	return target == ErrInvalidSignature
}

// NewSignatureError constructs a SignatureError.
func NewSignatureError(command, param, reason string) error {
	return SignatureError{Command: command, Param: param, Reason: reason}
}

// BadArgumentError wraps an invocation-time conversion failure with the raw
// input and a description of the expected kind(s). For union-typed parameters
// it is raised only after every alternative has been exhausted, and Expected
// then lists each attempted alternative.
type BadArgumentError struct {
	Param    string
	Raw      any
	Expected []string
	cause    error
}

// Error returns a formatted message with the raw value and expected kinds.
func (e BadArgumentError) Error() string {
	expected := strings.Join(e.Expected, ", ")
	if e.cause == nil {
		return fmt.Sprintf("%v: parameter '%s': cannot interpret '%v' as %s", ErrBadArgument, e.Param, e.Raw, expected)
	}

	return fmt.Sprintf("%v: parameter '%s': cannot interpret '%v' as %s: '%v'", ErrBadArgument, e.Param, e.Raw, expected, e.cause)
}

// Is matches the error against ErrBadArgument.
func (e BadArgumentError) Is(target error) bool {
	return target == ErrBadArgument
}

// Unwrap returns the underlying conversion error, if any.
func (e BadArgumentError) Unwrap() error {
	return e.cause
}

// NewBadArgumentError constructs a BadArgumentError.
func NewBadArgumentError(param string, raw any, expected []string, cause error) error {
	return BadArgumentError{Param: param, Raw: raw, Expected: expected, cause: cause}
}
