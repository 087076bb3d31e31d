// pkg/protocol/errors.go
package protocol

import "fmt"

// Code is the outcome of a table mutation. The routing context always
// answers with a Code; it never returns a Go error across the boundary.
type Code int

const (
	OK Code = iota
	Fail
	Registered
	NotRegistered
	Intercepted
	NotIntercepted
)

// Message is the caller-visible text for a code.
func (c Code) Message() string {
	switch c {
	case Fail:
		return "Failed to manipulate protocol factory"
	case Registered:
		return "The scheme has been registered"
	case NotRegistered:
		return "The scheme has not been registered"
	case Intercepted:
		return "The scheme has been intercepted"
	case NotIntercepted:
		return "The scheme has not been intercepted"
	default:
		return "Unexpected error"
	}
}

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Fail:
		return "fail"
	case Registered:
		return "registered"
	case NotRegistered:
		return "not_registered"
	case Intercepted:
		return "intercepted"
	case NotIntercepted:
		return "not_intercepted"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Err converts a code into the error handed to completions; OK is nil.
func (c Code) Err(op OpKind, scheme string) error {
	if c == OK {
		return nil
	}
	return &Error{Op: op, Scheme: scheme, Code: c}
}

// Error is a failed mutation as seen by the caller.
type Error struct {
	Op     OpKind
	Scheme string
	Code   Code
}

// Error returns the fixed message for the code so callers see the same text
// regardless of which scheme failed.
func (e *Error) Error() string { return e.Code.Message() }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrFail           = &Error{Code: Fail}
	ErrRegistered     = &Error{Code: Registered}
	ErrNotRegistered  = &Error{Code: NotRegistered}
	ErrIntercepted    = &Error{Code: Intercepted}
	ErrNotIntercepted = &Error{Code: NotIntercepted}
)
