package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// usedCodes keeps track of registered codes to ensure their uniqueness. No
// two root error instances may share the same code.
var usedCodes = map[uint32]*Error{
	// Code 1 is reserved for errors that did not originate from a
	// registered root error (ie. raw stdlib errors).
	1: nil,
}

// Register returns a root error instance that must be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may
// register custom codes. This function ensures that no error code is used
// twice. Attempting to reuse a code panics.
//
// Use this function only during program initialization.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// Error represents a root error.
//
// The framework uses root errors to categorize issues. Each error instance
// created during runtime should wrap one of the declared root errors. This
// allows error tests without string comparison and returning error codes to
// the host in a stable manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the classification code of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error that has this root error as its cause. The
// following two lines are equivalent:
//
//	e.New("my description")
//	Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks whether given error is of this root error kind. This involves
// unwrapping the error chain using the Cause method when available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with a nil
	// implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with additional information.
//
// If err is nil, Wrap returns nil. This avoids the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach a stack trace if this error does not carry one yet. This is
	// done only once per chain, at the most inner wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with additional information, formatting the
// description as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stops its propagation. If a panic happens it
// is transformed into an ErrPanic instance and assigned to given error. Call
// this function using defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType augments an error with the type of given object.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// CodeOf returns the classification code of the root error that given error
// wraps. Errors that do not wrap a registered root error report code 1.
func CodeOf(err error) uint32 {
	for {
		if e, ok := err.(*Error); ok {
			return e.code
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return 1
		}
	}
}

// stackTrace returns the first stack trace found in the error chain, or nil
// when no layer carries one.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// causer is implemented by errors that support unwrapping. Use it to test if
// an error wraps another error instance.
type causer interface {
	Cause() error
}
