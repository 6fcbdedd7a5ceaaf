package vm

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Exception is an uncaught script exception.
type Exception struct {
	// Message is the thrown value converted to a string, e.g. "TypeError: x".
	Message string
	Stack   string
}

func (e *Exception) Error() string { return e.Message }

type ErrorKind int

const (
	KindTypeError ErrorKind = iota
	KindReferenceError
	KindInternalError
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindReferenceError:
		return "ReferenceError"
	default:
		return "InternalError"
	}
}

// NativeError is returned by native functions and thrown into the script
// as an instance of the matching error class.
type NativeError struct {
	Kind ErrorKind
	Msg  string
}

func (e *NativeError) Error() string { return e.Kind.String() + ": " + e.Msg }

func TypeErrorf(format string, args ...any) error {
	return &NativeError{Kind: KindTypeError, Msg: fmt.Sprintf(format, args...)}
}

func ReferenceErrorf(format string, args ...any) error {
	return &NativeError{Kind: KindReferenceError, Msg: fmt.Sprintf(format, args...)}
}

func InternalErrorf(format string, args ...any) error {
	return &NativeError{Kind: KindInternalError, Msg: fmt.Sprintf(format, args...)}
}

// throwable builds the script error object for err.
func (e *Env) throwable(err error) goja.Value {
	var ne *NativeError
	if !errors.As(err, &ne) {
		ne = &NativeError{Kind: KindInternalError, Msg: err.Error()}
	}
	obj, cerr := e.rt.New(e.rt.Get(ne.Kind.String()), e.rt.ToValue(ne.Msg))
	if cerr != nil {
		return e.rt.NewGoError(err)
	}
	return obj
}

func (e *Env) wrapErr(err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		msg := "(unable to stringify exception)"
		if v := ex.Value(); v != nil {
			msg = v.String()
		}
		return &Exception{Message: msg, Stack: ex.String()}
	}
	var so *goja.StackOverflowError
	if errors.As(err, &so) {
		return &Exception{Message: "InternalError: too much recursion", Stack: so.String()}
	}
	return fmt.Errorf("vm %s: %w", e.name, err)
}
