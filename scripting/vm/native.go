package vm

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dop251/goja"
)

// Call is one invocation of a native function.
type Call struct {
	Env  *Env
	This goja.Value
	Args []goja.Value
}

// Arg returns argument i or undefined.
func (c Call) Arg(i int) goja.Value {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return goja.Undefined()
}

func (c Call) Len() int { return len(c.Args) }

// NativeFunc implements a script-callable function. A returned error is
// thrown into the script; a nil value returns undefined.
type NativeFunc func(c Call) (goja.Value, error)

// NewFunction wraps fn as a script function object with the given name and length.
func (e *Env) NewFunction(name string, arity int, fn NativeFunc) *goja.Object {
	rt := e.rt
	wrapped := func(fc goja.FunctionCall) goja.Value {
		v, err := e.invoke(fn, Call{Env: e, This: fc.This, Args: fc.Arguments})
		if err != nil {
			panic(e.throwable(err))
		}
		if v == nil {
			return goja.Undefined()
		}
		return v
	}
	obj := rt.ToValue(wrapped).(*goja.Object)
	_ = obj.DefineDataProperty("name", rt.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	_ = obj.DefineDataProperty("length", rt.ToValue(arity), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	return obj
}

// invoke runs fn and turns a Go panic into an internal error. Script
// exceptions raised by nested calls keep unwinding.
func (e *Env) invoke(fn NativeFunc, c Call) (v goja.Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fromGoja(r) {
			panic(r)
		}
		e.log.Error().Interface("panic", r).Msg("native function panicked")
		v, err = nil, InternalErrorf("%v", r)
	}()
	return fn(c)
}

// fromGoja reports whether a panic value is goja's own unwinding.
func fromGoja(r any) bool {
	switch r.(type) {
	case goja.Value, *goja.Exception, *goja.StackOverflowError:
		return true
	}
	t := reflect.TypeOf(r)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.HasPrefix(t.PkgPath(), "github.com/dop251/goja")
}

// Register binds a native function on the global object.
func (e *Env) Register(name string, arity int, fn NativeFunc) error {
	if e.rt == nil {
		return ErrDestroyed
	}
	return e.rt.Set(name, e.NewFunction(name, arity, fn))
}

// Method binds a native function as a property of obj.
func (e *Env) Method(obj *goja.Object, name string, arity int, fn NativeFunc) {
	if err := obj.Set(name, e.NewFunction(name, arity, fn)); err != nil {
		panic(fmt.Sprintf("vm: set %s: %v", name, err))
	}
}

func IsNumber(v goja.Value) bool {
	if v == nil {
		return false
	}
	switch v.Export().(type) {
	case int64, float64:
		return true
	}
	return false
}

func IsString(v goja.Value) bool {
	if v == nil {
		return false
	}
	_, ok := v.Export().(string)
	return ok
}

func IsBool(v goja.Value) bool {
	if v == nil {
		return false
	}
	_, ok := v.Export().(bool)
	return ok
}

func IsFunction(v goja.Value) bool {
	_, ok := goja.AssertFunction(v)
	return ok
}

func IsNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
