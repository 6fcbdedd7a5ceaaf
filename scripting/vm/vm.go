// Package vm wraps a goja runtime as an isolated script environment.
//
// An Env is not safe for concurrent use. Create it, use it and destroy it
// on one goroutine; values obtained from an Env must never be handed to
// another Env.
package vm

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
)

var ErrDestroyed = errors.New("vm: environment destroyed")

// DefaultMaxCallStackSize is the recursion depth allowed when Options
// leaves it unset.
const DefaultMaxCallStackSize = 10000

// internalErrorSource defines the InternalError class goja lacks.
const internalErrorSource = `(function (g) {
	function InternalError(message) {
		if (!(this instanceof InternalError)) return new InternalError(message);
		this.message = message === undefined ? "" : String(message);
		this.stack = new Error(this.message).stack;
	}
	InternalError.prototype = Object.create(Error.prototype);
	InternalError.prototype.constructor = InternalError;
	InternalError.prototype.name = "InternalError";
	Object.defineProperty(g, "InternalError", { value: InternalError, writable: true, configurable: true });
})(this);`

// Env is one interpreter runtime with its global object.
type Env struct {
	name    string
	rt      *goja.Runtime
	log     zerolog.Logger
	classes map[string]*Class
}

type Options struct {
	Name   string
	Logger zerolog.Logger
	// MaxCallStackSize bounds recursion; 0 uses DefaultMaxCallStackSize.
	// Going deeper aborts the evaluation with "InternalError: too much
	// recursion", which the script cannot catch.
	MaxCallStackSize int
}

func New(o Options) (*Env, error) {
	rt := goja.New()
	depth := o.MaxCallStackSize
	if depth <= 0 {
		depth = DefaultMaxCallStackSize
	}
	rt.SetMaxCallStackSize(depth)
	if _, err := rt.RunString(internalErrorSource); err != nil {
		return nil, fmt.Errorf("vm %s: bootstrap: %w", o.Name, err)
	}
	e := &Env{
		name:    o.Name,
		rt:      rt,
		log:     o.Logger.With().Str("env", o.Name).Logger(),
		classes: map[string]*Class{},
	}
	e.log.Debug().Msg("environment created")
	return e, nil
}

// Evaluate runs src as a global program and returns its completion value.
// An uncaught script exception is returned as *Exception.
func (e *Env) Evaluate(src, sourceName string) (goja.Value, error) {
	if e.rt == nil {
		return nil, ErrDestroyed
	}
	v, err := e.rt.RunScript(sourceName, src)
	if err != nil {
		return nil, e.wrapErr(err)
	}
	return v, nil
}

// Call invokes fn with this and args. Exceptions come back as *Exception.
func (e *Env) Call(fn, this goja.Value, args ...goja.Value) (goja.Value, error) {
	if e.rt == nil {
		return nil, ErrDestroyed
	}
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, &Exception{Message: "TypeError: value is not a function"}
	}
	if this == nil {
		this = goja.Undefined()
	}
	v, err := callable(this, args...)
	if err != nil {
		return nil, e.wrapErr(err)
	}
	return v, nil
}

// SetGlobal binds v (a goja.Value or any Go value goja can wrap) on the global object.
func (e *Env) SetGlobal(name string, v any) error {
	if e.rt == nil {
		return ErrDestroyed
	}
	return e.rt.Set(name, v)
}

func (e *Env) Global(name string) goja.Value {
	if e.rt == nil {
		return nil
	}
	return e.rt.Get(name)
}

func (e *Env) NewObject() *goja.Object { return e.rt.NewObject() }

func (e *Env) ToValue(v any) goja.Value { return e.rt.ToValue(v) }

// Destroy releases the runtime. Later calls on e return ErrDestroyed.
func (e *Env) Destroy() {
	if e.rt == nil {
		return
	}
	e.rt = nil
	e.classes = nil
	e.log.Debug().Msg("environment destroyed")
}

// FunctionSource returns the source text of a script function.
func FunctionSource(v goja.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	if _, ok := goja.AssertFunction(v); !ok {
		return "", false
	}
	return v.String(), true
}
