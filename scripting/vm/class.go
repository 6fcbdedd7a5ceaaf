package vm

import "github.com/dop251/goja"

// Class tags objects that carry a Go value, reachable from native methods
// through their this argument. One Class exists per name per Env.
type Class struct {
	env *Env
	key *goja.Symbol
}

// RegisterClass returns the class called name, creating it on first use.
func (e *Env) RegisterClass(name string) *Class {
	if c, ok := e.classes[name]; ok {
		return c
	}
	c := &Class{env: e, key: goja.NewSymbol(name)}
	e.classes[name] = c
	return c
}

// New makes an object of class c holding data.
func (c *Class) New(data any) *goja.Object {
	rt := c.env.rt
	obj := rt.NewObject()
	_ = obj.DefineDataPropertySymbol(c.key, rt.ToValue(&opaque{data}), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	return obj
}

// Data returns the Go value held by v when v is an object of class c.
func (c *Class) Data(v goja.Value) (any, bool) {
	if IsNullish(v) {
		return nil, false
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	h := obj.GetSymbol(c.key)
	if h == nil {
		return nil, false
	}
	o, ok := h.Export().(*opaque)
	if !ok {
		return nil, false
	}
	return o.v, true
}

type opaque struct{ v any }
