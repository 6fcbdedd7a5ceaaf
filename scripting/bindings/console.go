package bindings

import (
	"github.com/dop251/goja"

	"github.com/hubastard/buddy/scripting/vm"
)

// Sink receives one console.log call as its stringified arguments.
type Sink interface {
	AppendOutput(fragments ...string)
}

type discard struct{}

func (discard) AppendOutput(...string) {}

// Discard drops console output; window environments log into it.
var Discard Sink = discard{}

// InstallConsole binds console.log to sink through the console object's
// this, so a detached log function has nowhere to write.
func InstallConsole(env *vm.Env, sink Sink) error {
	if sink == nil {
		sink = Discard
	}
	cls := env.RegisterClass("console")
	console := cls.New(sink)
	env.Method(console, "log", 0, func(c vm.Call) (goja.Value, error) {
		d, ok := cls.Data(c.This)
		if !ok {
			return nil, vm.TypeErrorf("invalid this")
		}
		frags := make([]string, len(c.Args))
		for i, a := range c.Args {
			frags[i] = a.String()
		}
		d.(Sink).AppendOutput(frags...)
		return nil, nil
	})
	return setGlobal(env, "console", console)
}
