package bindings

import (
	"github.com/dop251/goja"

	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/scripting/vm"
)

// SerializedCallback is a script function captured as source text. Values
// cannot move between environments, so the receiving environment compiles
// the text again.
type SerializedCallback struct {
	Source string
}

// Expression returns the source wrapped so that evaluating it yields the
// function, also for anonymous function declarations.
func (s SerializedCallback) Expression() string { return "(" + s.Source + "\n)" }

// DeferredWindowTask is everything needed to build a script window on the
// UI goroutine. It holds no interpreter values.
type DeferredWindowTask struct {
	Title    string
	Callback SerializedCallback
}

func installWindowRequests(env *vm.Env, obj *goja.Object, w WindowRequests) {
	env.Method(obj, "create_window", 2, func(c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsFunction(c.Args[1]) {
			return nil, vm.TypeErrorf("create_window(titleString, drawCallback)")
		}
		src, _ := vm.FunctionSource(c.Args[1])
		task := DeferredWindowTask{Title: c.Args[0].String(), Callback: SerializedCallback{Source: src}}
		if w.Queue != nil && w.Materialize != nil {
			materialize := w.Materialize
			w.Queue.Push(func() { materialize(task) })
		}
		return nil, nil
	})
}

// Key codes scripts pass to is_key_pressed.
var keyConstants = []struct {
	name string
	key  core.Key
}{
	{"KEY_LEFT", core.KeyLeft},
	{"KEY_RIGHT", core.KeyRight},
	{"KEY_UP", core.KeyUp},
	{"KEY_DOWN", core.KeyDown},
	{"KEY_ENTER", core.KeyEnter},
	{"KEY_ESCAPE", core.KeyEscape},
	{"KEY_SPACE", core.KeySpace},
}

func installKeyConstants(obj *goja.Object) {
	for _, k := range keyConstants {
		_ = obj.Set(k.name, int(k.key))
	}
}
