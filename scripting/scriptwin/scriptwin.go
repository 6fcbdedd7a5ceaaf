// Package scriptwin hosts windows whose body is drawn by a script callback.
//
// Everything here runs on the render goroutine: the window owns its own
// environment, separate from the run that asked for it, and calls the
// callback once per frame while open.
package scriptwin

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/ui"
	"github.com/hubastard/buddy/scripting/bindings"
	"github.com/hubastard/buddy/scripting/vm"
)

var (
	DefaultSize = draw.V(400, 300)
	DefaultPos  = draw.V(100, 100)
)

var ErrNotCallable = errors.New("scriptwin: callback is not a function")

type Options struct {
	Logger  zerolog.Logger
	Images  *bindings.ImageCache
	Windows bindings.WindowRequests

	MaxCallStackSize int
}

// Window is a script-driven window. Not safe for concurrent use.
type Window struct {
	title string
	key   string // ui window key, unique per Window
	log   zerolog.Logger

	env      *vm.Env
	callback goja.Value
	cur      *ui.Context // set while Draw runs

	open          bool
	size, pos     draw.Vec2
	placed        bool
	geomDirty     bool
	lastException string
}

var seq atomic.Uint64

// Materialize builds the window for task: a fresh environment with the
// window bindings, and the callback compiled from its source. On failure
// nothing is kept and the error is logged.
func Materialize(task bindings.DeferredWindowTask, o Options) (*Window, error) {
	w := &Window{
		title: task.Title,
		key:   task.Title + "##script" + strconv.FormatUint(seq.Add(1), 10),
		log:   o.Logger.With().Str("component", "scriptwin").Str("window", task.Title).Logger(),
		open:  true,
		size:  DefaultSize,
		pos:   DefaultPos,
	}
	w.log.Debug().Msg("materialising")
	err := w.materialize(task, o)
	if err != nil {
		w.log.Warn().Err(err).Msg("window discarded")
		w.Dispose()
		return nil, err
	}
	return w, nil
}

func (w *Window) materialize(task bindings.DeferredWindowTask, o Options) error {
	env, err := vm.New(vm.Options{Name: "window:" + task.Title, Logger: o.Logger, MaxCallStackSize: o.MaxCallStackSize})
	if err != nil {
		return err
	}
	w.env = env
	_, err = bindings.InstallWindow(env, bindings.WindowOptions{
		UI:      func() *ui.Context { return w.cur },
		Images:  o.Images,
		Windows: o.Windows,
	})
	if err != nil {
		return err
	}
	v, err := env.Evaluate(task.Callback.Expression(), task.Title)
	if err != nil {
		return fmt.Errorf("evaluate callback: %w", err)
	}
	if _, ok := goja.AssertFunction(v); !ok {
		return ErrNotCallable
	}
	w.callback = v
	return nil
}

func (w *Window) Title() string { return w.title }

// Draw runs one frame of the window against ctx. Exceptions thrown by the
// callback are shown in the window instead of its content.
func (w *Window) Draw(ctx *ui.Context) {
	if !w.open || w.callback == nil {
		return
	}
	if !w.placed {
		ctx.SetNextWindowPos(w.pos)
		ctx.SetNextWindowSize(w.size)
		w.placed = true
	} else if w.geomDirty {
		ctx.SetWindowGeometry(w.key, w.pos, w.size)
	}
	w.geomDirty = false

	ctx.Begin(w.key, &w.open)
	if w.open {
		w.cur = ctx
		_, err := w.env.Call(w.callback, nil, w.env.Global("ui"))
		w.cur = nil
		w.report(ctx, err)
	}
	ctx.End()

	if pos, size, ok := ctx.WindowGeometry(w.key); ok {
		w.pos, w.size = pos, size
	}
}

func (w *Window) report(ctx *ui.Context, err error) {
	if err == nil {
		w.lastException = ""
		return
	}
	msg := err.Error()
	var ex *vm.Exception
	if errors.As(err, &ex) {
		msg = ex.Message
	}
	if msg != w.lastException {
		w.log.Debug().Str("exception", msg).Msg("callback threw")
		w.lastException = msg
	}
	ctx.TextColored(colors.ErrorText, "[JS exception] "+msg)
}

// LastException is the message shown by the most recent frame, if any.
func (w *Window) LastException() string { return w.lastException }

func (w *Window) IsOpen() bool { return w.open }

// Close stops future callback invocations. It does not affect runs.
func (w *Window) Close() { w.open = false }

// Dispose drops the callback and then destroys the environment. It is
// idempotent.
func (w *Window) Dispose() {
	w.callback = nil
	w.open = false
	if w.env != nil {
		w.env.Destroy()
		w.env = nil
	}
}

func (w *Window) SetSize(s draw.Vec2) { w.size, w.geomDirty = s, true }
func (w *Window) Size() draw.Vec2     { return w.size }
func (w *Window) SetPos(p draw.Vec2)  { w.pos, w.geomDirty = p, true }
func (w *Window) Pos() draw.Vec2      { return w.pos }
