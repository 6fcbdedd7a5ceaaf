// Package bindings installs the native API scripts see.
//
// Two environments exist. A run environment (one per script run, on a
// worker goroutine) gets console, http_get and a ui object holding only
// create_window and the key constants. A window environment (one per
// script window, on the UI goroutine) gets console with a discarding sink
// and the full ui object: drawing, widgets and images. Drawing functions
// are never installed into run environments because the UI library is
// single-goroutine.
package bindings

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/hubastard/buddy/engine/taskqueue"
	"github.com/hubastard/buddy/engine/ui"
	"github.com/hubastard/buddy/scripting/vm"
)

// RunOptions configures a run environment.
type RunOptions struct {
	Output  Sink
	Fetcher *Fetcher
	Windows WindowRequests
}

// WindowOptions configures a window environment.
type WindowOptions struct {
	// UI returns the context of the frame being drawn.
	UI      func() *ui.Context
	Images  *ImageCache
	Windows WindowRequests
}

// WindowRequests carries create_window requests to the UI goroutine.
type WindowRequests struct {
	Queue *taskqueue.Queue
	// Materialize runs on the UI goroutine when the queue is drained.
	Materialize func(DeferredWindowTask)
}

// InstallRun installs the console, network and window-request tiers.
func InstallRun(env *vm.Env, o RunOptions) error {
	if err := InstallConsole(env, o.Output); err != nil {
		return err
	}
	if o.Fetcher != nil {
		if err := InstallNetwork(env, o.Fetcher); err != nil {
			return err
		}
	}
	obj := env.NewObject()
	installWindowRequests(env, obj, o.Windows)
	installKeyConstants(obj)
	return setGlobal(env, "ui", obj)
}

// InstallWindow installs the full ui object and returns it; it is also the
// argument passed to the window callback.
func InstallWindow(env *vm.Env, o WindowOptions) (*goja.Object, error) {
	if err := InstallConsole(env, Discard); err != nil {
		return nil, err
	}
	obj := env.NewObject()
	installWindowRequests(env, obj, o.Windows)
	installKeyConstants(obj)
	u := &uiBinding{ui: o.UI, images: o.Images}
	u.installWidgets(env, obj)
	u.installDrawing(env, obj)
	u.installImages(env, obj)
	if err := setGlobal(env, "ui", obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func setGlobal(env *vm.Env, name string, v any) error {
	if err := env.SetGlobal(name, v); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}
	return nil
}

type uiBinding struct {
	ui     func() *ui.Context
	images *ImageCache
}

func (u *uiBinding) ctx() *ui.Context {
	if u.ui == nil {
		return nil
	}
	return u.ui()
}
