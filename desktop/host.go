package desktop

import (
	"maps"

	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/config"
	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/profiler"
	"github.com/hubastard/buddy/engine/taskqueue"
	"github.com/hubastard/buddy/engine/ui"
	"github.com/hubastard/buddy/scripting/bindings"
	"github.com/hubastard/buddy/scripting/registry"
	"github.com/hubastard/buddy/scripting/scheduler"
	"github.com/hubastard/buddy/scripting/scriptwin"
)

type Options struct {
	Logger   zerolog.Logger
	Registry *registry.Registry
	Queue    *taskqueue.Queue
	Images   *bindings.ImageCache
	Fetcher  *bindings.Fetcher
	Text     ui.TextMeasurer
	Theme    config.Theme
	// Shortcuts maps tile slots to absolute script paths.
	Shortcuts         map[string]string
	MaxConcurrentRuns int
	// MaxCallStack bounds script recursion in runs and windows; 0 uses
	// the vm default.
	MaxCallStack int
	// OnShortcutsChanged receives a copy of the mapping after a pin or unpin.
	OnShortcutsChanged func(map[string]string)
}

// Host owns the UI context and every window, and drives the per-frame
// order: drain requests, reap runs, draw, drop closed windows.
type Host struct {
	log    zerolog.Logger
	reg    *registry.Registry
	queue  *taskqueue.Queue
	images *bindings.ImageCache
	sched  *scheduler.Scheduler
	ui     *ui.Context
	depth  int

	windows    []Window
	playground *Playground
	background *Background
	opened     int

	shortcuts   map[string]string
	onShortcuts func(map[string]string)
}

func New(o Options) *Host {
	if o.Queue == nil {
		o.Queue = taskqueue.New()
	}
	h := &Host{
		log:         o.Logger.With().Str("component", "desktop").Logger(),
		reg:         o.Registry,
		queue:       o.Queue,
		images:      o.Images,
		depth:       o.MaxCallStack,
		ui:          ui.New(o.Text, ui.DefaultStyle(colors.Color(o.Theme.Accent))),
		shortcuts:   maps.Clone(o.Shortcuts),
		onShortcuts: o.OnShortcutsChanged,
	}
	if h.shortcuts == nil {
		h.shortcuts = map[string]string{}
	}
	h.sched = scheduler.New(scheduler.Options{
		Logger:           o.Logger,
		Fetcher:          o.Fetcher,
		Windows:          h.Requests(),
		MaxConcurrent:    o.MaxConcurrentRuns,
		MaxCallStackSize: o.MaxCallStack,
	})
	h.playground = newPlayground(h)
	h.background = newBackground(h, o.Theme, o.Text)
	return h
}

func (h *Host) Scheduler() *scheduler.Scheduler { return h.sched }
func (h *Host) Registry() *registry.Registry    { return h.reg }
func (h *Host) UI() *ui.Context                 { return h.ui }
func (h *Host) Playground() *Playground         { return h.playground }

// Requests is how run environments ask for windows.
func (h *Host) Requests() bindings.WindowRequests {
	return bindings.WindowRequests{Queue: h.queue, Materialize: h.materialize}
}

func (h *Host) materialize(task bindings.DeferredWindowTask) {
	w, err := scriptwin.Materialize(task, scriptwin.Options{
		Logger:           h.log,
		Images:           h.images,
		Windows:          h.Requests(),
		MaxCallStackSize: h.depth,
	})
	if err != nil {
		return
	}
	h.Add(w)
}

// Add registers w; it is drawn from the next Compose on. New windows are
// cascaded so they do not cover each other.
func (h *Host) Add(w Window) {
	if p, ok := w.(Positioner); ok {
		step := float32(h.opened%10) * 24
		p.SetPos(draw.V(p.Pos().X+step, p.Pos().Y+step))
	}
	h.opened++
	h.windows = append(h.windows, w)
}

func (h *Host) Windows() []Window { return h.windows }

// Pump runs queued requests and reaps finished runs. It must run before
// the frame's Compose.
func (h *Host) Pump() {
	end := profiler.Start("desktop.Pump")
	defer end()
	if n := h.queue.Drain(); n > 0 {
		h.log.Debug().Int("tasks", n).Msg("drained")
	}
	for _, r := range h.sched.PollCompletions() {
		h.log.Debug().Str("run", r.ID).Str("script", r.Script.Name).Msg("run reaped")
	}
}

// Compose builds the frame: background first, then windows back to front.
func (h *Host) Compose(in ui.InputSource, width, height float32) []*draw.List {
	end := profiler.Start("desktop.Compose")
	defer end()

	h.ui.NewFrame(in)
	bg := h.background.Build(in, h.ui.WantsMouse(), width, height)
	h.playground.Draw(h.ui)
	for _, w := range h.windows {
		drawEnd := profiler.Start("desktop.DrawWindow")
		w.Draw(h.ui)
		drawEnd()
	}
	lists := h.ui.Render()
	h.reap()
	return append([]*draw.List{bg}, lists...)
}

func (h *Host) reap() {
	keep := h.windows[:0]
	for _, w := range h.windows {
		if w.IsOpen() {
			keep = append(keep, w)
			continue
		}
		if d, ok := w.(Disposer); ok {
			d.Dispose()
		}
	}
	clear(h.windows[len(keep):])
	h.windows = keep
}

// RequestRescan schedules a registry rescan on the render goroutine. Safe
// from any goroutine.
func (h *Host) RequestRescan() {
	h.queue.Push(h.Rescan)
}

// Rescan replaces the registry contents. Render goroutine only.
func (h *Host) Rescan() {
	if h.reg == nil {
		return
	}
	if err := h.reg.Rescan(); err != nil {
		h.playground.status = "rescan failed: " + err.Error()
	}
}

// Run starts script unless it is missing from the registry.
func (h *Host) Run(path string) bool {
	if h.reg == nil {
		return false
	}
	s, ok := h.reg.Lookup(path)
	if !ok {
		h.log.Warn().Str("path", path).Msg("run of unknown script")
		return false
	}
	h.sched.RunAsync(s)
	return true
}

// Shortcuts returns a copy of the slot mapping.
func (h *Host) Shortcuts() map[string]string { return maps.Clone(h.shortcuts) }

// Pin puts path on the first free slot and returns it; a path already
// pinned keeps its slot.
func (h *Host) Pin(path string) string {
	for slot, p := range h.shortcuts {
		if p == path {
			return slot
		}
	}
	slot := freeSlot(h.shortcuts)
	h.shortcuts[slot] = path
	h.shortcutsChanged()
	return slot
}

func (h *Host) Unpin(path string) {
	for slot, p := range h.shortcuts {
		if p == path {
			delete(h.shortcuts, slot)
			h.shortcutsChanged()
			return
		}
	}
}

func (h *Host) shortcutsChanged() {
	if h.onShortcuts != nil {
		h.onShortcuts(h.Shortcuts())
	}
}

// Close disposes every window.
func (h *Host) Close() {
	for _, w := range h.windows {
		if d, ok := w.(Disposer); ok {
			d.Dispose()
		}
	}
	h.windows = nil
}
