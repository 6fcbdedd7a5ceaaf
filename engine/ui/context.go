// Package ui is a small immediate-mode GUI. Every call records into the
// draw list of the window opened by the surrounding Begin/End pair; nothing
// is retained between frames except per-widget interaction state keyed by
// window and label. A Context must only be used from one goroutine.
package ui

import (
	"hash/fnv"

	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

type TextMeasurer interface {
	Measure(s string) (w, h float32)
	LineHeight() float32
}

// InputSource is the per-frame input snapshot. *core.Input implements it.
type InputSource interface {
	Mouse() (float64, float64)
	IsMouseDown(b core.MouseButton) bool
	IsMousePressed(b core.MouseButton) bool
	IsMouseReleased(b core.MouseButton) bool
	IsKeyDown(k core.Key) bool
	IsKeyPressed(k core.Key, repeat bool) bool
	Chars() []rune
	Scroll() float64
}

// ID identifies a widget across frames.
type ID uint64

type widgetState struct {
	hot  bool
	open bool
}

type Context struct {
	Style Style

	text  TextMeasurer
	in    InputSource
	frame int64
	mouse draw.Vec2

	windows map[string]*window
	order   []*window // back to front
	cur     *window
	stack   []*window
	hovered *window
	focused *window
	next    nextWindow

	state   map[ID]widgetState
	active  ID
	claimed bool // a widget took this frame's mouse press
	editing ID
	editBuf []rune

	dragging *window
	resizing *window
	dragOff  draw.Vec2
}

func New(text TextMeasurer, style Style) *Context {
	return &Context{
		Style:   style,
		text:    text,
		windows: make(map[string]*window),
		state:   make(map[ID]widgetState, 256),
	}
}

// NewFrame starts a frame against the given input snapshot.
func (c *Context) NewFrame(in InputSource) {
	c.in = in
	c.frame++
	c.cur = nil
	c.stack = c.stack[:0]
	c.claimed = false
	mx, my := in.Mouse()
	c.mouse = draw.Vec2{X: float32(mx), Y: float32(my)}

	c.hovered = nil
	for i := len(c.order) - 1; i >= 0; i-- {
		w := c.order[i]
		if w.lastFrame == c.frame-1 && w.rect().contains(c.mouse) {
			c.hovered = w
			break
		}
	}

	if in.IsMousePressed(core.MouseLeft) {
		if c.hovered != nil {
			c.focus(c.hovered)
		} else {
			c.focused = nil
		}
	}
	if !in.IsMouseDown(core.MouseLeft) {
		c.dragging, c.resizing = nil, nil
	}
	if c.dragging != nil {
		c.dragging.pos = sub(c.mouse, c.dragOff)
	}
	if c.resizing != nil {
		r := c.resizing
		r.size.X = max(c.mouse.X-r.pos.X+c.dragOff.X, c.Style.MinWindowSize.X)
		r.size.Y = max(c.mouse.Y-r.pos.Y+c.dragOff.Y, c.Style.MinWindowSize.Y)
	}
}

// Render ends the frame and returns the draw lists of every window
// submitted this frame, back to front.
func (c *Context) Render() []*draw.List {
	if c.in != nil && c.in.IsMousePressed(core.MouseLeft) && !c.claimed {
		c.editing = 0
	}
	if c.in != nil && c.in.IsMouseReleased(core.MouseLeft) {
		c.active = 0
	}
	out := make([]*draw.List, 0, len(c.order))
	for _, w := range c.order {
		if w.lastFrame == c.frame {
			out = append(out, &w.list)
		}
	}
	return out
}

// Frame is the number of frames started so far.
func (c *Context) Frame() int64 { return c.frame }

func (c *Context) IsKeyPressed(k core.Key, repeat bool) bool {
	return c.in != nil && c.in.IsKeyPressed(k, repeat)
}

// IsWindowFocused reports whether the current window has focus.
func (c *Context) IsWindowFocused() bool { return c.cur != nil && c.cur == c.focused }

// FocusedWindow returns the title of the focused window, if any.
func (c *Context) FocusedWindow() (string, bool) {
	if c.focused == nil {
		return "", false
	}
	return c.focused.title, true
}

func (c *Context) focus(w *window) {
	c.focused = w
	for i, o := range c.order {
		if o == w {
			copy(c.order[i:], c.order[i+1:])
			c.order[len(c.order)-1] = w
			break
		}
	}
}

// id hashes label within the current window and tree scope.
func (c *Context) id(label string) ID {
	h := fnv.New64a()
	if c.cur != nil {
		_, _ = h.Write([]byte(c.cur.title))
		if n := len(c.cur.idStack); n > 0 {
			var b [8]byte
			v := uint64(c.cur.idStack[n-1])
			for i := range b {
				b[i] = byte(v >> (8 * i))
			}
			_, _ = h.Write(b[:])
		}
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(label))
	return ID(h.Sum64())
}

// displayLabel strips the "##suffix" used to disambiguate ids.
func displayLabel(label string) string {
	for i := 0; i+1 < len(label); i++ {
		if label[i] == '#' && label[i+1] == '#' {
			return label[:i]
		}
	}
	return label
}

// interact implements press-inside, release-inside click semantics.
func (c *Context) interact(id ID, r rect) (hovered, held, pressed bool) {
	hovered = c.cur != nil && c.cur == c.hovered && c.dragging == nil && c.resizing == nil && r.contains(c.mouse)
	st := c.state[id]
	if hovered && c.in.IsMousePressed(core.MouseLeft) {
		c.active = id
		c.claimed = true
	}
	if c.active == id {
		held = c.in.IsMouseDown(core.MouseLeft)
		if c.in.IsMouseReleased(core.MouseLeft) {
			pressed = hovered
			held = false
			c.active = 0
		}
	}
	if st.hot != hovered {
		st.hot = hovered
		c.state[id] = st
	}
	return hovered, held, pressed
}

type rect struct{ min, max draw.Vec2 }

func (r rect) contains(p draw.Vec2) bool {
	return p.X >= r.min.X && p.X < r.max.X && p.Y >= r.min.Y && p.Y < r.max.Y
}

func (r rect) w() float32 { return r.max.X - r.min.X }
func (r rect) h() float32 { return r.max.Y - r.min.Y }

func add(a, b draw.Vec2) draw.Vec2 { return draw.Vec2{X: a.X + b.X, Y: a.Y + b.Y} }
func sub(a, b draw.Vec2) draw.Vec2 { return draw.Vec2{X: a.X - b.X, Y: a.Y - b.Y} }

// WantsMouse reports whether the mouse is over, or dragging, a window that
// was submitted last frame. Valid after NewFrame.
func (c *Context) WantsMouse() bool {
	return c.hovered != nil || c.dragging != nil || c.resizing != nil
}
