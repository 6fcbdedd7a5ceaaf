package ui

import (
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

type window struct {
	title     string
	pos, size draw.Vec2
	list      draw.List
	lastFrame int64

	cursor    draw.Vec2 // next item position (screen space)
	lineH     float32   // height of items already placed on the current line
	prevEnd   draw.Vec2 // top-right of the last item
	prevLineH float32
	indent    float32
	idStack   []ID
}

func (w *window) rect() rect { return rect{w.pos, add(w.pos, w.size)} }

type nextWindow struct {
	pos, size       draw.Vec2
	hasPos, hasSize bool
}

// SetNextWindowPos sets the position used when the next Begin creates its
// window. Existing windows keep their position.
func (c *Context) SetNextWindowPos(p draw.Vec2) { c.next.pos, c.next.hasPos = p, true }

// SetNextWindowSize is the size counterpart of SetNextWindowPos.
func (c *Context) SetNextWindowSize(s draw.Vec2) { c.next.size, c.next.hasSize = s, true }

// WindowGeometry reports the position and size of a known window.
func (c *Context) WindowGeometry(title string) (pos, size draw.Vec2, ok bool) {
	w, ok := c.windows[title]
	if !ok {
		return draw.Vec2{}, draw.Vec2{}, false
	}
	return w.pos, w.size, true
}

// SetWindowGeometry moves and resizes a window; zero size keeps the current one.
func (c *Context) SetWindowGeometry(title string, pos, size draw.Vec2) {
	w, ok := c.windows[title]
	if !ok {
		return
	}
	w.pos = pos
	if size.X > 0 && size.Y > 0 {
		w.size = size
	}
}

func (c *Context) titleBarHeight() float32 {
	return c.text.LineHeight() + 2*c.Style.FramePadding.Y
}

// Begin opens the window keyed by title and makes it current. When open is
// non-nil a close button is shown and clicking it clears *open. Every Begin
// must be paired with End.
func (c *Context) Begin(title string, open *bool) bool {
	w, ok := c.windows[title]
	if !ok {
		w = &window{title: title, pos: c.Style.DefaultWinPos, size: c.Style.DefaultWinSize}
		if c.next.hasPos {
			w.pos = c.next.pos
		}
		if c.next.hasSize {
			w.size = c.next.size
		}
		c.windows[title] = w
		c.order = append(c.order, w)
	}
	c.next = nextWindow{}
	w.lastFrame = c.frame
	w.list.Reset()
	w.idStack = w.idStack[:0]
	w.indent = 0

	c.stack = append(c.stack, w)
	c.cur = w

	st := &c.Style
	tb := c.titleBarHeight()
	r := w.rect()
	barR := rect{r.min, draw.Vec2{X: r.max.X, Y: r.min.Y + tb}}
	closeSz := tb - 2*st.FramePadding.Y
	closeR := rect{
		draw.Vec2{X: r.max.X - st.FramePadding.X - closeSz, Y: r.min.Y + st.FramePadding.Y},
		draw.Vec2{X: r.max.X - st.FramePadding.X, Y: r.min.Y + st.FramePadding.Y + closeSz},
	}
	gripR := rect{sub(r.max, draw.Vec2{X: st.ResizeGripSize, Y: st.ResizeGripSize}), r.max}

	closeHovered, closed := false, false
	if open != nil {
		closeHovered, _, closed = c.interact(c.id("#CLOSE"), closeR)
		if closed {
			*open = false
		}
	}
	if c.hovered == w && c.in.IsMousePressed(core.MouseLeft) && c.dragging == nil && c.resizing == nil && !closeHovered {
		switch {
		case barR.contains(c.mouse):
			c.dragging = w
			c.dragOff = sub(c.mouse, w.pos)
		case gripR.contains(c.mouse):
			c.resizing = w
			c.dragOff = sub(r.max, c.mouse)
		}
	}

	l := &w.list
	titleBg := st.TitleBg
	if c.focused == w {
		titleBg = st.TitleBgActive
	}
	l.AddRectFilled(r.min, r.max, st.WindowBg.Packed(), st.WindowRounding, 0)
	l.AddRectFilled(barR.min, barR.max, titleBg.Packed(), st.WindowRounding, draw.RoundCornersTopLeft|draw.RoundCornersTopRight)
	l.AddRect(r.min, r.max, st.Border.Packed(), st.WindowRounding, 0, 1)
	l.AddText(add(r.min, st.FramePadding), st.Text.Packed(), displayLabel(title))
	if open != nil {
		if closeHovered {
			l.AddCircleFilled(draw.V((closeR.min.X+closeR.max.X)/2, (closeR.min.Y+closeR.max.Y)/2), closeSz/2, st.ButtonHovered.Packed(), 12)
		}
		in := closeSz * 0.25
		a, b := add(closeR.min, draw.V(in, in)), sub(closeR.max, draw.V(in, in))
		l.AddLine(a, b, st.Text.Packed(), 1)
		l.AddLine(draw.V(b.X, a.Y), draw.V(a.X, b.Y), st.Text.Packed(), 1)
	}
	l.AddTriangleFilled(r.max, draw.V(r.max.X-st.ResizeGripSize, r.max.Y), draw.V(r.max.X, r.max.Y-st.ResizeGripSize), st.Button.Packed())

	w.cursor = draw.Vec2{X: r.min.X + st.WindowPadding.X, Y: r.min.Y + tb + st.WindowPadding.Y}
	w.lineH, w.prevLineH = 0, 0
	w.prevEnd = w.cursor
	return true
}

// End closes the current window.
func (c *Context) End() {
	if len(c.stack) == 0 {
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.cur = nil
	if n := len(c.stack); n > 0 {
		c.cur = c.stack[n-1]
	}
}

// WindowDrawList is the draw target of the current window, nil outside
// Begin/End.
func (c *Context) WindowDrawList() *draw.List {
	if c.cur == nil {
		return nil
	}
	return &c.cur.list
}

// CursorScreenPos is where the next item will be placed.
func (c *Context) CursorScreenPos() draw.Vec2 {
	if c.cur == nil {
		return draw.Vec2{}
	}
	return c.cur.cursor
}

func (c *Context) contentWidth() float32 {
	w := c.cur
	return max(w.pos.X+w.size.X-c.Style.WindowPadding.X-w.cursor.X, 1)
}

// itemSize reserves sz at the cursor and moves it to the next line.
func (c *Context) itemSize(sz draw.Vec2) {
	w := c.cur
	h := max(sz.Y, w.lineH)
	w.prevEnd = draw.Vec2{X: w.cursor.X + sz.X, Y: w.cursor.Y}
	w.prevLineH = h
	w.cursor = draw.Vec2{
		X: w.pos.X + c.Style.WindowPadding.X + w.indent,
		Y: w.cursor.Y + h + c.Style.ItemSpacing.Y,
	}
	w.lineH = 0
}

// SameLine places the next item to the right of the previous one. A
// positive offset is measured from the content's left edge.
func (c *Context) SameLine(offset float32) {
	w := c.cur
	if w == nil {
		return
	}
	x := w.prevEnd.X + c.Style.ItemSpacing.X
	if offset > 0 {
		x = w.pos.X + c.Style.WindowPadding.X + offset
	}
	w.cursor = draw.Vec2{X: x, Y: w.prevEnd.Y}
	w.lineH = w.prevLineH
}

func (c *Context) NewLine() {
	if c.cur == nil {
		return
	}
	c.itemSize(draw.Vec2{Y: c.text.LineHeight()})
}

func (c *Context) Spacing() {
	if c.cur == nil {
		return
	}
	c.itemSize(draw.Vec2{Y: c.Style.ItemSpacing.Y})
}

func (c *Context) Dummy(width, height float32) {
	if c.cur == nil {
		return
	}
	c.itemSize(draw.Vec2{X: width, Y: height})
}

func (c *Context) Separator() {
	w := c.cur
	if w == nil {
		return
	}
	y := w.cursor.Y + 1
	x0 := w.pos.X + c.Style.WindowPadding.X
	w.list.AddLine(draw.V(x0, y), draw.V(w.pos.X+w.size.X-c.Style.WindowPadding.X, y), c.Style.Separator.Packed(), 1)
	c.itemSize(draw.Vec2{X: w.size.X - 2*c.Style.WindowPadding.X, Y: 2})
}

func (c *Context) Indent() {
	if w := c.cur; w != nil {
		w.indent += c.Style.IndentSpacing
		w.cursor.X += c.Style.IndentSpacing
	}
}

func (c *Context) Unindent() {
	if w := c.cur; w != nil {
		w.indent -= c.Style.IndentSpacing
		w.cursor.X -= c.Style.IndentSpacing
	}
}
