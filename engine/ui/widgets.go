package ui

import (
	"strconv"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
)

func (c *Context) frameHeight() float32 {
	return c.text.LineHeight() + 2*c.Style.FramePadding.Y
}

func (c *Context) frameWidth() float32 {
	return max(c.contentWidth()*c.Style.WidgetWidthFrac, 40)
}

func (c *Context) measure(s string) draw.Vec2 {
	if s == "" {
		return draw.Vec2{Y: c.text.LineHeight()}
	}
	w, h := c.text.Measure(s)
	return draw.Vec2{X: w, Y: max(h, c.text.LineHeight())}
}

// pick returns the colour for a widget's interaction state.
func pick(held, hovered bool, normal, hover, active colors.Color) uint32 {
	switch {
	case held:
		return active.Packed()
	case hovered:
		return hover.Packed()
	}
	return normal.Packed()
}

func (c *Context) Text(s string) { c.TextColored(c.Style.Text, s) }

func (c *Context) TextColored(col colors.Color, s string) {
	if c.cur == nil {
		return
	}
	sz := c.measure(s)
	c.cur.list.AddText(c.cur.cursor, col.Packed(), s)
	c.itemSize(sz)
}

// TextWrapped breaks s at the window's right edge.
func (c *Context) TextWrapped(s string) {
	if c.cur == nil {
		return
	}
	lines, width := wrapText(c.text, s, c.contentWidth())
	lh := c.text.LineHeight()
	pos := c.cur.cursor
	for i, line := range lines {
		c.cur.list.AddText(draw.V(pos.X, pos.Y+float32(i)*lh), c.Style.Text.Packed(), line)
	}
	c.itemSize(draw.V(width, lh*float32(max(len(lines), 1))))
}

func (c *Context) BulletText(s string) {
	if c.cur == nil {
		return
	}
	lh := c.text.LineHeight()
	pos := c.cur.cursor
	c.cur.list.AddCircleFilled(draw.V(pos.X+lh*0.5, pos.Y+lh*0.5), lh*0.2, c.Style.Text.Packed(), 0)
	c.cur.list.AddText(draw.V(pos.X+lh, pos.Y), c.Style.Text.Packed(), s)
	sz := c.measure(s)
	c.itemSize(draw.V(sz.X+lh, sz.Y))
}

func (c *Context) Button(label string) bool {
	return c.button(label, c.Style.FramePadding)
}

// SmallButton is a Button without vertical frame padding.
func (c *Context) SmallButton(label string) bool {
	return c.button(label, draw.V(c.Style.FramePadding.X, 0))
}

func (c *Context) button(label string, pad draw.Vec2) bool {
	if c.cur == nil {
		return false
	}
	text := displayLabel(label)
	ts := c.measure(text)
	r := rect{c.cur.cursor, add(c.cur.cursor, draw.V(ts.X+2*pad.X, ts.Y+2*pad.Y))}
	hovered, held, pressed := c.interact(c.id(label), r)
	c.cur.list.AddRectFilled(r.min, r.max, pick(held, hovered, c.Style.Button, c.Style.ButtonHovered, c.Style.ButtonActive), c.Style.FrameRounding, 0)
	c.cur.list.AddText(add(r.min, pad), c.Style.Text.Packed(), text)
	c.itemSize(draw.V(r.w(), r.h()))
	return pressed
}

// InvisibleButton is a clickable area with no visuals.
func (c *Context) InvisibleButton(id string, width, height float32) bool {
	if c.cur == nil {
		return false
	}
	r := rect{c.cur.cursor, add(c.cur.cursor, draw.V(width, height))}
	_, _, pressed := c.interact(c.id(id), r)
	c.itemSize(draw.V(width, height))
	return pressed
}

// Checkbox toggles *v when clicked and reports whether it changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	if c.cur == nil {
		return false
	}
	text := displayLabel(label)
	box := c.frameHeight()
	ts := c.measure(text)
	pos := c.cur.cursor
	r := rect{pos, add(pos, draw.V(box+c.Style.ItemSpacing.X+ts.X, box))}
	hovered, held, pressed := c.interact(c.id(label), r)
	if pressed {
		*v = !*v
	}
	l := &c.cur.list
	l.AddRectFilled(pos, add(pos, draw.V(box, box)), pick(held, hovered, c.Style.FrameBg, c.Style.FrameHovered, c.Style.FrameActive), c.Style.FrameRounding, 0)
	if *v {
		pad := box / 4
		a := draw.V(pos.X+pad, pos.Y+box*0.5)
		b := draw.V(pos.X+box*0.45, pos.Y+box-pad)
		e := draw.V(pos.X+box-pad, pos.Y+pad)
		l.AddLine(a, b, c.Style.CheckMark.Packed(), 2)
		l.AddLine(b, e, c.Style.CheckMark.Packed(), 2)
	}
	l.AddText(draw.V(pos.X+box+c.Style.ItemSpacing.X, pos.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), text)
	c.itemSize(draw.V(r.w(), r.h()))
	return pressed
}

// RadioButton reports a click; the caller owns the selection.
func (c *Context) RadioButton(label string, active bool) bool {
	if c.cur == nil {
		return false
	}
	text := displayLabel(label)
	box := c.frameHeight()
	ts := c.measure(text)
	pos := c.cur.cursor
	r := rect{pos, add(pos, draw.V(box+c.Style.ItemSpacing.X+ts.X, box))}
	hovered, held, pressed := c.interact(c.id(label), r)
	l := &c.cur.list
	center := draw.V(pos.X+box*0.5, pos.Y+box*0.5)
	l.AddCircleFilled(center, box*0.5, pick(held, hovered, c.Style.FrameBg, c.Style.FrameHovered, c.Style.FrameActive), 16)
	if active {
		l.AddCircleFilled(center, box*0.25, c.Style.CheckMark.Packed(), 16)
	}
	l.AddText(draw.V(pos.X+box+c.Style.ItemSpacing.X, pos.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), text)
	c.itemSize(draw.V(r.w(), r.h()))
	return pressed
}

// slider draws the frame and returns the grab fraction, moved by the mouse
// while the slider is held.
func (c *Context) slider(label string, t float32, value string) (float32, bool) {
	text := displayLabel(label)
	pos := c.cur.cursor
	fw, fh := c.frameWidth(), c.frameHeight()
	r := rect{pos, add(pos, draw.V(fw, fh))}
	hovered, held, _ := c.interact(c.id(label), r)

	l := &c.cur.list
	l.AddRectFilled(r.min, r.max, pick(held, hovered, c.Style.FrameBg, c.Style.FrameHovered, c.Style.FrameActive), c.Style.FrameRounding, 0)

	changed := false
	if held {
		nt := (c.mouse.X - r.min.X) / r.w()
		nt = min(max(nt, 0), 1)
		changed = nt != t
		t = nt
	}
	grab := c.Style.GrabMinSize
	gx := r.min.X + 2 + t*(r.w()-grab-4)
	l.AddRectFilled(draw.V(gx, r.min.Y+2), draw.V(gx+grab, r.max.Y-2), c.Style.SliderGrab.Packed(), c.Style.FrameRounding, 0)
	vs := c.measure(value)
	l.AddText(draw.V(r.min.X+(fw-vs.X)*0.5, r.min.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), value)
	if text != "" {
		l.AddText(draw.V(r.max.X+c.Style.ItemSpacing.X, r.min.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), text)
	}
	ts := c.measure(text)
	c.itemSize(draw.V(fw+c.Style.ItemSpacing.X+ts.X, fh))
	return t, changed
}

func (c *Context) SliderInt(label string, v *int, lo, hi int) bool {
	if c.cur == nil {
		return false
	}
	var t float32
	if hi != lo {
		t = float32(*v-lo) / float32(hi-lo)
	}
	nt, changed := c.slider(label, min(max(t, 0), 1), strconv.Itoa(*v))
	if !changed {
		return false
	}
	nv := lo + int(nt*float32(hi-lo)+0.5)
	if nv == *v {
		return false
	}
	*v = nv
	return true
}

func (c *Context) SliderFloat(label string, v *float32, lo, hi float32) bool {
	if c.cur == nil {
		return false
	}
	var t float32
	if hi != lo {
		t = (*v - lo) / (hi - lo)
	}
	nt, changed := c.slider(label, min(max(t, 0), 1), strconv.FormatFloat(float64(*v), 'f', 3, 32))
	if !changed {
		return false
	}
	*v = lo + nt*(hi-lo)
	return true
}

// ProgressBar fills fraction of a bar; non-positive sizes use the content
// width and frame height.
func (c *Context) ProgressBar(fraction, width, height float32) {
	if c.cur == nil {
		return
	}
	if width <= 0 {
		width = c.contentWidth()
	}
	if height <= 0 {
		height = c.frameHeight()
	}
	fraction = min(max(fraction, 0), 1)
	pos := c.cur.cursor
	l := &c.cur.list
	l.AddRectFilled(pos, add(pos, draw.V(width, height)), c.Style.FrameBg.Packed(), c.Style.FrameRounding, 0)
	if fraction > 0 {
		l.AddRectFilled(pos, add(pos, draw.V(width*fraction, height)), c.Style.PlotFill.Packed(), c.Style.FrameRounding, 0)
	}
	label := strconv.Itoa(int(fraction*100+0.01)) + "%"
	ls := c.measure(label)
	l.AddText(draw.V(pos.X+(width-ls.X)*0.5, pos.Y+(height-ls.Y)*0.5), c.Style.Text.Packed(), label)
	c.itemSize(draw.V(width, height))
}

func (c *Context) header(label string, framed bool) (open bool, id ID) {
	id = c.id(label)
	text := displayLabel(label)
	pos := c.cur.cursor
	h := c.frameHeight()
	r := rect{pos, add(pos, draw.V(c.contentWidth(), h))}
	hovered, held, pressed := c.interact(id, r)
	st := c.state[id]
	if pressed {
		st.open = !st.open
		c.state[id] = st
	}

	l := &c.cur.list
	if framed || hovered {
		l.AddRectFilled(r.min, r.max, pick(held, hovered, c.Style.Header, c.Style.HeaderHovered, c.Style.HeaderHovered), c.Style.FrameRounding, 0)
	}
	a := h * 0.25
	cx, cy := pos.X+h*0.5, pos.Y+h*0.5
	if st.open {
		l.AddTriangleFilled(draw.V(cx-a, cy-a*0.6), draw.V(cx+a, cy-a*0.6), draw.V(cx, cy+a*0.8), c.Style.Text.Packed())
	} else {
		l.AddTriangleFilled(draw.V(cx-a*0.6, cy-a), draw.V(cx+a*0.8, cy), draw.V(cx-a*0.6, cy+a), c.Style.Text.Packed())
	}
	l.AddText(draw.V(pos.X+h, pos.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), text)
	c.itemSize(draw.V(r.w(), h))
	return st.open, id
}

// TreeNode returns whether the node is expanded. An expanded node indents
// and scopes ids until the matching TreePop.
func (c *Context) TreeNode(label string) bool {
	if c.cur == nil {
		return false
	}
	open, id := c.header(label, false)
	if open {
		c.cur.idStack = append(c.cur.idStack, id)
		c.Indent()
	}
	return open
}

func (c *Context) TreePop() {
	w := c.cur
	if w == nil || len(w.idStack) == 0 {
		return
	}
	w.idStack = w.idStack[:len(w.idStack)-1]
	c.Unindent()
}

func (c *Context) CollapsingHeader(label string) bool {
	if c.cur == nil {
		return false
	}
	open, _ := c.header(label, true)
	return open
}

// Selectable is a full-width row highlighted when selected.
func (c *Context) Selectable(label string, selected bool) bool {
	if c.cur == nil {
		return false
	}
	text := displayLabel(label)
	pos := c.cur.cursor
	ts := c.measure(text)
	r := rect{pos, add(pos, draw.V(c.contentWidth(), ts.Y))}
	hovered, held, pressed := c.interact(c.id(label), r)
	if selected || hovered {
		l := &c.cur.list
		l.AddRectFilled(r.min, r.max, pick(held, hovered, c.Style.Header, c.Style.HeaderHovered, c.Style.HeaderHovered), 0, 0)
	}
	c.cur.list.AddText(pos, c.Style.Text.Packed(), text)
	c.itemSize(draw.V(r.w(), r.h()))
	return pressed
}

// Image draws tex at the cursor.
func (c *Context) Image(tex draw.TextureID, width, height float32) {
	if c.cur == nil {
		return
	}
	pos := c.cur.cursor
	c.cur.list.AddImage(tex, pos, add(pos, draw.V(width, height)), draw.V(0, 0), draw.V(1, 1), colors.White.Packed())
	c.itemSize(draw.V(width, height))
}
