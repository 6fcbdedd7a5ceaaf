package ui

import (
	"strconv"

	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

// editField is the shared single/multi-line editor. The edit buffer is the
// source of truth while the field has keyboard focus.
func (c *Context) editField(label, value string, multiline bool, size draw.Vec2) (string, bool) {
	id := c.id(label)
	text := displayLabel(label)
	pos := c.cur.cursor
	r := rect{pos, add(pos, size)}
	hovered, _, _ := c.interact(id, r)
	if hovered && c.in.IsMousePressed(core.MouseLeft) && c.editing != id {
		c.editing = id
		c.editBuf = append(c.editBuf[:0], []rune(value)...)
	}

	changed := false
	editing := c.editing == id
	if editing {
		for _, ch := range c.in.Chars() {
			if ch < 32 || ch == 127 {
				continue
			}
			c.editBuf = append(c.editBuf, ch)
			changed = true
		}
		if c.in.IsKeyPressed(core.KeyBackspace, true) && len(c.editBuf) > 0 {
			c.editBuf = c.editBuf[:len(c.editBuf)-1]
			changed = true
		}
		if c.in.IsKeyPressed(core.KeyEnter, true) {
			if multiline {
				c.editBuf = append(c.editBuf, '\n')
				changed = true
			} else {
				c.editing = 0
			}
		}
		if c.in.IsKeyPressed(core.KeyEscape, false) {
			c.editing = 0
		}
		value = string(c.editBuf)
	}

	l := &c.cur.list
	bg := c.Style.FrameBg
	if editing {
		bg = c.Style.FrameActive
	} else if hovered {
		bg = c.Style.FrameHovered
	}
	l.AddRectFilled(r.min, r.max, bg.Packed(), c.Style.FrameRounding, 0)
	tp := add(r.min, c.Style.FramePadding)
	l.AddText(tp, c.Style.Text.Packed(), value)
	if editing && (c.frame/30)%2 == 0 {
		caret := c.caretPos(tp, value)
		l.AddLine(caret, draw.V(caret.X, caret.Y+c.text.LineHeight()), c.Style.Text.Packed(), 1)
	}
	ts := c.measure(text)
	if text != "" {
		l.AddText(draw.V(r.max.X+c.Style.ItemSpacing.X, r.min.Y+c.Style.FramePadding.Y), c.Style.Text.Packed(), text)
	}
	c.itemSize(draw.V(size.X+c.Style.ItemSpacing.X+ts.X, size.Y))
	return value, changed
}

func (c *Context) caretPos(origin draw.Vec2, value string) draw.Vec2 {
	last := value
	lines := 0
	for i := len(value) - 1; i >= 0; i-- {
		if value[i] == '\n' {
			if lines == 0 {
				last = value[i+1:]
			}
			lines++
		}
	}
	w, _ := c.text.Measure(last)
	if last == "" {
		w = 0
	}
	return draw.V(origin.X+w, origin.Y+float32(lines)*c.text.LineHeight())
}

// InputText edits *v in place and reports whether it changed this frame.
func (c *Context) InputText(label string, v *string) bool {
	if c.cur == nil {
		return false
	}
	nv, changed := c.editField(label, *v, false, draw.V(c.frameWidth(), c.frameHeight()))
	*v = nv
	return changed
}

// InputTextMultiline is InputText where Enter inserts a newline.
// Non-positive sizes fill the content area.
func (c *Context) InputTextMultiline(label string, v *string, width, height float32) bool {
	if c.cur == nil {
		return false
	}
	if width <= 0 {
		width = c.contentWidth()
	}
	if height <= 0 {
		height = c.text.LineHeight()*8 + 2*c.Style.FramePadding.Y
	}
	nv, changed := c.editField(label, *v, true, draw.V(width, height))
	*v = nv
	return changed
}

func (c *Context) InputInt(label string, v *int) bool {
	if c.cur == nil {
		return false
	}
	s, changed := c.editField(label, strconv.Itoa(*v), false, draw.V(c.frameWidth(), c.frameHeight()))
	if !changed {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == *v {
		return false
	}
	*v = n
	return true
}

func (c *Context) InputFloat(label string, v *float32) bool {
	if c.cur == nil {
		return false
	}
	s, changed := c.editField(label, strconv.FormatFloat(float64(*v), 'f', 3, 32), false, draw.V(c.frameWidth(), c.frameHeight()))
	if !changed {
		return false
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || float32(f) == *v {
		return false
	}
	*v = float32(f)
	return true
}
