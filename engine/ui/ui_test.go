package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

// mono measures 8px per rune and 16px per line.
type mono struct{}

func (mono) Measure(s string) (float32, float32) {
	lines := strings.Split(s, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	return float32(w * 8), float32(16 * len(lines))
}

func (mono) LineHeight() float32 { return 16 }

type harness struct {
	t   *testing.T
	ctx *Context
	in  *core.Input
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, ctx: New(mono{}, DefaultStyle(colors.Blue)), in: core.NewInput()}
}

func (h *harness) frame(body func(c *Context)) []*draw.List {
	h.ctx.NewFrame(h.in)
	body(h.ctx)
	lists := h.ctx.Render()
	h.in.EndFrame()
	return lists
}

func (h *harness) move(x, y float64) { h.in.Handle(core.EventMouseMove{X: x, Y: y}) }
func (h *harness) press()           { h.in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: true}) }
func (h *harness) release()         { h.in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: false}) }
func (h *harness) click(x, y float64) {
	h.move(x, y)
	h.press()
	h.release()
}

// With the default style a new window sits at (100,100) with a 22px title
// bar, so content starts at (108,130).

func TestButtonClickNeedsPressAndReleaseInside(t *testing.T) {
	h := newHarness(t)
	var clicked bool
	body := func(c *Context) {
		c.Begin("T", nil)
		clicked = c.Button("OK")
		c.End()
	}
	h.frame(body)
	assert.False(t, clicked)

	h.click(115, 140)
	h.frame(body)
	assert.True(t, clicked)

	h.frame(body)
	assert.False(t, clicked, "one click reports once")

	h.move(115, 140)
	h.press()
	h.frame(body)
	h.move(300, 300)
	h.release()
	h.frame(body)
	assert.False(t, clicked, "released outside")
}

func TestCloseButtonClearsOpen(t *testing.T) {
	h := newHarness(t)
	open := true
	body := func(c *Context) {
		c.Begin("Closable", &open)
		c.End()
	}
	h.frame(body)
	h.click(488, 110)
	h.frame(body)
	assert.False(t, open)
}

func TestRenderReturnsOnlySubmittedWindows(t *testing.T) {
	h := newHarness(t)
	lists := h.frame(func(c *Context) {
		c.Begin("A", nil)
		c.End()
		c.Begin("B", nil)
		c.End()
	})
	require.Len(t, lists, 2)

	lists = h.frame(func(c *Context) {
		c.Begin("B", nil)
		c.Text("hello")
		c.End()
	})
	require.Len(t, lists, 1)
	assert.Equal(t, draw.KindText, lists[0].Commands()[lists[0].Len()-1].Kind)
}

func TestLayoutCursor(t *testing.T) {
	h := newHarness(t)
	h.frame(func(c *Context) {
		c.Begin("L", nil)
		assert.Equal(t, draw.V(108, 130), c.CursorScreenPos())
		c.Text("ab")
		assert.Equal(t, draw.V(108, 150), c.CursorScreenPos())
		c.SameLine(0)
		assert.Equal(t, draw.V(132, 130), c.CursorScreenPos())
		c.Dummy(10, 40)
		assert.Equal(t, draw.V(108, 174), c.CursorScreenPos(), "line height is the tallest item")
		c.End()
		assert.Equal(t, draw.Vec2{}, c.CursorScreenPos())
		assert.Nil(t, c.WindowDrawList())
	})
}

func TestCheckboxToggles(t *testing.T) {
	h := newHarness(t)
	v := false
	var changed bool
	body := func(c *Context) {
		c.Begin("C", nil)
		changed = c.Checkbox("flag", &v)
		c.End()
	}
	h.frame(body)
	h.click(112, 135)
	h.frame(body)
	assert.True(t, changed)
	assert.True(t, v)
}

func TestSliderFollowsMouse(t *testing.T) {
	h := newHarness(t)
	v := 0
	body := func(c *Context) {
		c.Begin("S", nil)
		c.SliderInt("n", &v, 0, 100)
		c.End()
	}
	h.frame(body)
	// frame width is 65% of the 384px content width
	h.move(108+249.6*0.5, 140)
	h.press()
	h.frame(body)
	assert.Equal(t, 50, v)
}

func TestInputTextEditsAfterClick(t *testing.T) {
	h := newHarness(t)
	s := "x"
	var changed bool
	body := func(c *Context) {
		c.Begin("I", nil)
		changed = c.InputText("name", &s)
		c.End()
	}
	h.frame(body)
	h.click(150, 140)
	h.frame(body)
	assert.False(t, changed)

	h.in.Handle(core.EventChar{Rune: 'h'})
	h.in.Handle(core.EventChar{Rune: 'i'})
	h.frame(body)
	assert.True(t, changed)
	assert.Equal(t, "xhi", s)

	h.in.Handle(core.EventKey{Key: core.KeyBackspace, Down: true})
	h.frame(body)
	assert.Equal(t, "xh", s)

	h.click(450, 350)
	h.frame(body)
	h.in.Handle(core.EventChar{Rune: 'z'})
	h.frame(body)
	assert.Equal(t, "xh", s, "focus lost on outside click")
}

func TestTreeNodeTogglesAndScopesIDs(t *testing.T) {
	h := newHarness(t)
	var open bool
	var inner ID
	body := func(c *Context) {
		c.Begin("Tree", nil)
		open = c.TreeNode("node")
		if open {
			inner = c.id("child")
			c.TreePop()
		}
		c.End()
	}
	h.frame(body)
	assert.False(t, open)
	h.click(120, 140)
	h.frame(body)
	assert.True(t, open)

	h.frame(func(c *Context) {
		c.Begin("Tree", nil)
		assert.NotEqual(t, inner, c.id("child"))
		c.End()
	})
}

func TestTitleBarDragMovesWindow(t *testing.T) {
	h := newHarness(t)
	body := func(c *Context) {
		c.Begin("D", nil)
		c.End()
	}
	h.frame(body)
	h.move(150, 110)
	h.press()
	h.frame(body)
	h.move(250, 210)
	h.frame(body)
	pos, _, ok := h.ctx.WindowGeometry("D")
	require.True(t, ok)
	assert.Equal(t, draw.V(200, 200), pos)
}

func TestFocusFollowsClick(t *testing.T) {
	h := newHarness(t)
	var focusedA, focusedB bool
	h.ctx.SetNextWindowPos(draw.V(600, 100))
	body := func(c *Context) {
		c.Begin("A", nil)
		focusedA = c.IsWindowFocused()
		c.End()
		c.Begin("B", nil)
		focusedB = c.IsWindowFocused()
		c.End()
	}
	h.frame(body)
	assert.False(t, focusedA)

	h.click(650, 200)
	h.frame(body)
	assert.True(t, focusedA)
	assert.False(t, focusedB)
	title, ok := h.ctx.FocusedWindow()
	assert.True(t, ok)
	assert.Equal(t, "A", title)
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Run", displayLabel("Run##hello.js"))
	assert.Equal(t, "", displayLabel("##hidden"))
	assert.Equal(t, "plain", displayLabel("plain"))
}

func TestWrapText(t *testing.T) {
	lines, w := wrapText(mono{}, "aaa bbb ccc", 60)
	assert.Equal(t, []string{"aaa bbb", "ccc"}, lines)
	assert.Equal(t, float32(56), w)
}

func TestWantsMouse(t *testing.T) {
	h := newHarness(t)
	body := func(c *Context) {
		c.Begin("W", nil)
		c.End()
	}
	h.frame(body)
	h.move(5, 5)
	h.frame(body)
	assert.False(t, h.ctx.WantsMouse())

	h.move(150, 150)
	h.frame(body)
	assert.True(t, h.ctx.WantsMouse())
}
