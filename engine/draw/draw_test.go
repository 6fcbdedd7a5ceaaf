package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countSink struct {
	tris int
	tex  map[TextureID]int
	last [3]Vertex
}

func (s *countSink) Triangle(tex TextureID, v [3]Vertex) {
	if s.tex == nil {
		s.tex = map[TextureID]int{}
	}
	s.tris++
	s.tex[tex]++
	s.last = v
}

func TestListRecordsArguments(t *testing.T) {
	var l List
	l.AddRect(V(1, 2), V(3, 4), 0xFF0000FF, 0, 0, 1)
	l.AddCircleFilled(V(10, 10), 5, 0xFFFFFFFF, 0)
	l.AddText(V(0, 0), 0xFFFFFFFF, "")

	cmds := l.Commands()
	require.Len(t, cmds, 2, "empty text is not recorded")
	assert.Equal(t, KindRect, cmds[0].Kind)
	assert.Equal(t, []Vec2{{1, 2}, {3, 4}}, cmds[0].Points)
	assert.Equal(t, float32(1), cmds[0].Thickness)
	assert.Equal(t, Vec2{5, 5}, cmds[1].Radius)

	l.Reset()
	assert.Zero(t, l.Len())
}

func TestAutoSegments(t *testing.T) {
	assert.Equal(t, 4, AutoSegments(0))
	small, big := AutoSegments(2), AutoSegments(200)
	assert.Less(t, small, big)
	assert.Zero(t, big%2)
	assert.LessOrEqual(t, AutoSegments(1e9), 512)
}

func TestTessellateShapes(t *testing.T) {
	cases := []struct {
		name  string
		build func(l *List)
		tris  int
	}{
		{"line", func(l *List) { l.AddLine(V(0, 0), V(10, 0), 0xFFFFFFFF, 2) }, 2},
		{"square rect", func(l *List) { l.AddRect(V(0, 0), V(10, 10), 0xFFFFFFFF, 0, 0, 1) }, 8},
		{"filled rect", func(l *List) { l.AddRectFilled(V(0, 0), V(10, 10), 0xFFFFFFFF, 0, 0) }, 2},
		{"multi colour", func(l *List) { l.AddRectFilledMultiColor(V(0, 0), V(10, 10), 1, 2, 3, 4) }, 2},
		{"filled hexagon", func(l *List) { l.AddNgonFilled(V(0, 0), 10, 0xFFFFFFFF, 6) }, 4},
		{"degenerate ngon", func(l *List) { l.AddNgon(V(0, 0), 10, 0xFFFFFFFF, 2, 1) }, 0},
		{"triangle", func(l *List) { l.AddTriangleFilled(V(0, 0), V(1, 0), V(0, 1), 0xFFFFFFFF) }, 1},
		{"quad outline", func(l *List) { l.AddQuad(V(0, 0), V(1, 0), V(1, 1), V(0, 1), 0xFFFFFFFF, 1) }, 8},
		{"cubic 10 segs", func(l *List) { l.AddBezierCubic(V(0, 0), V(1, 5), V(5, 1), V(9, 9), 0xFFFFFFFF, 1, 10) }, 20},
		{"image", func(l *List) { l.AddImage(7, V(0, 0), V(4, 4), V(0, 0), V(1, 1), 0xFFFFFFFF) }, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var l List
			tc.build(&l)
			var s countSink
			Tessellate(l.Commands(), &s, nil)
			assert.Equal(t, tc.tris, s.tris)
		})
	}
}

func TestTessellateImageUsesTexture(t *testing.T) {
	var l List
	l.AddImageRounded(42, V(0, 0), V(20, 20), V(0, 0), V(1, 1), 0xFFFFFFFF, 5, 0)
	var s countSink
	Tessellate(l.Commands(), &s, nil)
	require.NotZero(t, s.tris)
	assert.Equal(t, s.tris, s.tex[42])
	for _, v := range s.last {
		assert.InDelta(t, v.Pos.X/20, v.UV.X, 1e-5)
		assert.InDelta(t, v.Pos.Y/20, v.UV.Y, 1e-5)
	}
}

type fixedGlyphs struct{}

func (fixedGlyphs) Texture() TextureID { return 99 }
func (fixedGlyphs) Layout(text string, x, y float32, emit func(x0, y0, x1, y1, u0, v0, u1, v1 float32)) {
	for range text {
		emit(x, y, x+8, y+13, 0, 0, 1, 1)
		x += 8
	}
}

func TestTessellateTextNeedsGlyphs(t *testing.T) {
	var l List
	l.AddText(V(0, 0), 0xFFFFFFFF, "abc")

	var none countSink
	Tessellate(l.Commands(), &none, nil)
	assert.Zero(t, none.tris)

	var s countSink
	Tessellate(l.Commands(), &s, fixedGlyphs{})
	assert.Equal(t, 6, s.tex[99])
}
