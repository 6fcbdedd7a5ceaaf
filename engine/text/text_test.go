package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFontMetrics(t *testing.T) {
	f, err := Default(nil, 16)
	require.NoError(t, err)
	defer f.Close()

	assert.Greater(t, f.Ascent, float32(0))
	assert.Greater(t, f.LineHeight(), f.Ascent)
	assert.Contains(t, f.Glyphs, 'A')
	assert.Nil(t, f.Atlas, "no uploader, no texture")
}

func TestMeasureGrowsWithText(t *testing.T) {
	f, err := Default(nil, 16)
	require.NoError(t, err)
	defer f.Close()

	w1, h1 := f.Measure("a")
	w2, h2 := f.Measure("aaaa")
	assert.Greater(t, w2, w1)
	assert.Equal(t, h1, h2)

	_, h3 := f.Measure("a\nb")
	assert.InDelta(t, 2*h1, h3, 0.01)

	wHalf, _ := MeasureText(f, "aaaa", 8)
	assert.InDelta(t, w2/2, wHalf, 0.01)
}

func TestLayoutSkipsBlankGlyphs(t *testing.T) {
	f, err := Default(nil, 16)
	require.NoError(t, err)
	defer f.Close()

	var quads int
	var lastX1 float32
	f.Layout("a b", 10, 20, func(x0, y0, x1, y1, u0, v0, u1, v1 float32) {
		quads++
		assert.Greater(t, x1, x0)
		lastX1 = x1
	})
	assert.Equal(t, 2, quads)
	w, _ := f.Measure("a b")
	assert.LessOrEqual(t, lastX1, 10+w+2)
}
