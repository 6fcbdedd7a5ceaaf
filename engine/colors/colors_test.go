package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPackedChannelOrder(t *testing.T) {
	c := FromPacked(0xFF0000FF)
	assert.Equal(t, Color{1, 0, 0, 1}, c)

	c = FromPacked(0x80FF0000)
	assert.InDelta(t, 0, c[0], 1e-6)
	assert.InDelta(t, 1, c[2], 1e-6)
	assert.InDelta(t, 128.0/255, c[3], 1e-6)
}

func TestPackedRoundTrip(t *testing.T) {
	for _, p := range []uint32{0, 0xFFFFFFFF, 0xFF00FF00, 0x7F102030} {
		assert.Equal(t, p, FromPacked(p).Packed())
	}
}

func TestScaleClamps(t *testing.T) {
	c := Color{0.8, 0.5, 0.1, 0.3}.Scale(2)
	assert.Equal(t, Color{1, 1, 0.2, 0.3}, c)
}
