package colors

type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Transparent = Color{0, 0, 0, 0}
	ErrorText   = Color{1, 0.2, 0.2, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Scale multiplies the RGB channels by f, leaving alpha untouched.
func (c Color) Scale(f float32) Color {
	for i := 0; i < 3; i++ {
		v := c[i] * f
		if v > 1 {
			v = 1
		}
		c[i] = v
	}
	return c
}

// FromPacked decodes a 32-bit colour packed as 0xAABBGGRR (red in the low byte),
// the layout scripts use for every draw-list colour argument.
func FromPacked(p uint32) Color {
	return Color{
		float32(p&0xFF) / 255,
		float32((p>>8)&0xFF) / 255,
		float32((p>>16)&0xFF) / 255,
		float32((p>>24)&0xFF) / 255,
	}
}

// Packed is the inverse of FromPacked.
func (c Color) Packed() uint32 {
	ch := func(v float32) uint32 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint32(v*255 + 0.5)
	}
	return ch(c[0]) | ch(c[1])<<8 | ch(c[2])<<16 | ch(c[3])<<24
}
