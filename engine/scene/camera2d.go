// Package scene holds the screen camera the desktop draws through.
package scene

// ScreenCamera maps framebuffer pixels (origin top-left, y down) to clip
// space. Scale > 1 magnifies the whole desktop.
type ScreenCamera struct {
	W, H  float32
	Scale float32
	X, Y  float32 // pan, in unscaled pixels
	vp    [16]float32
	dirty bool
}

func NewScreenCamera(width, height int) *ScreenCamera {
	c := &ScreenCamera{W: float32(width), H: float32(height), Scale: 1}
	c.Recalculate()
	return c
}

func (c *ScreenCamera) SetViewportPixels(w, h int) {
	c.W, c.H = float32(w), float32(h)
	c.dirty = true
}

func (c *ScreenCamera) Move(dx, dy float32) { c.X += dx; c.Y += dy; c.dirty = true }

func (c *ScreenCamera) SetScale(s float32) {
	if s < 0.25 {
		s = 0.25
	}
	c.Scale = s
	c.dirty = true
}

// LogicalSize is the viewport measured in the units draw lists use.
func (c *ScreenCamera) LogicalSize() (float32, float32) {
	return c.W / c.Scale, c.H / c.Scale
}

// ToLogical converts a framebuffer point into draw-list units.
func (c *ScreenCamera) ToLogical(px, py float32) (float32, float32) {
	return px/c.Scale + c.X, py/c.Scale + c.Y
}

func (c *ScreenCamera) VP() [16]float32 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

func (c *ScreenCamera) Recalculate() {
	w, h := c.LogicalSize()
	// top and bottom swapped so y grows downwards
	proj := ortho(0, w, h, 0, -1, 1)
	c.vp = mul(proj, translate(-c.X, -c.Y, 0))
	c.dirty = false
}

// ---- tiny mat helpers (column-major, GLSL-style) ----

func translate(x, y, z float32) [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

func mul(a, b [16]float32) [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i+4*j] = a[0+4*j]*b[i+0] + a[1+4*j]*b[i+4] + a[2+4*j]*b[i+8] + a[3+4*j]*b[i+12]
		}
	}
	return out
}

// Apply transforms a point by the camera matrix and returns clip x, y.
func Apply(m [16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}
