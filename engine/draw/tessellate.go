package draw

import "math"

type Vertex struct {
	Pos Vec2
	UV  Vec2
	Col uint32
}

// Sink receives tessellated triangles in submission order.
type Sink interface {
	Triangle(tex TextureID, v [3]Vertex)
}

// Glyphs lays out text as textured quads from a single atlas texture.
type Glyphs interface {
	Texture() TextureID
	Layout(text string, x, y float32, emit func(x0, y0, x1, y1, u0, v0, u1, v1 float32))
}

const circleMaxError = 0.3

// AutoSegments picks a circle segment count keeping the chord error
// under a third of a pixel.
func AutoSegments(radius float32) int {
	if radius <= 0 {
		return 4
	}
	r := float64(radius)
	n := int(math.Ceil(math.Pi / math.Acos(1-math.Min(circleMaxError, r)/r)))
	n += n & 1
	return min(max(n, 4), 512)
}

// Tessellate converts the list's commands into triangles. glyphs may be
// nil, in which case text commands are skipped.
func Tessellate(cmds []Cmd, sink Sink, glyphs Glyphs) {
	t := tess{sink: sink}
	for i := range cmds {
		t.cmd(&cmds[i], glyphs)
	}
}

type tess struct {
	sink Sink
	path []Vec2
}

func (t *tess) cmd(c *Cmd, glyphs Glyphs) {
	col := uint32(0)
	if len(c.Colors) > 0 {
		col = c.Colors[0]
	}
	th := c.Thickness
	if th <= 0 {
		th = 1
	}
	switch c.Kind {
	case KindLine:
		t.stroke(c.Points, false, col, th)
	case KindRect:
		t.path = rectPath(t.path[:0], c.Points[0], c.Points[1], c.Rounding, c.Flags)
		t.stroke(t.path, true, col, th)
	case KindRectFilled:
		t.path = rectPath(t.path[:0], c.Points[0], c.Points[1], c.Rounding, c.Flags)
		t.fill(t.path, col)
	case KindRectFilledMultiColor:
		a, b := c.Points[0], c.Points[1]
		ul := Vertex{Pos: a, Col: c.Colors[0]}
		ur := Vertex{Pos: Vec2{b.X, a.Y}, Col: c.Colors[1]}
		br := Vertex{Pos: b, Col: c.Colors[2]}
		bl := Vertex{Pos: Vec2{a.X, b.Y}, Col: c.Colors[3]}
		t.sink.Triangle(0, [3]Vertex{ul, ur, br})
		t.sink.Triangle(0, [3]Vertex{ul, br, bl})
	case KindCircle, KindCircleFilled:
		n := c.Segments
		if n <= 0 {
			n = AutoSegments(c.Radius.X)
		}
		t.path = ellipsePath(t.path[:0], c.Points[0], c.Radius, 0, n)
		if c.Kind == KindCircle {
			t.stroke(t.path, true, col, th)
		} else {
			t.fill(t.path, col)
		}
	case KindNgon, KindNgonFilled:
		if c.Segments <= 2 {
			return
		}
		t.path = ellipsePath(t.path[:0], c.Points[0], c.Radius, 0, c.Segments)
		if c.Kind == KindNgon {
			t.stroke(t.path, true, col, th)
		} else {
			t.fill(t.path, col)
		}
	case KindEllipse, KindEllipseFilled:
		n := c.Segments
		if n <= 0 {
			n = AutoSegments(max(c.Radius.X, c.Radius.Y))
		}
		t.path = ellipsePath(t.path[:0], c.Points[0], c.Radius, c.Rotation, n)
		if c.Kind == KindEllipse {
			t.stroke(t.path, true, col, th)
		} else {
			t.fill(t.path, col)
		}
	case KindQuad, KindTriangle:
		t.stroke(c.Points, true, col, th)
	case KindQuadFilled, KindTriangleFilled:
		t.fill(c.Points, col)
	case KindBezierCubic:
		t.path = cubicPath(t.path[:0], c.Points, c.Segments)
		t.stroke(t.path, false, col, th)
	case KindBezierQuadratic:
		t.path = quadraticPath(t.path[:0], c.Points, c.Segments)
		t.stroke(t.path, false, col, th)
	case KindText:
		if glyphs == nil {
			return
		}
		tex := glyphs.Texture()
		glyphs.Layout(c.Text, c.Points[0].X, c.Points[0].Y, func(x0, y0, x1, y1, u0, v0, u1, v1 float32) {
			t.quadUV(tex, Vec2{x0, y0}, Vec2{x1, y0}, Vec2{x1, y1}, Vec2{x0, y1},
				Vec2{u0, v0}, Vec2{u1, v0}, Vec2{u1, v1}, Vec2{u0, v1}, col)
		})
	case KindImage:
		a, b := c.Points[0], c.Points[1]
		ua, ub := c.UV[0], c.UV[1]
		t.quadUV(c.Texture, a, Vec2{b.X, a.Y}, b, Vec2{a.X, b.Y},
			ua, Vec2{ub.X, ua.Y}, ub, Vec2{ua.X, ub.Y}, col)
	case KindImageQuad:
		p, uv := c.Points, c.UV
		t.quadUV(c.Texture, p[0], p[1], p[2], p[3], uv[0], uv[1], uv[2], uv[3], col)
	case KindImageRounded:
		a, b := c.Points[0], c.Points[1]
		t.path = rectPath(t.path[:0], a, b, c.Rounding, c.Flags)
		ua, ub := c.UV[0], c.UV[1]
		w, h := b.X-a.X, b.Y-a.Y
		vs := make([]Vertex, len(t.path))
		for i, p := range t.path {
			v := Vertex{Pos: p, Col: col}
			if w != 0 {
				v.UV.X = ua.X + (p.X-a.X)/w*(ub.X-ua.X)
			}
			if h != 0 {
				v.UV.Y = ua.Y + (p.Y-a.Y)/h*(ub.Y-ua.Y)
			}
			vs[i] = v
		}
		for i := 2; i < len(vs); i++ {
			t.sink.Triangle(c.Texture, [3]Vertex{vs[0], vs[i-1], vs[i]})
		}
	}
}

func (t *tess) quadUV(tex TextureID, p1, p2, p3, p4, uv1, uv2, uv3, uv4 Vec2, col uint32) {
	a := Vertex{p1, uv1, col}
	b := Vertex{p2, uv2, col}
	c := Vertex{p3, uv3, col}
	d := Vertex{p4, uv4, col}
	t.sink.Triangle(tex, [3]Vertex{a, b, c})
	t.sink.Triangle(tex, [3]Vertex{a, c, d})
}

// fill fans a convex polygon.
func (t *tess) fill(pts []Vec2, col uint32) {
	for i := 2; i < len(pts); i++ {
		t.sink.Triangle(0, [3]Vertex{{Pos: pts[0], Col: col}, {Pos: pts[i-1], Col: col}, {Pos: pts[i], Col: col}})
	}
}

// stroke emits one quad per segment; joins are left open.
func (t *tess) stroke(pts []Vec2, closed bool, col uint32, thickness float32) {
	n := len(pts)
	if n < 2 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}
	hw := thickness * 0.5
	for i := 0; i < segs; i++ {
		p, q := pts[i], pts[(i+1)%n]
		dx, dy := q.X-p.X, q.Y-p.Y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		a := Vertex{Pos: Vec2{p.X + nx, p.Y + ny}, Col: col}
		b := Vertex{Pos: Vec2{q.X + nx, q.Y + ny}, Col: col}
		c := Vertex{Pos: Vec2{q.X - nx, q.Y - ny}, Col: col}
		d := Vertex{Pos: Vec2{p.X - nx, p.Y - ny}, Col: col}
		t.sink.Triangle(0, [3]Vertex{a, b, c})
		t.sink.Triangle(0, [3]Vertex{a, c, d})
	}
}

func ellipsePath(dst []Vec2, center, radius Vec2, rotation float32, n int) []Vec2 {
	cr, sr := math.Cos(float64(rotation)), math.Sin(float64(rotation))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := float64(radius.X) * math.Cos(a)
		y := float64(radius.Y) * math.Sin(a)
		dst = append(dst, Vec2{
			center.X + float32(x*cr-y*sr),
			center.Y + float32(x*sr+y*cr),
		})
	}
	return dst
}

func arcPath(dst []Vec2, center Vec2, r float32, a0, a1 float64, n int) []Vec2 {
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		dst = append(dst, Vec2{center.X + r*float32(math.Cos(a)), center.Y + r*float32(math.Sin(a))})
	}
	return dst
}

// rectPath outlines min..max clockwise (in screen space), rounding the
// corners selected by flags.
func rectPath(dst []Vec2, a, b Vec2, rounding float32, flags int) []Vec2 {
	if flags&RoundCornersAll == 0 && flags&RoundCornersNone == 0 {
		flags |= RoundCornersAll
	}
	if flags&RoundCornersNone != 0 {
		flags &^= RoundCornersAll
	}
	w, h := float32(math.Abs(float64(b.X-a.X))), float32(math.Abs(float64(b.Y-a.Y)))
	rounding = min(rounding, w*0.5, h*0.5)
	if rounding <= 0.5 || flags&RoundCornersAll == 0 {
		return append(dst, a, Vec2{b.X, a.Y}, b, Vec2{a.X, b.Y})
	}
	n := max(AutoSegments(rounding)/4, 2)
	corner := func(dst []Vec2, flag int, cx, cy float32, px, py float32, a0 float64) []Vec2 {
		if flags&flag == 0 {
			return append(dst, Vec2{px, py})
		}
		return arcPath(dst, Vec2{cx, cy}, rounding, a0, a0+math.Pi/2, n)
	}
	dst = corner(dst, RoundCornersTopLeft, a.X+rounding, a.Y+rounding, a.X, a.Y, math.Pi)
	dst = corner(dst, RoundCornersTopRight, b.X-rounding, a.Y+rounding, b.X, a.Y, 1.5*math.Pi)
	dst = corner(dst, RoundCornersBottomRight, b.X-rounding, b.Y-rounding, b.X, b.Y, 0)
	dst = corner(dst, RoundCornersBottomLeft, a.X+rounding, b.Y-rounding, a.X, b.Y, 0.5*math.Pi)
	return dst
}

func bezierSegments(pts []Vec2, segments int) int {
	if segments > 0 {
		return segments
	}
	var l float64
	for i := 1; i < len(pts); i++ {
		l += math.Hypot(float64(pts[i].X-pts[i-1].X), float64(pts[i].Y-pts[i-1].Y))
	}
	return min(max(int(l/8), 4), 64)
}

func cubicPath(dst []Vec2, p []Vec2, segments int) []Vec2 {
	n := bezierSegments(p, segments)
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		u := 1 - t
		w1, w2, w3, w4 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		dst = append(dst, Vec2{
			w1*p[0].X + w2*p[1].X + w3*p[2].X + w4*p[3].X,
			w1*p[0].Y + w2*p[1].Y + w3*p[2].Y + w4*p[3].Y,
		})
	}
	return dst
}

func quadraticPath(dst []Vec2, p []Vec2, segments int) []Vec2 {
	n := bezierSegments(p, segments)
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		u := 1 - t
		w1, w2, w3 := u*u, 2*u*t, t*t
		dst = append(dst, Vec2{
			w1*p[0].X + w2*p[1].X + w3*p[2].X,
			w1*p[0].Y + w2*p[1].Y + w3*p[2].Y,
		})
	}
	return dst
}
