// Package draw records immediate-mode vector primitives for one frame and
// turns them into triangles. The API mirrors a conventional 2D draw list:
// colours are packed 0xAABBGGRR integers, segment count 0 lets the
// tessellator pick one from the radius.
package draw

type Vec2 struct{ X, Y float32 }

func V(x, y float32) Vec2 { return Vec2{x, y} }

// TextureID names a texture without holding it; the renderer resolves it
// at replay time. 0 is the solid white texture.
type TextureID uint64

type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindRectFilled
	KindRectFilledMultiColor
	KindCircle
	KindCircleFilled
	KindNgon
	KindNgonFilled
	KindEllipse
	KindEllipseFilled
	KindQuad
	KindQuadFilled
	KindTriangle
	KindTriangleFilled
	KindBezierCubic
	KindBezierQuadratic
	KindText
	KindImage
	KindImageQuad
	KindImageRounded
)

var kindNames = [...]string{
	"line", "rect", "rect_filled", "rect_filled_multi_color",
	"circle", "circle_filled", "ngon", "ngon_filled",
	"ellipse", "ellipse_filled", "quad", "quad_filled",
	"triangle", "triangle_filled", "bezier_cubic", "bezier_quadratic",
	"text", "image", "image_quad", "image_rounded",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Corner rounding flags. Zero rounds every corner.
const (
	RoundCornersTopLeft     = 1 << 4
	RoundCornersTopRight    = 1 << 5
	RoundCornersBottomLeft  = 1 << 6
	RoundCornersBottomRight = 1 << 7
	RoundCornersNone        = 1 << 8
	RoundCornersAll         = RoundCornersTopLeft | RoundCornersTopRight | RoundCornersBottomLeft | RoundCornersBottomRight
)

// Cmd is one recorded primitive. Points keep the order the Add call
// received them; rectangles and images store min then max.
type Cmd struct {
	Kind      Kind
	Points    []Vec2
	UV        []Vec2
	Colors    []uint32 // four (UL, UR, BR, BL) for multi-colour rects
	Radius    Vec2
	Rounding  float32
	Thickness float32
	Rotation  float32
	Flags     int
	Segments  int
	Text      string
	Texture   TextureID
}

// List is a per-window, per-frame draw target. Not safe for concurrent use.
type List struct {
	cmds []Cmd
}

func (l *List) Commands() []Cmd { return l.cmds }
func (l *List) Len() int        { return len(l.cmds) }
func (l *List) Reset()          { l.cmds = l.cmds[:0] }

func (l *List) push(c Cmd) { l.cmds = append(l.cmds, c) }

func (l *List) AddLine(p1, p2 Vec2, col uint32, thickness float32) {
	l.push(Cmd{Kind: KindLine, Points: []Vec2{p1, p2}, Colors: []uint32{col}, Thickness: thickness})
}

func (l *List) AddRect(min, max Vec2, col uint32, rounding float32, flags int, thickness float32) {
	l.push(Cmd{Kind: KindRect, Points: []Vec2{min, max}, Colors: []uint32{col}, Rounding: rounding, Flags: flags, Thickness: thickness})
}

func (l *List) AddRectFilled(min, max Vec2, col uint32, rounding float32, flags int) {
	l.push(Cmd{Kind: KindRectFilled, Points: []Vec2{min, max}, Colors: []uint32{col}, Rounding: rounding, Flags: flags})
}

func (l *List) AddRectFilledMultiColor(min, max Vec2, colUL, colUR, colBR, colBL uint32) {
	l.push(Cmd{Kind: KindRectFilledMultiColor, Points: []Vec2{min, max}, Colors: []uint32{colUL, colUR, colBR, colBL}})
}

func (l *List) AddCircle(center Vec2, radius float32, col uint32, segments int, thickness float32) {
	l.push(Cmd{Kind: KindCircle, Points: []Vec2{center}, Radius: Vec2{radius, radius}, Colors: []uint32{col}, Segments: segments, Thickness: thickness})
}

func (l *List) AddCircleFilled(center Vec2, radius float32, col uint32, segments int) {
	l.push(Cmd{Kind: KindCircleFilled, Points: []Vec2{center}, Radius: Vec2{radius, radius}, Colors: []uint32{col}, Segments: segments})
}

func (l *List) AddNgon(center Vec2, radius float32, col uint32, segments int, thickness float32) {
	l.push(Cmd{Kind: KindNgon, Points: []Vec2{center}, Radius: Vec2{radius, radius}, Colors: []uint32{col}, Segments: segments, Thickness: thickness})
}

func (l *List) AddNgonFilled(center Vec2, radius float32, col uint32, segments int) {
	l.push(Cmd{Kind: KindNgonFilled, Points: []Vec2{center}, Radius: Vec2{radius, radius}, Colors: []uint32{col}, Segments: segments})
}

func (l *List) AddEllipse(center, radius Vec2, col uint32, rotation float32, segments int, thickness float32) {
	l.push(Cmd{Kind: KindEllipse, Points: []Vec2{center}, Radius: radius, Colors: []uint32{col}, Rotation: rotation, Segments: segments, Thickness: thickness})
}

func (l *List) AddEllipseFilled(center, radius Vec2, col uint32, rotation float32, segments int) {
	l.push(Cmd{Kind: KindEllipseFilled, Points: []Vec2{center}, Radius: radius, Colors: []uint32{col}, Rotation: rotation, Segments: segments})
}

func (l *List) AddQuad(p1, p2, p3, p4 Vec2, col uint32, thickness float32) {
	l.push(Cmd{Kind: KindQuad, Points: []Vec2{p1, p2, p3, p4}, Colors: []uint32{col}, Thickness: thickness})
}

func (l *List) AddQuadFilled(p1, p2, p3, p4 Vec2, col uint32) {
	l.push(Cmd{Kind: KindQuadFilled, Points: []Vec2{p1, p2, p3, p4}, Colors: []uint32{col}})
}

func (l *List) AddTriangle(p1, p2, p3 Vec2, col uint32, thickness float32) {
	l.push(Cmd{Kind: KindTriangle, Points: []Vec2{p1, p2, p3}, Colors: []uint32{col}, Thickness: thickness})
}

func (l *List) AddTriangleFilled(p1, p2, p3 Vec2, col uint32) {
	l.push(Cmd{Kind: KindTriangleFilled, Points: []Vec2{p1, p2, p3}, Colors: []uint32{col}})
}

func (l *List) AddBezierCubic(p1, p2, p3, p4 Vec2, col uint32, thickness float32, segments int) {
	l.push(Cmd{Kind: KindBezierCubic, Points: []Vec2{p1, p2, p3, p4}, Colors: []uint32{col}, Thickness: thickness, Segments: segments})
}

func (l *List) AddBezierQuadratic(p1, p2, p3 Vec2, col uint32, thickness float32, segments int) {
	l.push(Cmd{Kind: KindBezierQuadratic, Points: []Vec2{p1, p2, p3}, Colors: []uint32{col}, Thickness: thickness, Segments: segments})
}

func (l *List) AddText(pos Vec2, col uint32, text string) {
	if text == "" {
		return
	}
	l.push(Cmd{Kind: KindText, Points: []Vec2{pos}, Colors: []uint32{col}, Text: text})
}

func (l *List) AddImage(tex TextureID, min, max, uvMin, uvMax Vec2, col uint32) {
	l.push(Cmd{Kind: KindImage, Texture: tex, Points: []Vec2{min, max}, UV: []Vec2{uvMin, uvMax}, Colors: []uint32{col}})
}

func (l *List) AddImageQuad(tex TextureID, p1, p2, p3, p4, uv1, uv2, uv3, uv4 Vec2, col uint32) {
	l.push(Cmd{Kind: KindImageQuad, Texture: tex, Points: []Vec2{p1, p2, p3, p4}, UV: []Vec2{uv1, uv2, uv3, uv4}, Colors: []uint32{col}})
}

func (l *List) AddImageRounded(tex TextureID, min, max, uvMin, uvMax Vec2, col uint32, rounding float32, flags int) {
	l.push(Cmd{Kind: KindImageRounded, Texture: tex, Points: []Vec2{min, max}, UV: []Vec2{uvMin, uvMax}, Colors: []uint32{col}, Rounding: rounding, Flags: flags})
}
