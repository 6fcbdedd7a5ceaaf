package bindings

import (
	"github.com/dop251/goja"

	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/scripting/vm"
)

const opaqueWhite = 0xFFFFFFFF

// drawFn appends one primitive to the current window's draw list.
type drawFn func(l *draw.List, a argv) error

type drawBinding struct {
	name  string
	arity int
	sig   sig
	fn    drawFn
}

func (u *uiBinding) drawCatalog() []drawBinding {
	return []drawBinding{
		{"add_line", 6, sig{min: 5, typed: 5, ints: []int{4}, usage: "add_line: need x1,y1,x2,y2,color[,thickness]"},
			func(l *draw.List, a argv) error {
				l.AddLine(a.v(0, 1), a.v(2, 3), a.col(4), a.optF(5, 1))
				return nil
			}},
		{"add_rect", 8, sig{min: 5, typed: 5, ints: []int{4}, usage: "add_rect: need x1,y1,x2,y2,col[,rounding,flags,thick]"},
			func(l *draw.List, a argv) error {
				l.AddRect(a.v(0, 1), a.v(2, 3), a.col(4), a.optF(5, 0), a.optI(6, 0), a.optF(7, 1))
				return nil
			}},
		{"add_rect_filled", 7, sig{min: 5, typed: 5, ints: []int{4}, usage: "add_rect_filled: need x1,y1,x2,y2,col[,rounding,flags]"},
			func(l *draw.List, a argv) error {
				l.AddRectFilled(a.v(0, 1), a.v(2, 3), a.col(4), a.optF(5, 0), a.optI(6, 0))
				return nil
			}},
		{"add_rect_filled_multi_color", 8, sig{min: 8, exact: true, typed: 8, ints: []int{4, 5, 6, 7}, usage: "add_rect_filled_multi_color: need x1,y1,x2,y2,4 colors"},
			func(l *draw.List, a argv) error {
				l.AddRectFilledMultiColor(a.v(0, 1), a.v(2, 3), a.col(4), a.col(5), a.col(6), a.col(7))
				return nil
			}},
		{"add_circle", 6, sig{min: 4, typed: 4, ints: []int{3}, usage: "add_circle: need cx,cy,r,col[,segments,thick]"},
			func(l *draw.List, a argv) error {
				l.AddCircle(a.v(0, 1), a.f(2), a.col(3), a.optI(4, 0), a.optF(5, 1))
				return nil
			}},
		{"add_circle_filled", 5, sig{min: 4, typed: 4, ints: []int{3}, usage: "add_circle_filled: need cx,cy,r,col[,segments]"},
			func(l *draw.List, a argv) error {
				l.AddCircleFilled(a.v(0, 1), a.f(2), a.col(3), a.optI(4, 0))
				return nil
			}},
		// rotation counts towards the minimum but is read as optional
		{"add_ellipse", 8, sig{min: 6, typed: 5, ints: []int{4}, usage: "add_ellipse: cx,cy,rx,ry,col[,rot,segments,thick]"},
			func(l *draw.List, a argv) error {
				l.AddEllipse(a.v(0, 1), a.v(2, 3), a.col(4), a.optF(5, 0), a.optI(6, 0), a.optF(7, 1))
				return nil
			}},
		{"add_ellipse_filled", 7, sig{min: 6, typed: 5, ints: []int{4}, usage: "add_ellipse_filled: cx,cy,rx,ry,col[,rot,segments]"},
			func(l *draw.List, a argv) error {
				l.AddEllipseFilled(a.v(0, 1), a.v(2, 3), a.col(4), a.optF(5, 0), a.optI(6, 0))
				return nil
			}},
		{"add_ngon", 6, sig{min: 5, typed: 5, ints: []int{3, 4}, usage: "add_ngon: cx,cy,r,col,segments[,thick]"},
			func(l *draw.List, a argv) error {
				l.AddNgon(a.v(0, 1), a.f(2), a.col(3), a.i(4), a.optF(5, 1))
				return nil
			}},
		{"add_ngon_filled", 5, sig{min: 5, exact: true, typed: 5, ints: []int{3, 4}, usage: "add_ngon_filled: cx,cy,r,col,segments"},
			func(l *draw.List, a argv) error {
				l.AddNgonFilled(a.v(0, 1), a.f(2), a.col(3), a.i(4))
				return nil
			}},
		{"add_quad", 10, sig{min: 9, typed: 9, ints: []int{8}, usage: "add_quad: x1,y1,x2,y2,x3,y3,x4,y4,col[,thick]"},
			func(l *draw.List, a argv) error {
				l.AddQuad(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.v(6, 7), a.col(8), a.optF(9, 1))
				return nil
			}},
		{"add_quad_filled", 9, sig{min: 9, exact: true, typed: 9, ints: []int{8}, usage: "add_quad_filled: x1,y1,x2,y2,x3,y3,x4,y4,col"},
			func(l *draw.List, a argv) error {
				l.AddQuadFilled(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.v(6, 7), a.col(8))
				return nil
			}},
		{"add_triangle", 8, sig{min: 7, typed: 7, ints: []int{6}, usage: "add_triangle: x1,y1,x2,y2,x3,y3,col[,thick]"},
			func(l *draw.List, a argv) error {
				l.AddTriangle(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.col(6), a.optF(7, 1))
				return nil
			}},
		{"add_triangle_filled", 7, sig{min: 7, exact: true, typed: 7, ints: []int{6}, usage: "add_triangle_filled: x1,y1,x2,y2,x3,y3,col"},
			func(l *draw.List, a argv) error {
				l.AddTriangleFilled(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.col(6))
				return nil
			}},
		// segments counts towards the minimum but is read as optional
		{"add_bezier_cubic", 11, sig{min: 11, typed: 10, ints: []int{8}, usage: "add_bezier_cubic: p1..p4(col,thick[,segments])"},
			func(l *draw.List, a argv) error {
				l.AddBezierCubic(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.v(6, 7), a.col(8), a.f(9), a.optI(10, 0))
				return nil
			}},
		{"add_bezier_quadratic", 9, sig{min: 8, typed: 8, ints: []int{6}, usage: "add_bezier_quadratic: p1..p3,col,thick[,segments]"},
			func(l *draw.List, a argv) error {
				l.AddBezierQuadratic(a.v(0, 1), a.v(2, 3), a.v(4, 5), a.col(6), a.f(7), a.optI(8, 0))
				return nil
			}},
		{"add_text_dl", 4, sig{min: 4, typed: 3, ints: []int{2}, usage: "add_text: need x,y,col,text"},
			func(l *draw.List, a argv) error {
				l.AddText(a.v(0, 1), a.col(2), a.str(3))
				return nil
			}},
		{"add_image", 10, sig{min: 5, typed: 5, ints: []int{0}, usage: "add_image: texture,x1,y1,x2,y2,[uv0x,uv0y,uv1x,uv1y,col]"},
			func(l *draw.List, a argv) error {
				tex, err := u.texture(a, 0)
				if err != nil {
					return err
				}
				l.AddImage(tex, a.v(1, 2), a.v(3, 4),
					a.optV(5, 6, draw.V(0, 0)), a.optV(7, 8, draw.V(1, 1)), a.optCol(9, opaqueWhite))
				return nil
			}},
		{"add_image_quad", 18, sig{min: 9, typed: 9, ints: []int{0}, usage: "add_image_quad: tex,x1,y1,x2,y2,x3,y3,x4,y4[,uv*8,col]"},
			func(l *draw.List, a argv) error {
				tex, err := u.texture(a, 0)
				if err != nil {
					return err
				}
				l.AddImageQuad(tex, a.v(1, 2), a.v(3, 4), a.v(5, 6), a.v(7, 8),
					a.optV(9, 10, draw.V(0, 0)), a.optV(11, 12, draw.V(1, 0)),
					a.optV(13, 14, draw.V(1, 1)), a.optV(15, 16, draw.V(0, 1)),
					a.optCol(17, opaqueWhite))
				return nil
			}},
		{"add_image_rounded", 11, sig{min: 7, typed: 7, ints: []int{0, 5}, usage: "add_image_rounded: tex,x1,y1,x2,y2,col,rounding[,flags,uv*4]"},
			func(l *draw.List, a argv) error {
				tex, err := u.texture(a, 0)
				if err != nil {
					return err
				}
				l.AddImageRounded(tex, a.v(1, 2), a.v(3, 4),
					a.optV(8, 9, draw.V(0, 0)), a.optV(10, 11, draw.V(1, 1)),
					a.col(5), a.f(6), a.optI(7, 0))
				return nil
			}},
	}
}

// texture resolves an image handle argument.
func (u *uiBinding) texture(a argv, i int) (draw.TextureID, error) {
	h := a.i(i)
	if u.images == nil {
		return 0, vm.ReferenceErrorf("invalid image handle: %d", h)
	}
	im, err := u.images.Lookup(h)
	if err != nil {
		return 0, vm.ReferenceErrorf("invalid image handle: %d", h)
	}
	return im.TextureID(), nil
}

func (u *uiBinding) installDrawing(env *vm.Env, obj *goja.Object) {
	for _, b := range u.drawCatalog() {
		b := b
		env.Method(obj, b.name, b.arity, func(c vm.Call) (goja.Value, error) {
			if err := b.sig.check(c); err != nil {
				return nil, err
			}
			ctx := u.ctx()
			if ctx == nil {
				return nil, nil
			}
			l := ctx.WindowDrawList()
			if l == nil {
				return nil, nil
			}
			return nil, b.fn(l, argv{c})
		})
	}
}
