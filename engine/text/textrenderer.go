package text

import (
	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/gfx/renderer2d"
)

// AtlasTextureID is the draw-list texture id reserved for the font atlas.
const AtlasTextureID draw.TextureID = 1 << 63

// Texture implements draw.Glyphs.
func (f *Font) Texture() draw.TextureID { return AtlasTextureID }

// Layout walks s from top-left origin (x,y), emitting one quad per visible
// glyph. Positive Y goes downward.
func (f *Font) Layout(s string, x, y float32, emit func(x0, y0, x1, y1, u0, v0, u1, v1 float32)) {
	penX := x
	baseY := y + f.Ascent
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += f.LineHeight()
			prev = -1
			continue
		}

		g, ok := f.Glyphs[r]
		if !ok {
			penX += f.spaceAdvance()
			prev = r
			continue
		}
		if prev >= 0 {
			penX += f.kern[[2]rune{prev, r}]
		}
		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			emit(left, top, left+float32(g.W), top+float32(g.H), g.U0, g.V0, g.U1, g.V1)
		}
		penX += g.Advance
		prev = r
	}
}

// Measure implements ui.TextMeasurer at the atlas size.
func (f *Font) Measure(s string) (w, h float32) { return MeasureText(f, s, f.SizePx) }

func (f *Font) LineHeight() float32 { return f.Ascent - f.Descent + f.LineGap }

func (f *Font) spaceAdvance() float32 {
	if sp, ok := f.Glyphs[' ']; ok {
		return sp.Advance
	}
	return f.SizePx * 0.5
}

// DrawText draws s straight into the batcher with top-left origin (x,y).
func DrawText(r2d *renderer2d.Renderer2D, font *Font, x, y float32, s string, color colors.Color) {
	font.Layout(s, x, y, func(x0, y0, x1, y1, u0, v0, u1, v1 float32) {
		r2d.DrawTexturedQuadUV(x0, y0, x1-x0, y1-y0, font.Atlas, color, 0, u0, v0, u1, v1)
	})
}

func MeasureText(font *Font, s string, size float32) (width, height float32) {
	var lineW float32
	var prev rune = -1
	lineH := font.LineHeight()
	height = lineH

	scale := size / font.SizePx

	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += lineH
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			lineW += font.spaceAdvance()
			prev = r
			continue
		}
		if prev >= 0 {
			lineW += font.kern[[2]rune{prev, r}]
		}
		lineW += g.Advance
		prev = r
	}

	width = max(width, lineW)
	return width * scale, height * scale
}
