package desktop

import (
	"context"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/hubastard/buddy/config"
	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/ui"
)

const (
	tileSize     = 88
	tileGap      = 16
	tileMargin   = 24
	tileLabelH   = 20
	tileRounding = 8
)

// Background paints the desktop and its shortcut tiles. Clicking a tile
// runs the pinned script.
type Background struct {
	host  *Host
	theme config.Theme
	text  ui.TextMeasurer
	list  draw.List

	imageHandle int
	imageFailed bool
}

func newBackground(h *Host, theme config.Theme, text ui.TextMeasurer) *Background {
	return &Background{host: h, theme: theme, text: text}
}

func (b *Background) paint(l *draw.List, size draw.Vec2) {
	var g [4]uint32
	for i, c := range b.theme.Gradient {
		g[i] = colors.Color(c).Packed()
	}
	origin := draw.V(0, 0)
	switch b.theme.BackgroundMode {
	case "vertical":
		l.AddRectFilledMultiColor(origin, size, g[0], g[0], g[2], g[2])
		return
	case "horizontal":
		l.AddRectFilledMultiColor(origin, size, g[0], g[1], g[1], g[0])
		return
	case "fourway":
		l.AddRectFilledMultiColor(origin, size, g[0], g[1], g[2], g[3])
		return
	case "image":
		if id, ok := b.backgroundImage(); ok {
			l.AddImage(id, origin, size, draw.V(0, 0), draw.V(1, 1), colors.White.Packed())
			return
		}
	}
	l.AddRectFilled(origin, size, colors.Color(b.theme.Background).Packed(), 0, 0)
}

// backgroundImage loads the configured image on first use and again if the
// cache evicted it. A failed load falls back to the solid colour for the
// rest of the session.
func (b *Background) backgroundImage() (draw.TextureID, bool) {
	images := b.host.images
	if b.imageHandle != 0 {
		if im, err := images.Lookup(b.imageHandle); err == nil {
			return im.TextureID(), true
		}
		b.imageHandle, b.imageFailed = 0, false
	}
	if b.imageFailed {
		return 0, false
	}
	b.imageFailed = true
	if images == nil || b.theme.BackgroundImage == "" {
		b.host.log.Warn().Msg("image background without an image")
		return 0, false
	}
	h, err := images.Load(context.Background(), b.theme.BackgroundImage)
	if err != nil {
		b.host.log.Warn().Err(err).Str("src", b.theme.BackgroundImage).Msg("background image not loaded")
		return 0, false
	}
	b.imageHandle, b.imageFailed = h, false
	return draw.TextureID(h), true
}

// Tile is one laid-out shortcut.
type Tile struct {
	Slot     string
	Path     string
	Min, Max draw.Vec2
}

// Tiles lays the shortcuts out in columns, top to bottom, in slot order.
func Tiles(shortcuts map[string]string, height float32) []Tile {
	slots := make([]string, 0, len(shortcuts))
	for s := range shortcuts {
		slots = append(slots, s)
	}
	slices.SortFunc(slots, compareSlots)

	rows := max(int((height-tileMargin)/(tileSize+tileLabelH+tileGap)), 1)
	out := make([]Tile, len(slots))
	for i, s := range slots {
		col, row := i/rows, i%rows
		lo := draw.V(tileMargin+float32(col)*(tileSize+tileGap), tileMargin+float32(row)*(tileSize+tileLabelH+tileGap))
		out[i] = Tile{Slot: s, Path: shortcuts[s], Min: lo, Max: draw.V(lo.X+tileSize, lo.Y+tileSize)}
	}
	return out
}

// Build records this frame's background. Tile clicks are ignored while the
// mouse belongs to a window.
func (b *Background) Build(in ui.InputSource, windowHasMouse bool, width, height float32) *draw.List {
	l := &b.list
	l.Reset()
	b.paint(l, draw.V(width, height))

	mx, my := in.Mouse()
	mouse := draw.V(float32(mx), float32(my))
	accent := colors.Color(b.theme.Accent)
	for _, t := range Tiles(b.host.shortcuts, height) {
		hovered := !windowHasMouse && inside(mouse, t.Min, t.Max)
		fill := colors.White.WithAlpha(0.08)
		if hovered {
			fill = accent.WithAlpha(0.35)
		}
		l.AddRectFilled(t.Min, t.Max, fill.Packed(), tileRounding, draw.RoundCornersAll)

		name, known := b.label(t.Path)
		initial := strings.ToUpper(string([]rune(name)[:1]))
		iw, ih := b.text.Measure(initial)
		l.AddText(draw.V(t.Min.X+(tileSize-iw)/2, t.Min.Y+(tileSize-ih)/2), colors.White.Packed(), initial)

		lw, _ := b.text.Measure(name)
		labelCol := colors.White
		if !known {
			labelCol = colors.Gray
		}
		l.AddText(draw.V(t.Min.X+(tileSize-lw)/2, t.Max.Y+4), labelCol.Packed(), name)

		if hovered && in.IsMousePressed(core.MouseLeft) && known {
			b.host.Run(t.Path)
		}
	}
	return l
}

// label is the script name for path and whether the registry knows it.
func (b *Background) label(path string) (string, bool) {
	if b.host.reg != nil {
		if s, ok := b.host.reg.Lookup(path); ok {
			return s.Name, true
		}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "" {
		name = "?"
	}
	return name, false
}

func inside(p, lo, hi draw.Vec2) bool {
	return p.X >= lo.X && p.Y >= lo.Y && p.X < hi.X && p.Y < hi.Y
}

// compareSlots orders numeric slots numerically and before named ones.
func compareSlots(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func freeSlot(used map[string]string) string {
	for i := 0; ; i++ {
		s := strconv.Itoa(i)
		if _, ok := used[s]; !ok {
			return s
		}
	}
}
