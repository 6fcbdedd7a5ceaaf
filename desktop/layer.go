package desktop

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/gfx/renderer2d"
	"github.com/hubastard/buddy/engine/profiler"
	"github.com/hubastard/buddy/engine/scene"
	"github.com/hubastard/buddy/engine/text"
	"github.com/hubastard/buddy/engine/ui"
)

// Layer puts the host on the engine's layer stack and replays its draw
// lists through the 2D renderer.
type Layer struct {
	host *Host
	r2d  *renderer2d.Renderer2D
	font *text.Font
	cam  *scene.ScreenCamera
	log  zerolog.Logger

	stats statsOverlay
}

func NewLayer(h *Host, r2d *renderer2d.Renderer2D, font *text.Font, log zerolog.Logger) *Layer {
	return &Layer{host: h, r2d: r2d, font: font, log: log.With().Str("component", "desktop").Logger()}
}

func (l *Layer) OnAttach(e *core.Engine) {
	w, h := e.Window.FramebufferSize()
	l.cam = scene.NewScreenCamera(w, h)
	e.BeforeFrame(func(*core.Engine) { l.host.Pump() })
}

func (l *Layer) OnDetach(e *core.Engine) { l.host.Close() }

func (l *Layer) OnUpdate(e *core.Engine, dt float64) {}

func (l *Layer) OnRender(e *core.Engine, alpha float64) {
	end := profiler.Start("desktop.Layer.OnRender")
	defer end()

	l.stats.tick(time.Now())
	w, h := l.cam.LogicalSize()
	lists := l.host.Compose(scaledInput{e.Input, l.cam}, w, h)

	l.r2d.BeginScene(l.cam.VP())
	for _, dl := range lists {
		l.r2d.DrawList(dl.Commands(), l.font, l.resolve)
	}
	if l.stats.visible {
		l.stats.draw(e, l.r2d, l.font, l.host, w)
	}
	l.r2d.EndScene()
}

func (l *Layer) resolve(id draw.TextureID) core.Texture {
	if id == text.AtlasTextureID {
		return l.font.Atlas
	}
	if l.host.images == nil {
		return nil
	}
	return l.host.images.Resolve(id)
}

func (l *Layer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.cam.SetViewportPixels(v.W, v.H)
	case core.EventScroll:
		if e.Input.Mods()&core.ModCtrl != 0 {
			l.cam.SetScale(l.cam.Scale * (1 + float32(v.Yoff)*0.1))
			return true
		}
	case core.EventKey:
		if v.Down && v.Key == core.KeyF11 {
			l.stats.visible = !l.stats.visible
			return true
		}
		if !v.Down || v.Mods&core.ModCtrl == 0 {
			return false
		}
		switch v.Key {
		case core.KeyO:
			l.host.playground.Toggle()
			return true
		case core.KeyR:
			l.host.Rescan()
			return true
		case core.KeyP:
			path := filepath.Join(os.TempDir(), "buddy-"+time.Now().Format("20060102-150405")+".speedscope.json")
			if err := profiler.Dump(path); err != nil {
				l.log.Error().Err(err).Msg("profiler dump failed")
			} else {
				l.log.Info().Str("path", path).Msg("profiler dump written")
			}
			return true
		}
	}
	return false
}

// scaledInput reports the mouse in draw-list units.
type scaledInput struct {
	*core.Input
	cam *scene.ScreenCamera
}

func (s scaledInput) Mouse() (float64, float64) {
	x, y := s.Input.Mouse()
	lx, ly := s.cam.ToLogical(float32(x), float32(y))
	return float64(lx), float64(ly)
}

var _ ui.InputSource = scaledInput{}
var _ core.Layer = (*Layer)(nil)
