package desktop

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/gfx/renderer2d"
	"github.com/hubastard/buddy/engine/profiler"
	"github.com/hubastard/buddy/engine/text"
)

const statsTopScopes = 5

// statsOverlay shows renderer and scheduler numbers in the top right corner.
type statsOverlay struct {
	visible bool
	last    time.Time
	frame   time.Duration
}

func (s *statsOverlay) tick(now time.Time) {
	if !s.last.IsZero() {
		s.frame = now.Sub(s.last)
	}
	s.last = now
}

type statsInput struct {
	Frame      time.Duration
	Renderer   renderer2d.Statistics
	GPU        [3]string
	Goroutines int
	Windows    int
	Runs       int
	Scopes     []profiler.ScopeStat
}

func statsLines(in statsInput) []string {
	fps := 0.0
	if in.Frame > 0 {
		fps = float64(time.Second) / float64(in.Frame)
	}
	lines := []string{
		fmt.Sprintf("frame %.2fms (%.0f fps)", float64(in.Frame)/float64(time.Millisecond), fps),
		fmt.Sprintf("draws %d  tris %d  verts %d  tex %d",
			in.Renderer.DrawCalls, in.Renderer.TriangleCount, in.Renderer.TotalVertexCount(), in.Renderer.TextureCount),
		fmt.Sprintf("windows %d  runs %d  goroutines %d", in.Windows, in.Runs, in.Goroutines),
	}
	for _, g := range in.GPU {
		if g != "" {
			lines = append(lines, g)
		}
	}
	for i, sc := range in.Scopes {
		if i == statsTopScopes {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %v avg, %v max", sc.Name, sc.Mean().Round(time.Microsecond), sc.Max.Round(time.Microsecond)))
	}
	return lines
}

// draw must run inside a renderer scene, after the desktop lists so the
// batch statistics cover them.
func (s *statsOverlay) draw(e *core.Engine, r2d *renderer2d.Renderer2D, font *text.Font, host *Host, width float32) {
	lines := statsLines(statsInput{
		Frame:      s.frame,
		Renderer:   r2d.Stats(),
		GPU:        [3]string{e.Renderer.GPUVendor(), e.Renderer.GPURenderer(), e.Renderer.GPUVersion()},
		Goroutines: runtime.NumGoroutine(),
		Windows:    len(host.Windows()),
		Runs:       len(host.Scheduler().Active()),
		Scopes:     profiler.Stats(),
	})

	var w float32
	for _, l := range lines {
		lw, _ := font.Measure(l)
		w = max(w, lw)
	}
	const pad = 8
	lh := font.LineHeight()
	x := width - w - 2*pad - tileMargin
	y := float32(tileMargin)
	r2d.DrawQuad(x, y, w+2*pad, lh*float32(len(lines))+2*pad, colors.Black.WithAlpha(0.5))
	for i, l := range lines {
		text.DrawText(r2d, font, x+pad, y+pad+lh*float32(i), l, colors.White)
	}
}
