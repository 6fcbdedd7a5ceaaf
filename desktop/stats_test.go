package desktop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/buddy/engine/gfx/renderer2d"
	"github.com/hubastard/buddy/engine/profiler"
)

func TestStatsLines(t *testing.T) {
	scopes := make([]profiler.ScopeStat, 7)
	for i := range scopes {
		scopes[i] = profiler.ScopeStat{Name: "scope", Count: 1, Total: time.Millisecond, Max: time.Millisecond}
	}
	lines := statsLines(statsInput{
		Frame:      20 * time.Millisecond,
		Renderer:   renderer2d.Statistics{DrawCalls: 2, TriangleCount: 10, TextureCount: 3},
		GPU:        [3]string{"vendor", "", "4.1"},
		Goroutines: 9,
		Windows:    1,
		Scopes:     scopes,
	})
	require.Len(t, lines, 3+2+statsTopScopes)
	assert.Equal(t, "frame 20.00ms (50 fps)", lines[0])
	assert.Equal(t, "draws 2  tris 10  verts 30  tex 3", lines[1])
	assert.Equal(t, "windows 1  runs 0  goroutines 9", lines[2])
	assert.Equal(t, "vendor", lines[3])
	assert.Equal(t, "scope 1ms avg, 1ms max", lines[5])
}

func TestStatsTick(t *testing.T) {
	var s statsOverlay
	now := time.Now()
	s.tick(now)
	assert.Zero(t, s.frame)
	s.tick(now.Add(16 * time.Millisecond))
	assert.Equal(t, 16*time.Millisecond, s.frame)
}
