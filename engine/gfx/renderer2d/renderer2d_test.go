package renderer2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

type fakeTex struct{ id int }

func (fakeTex) Size() (int, int) { return 1, 1 }

type fakeRenderer struct {
	core.Renderer
	nextTex int
	draws   []core.DrawCmd
	lastIdx int
}

func (f *fakeRenderer) CreatePipeline(core.PipelineDesc) (core.Pipeline, error) {
	return nil, nil
}

func (f *fakeRenderer) CreateTexture(core.TextureDesc) (core.Texture, error) {
	f.nextTex++
	return &fakeTex{f.nextTex}, nil
}

func (f *fakeRenderer) CreateMesh(core.MeshDesc) (core.Mesh, error) { return nil, nil }

func (f *fakeRenderer) UpdateMesh(_ core.Mesh, _ []float32, idx []uint32) error {
	f.lastIdx = len(idx)
	return nil
}

func (f *fakeRenderer) Draw(cmd core.DrawCmd) {
	samplers := make(map[string]core.Texture, len(cmd.Samplers))
	for k, v := range cmd.Samplers {
		samplers[k] = v
	}
	cmd.Samplers = samplers
	f.draws = append(f.draws, cmd)
}

func newTestRenderer(t *testing.T, maxTris int) (*Renderer2D, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	rd, err := New(fr, "", "", maxTris)
	require.NoError(t, err)
	return rd, fr
}

func TestDrawListBatchesIntoOneCall(t *testing.T) {
	rd, fr := newTestRenderer(t, 0)

	var l draw.List
	l.AddRectFilled(draw.V(0, 0), draw.V(10, 10), 0xFF00FF00, 0, 0)
	l.AddTriangleFilled(draw.V(0, 0), draw.V(5, 0), draw.V(0, 5), 0xFFFFFFFF)

	rd.BeginScene([16]float32{})
	rd.DrawList(l.Commands(), nil, nil)
	rd.EndScene()

	require.Len(t, fr.draws, 1)
	assert.Equal(t, 9, fr.draws[0].IndexCount)
	assert.Equal(t, 3, rd.Stats().TriangleCount)
	assert.Equal(t, 1, rd.Stats().DrawCalls)
}

func TestTextureSlotsOverflowFlushes(t *testing.T) {
	rd, fr := newTestRenderer(t, 0)
	texs := make(map[draw.TextureID]core.Texture)
	var l draw.List
	for i := 1; i <= maxTexSlots+2; i++ {
		id := draw.TextureID(i)
		texs[id] = &fakeTex{100 + i}
		l.AddImage(id, draw.V(0, 0), draw.V(1, 1), draw.V(0, 0), draw.V(1, 1), 0xFFFFFFFF)
	}

	rd.BeginScene([16]float32{})
	rd.DrawList(l.Commands(), nil, func(id draw.TextureID) core.Texture { return texs[id] })
	rd.EndScene()

	require.Len(t, fr.draws, 2)
	assert.Len(t, fr.draws[0].Samplers, maxTexSlots)
}

func TestTriangleCapacityFlushes(t *testing.T) {
	rd, fr := newTestRenderer(t, 2)
	rd.BeginScene([16]float32{})
	rd.DrawQuad(0, 0, 1, 1, colors.Red)
	rd.DrawQuad(0, 0, 1, 1, colors.Blue)
	rd.EndScene()
	assert.Len(t, fr.draws, 2)
	assert.Equal(t, 4, rd.Stats().TriangleCount)
}
