package renderer2d

import (
	"math"
	"strconv"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

// Max textures per batch (common GL limit is 16)
const maxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats
const vStride = 9

var vertexLayout = core.VertexLayout{
	Stride: vStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},     // pos
		{Location: 1, Size: 4, Type: core.AttribFloat32, Offset: 2 * 4}, // color
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4}, // uv
		{Location: 3, Size: 1, Type: core.AttribFloat32, Offset: 8 * 4}, // texIndex
	},
}

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls     int
	TriangleCount int
	TextureCount  int
}

func (s Statistics) TotalVertexCount() int { return s.TriangleCount * 3 }

// TextureResolver maps draw-list texture ids onto live textures. A nil
// result draws with the white texture.
type TextureResolver func(id draw.TextureID) core.Texture

type Renderer2D struct {
	r      core.Renderer
	pipe   core.Pipeline
	white  core.Texture // 1x1 white (slot 0)
	texArr [maxTexSlots]core.Texture
	texCnt int

	verts   []float32
	inds    []uint32
	triCnt  int
	maxTris int

	mesh     core.Mesh
	samplers map[string]core.Texture
	uniforms map[string]any
	texNames [maxTexSlots]string

	_vp   [16]float32
	stats Statistics
}

// New creates renderer and compiles the shader pipeline.
func New(r core.Renderer, vertSrc, fragSrc string, maxTris int) (*Renderer2D, error) {
	if maxTris <= 0 {
		maxTris = 20000
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vertSrc,
		FragmentSource: fragSrc,
		DepthTest:      false,
		Blend:          true,
	})
	if err != nil {
		return nil, err
	}

	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: "nearest", MagFilter: "nearest",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, err
	}

	rd := &Renderer2D{
		r: r, pipe: pipe, white: white, maxTris: maxTris,
		verts: make([]float32, 0, maxTris*3*vStride),
		inds:  make([]uint32, 0, maxTris*3),
	}

	// Create a reusable mesh large enough for the biggest batch.
	mesh, err := r.CreateMesh(core.MeshDesc{
		Vertices: make([]float32, maxTris*3*vStride),
		Indices:  make([]uint32, maxTris*3),
		Layout:   vertexLayout,
	})
	if err != nil {
		return nil, err
	}
	rd.mesh = mesh

	rd.samplers = make(map[string]core.Texture, maxTexSlots)
	rd.uniforms = make(map[string]any, 4)
	for i := 0; i < maxTexSlots; i++ {
		rd.texNames[i] = "uTex[" + strconv.Itoa(i) + "]"
	}
	rd.resetBatch()
	return rd, nil
}

func (rd *Renderer2D) BeginScene(vp [16]float32) {
	rd._vp = vp
	rd.stats = Statistics{}
	rd.resetBatch()
}

func (rd *Renderer2D) EndScene() { rd.flush() }

// Stats returns the current frame statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// DrawQuad draws a solid axis-aligned rectangle from its top-left corner.
func (rd *Renderer2D) DrawQuad(x, y, w, h float32, color colors.Color) {
	rd.pushQuad(rd.white, [4][4]float32{
		{x, y, 0, 0}, {x + w, y, 1, 0}, {x + w, y + h, 1, 1}, {x, y + h, 0, 1},
	}, color)
}

// DrawTexturedQuadUV draws tex over a rectangle, optionally rotated about
// its centre.
func (rd *Renderer2D) DrawTexturedQuadUV(x, y, w, h float32, tex core.Texture, tint colors.Color, rotationRad float32, u0, v0, u1, v1 float32) {
	cx, cy := x+w*0.5, y+h*0.5
	hw, hh := w*0.5, h*0.5
	c, s := float32(math.Cos(float64(rotationRad))), float32(math.Sin(float64(rotationRad)))
	corners := [4][4]float32{
		{-hw, -hh, u0, v0}, {hw, -hh, u1, v0}, {hw, hh, u1, v1}, {-hw, hh, u0, v1},
	}
	for i, p := range corners {
		corners[i][0] = p[0]*c - p[1]*s + cx
		corners[i][1] = p[0]*s + p[1]*c + cy
	}
	rd.pushQuad(tex, corners, tint)
}

// DrawTriangle submits one triangle with per-vertex colours. tex may be nil.
func (rd *Renderer2D) DrawTriangle(tex core.Texture, v [3]draw.Vertex) {
	if tex == nil {
		tex = rd.white
	}
	rd.ensureCapacity(1)
	slot := rd.texSlot(tex)
	start := uint32(len(rd.verts) / vStride)
	for _, p := range v {
		c := colors.FromPacked(p.Col)
		rd.verts = append(rd.verts, p.Pos.X, p.Pos.Y, c[0], c[1], c[2], c[3], p.UV.X, p.UV.Y, slot)
	}
	rd.inds = append(rd.inds, start, start+1, start+2)
	rd.triCnt++
	rd.stats.TriangleCount++
}

// DrawList replays a recorded draw list through the batcher.
func (rd *Renderer2D) DrawList(cmds []draw.Cmd, glyphs draw.Glyphs, resolve TextureResolver) {
	draw.Tessellate(cmds, sink{rd, resolve}, glyphs)
}

type sink struct {
	rd      *Renderer2D
	resolve TextureResolver
}

func (s sink) Triangle(id draw.TextureID, v [3]draw.Vertex) {
	var tex core.Texture
	if id != 0 && s.resolve != nil {
		tex = s.resolve(id)
	}
	s.rd.DrawTriangle(tex, v)
}

// --- internals ---

func (rd *Renderer2D) pushQuad(tex core.Texture, corners [4][4]float32, color colors.Color) {
	rd.ensureCapacity(2)
	slot := rd.texSlot(tex)
	start := uint32(len(rd.verts) / vStride)
	for _, p := range corners {
		rd.verts = append(rd.verts, p[0], p[1], color[0], color[1], color[2], color[3], p[2], p[3], slot)
	}
	rd.inds = append(rd.inds,
		start+0, start+1, start+2,
		start+0, start+2, start+3,
	)
	rd.triCnt += 2
	rd.stats.TriangleCount += 2
}

func (rd *Renderer2D) texSlot(t core.Texture) float32 {
	// already in array?
	for i := 0; i < rd.texCnt; i++ {
		if rd.texArr[i] == t {
			return float32(i)
		}
	}
	// need a new slot
	if rd.texCnt >= maxTexSlots {
		// flush and reset texture bindings
		rd.flush()
	}
	rd.texArr[rd.texCnt] = t
	rd.texCnt++
	rd.stats.TextureCount = max(rd.stats.TextureCount, rd.texCnt)
	return float32(rd.texCnt - 1)
}

func (rd *Renderer2D) flush() {
	if rd.triCnt == 0 {
		return
	}

	if err := rd.r.UpdateMesh(rd.mesh, rd.verts, rd.inds); err != nil {
		panic(err)
	}

	for k := range rd.samplers {
		delete(rd.samplers, k)
	}
	for i := 0; i < rd.texCnt; i++ {
		rd.samplers[rd.texNames[i]] = rd.texArr[i]
	}

	for k := range rd.uniforms {
		delete(rd.uniforms, k)
	}
	rd.uniforms["uVP"] = rd._vp

	rd.r.Draw(core.DrawCmd{
		Pipe:       rd.pipe,
		Mesh:       rd.mesh,
		IndexCount: len(rd.inds),
		Uniforms:   rd.uniforms,
		Samplers:   rd.samplers,
	})
	rd.stats.DrawCalls++

	rd.resetBatch()
}

func (rd *Renderer2D) resetBatch() {
	rd.verts = rd.verts[:0]
	rd.inds = rd.inds[:0]
	rd.triCnt = 0
	for i := range rd.texArr {
		rd.texArr[i] = nil
	}
	rd.texArr[0] = rd.white
	rd.texCnt = 1
}

func (rd *Renderer2D) ensureCapacity(tris int) {
	if rd.triCnt+tris > rd.maxTris {
		rd.flush()
	}
}
