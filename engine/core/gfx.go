package core

// Texture is an uploaded RGBA image owned by the Renderer.
type Texture interface {
	Size() (w, h int)
}

// Pipeline is a compiled shader program plus fixed state.
type Pipeline interface{ ID() uint32 }

// Mesh is a vertex + index buffer pair.
type Mesh interface{ ID() uint32 }

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // tightly packed rows, top-left origin
	MinFilter     string // "nearest" | "linear"
	MagFilter     string
	WrapU, WrapV  string // "clamp" | "repeat"
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location int
	Size     int
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int // bytes
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
}

// DrawCmd submits one indexed draw of the mesh's current contents.
type DrawCmd struct {
	Pipe       Pipeline
	Mesh       Mesh
	IndexCount int // 0 = all indices last uploaded
	Uniforms   map[string]any
	Samplers   map[string]Texture
}
