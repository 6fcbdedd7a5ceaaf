package core

import "time"

// App defines the application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// FrameHook runs once per rendered frame on the render goroutine, after
// events are polled and strictly before the frame's update and draw pass.
type FrameHook func(e *Engine)

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Layers   LayerStack

	start  time.Time
	frames int64
	hooks  []FrameHook
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Frame is the number of frames started so far.
func (e *Engine) Frame() int64 { return e.frames }

// BeforeFrame registers a hook executed at the start of every frame, in
// registration order.
func (e *Engine) BeforeFrame(h FrameHook) { e.hooks = append(e.hooks, h) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Renderer abstraction over the graphics backend.
type Renderer interface {
	Resize(w, h int)
	Clear(r, g, b, a float32)
	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(t Texture)
	CreateMesh(desc MeshDesc) (Mesh, error)
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error
	Draw(cmd DrawCmd)
	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
	Shutdown()
}

// TextureUploader is the slice of Renderer needed to turn decoded pixels
// into a texture. Only valid on the goroutine owning the graphics context.
type TextureUploader interface {
	CreateTexture(desc TextureDesc) (Texture, error)
}

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32 // RGBA
}
