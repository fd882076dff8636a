package deskscene

import (
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererState is the installed backend plus per-frame viewport data.
type RendererState struct {
	Name       RendererName
	Backend    Backend
	Uniforms   core.UniformTable
	ClearColor mgl32.Vec4

	Width, Height int
	// Drawing is false for frames skipped because the window is minimized.
	Drawing bool
	closed  bool
}

// Aspect is the framebuffer's width over height.
func (r *RendererState) Aspect() float32 {
	if r.Height == 0 {
		return 1
	}
	return float32(r.Width) / float32(r.Height)
}

// RendererModule creates the window for the selected API, opens the backend
// on it and brackets each running frame.
type RendererModule struct {
	Name         RendererName
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	Uniforms     core.UniformTable
	ClearColor   mgl32.Vec4
}

var defaultClearColor = mgl32.Vec4{0.1, 0.1, 0.12, 1}

func (m RendererModule) Install(app *App, cmd *Commands) {
	if m.Name == "" {
		m.Name = RendererGL
	}
	if m.Uniforms == (core.UniformTable{}) {
		m.Uniforms = core.DefaultUniformTable()
	}
	if m.ClearColor == (mgl32.Vec4{}) {
		m.ClearColor = defaultClearColor
	}
	ensureSingleRenderer(app, m.Name)

	WindowModule{
		Width:  m.WindowWidth,
		Height: m.WindowHeight,
		Title:  m.WindowTitle,
		API:    m.Name.windowAPI(),
	}.Install(app, cmd)
	ws := Resource[WindowState](app)
	if ws.api != m.Name.windowAPI() {
		panic("RendererModule: installed window does not match renderer " + string(m.Name))
	}

	log := app.Logger()
	backend, err := openBackend(m.Name, ws, m.Uniforms, log)
	if err != nil {
		log.Errorf("open %s renderer: %v", m.Name, err)
		panic(err)
	}
	log.Infof("renderer selected: %s", m.Name)

	app.addResources(&RendererState{
		Name:       m.Name,
		Backend:    backend,
		Uniforms:   m.Uniforms,
		ClearColor: m.ClearColor,
	})

	app.UseSystem(
		System(beginFrameSystem).
			InStage(PreRender).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(endFrameSystem).
			InStage(PostRender).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(closeRendererSystem).
			InStage(Finale).
			InState(OnEnter(StateShutdown)),
	)
}

func beginFrameSystem(ws *WindowState, r *RendererState, cmd *Commands) {
	r.Width, r.Height = ws.FramebufferSize()
	r.Drawing = r.Width > 0 && r.Height > 0
	if !r.Drawing {
		return
	}
	if err := r.Backend.BeginFrame(r.Width, r.Height, r.ClearColor); err != nil {
		cmd.Logger().Errorf("begin frame: %v", err)
		r.Drawing = false
	}
}

func endFrameSystem(ws *WindowState, r *RendererState, cmd *Commands) {
	if !r.Drawing {
		return
	}
	if err := r.Backend.EndFrame(); err != nil {
		cmd.Logger().Errorf("end frame: %v", err)
	}
	if ws.api == WindowOpenGL {
		ws.windowGlfw.SwapBuffers()
	}
}

func closeRendererSystem(r *RendererState, cmd *Commands) {
	if r.closed {
		return
	}
	r.closed = true
	if err := r.Backend.Close(); err != nil {
		cmd.Logger().Errorf("close renderer: %v", err)
	}
}
