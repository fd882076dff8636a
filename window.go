package deskscene

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowAPI selects the client API the window is created for.
type WindowAPI int

const (
	// WindowOpenGL creates an OpenGL 4.1 core context and makes it current.
	WindowOpenGL WindowAPI = iota
	// WindowNoAPI leaves the surface to WebGPU.
	WindowNoAPI
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
	api          WindowAPI
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string, api WindowAPI) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	switch api {
	case WindowOpenGL:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	case WindowNoAPI:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	if api == WindowOpenGL {
		win.MakeContextCurrent()
		glfw.SwapInterval(1)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
		api:          api,
	}, nil
}

// Window exposes the GLFW handle to renderer backends.
func (s *WindowState) Window() *glfw.Window {
	return s.windowGlfw
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on high-DPI displays.
func (s *WindowState) FramebufferSize() (int, int) {
	return s.windowGlfw.GetFramebufferSize()
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

func (s *WindowState) destroy() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}

// WindowModule ensures a single shared window exists as a resource. A
// WindowState that is already installed is reused.
type WindowModule struct {
	Width  int
	Height int
	Title  string
	API    WindowAPI
}

func (m WindowModule) withDefaults() WindowModule {
	if m.Width <= 0 {
		m.Width = 1280
	}
	if m.Height <= 0 {
		m.Height = 720
	}
	if m.Title == "" {
		m.Title = "Desk"
	}
	return m
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	if Resource[WindowState](app) != nil {
		return
	}
	m = m.withDefaults()
	ws, err := createWindowState(m.Width, m.Height, m.Title, m.API)
	if err != nil {
		panic(err)
	}
	app.addResources(ws)
	app.Logger().Infof("created window %dx%d %q", m.Width, m.Height, m.Title)

	app.UseSystem(
		System(windowCloseSystem).
			InStage(PostUpdate).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(windowDestroySystem).
			InStage(Finale).
			InState(OnExit(StateShutdown)),
	)
}

func windowCloseSystem(s *WindowState, cmd *Commands) {
	if s.ShouldClose() {
		cmd.ChangeState(StateShutdown)
	}
}

func windowDestroySystem(s *WindowState) {
	s.destroy()
}
