package deskscene

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyP
	KeyO
	KeyR
	KeyTab
	KeyEscape
	KeyShift
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

type InputModule struct{}

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int

	// mouse position has not been sampled since capture began
	resync bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// SetKey feeds one key or button sample into the edge detection.
func (input *Input) SetKey(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// SetMouse records the cursor position. Deltas are reported only while the
// mouse is captured, and the first sample after capturing reports none.
func (input *Input) SetMouse(x, y float64) {
	if input.MouseCaptured && !input.resync {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.resync = false
	input.MouseX = x
	input.MouseY = y
}

func (input *Input) ToggleCapture() {
	input.MouseCaptured = !input.MouseCaptured
	input.resync = true
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()
	win := s.windowGlfw

	for key, glfwKey := range keyToGlfw {
		input.SetKey(key, win.GetKey(glfwKey) == glfw.Press)
	}
	input.SetKey(MouseButtonLeft, win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
	input.SetKey(MouseButtonRight, win.GetMouseButton(glfw.MouseButtonRight) == glfw.Press)

	input.SetMouse(win.GetCursorPos())
	input.WindowWidth, input.WindowHeight = win.GetSize()

	if input.MouseCaptured {
		win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyW:      glfw.KeyW,
	KeyA:      glfw.KeyA,
	KeyS:      glfw.KeyS,
	KeyD:      glfw.KeyD,
	KeyQ:      glfw.KeyQ,
	KeyE:      glfw.KeyE,
	KeyP:      glfw.KeyP,
	KeyO:      glfw.KeyO,
	KeyR:      glfw.KeyR,
	KeyTab:    glfw.KeyTab,
	KeyEscape: glfw.KeyEscape,
	KeyShift:  glfw.KeyLeftShift,
}
