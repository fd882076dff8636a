package deskscene

import (
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the fly camera resource. The scene module overlays the layout's
// camera settings on it while loading.
type Camera struct {
	core.CameraState
	// BoostFactor multiplies Speed while Shift is held.
	BoostFactor float32
}

type CameraModule struct{}

func (m CameraModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Camera{CameraState: *core.NewCameraState(), BoostFactor: 3})
	app.UseSystem(
		System(cameraControlSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
}

// cameraMoveDir maps held keys to a camera-space direction:
// x right, y up, z forward.
func cameraMoveDir(input *Input) mgl32.Vec3 {
	var dir mgl32.Vec3
	if input.Pressed[KeyW] {
		dir[2] += 1
	}
	if input.Pressed[KeyS] {
		dir[2] -= 1
	}
	if input.Pressed[KeyD] {
		dir[0] += 1
	}
	if input.Pressed[KeyA] {
		dir[0] -= 1
	}
	if input.Pressed[KeyE] {
		dir[1] += 1
	}
	if input.Pressed[KeyQ] {
		dir[1] -= 1
	}
	return dir
}

func cameraControlSystem(input *Input, cam *Camera, time *Time, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.ChangeState(StateShutdown)
		return
	}
	if input.JustPressed[KeyTab] {
		input.ToggleCapture()
	}
	if input.JustPressed[KeyP] {
		cam.Orthographic = false
	}
	if input.JustPressed[KeyO] {
		cam.Orthographic = true
	}

	if input.MouseCaptured {
		cam.Look(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
	}

	dt := time.Seconds()
	if input.Pressed[KeyShift] && cam.BoostFactor > 0 {
		dt *= cam.BoostFactor
	}
	cam.Move(cameraMoveDir(input), dt)
}
