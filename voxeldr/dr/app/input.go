package app

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// moveKeys maps movement keys to a unit step of the camera eye.
var moveKeys = map[glfw.Key]mgl32.Vec3{
	glfw.KeyW: {0, 0, 1},
	glfw.KeyS: {0, 0, -1},
	glfw.KeyA: {-1, 0, 0},
	glfw.KeyD: {1, 0, 0},
	glfw.KeyE: {0, 1, 0},
	glfw.KeyQ: {0, -1, 0},
}

// HandleKey applies one key event. Movement fires on press and repeat, the
// rotation toggle on release.
func (a *App) HandleKey(key glfw.Key, action glfw.Action) {
	if dir, ok := moveKeys[key]; ok {
		if action == glfw.Press || action == glfw.Repeat {
			a.Camera.Move(dir.Mul(a.step))
		}
		return
	}

	switch key {
	case glfw.KeyR:
		if action == glfw.Release {
			a.Rotating = !a.Rotating
			a.rotationStart = a.now()
			a.log.Debugf("model rotation %v", a.Rotating)
		}
	case glfw.KeyF3:
		if action == glfw.Press {
			a.ShowHUD = !a.ShowHUD
		}
	case glfw.KeyEscape:
		if action == glfw.Press && a.Window != nil {
			a.Window.SetShouldClose(true)
		}
	}
}

// ModelMatrix is rotY(t) * rotY(-90deg), t being seconds since rotation was
// switched on. With rotation off only the fixed -90 degree turn applies.
func (a *App) ModelMatrix() mgl32.Mat4 {
	a.Model.Rotation = mgl32.QuatIdent()
	a.Model.RotateY(-math.Pi / 2)
	if a.Rotating {
		a.Model.RotateY(float32(a.now() - a.rotationStart))
	}
	return a.Model.ObjectToWorld()
}
