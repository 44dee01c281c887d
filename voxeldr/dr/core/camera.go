package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a look-at camera with a right-handed perspective projection
// mapping depth to WebGPU's [0, 1] range.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	Aspect float32
	FovY   float32 // degrees
	ZNear  float32
	// ZFar <= 0 selects an infinite far plane.
	ZFar float32
}

func NewCamera(eye, target mgl32.Vec3) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     mgl32.Vec3{0, 1, 0},
		Aspect: 16.0 / 9.0,
		FovY:   59,
		ZNear:  0.1,
		ZFar:   100,
	}
}

// SetViewport updates the aspect ratio; zero sizes are ignored.
func (c *Camera) SetViewport(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) Move(delta mgl32.Vec3) {
	c.Eye = c.Eye.Add(delta)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	f := float32(1 / math.Tan(float64(mgl32.DegToRad(c.FovY))/2))
	n := c.ZNear

	if c.ZFar <= 0 {
		return mgl32.Mat4{
			f / c.Aspect, 0, 0, 0,
			0, f, 0, 0,
			0, 0, -1, -1,
			0, 0, -n, 0,
		}
	}

	far := c.ZFar
	return mgl32.Mat4{
		f / c.Aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (n - far), -1,
		0, 0, n * far / (n - far), 0,
	}
}

func (c *Camera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
