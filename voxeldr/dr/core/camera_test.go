package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestCamera_DepthRange(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	cam.ZNear = 1
	cam.ZFar = 10

	near := project(cam.ViewProj(), mgl32.Vec3{0, 0, -1})
	far := project(cam.ViewProj(), mgl32.Vec3{0, 0, -10})
	mid := project(cam.ViewProj(), mgl32.Vec3{0, 0, -5})

	assert.InDelta(t, 0, near.Z(), 1e-5)
	assert.InDelta(t, 1, far.Z(), 1e-5)
	assert.Greater(t, mid.Z(), near.Z())
	assert.Less(t, mid.Z(), far.Z())
}

func TestCamera_InfiniteFar(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	cam.ZFar = 0

	near := project(cam.ViewProj(), mgl32.Vec3{0, 0, -cam.ZNear})
	distant := project(cam.ViewProj(), mgl32.Vec3{0, 0, -1e6})

	assert.InDelta(t, 0, near.Z(), 1e-5)
	assert.InDelta(t, 1, distant.Z(), 1e-4)
	assert.Less(t, distant.Z(), float32(1.0001))
}

func TestCamera_TargetCentered(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 10, -50}, mgl32.Vec3{0, 10, 0})

	p := project(cam.ViewProj(), cam.Target)
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)

	// Points above the target land in the upper half of clip space.
	up := project(cam.ViewProj(), mgl32.Vec3{0, 15, 0})
	assert.Greater(t, up.Y(), float32(0))
}

func TestCamera_SetViewport(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	cam.SetViewport(800, 400)
	assert.Equal(t, float32(2), cam.Aspect)

	cam.SetViewport(0, 400)
	assert.Equal(t, float32(2), cam.Aspect)
}

func TestCamera_Move(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 10, -50}, mgl32.Vec3{0, 10, 0})
	cam.Move(mgl32.Vec3{0, 0, 0.9})
	assert.InDelta(t, -49.1, cam.Eye.Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, cam.Target)
}

func TestTransform_RotateY(t *testing.T) {
	tr := NewTransform()
	tr.RotateY(mgl32.DegToRad(-90))
	tr.RotateY(mgl32.DegToRad(90))

	m := tr.ObjectToWorld()
	assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), 1e-5))

	tr = NewTransform()
	tr.RotateY(mgl32.DegToRad(90))
	x := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, x.X(), 1e-5)
	assert.InDelta(t, -1, x.Z(), 1e-5)
}
