package app

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/janus/voxeldr/dr/config"
)

func newTestApp(t *testing.T) (*App, *float64) {
	t.Helper()
	clock := new(float64)
	a := NewApp(nil, config.Default(), nil)
	a.now = func() float64 { return *clock }
	return a, clock
}

func TestNewApp_CameraFromConfig(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, mgl32.Vec3{0, 10, -50}, a.Camera.Eye)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, a.Camera.Target)
	assert.Equal(t, float32(59), a.Camera.FovY)
	assert.Equal(t, float32(0), a.Camera.ZFar)
	assert.InDelta(t, 1280.0/720.0, a.Camera.Aspect, 1e-6)
	assert.False(t, a.Rotating)
}

func TestHandleKey_Movement(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		want mgl32.Vec3
	}{
		{glfw.KeyW, mgl32.Vec3{0, 10, -49.1}},
		{glfw.KeyS, mgl32.Vec3{0, 10, -50.9}},
		{glfw.KeyA, mgl32.Vec3{-0.9, 10, -50}},
		{glfw.KeyD, mgl32.Vec3{0.9, 10, -50}},
		{glfw.KeyE, mgl32.Vec3{0, 10.9, -50}},
		{glfw.KeyQ, mgl32.Vec3{0, 9.1, -50}},
	}

	for _, tt := range tests {
		a, _ := newTestApp(t)
		a.HandleKey(tt.key, glfw.Press)
		assert.True(t, a.Camera.Eye.ApproxEqualThreshold(tt.want, 1e-4), "key %v: got %v", tt.key, a.Camera.Eye)
		assert.Equal(t, mgl32.Vec3{0, 10, 0}, a.Camera.Target, "target stays fixed")
	}
}

func TestHandleKey_RepeatAndRelease(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleKey(glfw.KeyW, glfw.Press)
	a.HandleKey(glfw.KeyW, glfw.Repeat)
	a.HandleKey(glfw.KeyW, glfw.Release)
	assert.InDelta(t, -48.2, a.Camera.Eye.Z(), 1e-4)
}

func TestHandleKey_RotationToggle(t *testing.T) {
	a, clock := newTestApp(t)

	a.HandleKey(glfw.KeyR, glfw.Press)
	assert.False(t, a.Rotating, "toggle fires on release")

	*clock = 5
	a.HandleKey(glfw.KeyR, glfw.Release)
	assert.True(t, a.Rotating)
	assert.Equal(t, 5.0, a.rotationStart)

	a.HandleKey(glfw.KeyR, glfw.Release)
	assert.False(t, a.Rotating)
}

func TestHandleKey_HUD(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleKey(glfw.KeyF3, glfw.Press)
	assert.True(t, a.ShowHUD)
	a.HandleKey(glfw.KeyF3, glfw.Release)
	assert.True(t, a.ShowHUD)
	// no window attached
	a.HandleKey(glfw.KeyEscape, glfw.Press)
}

func TestModelMatrix(t *testing.T) {
	a, clock := newTestApp(t)
	base := mgl32.HomogRotate3DY(-math.Pi / 2)

	assert.True(t, a.ModelMatrix().ApproxEqualThreshold(base, 1e-5))

	*clock = 2
	a.HandleKey(glfw.KeyR, glfw.Release)
	assert.True(t, a.ModelMatrix().ApproxEqualThreshold(base, 1e-5), "timer restarts on toggle")

	*clock = 3.5
	want := mgl32.HomogRotate3DY(1.5).Mul4(base)
	assert.True(t, a.ModelMatrix().ApproxEqualThreshold(want, 1e-5))

	a.HandleKey(glfw.KeyR, glfw.Release)
	assert.True(t, a.ModelMatrix().ApproxEqualThreshold(base, 1e-5))
}

func TestTickFPS(t *testing.T) {
	a, clock := newTestApp(t)
	*clock = 1
	a.tickFPS()
	for i := 0; i < 61; i++ {
		*clock += 1.0 / 60.0
		a.tickFPS()
	}
	assert.InDelta(t, 60.0, a.FPS, 1.0)
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	base := time.Unix(0, 0)
	current := base
	p.now = func() time.Time { return current }

	p.BeginScope("update")
	current = current.Add(3 * time.Millisecond)
	p.EndScope("update")
	p.BeginScope("gbuffer")
	p.EndScope("gbuffer")
	p.BeginScope("update")

	assert.Equal(t, []string{"update", "gbuffer"}, p.Order)
	assert.Equal(t, 3*time.Millisecond, p.Scopes["update"])

	p.SetCount("voxels", 12)
	p.SetCount("indices", 432)
	stats := p.GetStatsString()
	assert.Contains(t, stats, "3.00 ms")
	assert.Less(t, strings.Index(stats, "indices"), strings.Index(stats, "voxels"))

	p.Reset()
	assert.Equal(t, time.Duration(0), p.Scopes["update"])
	assert.Equal(t, 12, p.Counts["voxels"])
}
