package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, [3]float32{0, 10, -50}, cfg.Camera.Eye)
	assert.Equal(t, [3]float32{0, 10, 0}, cfg.Camera.Target)
	assert.Equal(t, float32(59), cfg.Camera.FovY)
	assert.Equal(t, float32(0.9), cfg.Camera.Step)
	assert.Equal(t, 16*time.Millisecond, cfg.Render.FrameDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.yaml")
	yamlContent := `
window:
  width: 1920
  height: 1080
model:
  path: models/link.txt
  rotate: true
camera:
  zfar: 500
render:
  spirv: true
  frame_delay: 5ms
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, "models/link.txt", cfg.Model.Path)
	assert.True(t, cfg.Model.Rotate)
	assert.Equal(t, float32(500), cfg.Camera.ZFar)
	assert.True(t, cfg.Render.SPIRV)
	assert.Equal(t, 5*time.Millisecond, cfg.Render.FrameDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep defaults
	assert.Equal(t, float32(59), cfg.Camera.FovY)
	assert.True(t, cfg.Window.VSync)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 800\n  vsync: true\n"), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-config", path,
		"-width", "1024",
		"-vsync=false",
		"-debug",
		"-model", "castle.vox",
		"-log-file", "janus.log",
	}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Render.ShowHUD)
	assert.Equal(t, "castle.vox", cfg.Model.Path)
	assert.Equal(t, "janus.log", cfg.Logging.LogFile)
}

func TestUnsetVSyncFlagKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  vsync: false\n"), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.False(t, cfg.Window.VSync)
}

func TestLoad_MissingFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := Load(flags)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  znear: 0\nlogging:\n  level: loud\n"), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path}))

	_, err := Load(flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "znear")
	assert.Contains(t, err.Error(), "loud")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Camera.ZFar = 0.05
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Window.Height = 0
	assert.Error(t, cfg.Validate())
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "janus.yaml")

	cfg := Default()
	cfg.Model.Path = "castle.vox"
	cfg.Render.FrameDelay = 0
	require.NoError(t, cfg.SaveTo(path))

	loaded := Default()
	require.NoError(t, loadFromFile(loaded, path))
	assert.Equal(t, cfg, loaded)
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is linux only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/janus", ConfigDir())
}
