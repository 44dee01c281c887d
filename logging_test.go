package janus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false

	log, err := NewLogger("viewer", "info", cfg, false)
	require.NoError(t, err)

	log.Debugf("hidden %d", 1)
	log.Infof("loaded %d voxels", 42)
	log.Warnf("slow frame")
	log.Errorf("lost device")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "[viewer] loaded 42 voxels")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "ERROR")
	assert.NotContains(t, out, "hidden")
}

func TestZapLogger_SetDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.log")
	log, err := NewLogger("", "info", FileConfig{Path: path}, false)
	require.NoError(t, err)

	assert.False(t, log.DebugEnabled())
	log.SetDebug(true)
	assert.True(t, log.DebugEnabled())
	log.Debugf("now visible")
	log.SetDebug(false)
	assert.False(t, log.DebugEnabled())
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")
}

func TestZapLogger_Named(t *testing.T) {
	path := filepath.Join(t.TempDir(), "janus.log")
	log, err := NewLogger("app", "debug", FileConfig{Path: path}, false)
	require.NoError(t, err)

	log.Named("gpu").Infof("adapter ready")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[gpu] adapter ready")
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger("", "loud", FileConfig{}, false)
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Infof("nothing")
}
