// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Model   ModelConfig   `yaml:"model"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// ModelConfig selects the voxel model. An empty path loads the bundled sample.
type ModelConfig struct {
	Path   string `yaml:"path"`
	Rotate bool   `yaml:"rotate"`
}

type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	FovY   float32    `yaml:"fovy"` // degrees
	ZNear  float32    `yaml:"znear"`
	ZFar   float32    `yaml:"zfar"` // 0 = infinite
	Step   float32    `yaml:"step"` // units per key press
}

type RenderConfig struct {
	// SPIRV translates the embedded WGSL ahead of time instead of handing
	// WGSL to the driver.
	SPIRV       bool          `yaml:"spirv"`
	ShowHUD     bool          `yaml:"show_hud"`
	HUDFontSize float64       `yaml:"hud_font_size"`
	FrameDelay  time.Duration `yaml:"frame_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Console    bool   `yaml:"console"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "janus",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			Eye:    [3]float32{0, 10, -50},
			Target: [3]float32{0, 10, 0},
			FovY:   59,
			ZNear:  0.1,
			ZFar:   0,
			Step:   0.9,
		},
		Render: RenderConfig{
			ShowHUD:     false,
			HUDFontSize: 16,
			FrameDelay:  16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Console:    true,
		},
	}
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		errs = append(errs, fmt.Errorf("camera fovy %v must be in (0, 180)", c.Camera.FovY))
	}
	if c.Camera.ZNear <= 0 {
		errs = append(errs, fmt.Errorf("camera znear %v must be positive", c.Camera.ZNear))
	}
	if c.Camera.ZFar != 0 && c.Camera.ZFar <= c.Camera.ZNear {
		errs = append(errs, fmt.Errorf("camera zfar %v must exceed znear %v or be 0", c.Camera.ZFar, c.Camera.ZNear))
	}
	if c.Camera.Step <= 0 {
		errs = append(errs, fmt.Errorf("camera step %v must be positive", c.Camera.Step))
	}
	if c.Render.HUDFontSize <= 0 {
		errs = append(errs, fmt.Errorf("hud font size %v must be positive", c.Render.HUDFontSize))
	}
	if c.Render.FrameDelay < 0 {
		errs = append(errs, fmt.Errorf("frame delay %v must not be negative", c.Render.FrameDelay))
	}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}
