package config

import "flag"

// Flags holds command-line overrides. Only flags that were set on the
// command line are applied.
type Flags struct {
	Config  string
	Model   string
	Debug   bool
	Width   int
	Height  int
	VSync   bool
	LogFile string

	fs *flag.FlagSet
}

func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.Model, "model", "", "Voxel model to load (.txt or .vox)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging and the HUD")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.VSync, "vsync", true, "Synchronize presentation with the display")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file as well")
	return f
}

func (f *Flags) isSet(name string) bool {
	if f == nil || f.fs == nil {
		return false
	}
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Model != "" {
		cfg.Model.Path = f.Model
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Render.ShowHUD = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.isSet("vsync") {
		cfg.Window.VSync = f.VSync
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
