package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"github.com/gekko3d/janus"
	"github.com/gekko3d/janus/voxeldr/assets"
	"github.com/gekko3d/janus/voxeldr/dr/app"
	"github.com/gekko3d/janus/voxeldr/dr/config"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	var file janus.FileConfig
	if cfg.Logging.LogFile != "" {
		file = janus.DefaultFileConfig(cfg.Logging.LogFile)
		file.MaxSizeMB = cfg.Logging.MaxSizeMB
		file.MaxBackups = cfg.Logging.MaxBackups
		file.MaxAgeDays = cfg.Logging.MaxAgeDays
	}
	log, err := janus.NewLogger("janus", cfg.Logging.Level, file, cfg.Logging.Console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	// On SIGINT the closer goroutine asks the loop to stop and waits for the
	// main thread to release the window and device.
	var stop atomic.Bool
	released := make(chan struct{})
	closer.Bind(func() {
		stop.Store(true)
		select {
		case <-released:
		case <-time.After(2 * time.Second):
			log.Warnf("shutdown timed out waiting for the render loop")
		}
		log.Sync()
	})

	server := janus.NewAssetServer(log.Named("assets"))
	var id janus.AssetId
	if cfg.Model.Path == "" {
		id, err = server.LoadText(assets.SampleName, assets.Sample)
	} else {
		id, err = server.LoadFile(cfg.Model.Path)
	}
	if err != nil {
		log.Errorf("load model: %v", err)
		close(released)
		closer.Fatalln(err)
	}
	model, _ := server.Get(id)

	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		panic(err)
	}

	application := app.NewApp(window, cfg, log.Named("render"))
	if err := application.Init(model.Grid); err != nil {
		log.Errorf("init renderer: %v", err)
		application.Release()
		window.Destroy()
		glfw.Terminate()
		close(released)
		closer.Fatalln(err)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleKey(key, action)
	})

	for !window.ShouldClose() && !stop.Load() {
		glfw.PollEvents()
		application.Update()
		application.Render()
		if cfg.Render.FrameDelay > 0 {
			time.Sleep(cfg.Render.FrameDelay)
		}
	}

	application.Release()
	window.Destroy()
	glfw.Terminate()
	close(released)
	closer.Close()
}
