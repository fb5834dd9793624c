package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"

	"translink/app"
	"translink/audio"
	"translink/core"
	"translink/internal/opengl"
	"translink/router"
)

func main() {
	var (
		assetsDir = flag.String("assets", "assets/data", "asset directory (models, textures, audio)")
		stateDir  = flag.String("state", defaultStateDir(), "directory for persisted settings")
		startPath = flag.String("page", "/", "page path to open at startup")
		mute      = flag.Bool("mute", false, "start with audio disabled")
		debug     = flag.Bool("debug", false, "verbose logging and the token dump on startup")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(app.Config{
		AssetsDir: *assetsDir,
		StateDir:  *stateDir,
		StartPage: router.Resolve(*startPath),
		Muted:     *mute,
		Debug:     *debug,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "translink:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer window.Destroy()

	fbW, fbH := window.FramebufferSize()
	renderer, err := opengl.NewRenderer(fbW, fbH, window.PixelRatio())
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	a := app.New(cfg, audio.SpeakerOutput{})
	defer a.Close()
	a.AttachWindow(window)
	window.OnResize = func(w, h int) {
		renderer.Resize(w, h)
		a.HandleResize(w, h)
	}
	window.OnKey = func(key glfw.Key) {
		switch key {
		case glfw.KeyEscape:
			window.Handle.SetShouldClose(true)
		case glfw.Key1:
			a.Router.Navigate("/")
		case glfw.Key2:
			a.Router.Navigate("/specs")
		case glfw.Key3:
			a.Router.Navigate("/preorder")
		case glfw.Key4:
			a.Router.Navigate("/settings")
		case glfw.Key5:
			a.Router.Navigate("/fwa")
		case glfw.KeyM:
			if a.Mixer.Enabled() {
				a.Mixer.Disable()
			} else {
				a.Mixer.Enable()
			}
		}
	}

	if res := a.Boot(); !res.OK {
		return fmt.Errorf("boot: %s: %w", res.Reason, res.Err)
	}
	if cfg.Debug {
		fmt.Print(a.Tokens.Dump())
	}

	for !window.ShouldClose() {
		window.PollEvents()
		a.Frame(renderer)
		window.SwapBuffers()
	}
	return nil
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return dir + "/translink"
}
