package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Window wraps the GLFW window and forwards the input the showcase cares
// about: resize, visibility, pointer movement, scroll, and the first user
// gesture (which gates audio output).
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	// Callbacks, all optional. Set before the first PollEvents.
	OnResize       func(w, h int)
	OnVisibility   func(visible bool)
	OnFirstGesture func()
	OnPointerMove  func(nx, ny float64) // normalized [-1,1] from window center
	OnScroll       func(delta float64)
	OnKey          func(key glfw.Key)

	gestureSeen bool
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Translink",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow initializes GLFW and creates an OpenGL 4.1 core context window.
// A creation failure is a capability error: the caller shows the fallback
// banner and skips the whole render core.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		window.Width = w
		window.Height = h
		if window.OnResize != nil {
			window.OnResize(w, h)
		}
	})
	handle.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if window.OnVisibility != nil {
			window.OnVisibility(!iconified)
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if window.OnPointerMove != nil {
			w, h := float64(window.Width), float64(window.Height)
			if w > 0 && h > 0 {
				window.OnPointerMove(x/w*2-1, y/h*2-1)
			}
		}
	})
	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		window.gesture()
		if window.OnScroll != nil {
			window.OnScroll(yoff)
		}
	})
	handle.SetMouseButtonCallback(func(_ *glfw.Window, _ glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			window.gesture()
		}
	})
	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		window.gesture()
		if window.OnKey != nil {
			window.OnKey(key)
		}
	})

	return window, nil
}

// gesture fires OnFirstGesture exactly once, on the first key press, mouse
// press, or scroll. Mirrors the browser's audio-unlock policy.
func (w *Window) gesture() {
	if w.gestureSeen {
		return
	}
	w.gestureSeen = true
	if w.OnFirstGesture != nil {
		w.OnFirstGesture()
	}
}

// PixelRatio returns the monitor content scale capped at 2. High-DPI panels
// above 2x cost GPU time without a visible gain on this content.
func (w *Window) PixelRatio() float32 {
	sx, _ := w.Handle.GetContentScale()
	if sx > 2 {
		return 2
	}
	if sx <= 0 {
		return 1
	}
	return sx
}

func (w *Window) ShouldClose() bool { return w.Handle.ShouldClose() }

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) SwapBuffers() { w.Handle.SwapBuffers() }

func (w *Window) FramebufferSize() (int, int) { return w.Handle.GetFramebufferSize() }

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
