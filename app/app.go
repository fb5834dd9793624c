// Package app wires the showcase together: the bus, the theme store, the
// asset pipeline, materials, scenes, audio, routing, and the frame clock,
// behind one container with a boot sequence and a per-frame entry point.
package app

import (
	"log/slog"

	"translink/assets"
	"translink/audio"
	"translink/core"
	"translink/event"
	"translink/materials"
	"translink/router"
	"translink/scene"
	"translink/theme"
)

// Each scroll notch moves the page progress by this much.
const scrollStep = 0.05

type Config struct {
	AssetsDir string
	StateDir  string
	StartPage core.Page
	Muted     bool
	Debug     bool
}

// App owns every subsystem. Construction wires them; Boot loads assets and
// presents the first page; Frame advances one tick.
type App struct {
	Config Config

	Bus       *event.Bus
	Store     *theme.Store
	Pipeline  *assets.Pipeline
	Materials *materials.System
	Scenes    *scene.Controller
	Mixer     *audio.Mixer
	Router    *router.Router
	Tokens    *TokenTable
	Updater   *Updater
	Clock     *Clock

	ready   bool
	stopped bool
	scroll  float64
}

// New builds the object graph. Nothing talks to the GPU or the audio
// device yet; that waits for Boot.
func New(cfg Config, out audio.Output) *App {
	if cfg.StartPage == "" {
		cfg.StartPage = core.PageHomepage
	}

	bus := event.NewBus()
	pipeline := assets.NewPipeline(bus, cfg.AssetsDir)
	mats := materials.NewSystem(bus, pipeline)
	scenes := scene.NewController(&scene.Deps{Bus: bus, Pipeline: pipeline, Materials: mats})
	tokens := NewTokenTable()

	a := &App{
		Config:    cfg,
		Bus:       bus,
		Store:     theme.NewStore(bus, cfg.StateDir),
		Pipeline:  pipeline,
		Materials: mats,
		Scenes:    scenes,
		Mixer:     audio.NewMixer(bus, out),
		Router:    router.New(bus, scenes),
		Tokens:    tokens,
		Updater:   NewUpdater(bus, tokens, scenes, mats),
		Clock:     NewClock(),
	}
	return a
}

// Boot runs the startup sequence: decode assets, bring up audio, restore
// the persisted theme, fan the theme out, and present the start page.
// Publishes app:ready on success. A mandatory asset failure aborts the
// boot; an audio device failure does not.
func (a *App) Boot() core.InitResult {
	if res := a.Pipeline.Init(); !res.OK {
		return res
	}

	if res := a.Mixer.Init(audio.ClipsFromPipeline(a.Pipeline)); !res.OK {
		core.Logger().Warn("audio unavailable, continuing silent", slog.String("reason", res.Reason))
	}
	if !a.Config.Muted {
		a.Mixer.Enable()
	}

	a.Store.LoadPersisted()
	a.Updater.Apply(a.Store.Current())

	if err := a.Router.Start(a.Config.StartPage); err != nil {
		return core.InitFailed("start page", err)
	}

	a.ready = true
	a.Bus.Publish(event.TopicAppReady, a.Config.StartPage)
	return core.InitOK()
}

func (a *App) Ready() bool { return a.ready }

// frameTimed is implemented by backends that run their own GPU-side
// simulation and need the frame clock.
type frameTimed interface {
	SetFrameTime(dt, t float64)
}

// Frame advances the clock and every per-frame system, then draws the
// active scene. While the clock is paused, or after Stop, the whole frame
// is skipped: an iconified window schedules no updates and no draws. The
// restored window's first frame fixes the image back up.
func (a *App) Frame(backend scene.Backend) {
	if a.stopped || a.Clock.Paused() {
		return
	}
	dt, t := a.Clock.Tick()
	a.Scenes.Update(dt, t)
	a.Materials.Update(dt, t)
	if ft, ok := backend.(frameTimed); ok {
		ft.SetFrameTime(dt, t)
	}
	a.Scenes.Render(backend)
}

// HandleResize fans the new framebuffer size to the cameras and the bus.
func (a *App) HandleResize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Scenes.Resize(w, h)
	a.Bus.Publish(event.TopicResize, [2]int{w, h})
}

// HandleVisibility pauses the clock while the window is iconified. A
// stopped app stays stopped whatever the window does.
func (a *App) HandleVisibility(visible bool) {
	if visible && !a.stopped {
		a.Clock.Resume()
	} else {
		a.Clock.Pause()
	}
}

// Stop cancels the frame loop: every later Frame call is a no-op.
// Idempotent.
func (a *App) Stop() {
	a.stopped = true
	a.Clock.Pause()
}

// Restart resumes frame processing after a Stop. Idempotent on a running
// app.
func (a *App) Restart() {
	a.stopped = false
	a.Clock.Resume()
}

// Stopped reports whether the loop has been cancelled.
func (a *App) Stopped() bool { return a.stopped }

// HandleFirstGesture unlocks the mixer. Gain stays at zero until this
// fires, whatever the enabled state says.
func (a *App) HandleFirstGesture() {
	a.Mixer.Unlock()
}

// HandleScroll folds wheel notches into the page's 0..1 progress and
// forwards it. Scrolling down advances.
func (a *App) HandleScroll(delta float64) {
	a.scroll -= delta * scrollStep
	if a.scroll < 0 {
		a.scroll = 0
	}
	if a.scroll > 1 {
		a.scroll = 1
	}
	a.Scenes.UpdateScroll(a.scroll)
}

// HandlePointerMove forwards normalized pointer coordinates to the active
// scene's parallax.
func (a *App) HandlePointerMove(nx, ny float64) {
	a.Scenes.PointerMove(nx, ny)
}

// ScrollProgress returns the accumulated page progress in 0..1.
func (a *App) ScrollProgress() float64 { return a.scroll }

// AttachWindow points the window's callbacks at the app's handlers.
func (a *App) AttachWindow(w *core.Window) {
	w.OnResize = a.HandleResize
	w.OnVisibility = a.HandleVisibility
	w.OnFirstGesture = a.HandleFirstGesture
	w.OnScroll = a.HandleScroll
	w.OnPointerMove = a.HandlePointerMove
}

// Close tears the subsystems down in reverse dependency order.
func (a *App) Close() {
	a.Stop()
	a.Updater.Close()
	a.Mixer.Close()
	a.Scenes.Destroy()
	a.Pipeline.Dispose()
}
