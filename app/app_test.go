package app

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"translink/core"
	"translink/event"
	"translink/scene"
	"translink/theme"
)

type fakeOutput struct{ initErr error }

func (f *fakeOutput) Init(beep.SampleRate, int) error { return f.initErr }
func (f *fakeOutput) Play(beep.Streamer)              {}
func (f *fakeOutput) Lock()                           {}
func (f *fakeOutput) Unlock()                         {}
func (f *fakeOutput) Close()                          {}

type nullBackend struct{ draws int }

func (b *nullBackend) Draw(*scene.Stage) { b.draws++ }
func (b *nullBackend) Resize(int, int)   {}

func newTestApp(t *testing.T) *App {
	t.Helper()
	return New(Config{
		AssetsDir: t.TempDir(),
		StateDir:  t.TempDir(),
		StartPage: core.PageHomepage,
	}, &fakeOutput{})
}

func TestBootFailsWithoutMandatoryAssets(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()

	var ready, assetErrs int
	a.Bus.Subscribe(event.TopicAppReady, func(any) { ready++ })
	a.Bus.Subscribe(event.TopicAssetsError, func(any) { assetErrs++ })

	res := a.Boot()
	if res.OK {
		t.Fatal("boot succeeded with an empty asset directory")
	}
	if a.Ready() {
		t.Error("app marked ready after a failed boot")
	}
	if ready != 0 {
		t.Error("app:ready published after a failed boot")
	}
	if assetErrs == 0 {
		t.Error("assets:error not published for the missing mandatory asset")
	}
}

func TestDefaultThemeTokens(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()

	a.Updater.Apply(a.Store.Current())

	if got := a.Tokens.Get("--color-background"); got != "#050D15" {
		t.Errorf("--color-background = %q, want #050D15", got)
	}
	if got := a.Tokens.Get("data-theme"); got != theme.DefaultThemeName {
		t.Errorf("data-theme = %q, want %q", got, theme.DefaultThemeName)
	}
	if got := a.Tokens.Get("--color-3d-fresnelColor"); got == "" {
		t.Error("--color-3d-fresnelColor missing from the token table")
	}
}

func TestThemeChangeFansOutOnce(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()
	a.Updater.Apply(a.Store.Current())
	stage, err := a.Scenes.Activate(core.PageHomepage)
	if err != nil {
		t.Fatal(err)
	}

	before := a.Updater.AppliedCount()
	if err := a.Store.UpdateColor(theme.SectionThreeD, theme.KeySceneBackground, "#112233"); err != nil {
		t.Fatal(err)
	}

	if a.Updater.AppliedCount() != before+1 {
		t.Errorf("updater applied %d times, want 1", a.Updater.AppliedCount()-before)
	}
	if got := a.Tokens.Get("--color-3d-sceneBackground"); got != "#112233" {
		t.Errorf("token table not refreshed: %q", got)
	}
	want, _ := core.ParseColor("#112233")
	if stage.Background != want {
		t.Errorf("scene background = %v, want %v", stage.Background, want)
	}
}

func TestUpdaterNeverRepublishesThemeChanged(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()

	changes := 0
	a.Bus.Subscribe(event.TopicThemeChanged, func(any) { changes++ })

	if err := a.Store.UpdateColor(theme.SectionUI, "accent", "#FF8800"); err != nil {
		t.Fatal(err)
	}
	if changes != 1 {
		t.Errorf("theme:changed seen %d times for one edit, want 1", changes)
	}
}

func TestGestureUnlocksAudio(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()
	a.Mixer.Init(nil)
	a.Mixer.Enable()

	if g := a.Mixer.EffectiveMasterGain(); g != 0 {
		t.Fatalf("gain audible before the first gesture: %v", g)
	}
	a.HandleFirstGesture()
	if g := a.Mixer.EffectiveMasterGain(); g == 0 {
		t.Error("gain still silent after the first gesture")
	}
}

func TestScrollAccumulatesAndClamps(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()
	if _, err := a.Scenes.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}

	// Scrolling down (negative wheel delta) advances.
	for i := 0; i < 50; i++ {
		a.HandleScroll(-1)
	}
	if got := a.ScrollProgress(); got != 1 {
		t.Errorf("progress = %v after scrolling past the end, want 1", got)
	}
	for i := 0; i < 100; i++ {
		a.HandleScroll(1)
	}
	if got := a.ScrollProgress(); got != 0 {
		t.Errorf("progress = %v after scrolling back past the start, want 0", got)
	}
}

func TestVisibilityPausesClock(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()
	if _, err := a.Scenes.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}

	a.HandleVisibility(false)
	backend := &nullBackend{}
	a.Frame(backend)
	a.Frame(backend)

	if !a.Clock.Paused() {
		t.Error("clock not paused while hidden")
	}
	if a.Clock.Elapsed() != 0 {
		t.Errorf("elapsed advanced to %v while hidden", a.Clock.Elapsed())
	}
	if backend.draws != 0 {
		t.Errorf("draws = %d while hidden, want 0 (no frames scheduled)", backend.draws)
	}

	a.HandleVisibility(true)
	a.Frame(backend)
	if a.Clock.Paused() {
		t.Error("clock still paused after the window came back")
	}
	if backend.draws != 1 {
		t.Errorf("draws = %d after the window came back, want 1", backend.draws)
	}
}

func TestStopCancelsTheLoop(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()
	if _, err := a.Scenes.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}

	backend := &nullBackend{}
	a.Frame(backend)
	a.Stop()
	a.Stop() // idempotent
	a.Frame(backend)
	a.HandleVisibility(true) // a window event cannot resurrect a stopped loop
	a.Frame(backend)

	if !a.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
	if backend.draws != 1 {
		t.Errorf("draws = %d after Stop, want 1", backend.draws)
	}

	a.Restart()
	a.Restart() // idempotent
	a.Frame(backend)
	if backend.draws != 2 {
		t.Errorf("draws = %d after Restart, want 2", backend.draws)
	}
}

func TestClockClampsLongStalls(t *testing.T) {
	c := NewClock()
	c.last = c.last.Add(-5 * time.Second)
	dt, _ := c.Tick()
	if dt > maxFrameDelta {
		t.Errorf("dt = %v after a stall, want at most %v", dt, maxFrameDelta)
	}
}

func TestResizeIgnoresDegenerateSizes(t *testing.T) {
	a := newTestApp(t)
	defer a.Close()

	resizes := 0
	a.Bus.Subscribe(event.TopicResize, func(any) { resizes++ })
	a.HandleResize(0, 720)
	a.HandleResize(1280, 0)
	if resizes != 0 {
		t.Errorf("degenerate resize published %d events", resizes)
	}
	a.HandleResize(1280, 720)
	if resizes != 1 {
		t.Errorf("resize published %d events, want 1", resizes)
	}
}
