package scene

import (
	"testing"

	"translink/assets"
	"translink/core"
	"translink/event"
	"translink/materials"
	"translink/theme"
)

type countingBackend struct {
	draws   int
	last    *Stage
	resizes int
}

func (b *countingBackend) Draw(s *Stage) { b.draws++; b.last = s }
func (b *countingBackend) Resize(int, int) {
	b.resizes++
}

func newTestController(t *testing.T) (*Controller, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	pipe := assets.NewPipeline(bus, t.TempDir())
	deps := &Deps{
		Bus:       bus,
		Pipeline:  pipe,
		Materials: materials.NewSystem(bus, pipe),
	}
	return NewController(deps), bus
}

func TestGetSceneIsCachedPerPage(t *testing.T) {
	c, _ := newTestController(t)
	for _, page := range core.Pages {
		first, err := c.GetScene(page)
		if err != nil {
			t.Fatalf("GetScene(%s): %v", page, err)
		}
		second, err := c.GetScene(page)
		if err != nil {
			t.Fatalf("GetScene(%s) again: %v", page, err)
		}
		if first != second {
			t.Errorf("GetScene(%s) returned two different instances", page)
		}
	}
}

func TestGetSceneUnknownPage(t *testing.T) {
	c, _ := newTestController(t)
	if _, err := c.GetScene(core.Page("checkout")); err == nil {
		t.Error("unknown page accepted")
	}
}

func TestTransitionSwapsAndPublishes(t *testing.T) {
	c, bus := newTestController(t)
	var completed []core.Page
	bus.Subscribe(event.TopicSceneTransitionComplete, func(p any) {
		completed = append(completed, p.(core.Page))
	})

	home, err := c.Activate(core.PageHomepage)
	if err != nil {
		t.Fatal(err)
	}

	c.TransitionTo(core.PageSpecs)
	if c.Active() != home {
		t.Error("active scene swapped before the outgoing phase finished")
	}

	// Outgoing 0.6s, incoming 0.7s: run the clock past both.
	for i := 0; i < 100; i++ {
		c.Update(0.02, float64(i)*0.02)
	}

	if c.Active() == nil || c.Active().Page != core.PageSpecs {
		t.Fatal("active scene did not swap to specs")
	}
	if len(completed) != 1 || completed[0] != core.PageSpecs {
		t.Errorf("scene:transition-complete = %v, want one specs event", completed)
	}
	if _, ok := c.cache[core.PageHomepage]; !ok {
		t.Error("outgoing scene evicted from cache; it must be retained")
	}
}

func TestConcurrentTransitionDropped(t *testing.T) {
	c, bus := newTestController(t)
	completions := 0
	bus.Subscribe(event.TopicSceneTransitionComplete, func(any) { completions++ })

	if _, err := c.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	c.TransitionTo(core.PageSpecs)
	got := c.TransitionTo(core.PageFWA) // dropped: one already in flight

	if got.Page != core.PageHomepage {
		t.Errorf("dropped request returned %s, want the current scene", got.Page)
	}
	for i := 0; i < 200; i++ {
		c.Update(0.02, float64(i)*0.02)
	}
	if completions != 1 {
		t.Errorf("%d transitions completed, want 1", completions)
	}
	if c.Active().Page != core.PageSpecs {
		t.Errorf("active = %s, want specs (fwa request dropped)", c.Active().Page)
	}
}

func TestTransitionToUnknownPageKeepsScene(t *testing.T) {
	c, _ := newTestController(t)
	if _, err := c.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	got := c.TransitionTo(core.Page("nope"))
	if got.Page != core.PageHomepage {
		t.Error("unknown transition target switched scenes")
	}
	if c.Transitioning() {
		t.Error("failed transition left the controller in-flight")
	}
}

func TestTransitionToActiveSceneIsNoOp(t *testing.T) {
	c, _ := newTestController(t)
	if _, err := c.Activate(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	c.TransitionTo(core.PageHomepage)
	if c.Transitioning() {
		t.Error("self-transition started a hand-off")
	}
}

func TestRenderDrawsActiveStage(t *testing.T) {
	c, _ := newTestController(t)
	b := &countingBackend{}

	c.Render(b) // no active scene yet
	if b.draws != 0 {
		t.Error("Render drew with no active scene")
	}

	stage, _ := c.Activate(core.PageHomepage)
	c.Render(b)
	if b.draws != 1 || b.last != stage {
		t.Error("Render did not draw the active stage")
	}
}

func TestResizeReachesCachedScenes(t *testing.T) {
	c, _ := newTestController(t)
	home, _ := c.GetScene(core.PageHomepage)
	specs, _ := c.GetScene(core.PageSpecs)

	c.Resize(1920, 1080)

	want := float32(1920) / float32(1080)
	if home.Camera.Aspect != want || specs.Camera.Aspect != want {
		t.Error("Resize did not reach every cached scene")
	}

	// Idempotence: a second identical resize changes nothing observable.
	view := home.Camera.View()
	c.Resize(1920, 1080)
	if home.Camera.View() != view {
		t.Error("identical resize mutated the camera")
	}
}

func TestApplyThemeSetsBackgrounds(t *testing.T) {
	c, _ := newTestController(t)
	home, _ := c.GetScene(core.PageHomepage)

	th := theme.Default()
	th.ThreeD[theme.KeySceneBackground] = "#102030"
	c.ApplyTheme(th)

	want := core.MustParseColor("#102030")
	if home.Background != want {
		t.Errorf("background = %v, want %v", home.Background, want)
	}
}

func TestLazySceneBuildsWithCurrentTheme(t *testing.T) {
	c, _ := newTestController(t)

	th := theme.Default()
	th.ThreeD[theme.KeySceneBackground] = "#102030"
	c.ApplyTheme(th) // nothing cached yet

	specs, err := c.GetScene(core.PageSpecs)
	if err != nil {
		t.Fatal(err)
	}
	want := core.MustParseColor("#102030")
	if specs.Background != want {
		t.Errorf("first-visit background = %v, want themed %v", specs.Background, want)
	}
}

func TestSettingsSceneOwnsParticleField(t *testing.T) {
	c, _ := newTestController(t)
	settings, _ := c.GetScene(core.PageSettings)
	if settings.Particles == nil {
		t.Fatal("settings scene has no particle field")
	}

	count := settings.Particles.Count()
	if _, err := c.Activate(core.PageSettings); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		c.Update(1.0/60, float64(i)/60)
	}
	if len(settings.Particles.Positions) != count {
		t.Error("particle population drifted across frames")
	}
}

func TestScrollClampsToUnitRange(t *testing.T) {
	c, _ := newTestController(t)
	if _, err := c.Activate(core.PageFWA); err != nil {
		t.Fatal(err)
	}
	c.UpdateScroll(4.2) // clamps to 1: aberration settles at the endpoint value
	fwa := c.Active()
	if fwa.Post.ChromaticAberration != 0 {
		t.Errorf("aberration at scroll end = %v, want 0", fwa.Post.ChromaticAberration)
	}
	c.UpdateScroll(0.5)
	if fwa.Post.ChromaticAberration <= 0 {
		t.Error("mid-scroll aberration should be positive")
	}
}
