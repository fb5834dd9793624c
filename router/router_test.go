package router

import (
	"testing"

	"translink/assets"
	"translink/core"
	"translink/event"
	"translink/materials"
	"translink/scene"
)

func newTestRouter(t *testing.T) (*Router, *scene.Controller, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	pipe := assets.NewPipeline(bus, t.TempDir())
	scenes := scene.NewController(&scene.Deps{
		Bus:       bus,
		Pipeline:  pipe,
		Materials: materials.NewSystem(bus, pipe),
	})
	return New(bus, scenes), scenes, bus
}

// run ticks the scene controller long enough for any transition to finish.
func run(c *scene.Controller) {
	for i := 0; i < 120; i++ {
		c.Update(0.02, float64(i)*0.02)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		path string
		want core.Page
	}{
		{"/", core.PageHomepage},
		{"", core.PageHomepage},
		{"/index.html", core.PageHomepage},
		{"/specs", core.PageSpecs},
		{"/specs/", core.PageSpecs},
		{"/preorder", core.PagePreorder},
		{"/settings", core.PageSettings},
		{"/fwa", core.PageFWA},
		{"/checkout", core.PageHomepage},
		{"/SPECS", core.PageHomepage},
	}
	for _, tc := range cases {
		if got := Resolve(tc.path); got != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestStartPublishesEnter(t *testing.T) {
	r, _, bus := newTestRouter(t)
	var entered []core.Page
	bus.Subscribe(event.TopicPageEnter, func(p any) {
		entered = append(entered, p.(core.Page))
	})

	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	if r.Current() != core.PageHomepage {
		t.Errorf("current = %s, want homepage", r.Current())
	}
	if r.CurrentState() != StateReady {
		t.Errorf("state = %s, want ready", r.CurrentState())
	}
	if len(entered) != 1 || entered[0] != core.PageHomepage {
		t.Errorf("page:enter publications = %v", entered)
	}
}

func TestNavigateSequencesLeaveThenEnter(t *testing.T) {
	r, scenes, bus := newTestRouter(t)
	var order []string
	bus.Subscribe(event.TopicPageLeave, func(p any) {
		order = append(order, "leave:"+string(p.(core.Page)))
	})
	bus.Subscribe(event.TopicPageEnter, func(p any) {
		order = append(order, "enter:"+string(p.(core.Page)))
	})

	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	r.Navigate("/specs")
	if r.CurrentState() != StateLeaving {
		t.Fatalf("state after Navigate = %s, want leaving", r.CurrentState())
	}
	if r.Current() != core.PageHomepage {
		t.Error("current page changed before the scene hand-off completed")
	}

	run(scenes)

	if r.Current() != core.PageSpecs {
		t.Errorf("current = %s, want specs", r.Current())
	}
	want := []string{"enter:homepage", "leave:homepage", "enter:specs"}
	if len(order) != len(want) {
		t.Fatalf("event order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestNavigateToCurrentPageIsNoop(t *testing.T) {
	r, _, bus := newTestRouter(t)
	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	leaves := 0
	bus.Subscribe(event.TopicPageLeave, func(any) { leaves++ })

	r.Navigate("/")
	if leaves != 0 {
		t.Errorf("page:leave published %d times for a self-navigation", leaves)
	}
	if r.CurrentState() != StateReady {
		t.Errorf("state = %s, want ready", r.CurrentState())
	}
}

func TestNavigateWhileLeavingIsDropped(t *testing.T) {
	r, scenes, bus := newTestRouter(t)
	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	leaves := 0
	bus.Subscribe(event.TopicPageLeave, func(any) { leaves++ })

	r.Go(core.PageSpecs)
	r.Go(core.PagePreorder)
	if leaves != 1 {
		t.Errorf("page:leave published %d times, want 1", leaves)
	}

	run(scenes)

	if r.Current() != core.PageSpecs {
		t.Errorf("current = %s, want specs (first request wins)", r.Current())
	}
	if r.CurrentState() != StateReady {
		t.Errorf("state = %s, want ready", r.CurrentState())
	}
}

func TestGoUnknownPageNeverWedges(t *testing.T) {
	r, scenes, bus := newTestRouter(t)
	if err := r.Start(core.PageSpecs); err != nil {
		t.Fatal(err)
	}
	leaves := 0
	bus.Subscribe(event.TopicPageLeave, func(any) { leaves++ })

	// Unknown id substitutes the homepage instead of committing to a
	// departure the scene layer will refuse.
	r.Go(core.Page("checkout"))
	run(scenes)

	if r.Current() != core.PageHomepage {
		t.Errorf("current = %s, want homepage substitute", r.Current())
	}
	if r.CurrentState() != StateReady {
		t.Errorf("state = %s, want ready", r.CurrentState())
	}
	if leaves != 1 {
		t.Errorf("page:leave published %d times, want 1", leaves)
	}

	// The state machine is still live: a real navigation goes through.
	r.Go(core.PageFWA)
	run(scenes)
	if r.Current() != core.PageFWA {
		t.Errorf("current after follow-up = %s, want fwa", r.Current())
	}
}

func TestGoUnknownPageWhileOnHomepageIsNoop(t *testing.T) {
	r, scenes, bus := newTestRouter(t)
	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	leaves := 0
	bus.Subscribe(event.TopicPageLeave, func(any) { leaves++ })

	r.Go(core.Page("checkout"))
	run(scenes)

	if leaves != 0 {
		t.Errorf("page:leave published %d times, want 0", leaves)
	}
	if r.CurrentState() != StateReady || r.Current() != core.PageHomepage {
		t.Errorf("state = %s on %s, want ready on homepage", r.CurrentState(), r.Current())
	}
}

func TestNavigateAgainAfterCompletion(t *testing.T) {
	r, scenes, _ := newTestRouter(t)
	if err := r.Start(core.PageHomepage); err != nil {
		t.Fatal(err)
	}
	r.Go(core.PageSpecs)
	run(scenes)
	r.Go(core.PageSettings)
	run(scenes)

	if r.Current() != core.PageSettings {
		t.Errorf("current = %s, want settings", r.Current())
	}
}
