package scene

import (
	"fmt"

	"translink/core"
	"translink/event"
	"translink/theme"
)

// Backend is the rendering surface the controller draws through. The
// OpenGL renderer implements it; tests substitute a counter.
type Backend interface {
	Draw(stage *Stage)
	Resize(w, h int)
}

// transitionPhase tracks the serialized hand-off between two stages.
type transitionPhase struct {
	from    *Stage
	to      *Stage
	elapsed float64
	outDur  float64
	inDur   float64
	swapped bool
}

// Controller owns the scene cache and the active pointer. Scenes are
// instantiated lazily on first visit and cached until Destroy; at most one
// transition is in flight at a time.
type Controller struct {
	deps      *Deps
	factories map[core.Page]func(*Deps) *Stage
	cache     map[core.Page]*Stage
	active    *Stage
	inFlight  *transitionPhase
	lastTheme *theme.Theme
}

// NewController wires the five page variants.
func NewController(deps *Deps) *Controller {
	return &Controller{
		deps: deps,
		factories: map[core.Page]func(*Deps) *Stage{
			core.PageHomepage: newMainScene,
			core.PageSpecs:    newSpecsScene,
			core.PagePreorder: newEasterEggScene,
			core.PageFWA:      newFWAScene,
			core.PageSettings: newSettingsScene,
		},
		cache: make(map[core.Page]*Stage),
	}
}

// GetScene returns the cached stage for page, building it on first visit.
// Repeat calls return the same instance. The stage receives the last
// applied theme at build time so a first visit does not present factory
// colors. Unknown pages are programmer errors and return an error without
// touching the cache.
func (c *Controller) GetScene(page core.Page) (*Stage, error) {
	if stage, ok := c.cache[page]; ok {
		return stage, nil
	}
	factory, ok := c.factories[page]
	if !ok {
		return nil, fmt.Errorf("scene: unknown page %q", page)
	}
	stage := factory(c.deps)
	if c.lastTheme != nil {
		themeStage(stage, c.lastTheme)
	}
	c.cache[page] = stage
	return stage, nil
}

// Knows reports whether page has a registered variant.
func (c *Controller) Knows(page core.Page) bool {
	_, ok := c.factories[page]
	return ok
}

// Active returns the currently presented stage (nil before the first
// activation).
func (c *Controller) Active() *Stage { return c.active }

// Activate makes a page's stage active immediately, with no transition.
// Used at startup.
func (c *Controller) Activate(page core.Page) (*Stage, error) {
	stage, err := c.GetScene(page)
	if err != nil {
		return nil, err
	}
	c.active = stage
	return stage, nil
}

// TransitionTo starts a serialized hand-off to page. If a transition is
// already in flight the request is dropped and the current scene is
// returned unchanged. An unknown page logs a validation error and switches
// nothing. The swap itself happens inside Update when the outgoing phase
// completes; scene:transition-complete is published when the incoming
// phase finishes.
func (c *Controller) TransitionTo(page core.Page) *Stage {
	if c.inFlight != nil {
		return c.active
	}
	target, err := c.GetScene(page)
	if err != nil {
		core.Logger().Error("scene: transition to unknown page", "page", string(page))
		return c.active
	}
	if target == c.active {
		return c.active
	}

	phase := &transitionPhase{from: c.active, to: target}
	if c.active != nil && c.active.Hooks.TransitionOut != nil {
		phase.outDur = c.active.Hooks.TransitionOut()
	}
	c.inFlight = phase

	if c.active == nil {
		// Nothing to fade out; swap on the next Update tick.
		phase.outDur = 0
	}
	return c.active
}

// Transitioning reports whether a hand-off is in flight.
func (c *Controller) Transitioning() bool { return c.inFlight != nil }

// Update advances the transition clock, the active stage, and the
// background upkeep of cached stages — in that order, once per frame.
func (c *Controller) Update(dt, t float64) {
	c.advanceTransition(dt)

	if c.active != nil && c.active.Hooks.Update != nil {
		c.active.Hooks.Update(dt, t)
	}
	for _, stage := range c.cache {
		if stage != c.active && stage.Hooks.BackgroundUpdate != nil {
			stage.Hooks.BackgroundUpdate(dt, t)
		}
	}
}

func (c *Controller) advanceTransition(dt float64) {
	phase := c.inFlight
	if phase == nil {
		return
	}
	phase.elapsed += dt

	if !phase.swapped && phase.elapsed >= phase.outDur {
		// Atomic hand-off: the active pointer moves in one assignment.
		c.active = phase.to
		phase.swapped = true
		phase.elapsed = 0
		if phase.to.Hooks.TransitionIn != nil {
			phase.inDur = phase.to.Hooks.TransitionIn()
		}
	}
	if phase.swapped && phase.elapsed >= phase.inDur {
		c.inFlight = nil
		c.deps.Bus.Publish(event.TopicSceneTransitionComplete, phase.to.Page)
	}
}

// Render draws the active stage through the backend.
func (c *Controller) Render(b Backend) {
	if c.active == nil {
		return
	}
	b.Draw(c.active)
}

// Resize fans the new framebuffer size out to every cached stage, active
// or not, so parked cameras come back with the right aspect.
func (c *Controller) Resize(w, h int) {
	for _, stage := range c.cache {
		stage.Camera.SetAspect(w, h)
	}
}

// UpdateScroll maps normalized scroll progress into the active stage.
func (c *Controller) UpdateScroll(p float64) {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if c.active != nil && c.active.Hooks.UpdateScroll != nil {
		c.active.Hooks.UpdateScroll(p)
	}
}

// PointerMove forwards the normalized pointer to the active stage.
func (c *Controller) PointerMove(nx, ny float64) {
	if c.active != nil && c.active.Hooks.PointerMove != nil {
		c.active.Hooks.PointerMove(nx, ny)
	}
}

// ApplyTheme re-colors every cached stage and remembers the theme for
// stages built later. Material uniforms are handled by the material
// system; stages only own their background colors.
func (c *Controller) ApplyTheme(t *theme.Theme) {
	c.lastTheme = t
	for _, stage := range c.cache {
		themeStage(stage, t)
	}
}

func themeStage(stage *Stage, t *theme.Theme) {
	if stage.Hooks.ApplyTheme != nil {
		stage.Hooks.ApplyTheme(t)
	} else {
		stage.applyThemeBackground(t)
	}
}

// Destroy tears down every cached stage. Only called at system teardown;
// page navigation never destroys scenes.
func (c *Controller) Destroy() {
	for _, stage := range c.cache {
		if stage.Hooks.Destroy != nil {
			stage.Hooks.Destroy()
		}
	}
	c.cache = make(map[core.Page]*Stage)
	c.active = nil
	c.inFlight = nil
}
