// Package scene owns the per-page scene variants and the controller that
// instantiates them lazily, runs transitional hand-off between them, and
// fans per-frame updates into the active one.
package scene

import (
	"translink/assets"
	"translink/core"
	"translink/event"
	"translink/materials"
	"translink/particles"
	"translink/theme"
)

// Deps is the root container slice the scene layer needs; threaded through
// every variant builder instead of living in a global.
type Deps struct {
	Bus       *event.Bus
	Pipeline  *assets.Pipeline
	Materials *materials.System
}

// Hooks is the function table a variant exposes to the controller. Only
// Update is mandatory; the controller treats absent hooks as no-ops.
// Variants keep their private state in the closures.
type Hooks struct {
	Update func(dt, t float64)
	// BackgroundUpdate, when declared, runs on cached non-active stages
	// each frame in place of Update. Cheaper upkeep for parked scenes.
	BackgroundUpdate func(dt, t float64)
	UpdateScroll     func(p float64)
	PointerMove      func(nx, ny float64)
	ApplyTheme       func(t *theme.Theme)
	// TransitionOut/In return the hand-off duration in seconds; the
	// controller drives the phase clock and swaps the active pointer
	// between them.
	TransitionOut func() float64
	TransitionIn  func() float64
	Destroy       func()
}

// PostConfig is a stage's optional post-processing request. The renderer
// follows it when the effect stack initialized; otherwise stages render
// direct.
type PostConfig struct {
	BloomStrength  float32
	BloomRadius    float32
	BloomThreshold float32

	Exposure   float32
	Brightness float32
	Contrast   float32
	Saturation float32

	// FWA drives these two from scroll progress.
	ChromaticAberration float32
	Vignette            float32
}

// DefaultPostConfig returns the neutral grade shared by most pages.
func DefaultPostConfig() *PostConfig {
	return &PostConfig{
		BloomStrength:  0.55,
		BloomRadius:    0.8,
		BloomThreshold: 0.85,
		Exposure:       1,
		Contrast:       1,
		Saturation:     1,
	}
}

// Stage is one instantiated scene variant: camera, background, local
// graph, optional particle field and post chain, plus the variant's hooks.
type Stage struct {
	Page       core.Page
	Camera     *Camera
	Root       *Node
	Background core.Color
	Post       *PostConfig
	Particles  *particles.Field

	Hooks Hooks
}

func newStage(page core.Page, cam *Camera) *Stage {
	return &Stage{
		Page:       page,
		Camera:     cam,
		Root:       NewNode(string(page)),
		Background: core.MustParseColor("#050D15"),
		Post:       DefaultPostConfig(),
	}
}

// applyThemeBackground is the part of ApplyTheme every variant shares.
func (s *Stage) applyThemeBackground(t *theme.Theme) {
	if c, ok := t.Color3D(theme.KeySceneBackground); ok {
		s.Background = c
	}
}
