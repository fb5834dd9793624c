package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/theme"
)

// newFWAScene builds the awards page: the product rotating slowly while
// scroll progress drives the chromatic-aberration and vignette grade.
func newFWAScene(deps *Deps) *Stage {
	cam := NewCamera(mgl32.Vec3{0, 0, 4.5}, mgl32.DegToRad(45), 16.0/9.0)

	stage := newStage(core.PageFWA, cam)
	prod := buildProduct(deps)
	stage.Root.AddChild(prod.root)

	stage.Post.BloomStrength = 0.75

	var spin float64

	stage.Hooks = Hooks{
		Update: func(dt, t float64) {
			spin += dt * 0.08
			prod.root.Transform.Rotation = mgl32.QuatRotate(
				float32(spin), mgl32.Vec3{0.15, 1, 0}.Normalize())
		},
		UpdateScroll: func(p float64) {
			// The grade leans harder into the lens artifacts as the page
			// scrolls, peaking mid-way and easing off at the end.
			peak := 1 - abs32(float32(p)*2-1)
			stage.Post.ChromaticAberration = peak * 0.012
			stage.Post.Vignette = 0.2 + peak*0.5
		},
		ApplyTheme: func(t *theme.Theme) {
			stage.applyThemeBackground(t)
		},
		TransitionOut: func() float64 { return 0.5 },
		TransitionIn:  func() float64 { return 0.9 },
	}
	return stage
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
