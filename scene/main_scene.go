package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/theme"
)

// newMainScene builds the homepage: the full product slowly rotating, with
// pointer parallax eased into the camera.
func newMainScene(deps *Deps) *Stage {
	cam := NewCamera(mgl32.Vec3{0, 0.25, 4}, mgl32.DegToRad(40), 16.0/9.0)
	cam.ParallaxIntensity = mgl32.Vec2{0.45, 0.25}

	stage := newStage(core.PageHomepage, cam)
	prod := buildProduct(deps)
	stage.Root.AddChild(prod.root)

	var (
		pointerX, pointerY float64 // raw, from the last pointer event
		easedX, easedY     float64 // low-pass filtered toward raw
		spin               float64
		scrollSpin         float64
	)

	stage.Hooks = Hooks{
		Update: func(dt, t float64) {
			// Critically-damped-ish easing: close a fixed fraction of the
			// remaining distance per frame, framerate-compensated.
			k := 1 - math.Pow(0.001, dt)
			easedX += (pointerX - easedX) * k
			easedY += (pointerY - easedY) * k
			cam.SetOffset(mgl32.Vec3{
				float32(easedX) * cam.ParallaxIntensity.X(),
				float32(-easedY) * cam.ParallaxIntensity.Y(),
				0,
			})

			spin += dt * 0.15
			prod.root.Transform.Rotation = mgl32.QuatRotate(
				float32(spin+scrollSpin), mgl32.Vec3{0, 1, 0})
		},
		PointerMove: func(nx, ny float64) {
			pointerX, pointerY = nx, ny
			prod.setPointer(nx, ny)
		},
		UpdateScroll: func(p float64) {
			// One extra half turn across the page.
			scrollSpin = p * math.Pi
		},
		ApplyTheme: func(t *theme.Theme) {
			stage.applyThemeBackground(t)
		},
		TransitionOut: func() float64 { return 0.6 },
		TransitionIn: func() float64 {
			prod.setEmissive(0)
			return 0.8
		},
	}
	return stage
}
