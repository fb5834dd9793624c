package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/theme"
)

// newSpecsScene builds the specs page: a single earbud turned by scroll
// progress while the emissive circuitry ramps up.
func newSpecsScene(deps *Deps) *Stage {
	cam := NewCamera(mgl32.Vec3{0.6, 0, 2.6}, mgl32.DegToRad(35), 16.0/9.0)
	cam.ParallaxIntensity = mgl32.Vec2{0.15, 0.1}

	stage := newStage(core.PageSpecs, cam)
	prod := buildProduct(deps)
	stage.Root.AddChild(prod.root)

	// Only the right earbud is presented; the rest of the product parks
	// out of view.
	for _, node := range prod.root.Children() {
		switch node.Name {
		case "EarphoneGlassR", "EarphoneBaseR", "CoreR", "TouchpadR", "SiliconeTipR":
		default:
			node.Visible = false
		}
	}

	var (
		scroll   float64
		rotation float64
		emissive float64
	)

	stage.Hooks = Hooks{
		Update: func(dt, t float64) {
			// Rotation follows scroll with a soft chase; emissive ramps in
			// over the last two thirds of the page.
			target := scroll * math.Pi * 2
			rotation += (target - rotation) * (1 - math.Pow(0.002, dt))
			prod.root.Transform.Rotation = mgl32.QuatRotate(
				float32(rotation), mgl32.Vec3{0, 1, 0})

			targetEmissive := math.Max(0, (scroll-0.33)/0.67)
			emissive += (targetEmissive - emissive) * (1 - math.Pow(0.01, dt))
			prod.setEmissive(float32(emissive))
			prod.setFresnelTransition(float32(scroll))
		},
		UpdateScroll: func(p float64) { scroll = p },
		PointerMove:  func(nx, ny float64) { prod.setPointer(nx, ny) },
		ApplyTheme: func(t *theme.Theme) {
			stage.applyThemeBackground(t)
		},
		TransitionOut: func() float64 { return 0.5 },
		TransitionIn:  func() float64 { return 0.7 },
	}
	return stage
}
