package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/theme"
)

// newEasterEggScene builds the preorder page: one earbud floating on a
// sinusoid in front of the order form.
func newEasterEggScene(deps *Deps) *Stage {
	cam := NewCamera(mgl32.Vec3{-0.8, 0.1, 3}, mgl32.DegToRad(32), 16.0/9.0)

	stage := newStage(core.PagePreorder, cam)
	prod := buildProduct(deps)
	stage.Root.AddChild(prod.root)

	for _, node := range prod.root.Children() {
		switch node.Name {
		case "EarphoneGlassL", "EarphoneBaseL", "CoreL", "TouchpadL", "SiliconeTipL":
		default:
			node.Visible = false
		}
	}

	basePos := prod.root.Transform.Position

	stage.Hooks = Hooks{
		Update: func(dt, t float64) {
			prod.root.Transform.Position = basePos.Add(mgl32.Vec3{
				0,
				float32(math.Sin(t*1.2)) * 0.08,
				0,
			})
			prod.root.Transform.Rotation = mgl32.QuatRotate(
				float32(math.Sin(t*0.7))*0.22, mgl32.Vec3{0, 1, 0})
		},
		// Parked, the float keeps ticking cheaply so returning to the page
		// never shows a frozen pose.
		BackgroundUpdate: func(dt, t float64) {
			prod.root.Transform.Position = basePos.Add(mgl32.Vec3{
				0,
				float32(math.Sin(t*1.2)) * 0.08,
				0,
			})
		},
		ApplyTheme: func(t *theme.Theme) {
			stage.applyThemeBackground(t)
		},
		TransitionOut: func() float64 { return 0.4 },
		TransitionIn:  func() float64 { return 0.6 },
	}
	return stage
}
