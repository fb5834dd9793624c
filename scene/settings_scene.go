package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/particles"
	"translink/theme"
)

// newSettingsScene builds the theme-editor backdrop: no product, just a
// breathing procedural background and an ambient point cloud tinted by the
// accent color.
func newSettingsScene(deps *Deps) *Stage {
	cam := NewCamera(mgl32.Vec3{0, 0, 8}, mgl32.DegToRad(50), 16.0/9.0)

	stage := newStage(core.PageSettings, cam)

	cfg := particles.DefaultConfig()
	field := particles.NewField(cfg)
	stage.Particles = field

	base := stage.Background

	stage.Hooks = Hooks{
		Update: func(dt, t float64) {
			field.Update(dt, t)

			// Procedural background: a slow luminance breath around the
			// theme's scene background.
			breath := float32(0.5+0.5*math.Sin(t*0.4)) * 0.08
			stage.Background = core.Color{
				R: base.R + breath*base.R,
				G: base.G + breath*base.G,
				B: base.B + breath*2*base.B,
				A: 1,
			}
		},
		ApplyTheme: func(t *theme.Theme) {
			stage.applyThemeBackground(t)
			base = stage.Background
			if c, ok := t.Color3D(theme.KeyTouchpadVisualiser); ok {
				field.SetColor(c)
			}
		},
		TransitionOut: func() float64 { return 0.4 },
		TransitionIn:  func() float64 { return 0.5 },
		Destroy: func() {
			field.Dispose()
		},
	}
	return stage
}
