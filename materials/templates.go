package materials

import (
	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
)

// Template IDs. The set is closed; CreateMaterial with any other id yields
// the error material.
const (
	TemplateEarphoneGlass = "earphone-glass"
	TemplateEarphoneBase  = "earphone-base"
	TemplateCore          = "core"
	TemplateTube          = "tube"
	TemplateTouchpad      = "touchpad"
	TemplateSilicone      = "silicone"

	templateError = "error"
)

// Template describes one material family: its shader pair, the uniform
// schema instances start from, and which pipeline textures bind to which
// samplers.
type Template struct {
	ID          string
	VertexSrc   string
	FragmentSrc string
	Transparent bool
	DoubleSided bool
	Schema      Schema
	// Bindings maps sampler uniform name → pipeline texture name, resolved
	// at CreateMaterial time.
	Bindings map[string]string
}

// builtinTemplates returns the closed template set. Theme-bound color
// uniforms default to the factory theme's values; ApplyTheme overwrites
// them on every live instance when the theme changes.
func builtinTemplates() map[string]*Template {
	fresnel := core.MustParseColor("#41B2E2")
	env := core.MustParseColor("#0E2233")
	purple := core.MustParseColor("#8A2BE2")
	tube := core.MustParseColor("#3C87AD")
	padBase := core.MustParseColor("#0A1A28")
	padCorners := core.MustParseColor("#133a52")
	padVis := core.MustParseColor("#50DCFF")

	templates := []*Template{
		{
			ID:          TemplateEarphoneGlass,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: glassFragSrc,
			Transparent: true,
			Schema: Schema{
				"uTime":               Float(0),
				"COLOR_FRESNEL":       Color(fresnel),
				"uFresnelPower":       Float(2.5),
				"uEmissiveTransition": Float(0),
				"uOpacity":            Float(0.85),
				"uFluidOffset":        Vec2(mgl32.Vec2{}),
				"tMatcap":             Texture(nil),
				"tEmissiveMask":       Texture(nil),
			},
			Bindings: map[string]string{
				"tMatcap":       "matcapGlass",
				"tEmissiveMask": "headphoneEmissiveMask",
			},
		},
		{
			ID:          TemplateEarphoneBase,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: baseFragSrc,
			Schema: Schema{
				"uTime":              Float(0),
				"uEnvColor":          Color(env),
				"COLOR_FRESNEL":      Color(fresnel),
				"uFresnelPower":      Float(3),
				"uFresnelTransition": Float(0),
				"tVolumeShadow":      Texture(nil),
				"tNormal":            Texture(nil),
			},
			Bindings: map[string]string{
				"tVolumeShadow": "headphoneRoughness",
				"tNormal":       "headphoneNormal",
			},
		},
		{
			ID:          TemplateCore,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: coreFragSrc,
			Schema: Schema{
				"uTime":         Float(0),
				"COLOR_PURPLE":  Color(purple),
				"uNoiseScale":   Float(3.2),
				"uThreshold":    Float(0.42),
				"uFresnelPower": Float(2),
				"tNoise":        Texture(nil),
			},
			Bindings: map[string]string{"tNoise": "noise"},
		},
		{
			ID:          TemplateTube,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: tubeFragSrc,
			Transparent: true,
			DoubleSided: true,
			Schema: Schema{
				"uTime":     Float(0),
				"uColor":    Color(tube),
				"uLineSize": Float(0.04),
				"uBokeh":    Float(0.35),
			},
		},
		{
			ID:          TemplateTouchpad,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: touchpadFragSrc,
			Schema: Schema{
				"uTime":            Float(0),
				"COLOR_BASE":       Color(padBase),
				"COLOR_CORNERS":    Color(padCorners),
				"COLOR_VISUALISER": Color(padVis),
				"uPointer":         Vec2(mgl32.Vec2{0.5, 0.5}),
				"uReveal":          Float(0),
				"uFrequency":       Float(1),
				"tNoise":           Texture(nil),
			},
			Bindings: map[string]string{"tNoise": "noise"},
		},
		{
			ID:          TemplateSilicone,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: siliconeFragSrc,
			Schema: Schema{
				"uTime":        Float(0),
				"uRimStrength": Float(0.6),
				"tMap":         Texture(nil),
			},
			Bindings: map[string]string{"tMap": "headphoneSilicone"},
		},
		{
			ID:          templateError,
			VertexSrc:   surfaceVertSrc,
			FragmentSrc: errorFragSrc,
			Schema: Schema{
				"uColor": Color(core.ColorMagenta),
			},
		},
	}

	out := make(map[string]*Template, len(templates))
	for _, t := range templates {
		out[t.ID] = t
	}
	return out
}
