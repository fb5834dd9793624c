package materials

import (
	"fmt"

	"translink/assets"
	"translink/core"
	"translink/event"
	"translink/theme"
)

// Material is a live shader-material instance. Uniform values are held
// CPU-side; Program is the compiled GL program handle, set by the backend
// on first draw (0 = not yet compiled).
type Material struct {
	Template    string
	Name        string
	VertexSrc   string
	FragmentSrc string
	Transparent bool
	DoubleSided bool
	Uniforms    map[string]*Uniform

	Program uint32
}

// Set writes one uniform value, creating it if the schema did not declare
// it. Kind mismatches overwrite; the backend trusts Kind at upload.
func (m *Material) Set(name string, u Uniform) {
	if existing, ok := m.Uniforms[name]; ok {
		*existing = u
		return
	}
	copied := u
	m.Uniforms[name] = &copied
}

// SetFloat is shorthand for the per-frame animation knobs.
func (m *Material) SetFloat(name string, v float32) {
	if u, ok := m.Uniforms[name]; ok && u.Kind == UniformFloat {
		u.Float = v
	}
}

// GetFloat returns a float uniform's value, or 0 when absent.
func (m *Material) GetFloat(name string) float32 {
	if u, ok := m.Uniforms[name]; ok && u.Kind == UniformFloat {
		return u.Float
	}
	return 0
}

// GetColor returns a color uniform's value and whether it exists.
func (m *Material) GetColor(name string) (core.Color, bool) {
	if u, ok := m.Uniforms[name]; ok && u.Kind == UniformColor {
		return u.Color, true
	}
	return core.Color{}, false
}

// themeBindings maps theme-bound uniform names to the ThreeD token that
// feeds them. These names are the public contract between the Theme
// Updater and this package; renaming one side without the other is a bug.
var themeBindings = map[string]string{
	"COLOR_FRESNEL":    theme.KeyFresnel,
	"uEnvColor":        theme.KeyEnv,
	"COLOR_PURPLE":     theme.KeyCore,
	"uColor":           theme.KeyTube,
	"COLOR_BASE":       theme.KeyTouchpadBase,
	"COLOR_CORNERS":    theme.KeyTouchpadCorners,
	"COLOR_VISUALISER": theme.KeyTouchpadVisualiser,
}

// System is the material factory and instance registry. It binds pipeline
// textures into new instances and keeps every live instance's theme-bound
// uniforms synchronized.
type System struct {
	bus       *event.Bus
	pipeline  *assets.Pipeline
	templates map[string]*Template
	instances []*Material
	current   *theme.Theme
	nextID    int
}

func NewSystem(bus *event.Bus, pipeline *assets.Pipeline) *System {
	return &System{
		bus:       bus,
		pipeline:  pipeline,
		templates: builtinTemplates(),
	}
}

// CreateMaterial instantiates a template: the uniform schema is cloned,
// the template's texture bindings are resolved against the asset pipeline,
// overrides are applied, and the instance is recorded. An unknown template
// id yields the solid error material and publishes material:error.
func (s *System) CreateMaterial(templateID string, overrides map[string]Uniform) *Material {
	tpl, ok := s.templates[templateID]
	if !ok {
		err := fmt.Errorf("materials: unknown template %q", templateID)
		core.Logger().Error("materials: substituting error material", "template", templateID)
		s.bus.Publish(event.TopicMaterialError, err.Error())
		tpl = s.templates[templateError]
	}

	s.nextID++
	mat := &Material{
		Template:    tpl.ID,
		Name:        fmt.Sprintf("%s#%d", tpl.ID, s.nextID),
		VertexSrc:   tpl.VertexSrc,
		FragmentSrc: tpl.FragmentSrc,
		Transparent: tpl.Transparent,
		DoubleSided: tpl.DoubleSided,
		Uniforms:    tpl.Schema.clone(),
	}

	for uniformName, assetName := range tpl.Bindings {
		tex := s.pipeline.Texture(assetName)
		if tex == nil {
			core.Logger().Warn("materials: bound texture missing, using fallback",
				"template", tpl.ID, "uniform", uniformName, "asset", assetName)
			tex = assets.NewSolidTexture("fallback:"+assetName, 128, 128, 128, 255)
		}
		mat.Set(uniformName, Texture(tex))
	}
	if s.current != nil {
		applyThemeColors(mat, s.current)
	}
	for name, u := range overrides {
		mat.Set(name, u)
	}

	s.instances = append(s.instances, mat)
	return mat
}

// Update advances the shared time uniform on every instance that declares
// one. dt is unused today but part of the per-frame contract.
func (s *System) Update(dt, t float64) {
	_ = dt
	for _, mat := range s.instances {
		if u, ok := mat.Uniforms["uTime"]; ok && u.Kind == UniformFloat {
			u.Float = float32(t)
		}
	}
}

// ApplyTheme writes the theme's ThreeD colors into every live instance
// whose schema declares a theme-bound uniform, and records the theme so
// instances created later start out themed too. Materials are never
// rebuilt to re-theme; instance identities are stable across any number
// of calls.
func (s *System) ApplyTheme(t *theme.Theme) {
	s.current = t
	for _, mat := range s.instances {
		applyThemeColors(mat, t)
	}
}

func applyThemeColors(mat *Material, t *theme.Theme) {
	for uniformName, tokenKey := range themeBindings {
		color, ok := t.Color3D(tokenKey)
		if !ok {
			continue
		}
		if u, ok := mat.Uniforms[uniformName]; ok && u.Kind == UniformColor {
			u.Color = color
		}
	}
}

// Instances exposes the live registry; the Theme Updater and the GL
// backend iterate it, they do not keep copies.
func (s *System) Instances() []*Material {
	return s.instances
}

// Destroy forgets every instance. GL program objects are released by the
// renderer, which owns the GPU context.
func (s *System) Destroy() {
	s.instances = nil
}
