package materials

import (
	"testing"

	"translink/assets"
	"translink/core"
	"translink/event"
	"translink/theme"
)

func newTestSystem(t *testing.T) (*System, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	pipe := assets.NewPipeline(bus, t.TempDir())
	return NewSystem(bus, pipe), bus
}

func TestCreateMaterialClonesSchema(t *testing.T) {
	s, _ := newTestSystem(t)

	a := s.CreateMaterial(TemplateTouchpad, nil)
	b := s.CreateMaterial(TemplateTouchpad, nil)

	a.SetFloat("uReveal", 1)
	if b.GetFloat("uReveal") != 0 {
		t.Error("uniform edit on one instance leaked into another")
	}
	if len(s.Instances()) != 2 {
		t.Errorf("registry holds %d instances, want 2", len(s.Instances()))
	}
}

func TestCreateMaterialOverrides(t *testing.T) {
	s, _ := newTestSystem(t)
	m := s.CreateMaterial(TemplateTube, map[string]Uniform{
		"uLineSize": Float(0.1),
	})
	if m.GetFloat("uLineSize") != 0.1 {
		t.Errorf("override not applied, uLineSize = %v", m.GetFloat("uLineSize"))
	}
}

func TestUnknownTemplateYieldsErrorMaterial(t *testing.T) {
	s, bus := newTestSystem(t)
	published := false
	bus.Subscribe(event.TopicMaterialError, func(any) { published = true })

	m := s.CreateMaterial("chrome-wheels", nil)

	if m == nil {
		t.Fatal("CreateMaterial returned nil for an unknown template")
	}
	if m.Template != templateError {
		t.Errorf("substitute template = %q, want %q", m.Template, templateError)
	}
	if c, ok := m.GetColor("uColor"); !ok || c != core.ColorMagenta {
		t.Error("error material should be solid magenta")
	}
	if !published {
		t.Error("material:error not published")
	}
}

func TestUpdateWritesTimeUniform(t *testing.T) {
	s, _ := newTestSystem(t)
	glass := s.CreateMaterial(TemplateEarphoneGlass, nil)
	errMat := s.CreateMaterial("bogus", nil) // no uTime in schema

	s.Update(0.016, 12.5)

	if got := glass.GetFloat("uTime"); got != 12.5 {
		t.Errorf("uTime = %v, want 12.5", got)
	}
	if _, ok := errMat.Uniforms["uTime"]; ok {
		t.Error("error material unexpectedly grew a uTime uniform")
	}
}

func TestApplyThemeUpdatesLiveUniformsInPlace(t *testing.T) {
	s, _ := newTestSystem(t)
	glass := s.CreateMaterial(TemplateEarphoneGlass, nil)
	base := s.CreateMaterial(TemplateEarphoneBase, nil)
	pad := s.CreateMaterial(TemplateTouchpad, nil)
	before := s.Instances()

	th := theme.Default()
	th.ThreeD[theme.KeyFresnel] = "#123456"
	s.ApplyTheme(th)

	want := core.MustParseColor("#123456")
	for _, m := range []*Material{glass, base} {
		if c, ok := m.GetColor("COLOR_FRESNEL"); !ok || c != want {
			t.Errorf("%s: COLOR_FRESNEL = %v, want %v", m.Template, c, want)
		}
	}
	if _, ok := pad.GetColor("COLOR_FRESNEL"); ok {
		t.Error("touchpad gained a COLOR_FRESNEL uniform it never declared")
	}

	// Re-theming never rebuilds: identical instance set, same pointers.
	after := s.Instances()
	if len(before) != len(after) {
		t.Fatal("instance count changed across ApplyTheme")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("instance %d identity changed across ApplyTheme", i)
		}
	}
}

func TestCreateMaterialAfterApplyThemeStartsThemed(t *testing.T) {
	s, _ := newTestSystem(t)

	th := theme.Default()
	th.ThreeD[theme.KeyFresnel] = "#123456"
	s.ApplyTheme(th) // no instances yet

	glass := s.CreateMaterial(TemplateEarphoneGlass, nil)
	want := core.MustParseColor("#123456")
	if c, ok := glass.GetColor("COLOR_FRESNEL"); !ok || c != want {
		t.Errorf("late instance COLOR_FRESNEL = %v, want themed %v", c, want)
	}

	// Explicit overrides still beat the theme.
	forced := s.CreateMaterial(TemplateEarphoneGlass, map[string]Uniform{
		"COLOR_FRESNEL": Color(core.MustParseColor("#FF0000")),
	})
	if c, _ := forced.GetColor("COLOR_FRESNEL"); c != core.MustParseColor("#FF0000") {
		t.Errorf("override lost to the theme, COLOR_FRESNEL = %v", c)
	}
}

func TestBindingFallbackWhenTextureMissing(t *testing.T) {
	// Pipeline is empty, so every binding resolves to the solid fallback.
	s, _ := newTestSystem(t)
	m := s.CreateMaterial(TemplateSilicone, nil)

	u, ok := m.Uniforms["tMap"]
	if !ok || u.Kind != UniformTexture || u.Texture == nil {
		t.Fatal("missing pipeline texture should bind a solid fallback")
	}
	if u.Texture.Width != 1 || u.Texture.Height != 1 {
		t.Error("fallback texture should be 1x1")
	}
}

func TestDestroyClearsRegistry(t *testing.T) {
	s, _ := newTestSystem(t)
	s.CreateMaterial(TemplateCore, nil)
	s.Destroy()
	if len(s.Instances()) != 0 {
		t.Error("Destroy left instances registered")
	}
}
