// Package theme holds the showcase's color system: named theme records, the
// store that validates and persists them, and the preset library shipped
// with the product.
package theme

import (
	"fmt"
	"strings"

	"translink/core"
)

// Section names accepted by Store.UpdateColor.
const (
	SectionUI     = "ui"
	SectionThreeD = "threeD"
)

// UI tokens that every valid theme must define.
var RequiredUITokens = []string{"background", "text", "accent"}

// 3D token keys. The Theme Updater writes these to material uniforms by
// name, so the set is part of the public contract.
const (
	KeySceneBackground    = "sceneBackground"
	KeyFresnel            = "fresnelColor"
	KeyEnv                = "envColor"
	KeyCore               = "coreColor"
	KeyTube               = "tubeColor"
	KeyTouchpadBase       = "touchpadBaseColor"
	KeyTouchpadCorners    = "touchpadCornersColor"
	KeyTouchpadVisualiser = "touchpadVisualiserColor"
)

// Theme is a named, versioned color document. UI tokens style the overlay
// widgets; ThreeD tokens drive scene backgrounds and shader uniforms.
// Values are sRGB hex literals.
type Theme struct {
	Name    string            `json:"name"`
	Version int               `json:"version"`
	UI      map[string]string `json:"ui"`
	ThreeD  map[string]string `json:"threeD"`
}

// Clone returns a deep copy; stores hand out clones so callers cannot
// mutate the registry behind the store's back.
func (t *Theme) Clone() *Theme {
	c := &Theme{Name: t.Name, Version: t.Version}
	if t.UI != nil {
		c.UI = make(map[string]string, len(t.UI))
		for k, v := range t.UI {
			c.UI[k] = v
		}
	}
	if t.ThreeD != nil {
		c.ThreeD = make(map[string]string, len(t.ThreeD))
		for k, v := range t.ThreeD {
			c.ThreeD[k] = v
		}
	}
	return c
}

// Equal reports token-for-token equality.
func (t *Theme) Equal(other *Theme) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.Version != other.Version ||
		len(t.UI) != len(other.UI) || len(t.ThreeD) != len(other.ThreeD) {
		return false
	}
	for k, v := range t.UI {
		if other.UI[k] != v {
			return false
		}
	}
	for k, v := range t.ThreeD {
		if other.ThreeD[k] != v {
			return false
		}
	}
	return true
}

// Color3D parses the named ThreeD token into a linear color. Missing or
// malformed tokens return (zero, false).
func (t *Theme) Color3D(key string) (core.Color, bool) {
	v, ok := t.ThreeD[key]
	if !ok {
		return core.Color{}, false
	}
	c, err := core.ParseColor(v)
	if err != nil {
		return core.Color{}, false
	}
	return c, true
}

// ExportFilename derives the download name for a theme document:
// lower-cased, whitespace collapsed to hyphens, suffixed "-theme.json".
func (t *Theme) ExportFilename() string {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "untitled"
	}
	return name + "-theme.json"
}

// Validate checks a record's shape: name, version, a ui section carrying
// the required tokens, and parseable color literals throughout.
func Validate(t *Theme) error {
	if t == nil {
		return fmt.Errorf("theme: nil record")
	}
	if t.Name == "" {
		return fmt.Errorf("theme: missing name")
	}
	if t.Version <= 0 {
		return fmt.Errorf("theme %q: missing version", t.Name)
	}
	if t.UI == nil {
		return fmt.Errorf("theme %q: missing ui section", t.Name)
	}
	for _, key := range RequiredUITokens {
		v, ok := t.UI[key]
		if !ok {
			return fmt.Errorf("theme %q: missing required ui token %q", t.Name, key)
		}
		if !core.IsColorLiteral(v) {
			return fmt.Errorf("theme %q: ui token %q: invalid color %q", t.Name, key, v)
		}
	}
	for k, v := range t.UI {
		if !core.IsColorLiteral(v) {
			return fmt.Errorf("theme %q: ui token %q: invalid color %q", t.Name, k, v)
		}
	}
	for k, v := range t.ThreeD {
		if !core.IsColorLiteral(v) {
			return fmt.Errorf("theme %q: threeD token %q: invalid color %q", t.Name, k, v)
		}
	}
	return nil
}
