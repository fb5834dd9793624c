// Package materials produces and tracks the showcase's shader materials.
// Six templates cover every surface of the product; instances carry their
// uniform values CPU-side so themes re-color live materials without a
// rebuild, and the GL backend uploads values at draw time.
package materials

import (
	"github.com/go-gl/mathgl/mgl32"

	"translink/assets"
	"translink/core"
)

// UniformKind tags the uniform value union.
type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformVec2
	UniformVec3
	UniformColor
	UniformTexture
)

// Uniform is one named shader input. Exactly the field matching Kind is
// meaningful.
type Uniform struct {
	Kind    UniformKind
	Float   float32
	Vec2    mgl32.Vec2
	Vec3    mgl32.Vec3
	Color   core.Color
	Texture *assets.Texture
}

func Float(v float32) Uniform           { return Uniform{Kind: UniformFloat, Float: v} }
func Vec2(v mgl32.Vec2) Uniform         { return Uniform{Kind: UniformVec2, Vec2: v} }
func Vec3(v mgl32.Vec3) Uniform         { return Uniform{Kind: UniformVec3, Vec3: v} }
func Color(c core.Color) Uniform        { return Uniform{Kind: UniformColor, Color: c} }
func Texture(t *assets.Texture) Uniform { return Uniform{Kind: UniformTexture, Texture: t} }

// Schema is a set of named uniforms with default values. Templates carry
// one; CreateMaterial deep-copies it into each instance.
type Schema map[string]Uniform

func (s Schema) clone() map[string]*Uniform {
	out := make(map[string]*Uniform, len(s))
	for name, u := range s {
		copied := u
		out[name] = &copied
	}
	return out
}
