package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Page identifies one of the showcase's routed pages. Every scene variant,
// route, and page-controller state is keyed by one of these.
type Page string

const (
	PageHomepage Page = "homepage"
	PageSpecs    Page = "specs"
	PagePreorder Page = "preorder"
	PageSettings Page = "settings"
	PageFWA      Page = "fwa"
)

// Pages lists every routed page in presentation order.
var Pages = []Page{PageHomepage, PageSpecs, PagePreorder, PageSettings, PageFWA}

// Color is a linear-space RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite   = Color{1, 1, 1, 1}
	ColorBlack   = Color{0, 0, 0, 1}
	ColorMagenta = Color{1, 0, 1, 1} // error-material fallback
)

// ParseColor converts a CSS-style hex literal ("#rgb" or "#rrggbb") into a
// linear-space Color. The hex literal is interpreted as sRGB, which is how
// theme documents store colors.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(normalizeHex(hex))
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return Color{R: float32(r), G: float32(g), B: float32(b), A: 1}, nil
}

// MustParseColor is ParseColor for compile-time constants; it panics on a
// malformed literal.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsColorLiteral reports whether s parses as a color without converting it.
func IsColorLiteral(s string) bool {
	_, err := colorful.Hex(normalizeHex(s))
	return err == nil
}

// normalizeHex expands the #rgb shorthand; colorful only accepts #rrggbb.
func normalizeHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}

// Vec3 returns the color's RGB channels as a vector, the form shader
// uniforms consume.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Lerp linearly interpolates toward other by t in [0,1].
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Vertex is the interleaved CPU-side vertex layout shared by every mesh.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// MeshData holds indexed geometry before GPU upload.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// Transform is a position/rotation/scale triple.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotation := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}

// InitResult is the outcome of an asynchronous initialization step.
// Components report failure through these records instead of throwing;
// errors are reserved for programmer mistakes.
type InitResult struct {
	OK     bool
	Reason string
	Err    error
}

func InitOK() InitResult { return InitResult{OK: true} }

func InitFailed(reason string, err error) InitResult {
	return InitResult{Reason: reason, Err: err}
}
