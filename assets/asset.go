// Package assets implements the asset pipeline: a typed registry of
// decoded models, textures, HDRIs, and audio buffers, filled by a parallel
// loader that reports progress over the event bus. The pipeline owns every
// decoded resource; scenes clone meshes from it but never mutate a source
// asset.
package assets

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"

	"translink/core"
)

// Kind tags the asset union.
type Kind int

const (
	KindModel Kind = iota
	KindTexture
	KindHDRI
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTexture:
		return "texture"
	case KindHDRI:
		return "hdri"
	case KindAudio:
		return "audio"
	}
	return "unknown"
}

// WrapMode selects texture coordinate wrapping at upload time.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// TextureConfig is the per-asset decode/upload configuration carried by
// manifest entries and applied when the decode completes.
type TextureConfig struct {
	SRGB  bool // sample as sRGB (color data) rather than linear (masks, normals)
	Wrap  WrapMode
	FlipY bool
}

// Texture is decoded RGBA8 pixel data plus its upload configuration.
// GLID is set by the OpenGL backend after upload.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte // RGBA8, row-major, top-to-bottom (already flipped if FlipY)
	Config TextureConfig
	GLID   uint32
}

// ModelMesh is one named mesh of a loaded model, with its node transform
// baked alongside. Scenes clone the MeshData; the pipeline's copy is never
// mutated after load.
type ModelMesh struct {
	Name      string
	Data      core.MeshData
	Transform mgl32.Mat4
}

// Model is a decoded glTF document reduced to the meshes the showcase
// binds materials to by name.
type Model struct {
	Name   string
	Meshes []*ModelMesh
}

// Mesh returns the named mesh or nil.
func (m *Model) Mesh(name string) *ModelMesh {
	for _, mesh := range m.Meshes {
		if mesh.Name == name {
			return mesh
		}
	}
	return nil
}

// HDRI is a decoded radiance environment map, linear RGB triplets.
type HDRI struct {
	Name   string
	Width  int
	Height int
	Pixels []float32 // 3 floats per pixel
}

// Audio is a fully decoded clip buffer. The mixer wraps these with gain
// and loop configuration; the pipeline only owns the samples.
type Audio struct {
	Name   string
	Buffer *beep.Buffer
	Format beep.Format
}

// Asset is the tagged union stored in the registry. Exactly one payload
// field matching Kind is non-nil.
type Asset struct {
	Kind     Kind
	Name     string
	Path     string
	Optional bool

	Texture *Texture
	Model   *Model
	HDRI    *HDRI
	Audio   *Audio
}
