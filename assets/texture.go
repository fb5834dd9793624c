package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// LoadTexture reads a PNG, JPEG, or WebP file and returns a CPU-side
// RGBA8 texture with cfg applied. FlipY is resolved here, at decode time,
// so the GPU upload path never needs to know about it.
func LoadTexture(name, path string, cfg TextureConfig) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcY := bounds.Min.Y + y
		if cfg.FlipY {
			srcY = bounds.Max.Y - 1 - y
		}
		for x := 0; x < w; x++ {
			rgba.Set(x, y, img.At(bounds.Min.X+x, srcY))
		}
	}

	return &Texture{
		Name:   name,
		Width:  w,
		Height: h,
		Pixels: rgba.Pix,
		Config: cfg,
	}, nil
}

// NewSolidTexture creates a 1x1 texture with the given RGBA bytes. Used
// for error materials and texture fallbacks.
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}
