package assets

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// LoadHDRI decodes a Radiance (.hdr) environment map into linear RGB
// floats. Both flat and adaptive-RLE scanlines are handled. HDRIs are
// optional assets: a failure here degrades to the procedural environment.
func LoadHDRI(name, path string) (*HDRI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hdri %q: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("hdri %q: header: %w", path, err)
	}
	if !strings.HasPrefix(line, "#?RADIANCE") && !strings.HasPrefix(line, "#?RGBE") {
		return nil, fmt.Errorf("hdri %q: not a radiance file", path)
	}

	// Header: attribute lines until the first empty line.
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("hdri %q: header: %w", path, err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		if strings.HasPrefix(line, "FORMAT=") && !strings.Contains(line, "32-bit_rle_rgbe") {
			return nil, fmt.Errorf("hdri %q: unsupported format %s", path, strings.TrimSpace(line))
		}
	}

	// Resolution line, canonical orientation only: "-Y <h> +X <w>".
	line, err = r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("hdri %q: resolution: %w", path, err)
	}
	var w, h int
	if _, err := fmt.Sscanf(strings.TrimSpace(line), "-Y %d +X %d", &h, &w); err != nil {
		return nil, fmt.Errorf("hdri %q: resolution line %q: %w", path, strings.TrimSpace(line), err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("hdri %q: bad dimensions %dx%d", path, w, h)
	}

	hdri := &HDRI{Name: name, Width: w, Height: h, Pixels: make([]float32, w*h*3)}
	scan := make([]byte, w*4) // RGBE per pixel

	for y := 0; y < h; y++ {
		if err := readScanline(r, scan, w); err != nil {
			return nil, fmt.Errorf("hdri %q: scanline %d: %w", path, y, err)
		}
		for x := 0; x < w; x++ {
			rgbeToFloat(scan[x*4:x*4+4], hdri.Pixels[(y*w+x)*3:(y*w+x)*3+3])
		}
	}
	return hdri, nil
}

// readScanline fills scan with w RGBE tuples, decoding adaptive RLE when
// the scanline starts with the 0x02 0x02 marker.
func readScanline(r *bufio.Reader, scan []byte, w int) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}

	if header[0] != 2 || header[1] != 2 || (int(header[2])<<8|int(header[3])) != w {
		// Flat scanline; the four bytes read are the first pixel.
		copy(scan[0:4], header)
		_, err := io.ReadFull(r, scan[4:w*4])
		return err
	}

	// Adaptive RLE: four component planes, each run-length encoded.
	for c := 0; c < 4; c++ {
		x := 0
		for x < w {
			count, err := r.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				// Run of a repeated value.
				n := int(count) - 128
				v, err := r.ReadByte()
				if err != nil {
					return err
				}
				for i := 0; i < n && x < w; i++ {
					scan[x*4+c] = v
					x++
				}
			} else {
				// Literal span.
				for i := 0; i < int(count) && x < w; i++ {
					v, err := r.ReadByte()
					if err != nil {
						return err
					}
					scan[x*4+c] = v
					x++
				}
			}
		}
	}
	return nil
}

// rgbeToFloat converts one shared-exponent RGBE tuple to linear RGB.
func rgbeToFloat(rgbe []byte, out []float32) {
	if rgbe[3] == 0 {
		out[0], out[1], out[2] = 0, 0, 0
		return
	}
	scale := float32(math.Ldexp(1, int(rgbe[3])-(128+8)))
	out[0] = float32(rgbe[0]) * scale
	out[1] = float32(rgbe[1]) * scale
	out[2] = float32(rgbe[2]) * scale
}
