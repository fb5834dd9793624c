package assets

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
)

// LoadAudio decodes an MP3 file into a fully buffered clip. Clips are
// small enough (UI sounds and one music loop) that decoding up front beats
// streaming from disk per play.
func LoadAudio(name, path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio %q: %w", path, err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode audio %q: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)

	return &Audio{Name: name, Buffer: buf, Format: format}, nil
}
