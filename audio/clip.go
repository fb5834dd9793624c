// Package audio is the showcase's mixer: decoded clips behind a
// master/music/sfx gain tree, gated by the first-user-gesture unlock the
// platform demands before audible output.
package audio

import (
	"github.com/gopxl/beep"

	"translink/assets"
)

// ClipKind separates looping background music from one-shot UI sounds.
type ClipKind int

const (
	KindMusic ClipKind = iota
	KindSFX
)

// MusicClipName is the background loop Enable starts automatically.
const MusicClipName = "synthLoop"

// Clip is one registered sound: a decoded buffer plus its playback policy.
// Music clips loop; SFX clips do not. DefaultGain is clamped to [0,1] at
// registration.
type Clip struct {
	Name        string
	Kind        ClipKind
	Buffer      *beep.Buffer
	Format      beep.Format
	DefaultGain float64
	Loop        bool
}

// clipDefaults is the startup manifest: per-clip kind and gain for every
// buffer the asset pipeline decodes. Clips the pipeline failed to load are
// simply absent and no-op on play.
var clipDefaults = []struct {
	name string
	kind ClipKind
	gain float64
}{
	{MusicClipName, KindMusic, 0.55},
	{"uiMenuOpen", KindSFX, 0.8},
	{"uiMenuClose", KindSFX, 0.8},
	{"uiHover", KindSFX, 0.35},
	{"uiClick", KindSFX, 0.7},
	{"uiTransition", KindSFX, 0.6},
	{"uiConfirm", KindSFX, 0.75},
}

// ClipsFromPipeline builds the startup clip set from whatever audio the
// pipeline managed to decode.
func ClipsFromPipeline(p *assets.Pipeline) []*Clip {
	var clips []*Clip
	for _, d := range clipDefaults {
		decoded := p.Audio(d.name)
		if decoded == nil {
			continue
		}
		clips = append(clips, &Clip{
			Name:        d.name,
			Kind:        d.kind,
			Buffer:      decoded.Buffer,
			Format:      decoded.Format,
			DefaultGain: d.gain,
			Loop:        d.kind == KindMusic,
		})
	}
	return clips
}
