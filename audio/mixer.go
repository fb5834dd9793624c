package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"translink/core"
	"translink/event"
)

// VolumeChange is the payload of audio:volume events.
type VolumeChange struct {
	Channel string // "master", "music", "sfx"
	Value   float64
}

// Mixer owns the gain tree:
//
//	clip → per-clip volume → music/sfx sub-mixer → channel volume → master volume → device
//
// Output is silent until both the first user gesture has unlocked the
// device policy and Enable has been called; while either is missing the
// effective master gain is 0 regardless of the configured values.
type Mixer struct {
	bus *event.Bus
	out Output

	clips map[string]*Clip

	rootMixer  *beep.Mixer
	musicMixer *beep.Mixer
	sfxMixer   *beep.Mixer
	master     *effects.Volume
	musicVol   *effects.Volume
	sfxVol     *effects.Volume

	playingMusic map[string]*beep.Ctrl
	lastSfx      map[string]*beep.Ctrl

	initialized bool
	silentMode  bool // device init failed; keep state, produce nothing
	unlocked    bool
	enabled     bool

	masterGain float64
	musicGain  float64
	sfxGain    float64
}

// NewMixer builds an uninitialized mixer. Pass SpeakerOutput{} in
// production; tests inject a fake.
func NewMixer(bus *event.Bus, out Output) *Mixer {
	rootMixer := &beep.Mixer{}
	musicMixer := &beep.Mixer{}
	sfxMixer := &beep.Mixer{}

	musicVol := &effects.Volume{Streamer: musicMixer, Base: 2}
	sfxVol := &effects.Volume{Streamer: sfxMixer, Base: 2}
	rootMixer.Add(musicVol, sfxVol)
	master := &effects.Volume{Streamer: rootMixer, Base: 2, Silent: true}

	return &Mixer{
		bus:          bus,
		out:          out,
		clips:        make(map[string]*Clip),
		rootMixer:    rootMixer,
		musicMixer:   musicMixer,
		sfxMixer:     sfxMixer,
		master:       master,
		musicVol:     musicVol,
		sfxVol:       sfxVol,
		playingMusic: make(map[string]*beep.Ctrl),
		lastSfx:      make(map[string]*beep.Ctrl),
		masterGain:   0.8,
		musicGain:    1,
		sfxGain:      1,
	}
}

// Init registers the startup clips and opens the device. A device failure
// is non-fatal: the mixer enters silent mode and every play becomes a
// no-op. Idempotent.
func (m *Mixer) Init(clips []*Clip) core.InitResult {
	if m.initialized {
		return core.InitOK()
	}
	for _, c := range clips {
		m.Register(c)
	}

	if err := m.out.Init(mixerSampleRate, mixerBufferLen); err != nil {
		core.Logger().Warn("audio: device init failed, running silent", "error", err)
		m.silentMode = true
		m.initialized = true
		return core.InitOK()
	}
	m.out.Play(m.master)
	m.initialized = true
	m.applyGains()
	return core.InitOK()
}

// Register adds a clip, clamping its default gain into [0,1].
func (m *Mixer) Register(c *Clip) {
	if c == nil || c.Buffer == nil {
		return
	}
	c.DefaultGain = clamp01(c.DefaultGain)
	m.clips[c.Name] = c
}

// Unlock records the first user gesture. Until this fires, output stays
// silent no matter what Enable and the volume setters did.
func (m *Mixer) Unlock() {
	if m.unlocked {
		return
	}
	m.unlocked = true
	m.applyGains()
}

// Enable turns output on and starts the background music loop. Calling it
// twice is identical to calling it once: gains, playing clips, and bus
// publications are unchanged by the second call.
func (m *Mixer) Enable() {
	if m.enabled {
		return
	}
	m.enabled = true
	m.applyGains()
	m.PlayMusic(MusicClipName)
	m.bus.Publish(event.TopicAudioEnabled, true)
}

// Disable stops everything and forces the effective output gain to 0.
func (m *Mixer) Disable() {
	if !m.enabled {
		return
	}
	m.enabled = false
	for name := range m.playingMusic {
		m.stopMusicLocked(name)
	}
	m.applyGains()
	m.bus.Publish(event.TopicAudioEnabled, false)
}

// Enabled reports the toggle state (independent of the gesture unlock).
func (m *Mixer) Enabled() bool { return m.enabled }

// EffectiveMasterGain is the gain actually reaching the device: 0 while
// disabled or still locked, the configured master gain otherwise.
func (m *Mixer) EffectiveMasterGain() float64 {
	if !m.enabled || !m.unlocked {
		return 0
	}
	return m.masterGain
}

// PlaySfx stops any running instance of the named clip and restarts it.
// A disabled mixer, an unknown name, or a clip whose decode failed all
// no-op silently.
func (m *Mixer) PlaySfx(name string, gainOverride ...float64) {
	if !m.enabled || m.silentMode || !m.initialized {
		return
	}
	clip, ok := m.clips[name]
	if !ok || clip.Kind != KindSFX {
		return
	}
	gain := clip.DefaultGain
	if len(gainOverride) > 0 {
		gain = clamp01(gainOverride[0])
	}

	streamer := m.clipStreamer(clip)
	vol := &effects.Volume{Streamer: streamer, Base: 2}
	setVolume(vol, gain)
	ctrl := &beep.Ctrl{Streamer: vol}

	m.out.Lock()
	if prev, ok := m.lastSfx[name]; ok {
		prev.Streamer = nil // stop-then-restart
	}
	m.lastSfx[name] = ctrl
	m.sfxMixer.Add(ctrl)
	m.out.Unlock()
}

// PlayMusic starts the named music clip looping. Already-playing clips
// are left alone (idempotent).
func (m *Mixer) PlayMusic(name string) {
	if m.silentMode || !m.initialized {
		return
	}
	clip, ok := m.clips[name]
	if !ok || clip.Kind != KindMusic {
		return
	}
	if _, playing := m.playingMusic[name]; playing {
		return
	}

	streamer := m.clipStreamer(clip)
	if clip.Loop {
		streamer = loopForever(clip, streamer)
	}
	vol := &effects.Volume{Streamer: streamer, Base: 2}
	setVolume(vol, clip.DefaultGain)
	ctrl := &beep.Ctrl{Streamer: vol}

	m.out.Lock()
	m.playingMusic[name] = ctrl
	m.musicMixer.Add(ctrl)
	m.out.Unlock()
}

// StopMusic stops the named clip; stopping a clip that is not playing is
// a no-op.
func (m *Mixer) StopMusic(name string) {
	if _, playing := m.playingMusic[name]; !playing {
		return
	}
	m.stopMusicLocked(name)
}

func (m *Mixer) stopMusicLocked(name string) {
	ctrl := m.playingMusic[name]
	m.out.Lock()
	ctrl.Streamer = nil
	m.out.Unlock()
	delete(m.playingMusic, name)
}

// MusicPlaying reports whether the named music clip is running.
func (m *Mixer) MusicPlaying(name string) bool {
	_, ok := m.playingMusic[name]
	return ok
}

// SetMasterVolume clamps to [0,1], applies, and publishes audio:volume.
func (m *Mixer) SetMasterVolume(v float64) {
	m.masterGain = clamp01(v)
	m.applyGains()
	m.bus.Publish(event.TopicAudioVolume, VolumeChange{Channel: "master", Value: m.masterGain})
}

func (m *Mixer) SetMusicVolume(v float64) {
	m.musicGain = clamp01(v)
	m.applyGains()
	m.bus.Publish(event.TopicAudioVolume, VolumeChange{Channel: "music", Value: m.musicGain})
}

func (m *Mixer) SetSfxVolume(v float64) {
	m.sfxGain = clamp01(v)
	m.applyGains()
	m.bus.Publish(event.TopicAudioVolume, VolumeChange{Channel: "sfx", Value: m.sfxGain})
}

// applyGains pushes the gain tree into the live volume effects.
func (m *Mixer) applyGains() {
	locked := m.initialized && !m.silentMode
	if locked {
		m.out.Lock()
	}
	setVolume(m.master, m.EffectiveMasterGain())
	setVolume(m.musicVol, m.musicGain)
	setVolume(m.sfxVol, m.sfxGain)
	if locked {
		m.out.Unlock()
	}
}

// clipStreamer returns a fresh streamer over the clip's buffer, resampled
// if the clip was decoded at a rate other than the device's.
func (m *Mixer) clipStreamer(clip *Clip) beep.Streamer {
	s := clip.Buffer.Streamer(0, clip.Buffer.Len())
	if clip.Format.SampleRate != mixerSampleRate {
		return beep.Resample(4, clip.Format.SampleRate, mixerSampleRate, s)
	}
	return s
}

// loopForever restarts the clip's buffer each time it drains.
func loopForever(clip *Clip, first beep.Streamer) beep.Streamer {
	cur := first
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		total := 0
		for total < len(samples) {
			n, ok := cur.Stream(samples[total:])
			total += n
			if !ok {
				s := clip.Buffer.Streamer(0, clip.Buffer.Len())
				if clip.Format.SampleRate != mixerSampleRate {
					cur = beep.Resample(4, clip.Format.SampleRate, mixerSampleRate, s)
				} else {
					cur = s
				}
			}
		}
		return total, true
	})
}

// Close releases the device.
func (m *Mixer) Close() {
	if m.initialized && !m.silentMode {
		m.out.Close()
	}
}

// setVolume maps a linear [0,1] gain onto beep's exponential volume
// control; 0 flips the Silent switch instead of chasing -inf.
func setVolume(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
