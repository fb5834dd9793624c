package audio

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"

	"translink/event"
)

// fakeOutput stands in for the speaker so tests run without a device.
type fakeOutput struct {
	initErr error
	played  int
	locks   int
}

func (f *fakeOutput) Init(beep.SampleRate, int) error { return f.initErr }
func (f *fakeOutput) Play(beep.Streamer)              { f.played++ }
func (f *fakeOutput) Lock()                           { f.locks++ }
func (f *fakeOutput) Unlock()                         {}
func (f *fakeOutput) Close()                          {}

func testClip(name string, kind ClipKind, gain float64) *Clip {
	format := beep.Format{SampleRate: mixerSampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(256))
	return &Clip{Name: name, Kind: kind, Buffer: buf, Format: format,
		DefaultGain: gain, Loop: kind == KindMusic}
}

func newTestMixer(t *testing.T) (*Mixer, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	m := NewMixer(bus, &fakeOutput{})
	res := m.Init([]*Clip{
		testClip(MusicClipName, KindMusic, 0.55),
		testClip("uiMenuOpen", KindSFX, 0.8),
		testClip("uiClick", KindSFX, 0.7),
	})
	if !res.OK {
		t.Fatalf("Init failed: %s", res.Reason)
	}
	return m, bus
}

func TestEffectiveGainZeroUntilUnlockAndEnable(t *testing.T) {
	m, _ := newTestMixer(t)

	if g := m.EffectiveMasterGain(); g != 0 {
		t.Errorf("gain = %v before any gesture, want 0", g)
	}
	m.Enable()
	if g := m.EffectiveMasterGain(); g != 0 {
		t.Errorf("gain = %v enabled but locked, want 0", g)
	}
	if !m.master.Silent {
		t.Error("master volume not silent while locked")
	}

	m.Unlock()
	if g := m.EffectiveMasterGain(); g != 0.8 {
		t.Errorf("gain = %v after unlock+enable, want 0.8", g)
	}
	if m.master.Silent {
		t.Error("master volume still silent after unlock+enable")
	}
}

func TestEnableIsIdempotent(t *testing.T) {
	m, bus := newTestMixer(t)
	m.Unlock()

	publications := 0
	bus.Subscribe(event.TopicAudioEnabled, func(any) { publications++ })

	m.Enable()
	firstCtrl := m.playingMusic[MusicClipName]
	m.Enable()

	if publications != 1 {
		t.Errorf("audio:enabled published %d times, want 1", publications)
	}
	if m.playingMusic[MusicClipName] != firstCtrl {
		t.Error("second Enable restarted the music clip")
	}
	if len(m.playingMusic) != 1 {
		t.Errorf("%d music clips playing, want 1", len(m.playingMusic))
	}
}

func TestDisableStopsMusicAndZerosGain(t *testing.T) {
	m, _ := newTestMixer(t)
	m.Unlock()
	m.Enable()
	m.Disable()

	if m.MusicPlaying(MusicClipName) {
		t.Error("music still playing after Disable")
	}
	if g := m.EffectiveMasterGain(); g != 0 {
		t.Errorf("gain = %v after Disable, want 0", g)
	}
}

func TestPlaySfxWhileDisabledIsNoOp(t *testing.T) {
	m, _ := newTestMixer(t)
	m.PlaySfx("uiMenuOpen")
	if len(m.lastSfx) != 0 {
		t.Error("disabled mixer queued an sfx instance")
	}
}

func TestPlaySfxStopThenRestart(t *testing.T) {
	m, _ := newTestMixer(t)
	m.Unlock()
	m.Enable()

	m.PlaySfx("uiClick")
	first := m.lastSfx["uiClick"]
	m.PlaySfx("uiClick")
	second := m.lastSfx["uiClick"]

	if first == second {
		t.Error("second play did not restart the clip")
	}
	if first.Streamer != nil {
		t.Error("first instance not stopped on restart")
	}
}

func TestPlaySfxUnknownClipIsNoOp(t *testing.T) {
	m, _ := newTestMixer(t)
	m.Unlock()
	m.Enable()
	m.PlaySfx("doesNotExist") // must not panic or queue anything
	if len(m.lastSfx) != 0 {
		t.Error("unknown clip queued an instance")
	}
}

func TestStopMusicIdempotent(t *testing.T) {
	m, _ := newTestMixer(t)
	m.Unlock()
	m.Enable()
	m.StopMusic(MusicClipName)
	m.StopMusic(MusicClipName) // second stop is a no-op
	if m.MusicPlaying(MusicClipName) {
		t.Error("music still reported playing after StopMusic")
	}
}

func TestVolumeSettersClamp(t *testing.T) {
	m, bus := newTestMixer(t)
	var changes []VolumeChange
	bus.Subscribe(event.TopicAudioVolume, func(p any) {
		changes = append(changes, p.(VolumeChange))
	})

	m.SetMasterVolume(1.5)
	m.SetMusicVolume(-3)
	m.SetSfxVolume(0.25)

	if m.masterGain != 1 {
		t.Errorf("master = %v, want clamp to 1", m.masterGain)
	}
	if m.musicGain != 0 {
		t.Errorf("music = %v, want clamp to 0", m.musicGain)
	}
	if m.sfxGain != 0.25 {
		t.Errorf("sfx = %v, want 0.25", m.sfxGain)
	}
	if len(changes) != 3 {
		t.Errorf("published %d volume changes, want 3", len(changes))
	}
}

func TestDeviceFailureRunsSilent(t *testing.T) {
	bus := event.NewBus()
	m := NewMixer(bus, &fakeOutput{initErr: errors.New("no device")})
	res := m.Init([]*Clip{testClip("uiClick", KindSFX, 0.7)})

	if !res.OK {
		t.Fatal("device failure must not fail initialization")
	}
	m.Unlock()
	m.Enable()
	m.PlaySfx("uiClick") // silent mode: must not panic
	if len(m.lastSfx) != 0 {
		t.Error("silent-mode mixer queued an sfx instance")
	}
}

func TestRegisterClampsDefaultGain(t *testing.T) {
	m, _ := newTestMixer(t)
	c := testClip("loud", KindSFX, 4.2)
	m.Register(c)
	if c.DefaultGain != 1 {
		t.Errorf("DefaultGain = %v, want clamp to 1", c.DefaultGain)
	}
}
