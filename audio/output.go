package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output abstracts the audio device so the mixer is testable without one.
// The production implementation is the beep speaker; a failed Init puts
// the mixer into silent mode rather than failing startup.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// SpeakerOutput routes through the process-global beep speaker.
type SpeakerOutput struct{}

func (SpeakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (SpeakerOutput) Lock()                { speaker.Lock() }
func (SpeakerOutput) Unlock()              { speaker.Unlock() }
func (SpeakerOutput) Close()               { speaker.Close() }

// mixerSampleRate is the output rate; clips decoded at other rates are
// resampled on the way in.
const mixerSampleRate = beep.SampleRate(44100)

// mixerBufferLen sizes the device buffer.
var mixerBufferLen = mixerSampleRate.N(100 * time.Millisecond)
