// internal/announce/speaker/speaker.go
package speaker

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	beepspeaker "github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Speaker plays announcement tones as sine waves on the default audio device.
// Used on bench setups without a buzzer.
type Speaker struct {
	sr beep.SampleRate
}

// Open initialises the audio device with a 100ms buffer.
func Open() (*Speaker, error) {
	if err := beepspeaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker: init: %w", err)
	}
	return &Speaker{sr: sampleRate}, nil
}

// Tone plays freq Hz for d and returns when the tone has drained.
func (s *Speaker) Tone(freq float64, d time.Duration) error {
	sine, err := generators.SineTone(s.sr, freq)
	if err != nil {
		return fmt.Errorf("speaker: tone %.0fHz: %w", freq, err)
	}

	done := make(chan struct{})
	beepspeaker.Play(beep.Seq(
		beep.Take(s.sr.N(d), sine),
		beep.Callback(func() { close(done) }),
	))
	<-done
	return nil
}

func (s *Speaker) Rest(d time.Duration) {
	time.Sleep(d)
}

func (s *Speaker) Close() error {
	beepspeaker.Close()
	return nil
}
