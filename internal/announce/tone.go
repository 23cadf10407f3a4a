// internal/announce/tone.go
package announce

import (
	"fmt"
	"time"
)

// noteBase holds the octave-0 frequency (Hz) of each note name.
// A tone plays at base << octave, which is what the pendant buzzers were tuned to.
var noteBase = map[string]int{
	"C":  32,
	"C#": 34,
	"D":  36,
	"D#": 38,
	"E":  41,
	"F":  43,
	"F#": 46,
	"G":  49,
	"G#": 52,
	"A":  55,
	"A#": 58,
	"B":  61,
}

// Step is one element of a pattern: a tone, or a rest when Note is empty.
type Step struct {
	Note   string
	Octave int
	Length time.Duration
}

func tone(note string, octave int, ms int) Step {
	return Step{Note: note, Octave: octave, Length: time.Duration(ms) * time.Millisecond}
}

func rest(ms int) Step {
	return Step{Length: time.Duration(ms) * time.Millisecond}
}

// Frequency returns the step frequency in Hz, or 0 for a rest.
func (s Step) Frequency() (float64, error) {
	if s.Note == "" {
		return 0, nil
	}
	base, ok := noteBase[s.Note]
	if !ok {
		return 0, fmt.Errorf("announce: unknown note %q", s.Note)
	}
	if s.Octave < 0 || s.Octave > 10 {
		return 0, fmt.Errorf("announce: octave %d out of range", s.Octave)
	}
	return float64(base << s.Octave), nil
}

// Profile maps every Kind to a pattern.
type Profile map[Kind][]Step

// Profiles are the deployment profiles' tone sets.
var Profiles = map[string]Profile{
	"classic": {
		Init:   {tone("G", 3, 50), tone("G", 4, 50)},
		Arm:    {tone("B", 4, 100), rest(100), tone("B", 4, 100), rest(100), tone("B", 4, 100)},
		Disarm: {tone("F", 3, 500), rest(100), tone("F", 3, 500)},
		Test:   {tone("F#", 4, 50), tone("G", 4, 50)},
	},
	"ap": {
		Init:   {tone("G", 3, 50), tone("G", 4, 50)},
		Arm:    {tone("G", 3, 100), rest(100), tone("G", 3, 100), tone("G", 4, 100)},
		Disarm: {tone("F", 3, 500), rest(100), tone("F", 3, 500)},
		Test:   {tone("F#", 4, 50), tone("G", 4, 50)},
	},
}

// ---- morse ----

const (
	morseNote   = "B"
	morseOctave = 4
)

var (
	morseDot  = 125 * time.Millisecond
	morseDash = 250 * time.Millisecond
	morseGap  = 50 * time.Millisecond
)

var morse = map[rune]string{
	'A': ".-",
	'B': "-...",
	'C': "-.-.",
	'D': "-..",
}

// Spelling returns the pattern that spells letter, or false if it has no code.
func Spelling(letter rune) ([]Step, bool) {
	code, ok := morse[letter]
	if !ok {
		return nil, false
	}
	steps := make([]Step, 0, 2*len(code))
	for _, sym := range code {
		l := morseDot
		if sym == '-' {
			l = morseDash
		}
		steps = append(steps,
			Step{Note: morseNote, Octave: morseOctave, Length: l},
			Step{Length: morseGap},
		)
	}
	return steps, true
}
