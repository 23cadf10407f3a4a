// internal/announce/notifier.go
package announce

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Player renders single tones. Tone blocks for the tone length.
type Player interface {
	Tone(freq float64, d time.Duration) error
	Rest(d time.Duration)
}

// Notifier turns announcement kinds and letters into tone patterns.
// Playback is serialised: a pattern always finishes before the next starts.
type Notifier struct {
	mu      sync.Mutex
	player  Player
	profile Profile
	log     logrus.FieldLogger
}

// NewNotifier binds a player to a named profile.
func NewNotifier(p Player, profile string, log logrus.FieldLogger) (*Notifier, error) {
	if p == nil {
		return nil, fmt.Errorf("announce: player required")
	}
	prof, ok := Profiles[profile]
	if !ok {
		return nil, fmt.Errorf("announce: unknown profile %q", profile)
	}
	return &Notifier{player: p, profile: prof, log: log}, nil
}

// Announce plays the pattern for k. Failures are logged, never returned.
func (n *Notifier) Announce(k Kind) {
	steps, ok := n.profile[k]
	if !ok {
		n.log.WithField("kind", k).Warn("no pattern for announcement")
		return
	}
	n.log.WithField("kind", k).Debug("announce")
	n.play(steps)
}

// Spell plays the Morse code of letter. Letters without a code are ignored.
func (n *Notifier) Spell(letter rune) {
	steps, ok := Spelling(letter)
	if !ok {
		return
	}
	n.play(steps)
}

func (n *Notifier) play(steps []Step) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, s := range steps {
		freq, err := s.Frequency()
		if err != nil {
			n.log.WithError(err).Warn("bad tone step")
			return
		}
		if freq == 0 {
			n.player.Rest(s.Length)
			continue
		}
		if err := n.player.Tone(freq, s.Length); err != nil {
			n.log.WithError(err).Warn("tone playback failed")
			return
		}
	}
}

// logPlayer is the dry-run player: tones go to the log, nothing blocks.
type logPlayer struct {
	log logrus.FieldLogger
}

// NewLogPlayer returns a Player that only logs.
func NewLogPlayer(log logrus.FieldLogger) Player {
	return &logPlayer{log: log}
}

func (p *logPlayer) Tone(freq float64, d time.Duration) error {
	p.log.WithFields(logrus.Fields{"hz": freq, "length": d}).Debug("tone")
	return nil
}

func (p *logPlayer) Rest(time.Duration) {}
