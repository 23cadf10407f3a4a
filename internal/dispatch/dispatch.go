// internal/dispatch/dispatch.go
package dispatch

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/input"
	"github.com/tamzrod/keygate/internal/keys"
)

// Phase of the press detector.
type Phase int

const (
	Idle Phase = iota
	Pressed
)

func (p Phase) String() string {
	if p == Pressed {
		return "pressed"
	}
	return "idle"
}

// ArmedReader is the read-only view of the session gate.
type ArmedReader interface {
	Armed() bool
}

// Speller plays a per-button letter after a keystroke.
type Speller interface {
	Spell(letter rune)
}

// State turns VT-validated single presses into exactly one keystroke per press.
type State struct {
	phase   Phase
	gate    ArmedReader
	keys    keys.Sink
	speller Speller
	keymap  Keymap
	log     logrus.FieldLogger

	last  keys.Action
	count uint32
}

// New wires the dispatcher. speller may be nil.
func New(gate ArmedReader, sink keys.Sink, speller Speller, km Keymap, log logrus.FieldLogger) (*State, error) {
	if gate == nil {
		return nil, errors.New("dispatch: session gate required")
	}
	if sink == nil {
		return nil, errors.New("dispatch: key sink required")
	}
	return &State{
		gate:    gate,
		keys:    sink,
		speller: speller,
		keymap:  km,
		log:     log,
	}, nil
}

// Phase returns the current detector phase.
func (d *State) Phase() Phase { return d.phase }

// LastAction is the most recently emitted action, None before the first.
func (d *State) LastAction() keys.Action { return d.last }

// Count is the number of emitted actions since start.
func (d *State) Count() uint32 { return d.count }

// OnNotify consumes one snapshot. Rejected shapes are silent no-ops.
func (d *State) OnNotify(s input.Snapshot) {
	if !d.gate.Armed() {
		return
	}

	switch d.phase {
	case Idle:
		if !s.VT {
			return
		}
		if !s.SinglePress() {
			return
		}

		idx := firstPressed(s)
		b := d.keymap[idx]
		fields := logrus.Fields{"button": string(rune('A' + idx)), "action": b.Action}

		if err := d.keys.Emit(b.Action); err != nil {
			d.log.WithFields(fields).WithError(err).Warn("keystroke failed")
		} else {
			d.log.WithFields(fields).Info("keystroke")
		}
		d.last = b.Action
		d.count++

		if b.Letter != 0 && d.speller != nil {
			d.speller.Spell(b.Letter)
		}
		d.phase = Pressed

	case Pressed:
		if !s.VT {
			d.log.Debug("key released")
			d.phase = Idle
		}
	}
}

// firstPressed returns the index of the first true button in A, B, C, D order.
// Callers guarantee at least one is true.
func firstPressed(s input.Snapshot) int {
	switch {
	case s.A:
		return 0
	case s.B:
		return 1
	case s.C:
		return 2
	default:
		return 3
	}
}
