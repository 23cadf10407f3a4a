// internal/session/session.go
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/input"
)

// HoldMode selects how a force-disarm hold is confirmed.
type HoldMode int

const (
	// HoldBlocking waits the full hold time inside Run, then resamples the input.
	// Nothing else is serviced during the wait.
	HoldBlocking HoldMode = iota

	// HoldDeferred records a deadline and confirms on later cycles.
	HoldDeferred
)

// ParseHoldMode maps a config name to a HoldMode.
func ParseHoldMode(s string) (HoldMode, error) {
	switch s {
	case "", "blocking":
		return HoldBlocking, nil
	case "deferred":
		return HoldDeferred, nil
	default:
		return 0, fmt.Errorf("session: unknown hold mode %q", s)
	}
}

// Config is the runtime session policy.
type Config struct {
	Enabled  bool          // false: permanently armed, no timing
	MaxTime  time.Duration // armed sessions expire after this
	HoldTime time.Duration // force-disarm hold
	HoldMode HoldMode
}

// Announcer emits audible session feedback.
type Announcer interface {
	Announce(k announce.Kind)
}

// Resampler reads a fresh snapshot. ok=false means no sample was available.
type Resampler func() (s input.Snapshot, ok bool)

// State is the arm/disarm state machine. It is the only writer of Context.
type State struct {
	cfg Config
	ctx *Context
	ann Announcer
	log logrus.FieldLogger

	now      func() time.Time
	sleep    func(time.Duration)
	resample Resampler

	combination bool

	// pendingUntil is the deferred-mode hold deadline; zero when no hold is running.
	pendingUntil time.Time
}

// New validates cfg and binds the state machine to ctx.
// With gating disabled the context is armed immediately.
func New(cfg Config, ctx *Context, ann Announcer, log logrus.FieldLogger) (*State, error) {
	if ctx == nil {
		return nil, errors.New("session: context required")
	}
	if ann == nil {
		return nil, errors.New("session: announcer required")
	}
	if cfg.Enabled {
		if cfg.MaxTime <= 0 {
			return nil, errors.New("session: max time must be > 0")
		}
		if cfg.HoldTime <= 0 {
			return nil, errors.New("session: hold time must be > 0")
		}
	}

	s := &State{
		cfg:   cfg,
		ctx:   ctx,
		ann:   ann,
		log:   log,
		now:   time.Now,
		sleep: time.Sleep,
	}

	if !cfg.Enabled {
		ctx.arm(s.now())
	}
	return s, nil
}

// SetResampler wires the input read used to confirm a blocking hold.
// Without one, the hold is confirmed against the last notified snapshot.
func (s *State) SetResampler(r Resampler) {
	s.resample = r
}

// OnNotify records whether the arm/disarm combination is held. No side effects.
func (s *State) OnNotify(snap input.Snapshot) {
	s.combination = snap.Combination()
}

// OnReadError drops the combination flag when a cycle had no readable input,
// so a stale press neither arms nor completes a hold.
func (s *State) OnReadError() {
	s.combination = false
}

// Pending reports whether a deferred force-disarm hold is running.
func (s *State) Pending() bool {
	return !s.pendingUntil.IsZero()
}

// Run applies timeout and combination logic once. Call after OnNotify each cycle.
func (s *State) Run() {
	if !s.cfg.Enabled {
		if !s.ctx.Armed() {
			s.ctx.arm(s.now())
		}
		return
	}

	armed, since := s.ctx.Read()

	if !armed {
		if s.combination {
			s.log.Info("activating session")
			s.ann.Announce(announce.Arm)
			s.ctx.arm(s.now())
		}
		return
	}

	if elapsed := s.now().Sub(since); elapsed > s.cfg.MaxTime {
		s.log.WithField("elapsed", elapsed.Round(time.Second)).Info("session expired")
		s.disarm()
		return
	}

	switch s.cfg.HoldMode {
	case HoldDeferred:
		s.runDeferred()
	default:
		if s.combination {
			s.confirmBlocking()
		}
	}
}

func (s *State) confirmBlocking() {
	s.log.WithField("hold", s.cfg.HoldTime).Info("force disarm requested, confirming hold")
	s.sleep(s.cfg.HoldTime)

	if s.resample != nil {
		snap, ok := s.resample()
		if !ok {
			s.log.Warn("force disarm not confirmed: input unavailable")
			return
		}
		s.OnNotify(snap)
	}

	if !s.combination {
		s.log.Info("force disarm released before hold elapsed")
		return
	}

	s.log.Info("force exit session")
	s.disarm()
}

func (s *State) runDeferred() {
	now := s.now()

	if s.pendingUntil.IsZero() {
		if s.combination {
			s.pendingUntil = now.Add(s.cfg.HoldTime)
			s.log.WithField("hold", s.cfg.HoldTime).Info("force disarm requested, confirming hold")
		}
		return
	}

	if !s.combination {
		s.pendingUntil = time.Time{}
		s.log.Info("force disarm released before hold elapsed")
		return
	}

	if !now.Before(s.pendingUntil) {
		s.log.Info("force exit session")
		s.disarm()
	}
}

func (s *State) disarm() {
	s.ann.Announce(announce.Disarm)
	s.ctx.disarm()
	s.pendingUntil = time.Time{}
}
