// internal/daemon/daemon.go
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/input"
	"github.com/tamzrod/keygate/internal/keys"
	"github.com/tamzrod/keygate/internal/status"
	"github.com/tamzrod/keygate/internal/writer"
)

// Cycler delivers one snapshot per call to every subscriber.
type Cycler interface {
	PollAndDispatch() (s input.Snapshot, injected bool, err error)
}

// SessionRunner applies session timing once per cycle.
// OnReadError is called instead of a notification when the cycle had no input.
type SessionRunner interface {
	OnReadError()
	Run()
}

// SessionReader exposes the session gate read-only.
type SessionReader interface {
	Read() (armed bool, startedAt time.Time)
}

// ActionStats exposes dispatch counters for status publication.
type ActionStats interface {
	LastAction() keys.Action
	Count() uint32
}

// Announcer plays the startup tone.
type Announcer interface {
	Announce(k announce.Kind)
}

// Deps are the collaborators of one controller loop.
// Status and Announcer are optional.
type Deps struct {
	Bus       Cycler
	Session   SessionRunner
	Gate      SessionReader
	Stats     ActionStats
	Status    writer.StatusWriter
	Announcer Announcer
	Log       logrus.FieldLogger
}

// Daemon runs the controller loop. One goroutine. No overlap.
type Daemon struct {
	interval time.Duration
	d        Deps
	now      func() time.Time

	snap status.Snapshot
}

// New validates deps.
func New(interval time.Duration, d Deps) (*Daemon, error) {
	if interval <= 0 {
		return nil, errors.New("daemon: interval must be > 0")
	}
	if d.Bus == nil {
		return nil, errors.New("daemon: bus required")
	}
	if d.Session == nil || d.Gate == nil {
		return nil, errors.New("daemon: session required")
	}
	if d.Stats == nil {
		return nil, errors.New("daemon: action stats required")
	}
	if d.Log == nil {
		return nil, errors.New("daemon: logger required")
	}
	return &Daemon{
		interval: interval,
		d:        d,
		now:      time.Now,
		snap:     status.Snapshot{Health: status.HealthUnknown},
	}, nil
}

// Snapshot returns the status as last computed.
func (dm *Daemon) Snapshot() status.Snapshot { return dm.snap }

// Run announces Init, then cycles on the poll interval until ctx is cancelled.
func (dm *Daemon) Run(ctx context.Context) error {
	if dm.d.Announcer != nil {
		dm.d.Announcer.Announce(announce.Init)
	}

	// Full block write on start (identity re-assert).
	dm.publish()

	cycle := time.NewTicker(dm.interval)
	defer cycle.Stop()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	dm.d.Log.WithField("interval", dm.interval).Info("controller loop started")

	for {
		select {
		case <-ctx.Done():
			dm.d.Log.Info("controller loop stopped")
			return nil

		case <-cycle.C:
			dm.Cycle()

		case <-secTicker.C:
			dm.Tick()
		}
	}
}

// Cycle runs the fixed per-cycle order: read and notify, session run, status.
func (dm *Daemon) Cycle() {
	_, injected, err := dm.d.Bus.PollAndDispatch()

	var changed bool
	if err != nil {
		dm.d.Session.OnReadError()
		changed = dm.markError(err)
	} else {
		if injected {
			dm.d.Log.Debug("injected snapshot delivered")
		}
		changed = dm.markOK()
	}

	dm.d.Session.Run()

	if dm.refreshSession(false) {
		changed = true
	}
	if changed {
		dm.publish()
	}
}

// Tick is the 1 Hz housekeeping step.
func (dm *Daemon) Tick() {
	changed := dm.refreshSession(true)

	// Tick while not OK.
	if dm.snap.Health != status.HealthOK && dm.snap.SecondsInError < 65535 {
		dm.snap.SecondsInError++
		changed = true
	}
	if changed {
		dm.publish()
	}
}

// ------------------------------------------------------------
// status bookkeeping
// ------------------------------------------------------------

func (dm *Daemon) markOK() bool {
	changed := false

	if dm.snap.Health != status.HealthOK {
		if dm.snap.Health == status.HealthError {
			dm.d.Log.WithField("seconds_in_error", dm.snap.SecondsInError).Info("input recovered")
		}
		dm.snap.Health = status.HealthOK
		changed = true
	}
	if dm.snap.LastErrorCode != 0 {
		dm.snap.LastErrorCode = 0
		changed = true
	}
	if dm.snap.SecondsInError != 0 {
		dm.snap.SecondsInError = 0
		changed = true
	}
	return changed
}

func (dm *Daemon) markError(err error) bool {
	changed := false

	if dm.snap.Health != status.HealthError {
		dm.d.Log.WithError(err).Warn("input read failed")
		dm.snap.Health = status.HealthError
		changed = true
	}

	code := errorCode(err)
	if dm.snap.LastErrorCode != code {
		dm.snap.LastErrorCode = code
		changed = true
	}

	// seconds_in_error increments on the 1Hz ticker only.
	return changed
}

// refreshSession copies gate and dispatch counters into the snapshot.
// Session seconds move only when withSeconds is set so the block is not
// rewritten on every cycle.
func (dm *Daemon) refreshSession(withSeconds bool) bool {
	changed := false

	armed, since := dm.d.Gate.Read()
	if dm.snap.Armed != armed {
		dm.snap.Armed = armed
		changed = true
		if !armed && dm.snap.SessionSeconds != 0 {
			dm.snap.SessionSeconds = 0
		}
	}

	if armed && (withSeconds || changed) {
		secs := sessionSeconds(dm.now().Sub(since))
		if dm.snap.SessionSeconds != secs {
			dm.snap.SessionSeconds = secs
			changed = true
		}
	}

	last := uint16(dm.d.Stats.LastAction())
	if dm.snap.LastAction != last {
		dm.snap.LastAction = last
		changed = true
	}
	count := uint16(dm.d.Stats.Count())
	if dm.snap.ActionCount != count {
		dm.snap.ActionCount = count
		changed = true
	}
	return changed
}

func (dm *Daemon) publish() {
	if dm.d.Status == nil {
		return
	}
	if err := dm.d.Status.WriteStatus(dm.snap); err != nil {
		dm.d.Log.WithError(err).Warn("status write failed")
	}
}

func sessionSeconds(d time.Duration) uint32 {
	if d < 0 {
		return 0
	}
	s := d / time.Second
	if s > 1<<32-1 {
		return 1<<32 - 1
	}
	return uint32(s)
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 1 (generic error).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}
