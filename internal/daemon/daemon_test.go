// internal/daemon/daemon_test.go
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/input"
	"github.com/tamzrod/keygate/internal/keys"
	"github.com/tamzrod/keygate/internal/status"
)

type step struct {
	s   input.Snapshot
	err error
}

type fakeBus struct {
	steps []step
	calls int
	order *[]string
}

func (b *fakeBus) PollAndDispatch() (input.Snapshot, bool, error) {
	*b.order = append(*b.order, "poll")
	i := b.calls
	b.calls++
	if i >= len(b.steps) {
		return input.Snapshot{}, false, nil
	}
	return b.steps[i].s, false, b.steps[i].err
}

type fakeSession struct {
	order *[]string
	armed bool
	since time.Time
}

func (s *fakeSession) OnReadError()            { *s.order = append(*s.order, "read-error") }
func (s *fakeSession) Run()                    { *s.order = append(*s.order, "run") }
func (s *fakeSession) Read() (bool, time.Time) { return s.armed, s.since }

type fakeStats struct {
	last  keys.Action
	count uint32
}

func (f *fakeStats) LastAction() keys.Action { return f.last }
func (f *fakeStats) Count() uint32           { return f.count }

type fakeStatusWriter struct {
	got []status.Snapshot
	err error
}

func (f *fakeStatusWriter) WriteStatus(s status.Snapshot) error {
	f.got = append(f.got, s)
	return f.err
}

type fakeAnnouncer struct{ kinds []announce.Kind }

func (f *fakeAnnouncer) Announce(k announce.Kind) { f.kinds = append(f.kinds, k) }

type codedErr struct{ code uint16 }

func (e codedErr) Error() string { return fmt.Sprintf("coded %d", e.code) }
func (e codedErr) Code() uint16  { return e.code }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type harness struct {
	dm    *Daemon
	order []string
	bus   *fakeBus
	sess  *fakeSession
	stats *fakeStats
	sw    *fakeStatusWriter
	ann   *fakeAnnouncer
	now   time.Time
}

func newHarness(t *testing.T, steps ...step) *harness {
	t.Helper()
	h := &harness{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	h.bus = &fakeBus{steps: steps, order: &h.order}
	h.sess = &fakeSession{order: &h.order}
	h.stats = &fakeStats{}
	h.sw = &fakeStatusWriter{}
	h.ann = &fakeAnnouncer{}

	dm, err := New(10*time.Millisecond, Deps{
		Bus:       h.bus,
		Session:   h.sess,
		Gate:      h.sess,
		Stats:     h.stats,
		Status:    h.sw,
		Announcer: h.ann,
		Log:       quietLogger(),
	})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	dm.now = func() time.Time { return h.now }
	h.dm = dm
	return h
}

func TestCycle_PollsBeforeSessionRun(t *testing.T) {
	h := newHarness(t)

	h.dm.Cycle()
	h.dm.Cycle()

	want := []string{"poll", "run", "poll", "run"}
	if fmt.Sprint(h.order) != fmt.Sprint(want) {
		t.Fatalf("order=%v want %v", h.order, want)
	}
}

func TestCycle_SessionRunsEvenOnReadError(t *testing.T) {
	h := newHarness(t, step{err: errors.New("gpio gone")})

	h.dm.Cycle()

	if fmt.Sprint(h.order) != "[poll read-error run]" {
		t.Fatalf("order=%v", h.order)
	}
}

func TestCycle_HealthTransitions(t *testing.T) {
	h := newHarness(t,
		step{},
		step{err: codedErr{code: 4}},
		step{err: codedErr{code: 4}},
		step{},
	)

	h.dm.Cycle()
	if h.dm.Snapshot().Health != status.HealthOK {
		t.Fatalf("health=%d want OK", h.dm.Snapshot().Health)
	}
	writes := len(h.sw.got)

	h.dm.Cycle()
	snap := h.dm.Snapshot()
	if snap.Health != status.HealthError || snap.LastErrorCode != 4 {
		t.Fatalf("snap=%+v want error code 4", snap)
	}
	if len(h.sw.got) != writes+1 {
		t.Fatalf("expected one write on error transition")
	}

	// Same error again: nothing changed, nothing written.
	h.dm.Cycle()
	if len(h.sw.got) != writes+1 {
		t.Fatalf("unchanged error must not write")
	}

	h.dm.Tick()
	h.dm.Tick()
	if got := h.dm.Snapshot().SecondsInError; got != 2 {
		t.Fatalf("seconds_in_error=%d want 2", got)
	}

	h.dm.Cycle()
	snap = h.dm.Snapshot()
	if snap.Health != status.HealthOK || snap.LastErrorCode != 0 || snap.SecondsInError != 0 {
		t.Fatalf("snap=%+v want clean recovery", snap)
	}
}

func TestCycle_UncodedErrorIsGeneric(t *testing.T) {
	h := newHarness(t, step{err: fmt.Errorf("wrapped: %w", errors.New("plain"))})

	h.dm.Cycle()
	if got := h.dm.Snapshot().LastErrorCode; got != 1 {
		t.Fatalf("code=%d want 1", got)
	}
}

func TestErrorCode_UnwrapsCoder(t *testing.T) {
	err := fmt.Errorf("input: %w", codedErr{code: 11})
	if got := errorCode(err); got != 11 {
		t.Fatalf("code=%d want 11", got)
	}
	if got := errorCode(nil); got != 0 {
		t.Fatalf("nil code=%d", got)
	}
}

func TestTick_SecondsInErrorSaturates(t *testing.T) {
	h := newHarness(t, step{err: errors.New("x")})
	h.dm.Cycle()
	h.dm.snap.SecondsInError = 65535

	h.dm.Tick()
	if got := h.dm.Snapshot().SecondsInError; got != 65535 {
		t.Fatalf("seconds_in_error=%d must not wrap", got)
	}
}

func TestSessionFieldsPublished(t *testing.T) {
	h := newHarness(t)
	h.dm.Cycle()

	h.sess.armed = true
	h.sess.since = h.now
	h.stats.last = keys.Space
	h.stats.count = 3
	h.now = h.now.Add(90 * time.Second)

	h.dm.Cycle()
	snap := h.dm.Snapshot()
	if !snap.Armed || snap.SessionSeconds != 90 {
		t.Fatalf("snap=%+v want armed 90s", snap)
	}
	if snap.LastAction != uint16(keys.Space) || snap.ActionCount != 3 {
		t.Fatalf("snap=%+v want space x3", snap)
	}

	// Seconds advance on the 1 Hz tick, not on every cycle.
	h.now = h.now.Add(5 * time.Second)
	h.dm.Cycle()
	if got := h.dm.Snapshot().SessionSeconds; got != 90 {
		t.Fatalf("cycle moved session seconds to %d", got)
	}
	h.dm.Tick()
	if got := h.dm.Snapshot().SessionSeconds; got != 95 {
		t.Fatalf("session seconds=%d want 95", got)
	}

	h.sess.armed = false
	h.dm.Cycle()
	snap = h.dm.Snapshot()
	if snap.Armed || snap.SessionSeconds != 0 {
		t.Fatalf("snap=%+v want disarmed, seconds reset", snap)
	}
}

func TestStatusWriteFailureDoesNotStopLoop(t *testing.T) {
	h := newHarness(t, step{}, step{err: errors.New("x")})
	h.sw.err = errors.New("endpoint down")

	h.dm.Cycle()
	h.dm.Cycle()
	if h.bus.calls != 2 {
		t.Fatalf("calls=%d", h.bus.calls)
	}
}

func TestRun_AnnouncesInitAndStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.dm.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run err=%v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}

	if len(h.ann.kinds) != 1 || h.ann.kinds[0] != announce.Init {
		t.Fatalf("announced %v want [init]", h.ann.kinds)
	}
	if len(h.sw.got) == 0 || h.sw.got[0].Health != status.HealthUnknown {
		t.Fatalf("first status write must carry boot health")
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(0, Deps{}); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(time.Millisecond, Deps{}); err == nil {
		t.Fatalf("expected bus error")
	}
}
