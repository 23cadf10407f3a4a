// internal/daemon/controller_test.go
package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/bus"
	"github.com/tamzrod/keygate/internal/dispatch"
	"github.com/tamzrod/keygate/internal/input"
	"github.com/tamzrod/keygate/internal/keys"
	"github.com/tamzrod/keygate/internal/session"
)

// ---- real bus + session + dispatch, fake hardware ----

type panelSource struct {
	s   input.Snapshot
	err error
}

func (p *panelSource) Read() (input.Snapshot, error) { return p.s, p.err }

type recordingSink struct{ got []keys.Action }

func (r *recordingSink) Emit(a keys.Action) error {
	r.got = append(r.got, a)
	return nil
}

type controller struct {
	dm    *Daemon
	bus   *bus.Bus
	src   *panelSource
	gate  *session.Context
	sess  *session.State
	disp  *dispatch.State
	sink  *recordingSink
	ann   *fakeAnnouncer
}

func newController(t *testing.T, mode session.HoldMode) *controller {
	t.Helper()
	c := &controller{
		src:  &panelSource{},
		sink: &recordingSink{},
		ann:  &fakeAnnouncer{},
	}

	b, err := bus.New(c.src, 0)
	if err != nil {
		t.Fatalf("bus.New err=%v", err)
	}
	c.bus = b

	c.gate = session.NewContext(time.Now())
	sess, err := session.New(session.Config{
		Enabled:  true,
		MaxTime:  time.Hour,
		HoldTime: time.Hour,
		HoldMode: mode,
	}, c.gate, c.ann, quietLogger())
	if err != nil {
		t.Fatalf("session.New err=%v", err)
	}
	c.sess = sess

	km := dispatch.Keymap{
		{Action: keys.Space},
		{Action: keys.Right},
		{Action: keys.Left},
		{Action: keys.Enter},
	}
	disp, err := dispatch.New(c.gate, c.sink, nil, km, quietLogger())
	if err != nil {
		t.Fatalf("dispatch.New err=%v", err)
	}
	c.disp = disp

	b.Subscribe(sess)
	b.Subscribe(disp)

	dm, err := New(10*time.Millisecond, Deps{
		Bus:     b,
		Session: sess,
		Gate:    c.gate,
		Stats:   disp,
		Log:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	c.dm = dm
	return c
}

func (c *controller) inject(t *testing.T, s input.Snapshot) {
	t.Helper()
	if err := c.bus.Inject(s); err != nil {
		t.Fatalf("Inject err=%v", err)
	}
	c.dm.Cycle()
}

func TestController_UnlockThenSingleKeystroke(t *testing.T) {
	c := newController(t, session.HoldBlocking)

	// Unlock arms; dispatch saw the snapshot before the session armed.
	c.inject(t, input.Snapshot{VT: true, A: true, D: true})
	if !c.gate.Armed() {
		t.Fatalf("expected armed after unlock")
	}
	if len(c.sink.got) != 0 {
		t.Fatalf("unlock cycle emitted %v", c.sink.got)
	}

	c.inject(t, input.Snapshot{VT: true, A: true})
	if c.disp.Phase() != dispatch.Pressed {
		t.Fatalf("phase=%s want pressed", c.disp.Phase())
	}

	c.inject(t, input.Snapshot{VT: true, A: true}) // held
	if c.disp.Phase() != dispatch.Pressed {
		t.Fatalf("phase=%s want pressed", c.disp.Phase())
	}

	// Physical read: everything released.
	c.dm.Cycle()
	if c.disp.Phase() != dispatch.Idle {
		t.Fatalf("phase=%s want idle", c.disp.Phase())
	}

	if len(c.sink.got) != 1 || c.sink.got[0] != keys.Space {
		t.Fatalf("keys=%v want [space]", c.sink.got)
	}
	arms := 0
	for _, k := range c.ann.kinds {
		if k == announce.Arm {
			arms++
		}
	}
	if arms != 1 {
		t.Fatalf("announcements=%v want one arm", c.ann.kinds)
	}
	if snap := c.dm.Snapshot(); !snap.Armed || snap.ActionCount != 1 {
		t.Fatalf("status=%+v want armed, one action", snap)
	}
}

func TestController_DeferredHoldCancelledByInputFailure(t *testing.T) {
	c := newController(t, session.HoldDeferred)

	c.src.s = input.Snapshot{VT: true, A: true, D: true}
	c.dm.Cycle() // arm
	c.dm.Cycle() // hold starts
	if !c.sess.Pending() {
		t.Fatalf("expected pending hold")
	}

	c.src.err = errors.New("gpio gone")
	c.dm.Cycle()

	if c.sess.Pending() {
		t.Fatalf("failed read must cancel the pending hold")
	}
	if !c.gate.Armed() {
		t.Fatalf("expected still armed")
	}
}
