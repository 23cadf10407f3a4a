// internal/bus/bus_test.go
package bus

import (
	"errors"
	"testing"

	"github.com/tamzrod/keygate/internal/input"
)

type fakeSource struct {
	snaps []input.Snapshot
	err   error
	reads int
}

func (f *fakeSource) Read() (input.Snapshot, error) {
	f.reads++
	if f.err != nil {
		return input.Snapshot{}, f.err
	}
	if len(f.snaps) == 0 {
		return input.Snapshot{}, nil
	}
	s := f.snaps[0]
	f.snaps = f.snaps[1:]
	return s, nil
}

type recorder struct {
	name  string
	log   *[]string
	snaps []input.Snapshot
}

func (r *recorder) OnNotify(s input.Snapshot) {
	*r.log = append(*r.log, r.name)
	r.snaps = append(r.snaps, s)
}

func TestPollAndDispatch_DeliversInSubscriptionOrder(t *testing.T) {
	src := &fakeSource{snaps: []input.Snapshot{{VT: true, A: true}}}
	b, err := New(src, 0)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	var order []string
	first := &recorder{name: "session", log: &order}
	second := &recorder{name: "dispatch", log: &order}
	b.Subscribe(first)
	b.Subscribe(second)

	s, injected, err := b.PollAndDispatch()
	if err != nil {
		t.Fatalf("PollAndDispatch err=%v", err)
	}
	if injected {
		t.Fatalf("physical read reported as injected")
	}
	if len(order) != 2 || order[0] != "session" || order[1] != "dispatch" {
		t.Fatalf("delivery order %v", order)
	}
	if first.snaps[0] != s || second.snaps[0] != s {
		t.Fatalf("observers saw different snapshots")
	}
	if src.reads != 1 {
		t.Fatalf("expected exactly one read per cycle, got %d", src.reads)
	}
}

func TestSubscribe_NoDeduplication(t *testing.T) {
	b, _ := New(&fakeSource{}, 0)

	var order []string
	r := &recorder{name: "x", log: &order}
	b.Subscribe(r)
	b.Subscribe(r)

	_, _, _ = b.PollAndDispatch()
	if len(order) != 2 {
		t.Fatalf("expected double delivery, got %d", len(order))
	}
}

func TestPollAndDispatch_InjectedTakesPrecedence(t *testing.T) {
	src := &fakeSource{}
	b, _ := New(src, 0)

	var got []input.Snapshot
	b.Subscribe(ObserverFunc(func(s input.Snapshot) { got = append(got, s) }))

	unlock := input.Snapshot{VT: true, A: true, D: true}
	if err := b.Inject(unlock); err != nil {
		t.Fatalf("Inject err=%v", err)
	}

	s, injected, err := b.PollAndDispatch()
	if err != nil || !injected || s != unlock {
		t.Fatalf("got %s injected=%v err=%v", s, injected, err)
	}
	if src.reads != 0 {
		t.Fatalf("source must not be read on an injected cycle")
	}

	// next cycle is physical again
	_, injected, _ = b.PollAndDispatch()
	if injected || src.reads != 1 {
		t.Fatalf("expected physical read, injected=%v reads=%d", injected, src.reads)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
}

func TestInject_FullQueue(t *testing.T) {
	b, _ := New(&fakeSource{}, 1)

	if err := b.Inject(input.Snapshot{VT: true}); err != nil {
		t.Fatalf("first inject err=%v", err)
	}
	if err := b.Inject(input.Snapshot{VT: true}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestPollAndDispatch_ReadErrorDeliversNothing(t *testing.T) {
	b, _ := New(&fakeSource{err: errors.New("gpio fault")}, 0)

	called := false
	b.Subscribe(ObserverFunc(func(input.Snapshot) { called = true }))

	if _, _, err := b.PollAndDispatch(); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if called {
		t.Fatalf("observers must not run on a failed read")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(nil, 0); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
