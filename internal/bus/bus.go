// internal/bus/bus.go
package bus

import (
	"errors"

	"github.com/tamzrod/keygate/internal/input"
)

// ErrBusy is returned by Inject when the injection queue is full.
var ErrBusy = errors.New("bus: injection queue full")

// Observer receives every snapshot, in subscription order.
type Observer interface {
	OnNotify(s input.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s input.Snapshot)

func (f ObserverFunc) OnNotify(s input.Snapshot) { f(s) }

// Bus is the single delivery point: one snapshot per cycle, fanned out in order.
// Physical reads and injected snapshots are serialised into the same cycle stream.
type Bus struct {
	src       input.Source
	observers []Observer
	injected  chan input.Snapshot
}

// DefaultQueue is the injection queue depth.
const DefaultQueue = 4

// New creates a bus reading from src. queue <= 0 selects DefaultQueue.
func New(src input.Source, queue int) (*Bus, error) {
	if src == nil {
		return nil, errors.New("bus: source required")
	}
	if queue <= 0 {
		queue = DefaultQueue
	}
	return &Bus{
		src:      src,
		injected: make(chan input.Snapshot, queue),
	}, nil
}

// Subscribe appends an observer. Registration order is delivery order.
// Not safe to call once the loop runs.
func (b *Bus) Subscribe(o Observer) {
	b.observers = append(b.observers, o)
}

// Inject queues a snapshot for a future cycle. Safe for concurrent use.
func (b *Bus) Inject(s input.Snapshot) error {
	select {
	case b.injected <- s:
		return nil
	default:
		return ErrBusy
	}
}

// Sample reads the physical source directly, bypassing injection and observers.
func (b *Bus) Sample() (input.Snapshot, error) {
	return b.src.Read()
}

// PollAndDispatch runs one cycle: take a pending injected snapshot,
// else read the source, then notify every observer.
// On a read error nothing is delivered and the error is returned for reporting.
// injected reports whether the delivered snapshot came from Inject.
func (b *Bus) PollAndDispatch() (s input.Snapshot, injected bool, err error) {
	select {
	case s = <-b.injected:
		injected = true
	default:
		s, err = b.src.Read()
		if err != nil {
			return input.Snapshot{}, false, err
		}
	}

	for _, o := range b.observers {
		o.OnNotify(s)
	}
	return s, injected, nil
}
