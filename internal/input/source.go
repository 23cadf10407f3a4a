// internal/input/source.go
package input

// Source produces one Snapshot per call.
// A read error means the cycle has no snapshot; the caller retries next cycle.
type Source interface {
	Read() (Snapshot, error)
}

// LineReader is the raw driver contract: five levels in VT, A, B, C, D order.
// Drivers know pins, not semantics.
type LineReader interface {
	ReadLines() ([LineCount]bool, error)
}

// lineSource adapts a LineReader to Source.
type lineSource struct {
	r         LineReader
	activeLow bool
}

// NewLineSource wraps a driver. With activeLow every level is inverted
// (pull-up wiring, pressed = low).
func NewLineSource(r LineReader, activeLow bool) Source {
	return &lineSource{r: r, activeLow: activeLow}
}

func (s *lineSource) Read() (Snapshot, error) {
	lines, err := s.r.ReadLines()
	if err != nil {
		return Snapshot{}, err
	}
	if s.activeLow {
		for i := range lines {
			lines[i] = !lines[i]
		}
	}
	return FromLines(lines), nil
}
