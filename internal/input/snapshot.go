// internal/input/snapshot.go
package input

import "fmt"

// LineCount is the number of sampled lines: VT plus four buttons.
const LineCount = 5

// Line indices in fixed order.
const (
	LineVT = iota
	LineA
	LineB
	LineC
	LineD
)

// Snapshot is one immutable sample of all input lines.
// It is created once per poll cycle and passed by value.
type Snapshot struct {
	VT bool // validation line
	A  bool
	B  bool
	C  bool
	D  bool
}

// FromLines builds a Snapshot from lines in VT, A, B, C, D order.
func FromLines(l [LineCount]bool) Snapshot {
	return Snapshot{VT: l[LineVT], A: l[LineA], B: l[LineB], C: l[LineC], D: l[LineD]}
}

// Lines returns the snapshot in VT, A, B, C, D order.
func (s Snapshot) Lines() [LineCount]bool {
	return [LineCount]bool{s.VT, s.A, s.B, s.C, s.D}
}

// Combination reports the arm/disarm trigger: A and D held together.
func (s Snapshot) Combination() bool {
	return s.A && s.D
}

// SinglePress is the four-way XOR of the buttons.
//
// This is a parity check, not "exactly one pressed": three buttons held
// together also pass. Kept as-is for compatibility with deployed pendants.
func (s Snapshot) SinglePress() bool {
	return s.A != s.B != s.C != s.D
}

func (s Snapshot) String() string {
	return fmt.Sprintf("vt=%d a=%d b=%d c=%d d=%d", b2i(s.VT), b2i(s.A), b2i(s.B), b2i(s.C), b2i(s.D))
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}
