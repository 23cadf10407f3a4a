// internal/announce/kind.go
package announce

// Kind is the closed set of announcements the controller emits.
type Kind int

const (
	Init Kind = iota
	Arm
	Disarm
	Test
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "init"
	case Arm:
		return "arm"
	case Disarm:
		return "disarm"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}
