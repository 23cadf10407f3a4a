// internal/keys/hidg/gadget.go
package hidg

import (
	"fmt"
	"io"
	"os"
	"time"
)

// reportLen is the boot-protocol keyboard report size:
// modifiers, reserved, six key slots.
const reportLen = 8

// Gadget writes keyboard reports to a USB HID gadget function (/dev/hidgN),
// making the board look like a USB keyboard to the host it is plugged into.
type Gadget struct {
	w    io.WriteCloser
	hold time.Duration
}

// Open opens the gadget character device for writing.
func Open(path string, hold time.Duration) (*Gadget, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("hidg: open %s: %w", path, err)
	}
	return &Gadget{w: f, hold: hold}, nil
}

// New wraps an already open report writer.
func New(w io.WriteCloser, hold time.Duration) *Gadget {
	return &Gadget{w: w, hold: hold}
}

// Press sends a report with usage in the first key slot, waits hold,
// then sends the all-keys-up report.
func (g *Gadget) Press(usage byte) error {
	if usage == 0 {
		return fmt.Errorf("hidg: no usage id")
	}

	var down [reportLen]byte
	down[2] = usage
	if _, err := g.w.Write(down[:]); err != nil {
		return fmt.Errorf("hidg: key down 0x%02x: %w", usage, err)
	}

	time.Sleep(g.hold)

	var up [reportLen]byte
	if _, err := g.w.Write(up[:]); err != nil {
		return fmt.Errorf("hidg: key up 0x%02x: %w", usage, err)
	}
	return nil
}

func (g *Gadget) Close() error {
	return g.w.Close()
}
