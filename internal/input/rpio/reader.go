// internal/input/rpio/reader.go
package rpio

import (
	"fmt"

	gorpio "github.com/stianeikeland/go-rpio/v4"
)

// Config holds BCM pin numbers in VT, A, B, C, D order.
type Config struct {
	Pins   [5]uint8
	PullUp bool
}

// Reader samples five inputs through /dev/gpiomem via go-rpio.
type Reader struct {
	pins [5]gorpio.Pin
}

// Open maps GPIO memory and configures every pin as input.
func Open(cfg Config) (*Reader, error) {
	if err := gorpio.Open(); err != nil {
		return nil, fmt.Errorf("rpio: open: %w", err)
	}

	r := &Reader{}
	for i, n := range cfg.Pins {
		p := gorpio.Pin(n)
		p.Input()
		if cfg.PullUp {
			p.PullUp()
		} else {
			p.PullDown()
		}
		r.pins[i] = p
	}
	return r, nil
}

func (r *Reader) ReadLines() ([5]bool, error) {
	var out [5]bool
	for i, p := range r.pins {
		out[i] = p.Read() == gorpio.High
	}
	return out, nil
}

// Close unmaps GPIO memory.
func (r *Reader) Close() error {
	return gorpio.Close()
}
