// internal/input/periph/reader.go
package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Config names the five input pins (periph names, e.g. GPIO17) in
// VT, A, B, C, D order.
type Config struct {
	Pins   [5]string
	PullUp bool
}

// inputPin is the part of gpio.PinIO the reader uses.
type inputPin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	Halt() error
}

// Reader samples five GPIO inputs through periph.io.
type Reader struct {
	pins [5]inputPin
}

// Open initialises the periph host drivers and configures every pin as input.
func Open(cfg Config) (*Reader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}

	pull := gpio.PullDown
	if cfg.PullUp {
		pull = gpio.PullUp
	}

	return configure(cfg.Pins, pull, func(name string) inputPin {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil
		}
		return p
	})
}

// configure sets every pin as input. Pins already configured are halted
// when a later one fails.
func configure(names [5]string, pull gpio.Pull, lookup func(string) inputPin) (*Reader, error) {
	r := &Reader{}
	for i, name := range names {
		if err := r.configurePin(i, name, pull, lookup); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Reader) configurePin(i int, name string, pull gpio.Pull, lookup func(string) inputPin) error {
	if name == "" {
		return errors.New("periph: pin name required")
	}
	p := lookup(name)
	if p == nil {
		return fmt.Errorf("periph: unknown pin %q", name)
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return fmt.Errorf("periph: configure %s: %w", name, err)
	}
	r.pins[i] = p
	return nil
}

// ReadLines returns the raw level of each pin (true = high).
func (r *Reader) ReadLines() ([5]bool, error) {
	var out [5]bool
	for i, p := range r.pins {
		out[i] = p.Read() == gpio.High
	}
	return out, nil
}

// Close releases the pins back to high impedance.
func (r *Reader) Close() error {
	var last error
	for _, p := range r.pins {
		if p == nil {
			continue
		}
		if err := p.Halt(); err != nil {
			last = err
		}
	}
	return last
}
