// internal/input/builder.go
package input

import (
	"fmt"
	"strconv"
	"time"

	cfg "github.com/tamzrod/keygate/internal/config"
	imodbus "github.com/tamzrod/keygate/internal/input/modbus"
	"github.com/tamzrod/keygate/internal/input/periph"
	"github.com/tamzrod/keygate/internal/input/rpio"
)

// Build opens the configured input driver and returns it as a Source.
// The returned closer releases the hardware.
func Build(in cfg.InputConfig) (Source, func() error, error) {
	pullUp := in.Pull == "up"

	switch in.Driver {
	case "periph":
		r, err := periph.Open(periph.Config{Pins: in.Pins.Lines(), PullUp: pullUp})
		if err != nil {
			return nil, nil, err
		}
		return NewLineSource(r, pullUp), r.Close, nil

	case "rpio":
		var pins [LineCount]uint8
		for i, s := range in.Pins.Lines() {
			n, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return nil, nil, fmt.Errorf("input: rpio pin %q: %w", s, err)
			}
			pins[i] = uint8(n)
		}
		r, err := rpio.Open(rpio.Config{Pins: pins, PullUp: pullUp})
		if err != nil {
			return nil, nil, err
		}
		return NewLineSource(r, pullUp), r.Close, nil

	case "modbus":
		m := in.Modbus
		if m == nil {
			return nil, nil, fmt.Errorf("input: modbus section required")
		}
		r, err := imodbus.New(imodbus.Config{
			Mode:     m.Mode,
			Endpoint: m.Endpoint,
			Device:   m.Device,
			Baud:     m.Baud,
			UnitID:   m.UnitID,
			Address:  m.Address,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		// Discrete inputs already carry logical state.
		return NewLineSource(r, false), r.Close, nil

	default:
		return nil, nil, fmt.Errorf("input: unsupported driver %q", in.Driver)
	}
}
