// internal/config/validate.go
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Accepted driver and mode names.
var (
	profiles        = []string{"classic", "ap"}
	holdModes       = []string{"blocking", "deferred"}
	inputDrivers    = []string{"periph", "rpio", "modbus"}
	pulls           = []string{"down", "up"}
	modbusModes     = []string{"tcp", "rtu"}
	keyDrivers      = []string{"uinput", "hidg", "serial", "log"}
	announceDrivers = []string{"buzzer", "speaker", "log"}
	statusTransport = []string{"modbus", "ingest"}
	logFormats      = []string{"text", "json"}
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Empty optional fields are accepted here and filled by Normalize.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	for i := 0; i < len(cfg.Device.Name); i++ {
		if cfg.Device.Name[i] > 0x7F {
			return fmt.Errorf("device.name %q: must contain ASCII characters only", cfg.Device.Name)
		}
	}
	if err := oneOf("device.profile", cfg.Device.Profile, profiles); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// SESSION + POLL
	// ------------------------------------------------------------

	if cfg.Session.MaxTimeSec < 0 {
		return fmt.Errorf("session.max_time_sec must be >= 0, got %d", cfg.Session.MaxTimeSec)
	}
	if cfg.Session.HoldMs < 0 {
		return fmt.Errorf("session.hold_ms must be >= 0, got %d", cfg.Session.HoldMs)
	}
	if err := oneOf("session.hold_mode", cfg.Session.HoldMode, holdModes); err != nil {
		return err
	}
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must be >= 0, got %d", cfg.Poll.IntervalMs)
	}

	// ------------------------------------------------------------
	// INPUT
	// ------------------------------------------------------------

	if err := validateInput(cfg.Input); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// KEYS
	// ------------------------------------------------------------

	if err := oneOf("keys.driver", cfg.Keys.Driver, keyDrivers); err != nil {
		return err
	}
	switch cfg.Keys.Driver {
	case "serial":
		if cfg.Keys.Device == "" {
			return fmt.Errorf("keys.device is required for driver %q", cfg.Keys.Driver)
		}
		if cfg.Keys.Baud < 0 {
			return fmt.Errorf("keys.baud must be >= 0, got %d", cfg.Keys.Baud)
		}
	}
	if cfg.Keys.PressMs < 0 {
		return fmt.Errorf("keys.press_ms must be >= 0, got %d", cfg.Keys.PressMs)
	}
	// Action names are resolved by the keys builder.

	// ------------------------------------------------------------
	// ANNOUNCE
	// ------------------------------------------------------------

	if err := oneOf("announce.driver", cfg.Announce.Driver, announceDrivers); err != nil {
		return err
	}
	if cfg.Announce.Driver == "buzzer" && cfg.Announce.Pin == "" {
		return fmt.Errorf("announce.pin is required for driver %q", cfg.Announce.Driver)
	}
	if err := oneOf("announce.profile", cfg.Announce.Profile, profiles); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// STATUS (opt-in)
	// ------------------------------------------------------------

	if s := cfg.Status; s != nil {
		if s.Transport == "" {
			return fmt.Errorf("status.transport is required when status is set")
		}
		if err := oneOf("status.transport", s.Transport, statusTransport); err != nil {
			return err
		}
		if s.Endpoint == "" {
			return fmt.Errorf("status.endpoint is required when status is set")
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("status.timeout_ms must be >= 0, got %d", s.TimeoutMs)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if err := oneOf("log.format", cfg.Log.Format, logFormats); err != nil {
		return err
	}

	return nil
}

func validateInput(in InputConfig) error {
	if in.Driver == "" {
		return fmt.Errorf("input.driver is required")
	}
	if err := oneOf("input.driver", in.Driver, inputDrivers); err != nil {
		return err
	}

	switch in.Driver {
	case "periph", "rpio":
		if err := oneOf("input.pull", in.Pull, pulls); err != nil {
			return err
		}

		seen := make(map[string]string)
		for i, pin := range in.Pins.Lines() {
			name := lineNames[i]
			if pin == "" {
				return fmt.Errorf("input.pins.%s is required for driver %q", name, in.Driver)
			}
			if in.Driver == "rpio" {
				if _, err := strconv.ParseUint(pin, 10, 8); err != nil {
					return fmt.Errorf("input.pins.%s: rpio needs a BCM pin number, got %q", name, pin)
				}
			}
			if prev, dup := seen[pin]; dup {
				return fmt.Errorf("input.pins: pin %s used by both %s and %s", pin, prev, name)
			}
			seen[pin] = name
		}

	case "modbus":
		m := in.Modbus
		if m == nil {
			return fmt.Errorf("input.modbus is required for driver %q", in.Driver)
		}
		if err := oneOf("input.modbus.mode", m.Mode, modbusModes); err != nil {
			return err
		}
		switch m.Mode {
		case "", "tcp":
			if m.Endpoint == "" {
				return fmt.Errorf("input.modbus.endpoint is required for tcp mode")
			}
		case "rtu":
			if m.Device == "" {
				return fmt.Errorf("input.modbus.device is required for rtu mode")
			}
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("input.modbus.timeout_ms must be >= 0, got %d", m.TimeoutMs)
		}
		if uint32(m.Address)+5 > 0x10000 {
			return fmt.Errorf("input.modbus.address %d: 5 inputs do not fit the address space", m.Address)
		}
	}

	return nil
}

var lineNames = [5]string{"vt", "a", "b", "c", "d"}

// oneOf accepts an empty value (defaulted later) or one of allowed.
func oneOf(field, v string, allowed []string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unknown value %q (want one of %s)", field, v, strings.Join(allowed, ", "))
}
