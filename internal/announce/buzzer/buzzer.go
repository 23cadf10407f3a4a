// internal/announce/buzzer/buzzer.go
package buzzer

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Buzzer drives a passive piezo from a PWM-capable pin at 50% duty.
type Buzzer struct {
	pin gpio.PinIO
}

// Open initialises periph and parks the pin low.
func Open(pinName string) (*Buzzer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("buzzer: host init: %w", err)
	}
	p := gpioreg.ByName(pinName)
	if p == nil {
		return nil, fmt.Errorf("buzzer: unknown pin %q", pinName)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("buzzer: configure %s: %w", pinName, err)
	}
	return &Buzzer{pin: p}, nil
}

// Tone sounds freq Hz for d, then silences the pin.
func (b *Buzzer) Tone(freq float64, d time.Duration) error {
	f := physic.Frequency(freq * float64(physic.Hertz))
	if err := b.pin.PWM(gpio.DutyHalf, f); err != nil {
		return fmt.Errorf("buzzer: pwm %.0fHz: %w", freq, err)
	}
	time.Sleep(d)
	return b.pin.Out(gpio.Low)
}

func (b *Buzzer) Rest(d time.Duration) {
	time.Sleep(d)
}

// Close silences the buzzer and releases the pin.
func (b *Buzzer) Close() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return err
	}
	return b.pin.Halt()
}
