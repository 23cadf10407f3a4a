// internal/keys/serialbridge/bridge.go
package serialbridge

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Bridge drives a USB-HID co-processor over a UART.
// Each keystroke is one line: "KEY <name>\n". The co-processor owns press timing.
type Bridge struct {
	port io.ReadWriteCloser
}

// Config is the serial line config.
type Config struct {
	Device  string
	Baud    int
	Timeout time.Duration
}

// Open opens the serial port.
func Open(cfg Config) (*Bridge, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serialbridge: device required")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialbridge: open %s: %w", cfg.Device, err)
	}
	return &Bridge{port: port}, nil
}

// New wraps an already open port.
func New(port io.ReadWriteCloser) *Bridge {
	return &Bridge{port: port}
}

// Send writes one key line.
func (b *Bridge) Send(name string) error {
	if name == "" {
		return fmt.Errorf("serialbridge: empty key name")
	}
	if _, err := fmt.Fprintf(b.port, "KEY %s\n", name); err != nil {
		return fmt.Errorf("serialbridge: write: %w", err)
	}
	return nil
}

func (b *Bridge) Close() error {
	return b.port.Close()
}
