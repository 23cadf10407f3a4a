// internal/input/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Reader samples the five lines from a remote I/O module as discrete inputs (FC 2).
// One connection is reused while healthy.
// On transport failure the connection is dropped and re-dialed on a future read.
type Reader struct {
	cfg     Config
	factory func() (conn, error)
	conn    conn
}

// Config is minimal transport config.
type Config struct {
	Mode     string // tcp | rtu
	Endpoint string // tcp host:port
	Device   string // rtu serial device
	Baud     int
	UnitID   uint8
	Address  uint16
	Timeout  time.Duration
}

// conn is the slice of a goburrow client the reader needs plus its lifecycle.
type conn interface {
	ReadDiscreteInputs(address, quantity uint16) ([]byte, error)
	Close() error
}

type handlerConn struct {
	modbus.Client
	closer interface{ Close() error }
}

func (c *handlerConn) Close() error { return c.closer.Close() }

// ReadError carries the Modbus exception code when the device answered with one.
type ReadError struct {
	Err  error
	code uint16
}

func (e *ReadError) Error() string { return e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// Code returns the exception code, or 1 for transport-level failures.
func (e *ReadError) Code() uint16 { return e.code }

// New validates config and dials once (fail fast at startup).
func New(cfg Config) (*Reader, error) {
	r := &Reader{cfg: cfg}
	r.factory = func() (conn, error) { return dial(r.cfg) }

	c, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.conn = c
	return r, nil
}

func dial(cfg Config) (conn, error) {
	switch cfg.Mode {
	case "", "tcp":
		if cfg.Endpoint == "" {
			return nil, errors.New("input modbus: endpoint required")
		}
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("input modbus: connect %s: %w", cfg.Endpoint, err)
		}
		return &handlerConn{Client: modbus.NewClient(h), closer: h}, nil

	case "rtu":
		if cfg.Device == "" {
			return nil, errors.New("input modbus: device required")
		}
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.BaudRate = cfg.Baud
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("input modbus: open %s: %w", cfg.Device, err)
		}
		return &handlerConn{Client: modbus.NewClient(h), closer: h}, nil

	default:
		return nil, fmt.Errorf("input modbus: unsupported mode %q", cfg.Mode)
	}
}

// ReadLines reads 5 discrete inputs starting at cfg.Address.
func (r *Reader) ReadLines() ([5]bool, error) {
	var out [5]bool

	if r.conn == nil {
		c, err := r.factory()
		if err != nil {
			return out, &ReadError{Err: err, code: 1}
		}
		r.conn = c
	}

	raw, err := r.conn.ReadDiscreteInputs(r.cfg.Address, 5)
	if err != nil {
		var mbErr *modbus.ModbusError
		if errors.As(err, &mbErr) {
			// Device answered: the link is fine, keep it.
			return out, &ReadError{Err: err, code: uint16(mbErr.ExceptionCode)}
		}
		_ = r.conn.Close()
		r.conn = nil
		return out, &ReadError{Err: err, code: 1}
	}

	bits := unpackBits(raw, 5)
	copy(out[:], bits)
	return out, nil
}

// Close closes the current connection, if any.
func (r *Reader) Close() error {
	if r == nil || r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			out[i] = false
			continue
		}
		out[i] = (data[byteIdx]&(1<<bitIdx) != 0)
	}
	return out
}
