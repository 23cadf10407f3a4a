// internal/config/config.go
package config

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Session  SessionConfig  `yaml:"session"`
	Poll     PollConfig     `yaml:"poll"`
	Input    InputConfig    `yaml:"input"`
	Keys     KeysConfig     `yaml:"keys"`
	Announce AnnounceConfig `yaml:"announce"`
	Control  ControlConfig  `yaml:"control"`
	Status   *StatusConfig  `yaml:"status"` // optional, opt-in
	Log      LogConfig      `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Name    string `yaml:"name"`
	Profile string `yaml:"profile"` // classic | ap
}

// ---- SESSION ----

type SessionConfig struct {
	// Enabled is a pointer so an omitted key keeps gating on.
	Enabled    *bool  `yaml:"enabled"`
	MaxTimeSec int    `yaml:"max_time_sec"`
	HoldMs     int    `yaml:"hold_ms"`
	HoldMode   string `yaml:"hold_mode"` // blocking | deferred
}

// GatingEnabled reports whether session gating is on (default true).
func (s SessionConfig) GatingEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- INPUT ----

type InputConfig struct {
	Driver string             `yaml:"driver"` // periph | rpio | modbus
	Pins   PinsConfig         `yaml:"pins"`
	Pull   string             `yaml:"pull"` // down | up
	Modbus *ModbusInputConfig `yaml:"modbus"`
}

// PinsConfig names one pin per line. periph uses names (GPIO17),
// rpio uses BCM numbers (17).
type PinsConfig struct {
	VT string `yaml:"vt"`
	A  string `yaml:"a"`
	B  string `yaml:"b"`
	C  string `yaml:"c"`
	D  string `yaml:"d"`
}

// Lines returns the pins in fixed line order: VT, A, B, C, D.
func (p PinsConfig) Lines() [5]string {
	return [5]string{p.VT, p.A, p.B, p.C, p.D}
}

type ModbusInputConfig struct {
	Mode      string `yaml:"mode"`     // tcp | rtu
	Endpoint  string `yaml:"endpoint"` // tcp
	Device    string `yaml:"device"`   // rtu
	Baud      int    `yaml:"baud"`     // rtu
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"` // first of 5 discrete inputs
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- KEYS ----

type KeysConfig struct {
	Driver  string `yaml:"driver"` // uinput | hidg | serial | log
	Device  string `yaml:"device"`
	Baud    int    `yaml:"baud"`
	PressMs int    `yaml:"press_ms"`
	Map     KeyMap `yaml:"map"`
	Spell   *bool  `yaml:"spell"`
}

// KeyMap holds one action name per button. Empty entries take the profile default.
type KeyMap struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
	C string `yaml:"c"`
	D string `yaml:"d"`
}

// ---- ANNOUNCE ----

type AnnounceConfig struct {
	Driver  string `yaml:"driver"` // buzzer | speaker | log
	Pin     string `yaml:"pin"`
	Profile string `yaml:"profile"` // defaults to device.profile
}

// ---- CONTROL ----

type ControlConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Listen   string `yaml:"listen"`
	Greeting string `yaml:"greeting"`
}

// ---- STATUS ----

type StatusConfig struct {
	Transport string `yaml:"transport"` // modbus | ingest
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}
