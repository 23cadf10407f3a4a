// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultProfile    = "classic"
	DefaultMaxTimeSec = 60 * 60 * 18
	DefaultHoldMs     = 5000
	DefaultHoldMode   = "blocking"
	DefaultIntervalMs = 10
	DefaultPressMs    = 100
	DefaultTimeoutMs  = 1000
	DefaultListen     = ":80"
	DefaultGreeting   = "Hello from keygate!"
)

// profileKeys holds the per-profile button bindings.
var profileKeys = map[string]KeyMap{
	"classic": {A: "space", B: "space", C: "space", D: "p"},
	"ap":      {A: "space", B: "right", C: "left", D: "p"},
}

// profileSpell reports whether presses are spelled on the buzzer by default.
var profileSpell = map[string]bool{
	"classic": true,
	"ap":      false,
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- device ----
	if cfg.Device.Profile == "" {
		cfg.Device.Profile = DefaultProfile
	}
	if cfg.Device.Name == "" {
		cfg.Device.Name = "keygate"
	}
	// Truncate to what the status block can carry.
	cfg.Device.Name = truncateName(cfg.Device.Name, 16)

	// ---- session ----
	if cfg.Session.MaxTimeSec == 0 {
		cfg.Session.MaxTimeSec = DefaultMaxTimeSec
	}
	if cfg.Session.HoldMs == 0 {
		cfg.Session.HoldMs = DefaultHoldMs
	}
	if cfg.Session.HoldMode == "" {
		cfg.Session.HoldMode = DefaultHoldMode
	}

	// ---- poll ----
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultIntervalMs
	}

	// ---- input ----
	if cfg.Input.Pull == "" {
		cfg.Input.Pull = "down"
	}
	if m := cfg.Input.Modbus; m != nil {
		if m.Mode == "" {
			m.Mode = "tcp"
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = DefaultTimeoutMs
		}
		if m.Mode == "rtu" && m.Baud == 0 {
			m.Baud = 19200
		}
	}

	// ---- keys ----
	if cfg.Keys.Driver == "" {
		cfg.Keys.Driver = "uinput"
	}
	if cfg.Keys.Device == "" {
		switch cfg.Keys.Driver {
		case "uinput":
			cfg.Keys.Device = "/dev/uinput"
		case "hidg":
			cfg.Keys.Device = "/dev/hidg0"
		}
	}
	if cfg.Keys.Driver == "serial" && cfg.Keys.Baud == 0 {
		cfg.Keys.Baud = 115200
	}
	if cfg.Keys.PressMs == 0 {
		cfg.Keys.PressMs = DefaultPressMs
	}

	defaults := profileKeys[cfg.Device.Profile]
	if cfg.Keys.Map.A == "" {
		cfg.Keys.Map.A = defaults.A
	}
	if cfg.Keys.Map.B == "" {
		cfg.Keys.Map.B = defaults.B
	}
	if cfg.Keys.Map.C == "" {
		cfg.Keys.Map.C = defaults.C
	}
	if cfg.Keys.Map.D == "" {
		cfg.Keys.Map.D = defaults.D
	}
	if cfg.Keys.Spell == nil {
		spell := profileSpell[cfg.Device.Profile]
		cfg.Keys.Spell = &spell
	}

	// ---- announce ----
	if cfg.Announce.Driver == "" {
		if cfg.Announce.Pin != "" {
			cfg.Announce.Driver = "buzzer"
		} else {
			cfg.Announce.Driver = "log"
		}
	}
	if cfg.Announce.Profile == "" {
		cfg.Announce.Profile = cfg.Device.Profile
	}

	// ---- control ----
	if cfg.Control.Enabled && cfg.Control.Listen == "" {
		cfg.Control.Listen = DefaultListen
	}
	if cfg.Control.Greeting == "" {
		cfg.Control.Greeting = DefaultGreeting
	}

	// ---- status ----
	if s := cfg.Status; s != nil && s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultTimeoutMs
	}

	// ---- log ----
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// truncateName cuts s to at most limit bytes without splitting a rune.
func truncateName(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}
