// internal/keys/sink.go
package keys

import (
	"github.com/sirupsen/logrus"
)

// Sink emits one keystroke (press and release) to the host.
type Sink interface {
	Emit(a Action) error
}

// LogSink is the dry-run sink.
type LogSink struct {
	Log logrus.FieldLogger
}

func (s LogSink) Emit(a Action) error {
	s.Log.WithField("action", a).Info("keystroke")
	return nil
}

// ---- driver adapters ----

type codePresser interface {
	Press(code int) error
}

type usagePresser interface {
	Press(usage byte) error
}

type namedSender interface {
	Send(name string) error
}

// linuxSink feeds Linux KEY_* codes (uinput).
type linuxSink struct{ p codePresser }

func (s linuxSink) Emit(a Action) error { return s.p.Press(a.LinuxCode()) }

// hidSink feeds USB HID usage IDs (gadget).
type hidSink struct{ p usagePresser }

func (s hidSink) Emit(a Action) error { return s.p.Press(a.HIDUsage()) }

// nameSink feeds action names (serial bridge).
type nameSink struct{ p namedSender }

func (s nameSink) Emit(a Action) error { return s.p.Send(a.String()) }
