// internal/keys/builder.go
package keys

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/keygate/internal/config"
	"github.com/tamzrod/keygate/internal/keys/hidg"
	"github.com/tamzrod/keygate/internal/keys/serialbridge"
	"github.com/tamzrod/keygate/internal/keys/uinput"
)

// Build opens the configured key driver.
// name is the device name shown to the host where the driver supports one.
func Build(k cfg.KeysConfig, name string, log logrus.FieldLogger) (Sink, func() error, error) {
	hold := time.Duration(k.PressMs) * time.Millisecond

	switch k.Driver {
	case "uinput":
		kb, err := uinput.Open(k.Device, name, hold)
		if err != nil {
			return nil, nil, err
		}
		return linuxSink{p: kb}, kb.Close, nil

	case "hidg":
		g, err := hidg.Open(k.Device, hold)
		if err != nil {
			return nil, nil, err
		}
		return hidSink{p: g}, g.Close, nil

	case "serial":
		b, err := serialbridge.Open(serialbridge.Config{
			Device:  k.Device,
			Baud:    k.Baud,
			Timeout: time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return nameSink{p: b}, b.Close, nil

	case "log":
		return LogSink{Log: log}, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("keys: unsupported driver %q", k.Driver)
	}
}
