// internal/announce/builder.go
package announce

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce/buzzer"
	"github.com/tamzrod/keygate/internal/announce/speaker"
	cfg "github.com/tamzrod/keygate/internal/config"
)

// Build opens the configured player and wraps it in a Notifier.
func Build(a cfg.AnnounceConfig, log logrus.FieldLogger) (*Notifier, func() error, error) {
	var (
		p      Player
		closer func() error
	)

	switch a.Driver {
	case "buzzer":
		b, err := buzzer.Open(a.Pin)
		if err != nil {
			return nil, nil, err
		}
		p, closer = b, b.Close

	case "speaker":
		s, err := speaker.Open()
		if err != nil {
			return nil, nil, err
		}
		p, closer = s, s.Close

	case "log":
		p, closer = NewLogPlayer(log), func() error { return nil }

	default:
		return nil, nil, fmt.Errorf("announce: unsupported driver %q", a.Driver)
	}

	n, err := NewNotifier(p, a.Profile, log)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return n, closer, nil
}
