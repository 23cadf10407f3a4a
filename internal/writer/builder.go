// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/keygate/internal/config"
	"github.com/tamzrod/keygate/internal/writer/ingest"
	wmodbus "github.com/tamzrod/keygate/internal/writer/modbus"
)

// BuildStatusWriter creates the status transport client and writer.
// A nil config means status publication is disabled: (nil, no-op closer, nil).
func BuildStatusWriter(s *cfg.StatusConfig, deviceName string) (StatusWriter, func() error, error) {
	noop := func() error { return nil }
	if s == nil {
		return nil, noop, nil
	}
	if s.Endpoint == "" {
		return nil, nil, errors.New("writer: status endpoint required")
	}

	plan := StatusPlan{
		Endpoint:   s.Endpoint,
		UnitID:     s.UnitID,
		BaseSlot:   s.BaseSlot,
		DeviceName: deviceName,
	}
	timeout := time.Duration(s.TimeoutMs) * time.Millisecond

	var (
		cli    endpointClient
		closer func() error
	)

	switch s.Transport {
	case "modbus":
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: s.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closer = c, c.Close

	case "ingest":
		c, err := ingest.NewEndpointClient(ingest.Config{Endpoint: s.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closer = c, c.Close

	default:
		return nil, nil, fmt.Errorf("writer: unsupported status transport %q", s.Transport)
	}

	w, err := NewStatusWriter(plan, cli)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return w, closer, nil
}
