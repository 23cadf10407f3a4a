// cmd/keygate/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/bus"
	"github.com/tamzrod/keygate/internal/config"
	"github.com/tamzrod/keygate/internal/control"
	"github.com/tamzrod/keygate/internal/daemon"
	"github.com/tamzrod/keygate/internal/dispatch"
	"github.com/tamzrod/keygate/internal/input"
	"github.com/tamzrod/keygate/internal/keys"
	"github.com/tamzrod/keygate/internal/logging"
	"github.com/tamzrod/keygate/internal/session"
	"github.com/tamzrod/keygate/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("usage: keygate <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("logger setup failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"device":  cfg.Device.Name,
		"profile": cfg.Device.Profile,
		"config":  cfgPath,
	}).Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("stopped with error")
		os.Exit(1)
	}
}

// run builds the pipeline and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {

	// ---- input ----
	src, closeInput, err := input.Build(cfg.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	// ---- announcements ----
	notifier, closeAnnounce, err := announce.Build(cfg.Announce, logging.Component(log, "announce"))
	if err != nil {
		return err
	}
	defer closeAnnounce()

	// ---- keys ----
	sink, closeKeys, err := keys.Build(cfg.Keys, cfg.Device.Name, logging.Component(log, "keys"))
	if err != nil {
		return err
	}
	defer closeKeys()

	km, err := dispatch.BuildKeymap(cfg.Keys)
	if err != nil {
		return err
	}

	// ---- bus ----
	b, err := bus.New(src, bus.DefaultQueue)
	if err != nil {
		return err
	}

	// ---- session ----
	holdMode, err := session.ParseHoldMode(cfg.Session.HoldMode)
	if err != nil {
		return err
	}
	sessLog := logging.Component(log, "session")
	sctx := session.NewContext(time.Now())
	sess, err := session.New(session.Config{
		Enabled:  cfg.Session.GatingEnabled(),
		MaxTime:  time.Duration(cfg.Session.MaxTimeSec) * time.Second,
		HoldTime: time.Duration(cfg.Session.HoldMs) * time.Millisecond,
		HoldMode: holdMode,
	}, sctx, notifier, sessLog)
	if err != nil {
		return err
	}

	sess.SetResampler(func() (input.Snapshot, bool) {
		s, err := b.Sample()
		if err != nil {
			sessLog.WithError(err).Warn("resample failed")
			return input.Snapshot{}, false
		}
		return s, true
	})

	// ---- dispatch ----
	disp, err := dispatch.New(sctx, sink, notifier, km, logging.Component(log, "dispatch"))
	if err != nil {
		return err
	}

	// Session observes before dispatch.
	b.Subscribe(sess)
	b.Subscribe(disp)

	// ---- status (optional) ----
	statusWriter, closeStatus, err := writer.BuildStatusWriter(cfg.Status, cfg.Device.Name)
	if err != nil {
		return err
	}
	defer closeStatus()

	// ---- control surface (optional) ----
	if cfg.Control.Enabled {
		srv, err := control.New(b, sctx, notifier, cfg.Control.Greeting, logging.Component(log, "control"))
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Run(ctx, cfg.Control.Listen); err != nil {
				log.WithError(err).Error("control surface stopped")
			}
		}()
	}

	// ---- loop ----
	dm, err := daemon.New(time.Duration(cfg.Poll.IntervalMs)*time.Millisecond, daemon.Deps{
		Bus:       b,
		Session:   sess,
		Gate:      sctx,
		Stats:     disp,
		Status:    statusWriter,
		Announcer: notifier,
		Log:       logging.Component(log, "daemon"),
	})
	if err != nil {
		return err
	}
	return dm.Run(ctx)
}
