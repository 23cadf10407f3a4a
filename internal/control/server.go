// internal/control/server.go
package control

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/keygate/internal/announce"
	"github.com/tamzrod/keygate/internal/input"
)

// Snapshots the control surface can inject.
var (
	// TriggerSnapshot presses A with VT asserted: a plain "start".
	TriggerSnapshot = input.Snapshot{VT: true, A: true}

	// UnlockSnapshot holds the A+D combination: arms a disarmed session.
	UnlockSnapshot = input.Snapshot{VT: true, A: true, D: true}
)

// Injector queues a snapshot into the controller loop.
type Injector interface {
	Inject(s input.Snapshot) error
}

// SessionReader exposes the session gate read-only.
type SessionReader interface {
	Read() (armed bool, startedAt time.Time)
}

// Announcer plays feedback tones.
type Announcer interface {
	Announce(k announce.Kind)
}

// Server is the local HTTP control surface. It has no authentication.
type Server struct {
	inj      Injector
	session  SessionReader
	ann      Announcer
	greeting string
	log      logrus.FieldLogger
}

// New wires the handlers. ann may be nil (POST /test then returns 501).
func New(inj Injector, session SessionReader, ann Announcer, greeting string, log logrus.FieldLogger) (*Server, error) {
	if inj == nil {
		return nil, errors.New("control: injector required")
	}
	if session == nil {
		return nil, errors.New("control: session reader required")
	}
	return &Server{
		inj:      inj,
		session:  session,
		ann:      ann,
		greeting: greeting,
		log:      log,
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /trigger", s.injectHandler("trigger", TriggerSnapshot))
	mux.HandleFunc("POST /unlock", s.injectHandler("unlock", UnlockSnapshot))
	mux.HandleFunc("POST /test", s.handleTest)
	return mux
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("listen", addr).Info("control surface listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("control: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, s.greeting)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	armed, since := s.session.Read()
	writeText(w, http.StatusOK, fmt.Sprintf("armed=%t since=%s", armed, since.UTC().Format(time.RFC3339)))
}

func (s *Server) injectHandler(name string, snap input.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithFields(logrus.Fields{"route": name, "remote": r.RemoteAddr})

		if err := s.inj.Inject(snap); err != nil {
			log.WithError(err).Warn("inject rejected")
			writeText(w, http.StatusServiceUnavailable, "busy")
			return
		}
		log.Info("snapshot injected")
		writeText(w, http.StatusAccepted, "ok")
	}
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if s.ann == nil {
		writeText(w, http.StatusNotImplemented, "no announcer")
		return
	}
	s.ann.Announce(announce.Test)
	writeText(w, http.StatusOK, "ok")
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = fmt.Fprintln(w, body)
}
