// Package server exposes a live editing session over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/msalah0e/filemap/internal/config"
	"github.com/msalah0e/filemap/internal/layout"
	"github.com/msalah0e/filemap/internal/session"
	"github.com/msalah0e/filemap/internal/workspace"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Version        string
}

// Server serves one session.
type Server struct {
	cfg      Config
	session  *session.Session
	log      *zap.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

// New creates a server for s.
func New(cfg Config, s *session.Session, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:     cfg,
		session: s,
		log:     log,
		started: time.Now(),
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     srv.checkOrigin,
	}
	return srv
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Post("/save", s.handleSave)
		r.Post("/load", s.handleLoad)
		r.Get("/nodes/{index}/content", s.handleContent)
	})
	r.Get("/ws", s.handleWS)

	return r
}

// Start serves until ctx is done, then shuts down gracefully. Websocket
// clients are closed along with ctx.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "running",
		"version": s.cfg.Version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	frames, err := s.session.Submit(r.Context(), session.Message{Type: session.TypeSnapshot})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frames[0].Snapshot)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Submit(r.Context(), session.Message{Type: session.TypeSave}); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Submit(r.Context(), session.Message{Type: session.TypeLoad}); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, session.ErrorFrame(fmt.Errorf("bad node index %q", chi.URLParam(r, "index"))))
		return
	}
	frames, err := s.session.Submit(r.Context(), session.Message{Type: session.TypeView, Index: index})
	if err != nil {
		s.writeError(w, err)
		return
	}
	f := frames[0]
	if f.Type == session.FrameError {
		writeJSON(w, http.StatusInternalServerError, f)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, session.ErrorFrame(err))
}

// statusFor maps session and layout errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoNode):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrNoFolder):
		return http.StatusConflict
	case errors.Is(err, layout.ErrCorrupt):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// PidFile returns the path to the serve PID file.
func PidFile() string {
	return filepath.Join(config.ConfigDir(), "serve.pid")
}

// WritePid writes the current process PID to the PID file.
func WritePid() error {
	if err := os.MkdirAll(filepath.Dir(PidFile()), 0o755); err != nil {
		return err
	}
	return os.WriteFile(PidFile(), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// RemovePid deletes the PID file.
func RemovePid() {
	_ = os.Remove(PidFile())
}

// IsRunning checks whether a serve process is alive.
func IsRunning() (bool, int) {
	data, err := os.ReadFile(PidFile())
	if err != nil {
		return false, 0
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return false, 0
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}
	// On Unix, FindProcess always succeeds. Send signal 0 to check.
	if err := proc.Signal(syscall.Signal(0)); err == nil {
		return true, pid
	}
	// Stale PID file
	RemovePid()
	return false, 0
}
