// internal/kybstore/server.go
//
// HTTP surface of the kybd document service. The server owns its listener
// behind a mutex so Start and Shutdown are safe from any goroutine;
// Handler is exported for httptest-based handler tests.

package kybstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultMaxBodyBytes = 1 << 20
)

// Logger is the minimal logging surface the server needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Settings captures the server's runtime configuration.
type Settings struct {
	Host           string
	Port           int
	MaxBodyBytes   int64
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// SettingsFromConfig derives server settings from the process config.
func SettingsFromConfig(cfg *Config) Settings {
	s := Settings{}
	if cfg != nil {
		s.Host = cfg.Host
		s.Port = cfg.Port
		s.MaxUploadBytes = cfg.MaxUploadBytes
	}
	s.normalize()
	return s
}

func (s *Settings) normalize() {
	if s.Host == "" {
		s.Host = "127.0.0.1"
	}
	// Port 0 binds an ephemeral port.
	if s.Port < 0 || s.Port > 65535 {
		s.Port = 8090
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = defaultMaxBodyBytes
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 10 << 20
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = defaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))
}

// Server serves the document API over HTTP.
type Server struct {
	settings Settings
	store    Store
	files    *FileStore
	logger   Logger
	clock    func() time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// ServerOption customizes server construction.
type ServerOption func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control submission timestamps.
func WithClock(clock func() time.Time) ServerOption {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares a document server over the given store.
func NewServer(settings Settings, store Store, files *FileStore, opts ...ServerOption) *Server {
	settings.normalize()
	s := &Server{
		settings: settings,
		store:    store,
		files:    files,
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/kyb/user/", s.handleGetUser)
	mux.HandleFunc("/api/kyb/create", s.handleCreate)
	mux.HandleFunc("/api/kyb/update/", s.handleUpdate)
	mux.HandleFunc("/api/kyb/upload/", s.handleUpload)
	mux.HandleFunc("/api/kyb/submit/", s.handleSubmit)
	mux.HandleFunc("/api/kyb/all", s.handleList)
	mux.HandleFunc("/api/kyb/stats", s.handleStats)
	return mux
}

// Start binds the TCP listener and begins serving.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("kybstore: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("kybstore: listen %s: %w", addr, err)
	}
	s.listener = listener
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("kybstore: serve error: %v", err)
		}
	}()
	s.logger.Printf("kybstore: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
