package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/duustin25/vigenere-cipher-system/pkg/config"
)

const requestIDHeader = "X-Request-ID"

// Options configure a Server.
type Options struct {
	Config config.Config
	// Updates optionally feeds reloaded configurations; the server
	// applies cipher limits and trace toggles without a restart.
	Updates <-chan config.Config
	Logger  *slog.Logger
	Metrics *Metrics
}

// Server serves the cipher HTTP API.
type Server struct {
	logger     *slog.Logger
	metrics    *Metrics
	httpServer *http.Server

	mu  sync.RWMutex
	cfg config.Config

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New constructs a Server from options. Nil logger and metrics fall
// back to defaults.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Server{
		logger:  logger,
		metrics: metrics,
		cfg:     opts.Config,
		stopCh:  make(chan struct{}),
	}

	if opts.Updates != nil {
		go s.applyUpdates(opts.Updates)
	}

	return s
}

// Handler builds the full route tree, wrapped with request logging,
// metrics, and OpenTelemetry instrumentation.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cipher", s.handleCompute)
	mux.HandleFunc("/v1/alphabets", s.handleAlphabets)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	return otelhttp.NewHandler(s.withObservability(mux), "cipher-http")
}

// Start begins serving and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "addr", cfg.Server.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.logger.Info("stopping HTTP server")
		close(s.stopCh)

		if s.httpServer != nil {
			if stopErr := s.httpServer.Shutdown(ctx); stopErr != nil {
				s.logger.Error("failed to shut down HTTP server", "error", stopErr)
				err = stopErr
			}
		}
	})
	return err
}

func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) applyUpdates(updates <-chan config.Config) {
	for {
		select {
		case <-s.stopCh:
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			s.mu.Lock()
			// Listener settings need a restart; only request handling
			// settings are applied live.
			s.cfg.Cipher = cfg.Cipher
			s.mu.Unlock()
			s.logger.Info("applied configuration update",
				"default_modulus", cfg.Cipher.DefaultModulus,
				"include_trace", cfg.Cipher.IncludeTrace,
			)
		}
	}
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		duration := time.Since(start)
		s.metrics.ObserveRequest(r.Method, r.URL.Path, status, duration)
		s.logger.Info("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
