// Package httpapi serves house reports over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"smart-home/internal/application"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	addr        string
	server      *http.Server
	reporter    *application.Reporter
	logger      *slog.Logger
	mu          sync.Mutex
	running     bool
	mux         *http.ServeMux
	rateLimiter *RateLimiter
	authToken   string
	listener    net.Listener
}

// NewServer allows rateLimit report requests per client per minute.
func NewServer(addr, authToken string, rateLimit int, reporter *application.Reporter, logger *slog.Logger) *Server {
	if rateLimit <= 0 {
		rateLimit = 30
	}
	s := &Server{
		addr:        addr,
		reporter:    reporter,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(rateLimit, time.Minute),
		authToken:   authToken,
	}
	s.mux.HandleFunc("GET /reports/{provider}", s.rateLimiter.Middleware(s.requireToken(s.handleReport)))
	s.mux.HandleFunc("GET /providers", s.requireToken(s.handleProviders))
	s.mux.HandleFunc("GET /rooms", s.requireToken(s.handleRooms))
	// No auth or rate limiting on health check
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// TrustProxyHeaders makes the rate limiter identify clients by
// X-Forwarded-For / X-Real-IP. Call before Start.
func (s *Server) TrustProxyHeaders() {
	s.rateLimiter.mu.Lock()
	s.rateLimiter.trustProxy = true
	s.rateLimiter.mu.Unlock()
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.Info("HTTP report server starting", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.listener = nil
	s.running = false
	return nil
}

// Handler returns the routes wrapped with request ID tagging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		s.mux.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken != "" {
			token := r.Header.Get("X-Auth-Token")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token != s.authToken {
				s.logger.Warn("unauthorized request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Device string `json:"device,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")

	report, err := s.reporter.Report(r.Context(), name)
	if err != nil {
		s.writeReportError(w, r, name, err)
		return
	}

	s.logger.Info("report served", "provider", name, "request_id", w.Header().Get(RequestIDHeader))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, report)
}

func (s *Server) writeReportError(w http.ResponseWriter, r *http.Request, name string, err error) {
	var reportErr *application.ReportError
	switch {
	case errors.Is(err, application.ErrUnknownProvider):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &reportErr):
		s.logger.Warn("report failed", "provider", name, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Kind:   errorKind(reportErr),
			Device: reportErr.Device,
		})
	default:
		s.logger.Error("report failed", "provider", name, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func errorKind(err *application.ReportError) string {
	switch {
	case errors.Is(err, application.ErrNoInfoProvided):
		return "no_info_provided"
	case errors.Is(err, application.ErrNotFoundDevice):
		return "not_found_device"
	default:
		return "unknown"
	}
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"providers": s.reporter.Providers()})
}

type roomResponse struct {
	Name    string   `json:"name"`
	Devices []string `json:"devices"`
}

func (s *Server) handleRooms(w http.ResponseWriter, _ *http.Request) {
	house := s.reporter.House()
	rooms := make([]roomResponse, 0)
	for _, room := range house.Rooms() {
		rooms = append(rooms, roomResponse{Name: room.Name(), Devices: room.Devices()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"description": house.Description(),
		"rooms":       rooms,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]any{
		"status":    status,
		"running":   running,
		"providers": len(s.reporter.Providers()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
