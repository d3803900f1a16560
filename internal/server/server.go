// Package server provides the HTTP handlers and routing for the MCP server.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"copilot-mcp/internal/auth"
	"copilot-mcp/internal/mcp"
)

// MaxRequestBodySize is the maximum accepted /mcp request body (1MB).
const MaxRequestBodySize = 1 << 20

const defaultShutdownTimeout = 10 * time.Second

// Config contains server configuration values: bind address, shared secret
// and shutdown grace period. It is built once at startup.
type Config struct {
	Host            string
	Port            int
	Secret          string
	ShutdownTimeout time.Duration
}

// Addr returns the host:port to listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server contains the configured router, dispatcher and authenticator.
type Server struct {
	cfg        Config
	router     *chi.Mux
	catalog    mcp.Catalog
	dispatcher *mcp.Dispatcher
	auth       *auth.Authenticator
	logger     *zap.Logger
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, catalog mcp.Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		catalog:    catalog,
		dispatcher: mcp.NewDispatcher(catalog, logger),
		auth:       auth.NewAuthenticator(cfg.Secret, logger),
		logger:     logger.Named("http"),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(responseHeaders)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/", s.handleRoot)

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Get("/tools", s.handleListTools)
		r.Post("/mcp", s.handleMCP)
	})

	s.router.NotFound(handleNotFound)
	s.router.MethodNotAllowed(handleNotFound)

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// DevMode reports whether the server runs without a shared secret.
func (s *Server) DevMode() bool { return s.auth.DevMode() }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, servicePayload)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toolsPayload{Tools: s.catalog.List()})
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) > MaxRequestBodySize {
		writeError(w, http.StatusBadRequest, "Request body too large")
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, "Request body is required")
		return
	}

	resp, status, err := s.dispatcher.Handle(r.Context(), body)
	if err != nil {
		if errors.Is(err, mcp.ErrMalformedBody) {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		s.logger.Error("dispatch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, resp)
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// writeJSON writes v without a trailing newline so fixed payloads are byte-exact.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
