// Package server provides the local HTTP server for browsing the NetSuite
// REST Record API documentation.
//
// The server exposes:
//
//   - GET /             - Swagger UI rendering /openapi.json
//   - GET /openapi.json - The OpenAPI document fetched from the metadata catalog
//   - GET /health       - Liveness probe
//   - GET /ready        - Readiness probe, ok once a document is loaded
//   - GET /metrics      - Prometheus metrics (if a gatherer is configured)
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Title is shown in the Swagger UI page
const Title = "NetSuite REST Record API"

const indexHTML = `<!DOCTYPE html>
<html>
  <head>
    <link type="text/css" rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
    <title>` + Title + `</title>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
    const ui = SwaggerUIBundle({
        url: '/openapi.json',
        dom_id: '#swagger-ui',
        presets: [
            SwaggerUIBundle.presets.apis,
            SwaggerUIBundle.SwaggerUIStandalonePreset
        ],
        layout: "BaseLayout",
        deepLinking: true
    })
    </script>
  </body>
</html>
`

// Config configures the documentation server
type Config struct {
	// Addr is the listen address, e.g. 127.0.0.1:8000
	Addr string
	// HTTPSConfig enables TLS when it carries certificates
	HTTPSConfig *transport.HTTPSConfig
	// Gatherer exposes /metrics when set
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server serves an OpenAPI document through Swagger UI
type Server struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	httpSrv  *transport.Server
	bound    bool

	mu   sync.RWMutex
	spec []byte
}

// New creates a documentation server. The document is set with SetSpec.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Server{
		logger:   cfg.Logger,
		gatherer: cfg.Gatherer,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.httpSrv = transport.NewServer(cfg.Addr, cfg.HTTPSConfig, s.Handler())
	return s
}

// SetSpec replaces the served OpenAPI document. spec is any JSON
// serializable value, typically the result of restapi.API.OpenAPI.
func (s *Server) SetSpec(spec any) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encoding OpenAPI document: %w", err)
	}
	s.mu.Lock()
	s.spec = data
	s.mu.Unlock()
	return nil
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return mux
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /index.html", s.handleIndex)
	mux.HandleFunc("GET /openapi.json", s.handleSpec)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Listen binds the listening socket so Addr is known before Start
func (s *Server) Listen() error {
	if err := s.httpSrv.Listen(); err != nil {
		return err
	}
	s.bound = true
	return nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	return s.httpSrv.Addr()
}

// Start serves requests until Shutdown is called
func (s *Server) Start() error {
	if !s.bound {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Info("NetSuite REST Record API docs available", "url", "http://"+s.Addr())
	return s.httpSrv.Serve()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	spec := s.spec
	s.mu.RUnlock()

	if spec == nil {
		s.jsonError(w, "OpenAPI document not loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(spec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	loaded := s.spec != nil
	s.mu.RUnlock()

	if !loaded {
		s.jsonError(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	s.jsonResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, message string, status int) {
	s.jsonResponse(w, map[string]string{"error": message}, status)
}
