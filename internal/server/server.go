// Package server serves the live style guide and the compiled stylesheets
// of a catalog over HTTP, and notifies open browsers when the catalog is
// reloaded.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/layera/stylegen/internal/catalog"
	"github.com/layera/stylegen/internal/config"
	"github.com/layera/stylegen/internal/logging"
	"github.com/layera/stylegen/internal/styleguide"
	"github.com/layera/stylegen/internal/version"
	"github.com/layera/stylegen/internal/websocket"
)

// AggregateName is the stylesheet path that serves every builder at once.
const AggregateName = "all"

// Server is the preview server.
type Server struct {
	cfg    config.ServerConfig
	logger logging.Logger
	hub    *websocket.Hub

	mu      sync.RWMutex
	catalog *catalog.Catalog
	loaded  time.Time

	serverMu   sync.Mutex
	httpServer *http.Server
}

// New creates a server for c.
func New(cfg config.ServerConfig, c *catalog.Catalog, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if c == nil {
		c = catalog.New()
	}
	logger = logger.WithComponent("server")
	return &Server{
		cfg:     cfg,
		logger:  logger,
		hub:     websocket.NewHub(websocket.LocalOrigins(cfg.Host), logger),
		catalog: c,
		loaded:  time.Now().UTC(),
	}
}

// Catalog returns the catalog currently being served.
func (s *Server) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Reload swaps in c and tells every connected browser to reload.
func (s *Server) Reload(c *catalog.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.loaded = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info(context.Background(), "Catalog reloaded", "builders", c.Len(), "clients", s.hub.Clients())
	s.hub.Broadcast(websocket.ReloadMessage(c.Names()...))
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /css/{file}", s.handleStylesheet)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /ws", s.hub)
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.serverMu.Lock()
	s.httpServer = srv
	s.serverMu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Preview server listening", "address", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown closes websocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown(ctx)

	s.serverMu.Lock()
	srv := s.httpServer
	s.serverMu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := styleguide.Page(s.Catalog(), styleguide.Options{LiveReload: true})
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(page).ServeHTTP(w, r)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, ok := strings.CutSuffix(file, ".css")
	if !ok || name == "" {
		http.NotFound(w, r)
		return
	}

	c := s.Catalog()
	var css string
	if name == AggregateName {
		css = c.CSS()
	} else {
		b, found := c.Get(name)
		if !found {
			http.NotFound(w, r)
			return
		}
		css = b.CSS()
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(css))
}

type healthResponse struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Builders int       `json:"builders"`
	Clients  int       `json:"clients"`
	Loaded   time.Time `json:"loaded"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	health := healthResponse{
		Status:   "ok",
		Version:  version.GetShortVersion(),
		Builders: s.catalog.Len(),
		Clients:  s.hub.Clients(),
		Loaded:   s.loaded,
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Error(r.Context(), err, "Failed to encode health response")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}
