// Package server provides the HTTP server for the Sparsh gesture
// navigation service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agriassist/sparsh/internal/app"
	"github.com/agriassist/sparsh/internal/server/api"
	"github.com/agriassist/sparsh/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Sparsh service.
type Server struct {
	config Config
	mux    *http.ServeMux
	touch  *TouchHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register binding and event API handlers if Store is configured
	if s.config.Store != nil {
		bindingsHandler := api.NewBindingsHandler(s.config.Store)
		if s.config.App != nil {
			// Binding edits take effect immediately in the dispatch table
			application := s.config.App
			bindingsHandler.OnChange(func() {
				application.LoadBindings()
			})
		}
		s.mux.Handle("/api/bindings", bindingsHandler)
		s.mux.Handle("/api/bindings/", bindingsHandler)

		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	// Register the touch WebSocket endpoint if App is configured
	if s.config.App != nil {
		s.touch = NewTouchHandler(s.config.App)
		s.config.App.OnTrace(s.touch.BroadcastTrace)
		s.config.App.Dispatcher().SetNotifier(s.touch)
		s.mux.Handle("/api/touch", s.touch)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Touch returns the WebSocket touch handler, or nil when no App is configured.
func (s *Server) Touch() *TouchHandler {
	return s.touch
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
