package plot

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// HTTPServer defines the interface for an HTTP server that the dashboard will use
type HTTPServer interface {
	// RegisterHandler registers a handler for a route and the given methods, all methods when empty
	RegisterHandler(path string, handler http.HandlerFunc, methods ...string)

	// RegisterFileServer registers a handler to serve static files under a path prefix
	RegisterFileServer(prefix string, fs http.FileSystem)

	// Handler returns the routing handler
	Handler() http.Handler

	// Start starts the HTTP server on the specified port and blocks until it stops
	Start(port int) error

	// Shutdown stops the server gracefully
	Shutdown(ctx context.Context) error
}

// MuxServer implements HTTPServer on a gorilla/mux router
type MuxServer struct {
	mu     sync.Mutex
	router *mux.Router
	server *http.Server
}

// NewMuxServer creates a new instance of MuxServer
func NewMuxServer() *MuxServer {
	return &MuxServer{router: mux.NewRouter()}
}

// RegisterHandler registers a handler for a specific route
func (s *MuxServer) RegisterHandler(path string, handler http.HandlerFunc, methods ...string) {
	route := s.router.HandleFunc(path, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// RegisterFileServer registers a handler to serve static files
func (s *MuxServer) RegisterFileServer(prefix string, fs http.FileSystem) {
	s.router.PathPrefix(prefix).Handler(http.FileServer(fs))
}

// Handler returns the router
func (s *MuxServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server on the specified port
func (s *MuxServer) Start(port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server
func (s *MuxServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
