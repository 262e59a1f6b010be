// Package web serves decoded MDM models over HTTP for browsing.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"soldak-mdm/internal/preview"
	"soldak-mdm/internal/texture"
)

// Server exposes the .mdm files of one directory.
type Server struct {
	Dir      string
	Textures texture.Resolver // may be nil
	Preview  preview.Options
}

// NewServer creates a server for dir.
func NewServer(dir string, tex texture.Resolver, opts preview.Options) *Server {
	return &Server{Dir: dir, Textures: tex, Preview: opts}
}

// Router returns the API routes without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/models", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/models/{name}", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/models/{name}/glb", s.handleGLB).Methods(http.MethodGet)
	api.HandleFunc("/models/{name}/preview.webp", s.handlePreview).Methods(http.MethodGet)
	api.HandleFunc("/models/{name}/records", s.handleRecords).Methods(http.MethodGet)
	return r
}

// Handler wraps Router with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(os.Stdout, h)
}

// ListenAndServe serves until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[web] Starting server %v, models from %s", addr, s.Dir)
	return http.ListenAndServe(addr, s.Handler())
}
