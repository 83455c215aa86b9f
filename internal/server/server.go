// Package server implements the HTTP routing and handlers for the manga
// library API: library listing, work metadata, cover art, and page bytes.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/banux/manga-server/internal/store"
)

// Server is the HTTP handler for the library API, borrowing a reference to
// an immutable LibraryStore for the lifetime of the process.
type Server struct {
	router *mux.Router
	store  *store.LibraryStore
}

// New builds a Server around an already-loaded LibraryStore.
func New(st *store.LibraryStore) *Server {
	s := &Server{router: mux.NewRouter(), store: st}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// registerRoutes wires the four routes of spec.md §4.3, mounted both flatly
// and under a /v1 prefix (the spec permits either layout).
func (s *Server) registerRoutes() {
	mount := func(r *mux.Router) {
		r.HandleFunc("/", s.handleListing).Methods(http.MethodGet)
		r.HandleFunc("/{id}", s.handleWork).Methods(http.MethodGet)
		r.HandleFunc("/{id}/cover", s.handleCover).Methods(http.MethodGet)
		r.HandleFunc("/{id}/{ch:[0-9]+}/{pg:[0-9]+}", s.handlePage).Methods(http.MethodGet)
	}
	mount(s.router)
	mount(s.router.PathPrefix("/v1").Subrouter())

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}
