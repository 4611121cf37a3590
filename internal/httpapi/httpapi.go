// Package httpapi is a thin HTTP inspection service sitting exactly where
// spec.md §1 says the SVG renderer/UI would sit: it decodes a file on
// request and serves the already-decoded Board back out as JSON,
// read-only, never reinterpreting net connectivity or electrical meaning
// (SPEC_FULL.md §9.5).
//
// Grounded on bobbydeveaux-starbucks-mugs's chi-based HTTP layer for
// router composition, and on the teacher's EWFImage guarding its
// chunkCache with cacheMutex for the same "small in-memory store behind
// a mutex" shape used here for decoded boards.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/openboardview/xzzpcbgo/diagnostics"
	xzzpcb "github.com/openboardview/xzzpcbgo"
)

// decodeResult is one stored decode outcome, keyed by a generated id.
type decodeResult struct {
	Board       *xzzpcb.Board           `json:"board"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
}

// Server holds the in-memory decode store behind a router.
type Server struct {
	mu    sync.RWMutex
	store map[string]decodeResult
}

// NewServer returns a Server with an empty store.
func NewServer() *Server {
	return &Server{store: make(map[string]decodeResult)}
}

// Routes returns the chi router exposing the inspection endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/boards", func(r chi.Router) {
		r.Post("/", s.handleDecode)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Get("/entities", s.handleGetEntities)
		})
	})
	return r
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	b, diags := xzzpcb.Decode(data)
	id := uuid.NewString()

	result := decodeResult{Board: b, Diagnostics: diags}
	s.mu.Lock()
	s.store[id] = result
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/boards/"+id)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		ID string `json:"id"`
		decodeResult
	}{ID: id, decodeResult: result})
}

func (s *Server) lookup(id string) (decodeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.store[id]
	return res, ok
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok := s.lookup(id)
	if !ok {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (s *Server) handleGetEntities(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok := s.lookup(id)
	if !ok {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Board.Entities)
}
