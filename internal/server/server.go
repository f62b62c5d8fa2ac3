// Package server exposes the essay workbench over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redpen-dev/redpen/internal/provider"
	"github.com/redpen-dev/redpen/internal/store"
	"github.com/redpen-dev/redpen/internal/vectorindex"
)

// Server is the HTTP server for the essay API.
type Server struct {
	store store.Store
	ai    provider.Client
	index vectorindex.VectorIndex
	addr  string
}

// NewServer creates a Server. index may be nil; related-word suggestions are
// then disabled.
func NewServer(st store.Store, ai provider.Client, index vectorindex.VectorIndex, addr string) *Server {
	return &Server{
		store: st,
		ai:    ai,
		index: index,
		addr:  addr,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/correct", s.handleCorrect)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/brainstorm", s.handleBrainstorm)
	mux.HandleFunc("POST /api/dictionary", s.handleDictionary)

	mux.HandleFunc("GET /api/essays", s.handleListEssays)
	mux.HandleFunc("POST /api/essays", s.handleCreateEssay)
	mux.HandleFunc("GET /api/essays/{id}", s.handleGetEssay)
	mux.HandleFunc("PUT /api/essays/{id}", s.handleUpdateEssay)
	mux.HandleFunc("DELETE /api/essays/{id}", s.handleDeleteEssay)

	mux.HandleFunc("GET /api/vocabulary", s.handleListWords)
	mux.HandleFunc("POST /api/vocabulary", s.handleAddWord)
	mux.HandleFunc("GET /api/vocabulary/{id}", s.handleGetWord)
	mux.HandleFunc("DELETE /api/vocabulary/{id}", s.handleDeleteWord)
	mux.HandleFunc("GET /api/vocabulary/{id}/related", s.handleRelatedWords)

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// No write timeout; generate and ask stream for a long time.
	}

	log.Printf("[INFO] redpen server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
