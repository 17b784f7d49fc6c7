// Package server provides the HTTP trigger surface for the pipeline. Both
// endpoints call the same underlying functions as the internal scheduler;
// the handlers only adapt results to JSON envelopes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/job-tracker/internal/pipeline"
)

// Processor runs the poll pipeline once.
type Processor interface {
	Process(ctx context.Context) (pipeline.Result, error)
}

// Digester runs the digest pipeline once.
type Digester interface {
	Run(ctx context.Context) (pipeline.Digest, error)
}

// Server is the HTTP trigger surface.
type Server struct {
	httpServer *http.Server
	processor  Processor
	digester   Digester
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a server exposing the pipeline trigger endpoints.
func New(cfg Config, processor Processor, digester Digester) *Server {
	s := &Server{processor: processor, digester: digester}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /digest", s.handleDigest)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // pipeline runs hold the connection
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[server] %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes the uncaught-error envelope. HTTP callers always get
// a JSON body, never a bare protocol failure.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error",
		"message": err.Error(),
	})
}
