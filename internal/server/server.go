// Package server exposes the summary pipeline over HTTP, carrying the
// same message contract as the popup trigger: a generateSummary request
// in, a success/error result out.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const actionGenerateSummary = "generateSummary"

// Runner executes one summary invocation.
type Runner interface {
	Run(ctx context.Context, url, email string) error
}

// Server wraps the HTTP server configuration and dependencies.
type Server struct {
	runner  Runner
	logger  *log.Logger
	httpSrv *http.Server
}

// New creates an HTTP server with routes wired to the pipeline.
func New(addr string, runner Runner, logger *log.Logger) *Server {
	s := &Server{runner: runner, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/v1/summaries", s.handleGenerate)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run starts handling HTTP requests. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Listening on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type summaryRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
	Email  string `json:"email"`
}

type summaryResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	// One ID per invocation keeps interleaved log lines attributable.
	reqID := uuid.NewString()

	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Printf("[%s] Rejecting malformed request body: %v", reqID, err)
		writeJSON(w, http.StatusBadRequest, summaryResponse{Success: false, Error: "malformed request body"})
		return
	}
	if req.Action != actionGenerateSummary {
		s.logger.Printf("[%s] Rejecting unknown action %q", reqID, req.Action)
		writeJSON(w, http.StatusBadRequest, summaryResponse{Success: false, Error: "unknown action"})
		return
	}

	s.logger.Printf("[%s] Generating summary for %s -> %s", reqID, req.URL, req.Email)
	if err := s.runner.Run(r.Context(), req.URL, req.Email); err != nil {
		s.logger.Printf("[%s] Invocation failed: %v", reqID, err)
		writeJSON(w, http.StatusOK, summaryResponse{Success: false, Error: err.Error()})
		return
	}
	s.logger.Printf("[%s] Invocation succeeded", reqID)
	writeJSON(w, http.StatusOK, summaryResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
