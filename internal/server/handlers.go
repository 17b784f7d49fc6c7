package server

import (
	"net/http"

	"github.com/jonathan/job-tracker/internal/pipeline"
)

// ProcessResponse is the envelope for the poll pipeline.
type ProcessResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Total     int    `json:"total"`
}

// DigestResponse is the envelope for the digest pipeline.
type DigestResponse struct {
	Message                   string `json:"message"`
	TotalApplicationsToday    int    `json:"totalApplicationsToday"`
	ApplicationsWithNextSteps int    `json:"applicationsWithNextSteps"`
}

// handleProcess triggers one poll pipeline run.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	res, err := s.processor.Process(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, processEnvelope(res))
}

// handleDigest triggers one digest run.
func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := s.digester.Run(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, DigestResponse{
		Message:                   "Daily summary sent successfully",
		TotalApplicationsToday:    digest.TotalToday,
		ApplicationsWithNextSteps: len(digest.Actionable),
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processEnvelope adapts a pipeline result to the HTTP envelope.
func processEnvelope(res pipeline.Result) ProcessResponse {
	msg := "Email processing completed"
	if res.Total == 0 {
		msg = "No new emails to process"
	}
	return ProcessResponse{
		Message:   msg,
		Processed: res.Processed,
		Skipped:   res.Skipped,
		Total:     res.Total,
	}
}
