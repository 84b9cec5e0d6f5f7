package server

import (
	"encoding/json"
	"net/http"
)

// handleIngestJobDescription fetches a job posting URL and returns its
// extracted text, ready to paste into the job description input.
func (s *Server) handleIngestJobDescription(w http.ResponseWriter, r *http.Request) {
	if s.ingester == nil {
		errorResponse(w, http.StatusNotImplemented, "URL ingestion is not enabled")
		return
	}

	var req struct {
		URL        string `json:"url"`
		UseBrowser bool   `json:"use_browser"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	posting, err := s.ingester.JobDescription(r.Context(), req.URL, req.UseBrowser)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, posting)
}
