package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/cv-matcher/internal/export"
)

// handleExport renders posted text as a downloadable PDF or DOC file.
// The format comes from the path: /export/pdf or /export/doc.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Text     string `json:"text"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc := export.Document{Title: req.Title, Text: req.Text}
	format := export.Format(r.PathValue("format"))

	data, contentType, err := export.Render(doc, format)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	filename := export.Filename(doc, format)
	if req.Filename != "" {
		filename = req.Filename
		if !strings.HasSuffix(filename, "."+string(format)) {
			filename += "." + string(format)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
