package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kulurunagavardhanreddy/lumio/internal/export"
	"github.com/kulurunagavardhanreddy/lumio/internal/store"
)

// listItem is a summary record without the transcript, which can be
// large for long recordings.
type listItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	Filename   string `json:"filename,omitempty"`
	Bullets    bool   `json:"bullets"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  string `json:"created_at"`
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.store.List(limit)
	if err != nil {
		jsonError(w, "failed to list summaries", http.StatusInternalServerError)
		return
	}

	items := make([]listItem, 0, len(records))
	for _, rec := range records {
		items = append(items, listItem{
			ID:         rec.ID,
			Title:      rec.Title,
			Source:     rec.Source,
			Filename:   rec.Filename,
			Bullets:    rec.Bullets,
			ChunkCount: rec.ChunkCount,
			CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"summaries": items})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.getRecord(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (s *Server) handleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "summary not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete summary", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.getRecord(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatMarkdown
	}
	if !export.IsSupportedFormat(format) {
		jsonError(w, fmt.Sprintf("unsupported export format: %s", format), http.StatusBadRequest)
		return
	}

	var data []byte
	switch format {
	case export.FormatMarkdown:
		data = []byte(export.ToMarkdown(rec.Title, rec.Summary, s.cfg.BulletMarker))
	case export.FormatHTML:
		var err error
		data, err = export.ToHTML(rec.Title, rec.Summary, s.cfg.BulletMarker)
		if err != nil {
			jsonError(w, "failed to render summary", http.StatusInternalServerError)
			return
		}
	case export.FormatDocx:
		f, err := os.CreateTemp(s.cfg.TempDir, "export-*.docx")
		if err != nil {
			jsonError(w, "failed to render summary", http.StatusInternalServerError)
			return
		}
		path := f.Name()
		f.Close()
		defer os.Remove(path)

		if err := export.WriteDocx(rec.Title, rec.Summary, path); err != nil {
			jsonError(w, "failed to render summary", http.StatusInternalServerError)
			return
		}
		data, err = os.ReadFile(path)
		if err != nil {
			jsonError(w, "failed to render summary", http.StatusInternalServerError)
			return
		}
	}

	filename := sanitizeFilename(rec.Title)
	if filename == "unnamed" {
		filename = rec.ID
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+"."+format))
	w.Write(data)
}

type emailRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
}

func (s *Server) handleEmailSummary(w http.ResponseWriter, r *http.Request) {
	if s.mailer == nil || !s.mailer.Enabled() {
		jsonError(w, "mail is not configured", http.StatusServiceUnavailable)
		return
	}

	rec, ok := s.getRecord(w, r)
	if !ok {
		return
	}

	var body emailRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Recipient == "" {
		jsonError(w, "recipient is required", http.StatusBadRequest)
		return
	}
	subject := body.Subject
	if subject == "" {
		subject = "Summary: " + rec.Title
	}

	if err := s.mailer.Send(r.Context(), body.Recipient, subject, rec.Summary); err != nil {
		jsonError(w, "failed to send mail: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "sent", "recipient": body.Recipient})
}

// getRecord loads the summary named in the route, writing the error
// response itself when the record is unavailable.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "summary not found", http.StatusNotFound)
		} else {
			jsonError(w, "failed to load summary", http.StatusInternalServerError)
		}
		return nil, false
	}
	return rec, true
}
