package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kulurunagavardhanreddy/lumio/internal/parser"
	"github.com/kulurunagavardhanreddy/lumio/internal/pipeline"
	"github.com/kulurunagavardhanreddy/lumio/internal/transcribe"
)

type summarizeRequest struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	Bullets   bool   `json:"bullets"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

// handleSummarize summarizes pasted text synchronously.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	req := pipeline.DefaultRequest(s.cfg)
	req.Bullets = body.Bullets
	if body.MaxLength > 0 {
		req.Params.MaxLength = body.MaxLength
	}
	if body.MinLength > 0 {
		req.Params.MinLength = body.MinLength
	}

	title := body.Title
	if title == "" {
		title = "Untitled"
	}

	rec, err := s.orchestrator.SummarizeSync(r.Context(), title, body.Text, req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// handleCreateJob accepts a file upload (audio or document) or a text
// field and queues it for asynchronous processing.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := pipeline.DefaultRequest(s.cfg)
	req.Bullets = r.FormValue("bullets") == "true"
	if v := r.FormValue("max_length"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Params.MaxLength = n
		}
	}
	if v := r.FormValue("min_length"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Params.MinLength = n
		}
	}
	title := r.FormValue("title")

	var job *pipeline.Job
	if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
		if title == "" {
			title = "Untitled"
		}
		job = pipeline.NewJob(pipeline.SourceText, "", title, req)
		job.SetText(text)
	} else {
		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file or text is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		ext := filepath.Ext(filename)
		if title == "" {
			title = strings.TrimSuffix(filename, ext)
		}

		var source string
		switch {
		case transcribe.IsSupportedExtension(filename):
			if !s.cfg.TranscriptionEnabled() {
				jsonError(w, "transcription is not configured", http.StatusUnprocessableEntity)
				return
			}
			source = pipeline.SourceAudio
		case parser.IsSupportedExtension(filename):
			source = pipeline.SourceDocument
		default:
			jsonError(w, fmt.Sprintf("unsupported file type: %s", ext), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		job = pipeline.NewJob(source, filename, title, req)
		job.SetFileData(data)
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
