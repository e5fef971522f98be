package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kulurunagavardhanreddy/lumio/internal/chunker"
	"github.com/kulurunagavardhanreddy/lumio/internal/config"
	"github.com/kulurunagavardhanreddy/lumio/internal/parser"
	"github.com/kulurunagavardhanreddy/lumio/internal/store"
	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
	"github.com/kulurunagavardhanreddy/lumio/internal/summary"
	"github.com/kulurunagavardhanreddy/lumio/internal/transcribe"
)

// Worker runs a job through transcription or parsing, chunking,
// per-chunk summarization and persistence.
type Worker struct {
	cfg         config.Config
	summarizer  summarize.Summarizer
	transcriber transcribe.Transcriber
	store       *store.Store
	log         *slog.Logger
}

func NewWorker(cfg config.Config, sum summarize.Summarizer, tr transcribe.Transcriber, st *store.Store, log *slog.Logger) *Worker {
	return &Worker{
		cfg:         cfg,
		summarizer:  sum,
		transcriber: tr,
		store:       st,
		log:         log,
	}
}

// Process runs the full pipeline for a queued job and records the
// outcome on the job itself.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "source", job.Source)
	log.Info("job started")

	text, err := w.resolveText(ctx, job)
	if err != nil {
		w.fail(job, log, err)
		return
	}

	rec, err := w.summarizeText(ctx, job, text)
	if err != nil {
		w.fail(job, log, err)
		return
	}

	job.SetSummaryID(rec.ID)
	job.SetStatus(StatusCompleted, "done")
	log.Info("job completed", "summary_id", rec.ID, "chunks", rec.ChunkCount)
}

func (w *Worker) fail(job *Job, log *slog.Logger, err error) {
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, "failed")
	log.Error("job failed", "error", err)
}

// resolveText turns the job input into plain text, transcribing audio
// or parsing documents as needed.
func (w *Worker) resolveText(ctx context.Context, job *Job) (string, error) {
	switch job.Source {
	case SourceText:
		return job.Text(), nil

	case SourceAudio:
		if w.transcriber == nil {
			return "", errors.New("transcription is not configured")
		}
		job.SetStatus(StatusTranscribing, "transcribing audio")
		return w.transcribeUpload(ctx, job)

	case SourceDocument:
		job.SetStatus(StatusParsing, "parsing document")
		snap := job.Snapshot()
		p, err := parser.ForFile(snap.Filename)
		if err != nil {
			return "", err
		}
		if pdf, ok := p.(*parser.PDFParser); ok {
			pdf.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
		}
		doc, err := p.Parse(bytes.NewReader(job.FileData()), snap.Filename)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", snap.Filename, err)
		}
		if doc.Title != "" {
			job.SetTitle(doc.Title)
		}
		return doc.Text, nil

	default:
		return "", fmt.Errorf("unknown job source: %q", job.Source)
	}
}

// transcribeUpload spills the upload to a temp file so the external
// tools can read it, then cleans up.
func (w *Worker) transcribeUpload(ctx context.Context, job *Job) (string, error) {
	ext := filepath.Ext(job.Filename)
	f, err := os.CreateTemp(w.cfg.TempDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			w.log.Warn("failed to remove temp audio file", "path", path, "error", err)
		}
	}()

	if _, err := f.Write(job.FileData()); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp audio file: %w", err)
	}

	return w.transcriber.TranscribeFile(ctx, path)
}

// summarizeText chunks the text, summarizes each chunk with retries,
// assembles the result and persists it.
func (w *Worker) summarizeText(ctx context.Context, job *Job, text string) (*store.Record, error) {
	req := job.req

	job.SetStatus(StatusChunking, "splitting text")
	chunks := chunker.Split(text, req.MaxChunkWords)
	if len(chunks) == 0 {
		return nil, errors.New("no summarizable content")
	}
	job.SetTotalChunks(len(chunks))

	job.SetStatus(StatusSummarizing, fmt.Sprintf("summarizing %d chunks", len(chunks)))
	fn := func(ctx context.Context, chunk string) (string, error) {
		out, err := w.summarizeChunk(ctx, chunk, req.Params)
		if err != nil {
			return "", err
		}
		job.IncrChunksSummarized()
		return out, nil
	}

	result, err := summary.Assemble(ctx, chunks, fn, summary.Options{
		Bullets:        req.Bullets,
		MinSentenceLen: req.MinSentenceLen,
		Marker:         req.Marker,
	})
	if err != nil {
		return nil, err
	}

	snap := job.Snapshot()
	rec := store.Record{
		ID:         NewID(),
		Title:      snap.Title,
		Source:     snap.Source,
		Filename:   snap.Filename,
		Transcript: text,
		Summary:    result,
		Params:     req.Params,
		Bullets:    req.Bullets,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now().UTC(),
	}
	if err := w.store.Save(rec); err != nil {
		return nil, fmt.Errorf("persist summary: %w", err)
	}
	return &rec, nil
}

// summarizeChunk calls the backend with exponential backoff on
// retryable failures.
func (w *Worker) summarizeChunk(ctx context.Context, chunk string, p summarize.Params) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			w.log.Warn("retrying chunk summarization", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(Backoff(attempt)):
			}
		}

		out, err := w.summarizer.Summarize(ctx, chunk, p)
		if err == nil {
			return out, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("gave up after %d retries: %w", MaxRetries, lastErr)
}
