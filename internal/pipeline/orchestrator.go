// Package pipeline coordinates summarization jobs: an in-memory job
// registry, a bounded queue and a pool of workers that transcribe,
// parse, chunk and summarize inputs.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kulurunagavardhanreddy/lumio/internal/config"
	"github.com/kulurunagavardhanreddy/lumio/internal/store"
	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
	"github.com/kulurunagavardhanreddy/lumio/internal/transcribe"
)

// ErrQueueFull is returned by Submit when the job queue is at capacity.
var ErrQueueFull = errors.New("job queue is full")

const cleanupInterval = 5 * time.Minute

// Orchestrator owns the job queue and worker pool.
type Orchestrator struct {
	cfg    config.Config
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewOrchestrator(cfg config.Config, sum summarize.Summarizer, tr transcribe.Transcriber, st *store.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(cfg, sum, tr, st, log),
		log:    log,
	}
}

// Start launches the worker pool and the job cleanup loop.
func (o *Orchestrator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go o.runWorker(ctx, i)
	}

	o.wg.Add(1)
	go o.runCleanup(ctx)

	o.log.Info("orchestrator started", "workers", o.cfg.WorkerCount, "queue_size", o.cfg.MaxQueueSize)
}

// Stop drains the workers and waits for in-flight jobs to finish.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	o.log.Info("orchestrator stopped")
}

func (o *Orchestrator) runWorker(ctx context.Context, id int) {
	defer o.wg.Done()
	log := o.log.With("worker", id)
	log.Debug("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Debug("worker stopped")
			return
		case job := <-o.queue:
			o.worker.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) runCleanup(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.jobs.Cleanup()
		}
	}
}

// Submit registers the job and queues it for processing.
func (o *Orchestrator) Submit(job *Job) error {
	select {
	case o.queue <- job:
		o.jobs.Put(job)
		return nil
	default:
		return ErrQueueFull
	}
}

// GetJob returns the job with the given id, or nil if unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// SummarizeSync runs the pipeline inline for a pasted text, bypassing
// the queue. The result is persisted like any other run.
func (o *Orchestrator) SummarizeSync(ctx context.Context, title, text string, req Request) (*store.Record, error) {
	job := NewJob(SourceText, "", title, req)
	job.SetText(text)
	return o.worker.summarizeText(ctx, job, text)
}

// DefaultRequest resolves the service-wide summary defaults.
func DefaultRequest(cfg config.Config) Request {
	return Request{
		MaxChunkWords:  cfg.MaxChunkWords,
		MinSentenceLen: cfg.MinSentenceLen,
		Marker:         cfg.BulletMarker,
		Params: summarize.Params{
			MaxLength:   cfg.DefaultMaxLength,
			MinLength:   cfg.DefaultMinLength,
			DoSample:    true,
			Temperature: 0.7,
			TopP:        0.9,
		},
	}
}
