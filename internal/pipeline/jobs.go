package pipeline

import (
	"sync"
	"time"

	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
)

// JobStatus represents the state of a summarization job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusTranscribing JobStatus = "transcribing"
	StatusParsing      JobStatus = "parsing"
	StatusChunking     JobStatus = "chunking"
	StatusSummarizing  JobStatus = "summarizing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Source identifies where a job's input came from.
const (
	SourceText     = "text"
	SourceAudio    = "audio"
	SourceDocument = "document"
)

// Request carries the per-job summary options, resolved from service
// defaults plus any caller overrides.
type Request struct {
	MaxChunkWords  int
	Bullets        bool
	MinSentenceLen int
	Marker         string
	Params         summarize.Params
}

// Job tracks the state of a single summarization run.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Source   string    `json:"source"`
	Filename string    `json:"filename,omitempty"`
	Title    string    `json:"title"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`

	SummaryID string   `json:"summary_id,omitempty"`
	Progress  Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	text     string
	fileData []byte
	req      Request
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks      int      `json:"total_chunks"`
	ChunksSummarized int      `json:"chunks_summarized"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job.
func NewJob(source, filename, title string, req Request) *Job {
	now := time.Now()
	return &Job{
		ID:        NewID(),
		Source:    source,
		Filename:  filename,
		Title:     title,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		req:       req,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// IncrChunksSummarized atomically increments the processed chunk count.
func (j *Job) IncrChunksSummarized() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksSummarized++
	j.UpdatedAt = time.Now()
}

// SetSummaryID links the job to its persisted summary record.
func (j *Job) SetSummaryID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.SummaryID = id
	j.UpdatedAt = time.Now()
}

// SetText sets pasted or parsed input text.
func (j *Job) SetText(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.text = text
}

// lastUpdate reads UpdatedAt under the job lock, since setters mutate
// it concurrently with the cleanup ticker.
func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// Text returns the pasted or parsed input text.
func (j *Job) Text() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.text
}

// SetTitle overrides the job title, used when a parsed document
// carries a better one than the upload filename.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
}

// SetFileData sets the raw upload bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Source    string    `json:"source"`
	Filename  string    `json:"filename,omitempty"`
	Title     string    `json:"title"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	SummaryID string    `json:"summary_id,omitempty"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Source:    j.Source,
		Filename:  j.Filename,
		Title:     j.Title,
		Status:    j.Status,
		Phase:     j.Phase,
		SummaryID: j.SummaryID,
		Progress: Progress{
			TotalChunks:      j.Progress.TotalChunks,
			ChunksSummarized: j.Progress.ChunksSummarized,
			Errors:           errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
