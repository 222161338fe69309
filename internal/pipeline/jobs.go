package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/crossmark/internal/xref"
)

// JobStatus represents the state of a batch render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one document through the batch render pipeline.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	source      []byte
	html        string
	diagnostics []xref.Diagnostic
	errMsg      string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetSource sets the raw Markdown bytes to render.
func (j *Job) SetSource(src []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.source = src
}

// Source returns the raw Markdown bytes.
func (j *Job) Source() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.source
}

// Complete stores the render output and marks the job done. The source
// is dropped; labels are never persisted, so a re-render starts from
// the original upload anyway.
func (j *Job) Complete(html string, diags []xref.Diagnostic) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.html = html
	j.diagnostics = diags
	j.source = nil
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Fail records a fatal error (malformed input; reference problems are
// diagnostics, not failures).
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errMsg = msg
	j.Status = StatusFailed
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string            `json:"job_id"`
	Filename    string            `json:"filename"`
	Status      JobStatus         `json:"status"`
	HTML        string            `json:"html,omitempty"`
	Diagnostics []xref.Diagnostic `json:"diagnostics"`
	Error       string            `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	diags := j.diagnostics
	if diags == nil {
		diags = []xref.Diagnostic{}
	}
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Status:      j.Status,
		HTML:        j.html,
		Diagnostics: diags,
		Error:       j.errMsg,
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
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns the hex string.
// Job ids derive from it plus a timestamp.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
