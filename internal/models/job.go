package models

import "time"

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Job represents one generation attempt. A record is either live
// (processing) or terminal (completed/error); it never transitions out of
// a terminal state, and exactly one of Result/Error is populated once
// CompletedAt is set.
type Job struct {
	ID          string            `json:"id"`
	Status      JobStatus         `json:"status"`
	Prompt      string            `json:"prompt,omitempty"` // retained for diagnostics only
	SubmittedAt time.Time         `json:"submitted_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Result      *AnimationPayload `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// NewJob creates a live job record for a submission.
func NewJob(id, prompt string) *Job {
	return &Job{
		ID:          id,
		Status:      JobStatusProcessing,
		Prompt:      prompt,
		SubmittedAt: time.Now(),
	}
}

// IsTerminal reports whether the job has reached completed or error.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusError
}

// Clone returns a deep copy. In-memory storage hands out clones so a
// caller mutating a returned record never writes through to stored state.
func (j *Job) Clone() *Job {
	c := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	c.Result = j.Result.Clone()
	return &c
}

// Outcome is the store-and-forward result record, keyed by an external
// request id. Same shape as Job minus the prompt.
type Outcome struct {
	RequestID   string            `json:"requestId"`
	Status      JobStatus         `json:"status"`
	Result      *AnimationPayload `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	LastWriteAt time.Time         `json:"-"` // idle-sweep bookkeeping, not wire data
}

// IsTerminal reports whether the outcome carries a final status.
func (o *Outcome) IsTerminal() bool {
	return o.Status == JobStatusCompleted || o.Status == JobStatusError
}

// Clone returns a deep copy of the outcome.
func (o *Outcome) Clone() *Outcome {
	c := *o
	c.Result = o.Result.Clone()
	return &c
}
