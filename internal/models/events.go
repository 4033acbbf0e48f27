package models

import "time"

// Event types published on the job lifecycle stream.
const (
	EventJobCreated   = "job_created"
	EventJobCompleted = "job_completed"
	EventJobFailed    = "job_failed"
)

// JobEvent is a lifecycle notification broadcast to WebSocket subscribers.
type JobEvent struct {
	Type      string    `json:"type"`
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
