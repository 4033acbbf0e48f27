package models

// GenerateRequest is the submission body for all generation variants.
type GenerateRequest struct {
	Prompt     string `json:"prompt" validate:"required"`
	History    string `json:"history,omitempty"`    // prior conversation, newline-joined free text
	StyleImage string `json:"styleImage,omitempty"` // optional data URI reference image
}

// GenerateResponse is the 202-style acceptance body for async submissions.
type GenerateResponse struct {
	JobID  string    `json:"jobId"`
	Status JobStatus `json:"status"`
}

// StatusResponse is the body returned by the status endpoint.
type StatusResponse struct {
	JobID  string            `json:"jobId"`
	Status JobStatus         `json:"status"`
	Result *AnimationPayload `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// ProgressEvent is one newline-delimited JSON event in the streaming
// variant. A stream terminates in exactly one completed or error event.
type ProgressEvent struct {
	Status  JobStatus         `json:"status"`
	Message string            `json:"message,omitempty"`
	Result  *AnimationPayload `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// StoreResultRequest is the body an external worker posts back to record
// an outcome by request id.
type StoreResultRequest struct {
	RequestID string            `json:"requestId" validate:"required"`
	Status    JobStatus         `json:"status" validate:"required"`
	Result    *AnimationPayload `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
}
