package client

// Wire types mirror the server API. They are declared here rather than
// shared with the server's internal models so external programs can
// import this package.

// GenerateRequest is the submission body.
type GenerateRequest struct {
	Prompt     string `json:"prompt"`
	History    string `json:"history,omitempty"`
	StyleImage string `json:"styleImage,omitempty"`
}

// AnimationPayload is the generated animation document.
type AnimationPayload struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Job status values reported by the server.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// GenerateResponse is the acceptance body for async submissions.
type GenerateResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// StatusResponse is a job status poll result.
type StatusResponse struct {
	JobID  string            `json:"jobId"`
	Status string            `json:"status"`
	Result *AnimationPayload `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}
