package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

// StatusHandler serves job status polls.
type StatusHandler struct {
	jobs   interfaces.JobStorage
	logger arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(jobs interfaces.JobStorage, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// GetStatusHandler handles GET /api/status?jobId=<id>. Completed and
// failed jobs return their result or error inline; a job that was swept
// or never existed reports 404.
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		WriteError(w, http.StatusBadRequest, interfaces.ErrMissingIdentifier.Error())
		return
	}

	job, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "job not found or expired")
			return
		}
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Status lookup failed")
		WriteError(w, http.StatusInternalServerError, "status lookup failed")
		return
	}

	WriteJSON(w, http.StatusOK, models.StatusResponse{
		JobID:  job.ID,
		Status: job.Status,
		Result: job.Result,
		Error:  job.Error,
	})
}
