package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
	"github.com/ternarybob/motif/internal/services/events"
	"github.com/ternarybob/motif/internal/services/generator"
)

// GenerateHandler handles animation generation submissions in three
// variants: async (job id + polling), sync (blocking), and streaming
// (newline-delimited JSON progress events).
type GenerateHandler struct {
	generator *generator.Service
	jobs      interfaces.JobStorage
	events    *events.Service
	logger    arbor.ILogger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(gen *generator.Service, jobs interfaces.JobStorage, eventService *events.Service, logger arbor.ILogger) *GenerateHandler {
	return &GenerateHandler{
		generator: gen,
		jobs:      jobs,
		events:    eventService,
		logger:    logger,
	}
}

// GenerateAsyncHandler handles POST /api/generate. It validates the
// submission, registers a job, dispatches it to the worker pool, and
// returns 202 with the job id immediately.
func (h *GenerateHandler) GenerateAsyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	// Credential problems are surfaced at submission time so the client
	// is not left polling a job that can never run.
	if err := h.generator.CheckCredentials(); err != nil {
		h.logger.Error().Err(err).Msg("Generation submission rejected - provider not configured")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	job := models.NewJob(common.NewJobID(), req.Prompt)
	if err := h.jobs.Create(r.Context(), job); err != nil {
		h.logger.Error().Err(err).Msg("Failed to register job")
		WriteError(w, http.StatusInternalServerError, "failed to register job")
		return
	}

	if err := h.generator.Enqueue(job.ID, req); err != nil {
		// The record exists but will never be picked up; fail it so a
		// status poll reports the overload instead of hanging.
		h.jobs.Fail(r.Context(), job.ID, "server overloaded, try again later")
		WriteError(w, http.StatusServiceUnavailable, "server overloaded, try again later")
		return
	}

	h.events.Publish(models.JobEvent{
		Type:   models.EventJobCreated,
		JobID:  job.ID,
		Status: models.JobStatusProcessing,
	})

	h.logger.Info().Str("job_id", job.ID).Msg("Generation job accepted")
	WriteJSON(w, http.StatusAccepted, models.GenerateResponse{
		JobID:  job.ID,
		Status: models.JobStatusProcessing,
	})
}

// GenerateSyncHandler handles POST /api/generate/sync, blocking until the
// generation finishes and returning the payload directly.
func (h *GenerateHandler) GenerateSyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	payload, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, payload)
}

// GenerateStreamHandler handles POST /api/generate/stream. Progress is
// written as newline-delimited JSON; the stream always terminates in
// exactly one completed or error event.
func (h *GenerateHandler) GenerateStreamHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	writeEvent := func(event models.ProgressEvent) {
		if err := enc.Encode(event); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	writeEvent(models.ProgressEvent{
		Status:  models.JobStatusProcessing,
		Message: "generation started",
	})

	payload, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		writeEvent(models.ProgressEvent{
			Status: models.JobStatusError,
			Error:  err.Error(),
		})
		return
	}

	writeEvent(models.ProgressEvent{
		Status: models.JobStatusCompleted,
		Result: payload,
	})
}

// decodeRequest parses and validates the submission body. On failure it
// writes the error response and returns ok=false.
func (h *GenerateHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (models.GenerateRequest, bool) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	if req.Prompt == "" {
		WriteError(w, http.StatusBadRequest, interfaces.ErrMissingPrompt.Error())
		return req, false
	}

	return req, true
}

// statusForError maps pipeline errors onto HTTP status codes. Input
// problems are the client's fault; provider and configuration problems
// are the server's.
func statusForError(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrMissingPrompt),
		errors.Is(err, interfaces.ErrMissingIdentifier),
		errors.Is(err, interfaces.ErrInvalidImageFormat):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
