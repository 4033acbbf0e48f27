package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
	"github.com/ternarybob/motif/internal/services/events"
	"github.com/ternarybob/motif/internal/services/llm"
)

// Service is the generation worker: it assembles the combined prompt,
// invokes the provider, extracts the structured payload from noisy output,
// and records the terminal outcome in job storage.
//
// Submissions are dispatched onto a fixed-size worker pool with a buffered
// queue rather than one goroutine per request, bounding concurrent
// provider calls under load. A full queue rejects the submission; there is
// no job-level retry anywhere in this path.
type Service struct {
	provider llm.Provider
	jobs     interfaces.JobStorage
	events   *events.Service
	logger   arbor.ILogger

	queue   chan task
	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

type task struct {
	jobID string
	req   models.GenerateRequest
}

// NewService creates a generation service backed by the given provider and
// job storage.
func NewService(
	provider llm.Provider,
	jobs interfaces.JobStorage,
	eventService *events.Service,
	cfg *common.WorkersConfig,
	logger arbor.ILogger,
) *Service {
	workers := cfg.Concurrency
	if workers <= 0 {
		workers = 8
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		provider: provider,
		jobs:     jobs,
		events:   eventService,
		logger:   logger,
		queue:    make(chan task, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker pool.
func (s *Service) Start() {
	s.logger.Info().
		Int("workers", s.workers).
		Int("queue_size", cap(s.queue)).
		Msg("Starting generation worker pool")

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop drains the pool. In-flight generations run to completion; queued
// tasks are still picked up before workers exit.
func (s *Service) Stop() {
	close(s.queue)
	s.wg.Wait()
	s.cancel()
	s.logger.Info().Msg("Generation worker pool stopped")
}

// CheckCredentials reports whether the default provider is usable.
func (s *Service) CheckCredentials() error {
	return s.provider.CheckCredentials()
}

// Enqueue dispatches a generation task for the given job without waiting
// for it. Returns ErrQueueFull when the pool queue is saturated; the
// caller is expected to fail the job and surface an overload signal.
func (s *Service) Enqueue(jobID string, req models.GenerateRequest) error {
	select {
	case s.queue <- task{jobID: jobID, req: req}:
		return nil
	default:
		return interfaces.ErrQueueFull
	}
}

// Generate runs the full generation pipeline synchronously: image parsing,
// prompt assembly, provider call, extraction, sanitization, and payload
// validation. Used directly by the sync and streaming endpoint variants
// and by the pool workers.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest) (*models.AnimationPayload, error) {
	if req.Prompt == "" {
		return nil, interfaces.ErrMissingPrompt
	}

	// Image validation happens before the provider call so malformed
	// input never costs a paid request.
	var image *llm.InlineImage
	if req.StyleImage != "" {
		parsed, err := ParseStyleImage(req.StyleImage)
		if err != nil {
			return nil, err
		}
		image = parsed
	}

	instruction := styleInstruction
	if image != nil {
		instruction += styleImageSuffix
	}

	response, err := s.provider.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:            buildPrompt(req.Prompt, req.History),
		SystemInstruction: instruction,
		Temperature:       0,
		ResponseJSON:      true,
		Image:             image,
	})
	if err != nil {
		return nil, err
	}

	payload, err := ParseAnimationPayload(response.Text)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("provider", string(response.Provider)).
		Str("model", response.Model).
		Int("html_length", len(payload.HTML)).
		Int("js_length", len(payload.JS)).
		Msg("Generation payload extracted")

	return payload, nil
}

// buildPrompt assembles the combined prompt from conversation history and
// the new user request.
func buildPrompt(prompt, history string) string {
	if history == "" {
		history = "No history yet."
	}
	return fmt.Sprintf(`**Previous Conversation History:**
%s

**User's New Request:** %q

Generate the complete JSON object based on this new request, taking the history and any provided style image into account.`, history, prompt)
}

// worker drains the task queue, recording each outcome in job storage.
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug().Int("worker_id", id).Msg("Generation worker started")

	for t := range s.queue {
		s.process(t)
	}

	s.logger.Debug().Int("worker_id", id).Msg("Generation worker stopping - queue closed")
}

// process runs one generation attempt to its terminal state. Failures are
// recorded into the job record, never returned to the submission path.
func (s *Service) process(t task) {
	logger := s.logger.WithCorrelationId(t.jobID)
	logger.Info().Msg("Processing generation job")

	payload, err := s.Generate(s.ctx, t.req)
	if err != nil {
		logger.Warn().Err(err).Msg("Generation job failed")

		if failErr := s.jobs.Fail(s.ctx, t.jobID, err.Error()); failErr != nil {
			logger.Error().Err(failErr).Msg("Failed to record job failure")
		}
		s.events.Publish(models.JobEvent{
			Type:   models.EventJobFailed,
			JobID:  t.jobID,
			Status: models.JobStatusError,
			Error:  err.Error(),
		})
		return
	}

	if err := s.jobs.Complete(s.ctx, t.jobID, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to record job completion")
		return
	}

	s.events.Publish(models.JobEvent{
		Type:   models.EventJobCompleted,
		JobID:  t.jobID,
		Status: models.JobStatusCompleted,
	})
	logger.Info().Msg("Generation job completed")
}
