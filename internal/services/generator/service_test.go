package generator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
	"github.com/ternarybob/motif/internal/services/events"
	"github.com/ternarybob/motif/internal/services/llm"
	"github.com/ternarybob/motif/internal/storage/memory"
)

// stubProvider implements llm.Provider for testing
type stubProvider struct {
	mu        sync.Mutex
	calls     int32
	lastReq   *llm.ContentRequest
	response  string
	err       error
	credsErr  error
}

func (s *stubProvider) GenerateContent(ctx context.Context, req *llm.ContentRequest) (*llm.ContentResponse, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return &llm.ContentResponse{
		Text:     s.response,
		Provider: llm.ProviderGemini,
		Model:    "test-model",
	}, nil
}

func (s *stubProvider) CheckCredentials() error { return s.credsErr }
func (s *stubProvider) Close() error            { return nil }

func (s *stubProvider) callCount() int32 {
	return atomic.LoadInt32(&s.calls)
}

func (s *stubProvider) request() *llm.ContentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

const validResponse = `{"html":"<div id=\"scene\"></div>","css":"#scene{width:100%}","js":"// animation"}`

func newTestService(t *testing.T, provider *stubProvider) (*Service, interfaces.JobStorage) {
	t.Helper()

	logger := arbor.NewLogger()
	registryCfg := &common.RegistryConfig{
		MaxJobAge:          10 * time.Minute,
		CompletedRetention: 5 * time.Minute,
		ResultIdleAge:      10 * time.Minute,
	}
	jobs := memory.NewJobStorage(registryCfg, logger)

	svc := NewService(
		provider,
		jobs,
		events.NewService(logger),
		&common.WorkersConfig{Concurrency: 2, QueueSize: 4},
		logger,
	)
	return svc, jobs
}

func TestGenerate(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)

	payload, err := svc.Generate(context.Background(), models.GenerateRequest{
		Prompt:  "a bouncing ball",
		History: "user: make it red",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.HTML == "" || payload.CSS == "" || payload.JS == "" {
		t.Errorf("incomplete payload: %+v", payload)
	}

	req := provider.request()
	if req.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", req.Temperature)
	}
	if !req.ResponseJSON {
		t.Error("expected JSON response mode")
	}
	if !strings.Contains(req.Prompt, "user: make it red") {
		t.Error("history missing from assembled prompt")
	}
	if !strings.Contains(req.Prompt, `"a bouncing ball"`) {
		t.Error("quoted request missing from assembled prompt")
	}
}

func TestGenerateEmptyHistoryPlaceholder(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)

	if _, err := svc.Generate(context.Background(), models.GenerateRequest{Prompt: "spin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(provider.request().Prompt, "No history yet.") {
		t.Error("expected history placeholder in assembled prompt")
	}
}

func TestGenerateMissingPrompt(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)

	_, err := svc.Generate(context.Background(), models.GenerateRequest{})
	if !errors.Is(err, interfaces.ErrMissingPrompt) {
		t.Fatalf("expected ErrMissingPrompt, got %v", err)
	}
	if provider.callCount() != 0 {
		t.Error("provider should not be called for empty prompt")
	}
}

func TestGenerateInvalidImageSkipsProvider(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)

	_, err := svc.Generate(context.Background(), models.GenerateRequest{
		Prompt:     "a wave",
		StyleImage: "not-a-data-uri",
	})
	if !errors.Is(err, interfaces.ErrInvalidImageFormat) {
		t.Fatalf("expected ErrInvalidImageFormat, got %v", err)
	}
	if provider.callCount() != 0 {
		t.Error("provider must not be called when the image fails validation")
	}
}

func TestGenerateStyleImageForwarded(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)

	uri := "data:image/jpeg;base64,aGVsbG8="
	if _, err := svc.Generate(context.Background(), models.GenerateRequest{Prompt: "x", StyleImage: uri}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := provider.request()
	if req.Image == nil || req.Image.MIMEType != "image/jpeg" {
		t.Fatalf("image not forwarded to provider: %+v", req.Image)
	}
	if !strings.Contains(req.SystemInstruction, "style") && !strings.Contains(req.SystemInstruction, "image") {
		t.Error("system instruction missing style-image addendum")
	}
}

func TestGenerateProviderError(t *testing.T) {
	provider := &stubProvider{err: interfaces.ErrProviderFailure}
	svc, _ := newTestService(t, provider)

	_, err := svc.Generate(context.Background(), models.GenerateRequest{Prompt: "x"})
	if !errors.Is(err, interfaces.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	// No retries on provider failure.
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", provider.callCount())
	}
}

func TestEnqueueProcessesJob(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, jobs := newTestService(t, provider)

	svc.Start()
	defer svc.Stop()

	ctx := context.Background()
	job := models.NewJob("job_test_1", "a pulse")
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := svc.Enqueue(job.ID, models.GenerateRequest{Prompt: "a pulse"}); err != nil {
		t.Fatal(err)
	}

	waitForTerminal(t, jobs, job.ID)

	got, err := jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.JobStatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", got.Status, got.Error)
	}
	if got.Result == nil || got.Result.HTML == "" {
		t.Error("completed job missing result payload")
	}
	if got.CompletedAt == nil {
		t.Error("completed job missing completion timestamp")
	}
}

func TestEnqueueRecordsFailure(t *testing.T) {
	provider := &stubProvider{response: "no json here at all"}
	svc, jobs := newTestService(t, provider)

	svc.Start()
	defer svc.Stop()

	ctx := context.Background()
	job := models.NewJob("job_test_2", "a wobble")
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := svc.Enqueue(job.ID, models.GenerateRequest{Prompt: "a wobble"}); err != nil {
		t.Fatal(err)
	}

	waitForTerminal(t, jobs, job.ID)

	got, err := jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.JobStatusError {
		t.Fatalf("status = %s, want error", got.Status)
	}
	if got.Error == "" {
		t.Error("failed job missing error message")
	}
	if got.Result != nil {
		t.Error("failed job should not carry a result")
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	provider := &stubProvider{response: validResponse}
	svc, _ := newTestService(t, provider)
	// Pool never started, so the queue only drains on capacity.

	var err error
	for i := 0; i < 10; i++ {
		err = svc.Enqueue("job_overflow", models.GenerateRequest{Prompt: "x"})
		if err != nil {
			break
		}
	}
	if !errors.Is(err, interfaces.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func waitForTerminal(t *testing.T, jobs interfaces.JobStorage, jobID string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := jobs.Get(context.Background(), jobID)
		if err == nil && job.IsTerminal() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state in time")
}
