package llm

import (
	"errors"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
)

func newTestFactory(defaultProvider common.LLMProvider, geminiKey, claudeKey string) *Factory {
	return NewFactory(
		&common.GeminiConfig{APIKey: geminiKey, Model: "gemini-2.5-pro", Timeout: "5m", RateLimit: "4s"},
		&common.ClaudeConfig{APIKey: claudeKey, Model: "claude-sonnet-4-20250514", MaxTokens: 16384, Timeout: "5m", RateLimit: "1s"},
		&common.LLMConfig{DefaultProvider: defaultProvider},
		arbor.NewLogger(),
	)
}

func TestDetectProvider(t *testing.T) {
	f := newTestFactory(common.LLMProviderGemini, "key", "key")

	tests := []struct {
		model string
		want  ProviderType
	}{
		{"", ProviderGemini},
		{"gemini-2.5-pro", ProviderGemini},
		{"gemini/gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
		{"claude-sonnet-4-20250514", ProviderClaude},
		{"claude/claude-opus-4", ProviderClaude},
		{"anthropic/claude-sonnet-4", ProviderClaude},
		{"unknown-model", ProviderGemini}, // falls through to default
	}

	for _, tt := range tests {
		if got := f.DetectProvider(tt.model); got != tt.want {
			t.Errorf("DetectProvider(%q) = %s, want %s", tt.model, got, tt.want)
		}
	}
}

func TestDetectProviderClaudeDefault(t *testing.T) {
	f := newTestFactory(common.LLMProviderClaude, "key", "key")
	if got := f.DetectProvider(""); got != ProviderClaude {
		t.Errorf("DetectProvider(\"\") = %s, want claude", got)
	}
}

func TestNormalizeModel(t *testing.T) {
	f := newTestFactory(common.LLMProviderGemini, "key", "key")

	tests := []struct {
		model string
		want  string
	}{
		{"gemini/gemini-2.5-pro", "gemini-2.5-pro"},
		{"claude/claude-opus-4", "claude-opus-4"},
		{"anthropic/claude-sonnet-4", "claude-sonnet-4"},
		{"gemini-2.5-pro", "gemini-2.5-pro"},
	}

	for _, tt := range tests {
		if got := f.NormalizeModel(tt.model); got != tt.want {
			t.Errorf("NormalizeModel(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	if got := newTestFactory(common.LLMProviderGemini, "k", "k").DefaultModel(); got != "gemini-2.5-pro" {
		t.Errorf("gemini default model = %q", got)
	}
	if got := newTestFactory(common.LLMProviderClaude, "k", "k").DefaultModel(); got != "claude-sonnet-4-20250514" {
		t.Errorf("claude default model = %q", got)
	}
}

func TestCheckCredentials(t *testing.T) {
	if err := newTestFactory(common.LLMProviderGemini, "key", "").CheckCredentials(); err != nil {
		t.Errorf("unexpected error with gemini key set: %v", err)
	}

	err := newTestFactory(common.LLMProviderGemini, "", "key").CheckCredentials()
	if !errors.Is(err, interfaces.ErrMisconfiguration) {
		t.Errorf("expected ErrMisconfiguration, got %v", err)
	}

	err = newTestFactory(common.LLMProviderClaude, "key", "").CheckCredentials()
	if !errors.Is(err, interfaces.ErrMisconfiguration) {
		t.Errorf("expected ErrMisconfiguration for claude without key, got %v", err)
	}
}

func TestConcurrentClientInit(t *testing.T) {
	// The factory is shared by the whole worker pool, so first-use client
	// creation must be safe when several workers hit it at once.
	f := newTestFactory(common.LLMProviderClaude, "key", "key")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.getClaudeClient(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.claudeReady {
		t.Error("claude client was not initialized")
	}
}
