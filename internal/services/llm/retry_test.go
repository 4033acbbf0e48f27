package llm

import (
	"errors"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 status", errors.New("googleapi: Error 429: Quota exceeded"), true},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{"quota message", errors.New("quota exceeded for model"), true},
		{"server error", errors.New("500 internal error"), false},
		{"auth error", errors.New("401 unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil", nil, 0},
		{"please retry form", errors.New("429: Please retry in 27s"), 27 * time.Second},
		{"retryDelay form", errors.New("retryDelay: 40s"), 40 * time.Second},
		{"fractional seconds", errors.New("Please retry in 2.5s"), 2500 * time.Millisecond},
		{"no delay present", errors.New("429 too many requests"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRetryDelay(tt.err); got != tt.want {
				t.Errorf("ExtractRetryDelay(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	if got := cfg.CalculateBackoff(0, 0); got != 30*time.Second {
		t.Errorf("attempt 0 = %v, want 30s", got)
	}
	if got := cfg.CalculateBackoff(1, 0); got != 45*time.Second {
		t.Errorf("attempt 1 = %v, want 45s", got)
	}
	// Growth is capped at MaxBackoff.
	if got := cfg.CalculateBackoff(10, 0); got != cfg.MaxBackoff {
		t.Errorf("attempt 10 = %v, want %v", got, cfg.MaxBackoff)
	}
	// API-suggested delay plus buffer takes precedence over the default base.
	if got := cfg.CalculateBackoff(0, 20*time.Second); got != 25*time.Second {
		t.Errorf("api delay = %v, want 25s", got)
	}
}
