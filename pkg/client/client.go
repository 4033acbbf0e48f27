// Package client provides a Go client for the Motif generation API,
// including the polling loop that recovers results from async submissions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Polling schedule: the first poll is quick because short generations
// finish fast, then the interval backs off to the steady rate. With 60
// attempts the poller gives up after roughly five minutes.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 60
)

// ErrPollTimeout is returned when the job did not reach a terminal state
// within the attempt budget.
var ErrPollTimeout = errors.New("polling attempts exhausted before job completed")

// Client talks to a Motif server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	initialDelay time.Duration
	pollInterval time.Duration
	maxAttempts  int

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollSchedule overrides the polling cadence.
func WithPollSchedule(initialDelay, interval time.Duration, maxAttempts int) Option {
	return func(c *Client) {
		c.initialDelay = initialDelay
		c.pollInterval = interval
		c.maxAttempts = maxAttempts
	}
}

// New creates a new client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		initialDelay: DefaultInitialDelay,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Submit posts a generation request and returns the accepted job id.
func (c *Client) Submit(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("submission rejected: %s", readErrorBody(resp))
	}

	var accepted GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return "", fmt.Errorf("failed to decode submission response: %w", err)
	}
	return accepted.JobID, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (*StatusResponse, error) {
	u := fmt.Sprintf("%s/api/status?jobId=%s", c.baseURL, url.QueryEscape(jobID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("status poll failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("job %s not found or expired", jobID)
	default:
		return nil, fmt.Errorf("status poll failed: %s", readErrorBody(resp))
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// Wait polls until the job reaches a terminal state or the attempt budget
// runs out. A job that completed with an error is returned as a Go error
// carrying the server-side message.
func (c *Client) Wait(ctx context.Context, jobID string) (*AnimationPayload, error) {
	if err := c.sleep(ctx, c.initialDelay); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.pollInterval); err != nil {
				return nil, err
			}
		}

		status, err := c.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case StatusCompleted:
			return status.Result, nil
		case StatusError:
			return nil, fmt.Errorf("generation failed: %s", status.Error)
		}
	}

	return nil, ErrPollTimeout
}

// Generate submits a request and waits for its result.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*AnimationPayload, error) {
	jobID, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Wait(ctx, jobID)
}

func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return string(data)
}
