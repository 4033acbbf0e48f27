package interfaces

import "errors"

// Sentinel errors for the generation job lifecycle. Handlers match these
// with errors.Is to choose the HTTP status; services wrap them with
// fmt.Errorf("...: %w", err) to add context.
var (
	// ErrMissingPrompt indicates a submission without a prompt (user error).
	ErrMissingPrompt = errors.New("prompt is required")

	// ErrMissingIdentifier indicates a status/result query without an id (user error).
	ErrMissingIdentifier = errors.New("identifier is required")

	// ErrMisconfiguration indicates an absent provider credential or other
	// operator-side configuration failure.
	ErrMisconfiguration = errors.New("service is not configured")

	// ErrInvalidImageFormat indicates a style image that is not a valid
	// base64 data URI. Checked before any provider call is made.
	ErrInvalidImageFormat = errors.New("invalid image format")

	// ErrNoJSONFound indicates provider output with no JSON object to extract.
	ErrNoJSONFound = errors.New("no JSON object found in provider response")

	// ErrMalformedPayload indicates an extracted JSON block that failed
	// strict parsing or the html/css/js field contract.
	ErrMalformedPayload = errors.New("malformed generation payload")

	// ErrProviderFailure indicates a network or provider-side failure.
	ErrProviderFailure = errors.New("provider call failed")

	// ErrNotFound indicates an unknown or already-swept identifier. A job
	// that never existed and a job evicted by retention are indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates a create for an id that is already present.
	// Given the id generation scheme this is an internal invariant violation,
	// not a user-facing condition.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrQueueFull indicates the generation worker pool queue is saturated.
	ErrQueueFull = errors.New("generation queue is full")
)
