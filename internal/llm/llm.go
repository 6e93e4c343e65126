package llm

import (
	"context"
	"errors"
)

// Request is one chat completion call. System is optional.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
}

// PromptClient returns the raw text a model produced for a request.
type PromptClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrTimeout marks a completion that exceeded its deadline.
var ErrTimeout = errors.New("completion timed out")

// ErrNotConfigured is returned by DisabledClient.
var ErrNotConfigured = errors.New("LLM provider not configured")

// DisabledClient is used when no API key is configured so the API can still boot.
type DisabledClient struct{}

// Complete returns ErrNotConfigured.
func (DisabledClient) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
