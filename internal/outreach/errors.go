package outreach

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the request has no job id.
	ErrInvalidInput = errors.New("missing required field: jobId")
	// ErrAccessDenied covers jobs that do not exist or belong to someone else.
	ErrAccessDenied = errors.New("job not found or access denied")
	// ErrJobLoad wraps store failures while reading the job.
	ErrJobLoad = errors.New("failed to read job")
	// ErrIncompleteOutput is returned when a document is still empty after the retry.
	ErrIncompleteOutput = errors.New("AI output incomplete")
	// ErrCanceled is returned when the caller went away mid-generation.
	ErrCanceled = errors.New("generation canceled")
)

// ProviderError is a failed or timed out completion call.
type ProviderError struct {
	Timeout bool
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("completion provider timeout: %v", e.Err)
	}
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError means no JSON object could be recovered from the model output.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model output: %s: %v", e.Reason, e.Err)
	}
	return "parse model output: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError means the draft was generated but could not be saved.
// Draft is still valid and is returned to the caller.
type PersistenceError struct {
	Draft Draft
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save outreach draft: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
