package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"applycraft-backend/internal/llm"
	"applycraft-backend/internal/shared/metrics"
	"applycraft-backend/internal/shared/telemetry"
)

const (
	// PrimaryTemperature is used on the first attempt.
	PrimaryTemperature = 0.35
	// RetryTemperature is lower so the retry sticks closer to the instructions.
	RetryTemperature = 0.30
	// DefaultProviderTimeout bounds each completion call.
	DefaultProviderTimeout = 45 * time.Second
)

// ApplicationStore is the slice of the applications store a generation needs.
// LoadJob must return ErrAccessDenied when the job is missing or not owned by userID.
type ApplicationStore interface {
	LoadJob(ctx context.Context, userID, jobID string) (JobContext, error)
	SaveDraft(ctx context.Context, userID, jobID string, draft Draft) error
}

// Request is one generation for an authenticated user.
type Request struct {
	UserID  string
	JobID   string
	Profile ProfileContext
}

// Result describes a finished generation. Attempts is set even on failure.
type Result struct {
	Draft    Draft
	Counts   Counts
	Attempts int
}

// Generator turns a job and profile into outreach drafts. It keeps no
// per-request state and is safe for concurrent use.
type Generator struct {
	Store           ApplicationStore
	LLM             llm.PromptClient
	Limits          Limits
	ProviderTimeout time.Duration
}

// NewGenerator wires a Generator with the default limits.
func NewGenerator(store ApplicationStore, client llm.PromptClient, providerTimeout time.Duration) *Generator {
	return &Generator{
		Store:           store,
		LLM:             client,
		Limits:          DefaultLimits,
		ProviderTimeout: providerTimeout,
	}
}

// Generate runs the ownership check, one primary attempt, at most one retry
// and persistence, in that order.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	var res Result
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return res, ErrInvalidInput
	}

	job, err := g.Store.LoadJob(ctx, req.UserID, jobID)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return res, err
		}
		return res, fmt.Errorf("%w: %v", ErrJobLoad, err)
	}

	metrics.IncOutreachStarted()
	started := time.Now()
	defer func() {
		metrics.ObserveOutreachDuration(time.Since(started))
	}()

	draft, attempts, err := g.draft(ctx, jobID, job, req.Profile)
	res.Attempts = attempts
	if err != nil {
		metrics.IncOutreachFailed()
		return res, err
	}
	res.Draft = draft
	res.Counts = CountWords(draft)

	if err := ctx.Err(); err != nil {
		metrics.IncOutreachFailed()
		return res, fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	if err := g.Store.SaveDraft(ctx, req.UserID, jobID, draft); err != nil {
		metrics.IncOutreachFailed()
		return res, &PersistenceError{Draft: draft, Err: err}
	}

	metrics.IncOutreachAccepted()
	telemetry.Info("outreach.accepted", map[string]any{
		"job_id":      jobID,
		"attempts":    attempts,
		"dm_words":    res.Counts.DM,
		"email_words": res.Counts.Email,
		"cover_words": res.Counts.CoverLetter,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return res, nil
}

func (g *Generator) draft(ctx context.Context, jobID string, job JobContext, profile ProfileContext) (Draft, int, error) {
	limits := g.limits()
	prompt := BuildPrompt(job, profile, limits)

	raw, err := g.complete(ctx, prompt, PrimaryTemperature)
	if err != nil {
		return Draft{}, 1, err
	}

	var fb Feedback
	draft, err := Extract(raw)
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			return Draft{}, 1, err
		}
		fb = unparseableFeedback()
	} else {
		fb = limits.Check(draft)
		if fb.Accepted() {
			return draft, 1, nil
		}
	}

	metrics.IncOutreachRetried()
	telemetry.Warn("outreach.retry", map[string]any{
		"job_id":      jobID,
		"reason":      fb.Reason(),
		"dm_words":    fb.Counts.DM,
		"email_words": fb.Counts.Email,
		"cover_words": fb.Counts.CoverLetter,
	})

	retryPrompt := BuildRetryPrompt(prompt, fb, limits, profile.Sanitize().DisplayName())
	raw, err = g.complete(ctx, retryPrompt, RetryTemperature)
	if err != nil {
		return Draft{}, 2, err
	}
	draft, err = Extract(raw)
	if err != nil {
		return Draft{}, 2, err
	}
	if !draft.Complete() {
		return Draft{}, 2, ErrIncompleteOutput
	}
	if final := limits.Check(draft); !final.Accepted() {
		telemetry.Info("outreach.accepted_out_of_range", map[string]any{
			"job_id":      jobID,
			"reason":      final.Reason(),
			"dm_words":    final.Counts.DM,
			"email_words": final.Counts.Email,
			"cover_words": final.Counts.CoverLetter,
		})
	}
	return draft, 2, nil
}

// complete runs one provider call under its own deadline. A cancelled parent
// context wins over whatever the provider returned.
func (g *Generator) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.providerTimeout())
	defer cancel()

	raw, err := g.LLM.Complete(callCtx, llm.Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: temperature,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %v", ErrCanceled, ctxErr)
	}
	if err != nil {
		timeout := errors.Is(err, llm.ErrTimeout) || errors.Is(callCtx.Err(), context.DeadlineExceeded)
		return "", &ProviderError{Timeout: timeout, Err: err}
	}
	return raw, nil
}

func (g *Generator) limits() Limits {
	if g.Limits == (Limits{}) {
		return DefaultLimits
	}
	return g.Limits
}

func (g *Generator) providerTimeout() time.Duration {
	if g.ProviderTimeout <= 0 {
		return DefaultProviderTimeout
	}
	return g.ProviderTimeout
}
