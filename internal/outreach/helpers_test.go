package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"applycraft-backend/internal/llm"
)

type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     []llm.Request
	block     bool
	onCall    func(n int)
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(n)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if n < len(f.errs) && f.errs[n] != nil {
		return "", f.errs[n]
	}
	if n < len(f.responses) {
		return f.responses[n], nil
	}
	return "", errors.New("unexpected completion call")
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLLM) call(i int) llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type ownedJob struct {
	owner string
	job   JobContext
}

type fakeStore struct {
	mu      sync.Mutex
	jobs    map[string]ownedJob
	saved   map[string]Draft
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs: map[string]ownedJob{
			"job-1": {owner: "user-1", job: JobContext{ID: "job-1", Company: "Acme", RoleTitle: "Engineer", JobDescription: "Build things"}},
		},
		saved: map[string]Draft{},
	}
}

func (s *fakeStore) LoadJob(ctx context.Context, userID, jobID string) (JobContext, error) {
	if s.loadErr != nil {
		return JobContext{}, s.loadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[jobID]
	if !ok || rec.owner != userID {
		return JobContext{}, ErrAccessDenied
	}
	return rec.job, nil
}

func (s *fakeStore) SaveDraft(ctx context.Context, userID, jobID string, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[jobID] = draft
	return nil
}

// words returns a text of exactly n whitespace-delimited tokens ending with sig.
func words(n int, sig string) string {
	sigWords := len(strings.Fields(sig))
	if n <= sigWords {
		return sig
	}
	return strings.Repeat("word ", n-sigWords) + sig
}

func draftJSON(t *testing.T, d Draft) string {
	t.Helper()
	payload, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal draft: %v", err)
	}
	return string(payload)
}

func inRangeDraft(sig string) Draft {
	return Draft{
		DM:          words(100, sig),
		Email:       words(240, sig),
		CoverLetter: words(350, sig),
	}
}
