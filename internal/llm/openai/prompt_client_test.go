package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"applycraft-backend/internal/llm"
)

func newTestClient(t *testing.T, url, model string, timeout time.Duration) *PromptClient {
	t.Helper()
	client, err := NewPromptClient(Options{APIKey: "test-key", BaseURL: url, Model: model, Timeout: timeout})
	if err != nil {
		t.Fatalf("NewPromptClient: %v", err)
	}
	return client
}

func TestCompleteSendsSystemPromptAndTemperature(t *testing.T) {
	var mu sync.Mutex
	var got map[string]any
	var path, auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		got = payload
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"dm\":\"hi\"}  "}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/", "llama-3.3-70b-versatile", time.Second)
	out, err := client.Complete(context.Background(), llm.Request{System: "sys", Prompt: "write", Temperature: 0.35})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"dm":"hi"}` {
		t.Fatalf("unexpected output %q", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if path != "/chat/completions" {
		t.Fatalf("unexpected path %q", path)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got["temperature"] != 0.35 {
		t.Fatalf("expected temperature 0.35, got %v", got["temperature"])
	}
	messages, _ := got["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "sys" {
		t.Fatalf("unexpected first message %v", first)
	}
}

func TestCompleteOmitsTemperatureForGPT5(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "gpt-5-mini", time.Second)
	if _, err := client.Complete(context.Background(), llm.Request{Prompt: "p", Temperature: 0.3}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := got["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestCompleteSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "llama-3.3-70b-versatile", time.Second)
	_, err := client.Complete(context.Background(), llm.Request{Prompt: "p"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("provider error must not be tagged as timeout")
	}
}

func TestCompleteTagsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, "llama-3.3-70b-versatile", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, llm.Request{Prompt: "p"})
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestNewPromptClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewPromptClient(Options{Model: "m"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewPromptClient(Options{APIKey: "k"}); err == nil {
		t.Fatalf("expected missing model error")
	}
}
