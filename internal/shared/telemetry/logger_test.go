package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteEmitsJSONLineWithFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("outreach.retry", map[string]any{
		"job_id": "job-1",
		"err":    errors.New("boom"),
		"level":  "overridden?",
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["msg"] != "outreach.retry" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "warn" {
		t.Fatalf("reserved level must not be overridden, got %v", payload["level"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", payload["err"])
	}
	if payload["job_id"] != "job-1" {
		t.Fatalf("unexpected job_id: %v", payload["job_id"])
	}
}
