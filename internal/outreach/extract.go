package outreach

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var jsonFence = regexp.MustCompile("(?i)```json")

// Extract recovers the draft object from raw model output. Code fences are
// removed, then the text from the first '{' to the last '}' is parsed. There
// is no brace balancing, so stray braces around the object break extraction.
func Extract(raw string) (Draft, error) {
	s := jsonFence.ReplaceAllString(raw, "```")
	s = strings.TrimSpace(strings.ReplaceAll(s, "```", ""))

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	switch {
	case first == -1:
		return Draft{}, &ParseError{Reason: "no opening brace"}
	case last == -1:
		return Draft{}, &ParseError{Reason: "no closing brace"}
	case last <= first:
		return Draft{}, &ParseError{Reason: "closing brace before opening brace"}
	}

	dec := json.NewDecoder(strings.NewReader(s[first : last+1]))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Draft{}, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after object")
		}
		return Draft{}, &ParseError{Reason: "malformed JSON", Err: err}
	}

	return Draft{
		DM:          coerceString(fields["dm"]),
		Email:       coerceString(fields["email"]),
		CoverLetter: coerceString(fields["coverLetter"]),
	}, nil
}

// coerceString treats model output as untrusted. Scalars become text,
// anything else becomes empty.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}
