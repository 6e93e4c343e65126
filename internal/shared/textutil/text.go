package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clamp NFC-normalizes s and truncates it to at most n code points.
func Clamp(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = norm.NFC.String(s)
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ClampTrimmed trims surrounding whitespace and then clamps.
func ClampTrimmed(s string, n int) string {
	return Clamp(strings.TrimSpace(s), n)
}

// WordCount returns the number of whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CollapseSpace replaces runs of whitespace with a single space, keeping
// paragraph breaks as a blank line.
func CollapseSpace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
