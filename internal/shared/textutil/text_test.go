package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampCountsCodePoints(t *testing.T) {
	assert.Equal(t, "héll", Clamp("héllo", 4))
	assert.Equal(t, "abc", Clamp("abc", 10))
	assert.Equal(t, "", Clamp("abc", 0))
}

func TestClampNormalizesDecomposedInput(t *testing.T) {
	// "e" + combining acute composes to a single code point under NFC.
	got := Clamp("e\u0301x", 1)
	assert.Equal(t, "\u00e9", got)
}

func TestClampTrimmed(t *testing.T) {
	assert.Equal(t, "Acme", ClampTrimmed("   Acme Corp  ", 4))
}

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                     0,
		"   ":                  0,
		"one":                  1,
		"one two\tthree\nfour": 4,
		"  spaced   out  ":     2,
	}
	for in, want := range cases {
		assert.Equal(t, want, WordCount(in), "input %q", in)
	}
}

func TestCollapseSpace(t *testing.T) {
	in := "  Senior   Engineer \n\n\n  Build   things\r\nfast  "
	assert.Equal(t, "Senior Engineer\n\nBuild things\nfast", CollapseSpace(in))
}
