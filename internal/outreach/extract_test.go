package outreach

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedObject(t *testing.T) {
	d, err := Extract("here you go ```json\n{\"dm\":\"a\",\"email\":\"b\",\"coverLetter\":\"c\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, Draft{DM: "a", Email: "b", CoverLetter: "c"}, d)
}

func TestExtractFenceIsCaseInsensitive(t *testing.T) {
	d, err := Extract("```JSON\n{\"dm\":\" a \",\"email\":\"b\",\"coverLetter\":\"c\"}```")
	require.NoError(t, err)
	assert.Equal(t, "a", d.DM)
}

func TestExtractIgnoresSurroundingText(t *testing.T) {
	d, err := Extract("Sure! {\"dm\":\"x\",\"email\":\"y\",\"coverLetter\":\"z\"} Hope that helps.")
	require.NoError(t, err)
	assert.Equal(t, Draft{DM: "x", Email: "y", CoverLetter: "z"}, d)
}

func TestExtractFailures(t *testing.T) {
	cases := map[string]string{
		"no opening brace": "no json here }",
		"no closing brace": "{\"dm\":\"a\"",
		"closing first":    "} then {",
		"malformed":        "{\"dm\": oops}",
		"two objects":      "{\"dm\":\"a\"} and {\"email\":\"b\"}",
		"empty":            "",
		"only fence":       "```json```",
		"brace in prose":   "I {think} this is fine",
		"extra brace":      "{\"dm\":\"a\",\"email\":\"b\",\"coverLetter\":\"c\"}}",
		"stray bracket":    "{\"dm\":\"a\",\"email\":\"b\",\"coverLetter\":\"c\"} ]}",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(input)
			var perr *ParseError
			require.Error(t, err)
			assert.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
		})
	}
}

func TestExtractCoercesUntrustedFields(t *testing.T) {
	d, err := Extract(`{"dm": 42, "email": {"nested": true}, "coverLetter": null, "extra": "ignored"}`)
	require.NoError(t, err)
	assert.Equal(t, "42", d.DM)
	assert.Equal(t, "", d.Email)
	assert.Equal(t, "", d.CoverLetter)

	d, err = Extract(`{"dm": true, "email": ["a"]}`)
	require.NoError(t, err)
	assert.Equal(t, "true", d.DM)
	assert.Equal(t, "", d.Email)
	assert.Equal(t, "", d.CoverLetter)
}
