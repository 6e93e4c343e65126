package applications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusIgnoresCaseAndSpace(t *testing.T) {
	st, err := ParseStatus("  Interviewing ")
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewing, st)

	_, err = ParseStatus("hired")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusSaved, StatusApplied, true},
		{StatusSaved, StatusOffer, true},
		{StatusApplied, StatusInterviewing, true},
		{StatusInterviewing, StatusRejected, true},
		{StatusSaved, StatusRejected, true},
		{StatusApplied, StatusSaved, false},
		{StatusInterviewing, StatusApplied, false},
		{StatusOffer, StatusRejected, false},
		{StatusRejected, StatusApplied, false},
		{StatusOffer, StatusOffer, true},
		{StatusRejected, StatusRejected, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
