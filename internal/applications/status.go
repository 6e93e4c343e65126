package applications

import (
	"fmt"
	"strings"
)

// Status is the pipeline stage of an application.
//
//	saved ──► applied ──► interviewing ──► offer
//	  │          │             │
//	  └──────────┴─────────────┴──► rejected
//
// Forward moves may skip stages. offer and rejected are terminal.
type Status string

const (
	StatusSaved        Status = "saved"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

var pipelineRank = map[Status]int{
	StatusSaved:        0,
	StatusApplied:      1,
	StatusInterviewing: 2,
	StatusOffer:        3,
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch st {
	case StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Terminal reports whether no further moves are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusOffer || s == StatusRejected
}

// CanTransition reports whether an application may move from one status to
// another. Staying put is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusRejected {
		return true
	}
	fromRank, ok := pipelineRank[from]
	if !ok {
		return false
	}
	toRank, ok := pipelineRank[to]
	return ok && toRank > fromRank
}
