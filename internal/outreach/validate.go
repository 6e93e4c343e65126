package outreach

import "applycraft-backend/internal/shared/textutil"

// Counts are per-document word counts.
type Counts struct {
	DM          int
	Email       int
	CoverLetter int
}

// CountWords counts whitespace-delimited tokens in each document.
func CountWords(d Draft) Counts {
	return Counts{
		DM:          textutil.WordCount(d.DM),
		Email:       textutil.WordCount(d.Email),
		CoverLetter: textutil.WordCount(d.CoverLetter),
	}
}

// Feedback explains why an attempt was rejected. It drives the retry prompt.
type Feedback struct {
	Counts      Counts
	TooShort    bool
	TooLong     bool
	Incomplete  bool
	Unparseable bool
}

// Accepted reports whether the attempt can be kept without a retry.
func (f Feedback) Accepted() bool {
	return !f.TooShort && !f.TooLong && !f.Incomplete && !f.Unparseable
}

// Reason phrases the rejection for the retry prompt and the logs.
func (f Feedback) Reason() string {
	switch {
	case f.Unparseable:
		return "not valid JSON"
	case f.TooShort && f.TooLong:
		return "too short in some documents and too long in others"
	case f.TooShort:
		return "too short"
	case f.TooLong:
		return "too long"
	case f.Incomplete:
		return "incomplete"
	default:
		return ""
	}
}

// Check evaluates a draft against the limits.
func (l Limits) Check(d Draft) Feedback {
	counts := CountWords(d)
	fb := Feedback{Counts: counts, Incomplete: !d.Complete()}
	for _, pair := range []struct {
		n int
		r Range
	}{
		{counts.DM, l.DM},
		{counts.Email, l.Email},
		{counts.CoverLetter, l.CoverLetter},
	} {
		if pair.n < pair.r.Min {
			fb.TooShort = true
		}
		if pair.n > pair.r.Max {
			fb.TooLong = true
		}
	}
	return fb
}

// unparseableFeedback is used when the first attempt produced no JSON object.
func unparseableFeedback() Feedback {
	return Feedback{Unparseable: true, Incomplete: true}
}
