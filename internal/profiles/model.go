package profiles

import (
	"errors"
	"time"
)

const (
	MaxSkills        = 30
	MaxSkillChars    = 60
	MaxHeadlineChars = 200
	MaxSummaryChars  = 2000
	MaxFullNameChars = 140
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrValidation = errors.New("invalid profile")
)

// Profile is the candidate information drafts are written from.
type Profile struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Headline  string    `json:"headline"`
	Summary   string    `json:"summary"`
	Skills    []string  `json:"skills"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateInput is the body of PUT /profile.
type UpdateInput struct {
	FullName string   `json:"fullName" validate:"max=140"`
	Headline string   `json:"headline" validate:"max=200"`
	Summary  string   `json:"summary" validate:"max=2000"`
	Skills   []string `json:"skills" validate:"max=30,dive,max=60"`
}
