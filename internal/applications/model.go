package applications

import (
	"time"

	"applycraft-backend/internal/shared/textutil"
)

// Field caps for stored applications.
const (
	MaxCompanyChars        = 200
	MaxRoleTitleChars      = 200
	MaxLocationChars       = 200
	MaxJobDescriptionChars = 20000
	MaxJobURLChars         = 2048

	DefaultListLimit = 20
	MaxListLimit     = 50
	MaxQueryChars    = 200
)

// Outreach holds the last accepted draft for an application.
type Outreach struct {
	DM          string `json:"dm"`
	Email       string `json:"email"`
	CoverLetter string `json:"coverLetter"`
}

// Empty reports whether no draft has been saved yet.
func (o Outreach) Empty() bool {
	return o.DM == "" && o.Email == "" && o.CoverLetter == ""
}

// Application is one tracked job application.
type Application struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Company        string    `json:"company"`
	RoleTitle      string    `json:"roleTitle"`
	Location       string    `json:"location"`
	Status         Status    `json:"status"`
	JobDescription string    `json:"jobDescription"`
	JobURL         string    `json:"jobUrl"`
	Outreach       Outreach  `json:"outreach"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateInput is the body of POST /applications.
type CreateInput struct {
	Company        string `json:"company" validate:"required,max=200"`
	RoleTitle      string `json:"roleTitle" validate:"required,max=200"`
	Location       string `json:"location" validate:"max=200"`
	Status         string `json:"status"`
	JobDescription string `json:"jobDescription" validate:"max=20000"`
	JobURL         string `json:"jobUrl" validate:"omitempty,url,max=2048"`
}

// UpdateInput is the body of PATCH /applications/:id. Nil fields are left alone.
type UpdateInput struct {
	Company        *string `json:"company" validate:"omitempty,min=1,max=200"`
	RoleTitle      *string `json:"roleTitle" validate:"omitempty,min=1,max=200"`
	Location       *string `json:"location" validate:"omitempty,max=200"`
	JobDescription *string `json:"jobDescription" validate:"omitempty,max=20000"`
	JobURL         *string `json:"jobUrl" validate:"omitempty,max=2048"`
}

// ImportInput is the body of POST /applications/import.
type ImportInput struct {
	URL    string `json:"url" validate:"required,url,max=2048"`
	Status string `json:"status"`
}

// ListFilter narrows a listing. A zero Status means all statuses. Query is a
// case-insensitive substring matched against company and role title.
type ListFilter struct {
	Status Status
	Query  string
	Limit  int
	Offset int
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = textutil.ClampTrimmed(f.Query, MaxQueryChars)
	return f
}
