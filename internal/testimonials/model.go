package testimonials

import (
	"errors"
	"time"
)

// PublicLimit caps the public wall.
const PublicLimit = 8

// AnonymousAuthor is shown when the author has no profile name.
const AnonymousAuthor = "Anonymous"

var (
	ErrAlreadySubmitted = errors.New("testimonial already submitted")
	ErrValidation       = errors.New("invalid testimonial")
)

type Testimonial struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Rating      int       `json:"rating"`
	Feedback    string    `json:"feedback"`
	AllowPublic bool      `json:"allowPublic"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PublicEntry is what anonymous visitors see.
type PublicEntry struct {
	ID             string    `json:"id"`
	Rating         int       `json:"rating"`
	Feedback       string    `json:"feedback"`
	AuthorName     string    `json:"authorName"`
	AuthorHeadline string    `json:"authorHeadline,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type SubmitInput struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback    string `json:"feedback" validate:"required,max=800"`
	AllowPublic bool   `json:"allowPublic"`
}
