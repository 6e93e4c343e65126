package notes

import (
	"errors"
	"time"
)

const MaxContentChars = 2000

var (
	ErrNotFound   = errors.New("note not found")
	ErrValidation = errors.New("invalid note")
)

// Note is a free-form comment on one application.
type Note struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	UserID        string    `json:"userId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}
