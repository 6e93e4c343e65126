package applications

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrForbidden         = errors.New("application belongs to another user")
	ErrValidation        = errors.New("invalid application")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrImportIncomplete  = errors.New("job posting is missing a title")
)
