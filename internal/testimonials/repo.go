package testimonials

import "context"

type Repo interface {
	// Create fails with ErrAlreadySubmitted when the user already has one.
	Create(ctx context.Context, t Testimonial) error
	// ListPublic returns approved, public testimonials newest first.
	ListPublic(ctx context.Context, limit int) ([]Testimonial, error)
}
