package testimonials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, t Testimonial) error {
	const query = `
INSERT INTO testimonials (id, user_id, rating, feedback, allow_public, approved, created_at)
VALUES ($1, $2, $3, $4, $5, false, $6)`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.UserID, t.Rating, t.Feedback, t.AllowPublic, t.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadySubmitted
	}
	return err
}

func (r *PGRepo) ListPublic(ctx context.Context, limit int) ([]Testimonial, error) {
	const query = `
SELECT id, user_id, rating, feedback, allow_public, approved, created_at
FROM testimonials
WHERE approved AND allow_public
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.UserID, &t.Rating, &t.Feedback, &t.AllowPublic, &t.Approved, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
