package notes

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, note Note) error {
	const query = `
INSERT INTO job_notes (id, application_id, user_id, content, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, note.ID, note.ApplicationID, note.UserID, note.Content, note.CreatedAt.UTC())
	return err
}

func (r *PGRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Note, error) {
	const query = `
SELECT id, application_id, user_id, content, created_at
FROM job_notes
WHERE application_id = $1 AND user_id = $2
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, applicationID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.UserID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, applicationID, noteID string) error {
	const query = `DELETE FROM job_notes WHERE id = $1 AND application_id = $2 AND user_id = $3`
	res, err := r.DB.ExecContext(ctx, query, noteID, applicationID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
