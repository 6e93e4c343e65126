package applications

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, company, role_title, location, status, job_description, job_url,
  outreach_dm, outreach_email, outreach_cover_letter, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, user_id, company, role_title, location, status, job_description, job_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.Company,
		app.RoleTitle,
		app.Location,
		string(app.Status),
		app.JobDescription,
		app.JobURL,
		app.CreatedAt.UTC(),
		app.UpdatedAt.UTC(),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + selectColumns + `
FROM applications
WHERE id = $1
LIMIT 1`
	return scanApplication(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Application, error) {
	filter = filter.normalized()
	query := `SELECT ` + selectColumns + `
FROM applications
WHERE user_id = $1 AND ($2 = '' OR status = $2)
  AND ($3 = '' OR company ILIKE $3 OR role_title ILIKE $3)
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5`
	rows, err := r.DB.QueryContext(ctx, query, userID, string(filter.Status), likePattern(filter.Query), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, app Application) error {
	const query = `
UPDATE applications
SET company = $3, role_title = $4, location = $5, status = $6, job_description = $7, job_url = $8, updated_at = $9
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.Company,
		app.RoleTitle,
		app.Location,
		string(app.Status),
		app.JobDescription,
		app.JobURL,
		app.UpdatedAt.UTC(),
	)
	return requireRow(res, err)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM applications WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	return requireRow(res, err)
}

// SaveOutreach overwrites all three draft columns in one statement.
func (r *PGRepo) SaveOutreach(ctx context.Context, userID, id string, draft Outreach, at time.Time) error {
	const query = `
UPDATE applications
SET outreach_dm = $3, outreach_email = $4, outreach_cover_letter = $5, updated_at = $6
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID, draft.DM, draft.Email, draft.CoverLetter, at.UTC())
	return requireRow(res, err)
}

func (r *PGRepo) CountByStatus(ctx context.Context, userID string) (map[Status]int, error) {
	const query = `
SELECT status, COUNT(*)
FROM applications
WHERE user_id = $1
GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var status string
	err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.Company,
		&app.RoleTitle,
		&app.Location,
		&status,
		&app.JobDescription,
		&app.JobURL,
		&app.Outreach.DM,
		&app.Outreach.Email,
		&app.Outreach.CoverLetter,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	app.Status = Status(status)
	return app, nil
}

func requireRow(res sql.Result, err error) error {
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a substring ILIKE pattern. Empty stays empty.
func likePattern(q string) string {
	if q == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(q) + "%"
}
