package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, password_hash, full_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		nullableString(user.PasswordHash),
		user.FullName,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, password_hash, full_name, google_sub, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, password_hash, full_name, google_sub, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (r *PGRepo) UpsertGoogle(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, full_name, google_sub, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (email) DO UPDATE SET
  google_sub = EXCLUDED.google_sub,
  full_name = CASE WHEN users.full_name = '' THEN EXCLUDED.full_name ELSE users.full_name END,
  updated_at = now()
RETURNING id, email, password_hash, full_name, google_sub, created_at, updated_at`
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		user.FullName,
		nullableString(user.GoogleSub),
	))
}

func (r *PGRepo) SetPassword(ctx context.Context, userID, passwordHash string, at time.Time) error {
	const query = `
UPDATE users
SET password_hash = $2, updated_at = $3
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, passwordHash, at.UTC())
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

func (r *PGRepo) CreateSession(ctx context.Context, session Session) error {
	const query = `
INSERT INTO sessions (id, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt)
	return err
}

func (r *PGRepo) GetSession(ctx context.Context, sessionID string) (Session, error) {
	const query = `
SELECT id, user_id, created_at, expires_at, revoked_at
FROM sessions
WHERE id = $1`
	var session Session
	var revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&revokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		session.RevokedAt = &t
	}
	return session, nil
}

func (r *PGRepo) RevokeSession(ctx context.Context, sessionID, userID string, at time.Time) error {
	const query = `
UPDATE sessions
SET revoked_at = COALESCE(revoked_at, $3)
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, sessionID, userID, at.UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PGRepo) RevokeOtherSessions(ctx context.Context, userID, keepID string, at time.Time) (int64, error) {
	const query = `
UPDATE sessions
SET revoked_at = $3
WHERE user_id = $1 AND id <> $2 AND revoked_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, keepID, at.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1 OR revoked_at IS NOT NULL`
	res, err := r.DB.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var passwordHash sql.NullString
	var googleSub sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.FullName,
		&googleSub,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if googleSub.Valid {
		user.GoogleSub = googleSub.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = user.CreatedAt
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
