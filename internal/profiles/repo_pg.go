package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, full_name, headline, summary, skills, updated_at
FROM profiles
WHERE user_id = $1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) error {
	skills, err := json.Marshal(nonNil(profile.Skills))
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	const query = `
INSERT INTO profiles (user_id, full_name, headline, summary, skills, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
  full_name = EXCLUDED.full_name,
  headline = EXCLUDED.headline,
  summary = EXCLUDED.summary,
  skills = EXCLUDED.skills,
  updated_at = EXCLUDED.updated_at`
	_, err = r.DB.ExecContext(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.Headline,
		profile.Summary,
		skills,
		profile.UpdatedAt.UTC(),
	)
	return err
}

func (r *PGRepo) GetMany(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	out := make(map[string]Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `
SELECT user_id, full_name, headline, summary, skills, updated_at
FROM profiles
WHERE user_id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out[p.UserID] = p
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var skills []byte
	err := row.Scan(&p.UserID, &p.FullName, &p.Headline, &p.Summary, &skills, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &p.Skills); err != nil {
			return Profile{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	p.Skills = nonNil(p.Skills)
	return p, nil
}

func nonNil(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
