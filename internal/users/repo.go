package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
)

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpsertGoogle links a Google account to the user with the same email,
	// creating the user when none exists.
	UpsertGoogle(ctx context.Context, user User) (User, error)
	SetPassword(ctx context.Context, userID, passwordHash string, at time.Time) error

	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	RevokeSession(ctx context.Context, sessionID, userID string, at time.Time) error
	// RevokeOtherSessions revokes every active session of userID except keepID.
	RevokeOtherSessions(ctx context.Context, userID, keepID string, at time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}
