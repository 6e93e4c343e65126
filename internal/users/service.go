package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "applycraft-backend/internal/shared/auth"
	"applycraft-backend/internal/shared/telemetry"
	"applycraft-backend/internal/shared/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation failed")
)

type Service struct {
	Repo       Repo
	Issuer     *sharedauth.Issuer
	BcryptCost int
	now        func() time.Time
}

func NewService(repo Repo, issuer *sharedauth.Issuer) *Service {
	return &Service{Repo: repo, Issuer: issuer, BcryptCost: bcrypt.DefaultCost, now: time.Now}
}

// Signup creates a password account and opens a session for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in); err != nil {
		return User{}, "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(in.Email),
		FullName:     in.FullName,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}
	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return User{}, "", err
	}
	token, err := s.openSession(ctx, created)
	if err != nil {
		return User{}, "", err
	}
	return created, token, nil
}

// Login checks a password and opens a session.
func (s *Service) Login(ctx context.Context, in LoginInput) (User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return User{}, "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	user, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if user.PasswordHash == "" {
		return User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.openSession(ctx, user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// LoginWithGoogle links or creates the account and opens a session.
func (s *Service) LoginWithGoogle(ctx context.Context, identity GoogleIdentity) (User, string, error) {
	if strings.TrimSpace(identity.Sub) == "" || strings.TrimSpace(identity.Email) == "" {
		return User{}, "", fmt.Errorf("%w: google identity missing sub or email", ErrValidation)
	}
	user, err := s.Repo.UpsertGoogle(ctx, User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(identity.Email)),
		FullName:  strings.TrimSpace(identity.Name),
		GoogleSub: identity.Sub,
	})
	if err != nil {
		return User{}, "", err
	}
	token, err := s.openSession(ctx, user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// ChangePassword sets a new password for the signed-in user and revokes every
// other session. Accounts that only ever used Google may set a first password
// without a current one.
func (s *Service) ChangePassword(ctx context.Context, userID, sessionID string, in ChangePasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return ErrInvalidCredentials
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := s.clock()
	if err := s.Repo.SetPassword(ctx, userID, string(hash), now); err != nil {
		return err
	}
	revoked, err := s.Repo.RevokeOtherSessions(ctx, userID, sessionID, now)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	telemetry.Info("users.password_changed", map[string]any{
		"user_id":          userID,
		"revoked_sessions": revoked,
	})
	return nil
}

// Logout revokes the session. Revoking twice is not an error.
func (s *Service) Logout(ctx context.Context, userID, sessionID string) error {
	return s.Repo.RevokeSession(ctx, sessionID, userID, s.clock())
}

// SessionActive implements the auth middleware session check.
func (s *Service) SessionActive(ctx context.Context, sessionID, userID string) (bool, error) {
	session, err := s.Repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return session.UserID == userID && session.Active(s.clock()), nil
}

// PurgeExpiredSessions removes expired and revoked sessions.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteExpiredSessions(ctx, s.clock())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		telemetry.Info("sessions.purged", map[string]any{"count": n})
	}
	return n, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) openSession(ctx context.Context, user User) (string, error) {
	if s.Issuer == nil {
		return "", errors.New("token issuer not configured")
	}
	now := s.clock()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Issuer.TTL()),
	}
	if err := s.Repo.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	token, err := s.Issuer.Sign(user.ID, session.ID, user.Email, user.FullName, session.ExpiresAt)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

func (s *Service) cost() int {
	if s.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}
