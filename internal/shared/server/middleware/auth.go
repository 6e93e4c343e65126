package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/shared/auth"
	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/shared/telemetry"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	sessionIDKey = "sessionId"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// SessionChecker reports whether the session behind a token is still usable.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID, userID string) (bool, error)
}

// Auth requires a valid bearer session token and stores identity in context.
// sessions may be nil, in which case only the token itself is checked.
func Auth(verifier TokenVerifier, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized - please log in", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized - invalid session", nil)
			return
		}

		if sessions != nil {
			active, err := sessions.SessionActive(c.Request.Context(), claims.ID, claims.Subject)
			if err != nil {
				telemetry.Error("auth.session_check_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"session_id": claims.ID,
					"err":        err,
				})
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized - invalid session", nil)
				return
			}
			if !active {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized - invalid session", nil)
				return
			}
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(sessionIDKey, claims.ID)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// SessionIDFromContext fetches the session ID set by the auth middleware.
func SessionIDFromContext(c *gin.Context) string {
	return stringFromContext(c, sessionIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
