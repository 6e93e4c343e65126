// Package keepalive exposes a token-guarded database ping so free-tier hosts
// and databases are not suspended for inactivity.
package keepalive

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/shared/telemetry"
)

// TokenHeader carries the shared keepalive secret.
const TokenHeader = "X-Keepalive-Token"

// PingFunc checks the database and reports the round trip.
type PingFunc func(ctx context.Context) (time.Duration, error)

type Handler struct {
	Token string
	Ping  PingFunc
}

func NewHandler(token string, ping PingFunc) *Handler {
	return &Handler{Token: token, Ping: ping}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/keepalive", h.handle)
}

func (h *Handler) handle(c *gin.Context) {
	if !h.authorized(c.GetHeader(TokenHeader)) {
		respond.Error(c, http.StatusForbidden, "forbidden", "invalid keepalive token", nil)
		return
	}
	elapsed, err := h.Ping(c.Request.Context())
	if err != nil {
		telemetry.Error("keepalive.ping_failed", map[string]any{"err": err})
		respond.Error(c, http.StatusServiceUnavailable, "db_unreachable", "database ping failed", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true, "ms": elapsed.Milliseconds()})
}

// An unset token disables the endpoint.
func (h *Handler) authorized(got string) bool {
	if h.Token == "" || h.Ping == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) == 1
}
