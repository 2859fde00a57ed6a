// Package middleware carries the echo middleware: cookie-token session
// checks backed by redis.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/brandonreed984/safeguard-deal-sheet/pkg/id"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "sg_session"

const sessionKeyPrefix = "session:"

// SessionStore tracks live session tokens.
type SessionStore interface {
	Create(ctx context.Context, ttl time.Duration) (string, error)
	Valid(ctx context.Context, token string) (bool, error)
	Destroy(ctx context.Context, token string) error
}

// RedisSessions stores one redis key per live token.
type RedisSessions struct{ rdb *redis.Client }

func NewRedisSessions(rdb *redis.Client) *RedisSessions { return &RedisSessions{rdb: rdb} }

func (s *RedisSessions) Create(ctx context.Context, ttl time.Duration) (string, error) {
	token := id.NewID32()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, "1", ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Valid(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessions) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// RequireSession rejects requests that do not carry a live session token.
// The handler never runs on a rejected request.
func RequireSession(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			ok, err := store.Valid(c.Request().Context(), cookie.Value)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session check failed"})
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			return next(c)
		}
	}
}
