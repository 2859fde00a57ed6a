package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/adapter/middleware"
)

type AuthHandler struct {
	store    middleware.SessionStore
	user     string
	password string
	ttl      time.Duration
}

func NewAuthHandler(store middleware.SessionStore, user, password string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{store: store, user: user, password: password, ttl: ttl}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	}

	token, err := h.store.Create(c.Request().Context(), h.ttl)
	if err != nil {
		return writeError(c, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.store.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return writeError(c, err)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": false})
}

// CheckAuth sits behind the session middleware, so reaching it at all means
// the caller is authenticated.
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": true})
}
