package middleware

import (
	"net/http"

	"github.com/jmehdipour/invest-backoffice/internal/session"
	echo "github.com/labstack/echo/v4"
)

const (
	ctxAdminID       = "admin_id"
	ctxAdminUsername = "admin_username"
	ctxSessionToken  = "session_token"
)

// AdminIDFromCtx extracts the authenticated admin id set by SessionMiddleware.
func AdminIDFromCtx(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxAdminID).(int64)
	return id, ok
}

// AdminUsernameFromCtx is used as the actor of audited transitions.
func AdminUsernameFromCtx(c echo.Context) string {
	u, _ := c.Get(ctxAdminUsername).(string)
	return u
}

// SessionTokenFromCtx returns the token of the current session, if any.
func SessionTokenFromCtx(c echo.Context) string {
	t, _ := c.Get(ctxSessionToken).(string)
	return t
}

// SessionMiddleware authenticates requests using the session cookie set at login.
func SessionMiddleware(sessions session.Store, cookieName string) echo.MiddlewareFunc {
	if cookieName == "" {
		cookieName = "sid"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "not authenticated"})
			}
			sess, err := sessions.Get(c.Request().Context(), ck.Value)
			if err != nil {
				c.Logger().Errorf("session lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"message": "auth error"})
			}
			if sess == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "session expired"})
			}
			c.Set(ctxAdminID, sess.AdminID)
			c.Set(ctxAdminUsername, sess.Username)
			c.Set(ctxSessionToken, ck.Value)
			return next(c)
		}
	}
}
