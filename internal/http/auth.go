package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/http/middleware"
	"github.com/jmehdipour/invest-backoffice/internal/session"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func sessionCookie(cfg config.SessionConfig, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// POST /login
func loginHandler(admins AdminFinder, sessions session.Store, cfg config.SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "bad request"})
		}
		req.Username = strings.TrimSpace(req.Username)

		ctx := c.Request().Context()
		admin, err := admins.GetByUsername(ctx, req.Username)
		if err != nil {
			log.Errorf("login lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "message": "Internal server error"})
		}
		if admin == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"status": "invalid", "message": "Invalid username."})
		}

		err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"status": "incorrect", "message": "Incorrect password."})
		}
		if err != nil {
			log.Errorf("login hash check for %s failed: %v", admin.Username, err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "message": "Internal server error"})
		}

		token, err := sessions.Create(ctx, session.Session{AdminID: admin.ID, Username: admin.Username, CreatedAt: time.Now().UTC()})
		if err != nil {
			log.Errorf("create session failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "message": "Internal server error"})
		}

		c.SetCookie(sessionCookie(cfg, token, int(cfg.TTL/time.Second)))
		return c.JSON(http.StatusOK, map[string]string{"status": "success", "message": "Login successful!"})
	}
}

// POST /logout works with or without a live session.
func logoutHandler(sessions session.Store, cfg config.SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
			if err := sessions.Delete(c.Request().Context(), ck.Value); err != nil {
				log.Errorf("delete session failed: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Logout failed. Please try again later."})
			}
		}
		c.SetCookie(sessionCookie(cfg, "", -1))
		return c.JSON(http.StatusOK, map[string]any{"logout": true, "message": "Logout successful!"})
	}
}

// GET /v1/me
func meHandler(admins AdminFinder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := middleware.AdminIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]any{"status": false, "message": "User not authenticated."})
		}
		admin, err := admins.GetByID(c.Request().Context(), id)
		if err != nil {
			log.Errorf("load admin %d failed: %v", id, err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"status": false, "message": "Internal server error"})
		}
		if admin == nil {
			return c.JSON(http.StatusNotFound, map[string]any{"status": false, "message": "User not found."})
		}
		return c.JSON(http.StatusOK, map[string]any{"status": true, "user": admin})
	}
}
