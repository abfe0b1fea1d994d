package handlers

import (
	"errors"
	"net/http"
	"time"

	"campus_lost_found/internal/models"
	"campus_lost_found/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "session"
	ctxUserKey    = "currentUser"
)

// sessionMiddleware resolves the session cookie to the current user once per
// request and stores it in the Gin context. Anonymous requests carry no user.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.Next()
		return
	}

	user, err := h.services.CurrentUser(c.Request.Context(), token)
	switch {
	case errors.Is(err, service.ErrInvalidSession):
		h.log.Infow("session_rejected", "err", err)
		h.clearSession(c)
	case err != nil:
		h.log.Errorw("session_lookup_failed", "err", err)
	case user != nil:
		c.Set(ctxUserKey, user)
	}
	c.Next()
}

// requireUser redirects anonymous visitors to the login page.
func (h *Handler) requireUser(c *gin.Context) {
	if currentUser(c) == nil {
		h.setFlash(c, flashWarning, "Please log in first.")
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Next()
}

// currentUser returns the user resolved by sessionMiddleware, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// limitBody rejects request bodies above the configured size.
func (h *Handler) limitBody(c *gin.Context) {
	if c.Request.ContentLength > h.opts.MaxBodyBytes {
		h.renderTooLarge(c)
		c.Abort()
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.opts.SecureCookie, true)
}
