package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flash categories double as CSS classes in the templates.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"

	flashCookie = "flash"
)

// flash is a one-shot notice shown on the next rendered page.
type flash struct {
	Category string
	Message  string
}

func (h *Handler) setFlash(c *gin.Context, category, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, category+"|"+message, 0, "/", "", h.opts.SecureCookie, true)
}

// popFlash reads and clears the pending notice, if any.
func (h *Handler) popFlash(c *gin.Context) *flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", h.opts.SecureCookie, true)

	category, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	switch category {
	case flashSuccess, flashInfo, flashWarning, flashDanger:
	default:
		category = flashInfo
	}
	return &flash{Category: category, Message: message}
}
