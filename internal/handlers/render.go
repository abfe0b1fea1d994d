package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"fmtTime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
		"dict":    dict,
	}).ParseFS(templateFS, "templates/*.html")
}

// dict builds a map from alternating keys and values for passing several
// arguments to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// render executes a page template with the current user and pending flash.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentUser(c)
	data["Flash"] = h.popFlash(c)
	c.HTML(code, name, data)
}

func (h *Handler) renderNotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found.html", nil)
}

func (h *Handler) renderTooLarge(c *gin.Context) {
	c.HTML(http.StatusRequestEntityTooLarge, "error.html", gin.H{
		"Title":   "Upload too large",
		"Message": "The request body exceeds the upload limit.",
	})
}

func (h *Handler) renderServerError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "Please try again later.",
	})
}

// Messages shown to the user, most specific first.
var userMessages = []struct {
	err error
	msg string
}{
	{service.ErrCredentialsRequired, "Email and password are required."},
	{service.ErrPasswordMismatch, "Passwords do not match."},
	{service.ErrTitleRequired, "Title is required."},
	{storage.ErrExtensionNotAllowed, "File type not allowed. Use png/jpg/jpeg/gif."},
	{service.ErrDuplicate, "Account already exists."},
	{service.ErrAuth, "Invalid email or password."},
	{service.ErrStorageIO, "Could not save the uploaded file."},
	{service.ErrValidation, "Invalid input."},
}

func userMessage(err error) (string, bool) {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}
	return "", false
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

// fail turns a service error into a response: known user errors become a
// danger flash and a redirect to target, unknown ids a 404 page, anything
// else a logged 500.
func (h *Handler) fail(c *gin.Context, err error, target, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.renderNotFound(c)
		return
	case isBodyTooLarge(err):
		h.renderTooLarge(c)
		return
	}

	fields := append([]interface{}{"err", err}, kv...)
	if msg, ok := userMessage(err); ok {
		if errors.Is(err, service.ErrStorageIO) {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
		h.setFlash(c, flashDanger, msg)
		c.Redirect(http.StatusFound, target)
		return
	}
	h.log.Errorw(logKey, fields...)
	h.renderServerError(c)
}
