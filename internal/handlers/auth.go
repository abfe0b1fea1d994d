package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Credentials posted by the login and registration forms.
type credentialsForm struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

// bindFormOrRedirect binds the posted form into dst, redirecting back to
// target with a flash on failure. Returns false if the request was handled.
func (h *Handler) bindFormOrRedirect(c *gin.Context, dst any, target string) bool {
	if err := c.ShouldBind(dst); err != nil {
		if isBodyTooLarge(err) {
			h.renderTooLarge(c)
			return false
		}
		h.log.Infow("bad_form_body", "path", c.Request.URL.Path, "err", err)
		h.setFlash(c, flashDanger, "Invalid form submission.")
		c.Redirect(http.StatusFound, target)
		return false
	}
	return true
}

// @Summary      Login page
// @Tags         auth
// @Produce      html
// @Success      200
// @Success      302  "already logged in, redirect to /dashboard"
// @Router       / [get]
func (h *Handler) loginPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", nil)
}

// @Summary      Log in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        email     formData  string  true  "Email"
// @Param        password  formData  string  true  "Password"
// @Success      302  "session cookie set, redirect to /dashboard"
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input credentialsForm
	if ok := h.bindFormOrRedirect(c, &input, "/"); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.fail(c, err, "/", "auth_login_failed", "email", input.Email)
		return
	}

	h.setSession(c, token)
	h.setFlash(c, flashSuccess, "Logged in successfully.")
	c.Redirect(http.StatusFound, "/dashboard")
}

// @Summary      Registration page
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /register [get]
func (h *Handler) registerPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "register.html", nil)
}

// @Summary      Register an account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        email             formData  string  true  "Email"
// @Param        password          formData  string  true  "Password"
// @Param        password_confirm  formData  string  true  "Password confirmation"
// @Success      302  "redirect to / on success, /register on failure"
// @Router       /register_user [post]
func (h *Handler) registerUser(c *gin.Context) {
	var input credentialsForm
	if ok := h.bindFormOrRedirect(c, &input, "/register"); !ok {
		return
	}

	id, err := h.services.Register(c.Request.Context(), input.Email, input.Password, input.PasswordConfirm)
	if err != nil {
		h.fail(c, err, "/register", "auth_register_failed", "email", input.Email)
		return
	}

	h.log.Infow("user_registered", "id", id)
	h.setFlash(c, flashSuccess, "Registration successful! You can now log in.")
	c.Redirect(http.StatusFound, "/")
}

// @Summary      Log out
// @Tags         auth
// @Success      302  "session cookie cleared, redirect to /"
// @Router       /logout [get]
func (h *Handler) logout(c *gin.Context) {
	h.clearSession(c)
	h.setFlash(c, flashInfo, "Logged out successfully.")
	c.Redirect(http.StatusFound, "/")
}
