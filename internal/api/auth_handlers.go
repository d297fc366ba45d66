package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/forms"
	"github.com/filmcounts/filmcounts-gateway/internal/middleware"
	"github.com/filmcounts/filmcounts-gateway/internal/nav"
	"github.com/filmcounts/filmcounts-gateway/internal/viewstate"
)

// Login authenticates credentials against the platform and returns the
// session state including the token pair the dashboard must present on every
// subsequent request.
func (h *Handlers) Login(c *gin.Context) {
	var form forms.Login
	if !bindForm(c, &form) {
		return
	}
	res, reg := h.manager.Login(c.Request.Context(), form.Email, form.Password)
	if !res.Success || reg == nil {
		respond(c, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Register creates a platform account; the user logs in separately.
func (h *Handlers) Register(c *gin.Context) {
	var form forms.Register
	if !bindForm(c, &form) {
		return
	}
	// Registration happens before any session exists, so it runs through a
	// throwaway registry that never persists.
	reg := h.manager.AnonymousRegistry()
	respond(c, reg.Auth.Register(c.Request.Context(), form))
}

// ResetPassword requests a password reset email.
func (h *Handlers) ResetPassword(c *gin.Context) {
	var form forms.ResetPassword
	if !bindForm(c, &form) {
		return
	}
	reg := h.manager.AnonymousRegistry()
	respond(c, reg.Auth.ResetPassword(c.Request.Context(), form.Email))
}

// VerifyEmail confirms an email verification token.
func (h *Handlers) VerifyEmail(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	reg := h.manager.AnonymousRegistry()
	respond(c, reg.Auth.VerifyEmail(c.Request.Context(), body.Token))
}

// Logout tears the session down on the platform and in the gateway. It
// always succeeds locally.
func (h *Handlers) Logout(c *gin.Context) {
	respond(c, h.manager.Logout(c.Request.Context(), middleware.BearerToken(c)))
}

// Refresh rotates the session's token pair.
func (h *Handlers) Refresh(c *gin.Context) {
	respond(c, registry(c).Auth.RefreshTokens(c.Request.Context()))
}

// Profile fetches the platform profile and refreshes the session user.
func (h *Handlers) Profile(c *gin.Context) {
	respond(c, registry(c).Auth.Profile(c.Request.Context()))
}

// SessionInfo returns the session state the shell renders from: user,
// memberships, and the admin flag.
func (h *Handlers) SessionInfo(c *gin.Context) {
	reg := registry(c)
	state := reg.Auth.Current()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":          state.User,
			"isAuth":        state.IsAuth,
			"isAdmin":       state.IsAdmin(),
			"organizations": state.UserOrganizations(),
			"loading":       reg.Loading(),
		},
	})
}

// Nav returns the role-aware navigation sections for the session.
func (h *Handlers) Nav(c *gin.Context) {
	state := registry(c).Auth.Current()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nav.Sections(&state)})
}

// ViewState decodes the query-parameter UI protocol, so every page shell
// resolves add/edit/card intents through one parser instead of ad hoc string
// matching.
func (h *Handlers) ViewState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    viewstate.Parse(c.Request.URL.Query()),
	})
}
