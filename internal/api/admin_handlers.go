package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/forms"
	"github.com/filmcounts/filmcounts-gateway/internal/stores"
	"github.com/filmcounts/filmcounts-gateway/internal/table"
)

var (
	userColumns = []table.Column{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "role", Label: "Role"},
	}
	trailColumns = []table.Column{
		{Key: "actor", Label: "Actor"},
		{Key: "entity", Label: "Entity"},
		{Key: "action", Label: "Action"},
		{Key: "timestamp", Label: "When"},
	}
	configColumns = []table.Column{
		{Key: "key", Label: "Setting"},
		{Key: "value", Label: "Value"},
	}
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (h *Handlers) ListUsers(c *gin.Context) {
	reg := registry(c)
	res := reg.Users.ListUsers(c.Request.Context(), nil)
	h.renderTable(c, res, userColumns, reg.Users.Rows())
}

func (h *Handlers) InviteUser(c *gin.Context) {
	var form forms.User
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Users.InviteUser(c.Request.Context(), form))
}

func (h *Handlers) UpdateUserRole(c *gin.Context) {
	var form forms.User
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Users.UpdateUserRole(c.Request.Context(), form))
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	respond(c, registry(c).Users.DeleteUser(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Audit trail
// ---------------------------------------------------------------------------

// SearchTrail runs an audit-trail search and renders the result through the
// table engine, so trail pages paginate like every other grid.
func (h *Handlers) SearchTrail(c *gin.Context) {
	var q stores.TrailQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	reg := registry(c)
	res := reg.Trail.Search(c.Request.Context(), q)
	h.renderTable(c, res, trailColumns, reg.Trail.Entries())
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func (h *Handlers) ListConfigs(c *gin.Context) {
	reg := registry(c)
	res := reg.Config.List(c.Request.Context(), nil)
	h.renderTable(c, res, configColumns, reg.Config.Rows())
}

func (h *Handlers) UpdateConfig(c *gin.Context) {
	var form forms.Setting
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Config.Update(c.Request.Context(), form))
}
