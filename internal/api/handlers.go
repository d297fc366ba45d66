package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/forms"
	"github.com/filmcounts/filmcounts-gateway/internal/middleware"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/stores"
	"github.com/filmcounts/filmcounts-gateway/internal/table"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Handlers carries the shared dependencies of every route handler.
type Handlers struct {
	cfg     *config.Config
	manager *stores.Manager
	backend storage.Backend
}

// respond maps a store result onto an HTTP status: success is 200, a missing
// token is 401, a transport or parse problem is 502, and a platform business
// rejection is 422. The body is always the result itself, so the dashboard
// branches on .success exactly as it always has.
func respond(c *gin.Context, res stores.Result) {
	switch {
	case res.Success:
		c.JSON(http.StatusOK, res)
	case res.Error == stores.MsgNoAccessToken:
		c.JSON(http.StatusUnauthorized, res)
	case res.Error != "":
		c.JSON(http.StatusBadGateway, res)
	default:
		c.JSON(http.StatusUnprocessableEntity, res)
	}
}

// bindForm decodes and validates a request payload. On failure it writes the
// response itself and returns false.
func bindForm[T any](c *gin.Context, form *T) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return false
	}
	if errs := forms.Validate(*form); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "errors": errs})
		return false
	}
	return true
}

// renderTable answers a list request: the store result gates the response,
// the cached rows run through the table engine with the request's search,
// filter, and paging parameters.
func (h *Handlers) renderTable(c *gin.Context, res stores.Result, columns []table.Column, rows []table.Row) {
	if !res.Success {
		respond(c, res)
		return
	}
	params := table.ParseParams(c.Request.URL.Query())
	view, err := table.Render(columns, rows, params, h.cfg.Table.DefaultPageSize, h.cfg.Table.MaxPageSize)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

func registry(c *gin.Context) *stores.Registry {
	return middleware.Registry(c)
}

// ---------------------------------------------------------------------------
// System endpoints
// ---------------------------------------------------------------------------

// Health reports process liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
}

// Ready probes the session-state backend so a broken Redis or Postgres pulls
// the instance out of rotation before users hit it.
func (h *Handlers) Ready(c *gin.Context) {
	if _, err := h.backend.Keys(c.Request.Context(), "readiness-probe/"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"backend": h.cfg.Sessions.Backend,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": h.cfg.Sessions.Backend})
}

// Version reports the build version.
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": Version})
}
