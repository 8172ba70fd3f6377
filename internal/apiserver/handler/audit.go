package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// ListAudits queries the immutable trail. There is no write counterpart:
// records only enter the trail through mutations elsewhere.
func (h *Handler) ListAudits(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.AuditorAccess)
	if !ok {
		return
	}
	scope, err := guard.ListScope(p)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	filter := database.AuditFilter{
		Tenant:     scope,
		UserID:     queryUint(c, "userId"),
		Action:     c.Query("action"),
		TableName:  c.Query("table"),
		Pagination: pagination(c),
	}
	if raw := c.Query("since"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.Since = &ts
		}
	}
	if raw := c.Query("until"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.Until = &ts
		}
	}

	records, err := h.store.ListAudits(c.Request.Context(), filter)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
