package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/response"
)

type AuditHandler struct {
	svc *services.AuditService
}

func NewAuditHandler(svc *services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GET /api/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	opts := services.AuditListOptions{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 50),
		Filters: services.AuditFilters{
			Action:   c.Query("action"),
			Status:   c.Query("status"),
			Resource: c.Query("resource"),
		},
	}

	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			uid := uint(id)
			opts.Filters.UserID = &uid
		}
	}
	if raw := c.Query("since"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			opts.Filters.Since = &ts
		}
	}
	if raw := c.Query("until"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			opts.Filters.Until = &ts
		}
	}

	logs, total, err := h.svc.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, logs, response.NewMeta(total, opts.Page, opts.Limit))
}
