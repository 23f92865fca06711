package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, total, err := h.logs.List(c.Request.Context(), c.Query("action"), limit, (page-1)*limit)
	if err != nil {
		httperr.FromError(c, err, "audit_list_failed")
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
