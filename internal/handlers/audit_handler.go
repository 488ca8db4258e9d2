package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nrsport/console-backend/internal/middleware"
	"github.com/nrsport/console-backend/internal/repositories"
)

// AuditHandler handles audit log HTTP requests
type AuditHandler struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repositories.AuditLogRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// ListAuditLogs handles GET /audit
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	sess := middleware.SessionFrom(c)

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	entries, err := h.auditRepo.FindByOrg(c.Request.Context(), sess.OrgID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
