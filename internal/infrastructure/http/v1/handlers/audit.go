package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the change log for troubleshooting and audits.
type AuditHandler struct {
	*BaseHandler
	store *postgres.ChangeStore
}

// NewAuditHandler creates the audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.ChangeStore) *AuditHandler {
	return &AuditHandler{BaseHandler: base, store: store}
}

// RegisterRoutes registers audit routes on the group.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entityType/:entityId", h.History)
}

// History handles GET /audit/:entityType/:entityId. Snapshots come back
// newest first.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "entityId")
	if !ok {
		return
	}

	limit := h.parseIntQuery(c, "limit", 50)
	entries, err := h.store.History(c.Request.Context(), c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}
