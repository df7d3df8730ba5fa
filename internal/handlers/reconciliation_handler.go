package handler

import (
	"net/http"

	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
)

type ReconciliationHandler struct {
	service *reconciliation.Service
}

func NewReconciliationHandler(service *reconciliation.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// AutoMatch triggers a matcher pass for the business and reports how many
// pending reconciliations it created.
func (h *ReconciliationHandler) AutoMatch(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	created, err := h.service.AutoMatch(c.Request.Context(), bid, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *ReconciliationHandler) Confirm(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Confirm(c.Request.Context(), bid, id, actorID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation confirmed"})
}

func (h *ReconciliationHandler) Reject(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Reject(c.Request.Context(), bid, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation rejected"})
}

func (h *ReconciliationHandler) Get(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), bid, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ReconciliationHandler) List(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var status *models.ReconciliationStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ReconciliationStatus(raw)
		if s != models.ReconciliationPending && !s.Terminal() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, confirmed or rejected"})
			return
		}
		status = &s
	}
	list, err := h.service.List(c.Request.Context(), bid, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
