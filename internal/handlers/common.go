// Package handler exposes the HTTP surface. Handlers only bind, delegate and
// translate errors; every business rule lives in the service layer.
package handler

import (
	"net/http"
	"strconv"

	"treasury-clearing-backend/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// businessID reads the tenant from the X-Business-ID header. Aborts with 400
// when missing or malformed; callers must return immediately on ok == false.
func businessID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-Business-ID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Business-ID header is required"})
		return 0, false
	}
	return uint(id), true
}

// actorID reads the acting user from X-User-ID, zero when absent.
func actorID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func writeError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.KindVoucherLocked, apperrors.KindHasReconciliation, apperrors.KindAlreadyResolved:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.KindInsufficientBalance:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
