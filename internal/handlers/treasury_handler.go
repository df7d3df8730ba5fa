package handler

import (
	"net/http"

	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/services/treasury"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TreasuryHandler struct {
	service *treasury.Service
}

func NewTreasuryHandler(service *treasury.Service) *TreasuryHandler {
	return &TreasuryHandler{service: service}
}

func (h *TreasuryHandler) Create(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var input models.NewTreasury
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.service.Create(c.Request.Context(), bid, actorID(c), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TreasuryHandler) Get(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), bid, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type adjustBalanceRequest struct {
	Amount    string                  `json:"amount" binding:"required"`
	Operation models.BalanceOperation `json:"operation" binding:"required"`
}

// AdjustBalance applies a manual add/subtract correction to a treasury.
// Regular balance movement happens through voucher confirmation.
func (h *TreasuryHandler) AdjustBalance(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req adjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount: not a valid decimal"})
		return
	}
	newBalance, err := h.service.AdjustBalance(c.Request.Context(), bid, id, amount, req.Operation)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_balance": newBalance})
}

func (h *TreasuryHandler) List(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), bid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
