package handler

import (
	"net/http"

	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/services/voucher"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	service *voucher.Service
}

func NewVoucherHandler(service *voucher.Service) *VoucherHandler {
	return &VoucherHandler{service: service}
}

// statusFilter parses the optional ?status= query, nil when absent.
func statusFilter(c *gin.Context) (*models.VoucherStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := models.VoucherStatus(raw)
	if status != models.VoucherStatusDraft && status != models.VoucherStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or confirmed"})
		return nil, false
	}
	return &status, true
}

func (h *VoucherHandler) CreatePayment(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var input models.NewPaymentVoucher
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.service.CreatePayment(c.Request.Context(), bid, actorID(c), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VoucherHandler) GetPayment(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.service.GetPayment(c.Request.Context(), bid, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VoucherHandler) UpdatePayment(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.PaymentVoucherPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.service.UpdatePayment(c.Request.Context(), bid, id, &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VoucherHandler) ConfirmPayment(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.ConfirmPayment(c.Request.Context(), bid, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "voucher confirmed"})
}

func (h *VoucherHandler) DeletePayment(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePayment(c.Request.Context(), bid, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "voucher deleted"})
}

func (h *VoucherHandler) ListPayments(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	list, err := h.service.ListPayments(c.Request.Context(), bid, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *VoucherHandler) CreateReceipt(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var input models.NewReceiptVoucher
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.service.CreateReceipt(c.Request.Context(), bid, actorID(c), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VoucherHandler) GetReceipt(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.service.GetReceipt(c.Request.Context(), bid, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VoucherHandler) UpdateReceipt(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.ReceiptVoucherPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.service.UpdateReceipt(c.Request.Context(), bid, id, &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VoucherHandler) ConfirmReceipt(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.ConfirmReceipt(c.Request.Context(), bid, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "voucher confirmed"})
}

func (h *VoucherHandler) DeleteReceipt(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteReceipt(c.Request.Context(), bid, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "voucher deleted"})
}

func (h *VoucherHandler) ListReceipts(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	list, err := h.service.ListReceipts(c.Request.Context(), bid, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *VoucherHandler) CreateTransfer(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var input models.NewTransfer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.CreateTransfer(c.Request.Context(), bid, actorID(c), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *VoucherHandler) CreateIntermediary(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	var input models.NewIntermediaryAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.service.CreateIntermediary(c.Request.Context(), bid, &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *VoucherHandler) GetIntermediary(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.service.GetIntermediary(c.Request.Context(), bid, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *VoucherHandler) ListIntermediaries(c *gin.Context) {
	bid, ok := businessID(c)
	if !ok {
		return
	}
	list, err := h.service.ListIntermediaries(c.Request.Context(), bid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
