package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation pairs one payment voucher with one receipt voucher believed
// to represent the same transfer through an intermediary clearing account.
// Rows are never deleted; rejected ones stay behind as an audit trail.
// The partial unique index on PaymentVoucherID allows at most one non-rejected
// row per payment, so concurrent matcher runs cannot double-claim it.
type Reconciliation struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	BusinessID       uint                 `gorm:"index;not null" json:"business_id"`
	PaymentVoucherID uint                 `gorm:"index;not null;uniqueIndex:idx_recon_open_payment,where:status <> 'rejected'" json:"payment_voucher_id"`
	ReceiptVoucherID uint                 `gorm:"index;not null" json:"receipt_voucher_id"`
	Amount           decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency         string               `gorm:"size:10;default:SAR" json:"currency"`
	ConfidenceScore  ConfidenceScore      `gorm:"size:10;default:medium" json:"confidence_score"`
	Status           ReconciliationStatus `gorm:"size:12;default:pending;index" json:"status"`
	Notes            string               `gorm:"type:text" json:"notes"`
	ConfirmedBy      uint                 `json:"confirmed_by"`
	ConfirmedAt      *time.Time           `json:"confirmed_at"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reconciliation) TableName() string { return "reconciliations" }
