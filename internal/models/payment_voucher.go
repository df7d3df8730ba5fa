package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentVoucher records an outbound money movement from a treasury.
// Financial fields are immutable once Status is confirmed; only the
// reconciliation flags may change afterwards, and only through the
// reconciliation resolver.
type PaymentVoucher struct {
	ID                        uint             `gorm:"primaryKey" json:"id"`
	BusinessID                uint             `gorm:"not null;uniqueIndex:idx_pv_number" json:"business_id"`
	VoucherNumber             string           `gorm:"size:50;not null;uniqueIndex:idx_pv_number" json:"voucher_number"`
	VoucherDate               time.Time        `gorm:"index;not null" json:"voucher_date"`
	Amount                    decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency                  string           `gorm:"size:10;default:SAR" json:"currency"`
	TreasuryID                uint             `gorm:"index;not null" json:"treasury_id"`
	DestinationType           CounterpartyType `gorm:"size:20;not null" json:"destination_type"`
	DestinationName           string           `gorm:"size:255" json:"destination_name"`
	DestinationIntermediaryID uint             `gorm:"index" json:"destination_intermediary_id"`
	Description               string           `gorm:"type:text" json:"description"`
	Attachments               datatypes.JSON   `json:"attachments"`
	Status                    VoucherStatus    `gorm:"size:12;default:draft;index" json:"status"`
	IsReconciled              bool             `gorm:"default:false;index" json:"is_reconciled"`
	ReconciledWith            uint             `json:"reconciled_with"`
	ReconciledAt              *time.Time       `json:"reconciled_at"`
	CreatedBy                 uint             `json:"created_by"`
	CreatedAt                 time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentVoucher) TableName() string { return "payment_vouchers" }

// Intermediary reports whether the voucher routes through a clearing account
// and is therefore a candidate for reconciliation matching.
func (v *PaymentVoucher) Intermediary() bool {
	return v.DestinationType == CounterpartyIntermediary
}

type NewPaymentVoucher struct {
	VoucherDate               string           `json:"voucher_date" binding:"required"`
	Amount                    string           `json:"amount" binding:"required"`
	Currency                  string           `json:"currency"`
	TreasuryID                uint             `json:"treasury_id" binding:"required"`
	DestinationType           CounterpartyType `json:"destination_type" binding:"required"`
	DestinationName           string           `json:"destination_name"`
	DestinationIntermediaryID uint             `json:"destination_intermediary_id"`
	Description               string           `json:"description"`
	Attachments               datatypes.JSON   `json:"attachments"`
}

// PaymentVoucherPatch carries the draft-only updatable fields. Nil means
// "leave unchanged".
type PaymentVoucherPatch struct {
	VoucherDate               *string           `json:"voucher_date"`
	Amount                    *string           `json:"amount"`
	TreasuryID                *uint             `json:"treasury_id"`
	DestinationType           *CounterpartyType `json:"destination_type"`
	DestinationName           *string           `json:"destination_name"`
	DestinationIntermediaryID *uint             `json:"destination_intermediary_id"`
	Description               *string           `json:"description"`
}
