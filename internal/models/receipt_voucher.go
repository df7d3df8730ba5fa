package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ReceiptVoucher is the inbound counterpart of PaymentVoucher: funds received
// into a treasury from a person, entity or intermediary clearing account.
type ReceiptVoucher struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	BusinessID           uint             `gorm:"not null;uniqueIndex:idx_rv_number" json:"business_id"`
	VoucherNumber        string           `gorm:"size:50;not null;uniqueIndex:idx_rv_number" json:"voucher_number"`
	VoucherDate          time.Time        `gorm:"index;not null" json:"voucher_date"`
	Amount               decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency             string           `gorm:"size:10;default:SAR" json:"currency"`
	TreasuryID           uint             `gorm:"index;not null" json:"treasury_id"`
	SourceType           CounterpartyType `gorm:"size:20;not null" json:"source_type"`
	SourceName           string           `gorm:"size:255" json:"source_name"`
	SourceIntermediaryID uint             `gorm:"index" json:"source_intermediary_id"`
	Description          string           `gorm:"type:text" json:"description"`
	Attachments          datatypes.JSON   `json:"attachments"`
	Status               VoucherStatus    `gorm:"size:12;default:draft;index" json:"status"`
	IsReconciled         bool             `gorm:"default:false;index" json:"is_reconciled"`
	ReconciledWith       uint             `json:"reconciled_with"`
	ReconciledAt         *time.Time       `json:"reconciled_at"`
	CreatedBy            uint             `json:"created_by"`
	CreatedAt            time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReceiptVoucher) TableName() string { return "receipt_vouchers" }

func (v *ReceiptVoucher) Intermediary() bool {
	return v.SourceType == CounterpartyIntermediary
}

type NewReceiptVoucher struct {
	VoucherDate          string           `json:"voucher_date" binding:"required"`
	Amount               string           `json:"amount" binding:"required"`
	Currency             string           `json:"currency"`
	TreasuryID           uint             `json:"treasury_id" binding:"required"`
	SourceType           CounterpartyType `json:"source_type" binding:"required"`
	SourceName           string           `json:"source_name"`
	SourceIntermediaryID uint             `json:"source_intermediary_id"`
	Description          string           `json:"description"`
	Attachments          datatypes.JSON   `json:"attachments"`
}

type ReceiptVoucherPatch struct {
	VoucherDate          *string           `json:"voucher_date"`
	Amount               *string           `json:"amount"`
	TreasuryID           *uint             `json:"treasury_id"`
	SourceType           *CounterpartyType `json:"source_type"`
	SourceName           *string           `json:"source_name"`
	SourceIntermediaryID *uint             `json:"source_intermediary_id"`
	Description          *string           `json:"description"`
}
