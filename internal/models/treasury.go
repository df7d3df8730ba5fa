package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Treasury is a named money-holding account (cash box, bank account,
// e-wallet or exchange office). CurrentBalance is only ever written by
// voucher confirmation and AdjustBalance; no other code touches it.
type Treasury struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	BusinessID     uint            `gorm:"not null;uniqueIndex:idx_treasury_code" json:"business_id"`
	Code           string          `gorm:"size:20;not null;uniqueIndex:idx_treasury_code" json:"code"`
	NameAr         string          `gorm:"size:255;not null" json:"name_ar"`
	NameEn         string          `gorm:"size:255" json:"name_en"`
	TreasuryType   TreasuryType    `gorm:"size:12;not null;index" json:"treasury_type"`
	BankName       string          `gorm:"size:255" json:"bank_name"`
	AccountNumber  string          `gorm:"size:100" json:"account_number"`
	IBAN           string          `gorm:"size:50" json:"iban"`
	WalletProvider string          `gorm:"size:100" json:"wallet_provider"`
	Currency       string          `gorm:"size:10;default:SAR" json:"currency"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"opening_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"current_balance"`
	Description    string          `gorm:"type:text" json:"description"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedBy      uint            `json:"created_by"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Treasury) TableName() string { return "treasuries" }

type NewTreasury struct {
	Code           string       `json:"code" binding:"required"`
	NameAr         string       `json:"name_ar" binding:"required"`
	NameEn         string       `json:"name_en"`
	TreasuryType   TreasuryType `json:"treasury_type" binding:"required"`
	BankName       string       `json:"bank_name"`
	AccountNumber  string       `json:"account_number"`
	IBAN           string       `json:"iban"`
	WalletProvider string       `json:"wallet_provider"`
	Currency       string       `json:"currency"`
	OpeningBalance string       `json:"opening_balance"`
	Description    string       `json:"description"`
}
