package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntermediaryAccount is the routing party between a payment and a later
// receipt. Inter-treasury transfers create one per (from, to) treasury pair.
type IntermediaryAccount struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BusinessID uint            `gorm:"not null;uniqueIndex:idx_intermediary_code" json:"business_id"`
	Code       string          `gorm:"size:50;not null;uniqueIndex:idx_intermediary_code" json:"code"`
	NameAr     string          `gorm:"size:255;not null" json:"name_ar"`
	NameEn     string          `gorm:"size:255" json:"name_en"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"balance"`
	Currency   string          `gorm:"size:10;default:SAR" json:"currency"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IntermediaryAccount) TableName() string { return "intermediary_accounts" }

type NewIntermediaryAccount struct {
	Code     string `json:"code" binding:"required"`
	NameAr   string `json:"name_ar" binding:"required"`
	NameEn   string `json:"name_en"`
	Currency string `json:"currency"`
}
