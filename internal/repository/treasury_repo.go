package repository

import (
	"context"
	"errors"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type treasuryRepo struct {
	db *gorm.DB
}

func (r *treasuryRepo) Create(ctx context.Context, t *models.Treasury) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *treasuryRepo) Get(ctx context.Context, businessID, id uint) (*models.Treasury, error) {
	var t models.Treasury
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("treasury", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *treasuryRepo) GetForUpdate(ctx context.Context, businessID, id uint) (*models.Treasury, error) {
	var t models.Treasury
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("treasury", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *treasuryRepo) List(ctx context.Context, businessID uint) ([]*models.Treasury, error) {
	var out []*models.Treasury
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("code").
		Find(&out).Error
	return out, err
}

func (r *treasuryRepo) CountByCode(ctx context.Context, businessID uint, code string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Treasury{}).
		Where("business_id = ? AND code = ?", businessID, code).
		Count(&n).Error
	return n, err
}

func (r *treasuryRepo) SetBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&models.Treasury{}).
		Where("id = ?", id).
		Update("current_balance", balance).Error
}

var _ TreasuryRepository = (*treasuryRepo)(nil)
