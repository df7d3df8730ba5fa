package repository

import (
	"context"
	"errors"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"

	"gorm.io/gorm"
)

type intermediaryRepo struct {
	db *gorm.DB
}

func (r *intermediaryRepo) Create(ctx context.Context, a *models.IntermediaryAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *intermediaryRepo) Get(ctx context.Context, businessID, id uint) (*models.IntermediaryAccount, error) {
	var a models.IntermediaryAccount
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("intermediary account", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *intermediaryRepo) FindByCode(ctx context.Context, businessID uint, code string) (*models.IntermediaryAccount, error) {
	var a models.IntermediaryAccount
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND code = ?", businessID, code).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *intermediaryRepo) List(ctx context.Context, businessID uint) ([]*models.IntermediaryAccount, error) {
	var out []*models.IntermediaryAccount
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("code").
		Find(&out).Error
	return out, err
}

var _ IntermediaryRepository = (*intermediaryRepo)(nil)
