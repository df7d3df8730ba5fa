package repository

import (
	"context"
	"errors"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reconciliationRepo struct {
	db *gorm.DB
}

func (r *reconciliationRepo) Create(ctx context.Context, rec *models.Reconciliation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *reconciliationRepo) Get(ctx context.Context, businessID, id uint) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("reconciliation", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *reconciliationRepo) GetForUpdate(ctx context.Context, businessID, id uint) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("reconciliation", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *reconciliationRepo) Save(ctx context.Context, rec *models.Reconciliation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *reconciliationRepo) List(ctx context.Context, businessID uint, status *models.ReconciliationStatus) ([]*models.Reconciliation, error) {
	var out []*models.Reconciliation
	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *reconciliationRepo) CountForVouchers(ctx context.Context, paymentID, receiptID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Reconciliation{}).
		Where("payment_voucher_id = ? OR receipt_voucher_id = ?", paymentID, receiptID).
		Count(&n).Error
	return n, err
}

func (r *reconciliationRepo) HasOpenForPayment(ctx context.Context, paymentID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Reconciliation{}).
		Where("payment_voucher_id = ? AND status <> ?", paymentID, models.ReconciliationRejected).
		Count(&n).Error
	return n > 0, err
}

var _ ReconciliationRepository = (*reconciliationRepo)(nil)
