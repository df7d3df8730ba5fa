package repository

import (
	"context"
	"errors"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"

	"gorm.io/gorm"
)

type voucherRepo struct {
	db *gorm.DB
}

func (r *voucherRepo) CreatePayment(ctx context.Context, v *models.PaymentVoucher) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *voucherRepo) GetPayment(ctx context.Context, businessID, id uint) (*models.PaymentVoucher, error) {
	var v models.PaymentVoucher
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payment voucher", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voucherRepo) SavePayment(ctx context.Context, v *models.PaymentVoucher) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *voucherRepo) DeletePayment(ctx context.Context, businessID, id uint) error {
	return r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Delete(&models.PaymentVoucher{}, id).Error
}

func (r *voucherRepo) ListPayments(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.PaymentVoucher, error) {
	var out []*models.PaymentVoucher
	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("voucher_date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *voucherRepo) UnreconciledIntermediaryPayments(ctx context.Context, businessID uint) ([]*models.PaymentVoucher, error) {
	var out []*models.PaymentVoucher
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND status = ? AND is_reconciled = ? AND destination_type = ?",
			businessID, models.VoucherStatusConfirmed, false, models.CounterpartyIntermediary).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *voucherRepo) CreateReceipt(ctx context.Context, v *models.ReceiptVoucher) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *voucherRepo) GetReceipt(ctx context.Context, businessID, id uint) (*models.ReceiptVoucher, error) {
	var v models.ReceiptVoucher
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("receipt voucher", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voucherRepo) SaveReceipt(ctx context.Context, v *models.ReceiptVoucher) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *voucherRepo) DeleteReceipt(ctx context.Context, businessID, id uint) error {
	return r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Delete(&models.ReceiptVoucher{}, id).Error
}

func (r *voucherRepo) ListReceipts(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.ReceiptVoucher, error) {
	var out []*models.ReceiptVoucher
	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("voucher_date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *voucherRepo) UnreconciledIntermediaryReceipts(ctx context.Context, businessID uint) ([]*models.ReceiptVoucher, error) {
	var out []*models.ReceiptVoucher
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND status = ? AND is_reconciled = ? AND source_type = ?",
			businessID, models.VoucherStatusConfirmed, false, models.CounterpartyIntermediary).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

var _ VoucherRepository = (*voucherRepo)(nil)
