package memory

import (
	"context"
	"sort"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository"

	"gorm.io/gorm"
)

type voucherRepo struct{ s *Store }

func (r voucherRepo) CreatePayment(_ context.Context, v *models.PaymentVoucher) error {
	defer r.s.lock()()
	v.ID = r.s.data.nextPayment
	r.s.data.nextPayment++
	r.s.data.payments[v.ID] = *v
	return nil
}

func (r voucherRepo) GetPayment(_ context.Context, businessID, id uint) (*models.PaymentVoucher, error) {
	defer r.s.lock()()
	v, ok := r.s.data.payments[id]
	if !ok || v.BusinessID != businessID {
		return nil, apperrors.NotFound("payment voucher", id)
	}
	return &v, nil
}

func (r voucherRepo) SavePayment(_ context.Context, v *models.PaymentVoucher) error {
	defer r.s.lock()()
	if _, ok := r.s.data.payments[v.ID]; !ok {
		return apperrors.NotFound("payment voucher", v.ID)
	}
	r.s.data.payments[v.ID] = *v
	return nil
}

func (r voucherRepo) DeletePayment(_ context.Context, businessID, id uint) error {
	defer r.s.lock()()
	if v, ok := r.s.data.payments[id]; ok && v.BusinessID == businessID {
		delete(r.s.data.payments, id)
	}
	return nil
}

func (r voucherRepo) ListPayments(_ context.Context, businessID uint, status *models.VoucherStatus) ([]*models.PaymentVoucher, error) {
	defer r.s.lock()()
	var out []*models.PaymentVoucher
	for _, v := range r.s.data.payments {
		if v.BusinessID != businessID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VoucherDate.Equal(out[j].VoucherDate) {
			return out[i].VoucherDate.After(out[j].VoucherDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r voucherRepo) UnreconciledIntermediaryPayments(_ context.Context, businessID uint) ([]*models.PaymentVoucher, error) {
	defer r.s.lock()()
	var out []*models.PaymentVoucher
	for _, v := range r.s.data.payments {
		if v.BusinessID == businessID && v.Status == models.VoucherStatusConfirmed &&
			!v.IsReconciled && v.DestinationType == models.CounterpartyIntermediary {
			v := v
			out = append(out, &v)
		}
	}
	sortByID(out, func(v *models.PaymentVoucher) uint { return v.ID })
	return out, nil
}

func (r voucherRepo) CreateReceipt(_ context.Context, v *models.ReceiptVoucher) error {
	defer r.s.lock()()
	v.ID = r.s.data.nextReceipt
	r.s.data.nextReceipt++
	r.s.data.receipts[v.ID] = *v
	return nil
}

func (r voucherRepo) GetReceipt(_ context.Context, businessID, id uint) (*models.ReceiptVoucher, error) {
	defer r.s.lock()()
	v, ok := r.s.data.receipts[id]
	if !ok || v.BusinessID != businessID {
		return nil, apperrors.NotFound("receipt voucher", id)
	}
	return &v, nil
}

func (r voucherRepo) SaveReceipt(_ context.Context, v *models.ReceiptVoucher) error {
	defer r.s.lock()()
	if _, ok := r.s.data.receipts[v.ID]; !ok {
		return apperrors.NotFound("receipt voucher", v.ID)
	}
	r.s.data.receipts[v.ID] = *v
	return nil
}

func (r voucherRepo) DeleteReceipt(_ context.Context, businessID, id uint) error {
	defer r.s.lock()()
	if v, ok := r.s.data.receipts[id]; ok && v.BusinessID == businessID {
		delete(r.s.data.receipts, id)
	}
	return nil
}

func (r voucherRepo) ListReceipts(_ context.Context, businessID uint, status *models.VoucherStatus) ([]*models.ReceiptVoucher, error) {
	defer r.s.lock()()
	var out []*models.ReceiptVoucher
	for _, v := range r.s.data.receipts {
		if v.BusinessID != businessID {
			continue
		}
		if status != nil && v.Status != *status {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VoucherDate.Equal(out[j].VoucherDate) {
			return out[i].VoucherDate.After(out[j].VoucherDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r voucherRepo) UnreconciledIntermediaryReceipts(_ context.Context, businessID uint) ([]*models.ReceiptVoucher, error) {
	defer r.s.lock()()
	var out []*models.ReceiptVoucher
	for _, v := range r.s.data.receipts {
		if v.BusinessID == businessID && v.Status == models.VoucherStatusConfirmed &&
			!v.IsReconciled && v.SourceType == models.CounterpartyIntermediary {
			v := v
			out = append(out, &v)
		}
	}
	sortByID(out, func(v *models.ReceiptVoucher) uint { return v.ID })
	return out, nil
}

var _ repository.VoucherRepository = voucherRepo{}

type reconciliationRepo struct{ s *Store }

func (r reconciliationRepo) Create(_ context.Context, rec *models.Reconciliation) error {
	defer r.s.lock()()
	// Mirror the partial unique index: one non-rejected row per payment.
	if rec.Status != models.ReconciliationRejected {
		for _, existing := range r.s.data.recons {
			if existing.PaymentVoucherID == rec.PaymentVoucherID && existing.Status != models.ReconciliationRejected {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	rec.ID = r.s.data.nextRecon
	r.s.data.nextRecon++
	r.s.data.recons[rec.ID] = *rec
	return nil
}

func (r reconciliationRepo) Get(_ context.Context, businessID, id uint) (*models.Reconciliation, error) {
	defer r.s.lock()()
	rec, ok := r.s.data.recons[id]
	if !ok || rec.BusinessID != businessID {
		return nil, apperrors.NotFound("reconciliation", id)
	}
	return &rec, nil
}

func (r reconciliationRepo) GetForUpdate(ctx context.Context, businessID, id uint) (*models.Reconciliation, error) {
	return r.Get(ctx, businessID, id)
}

func (r reconciliationRepo) Save(_ context.Context, rec *models.Reconciliation) error {
	defer r.s.lock()()
	if _, ok := r.s.data.recons[rec.ID]; !ok {
		return apperrors.NotFound("reconciliation", rec.ID)
	}
	r.s.data.recons[rec.ID] = *rec
	return nil
}

func (r reconciliationRepo) List(_ context.Context, businessID uint, status *models.ReconciliationStatus) ([]*models.Reconciliation, error) {
	defer r.s.lock()()
	var out []*models.Reconciliation
	for _, rec := range r.s.data.recons {
		if rec.BusinessID != businessID {
			continue
		}
		if status != nil && rec.Status != *status {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r reconciliationRepo) CountForVouchers(_ context.Context, paymentID, receiptID uint) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, rec := range r.s.data.recons {
		if (paymentID != 0 && rec.PaymentVoucherID == paymentID) ||
			(receiptID != 0 && rec.ReceiptVoucherID == receiptID) {
			n++
		}
	}
	return n, nil
}

func (r reconciliationRepo) HasOpenForPayment(_ context.Context, paymentID uint) (bool, error) {
	defer r.s.lock()()
	for _, rec := range r.s.data.recons {
		if rec.PaymentVoucherID == paymentID && rec.Status != models.ReconciliationRejected {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.ReconciliationRepository = reconciliationRepo{}

type intermediaryRepo struct{ s *Store }

func (r intermediaryRepo) Create(_ context.Context, a *models.IntermediaryAccount) error {
	defer r.s.lock()()
	a.ID = r.s.data.nextIntermediary
	r.s.data.nextIntermediary++
	r.s.data.intermediaries[a.ID] = *a
	return nil
}

func (r intermediaryRepo) Get(_ context.Context, businessID, id uint) (*models.IntermediaryAccount, error) {
	defer r.s.lock()()
	a, ok := r.s.data.intermediaries[id]
	if !ok || a.BusinessID != businessID {
		return nil, apperrors.NotFound("intermediary account", id)
	}
	return &a, nil
}

func (r intermediaryRepo) FindByCode(_ context.Context, businessID uint, code string) (*models.IntermediaryAccount, error) {
	defer r.s.lock()()
	for _, a := range r.s.data.intermediaries {
		if a.BusinessID == businessID && a.Code == code {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r intermediaryRepo) List(_ context.Context, businessID uint) ([]*models.IntermediaryAccount, error) {
	defer r.s.lock()()
	var out []*models.IntermediaryAccount
	for _, a := range r.s.data.intermediaries {
		if a.BusinessID == businessID {
			a := a
			out = append(out, &a)
		}
	}
	sortByID(out, func(a *models.IntermediaryAccount) uint { return a.ID })
	return out, nil
}

var _ repository.IntermediaryRepository = intermediaryRepo{}
