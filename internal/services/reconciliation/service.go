// Package reconciliation runs the clearing matcher and resolves its
// proposals. Confirming a proposal is the only code path that ever sets
// voucher reconciliation flags.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/events"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository"
	"treasury-clearing-backend/internal/services/matching"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const matchLockTTL = 30 * time.Second

type Service struct {
	store     repository.Store
	strategy  matching.Strategy
	publisher events.Publisher
	log       *logrus.Logger

	// locker serializes AutoMatch runs per business across instances.
	// Nil when redis is not configured; the partial unique index on open
	// reconciliations still prevents duplicate claims, the lock just
	// avoids wasted scans.
	locker *redislock.Client
}

func NewService(store repository.Store, strategy matching.Strategy, publisher events.Publisher, locker *redislock.Client, log *logrus.Logger) *Service {
	return &Service{store: store, strategy: strategy, publisher: publisher, locker: locker, log: log}
}

// AutoMatch scans the business's confirmed, unreconciled intermediary
// vouchers and persists one pending reconciliation per proposed pair.
// Payments already claimed by a non-rejected reconciliation are skipped, so
// repeated runs are idempotent. Returns the number of rows created.
func (s *Service) AutoMatch(ctx context.Context, businessID, requestedBy uint) (int, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, fmt.Sprintf("clearing-match:%d", businessID), matchLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return 0, fmt.Errorf("auto-match already running for business %d", businessID)
		}
		if err != nil {
			return 0, err
		}
		defer func() { _ = lock.Release(ctx) }()
	}

	payments, err := s.store.Vouchers().UnreconciledIntermediaryPayments(ctx, businessID)
	if err != nil {
		return 0, err
	}
	receipts, err := s.store.Vouchers().UnreconciledIntermediaryReceipts(ctx, businessID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, candidate := range s.strategy.Match(payments, receipts) {
		open, err := s.store.Reconciliations().HasOpenForPayment(ctx, candidate.Payment.ID)
		if err != nil {
			return created, err
		}
		if open {
			continue
		}
		rec := &models.Reconciliation{
			BusinessID:       businessID,
			PaymentVoucherID: candidate.Payment.ID,
			ReceiptVoucherID: candidate.Receipt.ID,
			Amount:           candidate.Payment.Amount,
			Currency:         candidate.Payment.Currency,
			ConfidenceScore:  candidate.Confidence,
			Status:           models.ReconciliationPending,
		}
		if err := s.store.Reconciliations().Create(ctx, rec); err != nil {
			// A concurrent run claimed the payment between the check and
			// the insert; the unique index on open rows rejects ours.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return created, err
		}
		created++
	}

	s.log.WithFields(logrus.Fields{
		"business_id":  businessID,
		"requested_by": requestedBy,
		"payments":     len(payments),
		"receipts":     len(receipts),
		"created":      created,
	}).Info("auto-match pass finished")
	return created, nil
}

// Confirm resolves a pending reconciliation: the reconciliation row and both
// voucher rows change in one transaction, and a terminal reconciliation can
// never be re-applied.
func (s *Service) Confirm(ctx context.Context, businessID, id, confirmedBy uint) error {
	var confirmed models.Reconciliation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		rec, err := tx.Reconciliations().GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if rec.Status.Terminal() {
			return apperrors.AlreadyResolved(id, string(rec.Status))
		}

		payment, err := tx.Vouchers().GetPayment(ctx, businessID, rec.PaymentVoucherID)
		if err != nil {
			return err
		}
		receipt, err := tx.Vouchers().GetReceipt(ctx, businessID, rec.ReceiptVoucherID)
		if err != nil {
			return err
		}
		if payment.IsReconciled {
			return apperrors.Validation("payment_voucher_id", fmt.Sprintf("voucher %d is already reconciled", payment.ID))
		}
		if receipt.IsReconciled {
			return apperrors.Validation("receipt_voucher_id", fmt.Sprintf("voucher %d is already reconciled", receipt.ID))
		}

		now := time.Now().UTC()
		rec.Status = models.ReconciliationConfirmed
		rec.ConfirmedBy = confirmedBy
		rec.ConfirmedAt = &now
		if err := tx.Reconciliations().Save(ctx, rec); err != nil {
			return err
		}

		payment.IsReconciled = true
		payment.ReconciledWith = receipt.ID
		payment.ReconciledAt = &now
		if err := tx.Vouchers().SavePayment(ctx, payment); err != nil {
			return err
		}

		receipt.IsReconciled = true
		receipt.ReconciledWith = payment.ID
		receipt.ReconciledAt = &now
		if err := tx.Vouchers().SaveReceipt(ctx, receipt); err != nil {
			return err
		}
		confirmed = *rec
		return nil
	})
	if err != nil {
		return err
	}

	e := events.New(events.TypeReconciliationConfirmed, businessID, events.ReconciliationConfirmedPayload{
		ReconciliationID: confirmed.ID,
		PaymentVoucherID: confirmed.PaymentVoucherID,
		ReceiptVoucherID: confirmed.ReceiptVoucherID,
		Amount:           confirmed.Amount.StringFixed(2),
		Currency:         confirmed.Currency,
		ConfidenceScore:  string(confirmed.ConfidenceScore),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.WithError(err).WithField("event_type", e.Type).Warn("event publish failed")
	}
	return nil
}

// Reject marks the reconciliation rejected and leaves both vouchers
// untouched, so a later matcher pass (or manual pairing) can reconsider them.
func (s *Service) Reject(ctx context.Context, businessID, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		rec, err := tx.Reconciliations().GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if rec.Status.Terminal() {
			return apperrors.AlreadyResolved(id, string(rec.Status))
		}
		rec.Status = models.ReconciliationRejected
		return tx.Reconciliations().Save(ctx, rec)
	})
}

func (s *Service) Get(ctx context.Context, businessID, id uint) (*models.Reconciliation, error) {
	return s.store.Reconciliations().Get(ctx, businessID, id)
}

func (s *Service) List(ctx context.Context, businessID uint, status *models.ReconciliationStatus) ([]*models.Reconciliation, error) {
	return s.store.Reconciliations().List(ctx, businessID, status)
}
