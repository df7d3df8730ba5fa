// Package voucher enforces the payment/receipt voucher lifecycle:
// draft -> confirmed, with the treasury balance move and the status flip
// applied as one transaction. Confirmed vouchers are immutable financial
// records; corrections happen through offsetting vouchers, not edits.
package voucher

import (
	"context"
	"fmt"
	"time"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/events"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository"
	"treasury-clearing-backend/internal/services/treasury"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Service struct {
	store      repository.Store
	treasuries *treasury.Service
	publisher  events.Publisher
	log        *logrus.Logger
}

func NewService(store repository.Store, treasuries *treasury.Service, publisher events.Publisher, log *logrus.Logger) *Service {
	return &Service{store: store, treasuries: treasuries, publisher: publisher, log: log}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.Validation("amount", "not a valid decimal")
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.Validation("amount", "must be greater than zero")
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.Validation("voucher_date", "expected YYYY-MM-DD")
	}
	return d, nil
}

// validateCounterparty checks the classification kind and that intermediary
// vouchers reference an existing clearing account (the matcher keys on it).
func (s *Service) validateCounterparty(ctx context.Context, businessID uint, kind models.CounterpartyType, name string, intermediaryID uint) error {
	if !kind.Valid() {
		return apperrors.Validation("counterparty_type", "must be person, entity, intermediary or other")
	}
	if kind == models.CounterpartyIntermediary {
		if intermediaryID == 0 {
			return apperrors.Validation("intermediary_id", "required for intermediary vouchers")
		}
		if _, err := s.store.Intermediaries().Get(ctx, businessID, intermediaryID); err != nil {
			return err
		}
		return nil
	}
	if name == "" {
		return apperrors.Validation("counterparty_name", "required for non-intermediary vouchers")
	}
	return nil
}

func (s *Service) CreatePayment(ctx context.Context, businessID, createdBy uint, input *models.NewPaymentVoucher) (*models.PaymentVoucher, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := s.validateCounterparty(ctx, businessID, input.DestinationType, input.DestinationName, input.DestinationIntermediaryID); err != nil {
		return nil, err
	}
	if _, err := s.store.Treasuries().Get(ctx, businessID, input.TreasuryID); err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = "SAR"
	}

	v := &models.PaymentVoucher{
		BusinessID:                businessID,
		VoucherDate:               date,
		Amount:                    amount,
		Currency:                  currency,
		TreasuryID:                input.TreasuryID,
		DestinationType:           input.DestinationType,
		DestinationName:           input.DestinationName,
		DestinationIntermediaryID: input.DestinationIntermediaryID,
		Description:               input.Description,
		Attachments:               input.Attachments,
		Status:                    models.VoucherStatusDraft,
		CreatedBy:                 createdBy,
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		seq, err := tx.Sequences().NextNumber(ctx, businessID, models.KindPayment)
		if err != nil {
			return err
		}
		v.VoucherNumber = fmt.Sprintf("%s-%06d", models.KindPayment, seq)
		return tx.Vouchers().CreatePayment(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) CreateReceipt(ctx context.Context, businessID, createdBy uint, input *models.NewReceiptVoucher) (*models.ReceiptVoucher, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := s.validateCounterparty(ctx, businessID, input.SourceType, input.SourceName, input.SourceIntermediaryID); err != nil {
		return nil, err
	}
	if _, err := s.store.Treasuries().Get(ctx, businessID, input.TreasuryID); err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = "SAR"
	}

	v := &models.ReceiptVoucher{
		BusinessID:           businessID,
		VoucherDate:          date,
		Amount:               amount,
		Currency:             currency,
		TreasuryID:           input.TreasuryID,
		SourceType:           input.SourceType,
		SourceName:           input.SourceName,
		SourceIntermediaryID: input.SourceIntermediaryID,
		Description:          input.Description,
		Attachments:          input.Attachments,
		Status:               models.VoucherStatusDraft,
		CreatedBy:            createdBy,
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		seq, err := tx.Sequences().NextNumber(ctx, businessID, models.KindReceipt)
		if err != nil {
			return err
		}
		v.VoucherNumber = fmt.Sprintf("%s-%06d", models.KindReceipt, seq)
		return tx.Vouchers().CreateReceipt(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) UpdatePayment(ctx context.Context, businessID, id uint, patch *models.PaymentVoucherPatch) (*models.PaymentVoucher, error) {
	v, err := s.store.Vouchers().GetPayment(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if v.Status == models.VoucherStatusConfirmed {
		return nil, apperrors.VoucherLocked(id)
	}

	if patch.Amount != nil {
		amount, err := parseAmount(*patch.Amount)
		if err != nil {
			return nil, err
		}
		v.Amount = amount
	}
	if patch.VoucherDate != nil {
		date, err := parseDate(*patch.VoucherDate)
		if err != nil {
			return nil, err
		}
		v.VoucherDate = date
	}
	if patch.TreasuryID != nil {
		if _, err := s.store.Treasuries().Get(ctx, businessID, *patch.TreasuryID); err != nil {
			return nil, err
		}
		v.TreasuryID = *patch.TreasuryID
	}
	if patch.DestinationType != nil {
		v.DestinationType = *patch.DestinationType
	}
	if patch.DestinationName != nil {
		v.DestinationName = *patch.DestinationName
	}
	if patch.DestinationIntermediaryID != nil {
		v.DestinationIntermediaryID = *patch.DestinationIntermediaryID
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if err := s.validateCounterparty(ctx, businessID, v.DestinationType, v.DestinationName, v.DestinationIntermediaryID); err != nil {
		return nil, err
	}
	if err := s.store.Vouchers().SavePayment(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) UpdateReceipt(ctx context.Context, businessID, id uint, patch *models.ReceiptVoucherPatch) (*models.ReceiptVoucher, error) {
	v, err := s.store.Vouchers().GetReceipt(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if v.Status == models.VoucherStatusConfirmed {
		return nil, apperrors.VoucherLocked(id)
	}

	if patch.Amount != nil {
		amount, err := parseAmount(*patch.Amount)
		if err != nil {
			return nil, err
		}
		v.Amount = amount
	}
	if patch.VoucherDate != nil {
		date, err := parseDate(*patch.VoucherDate)
		if err != nil {
			return nil, err
		}
		v.VoucherDate = date
	}
	if patch.TreasuryID != nil {
		if _, err := s.store.Treasuries().Get(ctx, businessID, *patch.TreasuryID); err != nil {
			return nil, err
		}
		v.TreasuryID = *patch.TreasuryID
	}
	if patch.SourceType != nil {
		v.SourceType = *patch.SourceType
	}
	if patch.SourceName != nil {
		v.SourceName = *patch.SourceName
	}
	if patch.SourceIntermediaryID != nil {
		v.SourceIntermediaryID = *patch.SourceIntermediaryID
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if err := s.validateCounterparty(ctx, businessID, v.SourceType, v.SourceName, v.SourceIntermediaryID); err != nil {
		return nil, err
	}
	if err := s.store.Vouchers().SaveReceipt(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ConfirmPayment debits the treasury and flips the voucher to confirmed in
// one transaction. Confirming an already-confirmed voucher fails; the balance
// moves exactly once per voucher.
func (s *Service) ConfirmPayment(ctx context.Context, businessID, id uint) error {
	var confirmed models.PaymentVoucher
	var newBalance decimal.Decimal
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		v, err := tx.Vouchers().GetPayment(ctx, businessID, id)
		if err != nil {
			return err
		}
		if v.Status == models.VoucherStatusConfirmed {
			return apperrors.VoucherLocked(id)
		}
		newBalance, err = s.treasuries.AdjustWithin(ctx, tx, businessID, v.TreasuryID, v.Amount, models.BalanceSubtract)
		if err != nil {
			return err
		}
		v.Status = models.VoucherStatusConfirmed
		if err := tx.Vouchers().SavePayment(ctx, v); err != nil {
			return err
		}
		confirmed = *v
		return nil
	})
	if err != nil {
		return err
	}
	s.publishConfirmed(ctx, businessID, confirmed.ID, confirmed.VoucherNumber, string(models.KindPayment),
		confirmed.TreasuryID, confirmed.Amount, confirmed.Currency, newBalance)
	return nil
}

// ConfirmReceipt credits the treasury; otherwise identical to ConfirmPayment.
func (s *Service) ConfirmReceipt(ctx context.Context, businessID, id uint) error {
	var confirmed models.ReceiptVoucher
	var newBalance decimal.Decimal
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		v, err := tx.Vouchers().GetReceipt(ctx, businessID, id)
		if err != nil {
			return err
		}
		if v.Status == models.VoucherStatusConfirmed {
			return apperrors.VoucherLocked(id)
		}
		newBalance, err = s.treasuries.AdjustWithin(ctx, tx, businessID, v.TreasuryID, v.Amount, models.BalanceAdd)
		if err != nil {
			return err
		}
		v.Status = models.VoucherStatusConfirmed
		if err := tx.Vouchers().SaveReceipt(ctx, v); err != nil {
			return err
		}
		confirmed = *v
		return nil
	})
	if err != nil {
		return err
	}
	s.publishConfirmed(ctx, businessID, confirmed.ID, confirmed.VoucherNumber, string(models.KindReceipt),
		confirmed.TreasuryID, confirmed.Amount, confirmed.Currency, newBalance)
	return nil
}

func (s *Service) DeletePayment(ctx context.Context, businessID, id uint) error {
	v, err := s.store.Vouchers().GetPayment(ctx, businessID, id)
	if err != nil {
		return err
	}
	if v.Status == models.VoucherStatusConfirmed {
		return apperrors.VoucherLocked(id)
	}
	n, err := s.store.Reconciliations().CountForVouchers(ctx, id, 0)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.HasReconciliation(id)
	}
	return s.store.Vouchers().DeletePayment(ctx, businessID, id)
}

func (s *Service) DeleteReceipt(ctx context.Context, businessID, id uint) error {
	v, err := s.store.Vouchers().GetReceipt(ctx, businessID, id)
	if err != nil {
		return err
	}
	if v.Status == models.VoucherStatusConfirmed {
		return apperrors.VoucherLocked(id)
	}
	n, err := s.store.Reconciliations().CountForVouchers(ctx, 0, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.HasReconciliation(id)
	}
	return s.store.Vouchers().DeleteReceipt(ctx, businessID, id)
}

func (s *Service) GetPayment(ctx context.Context, businessID, id uint) (*models.PaymentVoucher, error) {
	return s.store.Vouchers().GetPayment(ctx, businessID, id)
}

func (s *Service) GetReceipt(ctx context.Context, businessID, id uint) (*models.ReceiptVoucher, error) {
	return s.store.Vouchers().GetReceipt(ctx, businessID, id)
}

func (s *Service) ListPayments(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.PaymentVoucher, error) {
	return s.store.Vouchers().ListPayments(ctx, businessID, status)
}

func (s *Service) ListReceipts(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.ReceiptVoucher, error) {
	return s.store.Vouchers().ListReceipts(ctx, businessID, status)
}

// CreateTransfer moves money between two treasuries of the same business via
// an intermediary clearing account: a confirmed payment voucher out of the
// source and a confirmed receipt voucher into the destination, both balance
// moves in the same transaction. The pair is left unreconciled so the
// clearing matcher proposes it on the next pass.
func (s *Service) CreateTransfer(ctx context.Context, businessID, createdBy uint, input *models.NewTransfer) (*models.TransferResult, error) {
	if input.FromTreasuryID == input.ToTreasuryID {
		return nil, apperrors.Validation("to_treasury_id", "must differ from from_treasury_id")
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.TransferDate)
	if err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = "SAR"
	}
	if _, err := s.store.Treasuries().Get(ctx, businessID, input.FromTreasuryID); err != nil {
		return nil, err
	}
	if _, err := s.store.Treasuries().Get(ctx, businessID, input.ToTreasuryID); err != nil {
		return nil, err
	}

	account, err := s.findOrCreateIntermediary(ctx, businessID, input.FromTreasuryID, input.ToTreasuryID, currency)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = "تحويل بين الخزائن"
	}

	payment := &models.PaymentVoucher{
		BusinessID:                businessID,
		VoucherDate:               date,
		Amount:                    amount,
		Currency:                  currency,
		TreasuryID:                input.FromTreasuryID,
		DestinationType:           models.CounterpartyIntermediary,
		DestinationName:           account.NameAr,
		DestinationIntermediaryID: account.ID,
		Description:               description,
		Status:                    models.VoucherStatusConfirmed,
		CreatedBy:                 createdBy,
	}
	receipt := &models.ReceiptVoucher{
		BusinessID:           businessID,
		VoucherDate:          date,
		Amount:               amount,
		Currency:             currency,
		TreasuryID:           input.ToTreasuryID,
		SourceType:           models.CounterpartyIntermediary,
		SourceName:           account.NameAr,
		SourceIntermediaryID: account.ID,
		Description:          description,
		Status:               models.VoucherStatusConfirmed,
		CreatedBy:            createdBy,
	}

	var fromBalance, toBalance decimal.Decimal
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		paySeq, err := tx.Sequences().NextNumber(ctx, businessID, models.KindPayment)
		if err != nil {
			return err
		}
		payment.VoucherNumber = fmt.Sprintf("%s-%06d", models.KindPayment, paySeq)
		if err := tx.Vouchers().CreatePayment(ctx, payment); err != nil {
			return err
		}

		rcvSeq, err := tx.Sequences().NextNumber(ctx, businessID, models.KindReceipt)
		if err != nil {
			return err
		}
		receipt.VoucherNumber = fmt.Sprintf("%s-%06d", models.KindReceipt, rcvSeq)
		if err := tx.Vouchers().CreateReceipt(ctx, receipt); err != nil {
			return err
		}

		fromBalance, err = s.treasuries.AdjustWithin(ctx, tx, businessID, input.FromTreasuryID, amount, models.BalanceSubtract)
		if err != nil {
			return err
		}
		toBalance, err = s.treasuries.AdjustWithin(ctx, tx, businessID, input.ToTreasuryID, amount, models.BalanceAdd)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishConfirmed(ctx, businessID, payment.ID, payment.VoucherNumber, string(models.KindPayment),
		payment.TreasuryID, amount, currency, fromBalance)
	s.publishConfirmed(ctx, businessID, receipt.ID, receipt.VoucherNumber, string(models.KindReceipt),
		receipt.TreasuryID, amount, currency, toBalance)

	return &models.TransferResult{
		PaymentVoucherID:      payment.ID,
		PaymentVoucherNumber:  payment.VoucherNumber,
		ReceiptVoucherID:      receipt.ID,
		ReceiptVoucherNumber:  receipt.VoucherNumber,
		IntermediaryAccountID: account.ID,
	}, nil
}

func (s *Service) findOrCreateIntermediary(ctx context.Context, businessID, fromID, toID uint, currency string) (*models.IntermediaryAccount, error) {
	code := fmt.Sprintf("INT-%d-%d", fromID, toID)
	account, err := s.store.Intermediaries().FindByCode(ctx, businessID, code)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	account = &models.IntermediaryAccount{
		BusinessID: businessID,
		Code:       code,
		NameAr:     fmt.Sprintf("حساب وسيط %d-%d", fromID, toID),
		NameEn:     fmt.Sprintf("Transfer clearing %d-%d", fromID, toID),
		Currency:   currency,
		IsActive:   true,
	}
	if err := s.store.Intermediaries().Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) CreateIntermediary(ctx context.Context, businessID uint, input *models.NewIntermediaryAccount) (*models.IntermediaryAccount, error) {
	existing, err := s.store.Intermediaries().FindByCode(ctx, businessID, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("code", "already in use")
	}
	currency := input.Currency
	if currency == "" {
		currency = "SAR"
	}
	account := &models.IntermediaryAccount{
		BusinessID: businessID,
		Code:       input.Code,
		NameAr:     input.NameAr,
		NameEn:     input.NameEn,
		Currency:   currency,
		IsActive:   true,
	}
	if err := s.store.Intermediaries().Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) GetIntermediary(ctx context.Context, businessID, id uint) (*models.IntermediaryAccount, error) {
	return s.store.Intermediaries().Get(ctx, businessID, id)
}

func (s *Service) ListIntermediaries(ctx context.Context, businessID uint) ([]*models.IntermediaryAccount, error) {
	return s.store.Intermediaries().List(ctx, businessID)
}

// publishConfirmed emits the post-commit event; delivery failures are logged
// and never fail the confirmation.
func (s *Service) publishConfirmed(ctx context.Context, businessID, voucherID uint, number, kind string, treasuryID uint, amount decimal.Decimal, currency string, newBalance decimal.Decimal) {
	e := events.New(events.TypeVoucherConfirmed, businessID, events.VoucherConfirmedPayload{
		VoucherID:     voucherID,
		VoucherNumber: number,
		VoucherKind:   kind,
		TreasuryID:    treasuryID,
		Amount:        amount.StringFixed(2),
		Currency:      currency,
		NewBalance:    newBalance.StringFixed(2),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.WithError(err).WithField("event_type", e.Type).Warn("event publish failed")
	}
}
