// Package treasury owns treasury accounts and their balances. Every balance
// write in the system goes through AdjustWithin, inside a transaction that
// holds the treasury row lock.
package treasury

import (
	"context"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store repository.Store
	log   *logrus.Logger

	// enforceFloor rejects adjustments that would take a balance negative.
	// Off by default: wallet and exchange treasuries legitimately run
	// negative while transfers are in flight.
	enforceFloor bool
}

func NewService(store repository.Store, log *logrus.Logger, enforceFloor bool) *Service {
	return &Service{store: store, log: log, enforceFloor: enforceFloor}
}

func (s *Service) Create(ctx context.Context, businessID, createdBy uint, input *models.NewTreasury) (*models.Treasury, error) {
	if !input.TreasuryType.Valid() {
		return nil, apperrors.Validation("treasury_type", "must be cash, bank, wallet or exchange")
	}
	opening := decimal.Zero
	if input.OpeningBalance != "" {
		var err error
		opening, err = decimal.NewFromString(input.OpeningBalance)
		if err != nil {
			return nil, apperrors.Validation("opening_balance", "not a valid decimal")
		}
	}
	currency := input.Currency
	if currency == "" {
		currency = "SAR"
	}

	n, err := s.store.Treasuries().CountByCode(ctx, businessID, input.Code)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperrors.Validation("code", "already in use")
	}

	t := &models.Treasury{
		BusinessID:     businessID,
		Code:           input.Code,
		NameAr:         input.NameAr,
		NameEn:         input.NameEn,
		TreasuryType:   input.TreasuryType,
		BankName:       input.BankName,
		AccountNumber:  input.AccountNumber,
		IBAN:           input.IBAN,
		WalletProvider: input.WalletProvider,
		Currency:       currency,
		OpeningBalance: opening,
		CurrentBalance: opening,
		Description:    input.Description,
		IsActive:       true,
		CreatedBy:      createdBy,
	}
	if err := s.store.Treasuries().Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"business_id": businessID,
		"treasury_id": t.ID,
		"code":        t.Code,
	}).Info("treasury created")
	return t, nil
}

func (s *Service) Get(ctx context.Context, businessID, id uint) (*models.Treasury, error) {
	return s.store.Treasuries().Get(ctx, businessID, id)
}

func (s *Service) List(ctx context.Context, businessID uint) ([]*models.Treasury, error) {
	return s.store.Treasuries().List(ctx, businessID)
}

// AdjustBalance applies a single add/subtract to a treasury inside its own
// transaction and returns the new balance.
func (s *Service) AdjustBalance(ctx context.Context, businessID, id uint, amount decimal.Decimal, op models.BalanceOperation) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		newBalance, err = s.AdjustWithin(ctx, tx, businessID, id, amount, op)
		return err
	})
	return newBalance, err
}

// AdjustWithin performs the locked read-modify-write against tx, which must
// be a transactional store. Voucher confirmation calls this so the balance
// move and the status flip commit or roll back together.
func (s *Service) AdjustWithin(ctx context.Context, tx repository.Store, businessID, id uint, amount decimal.Decimal, op models.BalanceOperation) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperrors.Validation("amount", "must not be negative")
	}
	t, err := tx.Treasuries().GetForUpdate(ctx, businessID, id)
	if err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	switch op {
	case models.BalanceAdd:
		newBalance = t.CurrentBalance.Add(amount)
	case models.BalanceSubtract:
		newBalance = t.CurrentBalance.Sub(amount)
	default:
		return decimal.Zero, apperrors.Validation("operation", "must be add or subtract")
	}

	if s.enforceFloor && newBalance.IsNegative() {
		return decimal.Zero, apperrors.InsufficientBalance(id)
	}
	if err := tx.Treasuries().SetBalance(ctx, id, newBalance); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
