package treasury

import (
	"context"
	"io"
	"testing"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(enforceFloor bool) (*Service, *memory.Store) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memory.NewStore()
	return NewService(store, log, enforceFloor), store
}

func mustCreate(t *testing.T, s *Service, businessID uint, code, opening string) *models.Treasury {
	t.Helper()
	tr, err := s.Create(context.Background(), businessID, 1, &models.NewTreasury{
		Code:           code,
		NameAr:         "الخزينة الرئيسية",
		NameEn:         "Main treasury",
		TreasuryType:   models.TreasuryTypeCash,
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return tr
}

func TestCreateSeedsBalanceAndDefaults(t *testing.T) {
	s, _ := newTestService(false)

	tr := mustCreate(t, s, 1, "TR-01", "10000.00")
	assert.Equal(t, "SAR", tr.Currency)
	assert.True(t, tr.IsActive)
	assert.True(t, tr.CurrentBalance.Equal(decimal.RequireFromString("10000.00")))
	assert.True(t, tr.OpeningBalance.Equal(tr.CurrentBalance))
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService(false)

	_, err := s.Create(context.Background(), 1, 1, &models.NewTreasury{Code: "TR-01", TreasuryType: "vault"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.Create(context.Background(), 1, 1, &models.NewTreasury{
		Code: "TR-01", TreasuryType: models.TreasuryTypeCash, OpeningBalance: "ten",
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	s, _ := newTestService(false)
	mustCreate(t, s, 1, "TR-01", "0")

	_, err := s.Create(context.Background(), 1, 1, &models.NewTreasury{
		Code: "TR-01", TreasuryType: models.TreasuryTypeBank,
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Same code under another business is fine.
	_, err = s.Create(context.Background(), 2, 1, &models.NewTreasury{
		Code: "TR-01", TreasuryType: models.TreasuryTypeBank,
	})
	assert.NoError(t, err)
}

func TestAdjustBalance(t *testing.T) {
	s, _ := newTestService(false)
	tr := mustCreate(t, s, 1, "TR-01", "100.00")

	got, err := s.AdjustBalance(context.Background(), 1, tr.ID, decimal.RequireFromString("40"), models.BalanceAdd)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("140")))

	got, err = s.AdjustBalance(context.Background(), 1, tr.ID, decimal.RequireFromString("200"), models.BalanceSubtract)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("-60")), "floor off: balance may go negative")
}

func TestAdjustBalanceRejectsNegativeAmount(t *testing.T) {
	s, _ := newTestService(false)
	tr := mustCreate(t, s, 1, "TR-01", "100.00")

	_, err := s.AdjustBalance(context.Background(), 1, tr.ID, decimal.RequireFromString("-5"), models.BalanceAdd)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAdjustBalanceUnknownTreasury(t *testing.T) {
	s, _ := newTestService(false)

	_, err := s.AdjustBalance(context.Background(), 1, 99, decimal.RequireFromString("5"), models.BalanceAdd)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAdjustBalanceEnforcesFloor(t *testing.T) {
	s, _ := newTestService(true)
	tr := mustCreate(t, s, 1, "TR-01", "100.00")

	_, err := s.AdjustBalance(context.Background(), 1, tr.ID, decimal.RequireFromString("100.01"), models.BalanceSubtract)
	require.Equal(t, apperrors.KindInsufficientBalance, apperrors.KindOf(err))

	// The failed adjustment must not have touched the stored balance.
	after, err := s.Get(context.Background(), 1, tr.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentBalance.Equal(decimal.RequireFromString("100.00")))
}
