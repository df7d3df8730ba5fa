package matching

import (
	"testing"
	"time"

	"treasury-clearing-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func pv(id uint, amount string, intermediaryID uint, date time.Time) *models.PaymentVoucher {
	return &models.PaymentVoucher{
		ID:                        id,
		Amount:                    decimal.RequireFromString(amount),
		DestinationType:           models.CounterpartyIntermediary,
		DestinationIntermediaryID: intermediaryID,
		VoucherDate:               date,
		Status:                    models.VoucherStatusConfirmed,
	}
}

func rv(id uint, amount string, intermediaryID uint, date time.Time) *models.ReceiptVoucher {
	return &models.ReceiptVoucher{
		ID:                   id,
		Amount:               decimal.RequireFromString(amount),
		SourceType:           models.CounterpartyIntermediary,
		SourceIntermediaryID: intermediaryID,
		VoucherDate:          date,
		Status:               models.VoucherStatusConfirmed,
	}
}

func TestConfidenceBands(t *testing.T) {
	cases := []struct {
		name     string
		payment  time.Time
		receipt  time.Time
		expected models.ConfidenceScore
	}{
		{"same day", day(0), day(0), models.ConfidenceHigh},
		{"one day apart", day(0), day(1), models.ConfidenceHigh},
		{"just over a day", day(0), day(1).Add(time.Hour), models.ConfidenceMedium},
		{"a week apart", day(0), day(7), models.ConfidenceMedium},
		{"eight days apart", day(0), day(8), models.ConfidenceLow},
		{"receipt before payment", day(8), day(0), models.ConfidenceLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Confidence(tc.payment, tc.receipt))
		})
	}
}

func TestGreedyExactPairsByAmountAndIntermediary(t *testing.T) {
	payments := []*models.PaymentVoucher{
		pv(1, "1500.00", 10, day(0)),
		pv(2, "200.00", 10, day(0)),
	}
	receipts := []*models.ReceiptVoucher{
		rv(1, "200.00", 10, day(1)),
		rv(2, "1500.00", 10, day(1)),
	}

	out := GreedyExact{}.Match(payments, receipts)
	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].Payment.ID)
	assert.Equal(t, uint(2), out[0].Receipt.ID)
	assert.Equal(t, uint(2), out[1].Payment.ID)
	assert.Equal(t, uint(1), out[1].Receipt.ID)
	assert.Equal(t, models.ConfidenceHigh, out[0].Confidence)
}

func TestGreedyExactRejectsMismatches(t *testing.T) {
	t.Run("amount differs", func(t *testing.T) {
		out := GreedyExact{}.Match(
			[]*models.PaymentVoucher{pv(1, "1500.00", 10, day(0))},
			[]*models.ReceiptVoucher{rv(1, "1500.01", 10, day(0))},
		)
		assert.Empty(t, out)
	})
	t.Run("intermediary differs", func(t *testing.T) {
		out := GreedyExact{}.Match(
			[]*models.PaymentVoucher{pv(1, "1500.00", 10, day(0))},
			[]*models.ReceiptVoucher{rv(1, "1500.00", 11, day(0))},
		)
		assert.Empty(t, out)
	})
	t.Run("payment missing intermediary id", func(t *testing.T) {
		out := GreedyExact{}.Match(
			[]*models.PaymentVoucher{pv(1, "1500.00", 0, day(0))},
			[]*models.ReceiptVoucher{rv(1, "1500.00", 0, day(0))},
		)
		assert.Empty(t, out)
	})
}

func TestGreedyExactDeterministicAcrossInputOrder(t *testing.T) {
	forward := GreedyExact{}.Match(
		[]*models.PaymentVoucher{pv(1, "100", 10, day(0)), pv(2, "100", 10, day(0))},
		[]*models.ReceiptVoucher{rv(1, "100", 10, day(0)), rv(2, "100", 10, day(0))},
	)
	reversed := GreedyExact{}.Match(
		[]*models.PaymentVoucher{pv(2, "100", 10, day(0)), pv(1, "100", 10, day(0))},
		[]*models.ReceiptVoucher{rv(2, "100", 10, day(0)), rv(1, "100", 10, day(0))},
	)

	require.Len(t, forward, 2)
	require.Len(t, reversed, 2)
	for i := range forward {
		assert.Equal(t, forward[i].Payment.ID, reversed[i].Payment.ID)
		assert.Equal(t, forward[i].Receipt.ID, reversed[i].Receipt.ID)
	}
}

func TestGreedyExactPaymentTakesFirstReceiptByID(t *testing.T) {
	out := GreedyExact{}.Match(
		[]*models.PaymentVoucher{pv(1, "500", 10, day(0))},
		[]*models.ReceiptVoucher{rv(7, "500", 10, day(3)), rv(3, "500", 10, day(6))},
	)
	require.Len(t, out, 1)
	assert.Equal(t, uint(3), out[0].Receipt.ID)
}
