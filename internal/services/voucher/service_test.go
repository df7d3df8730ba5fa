package voucher

import (
	"context"
	"io"
	"testing"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/events"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository/memory"
	"treasury-clearing-backend/internal/services/treasury"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	treasuries *treasury.Service
	vouchers   *Service
}

func newFixture(enforceFloor bool) *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memory.NewStore()
	treasuries := treasury.NewService(store, log, enforceFloor)
	return &fixture{
		store:      store,
		treasuries: treasuries,
		vouchers:   NewService(store, treasuries, &events.LogPublisher{Logger: log}, log),
	}
}

func (f *fixture) treasury(t *testing.T, businessID uint, code, opening string) *models.Treasury {
	t.Helper()
	tr, err := f.treasuries.Create(context.Background(), businessID, 1, &models.NewTreasury{
		Code:           code,
		NameAr:         "خزينة " + code,
		TreasuryType:   models.TreasuryTypeCash,
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) balance(t *testing.T, businessID, id uint) decimal.Decimal {
	t.Helper()
	tr, err := f.treasuries.Get(context.Background(), businessID, id)
	require.NoError(t, err)
	return tr.CurrentBalance
}

func (f *fixture) payment(t *testing.T, businessID uint, treasuryID uint, amount string) *models.PaymentVoucher {
	t.Helper()
	v, err := f.vouchers.CreatePayment(context.Background(), businessID, 1, &models.NewPaymentVoucher{
		VoucherDate:     "2026-03-01",
		Amount:          amount,
		TreasuryID:      treasuryID,
		DestinationType: models.CounterpartyPerson,
		DestinationName: "أحمد",
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) receipt(t *testing.T, businessID uint, treasuryID uint, amount string) *models.ReceiptVoucher {
	t.Helper()
	v, err := f.vouchers.CreateReceipt(context.Background(), businessID, 1, &models.NewReceiptVoucher{
		VoucherDate: "2026-03-01",
		Amount:      amount,
		TreasuryID:  treasuryID,
		SourceType:  models.CounterpartyEntity,
		SourceName:  "شركة النور",
	})
	require.NoError(t, err)
	return v
}

func TestVoucherNumbersAreSequentialPerKind(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")

	p1 := f.payment(t, 1, tr.ID, "100")
	p2 := f.payment(t, 1, tr.ID, "200")
	r1 := f.receipt(t, 1, tr.ID, "300")

	assert.Equal(t, "PV-000001", p1.VoucherNumber)
	assert.Equal(t, "PV-000002", p2.VoucherNumber)
	assert.Equal(t, "RV-000001", r1.VoucherNumber, "receipt sequence is independent")

	// Deleting a draft does not rewind the counter; numbers gap.
	require.NoError(t, f.vouchers.DeletePayment(context.Background(), 1, p2.ID))
	p3 := f.payment(t, 1, tr.ID, "300")
	assert.Equal(t, "PV-000003", p3.VoucherNumber)
}

func TestVoucherNumbersAreScopedPerBusiness(t *testing.T) {
	f := newFixture(false)
	tr1 := f.treasury(t, 1, "TR-01", "0")
	tr2 := f.treasury(t, 2, "TR-01", "0")

	f.payment(t, 1, tr1.ID, "100")
	p := f.payment(t, 2, tr2.ID, "100")
	assert.Equal(t, "PV-000001", p.VoucherNumber)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "0")
	ctx := context.Background()

	cases := []struct {
		name  string
		input models.NewPaymentVoucher
		kind  apperrors.Kind
	}{
		{"amount not a number", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "ten", TreasuryID: tr.ID, DestinationType: models.CounterpartyPerson, DestinationName: "x"}, apperrors.KindValidation},
		{"amount zero", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "0", TreasuryID: tr.ID, DestinationType: models.CounterpartyPerson, DestinationName: "x"}, apperrors.KindValidation},
		{"amount negative", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "-5", TreasuryID: tr.ID, DestinationType: models.CounterpartyPerson, DestinationName: "x"}, apperrors.KindValidation},
		{"bad date", models.NewPaymentVoucher{VoucherDate: "03/01/2026", Amount: "5", TreasuryID: tr.ID, DestinationType: models.CounterpartyPerson, DestinationName: "x"}, apperrors.KindValidation},
		{"bad counterparty type", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "5", TreasuryID: tr.ID, DestinationType: "alien", DestinationName: "x"}, apperrors.KindValidation},
		{"missing counterparty name", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "5", TreasuryID: tr.ID, DestinationType: models.CounterpartyPerson}, apperrors.KindValidation},
		{"intermediary without id", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "5", TreasuryID: tr.ID, DestinationType: models.CounterpartyIntermediary}, apperrors.KindValidation},
		{"intermediary not found", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "5", TreasuryID: tr.ID, DestinationType: models.CounterpartyIntermediary, DestinationIntermediaryID: 42}, apperrors.KindNotFound},
		{"treasury not found", models.NewPaymentVoucher{VoucherDate: "2026-03-01", Amount: "5", TreasuryID: 99, DestinationType: models.CounterpartyPerson, DestinationName: "x"}, apperrors.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.vouchers.CreatePayment(ctx, 1, 1, &tc.input)
			assert.Equal(t, tc.kind, apperrors.KindOf(err))
		})
	}
}

func TestDraftDoesNotTouchBalance(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")

	f.payment(t, 1, tr.ID, "1500")
	assert.True(t, f.balance(t, 1, tr.ID).Equal(decimal.RequireFromString("10000")))
}

func TestConfirmMovesBalanceExactlyOnce(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")
	ctx := context.Background()

	p := f.payment(t, 1, tr.ID, "1500")
	require.NoError(t, f.vouchers.ConfirmPayment(ctx, 1, p.ID))
	assert.True(t, f.balance(t, 1, tr.ID).Equal(decimal.RequireFromString("8500")))

	err := f.vouchers.ConfirmPayment(ctx, 1, p.ID)
	assert.Equal(t, apperrors.KindVoucherLocked, apperrors.KindOf(err))
	assert.True(t, f.balance(t, 1, tr.ID).Equal(decimal.RequireFromString("8500")), "balance moved once")

	r := f.receipt(t, 1, tr.ID, "400")
	require.NoError(t, f.vouchers.ConfirmReceipt(ctx, 1, r.ID))
	assert.True(t, f.balance(t, 1, tr.ID).Equal(decimal.RequireFromString("8900")))
}

func TestConfirmRollsBackWhenFloorRejects(t *testing.T) {
	f := newFixture(true)
	tr := f.treasury(t, 1, "TR-01", "1000")
	ctx := context.Background()

	p := f.payment(t, 1, tr.ID, "1500")
	err := f.vouchers.ConfirmPayment(ctx, 1, p.ID)
	require.Equal(t, apperrors.KindInsufficientBalance, apperrors.KindOf(err))

	got, err := f.vouchers.GetPayment(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoucherStatusDraft, got.Status, "status flip rolled back with the balance move")
	assert.True(t, f.balance(t, 1, tr.ID).Equal(decimal.RequireFromString("1000")))
}

func TestUpdateDraftOnly(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")
	ctx := context.Background()

	p := f.payment(t, 1, tr.ID, "100")
	amount := "250.50"
	updated, err := f.vouchers.UpdatePayment(ctx, 1, p.ID, &models.PaymentVoucherPatch{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("250.50")))

	require.NoError(t, f.vouchers.ConfirmPayment(ctx, 1, p.ID))
	_, err = f.vouchers.UpdatePayment(ctx, 1, p.ID, &models.PaymentVoucherPatch{Amount: &amount})
	assert.Equal(t, apperrors.KindVoucherLocked, apperrors.KindOf(err))
}

func TestDeleteGuards(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")
	ctx := context.Background()

	confirmed := f.payment(t, 1, tr.ID, "100")
	require.NoError(t, f.vouchers.ConfirmPayment(ctx, 1, confirmed.ID))
	err := f.vouchers.DeletePayment(ctx, 1, confirmed.ID)
	assert.Equal(t, apperrors.KindVoucherLocked, apperrors.KindOf(err))

	referenced := f.payment(t, 1, tr.ID, "100")
	require.NoError(t, f.store.Reconciliations().Create(ctx, &models.Reconciliation{
		BusinessID:       1,
		PaymentVoucherID: referenced.ID,
		ReceiptVoucherID: 99,
		Amount:           referenced.Amount,
		Status:           models.ReconciliationRejected,
	}))
	err = f.vouchers.DeletePayment(ctx, 1, referenced.ID)
	assert.Equal(t, apperrors.KindHasReconciliation, apperrors.KindOf(err), "even rejected reconciliations block deletion")

	plain := f.payment(t, 1, tr.ID, "100")
	require.NoError(t, f.vouchers.DeletePayment(ctx, 1, plain.ID))
	_, err = f.vouchers.GetPayment(ctx, 1, plain.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateTransfer(t *testing.T) {
	f := newFixture(false)
	from := f.treasury(t, 1, "TR-01", "10000")
	to := f.treasury(t, 1, "TR-02", "0")
	ctx := context.Background()

	result, err := f.vouchers.CreateTransfer(ctx, 1, 1, &models.NewTransfer{
		TransferDate:   "2026-03-01",
		FromTreasuryID: from.ID,
		ToTreasuryID:   to.ID,
		Amount:         "1500",
	})
	require.NoError(t, err)

	assert.True(t, f.balance(t, 1, from.ID).Equal(decimal.RequireFromString("8500")))
	assert.True(t, f.balance(t, 1, to.ID).Equal(decimal.RequireFromString("1500")))

	p, err := f.vouchers.GetPayment(ctx, 1, result.PaymentVoucherID)
	require.NoError(t, err)
	r, err := f.vouchers.GetReceipt(ctx, 1, result.ReceiptVoucherID)
	require.NoError(t, err)
	assert.Equal(t, models.VoucherStatusConfirmed, p.Status)
	assert.Equal(t, models.VoucherStatusConfirmed, r.Status)
	assert.False(t, p.IsReconciled)
	assert.False(t, r.IsReconciled)
	assert.Equal(t, result.IntermediaryAccountID, p.DestinationIntermediaryID)
	assert.Equal(t, result.IntermediaryAccountID, r.SourceIntermediaryID)

	account, err := f.vouchers.GetIntermediary(ctx, 1, result.IntermediaryAccountID)
	require.NoError(t, err)
	assert.Equal(t, "INT-1-2", account.Code)

	// A second transfer on the same route reuses the clearing account.
	again, err := f.vouchers.CreateTransfer(ctx, 1, 1, &models.NewTransfer{
		TransferDate:   "2026-03-02",
		FromTreasuryID: from.ID,
		ToTreasuryID:   to.ID,
		Amount:         "500",
	})
	require.NoError(t, err)
	assert.Equal(t, result.IntermediaryAccountID, again.IntermediaryAccountID)

	accounts, err := f.vouchers.ListIntermediaries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestCreateTransferRejectsSameTreasury(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")

	_, err := f.vouchers.CreateTransfer(context.Background(), 1, 1, &models.NewTransfer{
		TransferDate:   "2026-03-01",
		FromTreasuryID: tr.ID,
		ToTreasuryID:   tr.ID,
		Amount:         "100",
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateIntermediaryRejectsDuplicateCode(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	_, err := f.vouchers.CreateIntermediary(ctx, 1, &models.NewIntermediaryAccount{Code: "HUB-1", NameAr: "وسيط"})
	require.NoError(t, err)
	_, err = f.vouchers.CreateIntermediary(ctx, 1, &models.NewIntermediaryAccount{Code: "HUB-1", NameAr: "وسيط"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestListPaymentsFiltersByStatus(t *testing.T) {
	f := newFixture(false)
	tr := f.treasury(t, 1, "TR-01", "10000")
	ctx := context.Background()

	f.payment(t, 1, tr.ID, "100")
	p := f.payment(t, 1, tr.ID, "200")
	require.NoError(t, f.vouchers.ConfirmPayment(ctx, 1, p.ID))

	confirmed := models.VoucherStatusConfirmed
	list, err := f.vouchers.ListPayments(ctx, 1, &confirmed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	all, err := f.vouchers.ListPayments(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBalanceConservationIsOrderIndependent(t *testing.T) {
	// The same confirmed voucher set must land on the same balance no
	// matter which order the confirmations run in.
	run := func(order []int) decimal.Decimal {
		f := newFixture(false)
		tr := f.treasury(t, 1, "TR-01", "10000.00")
		ctx := context.Background()

		confirm := []func() error{
			func() error { return f.vouchers.ConfirmPayment(ctx, 1, f.payment(t, 1, tr.ID, "100.25").ID) },
			func() error { return f.vouchers.ConfirmPayment(ctx, 1, f.payment(t, 1, tr.ID, "200.00").ID) },
			func() error { return f.vouchers.ConfirmReceipt(ctx, 1, f.receipt(t, 1, tr.ID, "50.75").ID) },
			func() error { return f.vouchers.ConfirmReceipt(ctx, 1, f.receipt(t, 1, tr.ID, "75.00").ID) },
		}
		for _, i := range order {
			require.NoError(t, confirm[i]())
		}
		return f.balance(t, 1, tr.ID)
	}

	expected := decimal.RequireFromString("9825.50")
	forward := run([]int{0, 1, 2, 3})
	shuffled := run([]int{3, 1, 2, 0})
	assert.True(t, forward.Equal(expected), "got %s", forward)
	assert.True(t, shuffled.Equal(expected), "got %s", shuffled)
}
