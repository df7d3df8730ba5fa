// Package matching proposes pairings between intermediary-routed payment and
// receipt vouchers. Strategies are pluggable behind the same contract; the
// shipped GreedyExact strategy is a deterministic single-pass exact-amount
// matcher, not an optimal assignment solver.
package matching

import (
	"math"
	"sort"
	"time"

	"treasury-clearing-backend/internal/models"
)

// Candidate is one accepted (payment, receipt) pair.
type Candidate struct {
	Payment    *models.PaymentVoucher
	Receipt    *models.ReceiptVoucher
	Confidence models.ConfidenceScore
}

type Strategy interface {
	// Match scans confirmed, unreconciled intermediary vouchers and returns
	// the proposed pairings. Inputs may arrive in any order; results must be
	// deterministic for a given input set.
	Match(payments []*models.PaymentVoucher, receipts []*models.ReceiptVoucher) []Candidate
}

// GreedyExact pairs each payment with the first receipt carrying the same
// amount and the same intermediary. Scan order is voucher id ascending on
// both sides, so two runs over the same set propose the same pairs. A payment
// is consumed by its first match; receipts stay available within the pass.
type GreedyExact struct{}

func (GreedyExact) Match(payments []*models.PaymentVoucher, receipts []*models.ReceiptVoucher) []Candidate {
	sortedPayments := make([]*models.PaymentVoucher, len(payments))
	copy(sortedPayments, payments)
	sort.Slice(sortedPayments, func(i, j int) bool { return sortedPayments[i].ID < sortedPayments[j].ID })

	sortedReceipts := make([]*models.ReceiptVoucher, len(receipts))
	copy(sortedReceipts, receipts)
	sort.Slice(sortedReceipts, func(i, j int) bool { return sortedReceipts[i].ID < sortedReceipts[j].ID })

	var out []Candidate
	for _, payment := range sortedPayments {
		if payment.DestinationIntermediaryID == 0 {
			continue
		}
		for _, receipt := range sortedReceipts {
			if !payment.Amount.Equal(receipt.Amount) {
				continue
			}
			if payment.DestinationIntermediaryID != receipt.SourceIntermediaryID {
				continue
			}
			out = append(out, Candidate{
				Payment:    payment,
				Receipt:    receipt,
				Confidence: Confidence(payment.VoucherDate, receipt.VoucherDate),
			})
			break
		}
	}
	return out
}

var _ Strategy = GreedyExact{}

// Confidence grades a pair by date proximity: within a day high, within a
// week medium, anything further low.
func Confidence(paymentDate, receiptDate time.Time) models.ConfidenceScore {
	days := math.Abs(paymentDate.Sub(receiptDate).Hours() / 24)
	switch {
	case days <= 1:
		return models.ConfidenceHigh
	case days <= 7:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
