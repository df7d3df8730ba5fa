// Package events carries the domain events the ledger emits after a
// confirmation commits. External collaborators (ledger posting, alerting)
// subscribe downstream; this core never embeds their logic.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	TypeVoucherConfirmed        = "voucher.confirmed"
	TypeReconciliationConfirmed = "reconciliation.confirmed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BusinessID uint      `json:"business_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type VoucherConfirmedPayload struct {
	VoucherID     uint   `json:"voucher_id"`
	VoucherNumber string `json:"voucher_number"`
	VoucherKind   string `json:"voucher_kind"`
	TreasuryID    uint   `json:"treasury_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	NewBalance    string `json:"new_balance"`
}

type ReconciliationConfirmedPayload struct {
	ReconciliationID uint   `json:"reconciliation_id"`
	PaymentVoucherID uint   `json:"payment_voucher_id"`
	ReceiptVoucherID uint   `json:"receipt_voucher_id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	ConfidenceScore  string `json:"confidence_score"`
}

func New(eventType string, businessID uint, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BusinessID: businessID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events after the owning transaction has committed.
// Delivery failures must not fail the business operation.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// LogPublisher writes events to the structured log. It is the default sink
// when no broker is configured.
type LogPublisher struct {
	Logger *logrus.Logger
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.Logger.WithFields(logrus.Fields{
		"event_id":    e.ID,
		"event_type":  e.Type,
		"business_id": e.BusinessID,
		"payload":     e.Payload,
	}).Info("domain event")
	return nil
}

var _ Publisher = (*LogPublisher)(nil)
