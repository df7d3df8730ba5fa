// Package apperrors defines the error kinds the service surfaces to its
// callers. Every kind carries enough detail (entity + id or field) for the
// API layer to render a user-facing message without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation"
	KindVoucherLocked       Kind = "voucher_locked"
	KindHasReconciliation   Kind = "has_reconciliation"
	KindAlreadyResolved     Kind = "already_resolved"
	KindInsufficientBalance Kind = "insufficient_balance"
)

// Error is a kind-tagged error. Wrapping preserves the kind, so callers use
// KindOf (or errors.As) rather than equality checks.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id uint) error {
	return New(KindNotFound, "%s %d not found", entity, id)
}

func Validation(field, reason string) error {
	return New(KindValidation, "%s: %s", field, reason)
}

func VoucherLocked(id uint) error {
	return New(KindVoucherLocked, "voucher %d is confirmed and cannot be modified", id)
}

func HasReconciliation(voucherID uint) error {
	return New(KindHasReconciliation, "voucher %d is referenced by a reconciliation", voucherID)
}

func AlreadyResolved(reconciliationID uint, status string) error {
	return New(KindAlreadyResolved, "reconciliation %d is already %s", reconciliationID, status)
}

func InsufficientBalance(treasuryID uint) error {
	return New(KindInsufficientBalance, "treasury %d balance would fall below the configured floor", treasuryID)
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
