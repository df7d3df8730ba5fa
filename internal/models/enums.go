package models

type TreasuryType string

const (
	TreasuryTypeCash     TreasuryType = "cash"
	TreasuryTypeBank     TreasuryType = "bank"
	TreasuryTypeWallet   TreasuryType = "wallet"
	TreasuryTypeExchange TreasuryType = "exchange"
)

func (t TreasuryType) Valid() bool {
	switch t {
	case TreasuryTypeCash, TreasuryTypeBank, TreasuryTypeWallet, TreasuryTypeExchange:
		return true
	}
	return false
}

// CounterpartyType classifies where a payment goes or a receipt comes from.
type CounterpartyType string

const (
	CounterpartyPerson       CounterpartyType = "person"
	CounterpartyEntity       CounterpartyType = "entity"
	CounterpartyIntermediary CounterpartyType = "intermediary"
	CounterpartyOther        CounterpartyType = "other"
)

func (c CounterpartyType) Valid() bool {
	switch c {
	case CounterpartyPerson, CounterpartyEntity, CounterpartyIntermediary, CounterpartyOther:
		return true
	}
	return false
}

type VoucherStatus string

const (
	VoucherStatusDraft     VoucherStatus = "draft"
	VoucherStatusConfirmed VoucherStatus = "confirmed"
)

type ConfidenceScore string

const (
	ConfidenceHigh   ConfidenceScore = "high"
	ConfidenceMedium ConfidenceScore = "medium"
	ConfidenceLow    ConfidenceScore = "low"
)

type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "pending"
	ReconciliationConfirmed ReconciliationStatus = "confirmed"
	ReconciliationRejected  ReconciliationStatus = "rejected"
)

// Terminal reports whether a reconciliation can no longer change state.
func (s ReconciliationStatus) Terminal() bool {
	return s == ReconciliationConfirmed || s == ReconciliationRejected
}

type BalanceOperation string

const (
	BalanceAdd      BalanceOperation = "add"
	BalanceSubtract BalanceOperation = "subtract"
)

// VoucherKind selects the per-business number sequence.
type VoucherKind string

const (
	KindPayment VoucherKind = "PV"
	KindReceipt VoucherKind = "RV"
)
