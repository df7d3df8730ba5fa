package models

// NewTransfer moves money between two treasuries through an intermediary
// clearing account: one confirmed payment voucher out of the source treasury
// and one confirmed receipt voucher into the destination treasury.
type NewTransfer struct {
	TransferDate   string `json:"transfer_date" binding:"required"`
	FromTreasuryID uint   `json:"from_treasury_id" binding:"required"`
	ToTreasuryID   uint   `json:"to_treasury_id" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
}

type TransferResult struct {
	PaymentVoucherID      uint   `json:"payment_voucher_id"`
	PaymentVoucherNumber  string `json:"payment_voucher_number"`
	ReceiptVoucherID      uint   `json:"receipt_voucher_id"`
	ReceiptVoucherNumber  string `json:"receipt_voucher_number"`
	IntermediaryAccountID uint   `json:"intermediary_account_id"`
}
