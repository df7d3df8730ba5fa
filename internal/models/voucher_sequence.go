package models

// VoucherSequence is a per-business monotonic counter backing voucher number
// generation. The counter is incremented inside the voucher creation
// transaction, so concurrent creations can never hand out the same number.
// Deleting a draft voucher does not rewind the counter; numbers may gap.
type VoucherSequence struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	BusinessID uint        `gorm:"not null;uniqueIndex:idx_voucher_seq" json:"business_id"`
	Kind       VoucherKind `gorm:"size:4;not null;uniqueIndex:idx_voucher_seq" json:"kind"`
	Next       uint64      `gorm:"not null;default:1" json:"next"`
}

func (VoucherSequence) TableName() string { return "voucher_sequences" }
