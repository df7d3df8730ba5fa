package repository

import (
	"context"
	"errors"

	"treasury-clearing-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sequenceRepo struct {
	db *gorm.DB
}

// NextNumber locks the counter row so two concurrent creations cannot claim
// the same voucher number. The caller's transaction rolls the claim back on
// failure, so sequential creation stays gapless.
func (r *sequenceRepo) NextNumber(ctx context.Context, businessID uint, kind models.VoucherKind) (uint64, error) {
	var seq models.VoucherSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND kind = ?", businessID, kind).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.VoucherSequence{BusinessID: businessID, Kind: kind, Next: 1}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	n := seq.Next
	err = r.db.WithContext(ctx).Model(&models.VoucherSequence{}).
		Where("id = ?", seq.ID).
		Update("next", n+1).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

var _ SequenceRepository = (*sequenceRepo)(nil)
