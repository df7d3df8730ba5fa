package repository

import (
	"context"

	"treasury-clearing-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store bundles the repositories behind a single transactional boundary.
// Transaction runs fn against a store whose writes commit or roll back as
// one unit; implementations must serialize conflicting balance writes.
type Store interface {
	Treasuries() TreasuryRepository
	Vouchers() VoucherRepository
	Reconciliations() ReconciliationRepository
	Intermediaries() IntermediaryRepository
	Sequences() SequenceRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

type TreasuryRepository interface {
	Create(ctx context.Context, t *models.Treasury) error
	Get(ctx context.Context, businessID, id uint) (*models.Treasury, error)
	// GetForUpdate locks the treasury row for the rest of the enclosing
	// transaction so concurrent balance adjustments serialize.
	GetForUpdate(ctx context.Context, businessID, id uint) (*models.Treasury, error)
	List(ctx context.Context, businessID uint) ([]*models.Treasury, error)
	CountByCode(ctx context.Context, businessID uint, code string) (int64, error)
	SetBalance(ctx context.Context, id uint, balance decimal.Decimal) error
}

type VoucherRepository interface {
	CreatePayment(ctx context.Context, v *models.PaymentVoucher) error
	GetPayment(ctx context.Context, businessID, id uint) (*models.PaymentVoucher, error)
	SavePayment(ctx context.Context, v *models.PaymentVoucher) error
	DeletePayment(ctx context.Context, businessID, id uint) error
	ListPayments(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.PaymentVoucher, error)
	// UnreconciledIntermediaryPayments returns confirmed, unreconciled,
	// intermediary-routed payments ordered by id ascending.
	UnreconciledIntermediaryPayments(ctx context.Context, businessID uint) ([]*models.PaymentVoucher, error)

	CreateReceipt(ctx context.Context, v *models.ReceiptVoucher) error
	GetReceipt(ctx context.Context, businessID, id uint) (*models.ReceiptVoucher, error)
	SaveReceipt(ctx context.Context, v *models.ReceiptVoucher) error
	DeleteReceipt(ctx context.Context, businessID, id uint) error
	ListReceipts(ctx context.Context, businessID uint, status *models.VoucherStatus) ([]*models.ReceiptVoucher, error)
	UnreconciledIntermediaryReceipts(ctx context.Context, businessID uint) ([]*models.ReceiptVoucher, error)
}

type ReconciliationRepository interface {
	// Create returns gorm.ErrDuplicatedKey when a non-rejected row already
	// claims the payment voucher (partial unique index).
	Create(ctx context.Context, r *models.Reconciliation) error
	Get(ctx context.Context, businessID, id uint) (*models.Reconciliation, error)
	// GetForUpdate locks the row so concurrent resolutions serialize.
	GetForUpdate(ctx context.Context, businessID, id uint) (*models.Reconciliation, error)
	Save(ctx context.Context, r *models.Reconciliation) error
	List(ctx context.Context, businessID uint, status *models.ReconciliationStatus) ([]*models.Reconciliation, error)
	// CountForVouchers counts reconciliations referencing the payment or the
	// receipt voucher id, regardless of status (delete guard).
	CountForVouchers(ctx context.Context, paymentID, receiptID uint) (int64, error)
	// HasOpenForPayment reports whether a non-rejected reconciliation already
	// claims the payment voucher.
	HasOpenForPayment(ctx context.Context, paymentID uint) (bool, error)
}

type IntermediaryRepository interface {
	Create(ctx context.Context, a *models.IntermediaryAccount) error
	Get(ctx context.Context, businessID, id uint) (*models.IntermediaryAccount, error)
	FindByCode(ctx context.Context, businessID uint, code string) (*models.IntermediaryAccount, error)
	List(ctx context.Context, businessID uint) ([]*models.IntermediaryAccount, error)
}

type SequenceRepository interface {
	// NextNumber atomically claims the next voucher number for the business.
	// Call inside a Store.Transaction so a failed creation rolls the claim back.
	NextNumber(ctx context.Context, businessID uint, kind models.VoucherKind) (uint64, error)
}

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Treasuries() TreasuryRepository             { return &treasuryRepo{db: s.db} }
func (s *GormStore) Vouchers() VoucherRepository                { return &voucherRepo{db: s.db} }
func (s *GormStore) Reconciliations() ReconciliationRepository  { return &reconciliationRepo{db: s.db} }
func (s *GormStore) Intermediaries() IntermediaryRepository     { return &intermediaryRepo{db: s.db} }
func (s *GormStore) Sequences() SequenceRepository              { return &sequenceRepo{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

var _ Store = (*GormStore)(nil)
