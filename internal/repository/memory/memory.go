// Package memory is an in-memory Store used by tests and local demos.
// A single mutex serializes transactions, which trivially satisfies the
// isolation the gorm store gets from row locks.
package memory

import (
	"context"
	"sort"
	"sync"

	"treasury-clearing-backend/internal/apperrors"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type seqKey struct {
	businessID uint
	kind       models.VoucherKind
}

type dataset struct {
	treasuries     map[uint]models.Treasury
	payments       map[uint]models.PaymentVoucher
	receipts       map[uint]models.ReceiptVoucher
	recons         map[uint]models.Reconciliation
	intermediaries map[uint]models.IntermediaryAccount
	sequences      map[seqKey]uint64

	nextTreasury     uint
	nextPayment      uint
	nextReceipt      uint
	nextRecon        uint
	nextIntermediary uint
}

func newDataset() *dataset {
	return &dataset{
		treasuries:     make(map[uint]models.Treasury),
		payments:       make(map[uint]models.PaymentVoucher),
		receipts:       make(map[uint]models.ReceiptVoucher),
		recons:         make(map[uint]models.Reconciliation),
		intermediaries: make(map[uint]models.IntermediaryAccount),
		sequences:      make(map[seqKey]uint64),
		nextTreasury:   1, nextPayment: 1, nextReceipt: 1, nextRecon: 1, nextIntermediary: 1,
	}
}

func (d *dataset) clone() *dataset {
	c := *d
	c.treasuries = make(map[uint]models.Treasury, len(d.treasuries))
	for k, v := range d.treasuries {
		c.treasuries[k] = v
	}
	c.payments = make(map[uint]models.PaymentVoucher, len(d.payments))
	for k, v := range d.payments {
		c.payments[k] = v
	}
	c.receipts = make(map[uint]models.ReceiptVoucher, len(d.receipts))
	for k, v := range d.receipts {
		c.receipts[k] = v
	}
	c.recons = make(map[uint]models.Reconciliation, len(d.recons))
	for k, v := range d.recons {
		c.recons[k] = v
	}
	c.intermediaries = make(map[uint]models.IntermediaryAccount, len(d.intermediaries))
	for k, v := range d.intermediaries {
		c.intermediaries[k] = v
	}
	c.sequences = make(map[seqKey]uint64, len(d.sequences))
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	return &c
}

// Store implements repository.Store over process memory.
type Store struct {
	mu   *sync.Mutex
	data *dataset
	inTx bool
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, data: newDataset()}
}

// lock is a no-op inside a transaction; the transaction already holds mu.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Transaction(_ context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *Store) Treasuries() repository.TreasuryRepository            { return treasuryRepo{s} }
func (s *Store) Vouchers() repository.VoucherRepository               { return voucherRepo{s} }
func (s *Store) Reconciliations() repository.ReconciliationRepository { return reconciliationRepo{s} }
func (s *Store) Intermediaries() repository.IntermediaryRepository    { return intermediaryRepo{s} }
func (s *Store) Sequences() repository.SequenceRepository             { return sequenceRepo{s} }

var _ repository.Store = (*Store)(nil)

type treasuryRepo struct{ s *Store }

func (r treasuryRepo) Create(_ context.Context, t *models.Treasury) error {
	defer r.s.lock()()
	t.ID = r.s.data.nextTreasury
	r.s.data.nextTreasury++
	r.s.data.treasuries[t.ID] = *t
	return nil
}

func (r treasuryRepo) Get(_ context.Context, businessID, id uint) (*models.Treasury, error) {
	defer r.s.lock()()
	t, ok := r.s.data.treasuries[id]
	if !ok || t.BusinessID != businessID {
		return nil, apperrors.NotFound("treasury", id)
	}
	return &t, nil
}

func (r treasuryRepo) GetForUpdate(ctx context.Context, businessID, id uint) (*models.Treasury, error) {
	return r.Get(ctx, businessID, id)
}

func (r treasuryRepo) List(_ context.Context, businessID uint) ([]*models.Treasury, error) {
	defer r.s.lock()()
	var out []*models.Treasury
	for _, t := range r.s.data.treasuries {
		if t.BusinessID == businessID {
			t := t
			out = append(out, &t)
		}
	}
	sortByID(out, func(t *models.Treasury) uint { return t.ID })
	return out, nil
}

func (r treasuryRepo) CountByCode(_ context.Context, businessID uint, code string) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, t := range r.s.data.treasuries {
		if t.BusinessID == businessID && t.Code == code {
			n++
		}
	}
	return n, nil
}

func (r treasuryRepo) SetBalance(_ context.Context, id uint, balance decimal.Decimal) error {
	defer r.s.lock()()
	t, ok := r.s.data.treasuries[id]
	if !ok {
		return apperrors.NotFound("treasury", id)
	}
	t.CurrentBalance = balance
	r.s.data.treasuries[id] = t
	return nil
}

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) NextNumber(_ context.Context, businessID uint, kind models.VoucherKind) (uint64, error) {
	defer r.s.lock()()
	key := seqKey{businessID, kind}
	next, ok := r.s.data.sequences[key]
	if !ok {
		next = 1
	}
	r.s.data.sequences[key] = next + 1
	return next, nil
}

func sortByID[T any](items []*T, id func(*T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
