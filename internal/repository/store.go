package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/tenant-improvements/internal/model"
)

// Repositories groups the per-registry repositories bound to one connection or
// one open transaction.
type Repositories struct {
	Properties  *PropertyRepository
	Contractors *ContractorRepository
	Projects    *ProjectRepository
	Allowances  *AllowanceRepository
	Ledger      *LedgerRepository
}

type Store struct {
	db       *gorm.DB
	lockRows bool
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		lockRows: db.Dialector.Name() == "postgres",
	}
}

// Read returns repositories for read-only projections outside any transaction.
func (s *Store) Read() *Repositories {
	return newRepositories(s.db, false)
}

// Transact appends txn to the ledger and runs fn in the same database
// transaction. Rows fetched through the given repositories are locked for
// update where the database supports it. If fn returns an error nothing is
// written, the ledger entry included.
func (s *Store) Transact(
	ctx context.Context,
	txn model.Transaction,
	fn func(repos *Repositories, entry *model.LedgerEntry) error,
) (*model.LedgerEntry, error) {
	payload, err := encodePayload(txn.Args)
	if err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{
		TxID:      uuid.NewString(),
		Component: txn.Component,
		Operation: txn.Operation,
		Caller:    txn.Caller,
		Subject:   txn.Subject,
		Payload:   payload,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		return fn(newRepositories(tx, s.lockRows), entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func newRepositories(db *gorm.DB, lock bool) *Repositories {
	base := baseRepository{db: db, lock: lock}
	return &Repositories{
		Properties:  &PropertyRepository{baseRepository: base},
		Contractors: &ContractorRepository{baseRepository: base},
		Projects:    &ProjectRepository{baseRepository: base},
		Allowances:  &AllowanceRepository{baseRepository: base},
		Ledger:      &LedgerRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db   *gorm.DB
	lock bool
}

func (r baseRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r baseRepository) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func encodePayload(args any) (string, error) {
	if args == nil {
		return "", nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode ledger payload: %w", err)
	}
	return string(raw), nil
}
