package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/repository"
)

// TxObserver is notified of every attempted transaction, committed or not.
type TxObserver interface {
	ObserveTransaction(component model.Component, operation string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveTransaction(model.Component, string, error) {}

// ledger runs registry transitions through the store and reports them.
type ledger struct {
	store    *repository.Store
	log      zerolog.Logger
	observer TxObserver
}

func newLedger(store *repository.Store, log zerolog.Logger, observer TxObserver) ledger {
	if observer == nil {
		observer = nopObserver{}
	}
	return ledger{store: store, log: log, observer: observer}
}

func (l ledger) commit(
	ctx context.Context,
	txn model.Transaction,
	fn func(repos *repository.Repositories, entry *model.LedgerEntry) error,
) (*model.LedgerEntry, error) {
	entry, err := l.store.Transact(ctx, txn, fn)
	l.observer.ObserveTransaction(txn.Component, txn.Operation, err)
	if err != nil {
		l.log.Debug().
			Err(err).
			Str("component", string(txn.Component)).
			Str("operation", txn.Operation).
			Str("caller", txn.Caller.String()).
			Str("subject", txn.Subject).
			Msg("transaction rejected")
		return nil, err
	}
	l.log.Info().
		Str("component", string(txn.Component)).
		Str("operation", txn.Operation).
		Str("caller", txn.Caller.String()).
		Str("subject", txn.Subject).
		Int64("height", entry.Height).
		Str("tx_id", entry.TxID).
		Msg("transaction committed")
	return entry, nil
}

// LedgerService exposes the append-only transaction log.
type LedgerService struct {
	store *repository.Store
}

func NewLedgerService(store *repository.Store) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) List(ctx context.Context, after int64, limit int) ([]model.LedgerEntry, error) {
	if after < 0 {
		return nil, fmt.Errorf("%w: after must not be negative", ErrInvalidInput)
	}
	return s.store.Read().Ledger.List(ctx, after, limit)
}

func (s *LedgerService) Height(ctx context.Context) (int64, error) {
	return s.store.Read().Ledger.Height(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// notFoundAs maps a missing row to the registry specific error.
func notFoundAs(err, notFound error) error {
	if isNotFound(err) {
		return notFound
	}
	return err
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func requirePrincipal(field string, value model.Principal) error {
	if value.IsZero() {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}
