package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/repository"
)

// TxRunner opens PostgreSQL transactions and hands tx-scoped repositories to
// the caller.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx runs fn in a transaction, committing on success.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(repos repository.TxRepositories) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(repository.TxRepositories{
		Payments: NewPaymentRepositoryWithTx(tx),
		Orders:   NewOrderRepositoryWithTx(tx),
	})
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Ensure TxRunner implements repository.TxRunner.
var _ repository.TxRunner = (*TxRunner)(nil)
