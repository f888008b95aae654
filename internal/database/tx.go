package database

import (
	"context"
	"database/sql"
)

// TxRunner wraps a *sql.DB and executes a function inside a single
// transaction.  The transaction is rolled back unless fn returns nil
// and the commit succeeds, so a failed operation never leaves partial
// state behind.
type TxRunner struct {
	DB *sql.DB
}

// NewTxRunner returns a TxRunner bound to the given database handle.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{DB: db} }

// WithinTx begins a transaction, invokes fn with it and commits when
// fn returns nil.  Any error from fn (or from commit) is returned to
// the caller after the rollback.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
