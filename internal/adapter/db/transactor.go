package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"cadence/internal/core/ports"
)

type txKey struct{}

// Transactor implements ports.Transactor over sqlx. The transaction is
// carried in the context, so repository calls made inside the callback
// join it transparently.
type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

var _ ports.Transactor = (*Transactor)(nil)

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// extFrom returns the executor for the context: the ambient transaction
// when inside WithinTransaction, the plain pool otherwise.
func extFrom(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
