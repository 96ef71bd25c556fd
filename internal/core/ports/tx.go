package ports

import "context"

// Transactor runs fn inside one store transaction. Repository calls
// made with the ctx passed to fn join that transaction; fn returning an
// error rolls everything back. Every multi-write operation in the
// engine (series splits, off-schedule dual writes, batch toggles) goes
// through this.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
