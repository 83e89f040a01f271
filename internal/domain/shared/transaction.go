package shared

import "context"

// TransactionManager runs a unit of work atomically. Repository calls made
// with the context passed to fn join the same database transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
