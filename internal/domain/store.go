package domain

import "context"

// Store runs closures in serializable transactions. Repository calls made
// with the context passed to fn join the transaction; calls made with any
// other context do not.
//
// The store retries fn transparently on write-conflict, so fn may run more
// than once and must not have side effects outside the repositories. Business
// failures (ErrNotFound, ErrConflict, ...) returned by fn roll the
// transaction back and propagate unchanged, never as a store error.
type Store interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
