package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lib/pq"
)

// maxTxRetries bounds the number of times a serialization failure is retried
// before it surfaces to the caller.
const maxTxRetries = 5

type txKey struct{}

// querier is the subset of *sql.DB / *sql.Tx the repositories use. Repository
// calls made with a context produced by Transact run on the transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements domain.Store on Postgres. Transactions run at
// ISOLATION LEVEL SERIALIZABLE, which is a superset of the per-entity-group
// guarantee the services rely on.
type Store struct {
	DB *sql.DB
}

// NewStore returns a Store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Transact runs fn in a serializable transaction, retrying on serialization
// failures (SQLSTATE 40001/40P01) with capped jittered backoff. Any other
// error from fn rolls back and propagates unchanged.
func (s *Store) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxTxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * 10 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(backoff)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		err = fn(context.WithValue(ctx, txKey{}, tx))
		if err != nil {
			_ = tx.Rollback()
			if isSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isSerializationFailure(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}
	return fmt.Errorf("transaction retries exhausted: %w", lastErr)
}

// isSerializationFailure reports whether err is a Postgres serialization
// failure (40001) or deadlock (40P01), both safe to retry.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// querierFrom returns the transaction stashed in ctx by Transact, or db when
// the call runs outside a transaction.
func querierFrom(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
