package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresLocker implements Locker with transaction-scoped advisory locks.
// The lock lives as long as the transaction that took it, so a dropped
// connection releases it automatically.
type PostgresLocker struct {
	pool   TxBeginner
	logger *slog.Logger
}

// NewPostgresLocker creates a locker on top of the pool
func NewPostgresLocker(pool TxBeginner, logger *slog.Logger) *PostgresLocker {
	return &PostgresLocker{
		pool:   pool,
		logger: logger.With("component", "lock", "backend", "postgres"),
	}
}

// TxLocker is a Locker whose lock lives in a database transaction.
// LockTx hands that transaction to the caller so the guarded reads and
// writes run on the connection that holds the lock.
type TxLocker interface {
	Locker
	LockTx(ctx context.Context, key string) (pgx.Tx, Release, error)
}

var _ TxLocker = (*PostgresLocker)(nil)

// Lock blocks in pg_advisory_xact_lock until the key is free or ctx is done.
// Release commits the lock transaction.
func (l *PostgresLocker) Lock(ctx context.Context, key string) (Release, error) {
	tx, err := l.acquire(ctx, key)
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := tx.Commit(releaseCtx); err != nil {
				l.logger.Warn("failed to release advisory lock", slog.String("key", key), slog.Any("error", err))
			}
		})
	}, nil
}

// LockTx takes the lock and returns its transaction. The caller commits the
// transaction to keep its writes; Release rolls back whatever was not
// committed and frees the lock either way.
func (l *PostgresLocker) LockTx(ctx context.Context, key string) (pgx.Tx, Release, error) {
	tx, err := l.acquire(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	var once sync.Once
	return tx, func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := tx.Rollback(releaseCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
				l.logger.Warn("failed to release advisory lock", slog.String("key", key), slog.Any("error", err))
			}
		})
	}, nil
}

func (l *PostgresLocker) acquire(ctx context.Context, key string) (pgx.Tx, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		}
		return nil, fmt.Errorf("begin lock transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		_ = tx.Rollback(context.Background())
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		}
		return nil, fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return tx, nil
}
