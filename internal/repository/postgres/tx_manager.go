package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/squad-manager-service/internal/repository"
)

// q is a minimal query executor implemented by both pgxpool.Pool and pgx.Tx.
type q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// unitOfWorkLockKey is the advisory lock held for the life of every write transaction.
const unitOfWorkLockKey int64 = 0x5351_4144

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

func getQ(ctx context.Context, pool *pgxpool.Pool) q {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return pool
}

type txManager struct{ pool *pgxpool.Pool }

func NewTxManager(pool *pgxpool.Pool) repository.TxManager { return &txManager{pool: pool} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ensurePool(m.pool); err != nil {
		return err
	}
	// Nested units of work join the outer transaction.
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return repository.MapPgError(err)
	}
	defer func() {
		// If not committed yet, rollback; ignore rollback errors if context canceled.
		_ = tx.Rollback(context.Background())
	}()

	// Units of work rewrite whole collections, so they run one at a time.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, unitOfWorkLockKey); err != nil {
		return repository.MapPgError(err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		return repository.MapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

// ensure interfaces are satisfied at compile time
var _ repository.TxManager = (*txManager)(nil)

// helper to assert we didn't accidentally nil the pool
func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}
