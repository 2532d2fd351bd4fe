package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/squad-manager-service/internal/repository"
)

// Store keeps one JSONB row per collection in the collections table.
type Store struct {
	pool *pgxpool.Pool
	repository.TxManager
	repository.Pinger
}

// NewStore wires a store over an open pool. The pool is closed by Close.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, TxManager: NewTxManager(pool), Pinger: NewPinger(pool)}
}

func (s *Store) Get(ctx context.Context, c repository.Collection) ([]byte, error) {
	if err := ensurePool(s.pool); err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownCollection, c)
	}
	var payload []byte
	err := getQ(ctx, s.pool).QueryRow(ctx,
		`SELECT payload FROM collections WHERE name = $1`, string(c),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return payload, nil
}

func (s *Store) Put(ctx context.Context, c repository.Collection, payload []byte) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrUnknownCollection, c)
	}
	_, err := getQ(ctx, s.pool).Exec(ctx,
		`INSERT INTO collections (name, payload, updated_at)
		 VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		string(c), string(payload),
	)
	return repository.MapPgError(err)
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

var _ repository.Driver = (*Store)(nil)
