// Package local implements the record store in process: an in-memory driver for tests and
// ephemeral runs, and a file driver keeping one JSON document per collection in a directory.
//
// Both share the same unit of work. WithinTx takes a process-wide writer lock, stages every
// Put made with the transaction context and applies the staged payloads only when fn returns
// nil. Reads through the transaction context see the staged state.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/maxviazov/squad-manager-service/internal/repository"
)

// backend is the raw persistence a Store stages writes for.
type backend interface {
	read(c repository.Collection) ([]byte, error)
	write(batch map[repository.Collection][]byte) error
	ping() error
}

// Store implements repository.Driver over a backend.
type Store struct {
	b    backend
	txMu sync.Mutex // serializes writers
}

type txKey struct{}

type staged struct {
	writes map[repository.Collection][]byte
}

func stagedFrom(ctx context.Context) *staged {
	if st, ok := ctx.Value(txKey{}).(*staged); ok && st != nil {
		return st
	}
	return nil
}

func (s *Store) Get(ctx context.Context, c repository.Collection) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownCollection, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st := stagedFrom(ctx); st != nil {
		if raw, ok := st.writes[c]; ok {
			return clone(raw), nil
		}
	}
	return s.b.read(c)
}

func (s *Store) Put(ctx context.Context, c repository.Collection, payload []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrUnknownCollection, c)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if st := stagedFrom(ctx); st != nil {
		st.writes[c] = clone(payload)
		return nil
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.b.write(map[repository.Collection][]byte{c: clone(payload)})
}

// WithinTx runs fn as one unit of work. A nested call joins the outer unit of work.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if stagedFrom(ctx) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	st := &staged{writes: map[repository.Collection][]byte{}}
	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		return err
	}
	if len(st.writes) == 0 {
		return nil
	}
	// The commit itself is not cancelled by ctx; fn already returned successfully.
	return s.b.write(st.writes)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.b.ping()
}

func (s *Store) Close() error { return nil }

var _ repository.Driver = (*Store)(nil)

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
