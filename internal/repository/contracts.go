package repository

import "context"

// Collection names a persisted JSON array.
type Collection string

// Fixed collection keys. They match the keys the front-end stores under, so exported data
// can be imported as-is.
const (
	Players       Collection = "players"
	Formations    Collection = "formations"
	Rivals        Collection = "rivals"
	Matches       Collection = "matches"
	MatchPlans    Collection = "matchPlans"
	SavedInsights Collection = "savedInsights"
)

// Collections lists every collection a store is expected to hold.
func Collections() []Collection {
	return []Collection{Players, Formations, Rivals, Matches, MatchPlans, SavedInsights}
}

// Valid reports whether c is one of the fixed collection keys.
func (c Collection) Valid() bool {
	for _, known := range Collections() {
		if c == known {
			return true
		}
	}
	return false
}

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for stores that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
// Writes made through a Store with the ctx handed to fn become visible together on commit.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Store is the get/put-per-collection record store. Payloads are raw JSON arrays.
// Get returns a nil payload for a collection that was never written.
type Store interface {
	Get(ctx context.Context, c Collection) ([]byte, error)
	Put(ctx context.Context, c Collection, payload []byte) error
}

// Driver bundles what a storage backend provides to the rest of the service.
type Driver interface {
	Store
	TxManager
	Pinger
	Close() error
}
