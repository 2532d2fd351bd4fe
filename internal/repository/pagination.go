package repository

// DefaultPageLimit applies when a caller asks for no limit.
const DefaultPageLimit = 50

// MaxPageLimit caps a single window.
const MaxPageLimit = 500

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; filtering belongs to higher layers.
type Page struct {
	Limit  int
	Offset int
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Normalize fills defaults: a non-positive limit becomes DefaultPageLimit, a larger one than
// MaxPageLimit is capped and a negative offset becomes 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Paginate cuts one window out of an already filtered and ordered slice.
func Paginate[T any](items []T, p Page) PageResult[T] {
	p = p.Normalize()
	res := PageResult[T]{Items: []T{}, Total: len(items)}
	if p.Offset >= len(items) {
		return res
	}
	end := p.Offset + min(p.Limit, len(items)-p.Offset)
	res.Items = append(res.Items, items[p.Offset:end]...)
	return res
}
