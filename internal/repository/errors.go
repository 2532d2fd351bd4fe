package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrCorrupt marks a stored payload that is not a valid JSON array of the expected shape.
	ErrCorrupt = errors.New("corrupt collection")
	// ErrUnknownCollection is returned for a collection key outside the fixed set.
	ErrUnknownCollection = errors.New("unknown collection")
)

// MapPgError translates common Postgres error codes to domain errors.
// I only map what I expect to handle explicitly at higher layers; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return ErrConflict
		case pgerrcode.InvalidTextRepresentation, pgerrcode.InvalidJSONText, pgerrcode.CheckViolation:
			return ErrCorrupt
		}
	}
	return err
}
