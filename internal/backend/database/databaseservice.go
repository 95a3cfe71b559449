package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an identifier does not resolve to a stored image.
// Malformed identifiers resolve to ErrNotFound as well.
var ErrNotFound = errors.New("image not found")

type DatabaseService interface {
	// CreateDatabase makes sure the backing table, collection or keyspace exists. It is idempotent.
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreateImage stores a new record in a single write and returns its generated identifier.
	CreateImage(ctx context.Context, name string, data []byte, contentType string) (string, error)
	GetImageByID(ctx context.Context, id string) (*ImageRecord, error)
}
