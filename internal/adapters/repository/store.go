// Package repository holds the in-memory resource stores.
package repository

import (
	"context"

	"github.com/okian/catalog/internal/domain/model"
)

// Store provides read/write access to one resource collection.
type Store[T model.Record[T]] interface {
	// Kind returns the collection name, e.g. "teams".
	Kind() string

	// List returns every record in insertion order.
	List(ctx context.Context) []T

	// Get returns the first record with id.
	// Returns ErrNotFound if no record matches.
	Get(ctx context.Context, id int64) (T, error)

	// Create assigns a fresh id to rec, appends it and returns it.
	// Any id carried by rec is ignored.
	Create(ctx context.Context, rec T) T

	// Delete removes the record with id.
	// Returns ErrNotFound if no record matches.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of records held.
	Count(ctx context.Context) int
}
