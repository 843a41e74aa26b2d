package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/okian/catalog/internal/domain/model"
	"github.com/okian/catalog/pkg/metrics"
)

// Store operation names used as metric labels.
const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opDelete = "delete"

	resultOK       = "ok"
	resultNotFound = "not_found"
)

// MemoryStore is an ordered, process-local collection of records.
//
// Lookups are linear scans by id. Writers hold mu exclusively, so ids stay
// unique and each delete removes exactly one record.
type MemoryStore[T model.Record[T]] struct {
	kind string

	mu      sync.RWMutex
	records []T

	lastID atomic.Int64
}

// NewMemoryStore creates a store for the named collection.
func NewMemoryStore[T model.Record[T]](kind string, opts ...Option[T]) *MemoryStore[T] {
	s := &MemoryStore[T]{kind: kind}
	for _, opt := range opts {
		opt(s)
	}

	var maxID int64
	for _, rec := range s.records {
		maxID = max(maxID, rec.RecordID())
	}
	s.lastID.Store(maxID)

	metrics.UpdateRecordsTotal(kind, len(s.records))
	return s
}

// Kind returns the collection name.
func (s *MemoryStore[T]) Kind() string { return s.kind }

// List returns a copy of every record in insertion order.
func (s *MemoryStore[T]) List(_ context.Context) []T {
	s.mu.RLock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	metrics.RecordStoreOperation(s.kind, opList, resultOK)
	return out
}

// Get returns the first record with id.
func (s *MemoryStore[T]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		metrics.RecordStoreOperation(s.kind, opGet, resultOK)
		return s.records[i], nil
	}
	metrics.RecordStoreOperation(s.kind, opGet, resultNotFound)
	var zero T
	return zero, ErrNotFound
}

// Create numbers rec with the next id and appends it.
func (s *MemoryStore[T]) Create(_ context.Context, rec T) T {
	s.mu.Lock()
	rec = rec.WithID(s.lastID.Add(1))
	s.records = append(s.records, rec)
	n := len(s.records)
	s.mu.Unlock()

	metrics.RecordStoreOperation(s.kind, opCreate, resultOK)
	metrics.UpdateRecordsTotal(s.kind, n)
	return rec
}

// Delete removes the first record with id.
func (s *MemoryStore[T]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		metrics.RecordStoreOperation(s.kind, opDelete, resultNotFound)
		return ErrNotFound
	}
	s.records = slices.Delete(s.records, i, i+1)
	n := len(s.records)
	s.mu.Unlock()

	metrics.RecordStoreOperation(s.kind, opDelete, resultOK)
	metrics.UpdateRecordsTotal(s.kind, n)
	return nil
}

// Count returns the number of records held.
func (s *MemoryStore[T]) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexOf must be called with mu held.
func (s *MemoryStore[T]) indexOf(id int64) int {
	return slices.IndexFunc(s.records, func(rec T) bool { return rec.RecordID() == id })
}

var (
	_ Store[model.Team]      = (*MemoryStore[model.Team])(nil)
	_ Store[model.LaserDisc] = (*MemoryStore[model.LaserDisc])(nil)
)
