package repository

import "github.com/okian/catalog/internal/domain/model"

// Option applies a configuration option to a MemoryStore.
type Option[T model.Record[T]] func(*MemoryStore[T])

// WithSeed preloads records, in order. The id counter continues after the
// largest seeded id.
func WithSeed[T model.Record[T]](records ...T) Option[T] {
	return func(s *MemoryStore[T]) {
		s.records = append(s.records, records...)
	}
}
