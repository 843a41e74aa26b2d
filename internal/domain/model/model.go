// Package model contains the record shapes served by the catalog and the
// descriptors that tell the generic CRUD layer how to serve them.
package model

// Record is implemented by every resource shape served by the catalog.
// WithID returns a copy of the record carrying id.
type Record[T any] interface {
	RecordID() int64
	WithID(id int64) T
}

// Kind describes one resource collection.
type Kind[T Record[T]] struct {
	// Name is the collection path segment, e.g. "teams".
	Name string
	// Label is the singular name used in response messages, e.g. "Equipo".
	Label string
	// Seed holds the records present at startup, in order.
	Seed []T
}

// NotFoundMessage is the message returned when an id matches no record.
func (k Kind[T]) NotFoundMessage() string { return k.Label + " no encontrado" }

// DeletedMessage is the message returned after a successful delete.
func (k Kind[T]) DeletedMessage() string { return k.Label + " eliminado" }
