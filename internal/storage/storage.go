// Package storage is the persistence port shared by every record collection.
// A Backend stores schemaless JSON documents grouped by collection name; the
// typed adapters in internal/repository sit on top of it.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Reserved document fields owned by the backend
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Document is one JSON object in a collection
type Document map[string]any

// ID returns the document identifier, or "" when unset
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// withoutMeta returns a copy without the backend-owned fields
func (d Document) withoutMeta() Document {
	out := d.Clone()
	delete(out, FieldID)
	delete(out, FieldCreatedAt)
	delete(out, FieldUpdatedAt)
	return out
}

// Backend is implemented by every persistence variant
type Backend interface {
	// Name identifies the backend in logs and metrics
	Name() string
	// List returns every document of the collection in backend order
	List(ctx context.Context, collection string) ([]Document, error)
	// Insert stores a new document and returns it with id and createdAt assigned
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	// Patch merges fields into the document with the given id
	Patch(ctx context.Context, collection, id string, fields Document) error
	// Remove deletes the document with the given id. Absent ids are not an error.
	Remove(ctx context.Context, collection, id string) error
}

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("record not found")
	// ErrReadOnly is returned by backends that do not accept writes
	ErrReadOnly = errors.New("collection is read-only")
)

// Kind classifies store failures so callers can pick a propagation path
type Kind string

const (
	// KindList is a failure while fetching a collection
	KindList Kind = "list"
	// KindMutation is a failure of create, update or delete
	KindMutation Kind = "mutation"
)

// Error wraps a backend failure with the operation that caused it
type Error struct {
	Kind       Kind
	Op         string
	Collection string
	Backend    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s on %s backend: %v", e.Op, e.Collection, e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a store error of the given kind
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
