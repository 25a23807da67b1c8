package storage

import (
	"context"
)

// Static serves fixed, read-only collections. Writes fail with ErrReadOnly.
type Static struct {
	collections map[string][]Document
}

// NewStatic creates a read-only backend from the given documents
func NewStatic(collections map[string][]Document) *Static {
	copied := make(map[string][]Document, len(collections))
	for name, docs := range collections {
		out := make([]Document, len(docs))
		for i, d := range docs {
			out[i] = d.Clone()
		}
		copied[name] = out
	}
	return &Static{collections: copied}
}

func (s *Static) Name() string { return "static" }

func (s *Static) List(_ context.Context, collection string) ([]Document, error) {
	docs := s.collections[collection]
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out, nil
}

func (s *Static) Insert(context.Context, string, Document) (Document, error) {
	return nil, ErrReadOnly
}

func (s *Static) Patch(context.Context, string, string, Document) error {
	return ErrReadOnly
}

func (s *Static) Remove(context.Context, string, string) error {
	return ErrReadOnly
}
