package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/agency-admin-api/internal/storage"
)

// MockBackend is an in-memory storage.Backend with per-operation failure injection
type MockBackend struct {
	ListError   error
	InsertError error
	PatchError  error
	RemoveError error

	mu    sync.Mutex
	calls map[string]int
	kv    *storage.KV
}

// NewMockBackend creates an empty backend. now may be nil.
func NewMockBackend(now func() time.Time) *MockBackend {
	opts := []storage.KVOption{storage.WithName("mock")}
	if now != nil {
		opts = append(opts, storage.WithClock(now))
	}
	return &MockBackend{
		calls: make(map[string]int),
		kv:    storage.NewKV(storage.NewMemoryBlob(), opts...),
	}
}

func (m *MockBackend) Name() string { return "mock" }

// Calls returns how many times op was invoked
func (m *MockBackend) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockBackend) record(op string) {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()
}

func (m *MockBackend) List(ctx context.Context, collection string) ([]storage.Document, error) {
	m.record("list")
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.kv.List(ctx, collection)
}

func (m *MockBackend) Insert(ctx context.Context, collection string, doc storage.Document) (storage.Document, error) {
	m.record("insert")
	if m.InsertError != nil {
		return nil, m.InsertError
	}
	return m.kv.Insert(ctx, collection, doc)
}

func (m *MockBackend) Patch(ctx context.Context, collection, id string, fields storage.Document) error {
	m.record("patch")
	if m.PatchError != nil {
		return m.PatchError
	}
	return m.kv.Patch(ctx, collection, id, fields)
}

func (m *MockBackend) Remove(ctx context.Context, collection, id string) error {
	m.record("remove")
	if m.RemoveError != nil {
		return m.RemoveError
	}
	return m.kv.Remove(ctx, collection, id)
}
