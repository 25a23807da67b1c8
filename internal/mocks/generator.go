package mocks

import (
	"context"
	"sync"

	"github.com/agency-admin-api/internal/draft"
)

// MockGenerator is a draft.Generator returning canned text
type MockGenerator struct {
	Text         string
	Err          error
	GenerateFunc func(ctx context.Context, req draft.Request) (string, error)

	mu       sync.Mutex
	Requests []draft.Request
}

func NewMockGenerator(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

func (m *MockGenerator) Generate(ctx context.Context, req draft.Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// Calls returns the number of Generate invocations
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
