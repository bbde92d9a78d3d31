package mocks

import (
	"fmt"

	"github.com/casuskim/casus/internal/dependencies/identity"
)

// MockIdentity hands out queued IDs, then sequential ones of the form "player-N"
type MockIdentity struct {
	Queued []string
	next   int
	issued int
}

// Ensure MockIdentity implements Generator
var _ identity.Generator = (*MockIdentity)(nil)

// NewMockIdentity creates a new MockIdentity
func NewMockIdentity() *MockIdentity {
	return &MockIdentity{}
}

// NewID returns the next queued ID, or a sequential one once the queue is drained
func (m *MockIdentity) NewID() string {
	m.issued++
	if m.next < len(m.Queued) {
		id := m.Queued[m.next]
		m.next++
		return id
	}
	return fmt.Sprintf("player-%d", m.issued)
}

// Queue adds IDs to be returned in order
func (m *MockIdentity) Queue(ids ...string) {
	m.Queued = append(m.Queued, ids...)
}
