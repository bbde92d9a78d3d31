package factory

import (
	"context"
	"time"

	"github.com/casuskim/casus/internal/dependencies/mocks"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage/memory"
	"github.com/casuskim/casus/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockIdentity *mocks.MockIdentity
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Room codes, words and spies follow the MockRandom queue; player IDs follow the MockIdentity queue.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIdentity := mocks.NewMockIdentity()

	app := newWithDependencies(store, mockClock, mockRandom, mockIdentity, Config{}, testutil.NopLogger())

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockIdentity: mockIdentity,
	}
}

// LoadTestWords loads a small word pack for testing
func (t *TestApp) LoadTestWords() error {
	return t.Words.LoadCategories(context.Background(), []model.Category{
		{Name: "Hayvanlar", Words: []string{"Aslan", "Kaplan", "Fil"}},
		{Name: "Meslekler", Words: []string{"Doktor", "Pilot"}},
	})
}
