package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage"
)

// MaxSummariesPerRoom bounds the history kept for a single room code
const MaxSummariesPerRoom = 50

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	categories []model.Category
	summaries  map[model.RoomCode][]*model.GameSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		summaries: make(map[model.RoomCode][]*model.GameSummary),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Word pack operations

func (s *Storage) SaveCategories(ctx context.Context, categories []model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = cloneCategories(categories)
	return nil
}

func (s *Storage) GetCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.categories) == 0 {
		return nil, model.ErrNoCategories
	}
	return cloneCategories(s.categories), nil
}

// Game history operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]*model.GameSummary{summary}, s.summaries[summary.RoomCode]...)
	if len(list) > MaxSummariesPerRoom {
		list = list[:MaxSummariesPerRoom]
	}
	s.summaries[summary.RoomCode] = list
	return nil
}

// ListGameSummaries returns summaries newest first. A limit <= 0 returns all of them.
func (s *Storage) ListGameSummaries(ctx context.Context, code model.RoomCode, limit int) ([]*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.summaries[code]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return slices.Clone(list), nil
}

func cloneCategories(categories []model.Category) []model.Category {
	result := make([]model.Category, len(categories))
	for i, c := range categories {
		result[i] = model.Category{Name: c.Name, Words: slices.Clone(c.Words)}
	}
	return result
}
