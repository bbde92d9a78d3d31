package storage

import (
	"context"

	"github.com/casuskim/casus/internal/model"
)

// Storage defines the interface for data persistence.
// Live rooms are never stored; they are owned by the hub.
type Storage interface {
	// Word pack operations
	SaveCategories(ctx context.Context, categories []model.Category) error
	GetCategories(ctx context.Context) ([]model.Category, error)

	// Game history operations
	SaveGameSummary(ctx context.Context, summary *model.GameSummary) error
	ListGameSummaries(ctx context.Context, code model.RoomCode, limit int) ([]*model.GameSummary, error)
}
