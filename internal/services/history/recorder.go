package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage"
)

const (
	// DefaultQueueSize is the number of summaries that can wait to be saved
	DefaultQueueSize = 64
	// DefaultListLimit caps history listings when no limit is given
	DefaultListLimit = 20

	saveTimeout = 5 * time.Second
)

// Recorder archives finished-game summaries off the hub goroutine
type Recorder struct {
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan *model.GameSummary
	done   chan struct{}
}

// NewRecorder creates a Recorder. Call Run to start saving.
func NewRecorder(storage storage.Storage, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		storage: storage,
		logger:  logger.With(slog.String("component", "history")),
		queue:   make(chan *model.GameSummary, queueSize),
		done:    make(chan struct{}),
	}
}

// Record queues a summary without blocking. Returns false if the summary was dropped.
func (r *Recorder) Record(summary *model.GameSummary) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	select {
	case r.queue <- summary:
		return true
	default:
		r.logger.Warn("history queue full, dropping summary",
			slog.String("room", string(summary.RoomCode)),
			slog.String("game_id", summary.ID),
		)
		return false
	}
}

// Run saves queued summaries until Close is called and the queue is drained
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	for summary := range r.queue {
		r.save(ctx, summary)
	}
}

func (r *Recorder) save(ctx context.Context, summary *model.GameSummary) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := r.storage.SaveGameSummary(saveCtx, summary); err != nil {
		r.logger.Error("failed to save game summary",
			slog.String("room", string(summary.RoomCode)),
			slog.String("game_id", summary.ID),
			slog.Any("error", err),
		)
		return
	}
	r.logger.Debug("game summary saved",
		slog.String("room", string(summary.RoomCode)),
		slog.String("game_id", summary.ID),
	)
}

// Close stops accepting summaries and waits for queued ones to be saved.
// Run must have been started.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

// List returns a room's finished games, newest first
func (r *Recorder) List(ctx context.Context, code model.RoomCode, limit int) ([]*model.GameSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.storage.ListGameSummaries(ctx, code, limit)
}
