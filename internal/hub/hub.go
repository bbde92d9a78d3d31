package hub

import (
	"context"
	"errors"
	"log/slog"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/game"
	"github.com/casuskim/casus/internal/services/presence"
	"github.com/casuskim/casus/internal/services/room"
)

// ErrStopped is returned when an event is submitted after the loop has exited
var ErrStopped = errors.New("hub stopped")

// DefaultQueueSize is the capacity of the event queue
const DefaultQueueSize = 1024

// Archiver receives summaries of finished games. It must not block.
type Archiver interface {
	Record(summary *model.GameSummary) bool
}

// Stats is a snapshot of the hub's live state
type Stats struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
}

type event interface{ isEvent() }

type messageEvent struct {
	ch   realtime.Channel
	data []byte
}

type closeEvent struct {
	ch realtime.Channel
}

type queryEvent struct {
	fn   func(*room.Registry)
	done chan struct{}
}

func (messageEvent) isEvent() {}
func (closeEvent) isEvent()   {}
func (queryEvent) isEvent()   {}

// Hub is the single event loop of the game server.
// It owns the room registry, every room and the connection directory; inbound messages,
// channel-close signals and queries are processed one at a time, each to completion.
type Hub struct {
	controller *game.Controller
	registry   *room.Registry
	directory  *realtime.Directory
	router     *realtime.Router
	reaper     *presence.Reaper
	archiver   Archiver
	logger     *slog.Logger

	events chan event
	done   chan struct{}
}

// New creates a new Hub. Run must be called to start processing.
func New(
	controller *game.Controller,
	registry *room.Registry,
	directory *realtime.Directory,
	router *realtime.Router,
	reaper *presence.Reaper,
	archiver Archiver,
	queueSize int,
	logger *slog.Logger,
) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		controller: controller,
		registry:   registry,
		directory:  directory,
		router:     router,
		reaper:     reaper,
		archiver:   archiver,
		logger:     logger.With(slog.String("component", "hub")),
		events:     make(chan event, queueSize),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			channels := h.directory.Channels()
			for _, ch := range channels {
				ch.Close()
			}
			h.logger.Info("hub stopped",
				slog.Int("rooms", h.registry.Count()),
				slog.Int("players", h.directory.Len()),
				slog.Int("closed_channels", len(channels)),
			)
			return
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

func (h *Hub) handle(ev event) {
	switch e := ev.(type) {
	case messageEvent:
		h.handleMessage(e.ch, e.data)
	case closeEvent:
		h.handleClose(e.ch)
	case queryEvent:
		e.fn(h.registry)
		close(e.done)
	}
}

// Submit queues a raw inbound message received on ch
func (h *Hub) Submit(ch realtime.Channel, data []byte) error {
	return h.enqueue(messageEvent{ch: ch, data: data})
}

// Disconnect queues the close signal of ch
func (h *Hub) Disconnect(ch realtime.Channel) error {
	return h.enqueue(closeEvent{ch: ch})
}

func (h *Hub) enqueue(ev event) error {
	select {
	case <-h.done:
		return ErrStopped
	default:
	}
	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// Query runs fn on the loop with read access to the registry and waits for it to finish.
// fn must not retain the rooms it sees.
func (h *Hub) Query(ctx context.Context, fn func(*room.Registry)) error {
	ev := queryEvent{fn: fn, done: make(chan struct{})}
	select {
	case h.events <- ev:
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ev.done:
		return nil
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Room returns the public summary of a room
func (h *Hub) Room(ctx context.Context, code model.RoomCode) (model.RoomSummary, error) {
	var (
		summary model.RoomSummary
		err     error
	)
	queryErr := h.Query(ctx, func(reg *room.Registry) {
		var r *model.Room
		r, err = reg.GetRoom(code)
		if err == nil {
			summary = r.Summary()
		}
	})
	if queryErr != nil {
		return model.RoomSummary{}, queryErr
	}
	return summary, err
}

// Stats returns the number of live rooms and bound players
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := h.Query(ctx, func(reg *room.Registry) {
		stats = Stats{Rooms: reg.Count(), Players: h.directory.Len()}
	})
	return stats, err
}
