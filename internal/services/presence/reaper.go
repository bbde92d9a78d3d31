package presence

import (
	"errors"
	"log/slog"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/game"
	"github.com/casuskim/casus/internal/services/room"
)

// Reaper removes the players of a closed channel from their rooms
type Reaper struct {
	directory  *realtime.Directory
	registry   *room.Registry
	controller *game.Controller
	logger     *slog.Logger
}

// NewReaper creates a new Reaper
func NewReaper(directory *realtime.Directory, registry *room.Registry, controller *game.Controller, logger *slog.Logger) *Reaper {
	return &Reaper{
		directory:  directory,
		registry:   registry,
		controller: controller,
		logger:     logger.With(slog.String("component", "presence")),
	}
}

// Reap handles a channel-close signal. Every player bound to the channel leaves the room
// it is currently in, then the channel's bindings are dropped.
// The returned outcomes carry the playerLeft notifications for the remaining members.
// Reaping a channel with no bindings is a no-op.
func (r *Reaper) Reap(ch realtime.Channel) []game.Outcome {
	players := r.directory.PlayersOn(ch)
	if len(players) == 0 {
		return nil
	}

	var outcomes []game.Outcome
	for _, id := range players {
		rm, ok := r.registry.RoomOf(id)
		if !ok {
			continue
		}
		out, err := r.controller.Leave(rm, id)
		if err != nil {
			if !errors.Is(err, model.ErrNotInRoom) {
				r.logger.Error("failed to remove disconnected player",
					slog.String("player", string(id)),
					slog.Any("error", err),
				)
			}
			continue
		}
		outcomes = append(outcomes, out)
	}

	r.directory.UnregisterChannel(ch)
	r.logger.Info("channel closed",
		slog.String("channel", ch.ID()),
		slog.Int("players", len(players)),
	)
	return outcomes
}
