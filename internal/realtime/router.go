package realtime

import (
	"fmt"
	"log/slog"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

// Report counts the outcome of a delivery
type Report struct {
	Delivered int
	Failed    []model.PlayerID
}

// Merge adds another report's counts to r
func (r *Report) Merge(other Report) {
	r.Delivered += other.Delivered
	r.Failed = append(r.Failed, other.Failed...)
}

// Router delivers outbound messages to players through the Directory.
// Per-recipient failures are counted and logged, never returned.
type Router struct {
	directory *Directory
	logger    *slog.Logger
}

// NewRouter creates a new Router
func NewRouter(directory *Directory, logger *slog.Logger) *Router {
	return &Router{
		directory: directory,
		logger:    logger.With(slog.String("component", "router")),
	}
}

// Send delivers a message to a single player
func (r *Router) Send(id model.PlayerID, msg protocol.Outbound) Report {
	data, err := protocol.Marshal(msg)
	if err != nil {
		r.logger.Error("failed to encode message", slog.String("type", string(msg.Type())), slog.Any("error", err))
		return Report{Failed: []model.PlayerID{id}}
	}
	return r.sendEncoded([]model.PlayerID{id}, data, msg.Type())
}

// SendTo delivers a message straight to a channel, for replies to requests not tied to a player
func (r *Router) SendTo(ch Channel, msg protocol.Outbound) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	if !ch.IsOpen() {
		return model.ErrChannelClosed
	}
	return ch.Send(data)
}

// Broadcast delivers a message to every player on the room's roster except exclude
func (r *Router) Broadcast(room *model.Room, msg protocol.Outbound, exclude model.PlayerID) Report {
	recipients := make([]model.PlayerID, 0, len(room.Players))
	for _, p := range room.Players {
		if p.ID != exclude {
			recipients = append(recipients, p.ID)
		}
	}
	if len(recipients) == 0 {
		return Report{}
	}

	data, err := protocol.Marshal(msg)
	if err != nil {
		r.logger.Error("failed to encode message", slog.String("type", string(msg.Type())), slog.Any("error", err))
		return Report{Failed: recipients}
	}
	report := r.sendEncoded(recipients, data, msg.Type())
	if len(report.Failed) > 0 {
		r.logger.Warn("broadcast partial failure",
			slog.String("room", string(room.Code)),
			slog.String("type", string(msg.Type())),
			slog.Int("sent", report.Delivered),
			slog.Int("failed", len(report.Failed)),
		)
	}
	return report
}

func (r *Router) sendEncoded(recipients []model.PlayerID, data []byte, t protocol.Type) Report {
	var report Report
	for _, id := range recipients {
		if err := r.deliver(id, data); err != nil {
			report.Failed = append(report.Failed, id)
			r.logger.Debug("delivery failed",
				slog.String("player", string(id)),
				slog.String("type", string(t)),
				slog.Any("error", err),
			)
			continue
		}
		report.Delivered++
	}
	return report
}

func (r *Router) deliver(id model.PlayerID, data []byte) error {
	ch, ok := r.directory.ChannelOf(id)
	if !ok {
		return fmt.Errorf("player %s: %w", id, model.ErrChannelClosed)
	}
	if !ch.IsOpen() {
		return model.ErrChannelClosed
	}
	return ch.Send(data)
}
