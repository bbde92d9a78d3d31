package hub

import (
	"log/slog"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/game"
)

func (h *Hub) handleMessage(ch realtime.Channel, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		h.reply(ch, err)
		return
	}

	if _, ok := msg.(protocol.Ping); ok {
		h.send(ch, protocol.Pong{})
		return
	}

	if acting, ok := msg.(protocol.Acting); ok {
		actor := acting.Acting()
		if !h.directory.IsBound(actor.PlayerID, ch) {
			h.logger.Warn("request from unbound channel",
				slog.String("type", string(msg.Type())),
				slog.String("player", string(actor.PlayerID)),
				slog.String("channel", ch.ID()),
			)
			h.reply(ch, model.ErrUnauthorized)
			return
		}
	}

	out, err := h.apply(msg)
	if err != nil {
		h.reply(ch, err)
		return
	}

	if leave, ok := msg.(protocol.LeaveRoom); ok {
		h.directory.Unregister(leave.PlayerID)
	}
	if out.Joined != nil {
		h.directory.Register(out.Joined.ID, ch)
	}

	if report := h.execute(out); out.RequireDelivery && report.Delivered == 0 && len(out.Deliveries) > 0 {
		h.reply(ch, model.ErrNoRecipients)
	}
}

// apply runs the game operation named by msg
func (h *Hub) apply(msg protocol.Inbound) (game.Outcome, error) {
	switch m := msg.(type) {
	case protocol.CreateRoom:
		return h.controller.CreateRoom(m.PlayerName)
	case protocol.JoinRoom:
		return h.controller.Join(m.RoomCode, m.PlayerName)
	}

	acting, ok := msg.(protocol.Acting)
	if !ok {
		return game.Outcome{}, model.ErrUnknownMessageType
	}
	actor := acting.Acting()
	r, err := h.registry.GetRoom(actor.RoomCode)
	if err != nil {
		return game.Outcome{}, err
	}

	switch m := msg.(type) {
	case protocol.StartGame:
		return h.controller.StartGame(r, actor.PlayerID, m.Category, m.Settings)
	case protocol.ShowWord:
		return h.controller.ShowWord(r, actor.PlayerID)
	case protocol.StartDiscussion:
		return h.controller.StartDiscussion(r, actor.PlayerID)
	case protocol.StartVoting:
		return h.controller.StartVoting(r, actor.PlayerID)
	case protocol.Vote:
		return h.controller.CastVote(r, actor.PlayerID, m.VotedPlayerID)
	case protocol.RestartGame:
		return h.controller.RestartGame(r, actor.PlayerID)
	case protocol.LeaveRoom:
		return h.controller.Leave(r, actor.PlayerID)
	default:
		return game.Outcome{}, model.ErrUnknownMessageType
	}
}

// execute delivers an outcome's messages in order and performs its follow-up work
func (h *Hub) execute(out game.Outcome) realtime.Report {
	var report realtime.Report
	for _, d := range out.Deliveries {
		if d.Room != nil {
			report.Merge(h.router.Broadcast(d.Room, d.Message, d.Exclude))
		} else {
			report.Merge(h.router.Send(d.To, d.Message))
		}
	}
	if out.MarkUnreachable {
		h.markUnreachable(report.Failed)
	}

	if out.Finished != nil && h.archiver != nil {
		if !h.archiver.Record(out.Finished) {
			h.logger.Warn("game summary dropped", slog.String("room", string(out.Finished.RoomCode)))
		}
	}
	return report
}

// markUnreachable sets isConnected=false for roster members whose delivery failed
func (h *Hub) markUnreachable(failed []model.PlayerID) {
	for _, id := range failed {
		r, ok := h.registry.RoomOf(id)
		if !ok {
			continue
		}
		if p := r.GetPlayer(id); p != nil && p.IsConnected {
			p.IsConnected = false
			h.logger.Info("player marked unreachable",
				slog.String("room", string(r.Code)),
				slog.String("player", string(id)),
			)
		}
	}
}

func (h *Hub) handleClose(ch realtime.Channel) {
	for _, out := range h.reaper.Reap(ch) {
		h.execute(out)
	}
	ch.Close()
}

// reply sends an error message to the requesting channel
func (h *Hub) reply(ch realtime.Channel, err error) {
	msg, known := protocol.ErrorFor(err)
	if !known {
		h.logger.Error("unexpected error handling request", slog.Any("error", err))
	} else {
		h.logger.Debug("request rejected", slog.String("code", msg.Code), slog.Any("error", err))
	}
	h.send(ch, msg)
}

func (h *Hub) send(ch realtime.Channel, msg protocol.Outbound) {
	if err := h.router.SendTo(ch, msg); err != nil {
		h.logger.Debug("reply not delivered",
			slog.String("channel", ch.ID()),
			slog.String("type", string(msg.Type())),
			slog.Any("error", err),
		)
	}
}
