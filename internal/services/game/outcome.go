package game

import (
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

// Delivery is one outbound message and its recipients.
// A delivery with a Room is broadcast to the room's roster at delivery time, minus Exclude;
// otherwise it is sent directly to To.
type Delivery struct {
	Room    *model.Room
	Exclude model.PlayerID
	To      model.PlayerID
	Message protocol.Outbound
}

// Direct creates a delivery to a single player
func Direct(to model.PlayerID, msg protocol.Outbound) Delivery {
	return Delivery{To: to, Message: msg}
}

// Broadcast creates a delivery to every member of the room except exclude
func Broadcast(room *model.Room, msg protocol.Outbound, exclude model.PlayerID) Delivery {
	return Delivery{Room: room, Exclude: exclude, Message: msg}
}

// Outcome is the result of a successful operation: the messages it produced
// and the follow-up work the caller must perform.
type Outcome struct {
	Deliveries []Delivery

	// Joined is a newly created player that must be bound to the requesting channel
	// before deliveries are made
	Joined *model.Player

	// RequireDelivery reports ErrNoRecipients to the requester when no delivery succeeds
	RequireDelivery bool

	// MarkUnreachable sets isConnected=false on roster players whose delivery failed
	MarkUnreachable bool

	// Finished is set when the operation ended a game
	Finished *model.GameSummary
}

func (o *Outcome) add(d ...Delivery) {
	o.Deliveries = append(o.Deliveries, d...)
}
