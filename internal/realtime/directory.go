package realtime

import (
	"slices"

	"github.com/casuskim/casus/internal/model"
)

// Directory maps player IDs to their channel and channels back to the players bound to them.
// One channel may carry several players (a client that created a room and later joined another).
// It is not safe for concurrent use; the hub goroutine owns it.
type Directory struct {
	byPlayer  map[model.PlayerID]Channel
	byChannel map[string][]model.PlayerID
}

// NewDirectory creates an empty Directory
func NewDirectory() *Directory {
	return &Directory{
		byPlayer:  make(map[model.PlayerID]Channel),
		byChannel: make(map[string][]model.PlayerID),
	}
}

// Register binds a player to a channel, replacing any previous binding of that player
func (d *Directory) Register(id model.PlayerID, ch Channel) {
	d.Unregister(id)
	d.byPlayer[id] = ch
	d.byChannel[ch.ID()] = append(d.byChannel[ch.ID()], id)
}

// Unregister removes a player's binding. Idempotent.
func (d *Directory) Unregister(id model.PlayerID) {
	ch, ok := d.byPlayer[id]
	if !ok {
		return
	}
	delete(d.byPlayer, id)

	players := slices.DeleteFunc(d.byChannel[ch.ID()], func(p model.PlayerID) bool { return p == id })
	if len(players) == 0 {
		delete(d.byChannel, ch.ID())
	} else {
		d.byChannel[ch.ID()] = players
	}
}

// ChannelOf returns the channel bound to a player
func (d *Directory) ChannelOf(id model.PlayerID) (Channel, bool) {
	ch, ok := d.byPlayer[id]
	return ch, ok
}

// IsBound reports whether the player is bound to exactly this channel
func (d *Directory) IsBound(id model.PlayerID, ch Channel) bool {
	bound, ok := d.byPlayer[id]
	return ok && bound.ID() == ch.ID()
}

// PlayersOn returns the players bound to a channel, in binding order
func (d *Directory) PlayersOn(ch Channel) []model.PlayerID {
	return slices.Clone(d.byChannel[ch.ID()])
}

// UnregisterChannel removes every binding of a channel and returns the players that were bound.
// A channel with no bindings yields nil.
func (d *Directory) UnregisterChannel(ch Channel) []model.PlayerID {
	players := d.byChannel[ch.ID()]
	for _, id := range players {
		delete(d.byPlayer, id)
	}
	delete(d.byChannel, ch.ID())
	return players
}

// Channels returns every channel with at least one binding
func (d *Directory) Channels() []Channel {
	seen := make(map[string]bool, len(d.byChannel))
	channels := make([]Channel, 0, len(d.byChannel))
	for _, ch := range d.byPlayer {
		if seen[ch.ID()] {
			continue
		}
		seen[ch.ID()] = true
		channels = append(channels, ch)
	}
	return channels
}

// Len returns the number of bound players
func (d *Directory) Len() int {
	return len(d.byPlayer)
}
