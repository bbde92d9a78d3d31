package room

import (
	"fmt"
	"log/slog"

	"github.com/casuskim/casus/internal/dependencies/clock"
	"github.com/casuskim/casus/internal/dependencies/identity"
	"github.com/casuskim/casus/internal/dependencies/random"
	"github.com/casuskim/casus/internal/model"
)

const (
	// codeMin and codeSpan bound generated room codes to 6-digit numbers
	codeMin  = 100000
	codeSpan = 900000
)

// Registry maps room codes to rooms and players to the room they are in.
// It is not safe for concurrent use; the hub goroutine owns it.
type Registry struct {
	rooms   map[model.RoomCode]*model.Room
	members map[model.PlayerID]model.RoomCode

	defaults model.RoomSettings
	clock    clock.Clock
	random   random.Random
	ids      identity.Generator
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry. New rooms start with the given settings.
func NewRegistry(
	defaults model.RoomSettings,
	clock clock.Clock,
	random random.Random,
	ids identity.Generator,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		rooms:    make(map[model.RoomCode]*model.Room),
		members:  make(map[model.PlayerID]model.RoomCode),
		defaults: defaults,
		clock:    clock,
		random:   random,
		ids:      ids,
		logger:   logger.With(slog.String("component", "room_registry")),
	}
}

// CreateRoom creates a room in the waiting phase with hostName as its only player and host
func (r *Registry) CreateRoom(hostName string) (*model.Room, *model.Player) {
	now := r.clock.Now()

	// Draw until unused
	var code model.RoomCode
	for {
		code = model.RoomCode(fmt.Sprintf("%06d", codeMin+r.random.Intn(codeSpan)))
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}

	host := r.NewPlayer(hostName)
	room := &model.Room{
		Code:      code,
		HostID:    host.ID,
		Phase:     model.PhaseWaiting,
		Settings:  r.defaults,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.rooms[code] = room
	r.AddPlayer(room, host)

	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("host", string(host.ID)),
	)
	return room, host
}

// NewPlayer creates a connected player with a fresh process-unique ID
func (r *Registry) NewPlayer(name string) *model.Player {
	return &model.Player{
		ID:          model.PlayerID(r.ids.NewID()),
		Name:        name,
		IsConnected: true,
		JoinedAt:    r.clock.Now(),
	}
}

// AddPlayer appends a player to the room's roster
func (r *Registry) AddPlayer(room *model.Room, player *model.Player) {
	room.Players = append(room.Players, player)
	room.UpdatedAt = r.clock.Now()
	r.members[player.ID] = room.Code
}

// RemovePlayer takes a player out of the room, migrating the host if needed.
// A room left empty is deleted. Returns the removed player (nil if absent),
// whether the host changed and whether the room was deleted.
func (r *Registry) RemovePlayer(room *model.Room, id model.PlayerID) (*model.Player, bool, bool) {
	removed, hostChanged := room.RemovePlayer(id)
	if removed == nil {
		return nil, false, false
	}
	delete(r.members, id)
	room.UpdatedAt = r.clock.Now()

	if len(room.Players) == 0 {
		r.DeleteRoom(room.Code)
		return removed, false, true
	}
	if hostChanged {
		r.logger.Info("host migrated",
			slog.String("room", string(room.Code)),
			slog.String("host", string(room.HostID)),
		)
	}
	return removed, hostChanged, false
}

// FindRoom returns the room with the given code
func (r *Registry) FindRoom(code model.RoomCode) (*model.Room, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

// GetRoom returns the room with the given code, or ErrRoomNotFound
func (r *Registry) GetRoom(code model.RoomCode) (*model.Room, error) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

// DeleteRoom removes a room and its membership index entries. Idempotent.
func (r *Registry) DeleteRoom(code model.RoomCode) {
	room, ok := r.rooms[code]
	if !ok {
		return
	}
	for _, p := range room.Players {
		delete(r.members, p.ID)
	}
	delete(r.rooms, code)
	r.logger.Info("room deleted", slog.String("room", string(code)))
}

// RoomOf returns the room the player is currently on the roster of
func (r *Registry) RoomOf(id model.PlayerID) (*model.Room, bool) {
	code, ok := r.members[id]
	if !ok {
		return nil, false
	}
	return r.FindRoom(code)
}

// Count returns the number of live rooms
func (r *Registry) Count() int {
	return len(r.rooms)
}
