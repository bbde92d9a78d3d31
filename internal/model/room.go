package model

import (
	"slices"
	"strings"
	"time"
)

// RoomCode is the 6-digit numeric code players use to join a room
type RoomCode string

// GamePhase represents the current position of a room in the game state machine
type GamePhase string

const (
	PhaseWaiting    GamePhase = "waiting"    // Lobby, or between rounds of a running game
	PhaseStarting   GamePhase = "starting"   // Spies chosen, word not yet revealed
	PhaseWordShown  GamePhase = "wordShown"  // Players have seen their word or spy role
	PhaseDiscussion GamePhase = "discussion" // Players discuss
	PhaseVoting     GamePhase = "voting"     // Ballots are being collected
	PhaseFinished   GamePhase = "finished"   // Results disclosed
)

var phaseTransitions = map[GamePhase][]GamePhase{
	PhaseWaiting:    {PhaseStarting},
	PhaseStarting:   {PhaseWordShown},
	PhaseWordShown:  {PhaseDiscussion},
	PhaseDiscussion: {PhaseVoting},
	PhaseVoting:     {PhaseWaiting, PhaseFinished},
	PhaseFinished:   {PhaseWaiting},
}

// CanTransitionTo reports whether target is a forward edge from p.
// The explicit restart back to waiting is not an edge and is handled by the caller.
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	return slices.Contains(phaseTransitions[p], target)
}

// RoomSettings holds the host-configurable game options
type RoomSettings struct {
	SpyCount              int  `json:"spyCount"`
	ShowSpyCountToPlayers bool `json:"showSpyCountToPlayers"`
	AllowSpyDiscussion    bool `json:"allowSpyDiscussion"`
	SpyHintsEnabled       bool `json:"spyHintsEnabled"`
	MaxPlayers            int  `json:"maxPlayers"`
}

// DefaultRoomSettings returns the settings a new room starts with
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		SpyCount:              1,
		ShowSpyCountToPlayers: false,
		AllowSpyDiscussion:    true,
		SpyHintsEnabled:       true,
		MaxPlayers:            8,
	}
}

// Ballot is a single voter's current choice
type Ballot struct {
	Voter  PlayerID
	Target PlayerID
}

// Room is an isolated game session.
// Players are kept in join order; Ballots are kept in the order each voter first voted.
type Room struct {
	Code      RoomCode
	HostID    PlayerID
	Players   []*Player
	Phase     GamePhase
	Category  string // Empty when no game is running
	Word      string // Empty when no game is running
	Spies     []PlayerID
	Settings  RoomSettings
	Ballots   []Ballot
	Round     int // Voting rounds resolved in the current game
	// EliminatedSpies are spies voted out earlier in the current game, kept for the final disclosure
	EliminatedSpies []Player
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given ID, or nil if not in the room
func (r *Room) GetPlayer(id PlayerID) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasPlayer returns true if the player is on the roster
func (r *Room) HasPlayer(id PlayerID) bool {
	return r.GetPlayer(id) != nil
}

// HasName reports whether a player with the given name is present, ignoring case
func (r *Room) HasName(name string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// IsHost returns true if the player is the room host
func (r *Room) IsHost(id PlayerID) bool {
	return r.HostID == id && id != ""
}

// IsSpy returns true if the player is one of the current spies
func (r *Room) IsSpy(id PlayerID) bool {
	return slices.Contains(r.Spies, id)
}

// IsFull returns true if no more players may join
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.Settings.MaxPlayers
}

// RoundInProgress is true while a game has a word assigned and has not finished.
// A room sits in the waiting phase with a round in progress after a non-final elimination.
func (r *Room) RoundInProgress() bool {
	return r.Word != "" && r.Phase != PhaseFinished
}

// CivilianCount returns the number of players on the roster who are not spies
func (r *Room) CivilianCount() int {
	count := 0
	for _, p := range r.Players {
		if !r.IsSpy(p.ID) {
			count++
		}
	}
	return count
}

// SpyCountOnRoster returns the number of spies still on the roster
func (r *Room) SpyCountOnRoster() int {
	count := 0
	for _, p := range r.Players {
		if r.IsSpy(p.ID) {
			count++
		}
	}
	return count
}

// CastBallot records a vote; a repeated vote replaces the voter's previous choice in place
func (r *Room) CastBallot(voter, target PlayerID) {
	for i := range r.Ballots {
		if r.Ballots[i].Voter == voter {
			r.Ballots[i].Target = target
			return
		}
	}
	r.Ballots = append(r.Ballots, Ballot{Voter: voter, Target: target})
}

// ClearBallots discards all ballots
func (r *Room) ClearBallots() {
	r.Ballots = nil
}

// CountedBallots returns the ballots whose voter and target are both still on the roster
func (r *Room) CountedBallots() []Ballot {
	counted := make([]Ballot, 0, len(r.Ballots))
	for _, b := range r.Ballots {
		if r.HasPlayer(b.Voter) && r.HasPlayer(b.Target) {
			counted = append(counted, b)
		}
	}
	return counted
}

// RemovePlayer takes a player off the roster, out of the spy set and out of every ballot.
// If the player was host, the first remaining player in join order becomes host.
// Returns the removed player (nil if absent) and whether the host changed.
func (r *Room) RemovePlayer(id PlayerID) (*Player, bool) {
	idx := slices.IndexFunc(r.Players, func(p *Player) bool { return p.ID == id })
	if idx == -1 {
		return nil, false
	}
	removed := r.Players[idx]
	r.Players = slices.Delete(r.Players, idx, idx+1)

	r.Spies = slices.DeleteFunc(r.Spies, func(s PlayerID) bool { return s == id })
	r.Ballots = slices.DeleteFunc(r.Ballots, func(b Ballot) bool {
		return b.Voter == id || b.Target == id
	})

	hostChanged := false
	if r.HostID == id {
		if len(r.Players) > 0 {
			r.HostID = r.Players[0].ID
		} else {
			r.HostID = ""
		}
		hostChanged = true
	}
	return removed, hostChanged
}

// ResetGame clears all per-game state, keeping the roster and settings
func (r *Room) ResetGame() {
	r.Phase = PhaseWaiting
	r.Category = ""
	r.Word = ""
	r.Spies = nil
	r.Ballots = nil
	r.Round = 0
	r.EliminatedSpies = nil
}

// RoomSummary is the public snapshot of a room included in outbound messages.
// It never carries the word or the spy identities.
type RoomSummary struct {
	Code     RoomCode  `json:"code"`
	Players  []Player  `json:"players"`
	HostID   PlayerID  `json:"hostId"`
	Phase    GamePhase `json:"phase"`
	Category *string   `json:"category"`
}

// Summary builds the public snapshot of the room
func (r *Room) Summary() RoomSummary {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = *p
	}
	var category *string
	if r.Category != "" {
		c := r.Category
		category = &c
	}
	return RoomSummary{
		Code:     r.Code,
		Players:  players,
		HostID:   r.HostID,
		Phase:    r.Phase,
		Category: category,
	}
}
