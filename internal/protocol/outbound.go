package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/casuskim/casus/internal/model"
)

// Outbound message types
const (
	TypeRoomCreated       Type = "roomCreated"
	TypeRoomJoined        Type = "roomJoined"
	TypePlayerJoined      Type = "playerJoined"
	TypePlayerLeft        Type = "playerLeft"
	TypeGameStarted       Type = "gameStarted"
	TypeWordShown         Type = "wordShown"
	TypeDiscussionStarted Type = "discussionStarted"
	TypeVotingStarted     Type = "votingStarted"
	TypeVoteUpdate        Type = "voteUpdate"
	TypePlayerEliminated  Type = "playerEliminated"
	TypeGameFinished      Type = "gameFinished"
	TypeGameRestarted     Type = "gameRestarted"
	TypeError             Type = "error"
	TypePong              Type = "pong"
)

// Outbound is a server message delivered to one or more players
type Outbound interface {
	Type() Type
}

// RoomCreated confirms room creation to its host
type RoomCreated struct {
	PlayerID model.PlayerID    `json:"playerId"`
	Room     model.RoomSummary `json:"room"`
}

// RoomJoined confirms a join to the new player
type RoomJoined struct {
	PlayerID model.PlayerID    `json:"playerId"`
	Room     model.RoomSummary `json:"room"`
}

// PlayerJoined tells existing members about a new player
type PlayerJoined struct {
	Player model.Player      `json:"player"`
	Room   model.RoomSummary `json:"room"`
}

// PlayerLeft tells remaining members that a player left or disconnected
type PlayerLeft struct {
	PlayerID   model.PlayerID    `json:"playerId"`
	PlayerName string            `json:"playerName"`
	NewHostID  *model.PlayerID   `json:"newHostId,omitempty"`
	Room       model.RoomSummary `json:"room"`
}

// GameStarted announces a new game without revealing the word or the spies
type GameStarted struct {
	Room model.RoomSummary `json:"room"`
}

// WordShown is built per recipient. Spies get a nil Word.
type WordShown struct {
	Word            *string           `json:"word"`
	Category        string            `json:"category"`
	IsSpy           bool              `json:"isSpy"`
	SpyCount        *int              `json:"spyCount"`
	OtherSpies      []string          `json:"otherSpies"`
	SpyHintsEnabled bool              `json:"spyHintsEnabled"`
	Room            model.RoomSummary `json:"room"`
}

// DiscussionStarted announces the discussion phase
type DiscussionStarted struct {
	Room model.RoomSummary `json:"room"`
}

// VotingStarted announces the voting phase
type VotingStarted struct {
	Room model.RoomSummary `json:"room"`
}

// VoteUpdate reports ballot progress without revealing ballots
type VoteUpdate struct {
	VotedCount   int `json:"votedCount"`
	TotalPlayers int `json:"totalPlayers"`
}

// PlayerEliminated reports a non-final elimination. The round loops back to waiting.
type PlayerEliminated struct {
	Player model.Player      `json:"player"`
	WasSpy bool              `json:"wasSpy"`
	Room   model.RoomSummary `json:"room"`
}

// Results is the full disclosure sent when a game ends
type Results struct {
	SpyWins         bool                `json:"spyWins"`
	Winner          model.Side          `json:"winner"`
	Word            string              `json:"word"`
	Category        string              `json:"category"`
	Spies           []model.Player      `json:"spies"`
	SuspectedPlayer model.Player        `json:"suspectedPlayer"`
	VoteCounts      map[string]int      `json:"voteCounts"`
	VoteDetails     map[string][]string `json:"voteDetails"`
	Tally           []model.VoteCount   `json:"tally"`
	Rounds          int                 `json:"rounds"`
}

// GameFinished ends a game
type GameFinished struct {
	Results Results           `json:"results"`
	Room    model.RoomSummary `json:"room"`
}

// GameRestarted announces a reset to the waiting phase
type GameRestarted struct {
	Room model.RoomSummary `json:"room"`
}

// Error reports a rejected request to its sender
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pong answers Ping
type Pong struct{}

func (RoomCreated) Type() Type       { return TypeRoomCreated }
func (RoomJoined) Type() Type        { return TypeRoomJoined }
func (PlayerJoined) Type() Type      { return TypePlayerJoined }
func (PlayerLeft) Type() Type        { return TypePlayerLeft }
func (GameStarted) Type() Type       { return TypeGameStarted }
func (WordShown) Type() Type         { return TypeWordShown }
func (DiscussionStarted) Type() Type { return TypeDiscussionStarted }
func (VotingStarted) Type() Type     { return TypeVotingStarted }
func (VoteUpdate) Type() Type        { return TypeVoteUpdate }
func (PlayerEliminated) Type() Type  { return TypePlayerEliminated }
func (GameFinished) Type() Type      { return TypeGameFinished }
func (GameRestarted) Type() Type     { return TypeGameRestarted }
func (Error) Type() Type             { return TypeError }
func (Pong) Type() Type              { return TypePong }

// Marshal encodes an outbound message with its type tag
func Marshal(msg Outbound) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", msg.Type(), err)
	}
	return withType(body, msg.Type())
}

// Event is an outbound message as seen by a client: the type tag plus the raw body
type Event struct {
	Type Type
	Raw  json.RawMessage
}

// ParseEvent reads the type tag of a server message
func ParseEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", model.ErrMalformedMessage, err)
	}
	return Event{Type: env.Type, Raw: data}, nil
}

// Into decodes the event body into one of the outbound message structs
func (e Event) Into(target Outbound) error {
	if target.Type() != e.Type {
		return fmt.Errorf("%w: expected %s, got %s", model.ErrMalformedMessage, target.Type(), e.Type)
	}
	return json.Unmarshal(e.Raw, target)
}
