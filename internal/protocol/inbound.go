package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/casuskim/casus/internal/model"
)

// Type is the discriminator carried in the "type" field of every message
type Type string

// Inbound message types
const (
	TypeCreateRoom      Type = "createRoom"
	TypeJoinRoom        Type = "joinRoom"
	TypeStartGame       Type = "startGame"
	TypeShowWord        Type = "showWord"
	TypeStartDiscussion Type = "startDiscussion"
	TypeStartVoting     Type = "startVoting"
	TypeVote            Type = "vote"
	TypeRestartGame     Type = "restartGame"
	TypeLeaveRoom       Type = "leaveRoom"
	TypePing            Type = "ping"
)

// MaxNameLength is the longest display name accepted, in runes
const MaxNameLength = 24

// Inbound is a validated client request. The concrete type identifies the operation.
type Inbound interface {
	Type() Type
	validate() error
}

// Actor identifies the room and the acting player of a request made from inside a room
type Actor struct {
	RoomCode model.RoomCode `json:"roomCode"`
	PlayerID model.PlayerID `json:"playerId"`
}

// Acting is implemented by every request that is made by a player already in a room
type Acting interface {
	Inbound
	Acting() Actor
}

// Acting returns the room and player the request is made on behalf of
func (a Actor) Acting() Actor { return a }

func (a Actor) validate() error {
	if a.RoomCode == "" {
		return fmt.Errorf("%w: roomCode is required", model.ErrMalformedMessage)
	}
	if a.PlayerID == "" {
		return fmt.Errorf("%w: playerId is required", model.ErrMalformedMessage)
	}
	return nil
}

// CreateRoom asks for a new room hosted by the sender
type CreateRoom struct {
	PlayerName string `json:"playerName"`
}

// JoinRoom asks to join an existing room in the waiting phase
type JoinRoom struct {
	RoomCode   model.RoomCode `json:"roomCode"`
	PlayerName string         `json:"playerName"`
}

// SettingsPatch carries optional overrides for room settings.
// A nil field keeps the room's current value.
type SettingsPatch struct {
	SpyCount              *int  `json:"spyCount,omitempty"`
	ShowSpyCountToPlayers *bool `json:"showSpyCountToPlayers,omitempty"`
	AllowSpyDiscussion    *bool `json:"allowSpyDiscussion,omitempty"`
	SpyHintsEnabled       *bool `json:"spyHintsEnabled,omitempty"`
}

// StartGame starts a game in the given category
type StartGame struct {
	Actor
	Category string         `json:"category"`
	Settings *SettingsPatch `json:"settings,omitempty"`
}

// ShowWord reveals words and spy roles
type ShowWord struct{ Actor }

// StartDiscussion moves the room to the discussion phase
type StartDiscussion struct{ Actor }

// StartVoting opens the ballot
type StartVoting struct{ Actor }

// Vote casts or replaces the sender's ballot
type Vote struct {
	Actor
	VotedPlayerID model.PlayerID `json:"votedPlayerId"`
}

// RestartGame resets the room to the waiting phase
type RestartGame struct{ Actor }

// LeaveRoom removes the sender from the room
type LeaveRoom struct{ Actor }

// Ping is an application-level keep-alive answered with Pong
type Ping struct{}

func (CreateRoom) Type() Type      { return TypeCreateRoom }
func (JoinRoom) Type() Type        { return TypeJoinRoom }
func (StartGame) Type() Type       { return TypeStartGame }
func (ShowWord) Type() Type        { return TypeShowWord }
func (StartDiscussion) Type() Type { return TypeStartDiscussion }
func (StartVoting) Type() Type     { return TypeStartVoting }
func (Vote) Type() Type            { return TypeVote }
func (RestartGame) Type() Type     { return TypeRestartGame }
func (LeaveRoom) Type() Type       { return TypeLeaveRoom }
func (Ping) Type() Type            { return TypePing }

func (m CreateRoom) validate() error { return validateName(m.PlayerName) }

func (m JoinRoom) validate() error {
	if m.RoomCode == "" {
		return fmt.Errorf("%w: roomCode is required", model.ErrMalformedMessage)
	}
	return validateName(m.PlayerName)
}

func (m StartGame) validate() error {
	if err := m.Actor.validate(); err != nil {
		return err
	}
	if m.Settings != nil && m.Settings.SpyCount != nil && *m.Settings.SpyCount < 1 {
		return fmt.Errorf("%w: spyCount must be at least 1", model.ErrInvalidSettings)
	}
	return nil
}

func (m Vote) validate() error {
	if err := m.Actor.validate(); err != nil {
		return err
	}
	if m.VotedPlayerID == "" {
		return fmt.Errorf("%w: votedPlayerId is required", model.ErrMalformedMessage)
	}
	return nil
}

func (Ping) validate() error { return nil }

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", model.ErrInvalidName, MaxNameLength)
	}
	return nil
}

type envelope struct {
	Type Type `json:"type"`
}

var decoders = map[Type]func([]byte) (Inbound, error){
	TypeCreateRoom:      decodeAs[CreateRoom],
	TypeJoinRoom:        decodeAs[JoinRoom],
	TypeStartGame:       decodeAs[StartGame],
	TypeShowWord:        decodeAs[ShowWord],
	TypeStartDiscussion: decodeAs[StartDiscussion],
	TypeStartVoting:     decodeAs[StartVoting],
	TypeVote:            decodeAs[Vote],
	TypeRestartGame:     decodeAs[RestartGame],
	TypeLeaveRoom:       decodeAs[LeaveRoom],
	TypePing:            decodeAs[Ping],
}

// Decode parses and validates a raw inbound message.
// Unknown types fail with ErrUnknownMessageType, undecodable payloads with ErrMalformedMessage.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedMessage, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: type is required", model.ErrMalformedMessage)
	}

	decode, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}
	msg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := msg.validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeAs[T Inbound](data []byte) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedMessage, err)
	}
	return msg, nil
}

// Encode marshals an inbound message with its type tag, for clients of the server
func Encode(msg Inbound) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return withType(body, msg.Type())
}

func withType(body []byte, t Type) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
