package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotWaiting   = errors.New("game already started")
	ErrRoomFull         = errors.New("room is full")
	ErrNameTaken        = errors.New("a player with this name is already in the room")
	ErrInvalidName      = errors.New("player name is invalid")
	ErrNotInRoom        = errors.New("player is not in the room")
	ErrNotHost          = errors.New("only the host can perform this action")
	ErrNotEnoughPlayers = errors.New("not enough players to start the game")
	ErrInvalidSettings  = errors.New("invalid room settings")

	// Game errors
	ErrWrongPhase        = errors.New("action not allowed in the current phase")
	ErrVotingClosed      = errors.New("voting is not open")
	ErrInvalidVoteTarget = errors.New("vote target is not in the room")
	ErrPlayerNotFound    = errors.New("player not found")

	// Protocol errors
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrUnauthorized       = errors.New("player is not bound to this connection")

	// Delivery errors
	ErrChannelClosed  = errors.New("channel closed")
	ErrSendBufferFull = errors.New("send buffer full")
	ErrNoRecipients   = errors.New("message could not be delivered to any player")

	// Content errors
	ErrNoCategories  = errors.New("no categories loaded")
	ErrEmptyCategory = errors.New("category has no words")
)
