package model

import "time"

// PlayerID uniquely identifies a player across the process
type PlayerID string

// Player represents a participant in a room
type Player struct {
	ID          PlayerID  `json:"id"`
	Name        string    `json:"name"`
	IsConnected bool      `json:"isConnected"`
	JoinedAt    time.Time `json:"joinedAt"`
}
