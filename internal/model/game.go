package model

import "time"

// Side identifies the winning team of a game
type Side string

const (
	SideSpies     Side = "spies"
	SideCivilians Side = "civilians"
)

// VoteCount is the tally for a single target, with the names of the players who voted for it
type VoteCount struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Voters   []string `json:"voters"`
}

// GameSummary is a record of a finished game
type GameSummary struct {
	ID          string      `json:"id"`
	RoomCode    RoomCode    `json:"roomCode"`
	Category    string      `json:"category"`
	Word        string      `json:"word"`
	Winner      Side        `json:"winner"`
	Spies       []string    `json:"spies"`
	Suspect     string      `json:"suspect"`
	Rounds      int         `json:"rounds"`
	PlayerCount int         `json:"playerCount"`
	VoteCounts  []VoteCount `json:"voteCounts"`
	FinishedAt  time.Time   `json:"finishedAt"`
}
