package response

import (
	"time"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/services/words"
)

// Health is the response of the health endpoint
type Health struct {
	Status  string `json:"status"`
	Rooms   int    `json:"rooms"`
	Players int    `json:"players"`
}

// Player represents a room member in API responses
type Player struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsConnected bool      `json:"is_connected"`
	IsHost      bool      `json:"is_host"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Room is the public view of a room. It never carries the word or the spies.
type Room struct {
	Code     string   `json:"code"`
	Phase    string   `json:"phase"`
	HostID   string   `json:"host_id"`
	Category *string  `json:"category"`
	Players  []Player `json:"players"`
}

// RoomFromModel converts a model.RoomSummary
func RoomFromModel(s model.RoomSummary) Room {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = Player{
			ID:          string(p.ID),
			Name:        p.Name,
			IsConnected: p.IsConnected,
			IsHost:      p.ID == s.HostID,
			JoinedAt:    p.JoinedAt,
		}
	}
	return Room{
		Code:     string(s.Code),
		Phase:    string(s.Phase),
		HostID:   string(s.HostID),
		Category: s.Category,
		Players:  players,
	}
}

// Category describes one word category
type Category struct {
	Name      string `json:"name"`
	WordCount int    `json:"word_count"`
	IsDefault bool   `json:"is_default"`
}

// Categories is the response of the categories endpoint
type Categories struct {
	Default    string     `json:"default"`
	Categories []Category `json:"categories"`
}

// CategoriesFromService converts the category list of the word service
func CategoriesFromService(defaultCategory string, infos []words.CategoryInfo) Categories {
	categories := make([]Category, len(infos))
	for i, c := range infos {
		categories[i] = Category{Name: c.Name, WordCount: c.WordCount, IsDefault: c.IsDefault}
	}
	return Categories{Default: defaultCategory, Categories: categories}
}

// VoteCount is the tally for a single target
type VoteCount struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Voters   []string `json:"voters"`
}

// GameSummary is an archived finished game
type GameSummary struct {
	ID          string      `json:"id"`
	RoomCode    string      `json:"room_code"`
	Category    string      `json:"category"`
	Word        string      `json:"word"`
	Winner      string      `json:"winner"`
	Spies       []string    `json:"spies"`
	Suspect     string      `json:"suspect"`
	Rounds      int         `json:"rounds"`
	PlayerCount int         `json:"player_count"`
	VoteCounts  []VoteCount `json:"vote_counts"`
	FinishedAt  time.Time   `json:"finished_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g *model.GameSummary) GameSummary {
	counts := make([]VoteCount, len(g.VoteCounts))
	for i, c := range g.VoteCounts {
		counts[i] = VoteCount{PlayerID: string(c.PlayerID), Name: c.Name, Count: c.Count, Voters: c.Voters}
	}
	return GameSummary{
		ID:          g.ID,
		RoomCode:    string(g.RoomCode),
		Category:    g.Category,
		Word:        g.Word,
		Winner:      string(g.Winner),
		Spies:       g.Spies,
		Suspect:     g.Suspect,
		Rounds:      g.Rounds,
		PlayerCount: g.PlayerCount,
		VoteCounts:  counts,
		FinishedAt:  g.FinishedAt,
	}
}

// History lists the finished games of a room, newest first
type History struct {
	RoomCode string        `json:"room_code"`
	Games    []GameSummary `json:"games"`
}

// HistoryFromModel converts a list of summaries
func HistoryFromModel(code model.RoomCode, summaries []*model.GameSummary) History {
	games := make([]GameSummary, len(summaries))
	for i, g := range summaries {
		games[i] = GameSummaryFromModel(g)
	}
	return History{RoomCode: string(code), Games: games}
}
