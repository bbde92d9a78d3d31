package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/casuskim/casus/internal/api/response"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

// PrintEvent outputs a game event received over the WebSocket.
// JSON output writes the raw message on a single line.
func (o *Output) PrintEvent(ev protocol.Event) {
	if o.format == "json" {
		_, _ = fmt.Fprintln(o.out, strings.TrimSpace(string(ev.Raw)))
		return
	}
	_, _ = fmt.Fprintf(o.out, "[%s] %s\n", time.Now().Format("15:04:05"), describeEvent(ev))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printHealth(v)
	case response.Categories:
		o.printCategories(v)
	case response.Room:
		o.printRoom(v)
	case response.History:
		o.printHistory(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}

func (o *Output) printHealth(h response.Health) {
	o.printf("Status: %s\n", h.Status)
	o.printf("Rooms: %d\n", h.Rooms)
	o.printf("Players: %d\n", h.Players)
}

func (o *Output) printCategories(c response.Categories) {
	o.printf("Categories (%d):\n", len(c.Categories))
	for _, cat := range c.Categories {
		defaultStr := ""
		if cat.IsDefault {
			defaultStr = " [default]"
		}
		o.printf("  - %s (%d words)%s\n", cat.Name, cat.WordCount, defaultStr)
	}
}

func (o *Output) printRoom(r response.Room) {
	o.printf("Room: %s\n", r.Code)
	o.printf("Phase: %s\n", r.Phase)
	if r.Category != nil {
		o.printf("Category: %s\n", *r.Category)
	}
	o.printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if !p.IsConnected {
			tags = append(tags, "disconnected")
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		o.printf("  - %s (%s)%s\n", p.Name, p.ID, tagStr)
	}
}

func (o *Output) printHistory(h response.History) {
	if len(h.Games) == 0 {
		o.printf("No finished games in room %s\n", h.RoomCode)
		return
	}
	o.printf("Games in room %s (%d):\n", h.RoomCode, len(h.Games))
	for _, g := range h.Games {
		o.printf("\n%s  %s\n", g.FinishedAt.Local().Format(time.DateTime), g.ID)
		o.printf("  Winner: %s\n", g.Winner)
		o.printf("  Word: %s (%s)\n", g.Word, g.Category)
		o.printf("  Spies: %s\n", strings.Join(g.Spies, ", "))
		o.printf("  Suspect: %s\n", g.Suspect)
		o.printf("  Rounds: %d, Players: %d\n", g.Rounds, g.PlayerCount)
	}
}

// describeEvent renders a one-line text description of a server message
func describeEvent(ev protocol.Event) string {
	switch ev.Type {
	case protocol.TypeRoomCreated:
		var m protocol.RoomCreated
		if ev.Into(&m) == nil {
			return fmt.Sprintf("created room %s as %s", m.Room.Code, m.PlayerID)
		}
	case protocol.TypeRoomJoined:
		var m protocol.RoomJoined
		if ev.Into(&m) == nil {
			return fmt.Sprintf("joined room %s as %s, players: %s", m.Room.Code, m.PlayerID, playerNames(m.Room))
		}
	case protocol.TypePlayerJoined:
		var m protocol.PlayerJoined
		if ev.Into(&m) == nil {
			return fmt.Sprintf("%s joined (%s)", m.Player.Name, m.Player.ID)
		}
	case protocol.TypePlayerLeft:
		var m protocol.PlayerLeft
		if ev.Into(&m) == nil {
			s := fmt.Sprintf("%s left", m.PlayerName)
			if m.NewHostID != nil {
				s += fmt.Sprintf(", new host is %s", playerName(m.Room, *m.NewHostID))
			}
			return s
		}
	case protocol.TypeGameStarted:
		var m protocol.GameStarted
		if ev.Into(&m) == nil {
			category := ""
			if m.Room.Category != nil {
				category = *m.Room.Category
			}
			return fmt.Sprintf("game started, category %s", category)
		}
	case protocol.TypeWordShown:
		var m protocol.WordShown
		if ev.Into(&m) == nil {
			return describeWord(m)
		}
	case protocol.TypeDiscussionStarted:
		return "discussion started"
	case protocol.TypeVotingStarted:
		var m protocol.VotingStarted
		if ev.Into(&m) == nil {
			return fmt.Sprintf("voting started, candidates: %s", playerNames(m.Room))
		}
	case protocol.TypeVoteUpdate:
		var m protocol.VoteUpdate
		if ev.Into(&m) == nil {
			return fmt.Sprintf("votes: %d/%d", m.VotedCount, m.TotalPlayers)
		}
	case protocol.TypePlayerEliminated:
		var m protocol.PlayerEliminated
		if ev.Into(&m) == nil {
			role := "not a spy"
			if m.WasSpy {
				role = "a spy"
			}
			return fmt.Sprintf("%s was eliminated and was %s", m.Player.Name, role)
		}
	case protocol.TypeGameFinished:
		var m protocol.GameFinished
		if ev.Into(&m) == nil {
			return describeResults(m.Results)
		}
	case protocol.TypeGameRestarted:
		return "game restarted, back to waiting"
	case protocol.TypeError:
		var m protocol.Error
		if ev.Into(&m) == nil {
			return fmt.Sprintf("error %s: %s", m.Code, m.Message)
		}
	case protocol.TypePong:
		return "pong"
	}
	return fmt.Sprintf("%s %s", ev.Type, strings.TrimSpace(string(ev.Raw)))
}

func describeWord(m protocol.WordShown) string {
	var b strings.Builder
	if m.IsSpy {
		fmt.Fprintf(&b, "you are a SPY, category %s", m.Category)
		if len(m.OtherSpies) > 0 {
			fmt.Fprintf(&b, ", other spies: %s", strings.Join(m.OtherSpies, ", "))
		}
	} else if m.Word != nil {
		fmt.Fprintf(&b, "your word is %s, category %s", *m.Word, m.Category)
	}
	if m.SpyCount != nil {
		fmt.Fprintf(&b, ", spies in game: %d", *m.SpyCount)
	}
	return b.String()
}

func describeResults(r protocol.Results) string {
	winner := "civilians win"
	if r.SpyWins {
		winner = "spies win"
	}
	spies := make([]string, len(r.Spies))
	for i, p := range r.Spies {
		spies[i] = p.Name
	}
	return fmt.Sprintf("game over, %s. Word: %s, spies: %s, suspect: %s",
		winner, r.Word, strings.Join(spies, ", "), r.SuspectedPlayer.Name)
}

func playerNames(room model.RoomSummary) string {
	names := make([]string, len(room.Players))
	for i, p := range room.Players {
		names[i] = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	return strings.Join(names, ", ")
}

func playerName(room model.RoomSummary, id model.PlayerID) string {
	for _, p := range room.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return string(id)
}
