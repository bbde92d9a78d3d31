package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/casuskim/casus/internal/dependencies/clock"
	"github.com/casuskim/casus/internal/dependencies/identity"
	"github.com/casuskim/casus/internal/dependencies/random"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
	"github.com/casuskim/casus/internal/services/room"
	"github.com/casuskim/casus/internal/services/words"
)

// DefaultMinPlayers is the smallest roster a game can start with
const DefaultMinPlayers = 3

// Controller runs the per-room game state machine.
// Every operation either mutates the room and returns an Outcome, or fails without mutating.
// It is not safe for concurrent use; the hub goroutine owns it.
type Controller struct {
	registry   *room.Registry
	words      words.Provider
	clock      clock.Clock
	random     random.Random
	ids        identity.Generator
	minPlayers int
	logger     *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	registry *room.Registry,
	words words.Provider,
	clock clock.Clock,
	random random.Random,
	ids identity.Generator,
	minPlayers int,
	logger *slog.Logger,
) *Controller {
	if minPlayers < DefaultMinPlayers {
		minPlayers = DefaultMinPlayers
	}
	return &Controller{
		registry:   registry,
		words:      words,
		clock:      clock,
		random:     random,
		ids:        ids,
		minPlayers: minPlayers,
		logger:     logger.With(slog.String("component", "game")),
	}
}

// CreateRoom creates a room hosted by a new player
func (c *Controller) CreateRoom(hostName string) (Outcome, error) {
	r, host := c.registry.CreateRoom(strings.TrimSpace(hostName))

	out := Outcome{Joined: host}
	out.add(Direct(host.ID, protocol.RoomCreated{PlayerID: host.ID, Room: r.Summary()}))
	return out, nil
}

// Join adds a new player to a room in the waiting phase
func (c *Controller) Join(code model.RoomCode, name string) (Outcome, error) {
	name = strings.TrimSpace(name)

	r, err := c.registry.GetRoom(code)
	if err != nil {
		return Outcome{}, err
	}
	if r.Phase != model.PhaseWaiting || r.RoundInProgress() {
		return Outcome{}, model.ErrRoomNotWaiting
	}
	if r.HasName(name) {
		return Outcome{}, model.ErrNameTaken
	}
	if r.IsFull() {
		return Outcome{}, model.ErrRoomFull
	}

	player := c.registry.NewPlayer(name)
	c.registry.AddPlayer(r, player)

	c.logger.Info("player joined",
		slog.String("room", string(r.Code)),
		slog.String("player", string(player.ID)),
		slog.Int("players", len(r.Players)),
	)

	summary := r.Summary()
	out := Outcome{Joined: player}
	out.add(
		Direct(player.ID, protocol.RoomJoined{PlayerID: player.ID, Room: summary}),
		Broadcast(r, protocol.PlayerJoined{Player: *player, Room: summary}, player.ID),
	)
	return out, nil
}

// StartGame draws the word, applies settings overrides and selects the spies
func (c *Controller) StartGame(r *model.Room, actor model.PlayerID, category string, patch *protocol.SettingsPatch) (Outcome, error) {
	if !r.IsHost(actor) {
		return Outcome{}, model.ErrNotHost
	}
	if r.Phase != model.PhaseWaiting || r.RoundInProgress() {
		return Outcome{}, model.ErrWrongPhase
	}
	if len(r.Players) < c.minPlayers {
		return Outcome{}, model.ErrNotEnoughPlayers
	}
	settings, err := applySettings(r.Settings, patch)
	if err != nil {
		return Outcome{}, err
	}
	resolved, candidates := c.words.WordsFor(category)
	if len(candidates) == 0 {
		return Outcome{}, fmt.Errorf("no words for category %q: %w", category, model.ErrEmptyCategory)
	}

	r.Settings = settings
	r.Category = resolved
	r.Word = random.Pick(c.random, candidates)
	r.Spies = SelectSpies(c.random, r.Players, EffectiveSpyCount(settings.SpyCount, len(r.Players)))
	r.EliminatedSpies = nil
	r.ClearBallots()
	r.Round = 0
	r.Phase = model.PhaseStarting
	r.UpdatedAt = c.clock.Now()

	c.logger.Info("game started",
		slog.String("room", string(r.Code)),
		slog.String("category", r.Category),
		slog.Int("players", len(r.Players)),
		slog.Int("spies", len(r.Spies)),
	)
	c.logger.Debug("game secrets",
		slog.String("room", string(r.Code)),
		slog.String("word", r.Word),
		slog.Any("spies", r.Spies),
	)

	var out Outcome
	out.add(Broadcast(r, protocol.GameStarted{Room: r.Summary()}, ""))
	return out, nil
}

func applySettings(settings model.RoomSettings, patch *protocol.SettingsPatch) (model.RoomSettings, error) {
	if patch == nil {
		return settings, nil
	}
	if patch.SpyCount != nil {
		if *patch.SpyCount < 1 {
			return settings, model.ErrInvalidSettings
		}
		settings.SpyCount = *patch.SpyCount
	}
	if patch.ShowSpyCountToPlayers != nil {
		settings.ShowSpyCountToPlayers = *patch.ShowSpyCountToPlayers
	}
	if patch.AllowSpyDiscussion != nil {
		settings.AllowSpyDiscussion = *patch.AllowSpyDiscussion
	}
	if patch.SpyHintsEnabled != nil {
		settings.SpyHintsEnabled = *patch.SpyHintsEnabled
	}
	return settings, nil
}

// ShowWord sends every player their own view of the secret: the word for
// civilians, the spy role (and optionally co-spies) for spies
func (c *Controller) ShowWord(r *model.Room, actor model.PlayerID) (Outcome, error) {
	if !r.IsHost(actor) {
		return Outcome{}, model.ErrNotHost
	}
	if r.Phase != model.PhaseStarting {
		return Outcome{}, model.ErrWrongPhase
	}

	r.Phase = model.PhaseWordShown
	r.UpdatedAt = c.clock.Now()

	var spyCount *int
	if r.Settings.ShowSpyCountToPlayers {
		n := len(r.Spies)
		spyCount = &n
	}

	summary := r.Summary()
	out := Outcome{RequireDelivery: true, MarkUnreachable: true}
	for _, p := range r.Players {
		msg := protocol.WordShown{
			Category:        r.Category,
			IsSpy:           r.IsSpy(p.ID),
			SpyCount:        spyCount,
			OtherSpies:      []string{},
			SpyHintsEnabled: r.Settings.SpyHintsEnabled,
			Room:            summary,
		}
		if msg.IsSpy {
			if r.Settings.AllowSpyDiscussion {
				msg.OtherSpies = c.otherSpies(r, p.ID)
			}
		} else {
			word := r.Word
			msg.Word = &word
		}
		out.add(Direct(p.ID, msg))
	}
	return out, nil
}

func (c *Controller) otherSpies(r *model.Room, self model.PlayerID) []string {
	names := []string{}
	for _, id := range r.Spies {
		if id == self {
			continue
		}
		if p := r.GetPlayer(id); p != nil {
			names = append(names, p.Name)
		}
	}
	return names
}

// StartDiscussion opens discussion after the word was shown, or resumes it
// after a non-final elimination
func (c *Controller) StartDiscussion(r *model.Room, actor model.PlayerID) (Outcome, error) {
	if !r.IsHost(actor) {
		return Outcome{}, model.ErrNotHost
	}
	resuming := r.Phase == model.PhaseWaiting && r.RoundInProgress()
	if r.Phase != model.PhaseWordShown && !resuming {
		return Outcome{}, model.ErrWrongPhase
	}

	r.Phase = model.PhaseDiscussion
	r.ClearBallots()
	r.UpdatedAt = c.clock.Now()

	var out Outcome
	out.add(Broadcast(r, protocol.DiscussionStarted{Room: r.Summary()}, ""))
	return out, nil
}

// StartVoting opens a fresh ballot
func (c *Controller) StartVoting(r *model.Room, actor model.PlayerID) (Outcome, error) {
	if !r.IsHost(actor) {
		return Outcome{}, model.ErrNotHost
	}
	if !r.Phase.CanTransitionTo(model.PhaseVoting) {
		return Outcome{}, model.ErrWrongPhase
	}

	r.Phase = model.PhaseVoting
	r.ClearBallots()
	r.UpdatedAt = c.clock.Now()

	var out Outcome
	out.add(Broadcast(r, protocol.VotingStarted{Room: r.Summary()}, ""))
	return out, nil
}

// CastVote records the voter's ballot. The ballot completing the roster
// triggers the tally in the same operation.
func (c *Controller) CastVote(r *model.Room, voter, target model.PlayerID) (Outcome, error) {
	if r.Phase != model.PhaseVoting {
		return Outcome{}, model.ErrVotingClosed
	}
	if !r.HasPlayer(voter) {
		return Outcome{}, model.ErrNotInRoom
	}
	if !r.HasPlayer(target) {
		return Outcome{}, model.ErrInvalidVoteTarget
	}

	r.CastBallot(voter, target)
	r.UpdatedAt = c.clock.Now()

	counted := len(r.CountedBallots())
	if counted < len(r.Players) {
		var out Outcome
		out.add(Broadcast(r, protocol.VoteUpdate{VotedCount: counted, TotalPlayers: len(r.Players)}, ""))
		return out, nil
	}
	return c.resolve(r), nil
}

// resolve tallies a complete ballot and either ends the game or eliminates the
// suspect and loops back to waiting
func (c *Controller) resolve(r *model.Room) Outcome {
	tally := Tally(r)
	suspect := *r.GetPlayer(tally.Suspect)
	wasSpy := r.IsSpy(suspect.ID)
	r.Round++

	c.logger.Info("votes tallied",
		slog.String("room", string(r.Code)),
		slog.Int("round", r.Round),
		slog.String("suspect", string(suspect.ID)),
		slog.Bool("was_spy", wasSpy),
	)

	if wasSpy && r.SpyCountOnRoster() == 1 {
		return c.finish(r, model.SideCivilians, suspect, tally, false)
	}

	// The suspect leaves the game either way from here
	c.registry.RemovePlayer(r, suspect.ID)
	if wasSpy {
		r.EliminatedSpies = append(r.EliminatedSpies, suspect)
		if r.SpyCountOnRoster() == 0 {
			return c.finish(r, model.SideCivilians, suspect, tally, true)
		}
	} else if r.SpyCountOnRoster() >= r.CivilianCount() {
		return c.finish(r, model.SideSpies, suspect, tally, true)
	}

	r.Phase = model.PhaseWaiting
	r.ClearBallots()
	r.UpdatedAt = c.clock.Now()

	msg := protocol.PlayerEliminated{Player: suspect, WasSpy: wasSpy, Room: r.Summary()}
	var out Outcome
	out.add(Broadcast(r, msg, ""), Direct(suspect.ID, msg))
	return out
}

func (c *Controller) finish(r *model.Room, winner model.Side, suspect model.Player, tally TallyResult, removed bool) Outcome {
	r.Phase = model.PhaseFinished
	r.UpdatedAt = c.clock.Now()

	spies := make([]model.Player, 0, len(r.Spies)+len(r.EliminatedSpies))
	for _, id := range r.Spies {
		if p := r.GetPlayer(id); p != nil {
			spies = append(spies, *p)
		}
	}
	spies = append(spies, r.EliminatedSpies...)

	counts, details := VoteCountsByName(tally.Counts)
	results := protocol.Results{
		SpyWins:         winner == model.SideSpies,
		Winner:          winner,
		Word:            r.Word,
		Category:        r.Category,
		Spies:           spies,
		SuspectedPlayer: suspect,
		VoteCounts:      counts,
		VoteDetails:     details,
		Tally:           tally.Counts,
		Rounds:          r.Round,
	}

	spyNames := make([]string, len(spies))
	for i, p := range spies {
		spyNames[i] = p.Name
	}
	summary := &model.GameSummary{
		ID:          c.ids.NewID(),
		RoomCode:    r.Code,
		Category:    r.Category,
		Word:        r.Word,
		Winner:      winner,
		Spies:       spyNames,
		Suspect:     suspect.Name,
		Rounds:      r.Round,
		PlayerCount: len(r.Players),
		VoteCounts:  tally.Counts,
		FinishedAt:  c.clock.Now(),
	}
	r.ClearBallots()

	c.logger.Info("game finished",
		slog.String("room", string(r.Code)),
		slog.String("winner", string(winner)),
		slog.Int("rounds", r.Round),
	)

	msg := protocol.GameFinished{Results: results, Room: r.Summary()}
	out := Outcome{Finished: summary}
	out.add(Broadcast(r, msg, ""))
	if removed {
		out.add(Direct(suspect.ID, msg))
	}
	return out
}

// RestartGame clears the current game and returns the room to waiting, keeping the roster
func (c *Controller) RestartGame(r *model.Room, actor model.PlayerID) (Outcome, error) {
	if !r.IsHost(actor) {
		return Outcome{}, model.ErrNotHost
	}

	r.ResetGame()
	r.UpdatedAt = c.clock.Now()

	c.logger.Info("game restarted", slog.String("room", string(r.Code)))

	var out Outcome
	out.add(Broadcast(r, protocol.GameRestarted{Room: r.Summary()}, ""))
	return out, nil
}

// Leave removes a player from the room. The room is deleted when it empties;
// otherwise the first remaining player becomes host if the host left.
// A leave during voting never triggers a tally.
func (c *Controller) Leave(r *model.Room, id model.PlayerID) (Outcome, error) {
	removed, hostChanged, deleted := c.registry.RemovePlayer(r, id)
	if removed == nil {
		return Outcome{}, model.ErrNotInRoom
	}

	c.logger.Info("player left",
		slog.String("room", string(r.Code)),
		slog.String("player", string(id)),
		slog.Bool("room_deleted", deleted),
	)
	if deleted {
		return Outcome{}, nil
	}

	msg := protocol.PlayerLeft{PlayerID: removed.ID, PlayerName: removed.Name, Room: r.Summary()}
	if hostChanged {
		host := r.HostID
		msg.NewHostID = &host
	}
	var out Outcome
	out.add(Broadcast(r, msg, ""))
	return out, nil
}
