package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(ids ...PlayerID) *Room {
	room := &Room{
		Code:     "123456",
		Phase:    PhaseWaiting,
		Settings: DefaultRoomSettings(),
	}
	for _, id := range ids {
		room.Players = append(room.Players, &Player{ID: id, Name: string(id), IsConnected: true})
	}
	if len(ids) > 0 {
		room.HostID = ids[0]
	}
	return room
}

func TestPhaseTransitions(t *testing.T) {
	tests := []struct {
		from, to GamePhase
		allowed  bool
	}{
		{PhaseWaiting, PhaseStarting, true},
		{PhaseStarting, PhaseWordShown, true},
		{PhaseWordShown, PhaseDiscussion, true},
		{PhaseDiscussion, PhaseVoting, true},
		{PhaseVoting, PhaseWaiting, true},
		{PhaseVoting, PhaseFinished, true},
		{PhaseFinished, PhaseWaiting, true},
		{PhaseWaiting, PhaseVoting, false},
		{PhaseWordShown, PhaseStarting, false},
		{PhaseFinished, PhaseVoting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestHasNameIgnoresCase(t *testing.T) {
	room := newTestRoom("Alice", "Bob")

	assert.True(t, room.HasName("alice"))
	assert.True(t, room.HasName("BOB"))
	assert.False(t, room.HasName("Carol"))
}

func TestCastBallotReplacesInPlace(t *testing.T) {
	room := newTestRoom("a", "b", "c")

	room.CastBallot("a", "b")
	room.CastBallot("b", "c")
	room.CastBallot("a", "c")

	require.Len(t, room.Ballots, 2)
	assert.Equal(t, Ballot{Voter: "a", Target: "c"}, room.Ballots[0])
	assert.Equal(t, Ballot{Voter: "b", Target: "c"}, room.Ballots[1])
}

func TestRemovePlayerMigratesHost(t *testing.T) {
	room := newTestRoom("a", "b", "c")

	removed, hostChanged := room.RemovePlayer("a")

	require.NotNil(t, removed)
	assert.Equal(t, PlayerID("a"), removed.ID)
	assert.True(t, hostChanged)
	assert.Equal(t, PlayerID("b"), room.HostID)
	assert.Len(t, room.Players, 2)
}

func TestRemovePlayerKeepsHostWhenNonHostLeaves(t *testing.T) {
	room := newTestRoom("a", "b", "c")

	_, hostChanged := room.RemovePlayer("c")

	assert.False(t, hostChanged)
	assert.Equal(t, PlayerID("a"), room.HostID)
}

func TestRemovePlayerDropsSpyAndBallots(t *testing.T) {
	room := newTestRoom("a", "b", "c")
	room.Spies = []PlayerID{"b"}
	room.CastBallot("a", "b")
	room.CastBallot("b", "c")
	room.CastBallot("c", "a")

	room.RemovePlayer("b")

	assert.Empty(t, room.Spies)
	require.Len(t, room.Ballots, 1)
	assert.Equal(t, Ballot{Voter: "c", Target: "a"}, room.Ballots[0])
}

func TestRemoveLastPlayerClearsHost(t *testing.T) {
	room := newTestRoom("a")

	room.RemovePlayer("a")

	assert.Empty(t, room.Players)
	assert.Equal(t, PlayerID(""), room.HostID)
}

func TestRemoveUnknownPlayer(t *testing.T) {
	room := newTestRoom("a")

	removed, hostChanged := room.RemovePlayer("zzz")

	assert.Nil(t, removed)
	assert.False(t, hostChanged)
	assert.Len(t, room.Players, 1)
}

func TestSummaryHidesSecrets(t *testing.T) {
	room := newTestRoom("a", "b", "c")
	room.Word = "Aslan"
	room.Spies = []PlayerID{"b"}

	summary := room.Summary()

	assert.Nil(t, summary.Category)
	assert.Len(t, summary.Players, 3)
	assert.Equal(t, PlayerID("a"), summary.HostID)

	room.Category = "Hayvanlar"
	summary = room.Summary()
	require.NotNil(t, summary.Category)
	assert.Equal(t, "Hayvanlar", *summary.Category)
}

func TestCountsBySide(t *testing.T) {
	room := newTestRoom("a", "b", "c", "d")
	room.Spies = []PlayerID{"b", "d"}

	assert.Equal(t, 2, room.CivilianCount())
	assert.Equal(t, 2, room.SpyCountOnRoster())
}

func TestResetGameKeepsRoster(t *testing.T) {
	room := newTestRoom("a", "b", "c")
	room.Phase = PhaseFinished
	room.Category = "Hayvanlar"
	room.Word = "Aslan"
	room.Spies = []PlayerID{"a"}
	room.CastBallot("a", "b")
	room.Round = 2

	room.ResetGame()

	assert.Equal(t, PhaseWaiting, room.Phase)
	assert.Empty(t, room.Category)
	assert.Empty(t, room.Word)
	assert.Empty(t, room.Spies)
	assert.Empty(t, room.Ballots)
	assert.Zero(t, room.Round)
	assert.Len(t, room.Players, 3)
}
