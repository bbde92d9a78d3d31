package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/casuskim/casus/internal/dependencies/mocks"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/game"
	"github.com/casuskim/casus/internal/services/room"
	"github.com/casuskim/casus/internal/services/words"
	"github.com/casuskim/casus/internal/storage/memory"
	"github.com/casuskim/casus/internal/testutil"
)

type ReaperSuite struct {
	suite.Suite
	ids        *mocks.MockIdentity
	registry   *room.Registry
	directory  *realtime.Directory
	controller *game.Controller
	reaper     *Reaper
	room       *model.Room
}

func TestReaperSuite(t *testing.T) {
	suite.Run(t, new(ReaperSuite))
}

func (s *ReaperSuite) SetupTest() {
	clock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	s.ids = mocks.NewMockIdentity()
	s.registry = room.NewRegistry(model.DefaultRoomSettings(), clock, rnd, s.ids, testutil.NopLogger())
	s.directory = realtime.NewDirectory()

	wordService := words.New(memory.New(), words.DefaultCategory, testutil.NopLogger())
	s.Require().NoError(wordService.LoadCategories(context.Background(), words.DefaultCategories()))

	s.controller = game.NewController(s.registry, wordService, clock, rnd, s.ids, game.DefaultMinPlayers, testutil.NopLogger())
	s.reaper = NewReaper(s.directory, s.registry, s.controller, testutil.NopLogger())

	s.ids.Queue("a", "b", "c")
	out, err := s.controller.CreateRoom("A")
	s.Require().NoError(err)
	s.room, _ = s.registry.RoomOf(out.Joined.ID)
	for _, name := range []string{"B", "C"} {
		_, err := s.controller.Join(s.room.Code, name)
		s.Require().NoError(err)
	}
}

func (s *ReaperSuite) bind(id model.PlayerID) *mocks.MockChannel {
	ch := mocks.NewMockChannel("ch-" + string(id))
	s.directory.Register(id, ch)
	return ch
}

func (s *ReaperSuite) TestReapRemovesPlayerAndNotifiesRoom() {
	ch := s.bind("b")

	outcomes := s.reaper.Reap(ch)

	s.Require().Len(outcomes, 1)
	s.Require().Len(outcomes[0].Deliveries, 1)
	left, ok := outcomes[0].Deliveries[0].Message.(protocol.PlayerLeft)
	s.Require().True(ok)
	s.Equal(model.PlayerID("b"), left.PlayerID)
	s.Nil(left.NewHostID)
	s.False(s.room.HasPlayer("b"))
	s.Empty(s.directory.PlayersOn(ch))
}

func (s *ReaperSuite) TestReapHostMigratesHost() {
	ch := s.bind("a")

	outcomes := s.reaper.Reap(ch)

	s.Require().Len(outcomes, 1)
	left := outcomes[0].Deliveries[0].Message.(protocol.PlayerLeft)
	s.Require().NotNil(left.NewHostID)
	s.Equal(model.PlayerID("b"), *left.NewHostID)
	s.Equal(model.PlayerID("b"), s.room.HostID)
}

func (s *ReaperSuite) TestReapIsIdempotent() {
	ch := s.bind("c")

	s.Len(s.reaper.Reap(ch), 1)
	s.Nil(s.reaper.Reap(ch))
	s.Len(s.room.Players, 2)
}

func (s *ReaperSuite) TestReapUnboundChannelIsNoop() {
	s.Nil(s.reaper.Reap(mocks.NewMockChannel("stranger")))
	s.Len(s.room.Players, 3)
}

func (s *ReaperSuite) TestReapPlayerWithoutRoomOnlyUnregisters() {
	ch := mocks.NewMockChannel("ch-gone")
	s.directory.Register("gone", ch)

	s.Empty(s.reaper.Reap(ch))
	s.Zero(s.directory.Len())
}

func (s *ReaperSuite) TestReapLastPlayersDeletesRoom() {
	ch := mocks.NewMockChannel("shared")
	for _, id := range []model.PlayerID{"a", "b", "c"} {
		s.directory.Register(id, ch)
	}

	s.reaper.Reap(ch)

	_, ok := s.registry.FindRoom(s.room.Code)
	s.False(ok)
	s.Zero(s.registry.Count())
}
