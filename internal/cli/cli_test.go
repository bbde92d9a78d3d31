package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/casuskim/casus/internal/factory"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.Require().NoError(s.app.LoadTestWords())
	s.app.Start(context.Background())
	s.server = httptest.NewServer(s.app.Handler)
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
	s.app.Stop()
}

func (s *CLISuite) execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", s.server.URL}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (s *CLISuite) TestHealthText() {
	out, _, err := s.execute("health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok")
	s.Contains(out, "Rooms: 0")
}

func (s *CLISuite) TestCategoriesJSON() {
	out, _, err := s.execute("categories", "-o", "json")
	s.Require().NoError(err)

	var resp struct {
		Default    string `json:"default"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &resp))
	s.Equal("Hayvanlar", resp.Default)
	s.Len(resp.Categories, 2)
}

func (s *CLISuite) TestCategoriesText() {
	out, _, err := s.execute("categories")
	s.Require().NoError(err)
	s.Contains(out, "Categories (2):")
	s.Contains(out, "Hayvanlar (3 words) [default]")
	s.Contains(out, "Meslekler (2 words)")
}

func (s *CLISuite) TestRoomNotFound() {
	_, stderr, err := s.execute("room", "get", "999999")
	s.Require().Error(err)
	s.Contains(err.Error(), "Room not found (ROOM_NOT_FOUND)")
	s.Contains(stderr, "Room not found")
}

func (s *CLISuite) TestRoomHistoryRejectsNegativeLimit() {
	_, _, err := s.execute("room", "history", "100000", "--limit", "-1")
	s.Require().Error(err)
	s.Contains(err.Error(), "limit must be positive")
}

func (s *CLISuite) TestPlayCreatesRoom() {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("create Ayşe\nwait roomCreated\nquit\n"))
	cmd.SetArgs([]string{"--server", s.server.URL, "play"})

	s.Require().NoError(cmd.Execute())
	s.Contains(stdout.String(), "created room 100000 as player-1")
	s.Empty(stderr.String())
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		want    string
		wantErr bool
	}{
		{name: "http", server: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{name: "https with path", server: "https://example.com/casus/", want: "wss://example.com/casus/ws"},
		{name: "ws kept", server: "ws://localhost:8080", want: "ws://localhost:8080/ws"},
		{name: "bad scheme", server: "ftp://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClient(tt.server, 0).WebSocketURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeEvent(t *testing.T) {
	word := "Aslan"
	spyCount := 1
	room := model.RoomSummary{
		Code: "123456",
		Players: []model.Player{
			{ID: "p1", Name: "Ayşe"},
			{ID: "p2", Name: "Mehmet"},
		},
		HostID: "p1",
	}
	newHost := model.PlayerID("p2")

	tests := []struct {
		name string
		msg  protocol.Outbound
		want string
	}{
		{name: "created", msg: protocol.RoomCreated{PlayerID: "p1", Room: room}, want: "created room 123456 as p1"},
		{name: "left with new host", msg: protocol.PlayerLeft{PlayerID: "p1", PlayerName: "Ayşe", NewHostID: &newHost, Room: room}, want: "Ayşe left, new host is Mehmet"},
		{name: "civilian word", msg: protocol.WordShown{Word: &word, Category: "Hayvanlar", SpyCount: &spyCount}, want: "your word is Aslan, category Hayvanlar, spies in game: 1"},
		{name: "spy", msg: protocol.WordShown{IsSpy: true, Category: "Hayvanlar", OtherSpies: []string{"Mehmet"}}, want: "you are a SPY, category Hayvanlar, other spies: Mehmet"},
		{name: "vote update", msg: protocol.VoteUpdate{VotedCount: 2, TotalPlayers: 3}, want: "votes: 2/3"},
		{name: "error", msg: protocol.Error{Code: protocol.CodeNotHost, Message: "not the host"}, want: "error NOT_HOST: not the host"},
		{
			name: "finished",
			msg: protocol.GameFinished{Results: protocol.Results{
				Word:            "Aslan",
				Spies:           []model.Player{{ID: "p2", Name: "Mehmet"}},
				SuspectedPlayer: model.Player{ID: "p2", Name: "Mehmet"},
			}},
			want: "game over, civilians win. Word: Aslan, spies: Mehmet, suspect: Mehmet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := protocol.Marshal(tt.msg)
			require.NoError(t, err)
			ev, err := protocol.ParseEvent(data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, describeEvent(ev))
		})
	}
}

func TestSessionResolvePlayer(t *testing.T) {
	s := newSession(nil, NewOutput("text", &bytes.Buffer{}, &bytes.Buffer{}))
	s.room = model.RoomSummary{Players: []model.Player{{ID: "p1", Name: "Ayşe"}}}

	assert.Equal(t, model.PlayerID("p1"), s.resolvePlayer("ayşe"))
	assert.Equal(t, model.PlayerID("p9"), s.resolvePlayer("p9"))
}

func TestSessionRequiresRoom(t *testing.T) {
	s := newSession(nil, NewOutput("text", &bytes.Buffer{}, &bytes.Buffer{}))

	quit, err := s.execute(context.Background(), "vote p2")
	assert.False(t, quit)
	assert.ErrorIs(t, err, errNotInRoom)

	quit, err = s.execute(context.Background(), "  ")
	assert.False(t, quit)
	assert.NoError(t, err)

	quit, err = s.execute(context.Background(), "quit")
	assert.True(t, quit)
	assert.NoError(t, err)
}
