package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

const (
	playHelp = `Commands:
  create <name>               create a room and become its host
  join <code> <name>          join a waiting room
  start [category] [spies]    start a game (host)
  show                        reveal words (host)
  discuss                     start the discussion (host)
  voting                      open the ballot (host)
  vote <name|id>              vote for a player
  restart                     reset the room to waiting (host)
  leave                       leave the room
  ping                        check the connection
  wait <event> [seconds]      block until an event of the given type arrives
  help                        show this help
  quit                        close the connection`

	defaultWaitTimeout = 10 * time.Second
	eventBacklog       = 1024
)

var errNotInRoom = errors.New("not in a room, create or join one first")

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively over the game WebSocket",
		Long: `Open a game connection and read commands from standard input.
Server events are printed as they arrive.

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, err := client.Dial(ctx)
			if err != nil {
				return err
			}

			s := newSession(conn, newCmdOutput(cmd))
			if cfg.Verbose {
				s.message("Connected to " + cfg.ServerURL)
			}
			return s.run(ctx, cmd.InOrStdin())
		},
	}
}

// session is one interactive game connection
type session struct {
	conn   *websocket.Conn
	out    *Output
	events chan protocol.Type

	outMu sync.Mutex

	mu       sync.Mutex
	roomCode model.RoomCode
	playerID model.PlayerID
	room     model.RoomSummary
}

func newSession(conn *websocket.Conn, out *Output) *session {
	return &session{
		conn:   conn,
		out:    out,
		events: make(chan protocol.Type, eventBacklog),
	}
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop()
	}()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.close()
			return nil
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.message("Connection closed by server")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok {
				s.close()
				return nil
			}
			quit, err := s.execute(ctx, line)
			if err != nil {
				s.error(err)
			}
			if quit {
				s.close()
				return nil
			}
		}
	}
}

func (s *session) readLoop() error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := protocol.ParseEvent(data)
		if err != nil {
			s.error(err)
			continue
		}
		s.track(ev)

		s.outMu.Lock()
		s.out.PrintEvent(ev)
		s.outMu.Unlock()

		select {
		case s.events <- ev.Type:
		default:
		}
	}
}

// track keeps the current room and player identity up to date
func (s *session) track(ev protocol.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case protocol.TypeRoomCreated:
		var m protocol.RoomCreated
		if ev.Into(&m) == nil {
			s.roomCode, s.playerID, s.room = m.Room.Code, m.PlayerID, m.Room
		}
		return
	case protocol.TypeRoomJoined:
		var m protocol.RoomJoined
		if ev.Into(&m) == nil {
			s.roomCode, s.playerID, s.room = m.Room.Code, m.PlayerID, m.Room
		}
		return
	}

	var withRoom struct {
		Room *model.RoomSummary `json:"room"`
	}
	if json.Unmarshal(ev.Raw, &withRoom) == nil && withRoom.Room != nil && withRoom.Room.Code == s.roomCode {
		s.room = *withRoom.Room
	}
}

func (s *session) execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "quit", "exit":
		return true, nil
	case "help":
		s.message(playHelp)
		return false, nil
	case "wait":
		return false, s.wait(ctx, args)
	case "create":
		if len(args) == 0 {
			return false, errors.New("usage: create <name>")
		}
		return false, s.send(protocol.CreateRoom{PlayerName: strings.Join(args, " ")})
	case "join":
		if len(args) < 2 {
			return false, errors.New("usage: join <code> <name>")
		}
		return false, s.send(protocol.JoinRoom{
			RoomCode:   model.RoomCode(args[0]),
			PlayerName: strings.Join(args[1:], " "),
		})
	case "ping":
		return false, s.send(protocol.Ping{})
	}

	actor, err := s.actor()
	if err != nil {
		return false, err
	}

	switch command {
	case "start":
		msg := protocol.StartGame{Actor: actor}
		if len(args) > 0 {
			msg.Category = args[0]
		}
		if len(args) > 1 {
			spies, err := strconv.Atoi(args[1])
			if err != nil {
				return false, fmt.Errorf("invalid spy count %q", args[1])
			}
			msg.Settings = &protocol.SettingsPatch{SpyCount: &spies}
		}
		return false, s.send(msg)
	case "show":
		return false, s.send(protocol.ShowWord{Actor: actor})
	case "discuss":
		return false, s.send(protocol.StartDiscussion{Actor: actor})
	case "voting":
		return false, s.send(protocol.StartVoting{Actor: actor})
	case "vote":
		if len(args) == 0 {
			return false, errors.New("usage: vote <name|id>")
		}
		return false, s.send(protocol.Vote{Actor: actor, VotedPlayerID: s.resolvePlayer(strings.Join(args, " "))})
	case "restart":
		return false, s.send(protocol.RestartGame{Actor: actor})
	case "leave":
		if err := s.send(protocol.LeaveRoom{Actor: actor}); err != nil {
			return false, err
		}
		s.mu.Lock()
		s.roomCode, s.playerID, s.room = "", "", model.RoomSummary{}
		s.mu.Unlock()
		return false, nil
	}

	return false, fmt.Errorf("unknown command %q, type help for a list", command)
}

func (s *session) actor() (protocol.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roomCode == "" {
		return protocol.Actor{}, errNotInRoom
	}
	return protocol.Actor{RoomCode: s.roomCode, PlayerID: s.playerID}, nil
}

// resolvePlayer maps a display name to a player ID. Unmatched input is used as an ID.
func (s *session) resolvePlayer(target string) model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.room.Players {
		if strings.EqualFold(p.Name, target) {
			return p.ID
		}
	}
	return model.PlayerID(target)
}

// wait consumes received events until one of the wanted type arrives
func (s *session) wait(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: wait <event> [seconds]")
	}
	want := protocol.Type(args[0])
	timeout := defaultWaitTimeout
	if len(args) > 1 {
		secs, err := strconv.Atoi(args[1])
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid timeout %q", args[1])
		}
		timeout = time.Duration(secs) * time.Second
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case t := <-s.events:
			if t == want {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timed out waiting for %s", want)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *session) send(msg protocol.Inbound) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msg.Type(), err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type(), err)
	}
	return nil
}

func (s *session) close() {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = s.conn.Close()
}

func (s *session) message(msg string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	s.out.PrintMessage(msg)
}

func (s *session) error(err error) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	s.out.PrintError(err)
}
