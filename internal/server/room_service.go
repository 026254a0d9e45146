package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjackroom/internal/deck"
	"github.com/lox/blackjackroom/internal/game"
	"github.com/lox/blackjackroom/internal/leaderboard"
	"github.com/lox/blackjackroom/internal/randutil"
	"github.com/lox/blackjackroom/internal/roomcode"
)

// Broadcaster delivers outbound messages to connected clients
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msg *Message)
	SendToPlayer(playerID string, msg *Message) error
}

// gameRoom pairs a room with its lock and any pending deferred task.
// All access to the embedded room happens under mu, so each inbound
// command runs to completion before the next one starts.
type gameRoom struct {
	room  *game.Room
	timer *quartz.Timer
}

// RoomService owns the room table, schedules deferred continuations
// (dealer play-out, blackjack auto-skip) and turns game events into
// outbound messages.
type RoomService struct {
	mu      sync.Mutex
	rooms   map[string]*gameRoom
	roomMus map[string]*sync.Mutex

	config      *ServerConfig
	clock       quartz.Clock
	broadcaster Broadcaster
	leaderboard *leaderboard.Board
	logger      *log.Logger

	// newDeck builds the shoe for a new room; tests swap it to stack
	// known deals
	newDeck func() *deck.Deck
}

// NewRoomService creates a room service. The clock is injected so tests
// can drive the deferred continuations deterministically.
func NewRoomService(config *ServerConfig, broadcaster Broadcaster, clock quartz.Clock, logger *log.Logger) *RoomService {
	s := &RoomService{
		rooms:       make(map[string]*gameRoom),
		roomMus:     make(map[string]*sync.Mutex),
		config:      config,
		clock:       clock,
		broadcaster: broadcaster,
		leaderboard: leaderboard.New(),
		logger:      logger.WithPrefix("rooms"),
	}
	s.newDeck = func() *deck.Deck {
		return deck.New(randutil.New(clock.Now().UnixNano()))
	}
	return s
}

// Leaderboard returns the current standings, best first
func (s *RoomService) Leaderboard() []leaderboard.Entry {
	return s.leaderboard.Entries()
}

// RoomCount returns the number of live rooms
func (s *RoomService) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// CreateRoom creates a fresh room with the creator seated as host and
// returns its code
func (s *RoomService) CreateRoom(playerID, username string) (string, error) {
	s.mu.Lock()
	code := roomcode.New()
	for s.rooms[code] != nil {
		code = roomcode.New()
	}
	room := game.NewRoom(code, s.newDeck())
	room.Events().Subscribe(&roomEvents{service: s, roomCode: code})
	s.rooms[code] = &gameRoom{room: room}
	s.roomMus[code] = &sync.Mutex{}
	s.mu.Unlock()

	s.logger.Info("Room created", "room", code, "host", username)

	return code, s.JoinRoom(code, playerID, username)
}

// JoinRoom seats a player in an existing room and sends them the full
// room snapshot
func (s *RoomService) JoinRoom(code, playerID, username string) error {
	return s.withRoom(code, func(gr *gameRoom) error {
		_, err := gr.room.AddHand(playerID, username, s.config.Game.StartingBalance)
		if err != nil {
			return err
		}

		msg, err := NewMessage(MessageTypeRoomJoined, RoomJoinedData{
			RoomID:   code,
			PlayerID: playerID,
			Players:  gr.room.Hands,
		})
		if err != nil {
			return err
		}
		return s.broadcaster.SendToPlayer(playerID, msg)
	})
}

// StartGame begins the betting phase. Host-only, and the room must
// meet the configured table minimum.
func (s *RoomService) StartGame(code, playerID string) error {
	return s.withRoom(code, func(gr *gameRoom) error {
		if len(gr.room.Hands) < s.config.Game.MinPlayers {
			return game.ErrNotEnoughPlayers
		}
		return gr.room.Start(playerID)
	})
}

// PlaceBet escrows a bet for the player
func (s *RoomService) PlaceBet(code, playerID string, amount int) error {
	if amount < s.config.Game.MinBet {
		return game.ErrInvalidBet
	}
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		return r.PlaceBet(playerID, amount)
	})
}

// resolveActor maps a command to the hand that plays it. An empty
// handID targets the caller's primary hand; a non-empty one must be the
// caller's own hand or one of its split children.
func resolveActor(r *game.Room, playerID, handID string) (string, error) {
	if handID == "" || handID == playerID {
		return playerID, nil
	}
	h := r.Hand(handID)
	if h == nil {
		return "", game.ErrHandNotFound
	}
	if h.ParentID != playerID {
		return "", game.ErrNotYourTurn
	}
	return handID, nil
}

// Hit draws a card for the player's hand. handID optionally addresses
// one of the player's split hands.
func (s *RoomService) Hit(code, playerID, handID string) error {
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		id, err := resolveActor(r, playerID, handID)
		if err != nil {
			return game.ContinueNone, err
		}
		return r.Hit(id)
	})
}

// Stand ends the player's turn
func (s *RoomService) Stand(code, playerID, handID string) error {
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		id, err := resolveActor(r, playerID, handID)
		if err != nil {
			return game.ContinueNone, err
		}
		return r.Stand(id)
	})
}

// DoubleDown doubles the player's bet and draws one final card
func (s *RoomService) DoubleDown(code, playerID, handID string) error {
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		id, err := resolveActor(r, playerID, handID)
		if err != nil {
			return game.ContinueNone, err
		}
		return r.DoubleDown(id)
	})
}

// Split turns the player's pair into two hands. Only the primary hand
// may split, so there is nothing for a handID to address.
func (s *RoomService) Split(code, playerID string) error {
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		return r.Split(playerID)
	})
}

// Surrender forfeits half the player's bet and ends the hand
func (s *RoomService) Surrender(code, playerID, handID string) error {
	return s.act(code, func(r *game.Room) (game.Continuation, error) {
		id, err := resolveActor(r, playerID, handID)
		if err != nil {
			return game.ContinueNone, err
		}
		return r.Surrender(id)
	})
}

// NewRound resets an ended room for another betting phase. Host-only.
func (s *RoomService) NewRound(code, playerID string) error {
	return s.withRoom(code, func(gr *gameRoom) error {
		return gr.room.NewRound(playerID)
	})
}

// SendChat relays a chat line to everyone in the room
func (s *RoomService) SendChat(code, username, text string) error {
	return s.withRoom(code, func(gr *gameRoom) error {
		msg, err := NewMessage(MessageTypeChatMessage, ChatMessageData{
			Username: username,
			Message:  text,
		})
		if err != nil {
			return err
		}
		s.broadcaster.BroadcastToRoom(code, msg)
		return nil
	})
}

// Leave removes a player from their room. The last player out destroys
// the room and cancels any pending continuation for it.
func (s *RoomService) Leave(code, playerID string) error {
	empty := false
	err := s.withRoom(code, func(gr *gameRoom) error {
		cont, err := gr.room.RemoveHand(playerID)
		if err != nil {
			return err
		}
		if gr.room.Empty() {
			empty = true
			if gr.timer != nil {
				gr.timer.Stop()
				gr.timer = nil
			}
			return nil
		}
		// Only supersede a pending continuation if the removal produced
		// one; an unrelated departure must not cancel the dealer timer.
		if cont != game.ContinueNone {
			s.schedule(code, gr, cont)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if empty {
		s.destroyRoom(code)
	}
	return nil
}

// Disconnect handles a dropped connection: same as an explicit leave,
// except a player the room no longer knows is not an error.
func (s *RoomService) Disconnect(code, playerID string) {
	if code == "" || playerID == "" {
		return
	}
	if err := s.Leave(code, playerID); err != nil {
		s.logger.Debug("Disconnect cleanup skipped", "room", code, "player", playerID, "error", err)
	}
}

// withRoom runs fn with the room locked. Room lookup and room work take
// separate locks so a slow round never blocks the whole table of rooms.
func (s *RoomService) withRoom(code string, fn func(gr *gameRoom) error) error {
	s.mu.Lock()
	gr, ok := s.rooms[code]
	mu := s.roomMus[code]
	s.mu.Unlock()
	if !ok {
		return game.ErrRoomNotFound
	}

	mu.Lock()
	defer mu.Unlock()
	return fn(gr)
}

// act runs a player action and schedules whatever deferred continuation
// it left behind
func (s *RoomService) act(code string, fn func(r *game.Room) (game.Continuation, error)) error {
	return s.withRoom(code, func(gr *gameRoom) error {
		cont, err := fn(gr.room)
		if err != nil {
			return err
		}
		s.schedule(code, gr, cont)
		return nil
	})
}

// schedule arms the room's deferred continuation timer. Caller holds
// the room lock. Any previously pending timer is superseded.
func (s *RoomService) schedule(code string, gr *gameRoom, cont game.Continuation) {
	if gr.timer != nil {
		gr.timer.Stop()
		gr.timer = nil
	}

	switch cont {
	case game.ContinueDealer:
		gr.timer = s.clock.AfterFunc(s.config.DealerDelay(), func() {
			s.runDealer(code)
		})
	case game.ContinueAutoSkip:
		gr.timer = s.clock.AfterFunc(s.config.AutoSkipDelay(), func() {
			s.autoSkip(code)
		})
	}
}

// runDealer plays out the dealer hand after the scheduled delay. Phase
// and turn are re-validated under the lock: the room may have been
// reset or emptied while the timer was pending.
func (s *RoomService) runDealer(code string) {
	err := s.withRoom(code, func(gr *gameRoom) error {
		gr.timer = nil
		if gr.room.Phase != game.PhasePlaying || gr.room.CurrentTurn != game.DealerTurnSentinel {
			return nil
		}
		gr.room.PlayDealer()
		s.recordRound(code, gr.room)
		return nil
	})
	if err != nil {
		s.logger.Debug("Dealer continuation dropped", "room", code, "error", err)
	}
}

// autoSkip moves the turn past an announced blackjack hand. Only fires
// if the turn still rests on a dealt blackjack.
func (s *RoomService) autoSkip(code string) {
	err := s.withRoom(code, func(gr *gameRoom) error {
		gr.timer = nil
		if gr.room.Phase != game.PhasePlaying {
			return nil
		}
		h := gr.room.CurrentTurnHand()
		if h == nil || h.Status != game.StatusBlackjack {
			return nil
		}
		s.schedule(code, gr, gr.room.AdvanceTurn())
		return nil
	})
	if err != nil {
		s.logger.Debug("Auto-skip continuation dropped", "room", code, "error", err)
	}
}

// recordRound folds the round's final balances into the leaderboard.
// Split children report under their parent's identity.
func (s *RoomService) recordRound(code string, r *game.Room) {
	totals := make(map[string]int)
	for _, h := range r.Hands {
		if h.IsSplitChild() {
			totals[h.ParentID] += h.Balance
		} else {
			totals[h.ID] += h.Balance
		}
	}

	changed := false
	for _, h := range r.Hands {
		if h.IsSplitChild() {
			continue
		}
		if s.leaderboard.Record(h.ID, h.Name, totals[h.ID]) {
			changed = true
		}
	}
	if !changed {
		return
	}

	msg, err := NewMessage(MessageTypeLeaderboardUpdated, LeaderboardData{
		Leaderboard: s.leaderboard.Entries(),
	})
	if err != nil {
		s.logger.Error("Failed to build leaderboard message", "error", err)
		return
	}
	s.broadcaster.BroadcastToRoom(code, msg)
}

func (s *RoomService) destroyRoom(code string) {
	s.mu.Lock()
	delete(s.rooms, code)
	delete(s.roomMus, code)
	s.mu.Unlock()
	s.logger.Info("Room destroyed", "room", code)
}

// roomEvents forwards a room's game events to its connected clients.
// Delivery is synchronous, inside the room's run-to-completion window.
type roomEvents struct {
	service  *RoomService
	roomCode string
}

func (re *roomEvents) OnEvent(event game.GameEvent) {
	msg, err := messageFromEvent(event)
	if err != nil {
		re.service.logger.Error("Failed to convert game event", "type", event.EventType(), "error", err)
		return
	}

	// bet confirmations go to the bettor alone; everyone else learns
	// the table state when betting ends
	if e, ok := event.(game.BetPlacedEvent); ok {
		_ = re.service.broadcaster.SendToPlayer(e.HandID, msg)
		return
	}

	re.service.broadcaster.BroadcastToRoom(re.roomCode, msg)
}
