package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjackroom/internal/deck"
	"github.com/lox/blackjackroom/internal/game"
	"github.com/lox/blackjackroom/internal/leaderboard"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	Username string `json:"username"`
}

type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type PlaceBetData struct {
	Amount int `json:"amount"`
}

// ActionData is the payload for hit/stand/double_down/surrender. HandID
// is optional: clients set it to address one of their split hands, and
// leave it empty to play their primary hand.
type ActionData struct {
	HandID string `json:"handId,omitempty"`
}

type SendMessageData struct {
	Message string `json:"message"`
}

// Server → Client Messages

type ErrorData struct {
	Message string `json:"message"`
}

type RoomJoinedData struct {
	RoomID   string       `json:"roomId"`
	PlayerID string       `json:"playerId"`
	Players  []*game.Hand `json:"players"`
}

type ChatMessageData struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type LeaderboardData struct {
	Leaderboard []leaderboard.Entry `json:"leaderboard"`
}

// Game event payloads. Every state-changing event carries a full
// snapshot of the hands array (or the dealer object) so clients replace
// rather than patch their local copy.

type PlayersData struct {
	Players []*game.Hand `json:"players"`
}

type PlayerLeftData struct {
	Players  []*game.Hand `json:"players"`
	Username string       `json:"username"`
}

type GameStartedData struct {
	GameID  string       `json:"gameId"`
	Players []*game.Hand `json:"players"`
	Dealer  *game.Dealer `json:"dealer"`
}

type BetPlacedData struct {
	Bet     int `json:"bet"`
	Balance int `json:"balance"`
}

type CardDealtData struct {
	Target string       `json:"target"`
	Cards  []deck.Card  `json:"cards,omitempty"`
	Score  int          `json:"score,omitempty"`
	Dealer *game.Dealer `json:"dealer,omitempty"`
}

type PlayerSpectatingData struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

type PlayerTurnData struct {
	PlayerID string       `json:"playerId"`
	Players  []*game.Hand `json:"players"`
}

type TurnEndedData struct {
	NextTurn string       `json:"nextTurn"`
	Players  []*game.Hand `json:"players"`
}

type PlayerSplitData struct {
	PlayerID  string       `json:"playerId"`
	NewHandID string       `json:"newHandId"`
	Players   []*game.Hand `json:"players"`
}

type GameEndedData struct {
	Dealer  *game.Dealer     `json:"dealer"`
	Players []*game.Hand     `json:"players"`
	Results game.RoundResult `json:"results"`
}

type NewRoundData struct {
	Players []*game.Hand `json:"players"`
	Phase   game.Phase   `json:"phase"`
	Dealer  *game.Dealer `json:"dealer"`
}

// messageFromEvent converts a game event into its outbound wire message.
// The event type names double as message types.
func messageFromEvent(event game.GameEvent) (*Message, error) {
	var data interface{}

	switch e := event.(type) {
	case game.PlayerJoinedEvent:
		data = PlayersData{Players: e.Hands}
	case game.PlayerLeftEvent:
		data = PlayerLeftData{Players: e.Hands, Username: e.LeftName}
	case game.GameStartedEvent:
		data = GameStartedData{GameID: e.GameID, Players: e.Hands, Dealer: e.Dealer}
	case game.BetPlacedEvent:
		data = BetPlacedData{Bet: e.Bet, Balance: e.Balance}
	case game.BettingEndedEvent:
		data = PlayersData{Players: e.Hands}
	case game.CardDealtEvent:
		data = CardDealtData{Target: e.To, Cards: e.Cards, Score: e.Score, Dealer: e.Dealer}
	case game.PlayerSpectatingEvent:
		data = PlayerSpectatingData{PlayerID: e.HandID, Username: e.Name}
	case game.PlayerTurnEvent:
		data = PlayerTurnData{PlayerID: e.HandID, Players: e.Hands}
	case game.TurnEndedEvent:
		data = TurnEndedData{NextTurn: e.NextTurn, Players: e.Hands}
	case game.DealerTurnEvent:
		data = struct{}{}
	case game.PlayerSplitEvent:
		data = PlayerSplitData{PlayerID: e.HandID, NewHandID: e.NewHandID, Players: e.Hands}
	case game.GameEndedEvent:
		data = GameEndedData{Dealer: e.Dealer, Players: e.Hands, Results: e.Result}
	case game.NewRoundEvent:
		data = NewRoundData{Players: e.Hands, Phase: e.Phase, Dealer: e.Dealer}
	default:
		data = struct{}{}
	}

	return NewMessage(MessageType(event.EventType()), data)
}
