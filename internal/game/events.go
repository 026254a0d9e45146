package game

import (
	"time"

	"github.com/lox/blackjackroom/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for room domain events. The names double as the
// outbound message types on the wire.
const (
	EventTypePlayerJoined     EventType = "player_joined"
	EventTypePlayerLeft       EventType = "player_left"
	EventTypeGameStarted      EventType = "game_started"
	EventTypeBetPlaced        EventType = "bet_placed"
	EventTypeBettingEnded     EventType = "betting_ended"
	EventTypeCardDealt        EventType = "card_dealt"
	EventTypePlayerSpectating EventType = "player_spectating"
	EventTypePlayerTurn       EventType = "player_turn"
	EventTypeTurnEnded        EventType = "turn_ended"
	EventTypeDealerTurn       EventType = "dealer_turn"
	EventTypePlayerSplit      EventType = "player_split"
	EventTypeGameEnded        EventType = "game_ended"
	EventTypeNewRound         EventType = "new_round"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a blackjack round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// PlayerJoinedEvent is published when a hand joins the room
type PlayerJoinedEvent struct {
	Hands     []*Hand
	timestamp time.Time
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerLeftEvent is published when a hand leaves the room
type PlayerLeftEvent struct {
	Hands     []*Hand
	LeftName  string
	timestamp time.Time
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.timestamp }

// GameStartedEvent is published when the host starts the game and the
// room enters the betting phase
type GameStartedEvent struct {
	GameID    string
	Hands     []*Hand
	Dealer    *Dealer
	timestamp time.Time
}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Timestamp() time.Time { return e.timestamp }

// BetPlacedEvent is published after a successful escrow debit. It is
// addressed to the betting hand only, not broadcast.
type BetPlacedEvent struct {
	HandID    string
	Bet       int
	Balance   int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// BettingEndedEvent is published when every hand has bet or sat out
type BettingEndedEvent struct {
	Hands     []*Hand
	timestamp time.Time
}

func (e BettingEndedEvent) EventType() EventType { return EventTypeBettingEnded }
func (e BettingEndedEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for every card (or opening pair) dealt.
// To is a hand id, or "dealer" with the Dealer snapshot attached.
type CardDealtEvent struct {
	To        string
	Cards     []deck.Card
	Score     int
	Dealer    *Dealer
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// PlayerSpectatingEvent is published when a hand sits out the round
type PlayerSpectatingEvent struct {
	HandID    string
	Name      string
	timestamp time.Time
}

func (e PlayerSpectatingEvent) EventType() EventType { return EventTypePlayerSpectating }
func (e PlayerSpectatingEvent) Timestamp() time.Time { return e.timestamp }

// PlayerTurnEvent is published when a hand gains the turn
type PlayerTurnEvent struct {
	HandID    string
	Hands     []*Hand
	timestamp time.Time
}

func (e PlayerTurnEvent) EventType() EventType { return EventTypePlayerTurn }
func (e PlayerTurnEvent) Timestamp() time.Time { return e.timestamp }

// TurnEndedEvent is published when the turn moves on
type TurnEndedEvent struct {
	NextTurn  string
	Hands     []*Hand
	timestamp time.Time
}

func (e TurnEndedEvent) EventType() EventType { return EventTypeTurnEnded }
func (e TurnEndedEvent) Timestamp() time.Time { return e.timestamp }

// DealerTurnEvent is published when all hands are resolved and the
// dealer is about to play
type DealerTurnEvent struct {
	timestamp time.Time
}

func (e DealerTurnEvent) EventType() EventType { return EventTypeDealerTurn }
func (e DealerTurnEvent) Timestamp() time.Time { return e.timestamp }

// PlayerSplitEvent is published when a pair is split into two hands
type PlayerSplitEvent struct {
	HandID    string
	NewHandID string
	Hands     []*Hand
	timestamp time.Time
}

func (e PlayerSplitEvent) EventType() EventType { return EventTypePlayerSplit }
func (e PlayerSplitEvent) Timestamp() time.Time { return e.timestamp }

// GameEndedEvent is published after settlement with the full per-hand
// outcome list
type GameEndedEvent struct {
	Dealer    *Dealer
	Hands     []*Hand
	Result    RoundResult
	timestamp time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEvent is published when the room resets for another betting
// phase
type NewRoundEvent struct {
	Hands     []*Hand
	Phase     Phase
	Dealer    *Dealer
	timestamp time.Time
}

func (e NewRoundEvent) EventType() EventType { return EventTypeNewRound }
func (e NewRoundEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation.
// Delivery is synchronous; subscribers run inside the room's
// run-to-completion window.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
