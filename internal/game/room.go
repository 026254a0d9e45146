package game

import (
	"time"

	"github.com/lox/blackjackroom/internal/deck"
	"github.com/lox/blackjackroom/internal/roomcode"
)

// Phase is the room's position in the round lifecycle
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseBetting Phase = "betting"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// DealerTurnSentinel is the CurrentTurn value while the dealer plays
const DealerTurnSentinel = "dealer"

// Continuation tells the caller what deferred work an operation left
// behind. The room itself never sleeps; scheduling is the service's job
// so that pending continuations can be cancelled when a room dies.
type Continuation int

const (
	// ContinueNone means nothing is pending
	ContinueNone Continuation = iota
	// ContinueDealer means the dealer automaton should run after the
	// configured delay
	ContinueDealer
	// ContinueAutoSkip means the turn landed on a dealt blackjack and
	// should advance again after the announcement delay
	ContinueAutoSkip
)

// Room is the authoritative state for one table of blackjack. All
// methods assume the caller serialises access (one inbound action at a
// time per room); the turn-authorisation check is the only concurrency
// guard the game logic needs under that model.
type Room struct {
	Code        string
	Hands       []*Hand
	Dealer      *Dealer
	Phase       Phase
	CurrentTurn string

	deck *deck.Deck
	bus  EventBus
}

// NewRoom creates a room in the waiting phase
func NewRoom(code string, d *deck.Deck) *Room {
	return &Room{
		Code:   code,
		Hands:  make([]*Hand, 0, 8),
		Dealer: NewDealer(),
		Phase:  PhaseWaiting,
		deck:   d,
		bus:    NewEventBus(),
	}
}

// Events returns the room's event bus for subscription
func (r *Room) Events() EventBus {
	return r.bus
}

// Host returns the hand that controls start/new-round, always Hands[0]
func (r *Room) Host() *Hand {
	if len(r.Hands) == 0 {
		return nil
	}
	return r.Hands[0]
}

// Hand returns the hand with the given id, or nil
func (r *Room) Hand(id string) *Hand {
	for _, h := range r.Hands {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// CurrentTurnHand returns the hand holding the turn, or nil
func (r *Room) CurrentTurnHand() *Hand {
	if r.CurrentTurn == "" || r.CurrentTurn == DealerTurnSentinel {
		return nil
	}
	return r.Hand(r.CurrentTurn)
}

// Empty reports whether the room has no hands left
func (r *Room) Empty() bool {
	return len(r.Hands) == 0
}

func (r *Room) handIndex(id string) int {
	for i, h := range r.Hands {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// ownerOf resolves the hand whose balance pays for additional debits:
// the hand itself, or its parent for split children.
func (r *Room) ownerOf(h *Hand) *Hand {
	if h.ParentID == "" {
		return h
	}
	if parent := r.Hand(h.ParentID); parent != nil {
		return parent
	}
	return h
}

// AddHand appends a new participant. Joining is only possible while the
// room is waiting for the game to start.
func (r *Room) AddHand(id, name string, balance int) (*Hand, error) {
	if r.Phase != PhaseWaiting {
		return nil, ErrGameInProgress
	}
	if r.Hand(id) != nil {
		return nil, ErrInvalidAction
	}

	hand := &Hand{
		ID:      id,
		Name:    name,
		Balance: balance,
		Cards:   []deck.Card{},
	}
	r.Hands = append(r.Hands, hand)

	r.bus.Publish(PlayerJoinedEvent{Hands: r.Hands, timestamp: time.Now()})
	return hand, nil
}

// Start moves the room into the betting phase. Host-only, needs at
// least two hands.
func (r *Room) Start(requesterID string) error {
	if r.Phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	host := r.Host()
	if host == nil || host.ID != requesterID {
		return ErrNotHost
	}
	if len(r.Hands) < 2 {
		return ErrNotEnoughPlayers
	}

	r.deck.Reset()
	r.Phase = PhaseBetting
	r.CurrentTurn = ""

	r.bus.Publish(GameStartedEvent{
		GameID:    roomcode.Generate(16, nil),
		Hands:     r.Hands,
		Dealer:    r.Dealer,
		timestamp: time.Now(),
	})
	return nil
}

// PlaceBet escrows a bet: the amount leaves the balance the moment the
// bet is accepted. When every hand has bet or cannot bet, dealing
// begins and the returned continuation tells the caller what to
// schedule next.
func (r *Room) PlaceBet(handID string, amount int) (Continuation, error) {
	if r.Phase != PhaseBetting {
		return ContinueNone, ErrInvalidPhase
	}
	hand := r.Hand(handID)
	if hand == nil {
		return ContinueNone, ErrHandNotFound
	}
	if hand.Bet > 0 {
		// A second bet would silently leak the first escrow
		return ContinueNone, ErrInvalidAction
	}
	if amount <= 0 || amount > hand.Balance {
		return ContinueNone, ErrInvalidBet
	}

	hand.Bet = amount
	hand.Balance -= amount

	r.bus.Publish(BetPlacedEvent{
		HandID:    hand.ID,
		Bet:       hand.Bet,
		Balance:   hand.Balance,
		timestamp: time.Now(),
	})

	if !r.bettingReady() {
		return ContinueNone, nil
	}
	return r.finishBetting(), nil
}

// bettingReady holds when every hand has bet or has nothing to bet with
func (r *Room) bettingReady() bool {
	for _, h := range r.Hands {
		if h.Bet == 0 && h.Balance > 0 {
			return false
		}
	}
	return true
}

// finishBetting transitions to playing and deals the opening hands
func (r *Room) finishBetting() Continuation {
	r.Phase = PhasePlaying
	r.bus.Publish(BettingEndedEvent{Hands: r.Hands, timestamp: time.Now()})
	return r.dealOpening()
}

// dealOpening deals two cards to every betting hand and the dealer,
// flags non-bettors as spectating, detects dealt blackjacks and selects
// the first hand to act.
func (r *Room) dealOpening() Continuation {
	for _, h := range r.Hands {
		if h.Bet == 0 {
			h.Status = StatusSpectating
			h.Cards = []deck.Card{}
			h.Score = 0
			r.bus.Publish(PlayerSpectatingEvent{HandID: h.ID, Name: h.Name, timestamp: time.Now()})
			continue
		}

		h.Cards = []deck.Card{r.deck.Draw(), r.deck.Draw()}
		h.Score = HandValue(h.Cards)
		if IsBlackjack(h.Cards) {
			h.Status = StatusBlackjack
		}
		r.bus.Publish(CardDealtEvent{To: h.ID, Cards: h.Cards, Score: h.Score, timestamp: time.Now()})
	}

	r.Dealer.Cards = []deck.Card{r.deck.Draw(), r.deck.Draw()}
	r.Dealer.Score = HandValue(r.Dealer.Cards)
	r.bus.Publish(CardDealtEvent{To: DealerTurnSentinel, Dealer: r.Dealer, timestamp: time.Now()})

	// First hand that is neither spectating nor a dealt blackjack acts
	// first. Blackjack hands never act; if nothing is eligible the
	// dealer plays immediately.
	for _, h := range r.Hands {
		if h.Status == StatusNone {
			r.CurrentTurn = h.ID
			r.bus.Publish(PlayerTurnEvent{HandID: h.ID, Hands: r.Hands, timestamp: time.Now()})
			return ContinueNone
		}
	}

	r.CurrentTurn = DealerTurnSentinel
	r.bus.Publish(DealerTurnEvent{timestamp: time.Now()})
	return ContinueDealer
}

// RemoveHand takes a participant out of the room, along with any split
// children it owns. If the departing hand held the turn, the turn
// advances as if it had stood. During betting, readiness is
// re-evaluated since the departed hand may have been the last holdout.
func (r *Room) RemoveHand(handID string) (Continuation, error) {
	idx := r.handIndex(handID)
	if idx == -1 {
		return ContinueNone, ErrHandNotFound
	}
	leaving := r.Hands[idx]

	removed := map[string]bool{leaving.ID: true}
	if !leaving.IsSplitChild() {
		for _, h := range r.Hands {
			if h.ParentID == leaving.ID {
				removed[h.ID] = true
			}
		}
	}

	kept := r.Hands[:0]
	for _, h := range r.Hands {
		if !removed[h.ID] {
			kept = append(kept, h)
		}
	}
	r.Hands = kept

	turnLost := removed[r.CurrentTurn]

	r.bus.Publish(PlayerLeftEvent{Hands: r.Hands, LeftName: leaving.Name, timestamp: time.Now()})

	if len(r.Hands) == 0 {
		return ContinueNone, nil
	}

	switch r.Phase {
	case PhasePlaying:
		if turnLost {
			return r.selectNextFrom(idx%len(r.Hands), len(r.Hands)), nil
		}
	case PhaseBetting:
		if r.bettingReady() {
			return r.finishBetting(), nil
		}
	}
	return ContinueNone, nil
}

// NewRound resets the room for another betting phase: split children
// are discarded, the shoe is reshuffled, the dealer is cleared, and
// zero-balance hands are parked as spectators.
func (r *Room) NewRound(requesterID string) error {
	if r.Phase != PhaseEnded {
		return ErrInvalidPhase
	}
	host := r.Host()
	if host == nil || host.ID != requesterID {
		return ErrNotHost
	}

	// Fold split-child winnings back into the parent before the child
	// hands are discarded.
	for _, h := range r.Hands {
		if !h.IsSplitChild() {
			continue
		}
		if parent := r.Hand(h.ParentID); parent != nil {
			parent.Balance += h.Balance
		}
	}

	kept := r.Hands[:0]
	for _, h := range r.Hands {
		if !h.IsSplitChild() {
			kept = append(kept, h)
		}
	}
	r.Hands = kept

	r.deck.Reset()
	r.Dealer = NewDealer()

	for _, h := range r.Hands {
		h.resetForRound()
		if h.Balance <= 0 {
			h.Status = StatusSpectating
			r.bus.Publish(PlayerSpectatingEvent{HandID: h.ID, Name: h.Name, timestamp: time.Now()})
		}
	}

	r.Phase = PhaseBetting
	r.CurrentTurn = ""

	r.bus.Publish(NewRoundEvent{
		Hands:     r.Hands,
		Phase:     r.Phase,
		Dealer:    r.Dealer,
		timestamp: time.Now(),
	})
	return nil
}
