package game

import "github.com/lox/blackjackroom/internal/deck"

// Status is a hand's state within the current round. The empty status
// means the hand is active and still owes a decision.
type Status string

const (
	StatusNone        Status = ""
	StatusStood       Status = "stood"
	StatusBusted      Status = "busted"
	StatusBlackjack   Status = "blackjack"
	StatusSurrendered Status = "surrendered"
	StatusSpectating  Status = "spectating"
)

// Terminal reports whether the hand is done acting for the round
func (s Status) Terminal() bool {
	switch s {
	case StatusStood, StatusBusted, StatusBlackjack, StatusSurrendered:
		return true
	default:
		return false
	}
}

// Hand is one participant's cards, bet and status for a round. A hand
// with ParentID set is a split child: it shares the parent's identity
// for display and balance bookkeeping but is independently scored and
// turn-ordered. A split child can never itself be split.
type Hand struct {
	ID      string      `json:"id"`
	Name    string      `json:"username"`
	Balance int         `json:"balance"`
	Cards   []deck.Card `json:"cards"`
	Bet     int         `json:"bet"`
	Status  Status      `json:"status,omitempty"`
	Score   int         `json:"score"`
	// ParentID references the hand this one was split from. Never infer
	// the relationship from id formatting; this field is the source of
	// truth.
	ParentID string `json:"originalPlayer,omitempty"`

	// skipped marks a dealt blackjack that has already had its
	// announce-then-auto-skip moment, so the turn scan visits it once.
	skipped bool
}

// IsSplitChild reports whether this hand was spawned by a split
func (h *Hand) IsSplitChild() bool {
	return h.ParentID != ""
}

// resetForRound clears per-round state while keeping identity and balance
func (h *Hand) resetForRound() {
	h.Cards = []deck.Card{}
	h.Bet = 0
	h.Status = StatusNone
	h.Score = 0
	h.skipped = false
}

// DealerStatus is the dealer's terminal state for a round
type DealerStatus string

const (
	DealerNone      DealerStatus = ""
	DealerBust      DealerStatus = "bust"
	DealerBlackjack DealerStatus = "blackjack"
	DealerStood     DealerStatus = "stood"
)

// Dealer holds the house hand. The core always holds full information;
// Revealed flips to true when the dealer's turn begins and signals
// clients that all cards may be shown.
type Dealer struct {
	Cards    []deck.Card  `json:"cards"`
	Score    int          `json:"score"`
	Status   DealerStatus `json:"status,omitempty"`
	Revealed bool         `json:"revealed"`
}

// NewDealer creates an empty dealer hand
func NewDealer() *Dealer {
	return &Dealer{Cards: []deck.Card{}}
}
