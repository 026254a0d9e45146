package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the lowercase wire name of the suit (e.g. "hearts")
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// SuitFromName parses a wire name back into a Suit
func SuitFromName(name string) (Suit, error) {
	switch name {
	case "hearts":
		return Hearts, nil
	case "diamonds":
		return Diamonds, nil
	case "clubs":
		return Clubs, nil
	case "spades":
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit: %q", name)
	}
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the short string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Name returns the lowercase wire name of the rank ("2".."10", "jack", "ace")
func (r Rank) Name() string {
	switch r {
	case Jack:
		return "jack"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Ace:
		return "ace"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "unknown"
	}
}

// RankFromName parses a wire name back into a Rank
func RankFromName(name string) (Rank, error) {
	switch name {
	case "jack":
		return Jack, nil
	case "queen":
		return Queen, nil
	case "king":
		return King, nil
	case "ace":
		return Ace, nil
	default:
		var n int
		if _, err := fmt.Sscanf(name, "%d", &n); err == nil && n >= 2 && n <= 10 {
			return Rank(n), nil
		}
		return 0, fmt.Errorf("unknown rank: %q", name)
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Value returns the blackjack value of the card. Aces count as 11 here;
// demotion to 1 is the scorer's job.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// cardJSON is the wire representation expected by clients
type cardJSON struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

// MarshalJSON encodes the card as {"suit":"hearts","value":"ace"}
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit.Name(), Value: c.Rank.Name()})
}

// UnmarshalJSON decodes the wire representation
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	suit, err := SuitFromName(cj.Suit)
	if err != nil {
		return err
	}
	rank, err := RankFromName(cj.Value)
	if err != nil {
		return err
	}
	c.Suit = suit
	c.Rank = rank
	return nil
}
