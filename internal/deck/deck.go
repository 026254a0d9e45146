package deck

import (
	rand "math/rand/v2"
)

// Deck represents a shoe of playing cards. Drawing pops from the end.
// When the shoe runs dry a freshly shuffled 52-card deck is added, so a
// round with pathological splitting keeps dealing instead of crashing.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full shuffled 52-card deck using the provided RNG
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	d.Shuffle()
	return d
}

// NewFromCards creates a deck with an explicit card order, used by tests
// to stack known deals. Drawing still pops from the end.
func NewFromCards(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) fill() {
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card (the end of the slice). An empty
// shoe is replenished with a freshly shuffled deck before drawing.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.fill()
		d.Shuffle()
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Reset restores the deck to a full shuffled 52-card deck. A
// fixed-order deck (no RNG) is left untouched so stacked deals survive
// round resets.
func (d *Deck) Reset() {
	if d.rng == nil {
		return
	}
	d.cards = d.cards[:0]
	d.fill()
	d.Shuffle()
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}
