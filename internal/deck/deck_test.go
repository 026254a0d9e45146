package deck

import (
	"testing"

	"github.com/lox/blackjackroom/internal/randutil"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New(randutil.New(1))

	if d.CardsRemaining() != 52 {
		t.Fatalf("Expected 52 cards, got %d", d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card := d.Draw()
		if seen[card] {
			t.Errorf("Duplicate card drawn: %s", card)
		}
		seen[card] = true
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	d1 := New(randutil.New(42))
	d2 := New(randutil.New(42))

	for i := 0; i < 52; i++ {
		c1, c2 := d1.Draw(), d2.Draw()
		if c1 != c2 {
			t.Fatalf("Decks diverged at card %d: %s vs %s", i, c1, c2)
		}
	}
}

func TestDrawPopsFromEnd(t *testing.T) {
	d := NewFromCards(
		NewCard(Hearts, Two),
		NewCard(Spades, King),
		NewCard(Clubs, Ace),
	)

	if got := d.Draw(); got != NewCard(Clubs, Ace) {
		t.Errorf("Expected A♣ first, got %s", got)
	}
	if got := d.Draw(); got != NewCard(Spades, King) {
		t.Errorf("Expected K♠ second, got %s", got)
	}
	if d.CardsRemaining() != 1 {
		t.Errorf("Expected 1 card remaining, got %d", d.CardsRemaining())
	}
}

func TestEmptyShoeReplenishes(t *testing.T) {
	d := New(randutil.New(7))
	for i := 0; i < 52; i++ {
		d.Draw()
	}

	if d.CardsRemaining() != 0 {
		t.Fatalf("Expected empty deck, got %d cards", d.CardsRemaining())
	}

	// Next draw should come from a fresh deck rather than panicking
	card := d.Draw()
	if card.Rank < Two || card.Rank > Ace {
		t.Errorf("Replenished draw returned invalid card: %v", card)
	}
	if d.CardsRemaining() != 51 {
		t.Errorf("Expected 51 cards after replenish draw, got %d", d.CardsRemaining())
	}
}

func TestReset(t *testing.T) {
	d := New(randutil.New(3))
	for i := 0; i < 10; i++ {
		d.Draw()
	}

	d.Reset()
	if d.CardsRemaining() != 52 {
		t.Errorf("Expected 52 cards after reset, got %d", d.CardsRemaining())
	}
}

func TestResetLeavesFixedOrderDeckAlone(t *testing.T) {
	d := NewFromCards(NewCard(Hearts, Two), NewCard(Spades, King))

	d.Reset()
	if d.CardsRemaining() != 2 {
		t.Fatalf("Expected stacked cards to survive reset, got %d", d.CardsRemaining())
	}
	if got := d.Draw(); got != NewCard(Spades, King) {
		t.Errorf("Expected K♠ first after reset, got %s", got)
	}
}
