package game

import "github.com/lox/blackjackroom/internal/deck"

// HandValue returns the best blackjack score for a set of cards. Aces
// start at 11 and are demoted to 1 one at a time while the hand would
// otherwise bust.
func HandValue(cards []deck.Card) int {
	score := 0
	aces := 0

	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		score += c.Value()
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsBlackjack reports a natural: 21 with exactly two cards
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// IsSoft reports whether the hand currently counts an ace as 11
func IsSoft(cards []deck.Card) bool {
	score := 0
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		score += c.Value()
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return aces > 0
}
