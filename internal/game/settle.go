package game

import "time"

// Outcome is a hand's settled result for the round
type Outcome string

const (
	OutcomeBlackjack  Outcome = "blackjack"
	OutcomeWin        Outcome = "win"
	OutcomeLose       Outcome = "lose"
	OutcomePush       Outcome = "push"
	OutcomeBust       Outcome = "bust"
	OutcomeSurrender  Outcome = "surrender"
	OutcomeSpectating Outcome = "spectating"
)

// HandResult is one hand's line in the round settlement
type HandResult struct {
	HandID       string  `json:"playerId"`
	Name         string  `json:"username"`
	Outcome      Outcome `json:"outcome"`
	AmountChange int     `json:"amountChange"`
}

// RoundResult is the full settlement report for a round
type RoundResult struct {
	DealerScore     int          `json:"dealerScore"`
	DealerBlackjack bool         `json:"dealerHasBlackjack"`
	Results         []HandResult `json:"results"`
}

// PlayDealer runs the dealer automaton and settles the round. The
// dealer reveals, draws while under 17 (standing on soft 17), takes a
// terminal status and then every hand is compared and paid.
func (r *Room) PlayDealer() {
	if r.Phase != PhasePlaying || r.CurrentTurn != DealerTurnSentinel {
		return
	}

	r.Dealer.Revealed = true
	r.publishDealerCards()

	for r.Dealer.Score < 17 {
		r.Dealer.Cards = append(r.Dealer.Cards, r.deck.Draw())
		r.Dealer.Score = HandValue(r.Dealer.Cards)
		r.publishDealerCards()
	}

	switch {
	case r.Dealer.Score > 21:
		r.Dealer.Status = DealerBust
	case IsBlackjack(r.Dealer.Cards):
		r.Dealer.Status = DealerBlackjack
	default:
		r.Dealer.Status = DealerStood
	}

	r.settle()
}

func (r *Room) publishDealerCards() {
	r.bus.Publish(CardDealtEvent{
		To:        DealerTurnSentinel,
		Dealer:    r.Dealer,
		timestamp: time.Now(),
	})
}

// settle compares every hand to the dealer, pays out and pre-flags
// broke hands as spectators for the next round. Split children settle
// independently and credit their own balance slot.
func (r *Room) settle() {
	dealerBlackjack := r.Dealer.Status == DealerBlackjack

	results := make([]HandResult, 0, len(r.Hands))
	for _, h := range r.Hands {
		outcome, amount := r.settleHand(h, dealerBlackjack)
		results = append(results, HandResult{
			HandID:       h.ID,
			Name:         h.Name,
			Outcome:      outcome,
			AmountChange: amount,
		})
	}

	for _, h := range r.Hands {
		if !h.IsSplitChild() && h.Balance <= 0 {
			h.Status = StatusSpectating
		}
	}

	r.Phase = PhaseEnded
	r.CurrentTurn = ""

	r.bus.Publish(GameEndedEvent{
		Dealer: r.Dealer,
		Hands:  r.Hands,
		Result: RoundResult{
			DealerScore:     r.Dealer.Score,
			DealerBlackjack: dealerBlackjack,
			Results:         results,
		},
		timestamp: time.Now(),
	})
}

// settleHand applies payout rules for one hand. The bet was escrowed at
// placement, so losses never debit again; wins credit stake plus
// winnings.
func (r *Room) settleHand(h *Hand, dealerBlackjack bool) (Outcome, int) {
	switch {
	case h.Status == StatusSpectating:
		return OutcomeSpectating, 0

	case h.Status == StatusBlackjack:
		if dealerBlackjack {
			h.Balance += h.Bet
			return OutcomePush, 0
		}
		payout := h.Bet * 3 / 2
		h.Balance += h.Bet + payout
		return OutcomeBlackjack, payout

	case h.Status == StatusBusted:
		return OutcomeBust, -h.Bet

	case h.Status == StatusSurrendered:
		// Half the original bet was refunded at action time and Bet was
		// halved with it; the remainder is the loss.
		return OutcomeSurrender, -h.Bet

	case dealerBlackjack:
		return OutcomeLose, -h.Bet

	case r.Dealer.Status == DealerBust || h.Score > r.Dealer.Score:
		h.Balance += h.Bet * 2
		return OutcomeWin, h.Bet

	case h.Score < r.Dealer.Score:
		return OutcomeLose, -h.Bet

	default:
		h.Balance += h.Bet
		return OutcomePush, 0
	}
}
