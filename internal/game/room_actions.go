package game

import (
	"time"

	"github.com/lox/blackjackroom/internal/deck"
)

// validateTurn checks phase and turn ownership for a player action
func (r *Room) validateTurn(handID string) (*Hand, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}
	if r.CurrentTurn != handID {
		return nil, ErrNotYourTurn
	}
	hand := r.Hand(handID)
	if hand == nil {
		return nil, ErrHandNotFound
	}
	return hand, nil
}

// Hit draws one card for the acting hand. A bust ends the hand and
// advances the turn; otherwise the hand stays active and may act again.
func (r *Room) Hit(handID string) (Continuation, error) {
	hand, err := r.validateTurn(handID)
	if err != nil {
		return ContinueNone, err
	}

	hand.Cards = append(hand.Cards, r.deck.Draw())
	hand.Score = HandValue(hand.Cards)

	if hand.Score > 21 {
		hand.Status = StatusBusted
		r.publishCardDealt(hand)
		return r.AdvanceTurn(), nil
	}

	r.publishCardDealt(hand)
	return ContinueNone, nil
}

// Stand ends the acting hand's turn
func (r *Room) Stand(handID string) (Continuation, error) {
	hand, err := r.validateTurn(handID)
	if err != nil {
		return ContinueNone, err
	}

	hand.Status = StatusStood
	return r.AdvanceTurn(), nil
}

// DoubleDown doubles the bet, draws exactly one card and ends the turn.
// Only legal as the first action (two cards held); the extra stake
// comes from the owning identity's balance, which for split children is
// the parent's.
func (r *Room) DoubleDown(handID string) (Continuation, error) {
	hand, err := r.validateTurn(handID)
	if err != nil {
		return ContinueNone, err
	}
	if len(hand.Cards) != 2 {
		return ContinueNone, ErrInvalidAction
	}

	owner := r.ownerOf(hand)
	if owner.Balance < hand.Bet {
		return ContinueNone, ErrInsufficientBalance
	}

	owner.Balance -= hand.Bet
	hand.Bet *= 2

	hand.Cards = append(hand.Cards, r.deck.Draw())
	hand.Score = HandValue(hand.Cards)
	if hand.Score > 21 {
		hand.Status = StatusBusted
	} else {
		hand.Status = StatusStood
	}

	r.publishCardDealt(hand)
	return r.AdvanceTurn(), nil
}

// Split turns a pair into two independently played hands. The acting
// hand keeps its first card, the new child takes the second; both draw
// a fresh card and post the same bet. Splitting is single-level: a
// split child cannot split, and a parent may only split once.
func (r *Room) Split(handID string) (Continuation, error) {
	hand, err := r.validateTurn(handID)
	if err != nil {
		return ContinueNone, err
	}
	if hand.IsSplitChild() {
		return ContinueNone, ErrInvalidAction
	}
	// One child per hand: a parent that draws another pair may not split
	// again, which also keeps child ids unique.
	for _, h := range r.Hands {
		if h.ParentID == hand.ID {
			return ContinueNone, ErrInvalidAction
		}
	}
	if len(hand.Cards) != 2 || hand.Cards[0].Rank != hand.Cards[1].Rank {
		return ContinueNone, ErrInvalidAction
	}
	if hand.Balance < hand.Bet {
		return ContinueNone, ErrInsufficientBalance
	}

	hand.Balance -= hand.Bet

	child := &Hand{
		ID:       hand.ID + "-split",
		Name:     hand.Name + " (Split)",
		ParentID: hand.ID,
		Bet:      hand.Bet,
		Cards:    []deck.Card{hand.Cards[1], r.deck.Draw()},
	}
	hand.Cards = []deck.Card{hand.Cards[0], r.deck.Draw()}

	hand.Score = HandValue(hand.Cards)
	child.Score = HandValue(child.Cards)
	if IsBlackjack(hand.Cards) {
		hand.Status = StatusBlackjack
	}
	if IsBlackjack(child.Cards) {
		child.Status = StatusBlackjack
	}

	r.Hands = append(r.Hands, child)

	r.publishCardDealt(hand)
	r.publishCardDealt(child)
	r.bus.Publish(PlayerSplitEvent{
		HandID:    hand.ID,
		NewHandID: child.ID,
		Hands:     r.Hands,
		timestamp: time.Now(),
	})

	// A parent that resolved straight to blackjack never acts; move on
	// to the child or the next hand.
	if hand.Status == StatusBlackjack {
		return r.AdvanceTurn(), nil
	}
	return ContinueNone, nil
}

// Surrender forfeits half the bet and ends the hand. Only legal as the
// first action. The refund lands immediately on the owning identity;
// the remaining half stays escrowed and is recorded as the loss at
// settlement.
func (r *Room) Surrender(handID string) (Continuation, error) {
	hand, err := r.validateTurn(handID)
	if err != nil {
		return ContinueNone, err
	}
	if len(hand.Cards) != 2 {
		return ContinueNone, ErrInvalidAction
	}

	refund := hand.Bet / 2
	r.ownerOf(hand).Balance += refund
	hand.Bet -= refund
	hand.Status = StatusSurrendered

	return r.AdvanceTurn(), nil
}

func (r *Room) publishCardDealt(hand *Hand) {
	r.bus.Publish(CardDealtEvent{
		To:        hand.ID,
		Cards:     hand.Cards,
		Score:     hand.Score,
		timestamp: time.Now(),
	})
}

// AdvanceTurn moves the turn after a terminal outcome. An unplayed
// split child of the just-acted hand goes next; otherwise the scan
// walks forward in room order, skipping split children (they are only
// reachable through their parent) and spectators. Dealt blackjacks get
// announced once and then auto-skipped after a delay, so clients see
// the turn pass through them. When nothing is left the dealer plays.
func (r *Room) AdvanceTurn() Continuation {
	curIdx := r.handIndex(r.CurrentTurn)
	if curIdx == -1 {
		return ContinueNone
	}
	cur := r.Hands[curIdx]

	for _, h := range r.Hands {
		if h.ParentID != cur.ID {
			continue
		}
		if h.Status == StatusNone {
			r.setTurn(h)
			return ContinueNone
		}
		if h.Status == StatusBlackjack && !h.skipped {
			h.skipped = true
			r.setTurn(h)
			return ContinueAutoSkip
		}
	}

	return r.selectNextFrom(curIdx+1, len(r.Hands)-1)
}

// selectNextFrom scans up to count hands starting at startIdx
// (circular) for the next hand owed a turn. The caller bounds count so
// the just-acted hand is never revisited.
func (r *Room) selectNextFrom(startIdx, count int) Continuation {
	n := len(r.Hands)
	for i := 0; i < count && n > 0; i++ {
		h := r.Hands[(startIdx+i)%n]
		if h.IsSplitChild() || h.Status == StatusSpectating {
			continue
		}
		if h.Status == StatusNone {
			r.setTurn(h)
			return ContinueNone
		}
		if h.Status == StatusBlackjack && !h.skipped {
			h.skipped = true
			r.setTurn(h)
			return ContinueAutoSkip
		}
	}

	r.CurrentTurn = DealerTurnSentinel
	r.bus.Publish(DealerTurnEvent{timestamp: time.Now()})
	return ContinueDealer
}

func (r *Room) setTurn(h *Hand) {
	r.CurrentTurn = h.ID
	r.bus.Publish(TurnEndedEvent{NextTurn: h.ID, Hands: r.Hands, timestamp: time.Now()})
	r.bus.Publish(PlayerTurnEvent{HandID: h.ID, Hands: r.Hands, timestamp: time.Now()})
}
