package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackroom/internal/deck"
	"github.com/lox/blackjackroom/internal/randutil"
)

func lastGameEnded(t *testing.T, rec *recorder) GameEndedEvent {
	t.Helper()
	events := rec.ofType(EventTypeGameEnded)
	require.Len(t, events, 1)
	return events[0].(GameEndedEvent)
}

func resultFor(t *testing.T, res RoundResult, handID string) HandResult {
	t.Helper()
	for _, hr := range res.Results {
		if hr.HandID == handID {
			return hr
		}
	}
	t.Fatalf("no result for hand %s", handID)
	return HandResult{}
}

func TestBlackjackPaysThreeToTwo(t *testing.T) {
	rec := &recorder{}
	r, _ := twoHandRoom(t, 100, 100,
		card(deck.Spades, deck.Ace), card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Eight),
		card(deck.Hearts, deck.Nine), card(deck.Clubs, deck.Seven),
		card(deck.Diamonds, deck.Two),
	)
	r.Events().Subscribe(rec)

	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueAutoSkip, cont, "alice's blackjack is announced")
	require.Equal(t, ContinueDealer, r.AdvanceTurn())

	r.PlayDealer()

	assert.Equal(t, PhaseEnded, r.Phase)
	assert.Equal(t, 18, r.Dealer.Score, "sixteen draws to eighteen")
	assert.Equal(t, DealerStood, r.Dealer.Status)
	assert.True(t, r.Dealer.Revealed)

	ended := lastGameEnded(t, rec)
	assert.Equal(t, 18, ended.Result.DealerScore)
	assert.False(t, ended.Result.DealerBlackjack)

	alice := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomeBlackjack, alice.Outcome)
	assert.Equal(t, 150, alice.AmountChange)
	assert.Equal(t, 1150, r.Hand("p1").Balance, "stake plus three-to-two payout")

	bob := resultFor(t, ended.Result, "p2")
	assert.Equal(t, OutcomePush, bob.Outcome)
	assert.Equal(t, 0, bob.AmountChange)
	assert.Equal(t, 1000, r.Hand("p2").Balance)
}

func TestDealerBlackjackPushesPlayerBlackjack(t *testing.T) {
	rec := &recorder{}
	r, _ := twoHandRoom(t, 100, 100,
		card(deck.Spades, deck.Ace), card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Nine),
		card(deck.Hearts, deck.Ace), card(deck.Clubs, deck.Queen),
	)
	r.Events().Subscribe(rec)

	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueAutoSkip, cont)
	require.Equal(t, ContinueDealer, r.AdvanceTurn())

	r.PlayDealer()

	assert.Equal(t, DealerBlackjack, r.Dealer.Status)

	ended := lastGameEnded(t, rec)
	assert.True(t, ended.Result.DealerBlackjack)

	alice := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomePush, alice.Outcome)
	assert.Equal(t, 0, alice.AmountChange)
	assert.Equal(t, 1000, r.Hand("p1").Balance, "blackjack push returns the stake")

	bob := resultFor(t, ended.Result, "p2")
	assert.Equal(t, OutcomeLose, bob.Outcome)
	assert.Equal(t, -100, bob.AmountChange)
	assert.Equal(t, 900, r.Hand("p2").Balance)
}

func TestDealerBustPaysStanders(t *testing.T) {
	rec := &recorder{}
	r, _ := twoHandRoom(t, 100, 100,
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Two),
		card(deck.Spades, deck.Ten), card(deck.Diamonds, deck.Eight),
		card(deck.Hearts, deck.Six), card(deck.Clubs, deck.Ten),
		card(deck.Diamonds, deck.King),
	)
	r.Events().Subscribe(rec)

	_, err := r.Stand("p1")
	require.NoError(t, err)
	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueDealer, cont)

	r.PlayDealer()

	assert.Equal(t, DealerBust, r.Dealer.Status)
	assert.Equal(t, 26, r.Dealer.Score)

	ended := lastGameEnded(t, rec)
	alice := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomeWin, alice.Outcome)
	assert.Equal(t, 100, alice.AmountChange)
	assert.Equal(t, 1100, r.Hand("p1").Balance)
}

func TestSurrenderSettlesAtHalfLoss(t *testing.T) {
	rec := &recorder{}
	r, _ := twoHandRoom(t, 40, 100,
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Six),
		card(deck.Spades, deck.Ten), card(deck.Diamonds, deck.Nine),
		card(deck.Hearts, deck.King), card(deck.Clubs, deck.Seven),
	)
	r.Events().Subscribe(rec)

	_, err := r.Surrender("p1")
	require.NoError(t, err)
	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueDealer, cont)

	r.PlayDealer()

	ended := lastGameEnded(t, rec)
	alice := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomeSurrender, alice.Outcome)
	assert.Equal(t, -20, alice.AmountChange, "half the original forty, not the whole bet")
	assert.Equal(t, 980, r.Hand("p1").Balance)
}

func TestDealerCompletesDrawEvenWhenOnlyBustsRemain(t *testing.T) {
	rec := &recorder{}
	// alice busts; bob stands on nineteen; dealer starts at twelve and
	// must still draw to seventeen or beyond
	r, _ := twoHandRoom(t, 100, 100,
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Six),
		card(deck.Spades, deck.Ten), card(deck.Diamonds, deck.Nine),
		card(deck.Diamonds, deck.Ten), card(deck.Clubs, deck.Two),
		card(deck.Diamonds, deck.King),
		card(deck.Spades, deck.Three), card(deck.Hearts, deck.Two),
	)
	r.Events().Subscribe(rec)

	_, err := r.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, StatusBusted, r.Hand("p1").Status)

	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueDealer, cont)

	r.PlayDealer()

	assert.GreaterOrEqual(t, r.Dealer.Score, 17)
	assert.Equal(t, 17, r.Dealer.Score)
	assert.Len(t, r.Dealer.Cards, 4, "twelve, fifteen, seventeen")

	ended := lastGameEnded(t, rec)
	alice := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomeBust, alice.Outcome)
	assert.Equal(t, -100, alice.AmountChange)

	bob := resultFor(t, ended.Result, "p2")
	assert.Equal(t, OutcomeWin, bob.Outcome)
}

func TestSplitHandsSettleIndependently(t *testing.T) {
	rec := &recorder{}
	// alice splits eights: the parent hits to nineteen and wins, the
	// child stands on eighteen and pushes against the dealer's eighteen
	r, _ := twoHandRoom(t, 50, 100,
		card(deck.Hearts, deck.Eight), card(deck.Clubs, deck.Eight),
		card(deck.Spades, deck.Ten), card(deck.Diamonds, deck.Nine),
		card(deck.Hearts, deck.Ten), card(deck.Diamonds, deck.Eight),
		card(deck.Diamonds, deck.Ten), // child's draw
		card(deck.Spades, deck.Jack),  // parent's draw
		card(deck.Hearts, deck.Ace),   // parent hits to nineteen
	)
	r.Events().Subscribe(rec)

	_, err := r.Split("p1")
	require.NoError(t, err)

	parent := r.Hand("p1")
	child := r.Hand("p1-split")
	require.Equal(t, 18, parent.Score)
	require.Equal(t, 18, child.Score)

	_, err = r.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, 19, parent.Score)
	_, err = r.Stand("p1")
	require.NoError(t, err)

	require.Equal(t, "p1-split", r.CurrentTurn)
	_, err = r.Stand("p1-split")
	require.NoError(t, err)

	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueDealer, cont)

	r.PlayDealer()
	require.Equal(t, 18, r.Dealer.Score)

	ended := lastGameEnded(t, rec)

	parentRes := resultFor(t, ended.Result, "p1")
	assert.Equal(t, OutcomeWin, parentRes.Outcome)
	assert.Equal(t, 50, parentRes.AmountChange)

	childRes := resultFor(t, ended.Result, "p1-split")
	assert.Equal(t, OutcomePush, childRes.Outcome)
	assert.Equal(t, 0, childRes.AmountChange)

	// parent paid both stakes; parent slot got its win back, the
	// child's pushed stake sits on the child slot until the round resets
	assert.Equal(t, 1000, parent.Balance)
	assert.Equal(t, 50, child.Balance)

	bobRes := resultFor(t, ended.Result, "p2")
	assert.Equal(t, OutcomeWin, bobRes.Outcome)

	// resetting the round discards the child but not its money
	require.NoError(t, r.NewRound("p1"))
	assert.Equal(t, 1050, r.Hand("p1").Balance, "child's pushed stake folds back into the parent")
}

func TestMoneyConservation(t *testing.T) {
	rec := &recorder{}
	r, _ := twoHandRoom(t, 100, 100,
		card(deck.Spades, deck.Ace), card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Eight),
		card(deck.Hearts, deck.Nine), card(deck.Clubs, deck.Seven),
		card(deck.Diamonds, deck.Two),
	)
	r.Events().Subscribe(rec)

	before := 0
	for _, h := range r.Hands {
		before += h.Balance + h.Bet
	}

	cont, err := r.Stand("p2")
	require.NoError(t, err)
	require.Equal(t, ContinueAutoSkip, cont)
	require.Equal(t, ContinueDealer, r.AdvanceTurn())
	r.PlayDealer()

	ended := lastGameEnded(t, rec)
	housePaid := 0
	for _, hr := range ended.Result.Results {
		if hr.Outcome == OutcomeBlackjack {
			housePaid += hr.AmountChange
		}
	}

	after := 0
	for _, h := range r.Hands {
		after += h.Balance
	}

	// win/push/lose/surrender legs net to zero against escrow; only
	// blackjack's premium moves the total
	wonFromHouse := 0
	lostToHouse := 0
	for _, hr := range ended.Result.Results {
		if hr.AmountChange > 0 {
			wonFromHouse += hr.AmountChange
		} else {
			lostToHouse -= hr.AmountChange
		}
	}
	assert.Equal(t, before+wonFromHouse-lostToHouse, after)
	assert.Equal(t, 150, housePaid)
}

func TestDeckIntegrityOverFullRound(t *testing.T) {
	r := NewRoom("ABC123", deck.New(randutil.New(42)))
	_, err := r.AddHand("p1", "alice", 1000)
	require.NoError(t, err)
	_, err = r.AddHand("p2", "bob", 1000)
	require.NoError(t, err)
	_, err = r.AddHand("p3", "carol", 1000)
	require.NoError(t, err)
	require.NoError(t, r.Start("p1"))

	_, err = r.PlaceBet("p1", 100)
	require.NoError(t, err)
	_, err = r.PlaceBet("p2", 100)
	require.NoError(t, err)
	cont, err := r.PlaceBet("p3", 100)
	require.NoError(t, err)

	// stand every hand the turn reaches
	for cont != ContinueDealer {
		if cont == ContinueAutoSkip {
			cont = r.AdvanceTurn()
			continue
		}
		cont, err = r.Stand(r.CurrentTurn)
		require.NoError(t, err)
	}

	// every non-spectating hand is terminal before the dealer plays
	for _, h := range r.Hands {
		assert.True(t, h.Status.Terminal(), "hand %s status %q", h.ID, h.Status)
	}

	r.PlayDealer()
	assert.GreaterOrEqual(t, r.Dealer.Score, 17)

	seen := map[deck.Card]bool{}
	total := 0
	for _, h := range r.Hands {
		for _, c := range h.Cards {
			assert.False(t, seen[c], "duplicate card %s", c)
			seen[c] = true
			total++
		}
	}
	for _, c := range r.Dealer.Cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
		total++
	}
	assert.LessOrEqual(t, total, 52)
}
