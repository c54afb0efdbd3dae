package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// eventRecorder collects every published event
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) { r.events = append(r.events, e) }

func (r *eventRecorder) ofType(t EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func TestNewTable(t *testing.T) {
	table := NewTable(deck.NewStackedShoe(), nil, TableConfig{})

	cfg := table.Config()
	assert.Equal(t, DefaultStake, cfg.DefaultStake)
	assert.Equal(t, DefaultStandOn, cfg.StandOn)
	assert.Equal(t, DefaultPayout, cfg.Payout)
	assert.NotNil(t, table.EventBus())
	assert.Nil(t, table.CurrentPlayer())

	assert.Error(t, table.DealAgain(), "dealing needs a player")
}

func TestDealAgain(t *testing.T) {
	// Alice, Bob, dealer, Alice, Bob, dealer
	table := NewTestTable(
		WithPlayers("Alice", "Bob"),
		WithCards("Ks", "5h", "9d", "7s", "2c", "8h"),
	)
	require.NoError(t, table.DealAgain())

	alice, bob := table.Player(0), table.Player(1)
	assert.Equal(t, cards("Ks", "7s"), alice.Hands[0].Cards)
	assert.Equal(t, cards("5h", "2c"), bob.Hands[0].Cards)
	assert.Equal(t, cards("9d", "8h"), table.Dealer().Hand.Cards)

	assert.Equal(t, Betting, table.Phase())
	assert.Equal(t, 1, table.Round())
	assert.NotEmpty(t, table.RoundID())
	assert.Equal(t, 980, alice.Bank)
	assert.Equal(t, DefaultStake, alice.Bet())
	assert.Same(t, alice, table.CurrentPlayer())
}

func TestStandAndWin(t *testing.T) {
	table := NewTestTable(WithCards("Ks", "9h", "Qd", "7c", "Ts"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Stand(0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Settlement, table.Phase())
	assert.True(t, table.Dealer().IsBust())
	results := table.LastResults()
	require.Len(t, results, 1)
	assert.Equal(t, Win, results[0].Outcome)
	assert.Equal(t, 20, results[0].Delta)
	assert.Equal(t, 1020, table.Player(0).Bank)
}

func TestHitAndBust(t *testing.T) {
	table := NewTestTable(WithCards("Ks", "9h", "6d", "8c", "Qs"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Hit(0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Settlement, table.Phase(), "a bust with no other hands ends the round")
	assert.Equal(t, 17, table.Dealer().Value())
	results := table.LastResults()
	require.Len(t, results, 1)
	assert.Equal(t, Loss, results[0].Outcome)
	assert.Equal(t, -20, results[0].Delta)
	assert.Equal(t, 980, table.Player(0).Bank)
}

func TestPushRestoresBank(t *testing.T) {
	table := NewTestTable(WithCards("Ks", "Kh", "Qd", "Qc"))
	require.NoError(t, table.DealAgain())

	_, err := table.Stand(0)
	require.NoError(t, err)
	assert.Equal(t, Push, table.LastResults()[0].Outcome)
	assert.Equal(t, 1000, table.Player(0).Bank)
}

func TestNaturalOnTheDeal(t *testing.T) {
	table := NewTestTable(WithCards("As", "9h", "Kd", "7c", "5s"))
	require.NoError(t, table.DealAgain())

	assert.Equal(t, Blackjack, table.Player(0).Hands[0].Status)
	assert.Nil(t, table.CurrentPlayer(), "nobody left to act")

	assert.True(t, table.IncreaseBet(0), "betting stays open until the round is closed")
	require.NoError(t, table.CloseBetting())

	assert.Equal(t, Settlement, table.Phase())
	assert.Equal(t, 21, table.Dealer().Value())
	assert.False(t, table.Dealer().HasNatural())
	results := table.LastResults()
	assert.Equal(t, BlackjackWin, results[0].Outcome)
	assert.Equal(t, 31, results[0].Delta)
	assert.Equal(t, 979+21+31, table.Player(0).Bank)
}

func TestNaturalAgainstDealerNatural(t *testing.T) {
	table := NewTestTable(WithCards("As", "Ah", "Kd", "Kc"))
	require.NoError(t, table.DealAgain())

	_, err := table.Stand(0)
	require.NoError(t, err)
	assert.Equal(t, Push, table.LastResults()[0].Outcome)
	assert.Equal(t, 1000, table.Player(0).Bank)
}

func TestDealerNaturalBeatsThreeCard21(t *testing.T) {
	table := NewTestTable(WithCards("5s", "Ah", "6d", "Kc", "Ts"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Hit(0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Loss, table.LastResults()[0].Outcome)
	assert.Equal(t, 980, table.Player(0).Bank)
}

func TestDoubleThenHit(t *testing.T) {
	table := NewTestTable(WithCards("5s", "9h", "6d", "7c", "Ts", "8s"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Double(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PlayerActions, table.Phase())
	assert.Equal(t, 40, table.Player(0).Bet())
	assert.Equal(t, 960, table.Player(0).Bank)
	assert.False(t, table.IncreaseBet(0), "betting closed by the first action")

	_, err = table.Hit(0)
	require.NoError(t, err)

	assert.Equal(t, Settlement, table.Phase())
	assert.Equal(t, Win, table.LastResults()[0].Outcome)
	assert.Equal(t, 1040, table.Player(0).Bank)
}

func TestSplitRound(t *testing.T) {
	table := NewTestTable(WithCards("8s", "9h", "8d", "7c", "3s", "Kh", "9c", "Td"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Split(0)
	require.NoError(t, err)
	require.True(t, ok)
	alice := table.Player(0)
	require.Len(t, alice.Hands, 2)
	assert.Equal(t, 1, alice.Active)
	assert.Equal(t, 960, alice.Bank)

	_, err = table.Stand(0)
	require.NoError(t, err)
	assert.Equal(t, PlayerActions, table.Phase(), "first hand still to play")
	assert.Equal(t, 0, alice.Active)

	_, err = table.Hit(0)
	require.NoError(t, err)
	assert.Equal(t, 20, alice.Hands[0].Value())

	_, err = table.Stand(0)
	require.NoError(t, err)

	assert.Equal(t, Settlement, table.Phase())
	results := table.LastResults()
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, Win, r.Outcome)
	}
	assert.Equal(t, 1040, alice.Bank)
}

func TestSplitAcesMakeTwoBlackjacks(t *testing.T) {
	table := NewTestTable(WithCards("As", "9h", "Ad", "7c", "Ks", "Qh", "2c"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Split(0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Settlement, table.Phase())
	results := table.LastResults()
	require.Len(t, results, 2)
	assert.Equal(t, BlackjackWin, results[0].Outcome)
	assert.Equal(t, BlackjackWin, results[1].Outcome)
	assert.Equal(t, 960+50+50, table.Player(0).Bank)
}

func TestTurnOrder(t *testing.T) {
	table := NewTestTable(
		WithPlayers("Alice", "Bob"),
		WithCards("Ks", "Qh", "9d", "7s", "8c", "8h"),
	)
	require.NoError(t, table.DealAgain())

	ok, err := table.Stand(1)
	require.NoError(t, err)
	assert.False(t, ok, "Bob cannot act before Alice")
	assert.Equal(t, Betting, table.Phase())

	ok, err = table.Stand(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bob", table.CurrentPlayer().Name)

	ok, err = table.Hit(0)
	require.NoError(t, err)
	assert.False(t, ok, "Alice has finished")

	_, err = table.Stand(1)
	require.NoError(t, err)
	assert.Equal(t, Settlement, table.Phase())

	results := table.LastResults()
	require.Len(t, results, 2)
	assert.Equal(t, Push, results[0].Outcome, "17 against 17")
	assert.Equal(t, Win, results[1].Outcome)
}

func TestBettingLimits(t *testing.T) {
	table := NewTestTable(WithBank(25), WithCards("Ks", "9h", "Qd", "7c"))
	require.NoError(t, table.DealAgain())
	alice := table.Player(0)
	require.Equal(t, 5, alice.Bank)

	for range 5 {
		assert.True(t, table.IncreaseBet(0))
	}
	assert.False(t, table.IncreaseBet(0), "bank exhausted")
	assert.Equal(t, 25, alice.Bet())
	assert.Equal(t, 0, alice.Bank)

	assert.True(t, table.DecreaseBet(0))
	assert.Equal(t, 24, alice.Bet())
	assert.Equal(t, 1, alice.Bank)
}

func TestShortBankStakesWhatItHas(t *testing.T) {
	table := NewTestTable(WithBank(7), WithCards("Ks", "9h", "Qd", "7c"))
	require.NoError(t, table.DealAgain())
	assert.Equal(t, 7, table.Player(0).Bet())
	assert.Equal(t, 0, table.Player(0).Bank)
}

func TestShoeExhaustion(t *testing.T) {
	table := NewTestTable(WithCards("5s", "9h", "6d", "7c"))
	require.NoError(t, table.DealAgain())

	ok, err := table.Hit(0)
	assert.False(t, ok)
	assert.ErrorIs(t, err, deck.ErrShoeEmpty)
}

func TestDealAgainVoidsAbandonedRound(t *testing.T) {
	table := NewTestTable(WithCards("5s", "9h", "6d", "7c", "Ks", "9h", "Qd", "7c"))
	require.NoError(t, table.DealAgain())
	require.True(t, table.IncreaseBet(0))
	require.Equal(t, 979, table.Player(0).Bank)

	require.NoError(t, table.DealAgain())
	assert.Equal(t, 980, table.Player(0).Bank)
	assert.Equal(t, 20, table.Player(0).Bet())
	assert.Equal(t, 2, table.Round())
}

func TestSnapshotHidesHoleCard(t *testing.T) {
	table := NewTestTable(WithCards("Ks", "9h", "Qd", "7c", "Ts"))
	require.NoError(t, table.DealAgain())

	snap := table.Snapshot()
	assert.Equal(t, 0, snap.Current)
	assert.True(t, snap.Dealer.HoleHidden)
	assert.Equal(t, cards("9h"), snap.Dealer.Cards)
	assert.Equal(t, 9, snap.Dealer.Value)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 20, snap.Players[0].Hands[0].Value())
	assert.Equal(t, 1, snap.CardsRemaining)

	_, err := table.Stand(0)
	require.NoError(t, err)

	snap = table.Snapshot()
	assert.Equal(t, -1, snap.Current)
	assert.False(t, snap.Dealer.HoleHidden)
	assert.Len(t, snap.Dealer.Cards, 3)
	assert.Equal(t, DealerBust, snap.Dealer.Status)
	assert.Len(t, snap.Results, 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	table := NewTestTable(WithCards("Ks", "9h", "Qd", "7c", "2s"))
	require.NoError(t, table.DealAgain())

	snap := table.Snapshot()
	snap.Players[0].Hands[0].Cards[0] = deck.NewCard(deck.Hearts, deck.Two)
	assert.Equal(t, deck.King, table.Player(0).Hands[0].Cards[0].Rank)
}

func TestRoundEvents(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	table := NewTestTable(WithEventBus(bus), WithCards("Ks", "9h", "6d", "7c", "2s", "Kd", "2h", "3h", "4h", "5h"))
	require.NoError(t, table.DealAgain())
	require.True(t, table.IncreaseBet(0))
	_, err := table.Hit(0)
	require.NoError(t, err)
	_, err = table.Stand(0)
	require.NoError(t, err)

	starts := rec.ofType(EventTypeRoundStart)
	require.Len(t, starts, 1)
	start := starts[0].(RoundStartEvent)
	assert.Equal(t, table.RoundID(), start.RoundID)
	assert.True(t, start.Snapshot.Dealer.HoleHidden)

	actions := rec.ofType(EventTypePlayerAction)
	require.Len(t, actions, 3)
	assert.Equal(t, BetUp, actions[0].(PlayerActionEvent).Action)
	hit := actions[1].(PlayerActionEvent)
	assert.Equal(t, Hit, hit.Action)
	assert.Equal(t, 18, hit.Hand.Value())
	assert.Equal(t, Stand, actions[2].(PlayerActionEvent).Action)

	require.Len(t, rec.ofType(EventTypeDealerPlay), 1)
	ends := rec.ofType(EventTypeRoundEnd)
	require.Len(t, ends, 1)
	assert.Equal(t, table.LastResults(), ends[0].(RoundEndEvent).Results)
	assert.Equal(t, EventTypeRoundEnd, rec.events[len(rec.events)-1].EventType())
	assert.False(t, ends[0].Timestamp().IsZero())

	bus.Unsubscribe(rec)
	require.NoError(t, table.DealAgain())
	assert.Len(t, rec.ofType(EventTypeRoundStart), 1)
}

func TestManyRoundsConserveMoney(t *testing.T) {
	table := NewTestTable(WithPlayers("Alice", "Bob", "Carol"), WithSeed(7))

	start := 0
	for _, p := range table.Players() {
		start += p.Bank
	}

	net := 0
	for round := 0; round < 300; round++ {
		require.NoError(t, table.DealAgain())
		for table.Phase() != Settlement {
			seat := 0
			if p := table.CurrentPlayer(); p != nil {
				seat = p.Seat
			}
			h := table.Player(seat).ActiveHand()
			var err error
			if h != nil && h.Value() < 17 {
				_, err = table.Hit(seat)
			} else {
				_, err = table.Stand(seat)
			}
			require.NoError(t, err)
		}
		for _, r := range table.LastResults() {
			require.NotEqual(t, Pending, r.Outcome)
			net += r.Delta
		}
	}

	end := 0
	for _, p := range table.Players() {
		end += p.Bank
	}
	assert.Equal(t, start+net, end)
}
