package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedDealer(status DealerStatus, c ...string) *Dealer {
	return &Dealer{Hand: NewHand(0, cards(c...)...), Status: status}
}

func TestCheckForBlackjackAndBust(t *testing.T) {
	tests := []struct {
		name   string
		cards  []string
		status HandStatus
	}{
		{"natural", []string{"As", "Kd"}, Blackjack},
		{"three card 21", []string{"7s", "7d", "7h"}, Stood},
		{"bust", []string{"Ks", "Qd", "2h"}, Bust},
		{"pair of aces plays on", []string{"As", "Ad"}, Active},
		{"under 21", []string{"Ks", "5d"}, Active},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seated(100, 10, tt.cards...)
			CheckForBlackjackAndBust(p)
			assert.Equal(t, tt.status, p.Hands[0].Status)
		})
	}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name    string
		player  []string
		dealer  []string
		dstatus DealerStatus
		want    Outcome
	}{
		{"higher total wins", []string{"Ks", "9d"}, []string{"Kh", "8c"}, Finished, Win},
		{"lower total loses", []string{"Ks", "7d"}, []string{"Kh", "8c"}, Finished, Loss},
		{"equal totals push", []string{"Ks", "8d"}, []string{"Kh", "8c"}, Finished, Push},
		{"dealer bust pays", []string{"Ks", "2d"}, []string{"Kh", "6c", "Td"}, DealerBust, Win},
		{"blackjack pays", []string{"As", "Kd"}, []string{"Kh", "8c"}, Finished, BlackjackWin},
		{"blackjack against dealer natural pushes", []string{"As", "Kd"}, []string{"Ah", "Qc"}, Finished, Push},
		{"dealer natural beats 21", []string{"7s", "7d", "7h"}, []string{"Ah", "Qc"}, Finished, Loss},
		{"dealer three card 21 pushes 21", []string{"7s", "7d", "7h"}, []string{"5h", "6c", "Td"}, Finished, Push},
		{"bust loses to dealer bust", []string{"Ks", "Qd", "5h"}, []string{"Kh", "6c", "Td"}, DealerBust, Loss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seated(100, 10, tt.player...)
			CheckForBlackjackAndBust(p)
			StandHand(p)
			d := finishedDealer(tt.dstatus, tt.dealer...)

			results, ok := CheckForWinner([]*Player{p}, d, DefaultPayout)
			require.True(t, ok)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Outcome)
			assert.Equal(t, 100+DefaultPayout.Return(tt.want, 10), p.Bank)
		})
	}
}

func TestCheckForWinnerWaitsForActiveHands(t *testing.T) {
	p := seated(100, 10, "8s", "8d")
	p.Hands = append(p.Hands, NewHand(10, cards("8h", "Kd")...))
	p.Hands[1].Status = Stood
	d := finishedDealer(Finished, "Kh", "8c")

	results, ok := CheckForWinner([]*Player{p}, d, DefaultPayout)
	assert.False(t, ok)
	assert.Nil(t, results)
	assert.Equal(t, 100, p.Bank)
	assert.False(t, p.Hands[1].Settled)
}

func TestCheckForWinnerSettlesEveryPlayer(t *testing.T) {
	alice := seated(100, 10, "Ks", "9d")
	bob := NewPlayer(1, "Bob", 50)
	bob.Hands = []*Hand{NewHand(20, cards("Ks", "7d")...)}
	StandHand(alice)
	StandHand(bob)
	d := finishedDealer(Finished, "Kh", "8c")

	results, ok := CheckForWinner([]*Player{alice, bob}, d, DefaultPayout)
	require.True(t, ok)
	require.Len(t, results, 2)

	assert.Equal(t, "Alice", results[0].Player)
	assert.Equal(t, Win, results[0].Outcome)
	assert.Equal(t, 10, results[0].Delta)
	assert.Equal(t, 18, results[0].DealerValue)
	assert.Equal(t, 120, alice.Bank)

	assert.Equal(t, "Bob", results[1].Player)
	assert.Equal(t, Loss, results[1].Outcome)
	assert.Equal(t, -20, results[1].Delta)
	assert.Equal(t, 50, bob.Bank)
}

func TestBustIsBookedOnce(t *testing.T) {
	p := seated(100, 10, "Ks", "Qd", "5h")
	CheckForBlackjackAndBust(p)
	require.True(t, p.Hands[0].Settled)

	d := finishedDealer(DealerBust, "Kh", "6c", "Td")
	results, ok := CheckForWinner([]*Player{p}, d, DefaultPayout)
	require.True(t, ok)
	assert.Equal(t, Loss, results[0].Outcome)
	assert.Equal(t, -10, results[0].Delta)
	assert.Equal(t, 100, p.Bank)
}

func TestUpdatePlayerWinningsIsIdempotent(t *testing.T) {
	p := seated(100, 10, "Ks", "9d")
	h := p.Hands[0]

	assert.Equal(t, 10, UpdatePlayerWinnings(p, h, Win, DefaultPayout))
	assert.Equal(t, 10, UpdatePlayerWinnings(p, h, Win, DefaultPayout))
	assert.Equal(t, 10, UpdatePlayerWinnings(p, h, Loss, DefaultPayout), "a settled hand keeps its outcome")
	assert.Equal(t, 120, p.Bank)
	assert.True(t, p.HasWon())
}

func TestCustomPayout(t *testing.T) {
	p := seated(100, 10, "As", "Kd")
	CheckForBlackjackAndBust(p)
	d := finishedDealer(Finished, "Kh", "8c")

	results, ok := CheckForWinner([]*Player{p}, d, PayoutTable{BlackjackNum: 6, BlackjackDen: 5})
	require.True(t, ok)
	assert.Equal(t, 12, results[0].Delta)
	assert.Equal(t, 122, p.Bank)
}
