package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func cards(s ...string) []deck.Card { return deck.MustParseCards(s...) }

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards []deck.Card
		want  int
	}{
		{"empty", nil, 0},
		{"natural", cards("As", "Kd"), 21},
		{"two aces before normalising", cards("As", "Ad"), 22},
		{"court cards", cards("Js", "Qh", "Kd"), 30},
		{"number cards", cards("2s", "3h", "4d"), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandValue(tt.cards))
		})
	}
}

func TestNormalizeAces(t *testing.T) {
	tests := []struct {
		name      string
		cards     []deck.Card
		converted int
		value     int
		soft      bool
	}{
		{"pair of aces", cards("As", "Ad"), 1, 12, true},
		{"three aces and a nine", cards("As", "Ad", "Ah", "9c"), 3, 12, false},
		{"soft total untouched", cards("As", "6d"), 0, 17, true},
		{"bust without aces", cards("Ks", "Qd", "5h"), 0, 25, false},
		{"ace hardened by a ten", cards("As", "6d", "Kh"), 1, 17, false},
		{"all aces hard", cards("As", "Ad", "Ah", "Ac", "Ks", "9h"), 4, 23, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := append([]deck.Card(nil), tt.cards...)
			assert.Equal(t, tt.converted, NormalizeAces(c))
			assert.Equal(t, tt.value, HandValue(c))
			assert.Equal(t, tt.soft, ContainsSoftAce(c))
		})
	}
}

func TestNormalizeAcesDemotesOneAtATime(t *testing.T) {
	c := cards("As", "Ad", "9h")
	require.Equal(t, 31, HandValue(c))

	NormalizeAces(c)
	assert.Equal(t, 21, HandValue(c))
	assert.Equal(t, deck.HardAce, c[0].Value, "first soft ace is demoted first")
	assert.Equal(t, deck.SoftAce, c[1].Value)
}

func TestHandIsSplittable(t *testing.T) {
	assert.True(t, NewHand(10, cards("8s", "8d")...).IsSplittable())
	assert.True(t, NewHand(10, cards("Ks", "Qd")...).IsSplittable(), "equal value is enough")
	assert.False(t, NewHand(10, cards("8s", "9d")...).IsSplittable())
	assert.False(t, NewHand(10, cards("8s", "8d", "8h")...).IsSplittable())

	aces := NewHand(10, cards("As", "Ad")...)
	aces.NormalizeAces()
	assert.True(t, aces.IsSplittable(), "a demoted ace still pairs with a soft one")
}

func TestHandIsSoft(t *testing.T) {
	h := NewHand(0, cards("As", "6d")...)
	assert.True(t, h.IsSoft())

	h.Add(deck.NewCard(deck.Hearts, deck.King))
	h.NormalizeAces()
	assert.False(t, h.IsSoft())
	assert.Equal(t, 17, h.Value())
}

func TestHandString(t *testing.T) {
	h := NewHand(0, cards("A♠", "K♦")...)
	assert.Equal(t, "A♠ K♦ (21)", h.String())
	assert.True(t, h.IsNatural())
	assert.Equal(t, 2, h.Len())
}
