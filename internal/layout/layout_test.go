package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func dealtTable(t *testing.T, cards ...string) *game.Table {
	t.Helper()
	table := game.NewTestTable(game.WithCards(cards...))
	require.NoError(t, table.DealAgain())
	return table
}

func TestPositionsSingleHand(t *testing.T) {
	table := dealtTable(t, "5s", "9h", "6d", "7c", "2s")
	_, err := table.Hit(0)
	require.NoError(t, err)

	vp := Viewport{Width: 1000, Height: 800}
	l := Positions(table.Snapshot(), vp)

	require.Len(t, l.Players, 1)
	hand := l.Players[0].Hands[0]
	require.Len(t, hand, 3)
	assert.Equal(t, Point{X: 500, Y: 600}, hand[0].At)
	assert.Equal(t, Point{X: 520, Y: 580}, hand[1].At)
	assert.Equal(t, Point{X: 540, Y: 560}, hand[2].At)
	assert.Equal(t, "2♠", hand[2].Card)
}

func TestPositionsDealerHoleCard(t *testing.T) {
	table := dealtTable(t, "Ks", "9h", "Qd", "7c", "Ts")
	vp := Viewport{Width: 1000, Height: 800}

	l := Positions(table.Snapshot(), vp)
	require.Len(t, l.Dealer, 2)
	assert.Equal(t, "9♥", l.Dealer[0].Card)
	assert.Equal(t, Point{X: 500, Y: 200}, l.Dealer[0].At)
	assert.True(t, l.Dealer[1].Hidden)
	assert.Empty(t, l.Dealer[1].Card)
	assert.Equal(t, Point{X: 480, Y: 220}, l.Dealer[1].At)

	_, err := table.Stand(0)
	require.NoError(t, err)

	l = Positions(table.Snapshot(), vp)
	require.Len(t, l.Dealer, 3)
	for _, c := range l.Dealer {
		assert.False(t, c.Hidden)
	}
	assert.Equal(t, Point{X: 460, Y: 240}, l.Dealer[2].At)
}

func TestPositionsSplitQuadrants(t *testing.T) {
	table := dealtTable(t, "8s", "9h", "8d", "7c", "3s", "Kh")
	ok, err := table.Split(0)
	require.NoError(t, err)
	require.True(t, ok)

	vp := Viewport{Width: 1000, Height: 800}
	l := Positions(table.Snapshot(), vp)

	hands := l.Players[0].Hands
	require.Len(t, hands, 2)
	assert.Equal(t, Point{X: 460, Y: 640}, hands[0][0].At)
	assert.Equal(t, Point{X: 480, Y: 620}, hands[0][1].At)
	assert.Equal(t, Point{X: 540, Y: 640}, hands[1][0].At)
}

func TestHandAnchor(t *testing.T) {
	vp := Viewport{Width: 500, Height: 500}
	seat := Point{X: 100, Y: 100}

	assert.Equal(t, seat, HandAnchor(seat, 0, 1, vp))
	assert.Equal(t, Point{X: 80, Y: 120}, HandAnchor(seat, 0, 4, vp))
	assert.Equal(t, Point{X: 120, Y: 120}, HandAnchor(seat, 1, 4, vp))
	assert.Equal(t, Point{X: 80, Y: 80}, HandAnchor(seat, 2, 4, vp))
	assert.Equal(t, Point{X: 120, Y: 80}, HandAnchor(seat, 3, 4, vp))
}

func TestPositionsDefaultViewport(t *testing.T) {
	table := dealtTable(t, "Ks", "9h", "Qd", "7c")
	l := Positions(table.Snapshot(), Viewport{})
	assert.Equal(t, DefaultViewport, l.Viewport)
}

func TestPositionsSpreadsSeats(t *testing.T) {
	table := game.NewTestTable(game.WithPlayers("Alice", "Bob", "Carol"))
	require.NoError(t, table.DealAgain())

	l := Positions(table.Snapshot(), Viewport{Width: 800, Height: 400})
	require.Len(t, l.Players, 3)
	assert.Equal(t, 200, l.Players[0].Hands[0][0].At.X)
	assert.Equal(t, 400, l.Players[1].Hands[0][0].At.X)
	assert.Equal(t, 600, l.Players[2].Hands[0][0].At.X)
}
