package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayout(t *testing.T) {
	p, err := ParsePayout("6:5")
	require.NoError(t, err)
	assert.Equal(t, PayoutTable{BlackjackNum: 6, BlackjackDen: 5}, p)
	assert.Equal(t, "6:5", p.String())

	for _, bad := range []string{"", "3", "3:0", "x:2", "-1:2"} {
		_, err := ParsePayout(bad)
		assert.Error(t, err, bad)
	}
}

func TestPayoutDelta(t *testing.T) {
	p := DefaultPayout
	assert.Equal(t, 20, p.Delta(Win, 20))
	assert.Equal(t, -20, p.Delta(Loss, 20))
	assert.Equal(t, 0, p.Delta(Push, 20))
	assert.Equal(t, 30, p.Delta(BlackjackWin, 20))
	assert.Equal(t, 37, p.Delta(BlackjackWin, 25), "fractional payouts round down")
	assert.Equal(t, 0, p.Delta(Pending, 20))
}

func TestPayoutReturn(t *testing.T) {
	p := DefaultPayout
	assert.Equal(t, 40, p.Return(Win, 20))
	assert.Equal(t, 0, p.Return(Loss, 20))
	assert.Equal(t, 20, p.Return(Push, 20))
	assert.Equal(t, 50, p.Return(BlackjackWin, 20))
}
