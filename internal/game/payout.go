package game

import (
	"fmt"
	"strconv"
	"strings"
)

// PayoutTable holds the ratio a blackjack pays. Ordinary wins pay even
// money, losses forfeit the stake and pushes return it.
type PayoutTable struct {
	BlackjackNum int
	BlackjackDen int
}

// DefaultPayout pays blackjack 3:2
var DefaultPayout = PayoutTable{BlackjackNum: 3, BlackjackDen: 2}

// ParsePayout parses ratios like "3:2" or "2:1"
func ParsePayout(s string) (PayoutTable, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return PayoutTable{}, fmt.Errorf("payout %q must look like 3:2", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return PayoutTable{}, fmt.Errorf("invalid payout numerator: %w", err)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return PayoutTable{}, fmt.Errorf("invalid payout denominator: %w", err)
	}
	p := PayoutTable{BlackjackNum: n, BlackjackDen: d}
	if err := p.Validate(); err != nil {
		return PayoutTable{}, err
	}
	return p, nil
}

// Validate checks the ratio is positive
func (p PayoutTable) Validate() error {
	if p.BlackjackNum <= 0 || p.BlackjackDen <= 0 {
		return fmt.Errorf("blackjack payout must be a positive ratio, got %d:%d", p.BlackjackNum, p.BlackjackDen)
	}
	return nil
}

// String returns the ratio as "num:den"
func (p PayoutTable) String() string {
	return fmt.Sprintf("%d:%d", p.BlackjackNum, p.BlackjackDen)
}

// Delta returns the net balance change an outcome produces for a stake.
// Fractional blackjack payouts round down.
func (p PayoutTable) Delta(o Outcome, bet int) int {
	switch o {
	case Win:
		return bet
	case Loss:
		return -bet
	case BlackjackWin:
		return bet * p.BlackjackNum / p.BlackjackDen
	default:
		return 0
	}
}

// Return is what goes back to the bank on settlement: the escrowed stake
// plus the delta, never less than zero.
func (p PayoutTable) Return(o Outcome, bet int) int {
	if o == Loss || o == Pending {
		return 0
	}
	return bet + p.Delta(o, bet)
}
