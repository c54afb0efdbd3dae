// Package bot provides automated players: a basic strategy chart and a
// random player. Bots drive a game.Table through its public actions.
package bot

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

// Decision is a chosen action and a short reason for it
type Decision struct {
	Action    game.Action
	Reasoning string
}

// Situation is everything a bot sees when asked to play a hand
type Situation struct {
	Hand      game.Hand
	DealerUp  deck.Card
	Bank      int
	HandCount int
}

// CanDouble reports whether doubling is on offer. Only untouched two card
// hands are doubled.
func (s Situation) CanDouble() bool {
	return len(s.Hand.Cards) == 2
}

// CanSplit reports whether the hand could be split
func (s Situation) CanSplit() bool {
	return s.HandCount < game.MaxHands && s.Hand.IsSplittable()
}

// Bot decides how to play a hand
type Bot interface {
	MakeDecision(s Situation) Decision
}

// SituationFor describes a player's active hand against the dealer's up
// card. It returns false when the player has nothing to play.
func SituationFor(p *game.Player, d *game.Dealer) (Situation, bool) {
	h := p.ActiveHand()
	if h == nil || h.Status != game.Active {
		return Situation{}, false
	}
	up, ok := d.UpCard()
	if !ok {
		return Situation{}, false
	}
	return Situation{
		Hand:      *h,
		DealerUp:  up,
		Bank:      p.Bank,
		HandCount: len(p.Hands),
	}, true
}

// PlayTurn lets a bot play every hand of the table's current player. A
// double is followed by exactly one card.
func PlayTurn(table *game.Table, b Bot) error {
	p := table.CurrentPlayer()
	if p == nil {
		return table.CloseBetting()
	}
	seat := p.Seat

	for table.CurrentPlayer() == p {
		s, ok := SituationFor(p, table.Dealer())
		if !ok {
			return fmt.Errorf("seat %d has no hand to play", seat)
		}

		d := b.MakeDecision(s)
		acted, err := act(table, seat, d.Action)
		if err != nil {
			return err
		}
		if !acted {
			// Fall back to standing so a confused bot cannot stall the table.
			if _, err := table.Stand(seat); err != nil {
				return err
			}
		}
	}
	return nil
}

func act(table *game.Table, seat int, action game.Action) (bool, error) {
	if action != game.Double {
		return table.Act(seat, action)
	}

	ok, err := table.Double(seat)
	if err != nil || !ok {
		return ok, err
	}
	p := table.Player(seat)
	idx := p.Active
	if _, err := table.Hit(seat); err != nil {
		return true, err
	}
	if h := p.Hands[idx]; h.Status == game.Active {
		_, err = table.Stand(seat)
	}
	return true, err
}

// Strategies lists the names New accepts
var Strategies = []string{"chart", "rand"}

// New builds a bot by strategy name. The seed only matters to strategies
// that use randomness.
func New(strategy string, seed int64, logger *log.Logger) (Bot, error) {
	switch strategy {
	case "chart":
		return NewChartBot(logger), nil
	case "rand":
		return NewRandBot(randutil.New(seed), logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want chart or rand)", strategy)
	}
}
