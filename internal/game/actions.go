package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// CardSource is anything that deals the next card.
type CardSource interface {
	Draw() (deck.Card, error)
}

// Action is something a participant can do during a round
type Action int

const (
	BetUp Action = iota
	BetDown
	Hit
	Double
	Split
	Stand
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case BetUp:
		return "bet+"
	case BetDown:
		return "bet-"
	case Hit:
		return "hit"
	case Double:
		return "double"
	case Split:
		return "split"
	case Stand:
		return "stand"
	default:
		return "unknown"
	}
}

// ParseAction parses the wire/CLI spelling of an action
func ParseAction(s string) (Action, error) {
	switch s {
	case "bet+", "up", "increase":
		return BetUp, nil
	case "bet-", "down", "decrease":
		return BetDown, nil
	case "hit", "h":
		return Hit, nil
	case "double", "d":
		return Double, nil
	case "split", "p":
		return Split, nil
	case "stand", "s":
		return Stand, nil
	default:
		return 0, fmt.Errorf("unknown action: %q", s)
	}
}

// Every action below is a silent no-op when its precondition fails; the
// boolean result reports whether it ran. Only a failing shoe is an error.

// IncreaseBet moves one unit from the bank onto the opening hand.
func IncreaseBet(p *Player) bool {
	if len(p.Hands) == 0 || p.Bank <= 0 || !p.BettingOpen {
		return false
	}
	p.Hands[0].Bet++
	p.Bank--
	return true
}

// DecreaseBet moves one unit from the opening hand back to the bank.
func DecreaseBet(p *Player) bool {
	if len(p.Hands) == 0 || p.Hands[0].Bet <= 0 || !p.BettingOpen {
		return false
	}
	p.Hands[0].Bet--
	p.Bank++
	return true
}

// HitPlayer draws a card onto the active hand. The hand must still be in
// play and short of 21.
func HitPlayer(p *Player, shoe CardSource) (bool, error) {
	h := p.ActiveHand()
	if h == nil || h.Status != Active || h.Value() == Blackjack21 {
		return false, nil
	}

	card, err := shoe.Draw()
	if err != nil {
		return false, fmt.Errorf("hit: %w", err)
	}
	h.Add(card)

	CheckForBlackjackAndBust(p)
	p.advance()
	return true, nil
}

// DoubleBet doubles the active hand's stake, escrowing the extra from the
// bank. It neither draws nor ends the hand; callers sequence that.
func DoubleBet(p *Player) bool {
	h := p.ActiveHand()
	if h == nil || h.Status != Active {
		return false
	}
	p.Bank -= h.Bet
	h.Bet *= 2
	return true
}

// SplitHand moves the active hand's second card into a new hand carrying an
// equal stake, deals one card to each and makes the new hand active. A card
// drawn before the shoe ran dry goes to the discards.
func SplitHand(p *Player, shoe Shoe) (bool, error) {
	h := p.ActiveHand()
	if h == nil || h.Status != Active || len(p.Hands) >= MaxHands || !h.IsSplittable() {
		return false, nil
	}

	first, err := shoe.Draw()
	if err != nil {
		return false, fmt.Errorf("split: %w", err)
	}
	second, err := shoe.Draw()
	if err != nil {
		shoe.Discard(first)
		return false, fmt.Errorf("split: %w", err)
	}

	moved := h.Cards[1].Fresh()
	h.Cards = h.Cards[:1]
	h.Cards[0] = h.Cards[0].Fresh()
	h.Add(first)

	split := NewHand(h.Bet, moved, second)
	p.Bank -= h.Bet
	p.Hands = append(p.Hands, split)

	checkHand(p, h)
	p.Active = len(p.Hands) - 1
	checkHand(p, split)
	p.advance()
	return true, nil
}

// StandHand finishes the active hand.
func StandHand(p *Player) bool {
	h := p.ActiveHand()
	if h == nil || h.Status != Active {
		return false
	}
	h.Status = Stood
	p.advance()
	return true
}

// DealerStand plays out the dealer's hand: draw until the total reaches
// standOn, demoting soft aces after each card.
func DealerStand(d *Dealer, shoe CardSource, standOn int) error {
	if d.HasFinishedDealing() {
		return nil
	}

	d.Hand.NormalizeAces()
	for d.Hand.Value() < standOn {
		card, err := shoe.Draw()
		if err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		d.Hand.Add(card)
		d.Hand.NormalizeAces()
	}

	d.Status = Finished
	if d.Hand.Value() > Blackjack21 {
		d.Status = DealerBust
	}
	return nil
}
