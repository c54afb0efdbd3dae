package game

import "github.com/lox/blackjack/internal/deck"

// DefaultStandOn is the total at which the dealer stops drawing
const DefaultStandOn = 17

// Dealer holds the house hand. It never bets, doubles or splits.
type Dealer struct {
	Hand   *Hand
	Status DealerStatus
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{Hand: NewHand(0)}
}

// Value returns the dealer's total
func (d *Dealer) Value() int {
	return d.Hand.Value()
}

// IsBust reports whether the dealer finished over 21
func (d *Dealer) IsBust() bool {
	return d.Status == DealerBust
}

// HasFinishedDealing reports whether the dealer has played out the hand
func (d *Dealer) HasFinishedDealing() bool {
	return d.Status != Waiting
}

// HasNatural reports a two-card 21 for the dealer
func (d *Dealer) HasNatural() bool {
	return d.Hand.IsNatural()
}

// UpCard returns the dealer's first card, the one shown during play
func (d *Dealer) UpCard() (deck.Card, bool) {
	if len(d.Hand.Cards) == 0 {
		return deck.Card{}, false
	}
	return d.Hand.Cards[0], true
}

func (d *Dealer) discardHand() []deck.Card {
	cards := d.Hand.Cards
	d.Hand = NewHand(0)
	d.Status = Waiting
	return cards
}
