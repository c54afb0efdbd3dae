package game

import "github.com/lox/blackjack/internal/deck"

// MaxHands caps how many hands a player can hold after splitting
const MaxHands = 4

// Player is a seated participant with a bank and up to MaxHands hands.
type Player struct {
	Seat        int
	Name        string
	Bank        int // Signed: doubling or splitting past the balance runs a debt
	Hands       []*Hand
	Active      int  // Index of the hand currently being played
	BettingOpen bool // Stake may still be changed this round
}

// NewPlayer creates a player with a starting bank
func NewPlayer(seat int, name string, bank int) *Player {
	return &Player{
		Seat:        seat,
		Name:        name,
		Bank:        bank,
		BettingOpen: true,
	}
}

// ActiveHand returns the hand being played, or nil before the deal
func (p *Player) ActiveHand() *Hand {
	if p.Active < 0 || p.Active >= len(p.Hands) {
		return nil
	}
	return p.Hands[p.Active]
}

// Bet returns the total stake across all hands
func (p *Player) Bet() int {
	total := 0
	for _, h := range p.Hands {
		total += h.Bet
	}
	return total
}

// Equity is bank plus everything currently staked
func (p *Player) Equity() int {
	return p.Bank + p.Bet()
}

// IsBust reports whether the active hand is bust
func (p *Player) IsBust() bool {
	h := p.ActiveHand()
	return h != nil && h.Status == Bust
}

// HasChecked reports whether the active hand has finished acting
func (p *Player) HasChecked() bool {
	h := p.ActiveHand()
	return h != nil && h.Status.Done()
}

// HasBlackjack reports whether the active hand is a blackjack
func (p *Player) HasBlackjack() bool {
	h := p.ActiveHand()
	return h != nil && h.Status == Blackjack
}

// HasWon reports whether any hand won, or is a blackjack awaiting payment
func (p *Player) HasWon() bool {
	for _, h := range p.Hands {
		if h.Outcome.IsWin() || (!h.Settled && h.Status == Blackjack) {
			return true
		}
	}
	return false
}

// IsDone reports whether every hand has finished acting
func (p *Player) IsDone() bool {
	if len(p.Hands) == 0 {
		return true
	}
	for _, h := range p.Hands {
		if !h.Status.Done() {
			return false
		}
	}
	return true
}

// advance moves Active to the next hand still in play, searching forward
// from the current hand and then wrapping. It leaves Active alone when every
// hand is done.
func (p *Player) advance() {
	n := len(p.Hands)
	for i := 0; i < n; i++ {
		idx := (p.Active + i) % n
		if !p.Hands[idx].Status.Done() {
			p.Active = idx
			return
		}
	}
}

// discardHands empties the player's hands and returns the cards they held
func (p *Player) discardHands() []deck.Card {
	var cards []deck.Card
	for _, h := range p.Hands {
		cards = append(cards, h.Cards...)
	}
	p.Hands = p.Hands[:0]
	p.Active = 0
	return cards
}
