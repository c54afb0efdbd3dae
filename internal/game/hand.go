package game

import (
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack21 is the target total
const Blackjack21 = 21

// HandValue sums the current value of every card.
func HandValue(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value
	}
	return total
}

// ContainsSoftAce reports whether any card still counts as 11.
func ContainsSoftAce(cards []deck.Card) bool {
	for _, c := range cards {
		if c.IsSoftAce() {
			return true
		}
	}
	return false
}

// NormalizeAces demotes soft aces one at a time, stopping as soon as the
// total is 21 or less or no soft ace remains. It returns how many aces were
// demoted.
func NormalizeAces(cards []deck.Card) int {
	converted := 0
	for HandValue(cards) > Blackjack21 {
		i := softAceIndex(cards)
		if i < 0 {
			break
		}
		cards[i] = cards[i].Harden()
		converted++
	}
	return converted
}

func softAceIndex(cards []deck.Card) int {
	for i, c := range cards {
		if c.IsSoftAce() {
			return i
		}
	}
	return -1
}

// Hand is one betting line: the cards, the stake riding on them and where
// the hand stands in play.
type Hand struct {
	Cards   []deck.Card
	Bet     int
	Status  HandStatus
	Outcome Outcome
	Delta   int  // Net balance change once settled
	Settled bool // True once the bank has been adjusted for this hand
}

// NewHand creates an active hand holding the given cards
func NewHand(bet int, cards ...deck.Card) *Hand {
	h := &Hand{Bet: bet}
	h.Cards = append(h.Cards, cards...)
	return h
}

// Add appends a card to the hand
func (h *Hand) Add(c deck.Card) {
	h.Cards = append(h.Cards, c)
}

// Value returns the hand's total
func (h *Hand) Value() int {
	return HandValue(h.Cards)
}

// HasSoftAce reports whether an ace in the hand still counts 11
func (h *Hand) HasSoftAce() bool {
	return ContainsSoftAce(h.Cards)
}

// IsSoft reports a soft total: at most 21 with an ace still counting 11
func (h *Hand) IsSoft() bool {
	return h.Value() <= Blackjack21 && h.HasSoftAce()
}

// NormalizeAces applies the soft-to-hard ace rule to the hand
func (h *Hand) NormalizeAces() int {
	return NormalizeAces(h.Cards)
}

// IsSplittable reports whether the hand is exactly two cards of equal
// nominal value. Two aces qualify even after one has been demoted.
func (h *Hand) IsSplittable() bool {
	return len(h.Cards) == 2 && h.Cards[0].Points() == h.Cards[1].Points()
}

// IsNatural reports a two-card 21
func (h *Hand) IsNatural() bool {
	return len(h.Cards) == 2 && h.Value() == Blackjack21
}

// Len returns the number of cards
func (h *Hand) Len() int {
	return len(h.Cards)
}

// String renders the cards and total, e.g. "A♠ K♦ (21)"
func (h *Hand) String() string {
	parts := make([]string, 0, len(h.Cards)+1)
	for _, c := range h.Cards {
		parts = append(parts, c.String())
	}
	parts = append(parts, "("+strconv.Itoa(h.Value())+")")
	return strings.Join(parts, " ")
}

// clone returns a deep copy suitable for snapshots
func (h *Hand) clone() Hand {
	c := *h
	c.Cards = append([]deck.Card(nil), h.Cards...)
	return c
}
