package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine:
		return fmt.Sprintf("%d", int(r))
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Points returns the nominal blackjack value of the rank: aces count 11,
// court cards 10 and number cards their face value.
func (r Rank) Points() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten && r <= King:
		return 10
	case r >= Two && r <= Nine:
		return int(r)
	default:
		return 0
	}
}

const (
	// SoftAce is the value an ace carries when dealt.
	SoftAce = 11
	// HardAce is the value an ace carries once demoted to avoid a bust.
	HardAce = 1
)

// Card is a playing card. Value starts at the rank's nominal points and is
// only ever changed from SoftAce to HardAce by hand normalisation.
type Card struct {
	Suit  Suit
	Rank  Rank
	Value int
}

// NewCard creates a new card carrying its nominal value
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, Value: rank.Points()}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Points returns the nominal value, ignoring any ace adjustment.
func (c Card) Points() int {
	return c.Rank.Points()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsSoftAce reports whether the card still counts as 11.
func (c Card) IsSoftAce() bool {
	return c.Value == SoftAce
}

// Harden demotes a soft ace to 1. Other cards are returned unchanged.
func (c Card) Harden() Card {
	if c.Value == SoftAce {
		c.Value = HardAce
	}
	return c
}

// Fresh returns the card with its nominal value restored, as it would be
// when it goes back into the shoe.
func (c Card) Fresh() Card {
	c.Value = c.Rank.Points()
	return c
}

// ParseCard parses strings like "A♠", "Ts", "10h" or "K" (suit optional,
// spades assumed). It is used by tests and the stacked shoe.
func ParseCard(s string) (Card, error) {
	runes := []rune(s)
	if len(runes) == 0 {
		return Card{}, fmt.Errorf("empty card")
	}

	suit := Spades
	rankPart := runes
	if len(runes) > 1 {
		if parsed, ok := parseSuit(runes[len(runes)-1]); ok {
			suit = parsed
			rankPart = runes[:len(runes)-1]
		}
	}

	var rank Rank
	switch string(rankPart) {
	case "A", "a":
		rank = Ace
	case "K", "k":
		rank = King
	case "Q", "q":
		rank = Queen
	case "J", "j":
		rank = Jack
	case "T", "t", "10":
		rank = Ten
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank in card %q", s)
		}
		rank = Rank(rankPart[0] - '0')
	}

	return NewCard(suit, rank), nil
}

// MustParseCards parses a list of cards, panicking on bad input.
func MustParseCards(cards ...string) []Card {
	out := make([]Card, len(cards))
	for i, s := range cards {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

func parseSuit(r rune) (Suit, bool) {
	switch r {
	case '♠', 's', 'S':
		return Spades, true
	case '♥', 'h', 'H':
		return Hearts, true
	case '♦', 'd', 'D':
		return Diamonds, true
	case '♣', 'c', 'C':
		return Clubs, true
	}
	return 0, false
}
