package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrShoeEmpty is returned when a draw is attempted with no cards left to
// deal and nothing that can be shuffled back in.
var ErrShoeEmpty = errors.New("shoe is empty")

// ExhaustionPolicy decides what an empty shoe does on the next draw.
type ExhaustionPolicy int

const (
	// Reshuffle shuffles the discard pile back into the shoe.
	Reshuffle ExhaustionPolicy = iota
	// FailFast returns ErrShoeEmpty as soon as the shoe runs out.
	FailFast
)

// String returns the config spelling of the policy
func (p ExhaustionPolicy) String() string {
	switch p {
	case Reshuffle:
		return "reshuffle"
	case FailFast:
		return "fail"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the config spelling of an exhaustion policy.
func ParsePolicy(s string) (ExhaustionPolicy, error) {
	switch s {
	case "", "reshuffle":
		return Reshuffle, nil
	case "fail", "fail-fast":
		return FailFast, nil
	default:
		return 0, errors.New("unknown exhaustion policy: " + s)
	}
}

// Shoe is a single 52-card deck dealt from the top. Cards that leave play
// are handed back through Discard so they can be reshuffled later.
type Shoe struct {
	cards    []Card
	next     int
	discards []Card
	rng      *rand.Rand
	policy   ExhaustionPolicy
	shuffles int
}

// NewShoe creates a shuffled single-deck shoe. A nil rng leaves the deck in
// factory order, which only tests want.
func NewShoe(rng *rand.Rand, policy ExhaustionPolicy) *Shoe {
	s := &Shoe{
		cards:  make([]Card, 0, 52),
		rng:    rng,
		policy: policy,
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			s.cards = append(s.cards, NewCard(suit, rank))
		}
	}

	s.Shuffle()
	return s
}

// NewStackedShoe deals exactly the given cards in order. It never reshuffles
// and fails fast once the stack runs out.
func NewStackedShoe(cards ...Card) *Shoe {
	stack := make([]Card, len(cards))
	for i, c := range cards {
		stack[i] = c.Fresh()
	}
	return &Shoe{cards: stack, policy: FailFast}
}

// Shuffle randomizes the undealt part of the shoe (Fisher-Yates)
func (s *Shoe) Shuffle() {
	if s.rng == nil {
		return
	}
	undealt := s.cards[s.next:]
	for i := len(undealt) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		undealt[i], undealt[j] = undealt[j], undealt[i]
	}
	s.shuffles++
}

// Draw removes and returns the next undealt card.
func (s *Shoe) Draw() (Card, error) {
	if s.next >= len(s.cards) {
		if err := s.refill(); err != nil {
			return Card{}, err
		}
	}

	card := s.cards[s.next]
	s.next++
	return card, nil
}

// Discard returns cards that have left play. Their values are restored so a
// demoted ace is soft again when it comes back around.
func (s *Shoe) Discard(cards ...Card) {
	for _, c := range cards {
		s.discards = append(s.discards, c.Fresh())
	}
}

func (s *Shoe) refill() error {
	if s.policy == FailFast || len(s.discards) == 0 {
		return ErrShoeEmpty
	}

	s.cards = append(s.cards[:0], s.discards...)
	s.discards = s.discards[:0]
	s.next = 0
	s.Shuffle()
	return nil
}

// CardsRemaining returns the number of undealt cards
func (s *Shoe) CardsRemaining() int {
	return len(s.cards) - s.next
}

// DiscardCount returns the size of the discard pile
func (s *Shoe) DiscardCount() int {
	return len(s.discards)
}

// Shuffles returns how many times the shoe has been shuffled
func (s *Shoe) Shuffles() int {
	return s.shuffles
}

// Policy returns the exhaustion policy
func (s *Shoe) Policy() ExhaustionPolicy {
	return s.policy
}

// Peek returns the next card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if s.next >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[s.next], true
}
