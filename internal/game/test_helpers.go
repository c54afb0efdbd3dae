package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// TestTableOption configures test table creation
type TestTableOption func(*testTableBuilder)

type testTableBuilder struct {
	seed     int64
	cards    []deck.Card
	config   TableConfig
	eventBus EventBus
	players  []string
	bank     int
}

// WithSeed shuffles a full shoe with the given seed
func WithSeed(seed int64) TestTableOption {
	return func(b *testTableBuilder) { b.seed = seed }
}

// WithCards deals exactly these cards, in order, from a stacked shoe
func WithCards(cards ...string) TestTableOption {
	return func(b *testTableBuilder) { b.cards = deck.MustParseCards(cards...) }
}

func WithStake(stake int) TestTableOption {
	return func(b *testTableBuilder) { b.config.DefaultStake = stake }
}

func WithPayout(p PayoutTable) TestTableOption {
	return func(b *testTableBuilder) { b.config.Payout = p }
}

func WithEventBus(eventBus EventBus) TestTableOption {
	return func(b *testTableBuilder) { b.eventBus = eventBus }
}

func WithPlayers(names ...string) TestTableOption {
	return func(b *testTableBuilder) { b.players = names }
}

func WithBank(bank int) TestTableOption {
	return func(b *testTableBuilder) { b.bank = bank }
}

// NewTestTable creates a table for testing with sensible defaults: one
// player called Alice with a bank of 1000 and a seeded shoe.
func NewTestTable(opts ...TestTableOption) *Table {
	builder := &testTableBuilder{
		seed:     42,
		eventBus: NewEventBus(),
		players:  []string{"Alice"},
		bank:     1000,
	}

	for _, opt := range opts {
		opt(builder)
	}

	var shoe Shoe
	if builder.cards != nil {
		shoe = deck.NewStackedShoe(builder.cards...)
	} else {
		shoe = deck.NewShoe(randutil.New(builder.seed), deck.Reshuffle)
	}

	table := NewTable(shoe, builder.eventBus, builder.config)
	for _, name := range builder.players {
		table.AddPlayer(name, builder.bank)
	}
	return table
}
