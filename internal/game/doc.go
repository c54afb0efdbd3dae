// Package game implements the rules of single-deck blackjack.
//
// The main type is Table, which owns the players, the dealer and the shoe
// for one round at a time. Every action goes through the table and is a
// silent no-op when it is not allowed; the boolean result says whether it
// ran and an error is only returned when the shoe fails.
//
// # Basic Usage
//
//	shoe := deck.NewShoe(randutil.New(42), deck.Reshuffle)
//	table := game.NewTable(shoe, game.NewEventBus(), game.TableConfig{})
//	alice := table.AddPlayer("Alice", 1000)
//	_ = table.DealAgain()
//	table.IncreaseBet(alice.Seat)
//	_, _ = table.Hit(alice.Seat)
//	_, _ = table.Stand(alice.Seat)
//	results := table.LastResults()
//
// # Money
//
// Stakes are escrowed: raising a bet, doubling and splitting move units
// from the bank onto a hand. Settlement pays back the stake plus winnings,
// so a loss leaves the bank where it was after the bet and a push restores
// it. A bust is booked as a loss the moment it happens and is never booked
// again.
//
// # Deterministic Testing
//
// Use deck.NewStackedShoe to deal a fixed sequence, or NewTestTable with
// WithCards. Cards are dealt one to each player in seat order, then one to
// the dealer, twice.
package game
