package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
)

// Shoe is the table's card supply: a CardSource that also takes back the
// cards of finished rounds.
type Shoe interface {
	CardSource
	Discard(cards ...deck.Card)
	CardsRemaining() int
}

// DefaultStake is the stake escrowed for every player on each deal
const DefaultStake = 20

// TableConfig holds the house rules for a table
type TableConfig struct {
	DefaultStake int
	StandOn      int
	Payout       PayoutTable
	Logger       *log.Logger
}

func (c *TableConfig) applyDefaults() {
	if c.DefaultStake <= 0 {
		c.DefaultStake = DefaultStake
	}
	if c.StandOn <= 0 {
		c.StandOn = DefaultStandOn
	}
	if c.Payout.BlackjackNum == 0 && c.Payout.BlackjackDen == 0 {
		c.Payout = DefaultPayout
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Table owns everything a round touches: the players, the dealer and the
// shoe. Every action goes through it; nothing is global.
type Table struct {
	config   TableConfig
	shoe     Shoe
	eventBus EventBus
	logger   *log.Logger

	players []*Player
	dealer  *Dealer

	phase   Phase
	current int // Seat whose turn it is, -1 when nobody can act
	round   int
	roundID string
	results []HandResult
}

// NewTable creates a table with no players. Call DealAgain to start.
func NewTable(shoe Shoe, eventBus EventBus, config TableConfig) *Table {
	config.applyDefaults()
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &Table{
		config:   config,
		shoe:     shoe,
		eventBus: eventBus,
		logger:   config.Logger.WithPrefix("table"),
		dealer:   NewDealer(),
		phase:    Settlement,
		current:  -1,
	}
}

// AddPlayer seats a new player. Players seated mid-round wait for the next
// deal.
func (t *Table) AddPlayer(name string, bank int) *Player {
	p := NewPlayer(len(t.players), name, bank)
	t.players = append(t.players, p)
	t.logger.Debug("Player seated", "seat", p.Seat, "name", name, "bank", bank)
	return p
}

// Players returns the seated players in seat order
func (t *Table) Players() []*Player { return t.players }

// Player returns the player in a seat, or nil
func (t *Table) Player(seat int) *Player {
	if seat < 0 || seat >= len(t.players) {
		return nil
	}
	return t.players[seat]
}

// Dealer returns the dealer
func (t *Table) Dealer() *Dealer { return t.dealer }

// Phase returns the current lifecycle phase
func (t *Table) Phase() Phase { return t.phase }

// Round returns the number of rounds dealt so far
func (t *Table) Round() int { return t.round }

// RoundID returns the identifier of the current round
func (t *Table) RoundID() string { return t.roundID }

// Config returns the table's house rules
func (t *Table) Config() TableConfig { return t.config }

// EventBus returns the bus events are published on
func (t *Table) EventBus() EventBus { return t.eventBus }

// LastResults returns the results of the most recent settlement
func (t *Table) LastResults() []HandResult { return t.results }

// CurrentPlayer returns the player whose turn it is, or nil
func (t *Table) CurrentPlayer() *Player {
	if t.phase != Betting && t.phase != PlayerActions {
		return nil
	}
	return t.Player(t.current)
}

// DealAgain clears the table and deals a fresh round: each player gets the
// default stake escrowed and two cards, the dealer gets two cards, and
// betting reopens.
func (t *Table) DealAgain() error {
	if len(t.players) == 0 {
		return fmt.Errorf("no players seated")
	}

	t.voidUnsettled()
	for _, p := range t.players {
		t.shoe.Discard(p.discardHands()...)
	}
	t.shoe.Discard(t.dealer.discardHand()...)

	t.round++
	t.roundID = newRoundID()
	t.results = nil
	t.phase = Dealing

	for _, p := range t.players {
		stake := min(t.config.DefaultStake, max(p.Bank, 0))
		p.Bank -= stake
		p.Hands = append(p.Hands, NewHand(stake))
		p.Active = 0
		p.BettingOpen = true
	}

	for range 2 {
		for _, p := range t.players {
			card, err := t.shoe.Draw()
			if err != nil {
				return fmt.Errorf("deal round %d: %w", t.round, err)
			}
			p.Hands[0].Add(card)
		}
		card, err := t.shoe.Draw()
		if err != nil {
			return fmt.Errorf("deal round %d: %w", t.round, err)
		}
		t.dealer.Hand.Add(card)
	}

	for _, p := range t.players {
		CheckForBlackjackAndBust(p)
	}
	t.dealer.Hand.NormalizeAces()

	t.phase = Betting
	t.current = t.nextUndone(0)

	t.logger.Info("Round dealt", "round", t.round, "id", t.roundID, "players", len(t.players), "shoe", t.shoe.CardsRemaining())
	t.eventBus.Publish(NewRoundStartEvent(t.roundID, t.round, t.Snapshot()))
	return nil
}

// voidUnsettled returns the stakes of a round abandoned before settlement.
func (t *Table) voidUnsettled() {
	for _, p := range t.players {
		for _, h := range p.Hands {
			if !h.Settled && h.Bet > 0 {
				t.logger.Warn("Voiding unsettled hand", "player", p.Name, "bet", h.Bet)
				p.Bank += h.Bet
				h.Bet = 0
			}
		}
	}
}

// IncreaseBet raises a seat's stake by one unit while betting is open
func (t *Table) IncreaseBet(seat int) bool {
	return t.bet(seat, BetUp, IncreaseBet)
}

// DecreaseBet lowers a seat's stake by one unit while betting is open
func (t *Table) DecreaseBet(seat int) bool {
	return t.bet(seat, BetDown, DecreaseBet)
}

func (t *Table) bet(seat int, action Action, fn func(*Player) bool) bool {
	p := t.Player(seat)
	if p == nil || t.phase != Betting {
		return false
	}
	if !fn(p) {
		return false
	}
	t.publishAction(p, action, 0)
	return true
}

// CloseBetting ends the betting window and starts the action phase. The
// first hit, double, split or stand does this implicitly.
func (t *Table) CloseBetting() error {
	if t.phase != Betting {
		return nil
	}
	t.phase = PlayerActions
	for _, p := range t.players {
		p.BettingOpen = false
	}
	t.logger.Debug("Betting closed", "round", t.round)
	return t.advanceTurn()
}

// Hit draws a card for the seat's active hand
func (t *Table) Hit(seat int) (bool, error) {
	p, err := t.actor(seat)
	if p == nil || err != nil {
		return false, err
	}
	idx := p.Active
	ok, err := HitPlayer(p, t.shoe)
	if err != nil || !ok {
		return ok, err
	}
	t.publishAction(p, Hit, idx)
	return true, t.afterAction(p)
}

// Double doubles the stake on the seat's active hand
func (t *Table) Double(seat int) (bool, error) {
	p, err := t.actor(seat)
	if p == nil || err != nil {
		return false, err
	}
	if !DoubleBet(p) {
		return false, nil
	}
	t.publishAction(p, Double, p.Active)
	return true, nil
}

// Split splits the seat's active hand
func (t *Table) Split(seat int) (bool, error) {
	p, err := t.actor(seat)
	if p == nil || err != nil {
		return false, err
	}
	idx := p.Active
	ok, err := SplitHand(p, t.shoe)
	if err != nil || !ok {
		return ok, err
	}
	t.publishAction(p, Split, idx)
	return true, t.afterAction(p)
}

// Stand finishes the seat's active hand
func (t *Table) Stand(seat int) (bool, error) {
	p, err := t.actor(seat)
	if p == nil || err != nil {
		return false, err
	}
	idx := p.Active
	if !StandHand(p) {
		return false, nil
	}
	t.publishAction(p, Stand, idx)
	return true, t.afterAction(p)
}

// Act dispatches an action for a seat
func (t *Table) Act(seat int, action Action) (bool, error) {
	switch action {
	case BetUp:
		return t.IncreaseBet(seat), nil
	case BetDown:
		return t.DecreaseBet(seat), nil
	case Hit:
		return t.Hit(seat)
	case Double:
		return t.Double(seat)
	case Split:
		return t.Split(seat)
	case Stand:
		return t.Stand(seat)
	default:
		return false, fmt.Errorf("unknown action %d", action)
	}
}

// actor returns the player for a seat if it is that seat's turn, closing
// betting first when needed.
func (t *Table) actor(seat int) (*Player, error) {
	if t.phase == Betting {
		if t.current < 0 {
			// Every hand was decided on the deal; any action closes out.
			return nil, t.CloseBetting()
		}
		p := t.Player(seat)
		if p == nil || seat != t.current {
			t.logger.Debug("Action out of turn", "seat", seat, "current", t.current)
			return nil, nil
		}
		if err := t.CloseBetting(); err != nil {
			return nil, err
		}
	}
	if t.phase != PlayerActions || seat != t.current {
		t.logger.Debug("Action out of turn", "seat", seat, "current", t.current, "phase", t.phase)
		return nil, nil
	}
	return t.players[seat], nil
}

func (t *Table) afterAction(p *Player) error {
	if !p.IsDone() {
		return nil
	}
	return t.advanceTurn()
}

// advanceTurn hands the turn to the next seat with a hand in play, or runs
// the dealer and settles when there is none.
func (t *Table) advanceTurn() error {
	t.current = t.nextUndone(max(t.current, 0))
	if t.current >= 0 {
		return nil
	}
	return t.finishRound()
}

func (t *Table) nextUndone(from int) int {
	for i := from; i < len(t.players); i++ {
		if !t.players[i].IsDone() {
			return i
		}
	}
	return -1
}

// finishRound plays the dealer out and settles every hand.
func (t *Table) finishRound() error {
	t.phase = DealerTurn
	if err := DealerStand(t.dealer, t.shoe, t.config.StandOn); err != nil {
		return fmt.Errorf("round %d: %w", t.round, err)
	}
	t.logger.Debug("Dealer finished", "hand", t.dealer.Hand.String(), "status", t.dealer.Status)
	t.eventBus.Publish(NewDealerPlayEvent(t.roundID, t.dealer))

	results, ok := CheckForWinner(t.players, t.dealer, t.config.Payout)
	if !ok {
		return fmt.Errorf("round %d: settlement attempted with hands still in play", t.round)
	}
	t.phase = Settlement
	t.results = results

	for _, r := range results {
		t.logger.Info("Hand settled", "player", r.Player, "hand", r.HandIndex, "value", r.Value,
			"dealer", r.DealerValue, "outcome", r.Outcome, "delta", r.Delta)
	}
	t.eventBus.Publish(NewRoundEndEvent(t.roundID, results))
	return nil
}

func (t *Table) publishAction(p *Player, action Action, handIndex int) {
	t.logger.Debug("Player action", "player", p.Name, "action", action, "hand", handIndex, "bank", p.Bank)
	t.eventBus.Publish(NewPlayerActionEvent(t.roundID, p, action, handIndex))
}

func newRoundID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// PlayerSnapshot is a read-only copy of a player
type PlayerSnapshot struct {
	Seat        int
	Name        string
	Bank        int
	Bet         int
	Active      int
	BettingOpen bool
	Done        bool
	Hands       []Hand
}

// DealerSnapshot is a read-only copy of the dealer. While players are still
// acting only the up card is shown.
type DealerSnapshot struct {
	Cards      []deck.Card
	HoleHidden bool
	Value      int
	Status     DealerStatus
}

// TableSnapshot is a read-only copy of the table for UIs and the server
type TableSnapshot struct {
	RoundID        string
	Round          int
	Phase          Phase
	Current        int
	Players        []PlayerSnapshot
	Dealer         DealerSnapshot
	Results        []HandResult
	CardsRemaining int
}

// Snapshot copies the visible table state
func (t *Table) Snapshot() TableSnapshot {
	snap := TableSnapshot{
		RoundID:        t.roundID,
		Round:          t.round,
		Phase:          t.phase,
		Current:        -1,
		Results:        append([]HandResult(nil), t.results...),
		CardsRemaining: t.shoe.CardsRemaining(),
	}
	if p := t.CurrentPlayer(); p != nil {
		snap.Current = p.Seat
	}

	for _, p := range t.players {
		ps := PlayerSnapshot{
			Seat:        p.Seat,
			Name:        p.Name,
			Bank:        p.Bank,
			Bet:         p.Bet(),
			Active:      p.Active,
			BettingOpen: p.BettingOpen,
			Done:        p.IsDone(),
		}
		for _, h := range p.Hands {
			ps.Hands = append(ps.Hands, h.clone())
		}
		snap.Players = append(snap.Players, ps)
	}

	cards := t.dealer.Hand.Cards
	hidden := (t.phase == Betting || t.phase == PlayerActions) && len(cards) > 1
	if hidden {
		cards = cards[:1]
	}
	snap.Dealer = DealerSnapshot{
		Cards:      append([]deck.Card(nil), cards...),
		HoleHidden: hidden,
		Value:      HandValue(cards),
		Status:     t.dealer.Status,
	}
	return snap
}
