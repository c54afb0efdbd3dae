package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
)

var (
	ErrTableFull   = errors.New("table is full")
	ErrNotSeated   = errors.New("player is not seated")
	ErrNameTaken   = errors.New("name already seated")
	ErrRoundActive = errors.New("round in progress")
)

// SeatedBot is a bot that holds a seat for the life of the server
type SeatedBot struct {
	Name string
	Bank int
	Bot  bot.Bot
}

// ServiceConfig configures a GameService
type ServiceConfig struct {
	Table         game.TableConfig
	Shoe          game.Shoe
	Bots          []SeatedBot
	Bank          int // Default bank for joining players
	MaxPlayers    int
	ActionTimeout time.Duration
	Clock         quartz.Clock
	Logger        *log.Logger
}

// GameService owns the single table and serialises every change to it.
// Bots and vacated seats are played automatically; a seated human who
// lets the action timer run out is stood.
type GameService struct {
	mu         sync.Mutex
	table      *game.Table
	clock      quartz.Clock
	timeout    time.Duration
	bank       int
	maxPlayers int
	logger     *log.Logger

	bots   map[int]bot.Bot
	owners map[int]string // seat -> player ID, humans only
	seats  map[string]int // player ID -> seat

	timer *quartz.Timer
	gen   uint64

	outbox    []*Message
	broadcast func(*Message)
}

// NewGameService creates a game service with the configured bots seated
func NewGameService(cfg ServiceConfig) *GameService {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = 5
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 30 * time.Second
	}
	cfg.Table.Logger = cfg.Logger

	gs := &GameService{
		clock:      cfg.Clock,
		timeout:    cfg.ActionTimeout,
		bank:       cfg.Bank,
		maxPlayers: cfg.MaxPlayers,
		logger:     cfg.Logger.WithPrefix("game"),
		bots:       make(map[int]bot.Bot),
		owners:     make(map[int]string),
		seats:      make(map[string]int),
		broadcast:  func(*Message) {},
	}

	bus := game.NewEventBus()
	bus.Subscribe(game.EventSubscriberFunc(gs.onEvent))
	gs.table = game.NewTable(cfg.Shoe, bus, cfg.Table)

	for _, b := range cfg.Bots {
		p := gs.table.AddPlayer(b.Name, b.Bank)
		gs.bots[p.Seat] = b.Bot
		gs.logger.Info("Bot seated", "seat", p.Seat, "name", b.Name)
	}
	return gs
}

// SetBroadcaster sets where table updates are sent
func (gs *GameService) SetBroadcaster(fn func(*Message)) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.broadcast = fn
}

// Join seats a player, reusing a vacated seat when one exists. It returns
// the player ID and seat.
func (gs *GameService) Join(name string, bank int) (string, int, error) {
	if name == "" {
		return "", 0, fmt.Errorf("player name required")
	}
	if bank <= 0 {
		bank = gs.bank
	}

	gs.mu.Lock()
	defer gs.unlockAndFlush()

	for seat, owner := range gs.owners {
		if gs.table.Player(seat).Name == name && owner != "" {
			return "", 0, ErrNameTaken
		}
	}
	for _, p := range gs.table.Players() {
		if _, isBot := gs.bots[p.Seat]; isBot && p.Name == name {
			return "", 0, ErrNameTaken
		}
	}

	id := uuid.NewString()[:8]
	seat := gs.vacantSeat()
	if seat >= 0 {
		// A vacated seat keeps its bank; the newcomer takes it over.
		gs.table.Player(seat).Name = name
	} else {
		if len(gs.table.Players()) >= gs.maxPlayers {
			return "", 0, ErrTableFull
		}
		seat = gs.table.AddPlayer(name, bank).Seat
	}

	gs.owners[seat] = id
	gs.seats[id] = seat
	gs.logger.Info("Player joined", "player", name, "id", id, "seat", seat)
	gs.queueState()
	gs.drive()
	return id, seat, nil
}

func (gs *GameService) vacantSeat() int {
	for _, p := range gs.table.Players() {
		if _, isBot := gs.bots[p.Seat]; isBot {
			continue
		}
		if gs.owners[p.Seat] == "" {
			return p.Seat
		}
	}
	return -1
}

// Leave vacates a player's seat. Hands left in play are stood for them.
func (gs *GameService) Leave(playerID string) error {
	gs.mu.Lock()
	defer gs.unlockAndFlush()

	seat, ok := gs.seats[playerID]
	if !ok {
		return ErrNotSeated
	}
	delete(gs.seats, playerID)
	delete(gs.owners, seat)
	gs.logger.Info("Player left", "id", playerID, "seat", seat)

	gs.drive()
	gs.queueState()
	return nil
}

// Act applies an action for the player's seat
func (gs *GameService) Act(playerID string, action game.Action) (bool, error) {
	gs.mu.Lock()
	defer gs.unlockAndFlush()

	seat, ok := gs.seats[playerID]
	if !ok {
		return false, ErrNotSeated
	}

	acted, err := gs.table.Act(seat, action)
	if err != nil {
		return acted, err
	}
	if acted && action != game.BetUp && action != game.BetDown {
		gs.drive()
	}
	gs.queueState()
	return acted, nil
}

// Deal starts the next round. Any seated player may deal once the previous
// round has settled.
func (gs *GameService) Deal(playerID string) error {
	gs.mu.Lock()
	defer gs.unlockAndFlush()

	if _, ok := gs.seats[playerID]; !ok {
		return ErrNotSeated
	}
	return gs.deal()
}

func (gs *GameService) deal() error {
	if gs.table.Phase() != game.Settlement {
		return ErrRoundActive
	}
	if err := gs.table.DealAgain(); err != nil {
		return err
	}
	gs.drive()
	gs.queueState()
	return nil
}

// Snapshot returns the current table state
func (gs *GameService) Snapshot() game.TableSnapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.table.Snapshot()
}

// Seat returns the seat held by a player ID
func (gs *GameService) Seat(playerID string) (int, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	seat, ok := gs.seats[playerID]
	return seat, ok
}

// drive plays every seat nobody is controlling until a human is to act or
// the round has settled, then arms the action timer. Callers hold mu.
func (gs *GameService) drive() {
	gs.stopTimer()

	for {
		p := gs.table.CurrentPlayer()
		if p == nil {
			if gs.table.Phase() == game.Betting {
				// Every hand was decided on the deal
				gs.check(gs.table.CloseBetting())
				continue
			}
			return
		}

		if gs.owners[p.Seat] != "" {
			gs.armTimer(p.Seat)
			return
		}

		if gs.table.Phase() == game.Betting && gs.humansSeated() {
			// Give the humans the betting window before a bot closes it
			gs.armTimer(p.Seat)
			return
		}

		if b, isBot := gs.bots[p.Seat]; isBot {
			if !gs.check(bot.PlayTurn(gs.table, b)) {
				return
			}
			continue
		}

		if !gs.standFor(p.Seat) {
			return
		}
	}
}

// standFor stands the seat's active hand. It reports whether play moved on.
func (gs *GameService) standFor(seat int) bool {
	acted, err := gs.table.Stand(seat)
	if !gs.check(err) {
		return false
	}
	return acted || gs.table.CurrentPlayer() == nil || gs.table.CurrentPlayer().Seat != seat
}

func (gs *GameService) humansSeated() bool {
	return len(gs.owners) > 0
}

func (gs *GameService) check(err error) bool {
	if err == nil {
		return true
	}
	gs.logger.Error("Table error", "round", gs.table.Round(), "error", err)
	gs.queue(MessageTypeError, ErrorData{Code: "table_error", Message: err.Error()})
	return false
}

func (gs *GameService) armTimer(seat int) {
	gs.gen++
	gen, round := gs.gen, gs.table.Round()
	gs.timer = gs.clock.AfterFunc(gs.timeout, func() {
		gs.onTimeout(gen, round, seat)
	})
}

func (gs *GameService) stopTimer() {
	if gs.timer != nil {
		gs.timer.Stop()
		gs.timer = nil
	}
	gs.gen++
}

func (gs *GameService) onTimeout(gen uint64, round, seat int) {
	gs.mu.Lock()
	defer gs.unlockAndFlush()

	p := gs.table.CurrentPlayer()
	if gen != gs.gen || round != gs.table.Round() || p == nil || p.Seat != seat {
		return
	}
	gs.timer = nil

	if gs.owners[seat] == "" && gs.table.Phase() == game.Betting {
		gs.logger.Debug("Betting window closed", "round", round)
		gs.check(gs.table.CloseBetting())
	} else {
		gs.logger.Info("Action timed out", "seat", seat, "player", p.Name)
		gs.queue(MessageTypeTimeout, TimeoutData{Seat: seat, Player: p.Name, Action: game.Stand.String()})
		gs.standFor(seat)
	}
	gs.drive()
	gs.queueState()
}

// onEvent runs synchronously inside table calls, so mu is already held.
func (gs *GameService) onEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		gs.logger.Debug("Round started", "round", e.Round, "id", e.RoundID)
	case game.PlayerActionEvent:
		gs.logger.Debug("Action", "seat", e.Seat, "action", e.Action, "hand", e.HandIndex)
	case game.RoundEndEvent:
		gs.queue(MessageTypeRoundEnd, RoundEndData{RoundID: e.RoundID, Results: resultsData(e.Results)})
	}
}

func (gs *GameService) queueState() {
	gs.queue(MessageTypeState, StateFromSnapshot(gs.table.Snapshot()))
}

func (gs *GameService) queue(t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		gs.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	gs.outbox = append(gs.outbox, msg)
}

// unlockAndFlush releases mu and then sends everything queued while it
// was held.
func (gs *GameService) unlockAndFlush() {
	out, send := gs.outbox, gs.broadcast
	gs.outbox = nil
	gs.mu.Unlock()

	for _, msg := range out {
		send(msg)
	}
}
