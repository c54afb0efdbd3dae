// Package tui is the terminal front end for a local blackjack table.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Options configures a TUI model
type Options struct {
	Bots     map[int]bot.Bot // Seats played automatically
	Logger   *log.Logger
	TestMode bool
}

// TUIModel is the Bubble Tea model for a local table. Every seat without a
// bot is played from the keyboard.
type TUIModel struct {
	table   *game.Table
	bots    map[int]bot.Bot
	advisor *bot.ChartBot
	logger  *log.Logger

	// UI components
	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	// State
	gameLog  []string
	status   string
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewTUIModel creates a model driving the given table
func NewTUIModel(table *game.Table, opts Options) *TUIModel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Bots == nil {
		opts.Bots = map[int]bot.Bot{}
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &TUIModel{
		table:       table,
		bots:        opts.Bots,
		advisor:     bot.NewChartBot(opts.Logger),
		logger:      opts.Logger.WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		logViewport: vp,
		testMode:    opts.TestMode,
		status:      "Press n to deal",
	}
	table.EventBus().Subscribe(game.EventSubscriberFunc(m.onEvent))
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.BetUp):
			m.bet(true)
		case key.Matches(msg, m.keys.BetDown):
			m.bet(false)
		case key.Matches(msg, m.keys.Hit):
			m.act(game.Hit)
		case key.Matches(msg, m.keys.Double):
			m.act(game.Double)
		case key.Matches(msg, m.keys.Split):
			m.act(game.Split)
		case key.Matches(msg, m.keys.Stand):
			m.act(game.Stand)
		case key.Matches(msg, m.keys.Deal):
			m.deal()
		case key.Matches(msg, m.keys.Hint):
			m.hint()
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.HalfPageUp()
		case key.Matches(msg, m.keys.ScrollDn):
			m.logViewport.HalfPageDown()
		}
	}
	return m, nil
}

// Status returns the line shown under the table
func (m *TUIModel) Status() string {
	return m.status
}

func (m *TUIModel) isBot(seat int) bool {
	_, ok := m.bots[seat]
	return ok
}

func (m *TUIModel) hasHumans() bool {
	for _, p := range m.table.Players() {
		if !m.isBot(p.Seat) {
			return true
		}
	}
	return false
}

// humanSeat is the seat the keyboard acts for: the current seat when a
// human holds it, otherwise the first human still holding a hand.
func (m *TUIModel) humanSeat() int {
	if p := m.table.CurrentPlayer(); p != nil && !m.isBot(p.Seat) {
		return p.Seat
	}
	for _, p := range m.table.Players() {
		if !m.isBot(p.Seat) && !p.IsDone() {
			return p.Seat
		}
	}
	return -1
}

func (m *TUIModel) deal() {
	if m.table.Phase() != game.Settlement {
		m.status = "Finish the round first"
		return
	}
	if err := m.table.DealAgain(); err != nil {
		m.fail(err)
		return
	}
	m.status = "Adjust your bet with ↑/↓, then play"
	m.autoplay()
}

func (m *TUIModel) bet(up bool) {
	seat := m.humanSeat()
	if seat < 0 || m.table.Phase() != game.Betting {
		m.status = "Betting is closed"
		return
	}
	var ok bool
	if up {
		ok = m.table.IncreaseBet(seat)
	} else {
		ok = m.table.DecreaseBet(seat)
	}
	if !ok {
		m.status = "Can't change the bet"
		return
	}
	m.status = fmt.Sprintf("Bet %d", m.table.Player(seat).Bet())
}

func (m *TUIModel) act(action game.Action) {
	if m.table.Phase() == game.Betting {
		if p := m.table.CurrentPlayer(); p == nil || m.isBot(p.Seat) {
			// Bots ahead of the humans play once betting closes
			if err := m.table.CloseBetting(); err != nil {
				m.fail(err)
				return
			}
			m.autoplay()
		}
	}

	p := m.table.CurrentPlayer()
	if p == nil || m.isBot(p.Seat) {
		m.status = "Nothing to play; press n to deal"
		return
	}

	ok, err := m.table.Act(p.Seat, action)
	switch {
	case err != nil:
		m.fail(err)
		return
	case !ok:
		m.status = fmt.Sprintf("Can't %s now", action)
		return
	case action == game.Double:
		m.status = "Doubled; hit to take your card"
	default:
		m.status = ""
	}
	m.autoplay()
}

// autoplay runs bot seats until a human has to act or the round settles.
// While betting is open bots wait, unless nobody else is at the table.
func (m *TUIModel) autoplay() {
	for {
		p := m.table.CurrentPlayer()
		if p == nil {
			if m.table.Phase() == game.Betting {
				if err := m.table.CloseBetting(); err != nil {
					m.fail(err)
					return
				}
				continue
			}
			return
		}
		b, ok := m.bots[p.Seat]
		if !ok || (m.table.Phase() == game.Betting && m.hasHumans()) {
			return
		}
		if err := bot.PlayTurn(m.table, b); err != nil {
			m.fail(err)
			return
		}
	}
}

func (m *TUIModel) hint() {
	p := m.table.CurrentPlayer()
	if p == nil || m.isBot(p.Seat) {
		m.status = "No hand to advise on"
		return
	}
	s, ok := bot.SituationFor(p, m.table.Dealer())
	if !ok {
		m.status = "No hand to advise on"
		return
	}
	d := m.advisor.MakeDecision(s)
	m.status = fmt.Sprintf("Basic strategy: %s (%s)", d.Action, d.Reasoning)
}

func (m *TUIModel) fail(err error) {
	m.logger.Error("Table error", "error", err)
	m.status = "Error: " + err.Error()
}

// onEvent turns table events into log lines
func (m *TUIModel) onEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		m.AddBoldLogEntry(fmt.Sprintf("Round %d", e.Round))
	case game.PlayerActionEvent:
		switch e.Action {
		case game.BetUp, game.BetDown:
			// Too noisy to log each unit
		case game.Double:
			m.AddLogEntry(fmt.Sprintf("%s doubles to %d", e.Player, e.Hand.Bet))
		default:
			m.AddLogEntry(fmt.Sprintf("%s %ss: %s = %d", e.Player, e.Action, FormatCards(e.Hand.Cards), e.Hand.Value()))
		}
	case game.DealerPlayEvent:
		line := fmt.Sprintf("Dealer: %s = %d", FormatCards(e.Hand.Cards), e.Hand.Value())
		if e.Status == game.DealerBust {
			line += " " + LossStyle.Render("bust")
		}
		m.AddLogEntry(line)
	case game.RoundEndEvent:
		for _, r := range e.Results {
			m.AddLogEntry(fmt.Sprintf("%s hand %d: %s", r.Player, r.HandIndex+1, resultText(r)))
		}
	}
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddBoldLogEntry adds a bold separator entry to the game log
func (m *TUIModel) AddBoldLogEntry(entry string) {
	m.AddLogEntry(lipgloss.NewStyle().Bold(true).Render("── " + entry + " ──"))
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.table.Snapshot()
	header := HeaderStyle.Width(m.width).Render(
		fmt.Sprintf("Blackjack  round %d  %s  shoe %d", snap.Round, snap.Phase, snap.CardsRemaining))

	tableContent := m.renderTable(snap)
	tableWidth := max(m.width-2, 1)
	tablePane := PaneStyle.Width(tableWidth).Render(tableContent)

	status := HandInfoStyle.Render(m.status)
	helpView := m.help.View(m.keys)

	used := lipgloss.Height(header) + lipgloss.Height(tablePane) + lipgloss.Height(status) + lipgloss.Height(helpView) + 2
	m.logViewport.Width = tableWidth
	m.logViewport.Height = max(m.height-used, 1)
	if !m.initialized {
		m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := PaneStyle.Width(tableWidth).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, tablePane, logPane, status, helpView)
}

// renderTable draws the dealer and every seat
func (m *TUIModel) renderTable(snap game.TableSnapshot) string {
	var b strings.Builder

	cards := FormatCards(snap.Dealer.Cards)
	if snap.Dealer.HoleHidden {
		cards = strings.TrimSuffix(cards, "]") + " " + HiddenCardStyle.Render("??") + "]"
	}
	fmt.Fprintf(&b, "Dealer  %s", cards)
	if len(snap.Dealer.Cards) > 0 {
		fmt.Fprintf(&b, "  %d", snap.Dealer.Value)
	}
	b.WriteString("\n\n")

	for _, p := range snap.Players {
		who := p.Name
		if m.isBot(p.Seat) {
			who += InfoStyle.Render(" (bot)")
		}
		fmt.Fprintf(&b, "%s  bank %d\n", who, p.Bank)
		for i, h := range p.Hands {
			line := fmt.Sprintf("  %s %d  bet %d  %s", FormatCards(h.Cards), h.Value(), h.Bet, formatHandState(h))
			if p.Seat == snap.Current && i == p.Active {
				line = ActiveHandStyle.Render("▶") + line[1:]
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHandState(h game.Hand) string {
	if h.Settled {
		return formatDelta(h.Outcome, h.Delta)
	}
	if h.Status == game.Active {
		return ""
	}
	return InfoStyle.Render(h.Status.String())
}

func formatDelta(o game.Outcome, delta int) string {
	switch {
	case o.IsWin():
		return WinStyle.Render(fmt.Sprintf("+%d", delta))
	case o == game.Loss:
		return LossStyle.Render(fmt.Sprintf("%d", delta))
	default:
		return PushStyle.Render("push")
	}
}

func resultText(r game.HandResult) string {
	switch r.Outcome {
	case game.Push:
		return PushStyle.Render("push")
	case game.BlackjackWin:
		return "blackjack " + formatDelta(r.Outcome, r.Delta)
	default:
		return r.Outcome.String() + " " + formatDelta(r.Outcome, r.Delta)
	}
}

// FormatCards formats cards with colors
func FormatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
