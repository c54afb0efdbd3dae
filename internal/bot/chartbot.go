package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// ChartBot plays single deck basic strategy for a dealer who stands on
// all 17s.
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger.WithPrefix("chart-bot")}
}

func (c *ChartBot) MakeDecision(s Situation) Decision {
	action, why := advise(&s.Hand, s.DealerUp, s.CanDouble(), s.CanSplit())
	c.logger.Debug("Decision", "hand", s.Hand.String(), "up", s.DealerUp, "action", action, "why", why)
	return Decision{Action: action, Reasoning: why}
}

// Advise returns the basic strategy play for a hand against the dealer's up
// card. When the chart says double but doubling is not on offer it hits,
// except soft 18 which stands.
func Advise(h *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) game.Action {
	action, _ := advise(h, dealerUp, canDouble, canSplit)
	return action
}

func advise(h *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) (game.Action, string) {
	up := dealerUp.Points()

	if canSplit && len(h.Cards) == 2 && splitPair(h.Cards[0].Points(), up) {
		return game.Split, "pair splits"
	}

	total := h.Value()
	if h.IsSoft() {
		return softTotal(total, up, canDouble)
	}
	return hardTotal(total, up, canDouble)
}

// splitPair is the pair chart, keyed on the nominal value of one card.
func splitPair(pair, up int) bool {
	switch pair {
	case 11, 8:
		return true
	case 9:
		return up != 7 && up != 10 && up != 11
	case 7, 3, 2:
		return up <= 7
	case 6:
		return up <= 6
	case 4:
		return up == 5 || up == 6
	default:
		return false
	}
}

func softTotal(total, up int, canDouble bool) (game.Action, string) {
	switch {
	case total >= 19:
		return game.Stand, "soft 19 or better"
	case total == 18:
		switch {
		case up >= 3 && up <= 6 && canDouble:
			return game.Double, "soft 18 against a weak dealer"
		case up <= 8:
			return game.Stand, "soft 18"
		default:
			return game.Hit, "soft 18 against a strong dealer"
		}
	case total == 17:
		return doubleOr(canDouble && up >= 3 && up <= 6, "soft 17")
	case total >= 15:
		return doubleOr(canDouble && up >= 4 && up <= 6, "soft 15 or 16")
	default:
		return doubleOr(canDouble && up >= 5 && up <= 6, "soft 13 or 14")
	}
}

func hardTotal(total, up int, canDouble bool) (game.Action, string) {
	switch {
	case total >= 17:
		return game.Stand, "hard 17 or better"
	case total >= 13:
		if up <= 6 {
			return game.Stand, "stiff hand against a bust card"
		}
		return game.Hit, "stiff hand against a strong dealer"
	case total == 12:
		if up >= 4 && up <= 6 {
			return game.Stand, "12 against a bust card"
		}
		return game.Hit, "12"
	case total == 11:
		return doubleOr(canDouble, "11")
	case total == 10:
		return doubleOr(canDouble && up <= 9, "10")
	case total == 9:
		return doubleOr(canDouble && up >= 3 && up <= 6, "9")
	default:
		return game.Hit, "8 or less"
	}
}

func doubleOr(double bool, label string) (game.Action, string) {
	if double {
		return game.Double, label + ", double"
	}
	return game.Hit, label + ", hit"
}
