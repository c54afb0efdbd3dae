package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("rand-bot")}
}

func (r *RandBot) MakeDecision(s Situation) Decision {
	actions := []game.Action{game.Hit, game.Stand}
	if s.CanDouble() {
		actions = append(actions, game.Double)
	}
	if s.CanSplit() {
		actions = append(actions, game.Split)
	}

	action := actions[r.rng.IntN(len(actions))]
	r.logger.Debug("Decision", "hand", s.Hand.String(), "action", action)
	return Decision{Action: action, Reasoning: "rand-bot random action"}
}
