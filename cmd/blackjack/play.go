package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs a local table in the terminal
type PlayCmd struct {
	Players []string `arg:"" optional:"" help:"Names of the human players (defaults to the config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger := newLogger(logFile, cfg).WithPrefix("play")

	players := c.Players
	if len(players) == 0 {
		players = cfg.Table.Players
	}

	shoe := deck.NewShoe(randutil.FromSeed(cfg.Shoe.Seed), cfg.Policy())
	table := game.NewTable(shoe, nil, cfg.TableConfig(logger))
	for _, name := range players {
		table.AddPlayer(name, cfg.Table.Bank)
	}

	bots := make(map[int]bot.Bot)
	for i, bc := range cfg.Bots {
		b, err := bot.New(bc.Strategy, randutil.Derive(cfg.Shoe.Seed, i), logger)
		if err != nil {
			return err
		}
		p := table.AddPlayer(bc.Name, bc.Bank)
		bots[p.Seat] = b
	}
	logger.Info("Starting local table", "players", len(players), "bots", len(bots), "payout", cfg.Table.BlackjackPayout)

	model := tui.NewTUIModel(table, tui.Options{Bots: bots, Logger: logger})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
