package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

// SimulateCmd plays many rounds with bots and summarises the results
type SimulateCmd struct {
	Rounds   int           `short:"n" default:"100000" help:"Rounds to play"`
	Seats    int           `default:"1" help:"Bots at the table"`
	Workers  int           `help:"Parallel workers (default: CPUs, up to 8)"`
	Strategy string        `default:"chart" enum:"chart,rand" help:"Bot strategy (chart or rand)"`
	Timeout  time.Duration `help:"Stop after this long"`
	Output   string        `short:"o" type:"path" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	seed := cfg.Shoe.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Simulating", "rounds", c.Rounds, "seats", c.Seats, "strategy", c.Strategy, "seed", seed)

	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Workers:  c.Workers,
		Seats:    c.Seats,
		Strategy: c.Strategy,
		Seed:     seed,
		Stake:    cfg.Table.Stake,
		StandOn:  cfg.Table.StandOn,
		Payout:   cfg.Payout(),
		Policy:   cfg.Policy(),
		Timeout:  c.Timeout,
		Logger:   logger,
	})

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Playing %d rounds", c.Rounds))
	start := time.Now()
	stats, err := sim.Run(context.Background())
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Played %d rounds in %s", stats.Rounds, time.Since(start).Round(time.Millisecond)))

	if err := printSummary(stats, sim.Config()); err != nil {
		return err
	}

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, simulator.NewReport(stats, sim.Config())); err != nil {
			return err
		}
		pterm.Info.Printfln("Report written to %s", c.Output)
	}
	return nil
}

func printSummary(stats *statistics.Statistics, cfg simulator.Config) error {
	low, high := stats.ConfidenceInterval95()
	data := pterm.TableData{
		{"Metric", "Value"},
		{"Rounds", fmt.Sprint(stats.Rounds)},
		{"Hands", fmt.Sprint(stats.Hands)},
		{"Payout", cfg.Payout.String()},
		{"Mean per round", fmt.Sprintf("%.4f", stats.Mean())},
		{"Std dev", fmt.Sprintf("%.4f", stats.StdDev())},
		{"95% CI", fmt.Sprintf("[%.4f, %.4f]", low, high)},
		{"House edge", fmt.Sprintf("%.3f%%", stats.HouseEdge())},
		{"Win rate", fmt.Sprintf("%.2f%%", stats.WinRate()*100)},
		{"Wins / losses / pushes", fmt.Sprintf("%d / %d / %d", stats.Wins, stats.Losses, stats.Pushes)},
		{"Blackjacks", fmt.Sprint(stats.Blackjacks)},
		{"Busts", fmt.Sprint(stats.Busts)},
		{"Doubles", fmt.Sprint(stats.Doubles)},
		{"Rounds with splits", fmt.Sprint(stats.SplitRounds)},
	}

	pterm.DefaultSection.Println("Results")
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}
