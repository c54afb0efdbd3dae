// Package simulator plays many rounds with bots and collects statistics.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// simulated players never run dry, so results are not skewed by stakes
// shrinking to zero
const simulatedBank = 1 << 30

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Workers  int
	Seats    int
	Strategy string // "chart" or "rand"
	Seed     int64
	Stake    int
	StandOn  int
	Payout   game.PayoutTable
	Policy   deck.ExhaustionPolicy
	Timeout  time.Duration
	Logger   *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = min(runtime.NumCPU(), 8)
	}
	if c.Workers > c.Rounds && c.Rounds > 0 {
		c.Workers = c.Rounds
	}
	if c.Seats <= 0 {
		c.Seats = 1
	}
	if c.Strategy == "" {
		c.Strategy = "chart"
	}
	if c.Stake <= 0 {
		c.Stake = game.DefaultStake
	}
	if c.Payout == (game.PayoutTable{}) {
		c.Payout = game.DefaultPayout
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	config.applyDefaults()
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// Config returns the effective configuration
func (s *Simulator) Config() Config { return s.config }

// Run plays the configured number of rounds split across workers. Each
// worker owns its own table and shoe seeded from the run seed, so a run is
// reproducible for a given seed and worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if _, err := bot.New(s.config.Strategy, 0, s.logger); err != nil {
		return nil, err
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	workers := s.config.Workers
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	results := make([]*statistics.Statistics, workers)
	g, ctx := errgroup.WithContext(ctx)

	for w := range workers {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := randutil.Derive(s.config.Seed, w)

		g.Go(func() error {
			stats, err := s.runWorker(ctx, w, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d (seed %d): %w", w, seed, err)
			}
			results[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, r := range results {
		total.Merge(r)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "rounds", total.Rounds, "hands", total.Hands, "mean", total.Mean())
	return total, nil
}

func (s *Simulator) runWorker(ctx context.Context, id int, seed int64, rounds int) (*statistics.Statistics, error) {
	logger := s.logger.With("worker", id)
	player, err := bot.New(s.config.Strategy, seed, logger)
	if err != nil {
		return nil, err
	}

	shoe := deck.NewShoe(randutil.New(seed), s.config.Policy)
	table := game.NewTable(shoe, nil, game.TableConfig{
		DefaultStake: s.config.Stake,
		StandOn:      s.config.StandOn,
		Payout:       s.config.Payout,
		Logger:       logger,
	})
	for i := range s.config.Seats {
		table.AddPlayer(fmt.Sprintf("Bot%d", i+1), simulatedBank)
	}

	stats := &statistics.Statistics{}
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped after %d rounds: %w", round, err)
		}
		if err := table.DealAgain(); err != nil {
			return nil, err
		}
		for table.Phase() != game.Settlement {
			if err := bot.PlayTurn(table, player); err != nil {
				return nil, fmt.Errorf("round %d: %w", table.Round(), err)
			}
		}
		for _, r := range RoundResults(table.LastResults(), s.config.Stake, seed) {
			stats.Add(r)
		}
	}
	return stats, nil
}

// RoundResults converts a table's settled hands into one result per seat,
// measured in units of stake.
func RoundResults(hands []game.HandResult, stake int, seed int64) []statistics.RoundResult {
	var out []statistics.RoundResult
	index := make(map[int]int)
	for _, h := range hands {
		i, ok := index[h.Seat]
		if !ok {
			i = len(out)
			index[h.Seat] = i
			out = append(out, statistics.RoundResult{Seat: h.Seat, Seed: seed})
		}
		net := float64(h.Delta) / float64(stake)
		out[i].Net += net
		out[i].Hands = append(out[i].Hands, statistics.HandResult{
			Outcome: h.Outcome,
			Net:     net,
			Bust:    h.Value > game.Blackjack21,
			Doubled: h.Bet > stake,
		})
	}
	return out
}

// Report is the JSON summary of a simulation run
type Report struct {
	Rounds       int             `json:"rounds"`
	Hands        int             `json:"hands"`
	Seed         int64           `json:"seed"`
	Strategy     string          `json:"strategy"`
	Payout       string          `json:"payout"`
	Mean         float64         `json:"mean"`
	Median       float64         `json:"median"`
	StdDev       float64         `json:"stddev"`
	CI95         [2]float64      `json:"ci95"`
	HouseEdgePct float64         `json:"house_edge_pct"`
	Outcomes     map[string]int  `json:"outcomes"`
	Seats        map[int]float64 `json:"seat_means"`
	Generated    time.Time       `json:"generated"`
}

// NewReport summarises statistics for a run
func NewReport(stats *statistics.Statistics, cfg Config) Report {
	low, high := stats.ConfidenceInterval95()
	r := Report{
		Rounds:       stats.Rounds,
		Hands:        stats.Hands,
		Seed:         cfg.Seed,
		Strategy:     cfg.Strategy,
		Payout:       cfg.Payout.String(),
		Mean:         stats.Mean(),
		Median:       stats.Median(),
		StdDev:       stats.StdDev(),
		CI95:         [2]float64{low, high},
		HouseEdgePct: stats.HouseEdge(),
		Outcomes: map[string]int{
			game.Win.String():          stats.Wins,
			game.Loss.String():         stats.Losses,
			game.Push.String():         stats.Pushes,
			game.BlackjackWin.String(): stats.Blackjacks,
			"bust":                     stats.Busts,
			"double":                   stats.Doubles,
			"split_rounds":             stats.SplitRounds,
		},
		Seats:     make(map[int]float64),
		Generated: time.Now().UTC(),
	}
	for seat := range stats.SeatResults {
		r.Seats[seat] = stats.SeatMean(seat)
	}
	return r
}

// WriteReport writes a report as indented JSON, atomically
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := fileutil.EnsureDir(path); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
