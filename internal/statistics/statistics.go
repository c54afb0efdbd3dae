// Package statistics accumulates per-round results from simulations.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// HandResult is one settled hand inside a round
type HandResult struct {
	Outcome game.Outcome
	Net     float64 // Net units for this hand, in default stakes
	Bust    bool
	Doubled bool
}

// RoundResult is the outcome of a single round for the tracked seat
type RoundResult struct {
	Net   float64 // Net units won or lost, in default stakes
	Seed  int64   // Seed of the shoe that dealt the round, for replay
	Seat  int
	Hands []HandResult
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Rounds int
	SumNet float64
}

// Statistics tracks simulation statistics. Net values are measured in
// default stakes, so +1.5 is a blackjack paid at 3:2.
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Every round's net, for median and percentiles

	Hands       int
	Wins        int
	Losses      int
	Pushes      int
	Blackjacks  int
	Busts       int
	Doubles     int
	SplitRounds int
	OutcomeNet  map[game.Outcome]float64 // Net by outcome, sums to AllNet
	AllNet      float64
	SeatResults map[int]*SeatStats
	BiggestWin  float64
	BiggestLoss float64
}

// Mean returns the mean net units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge is the player's expected loss per unit staked, as a percentage
func (s *Statistics) HouseEdge() float64 {
	return -s.Mean() * 100
}

// Add incorporates a round
func (s *Statistics) Add(r RoundResult) {
	if s.OutcomeNet == nil {
		s.OutcomeNet = make(map[game.Outcome]float64)
	}
	if s.SeatResults == nil {
		s.SeatResults = make(map[int]*SeatStats)
	}

	s.Rounds++
	s.SumNet += r.Net
	s.SumNet2 += r.Net * r.Net
	s.Values = append(s.Values, r.Net)
	s.BiggestWin = math.Max(s.BiggestWin, r.Net)
	s.BiggestLoss = math.Min(s.BiggestLoss, r.Net)

	if len(r.Hands) > 1 {
		s.SplitRounds++
	}
	for _, h := range r.Hands {
		s.Hands++
		switch h.Outcome {
		case game.Win:
			s.Wins++
		case game.Loss:
			s.Losses++
		case game.Push:
			s.Pushes++
		case game.BlackjackWin:
			s.Blackjacks++
		}
		if h.Bust {
			s.Busts++
		}
		if h.Doubled {
			s.Doubles++
		}
		s.OutcomeNet[h.Outcome] += h.Net
	}
	s.AllNet += r.Net

	seat := s.SeatResults[r.Seat]
	if seat == nil {
		seat = &SeatStats{}
		s.SeatResults[r.Seat] = seat
	}
	seat.Rounds++
	seat.SumNet += r.Net
}

// Merge folds another set of statistics into s. Workers each keep their
// own and merge once they finish.
func (s *Statistics) Merge(o *Statistics) {
	if o == nil || o.Rounds == 0 {
		return
	}
	if s.OutcomeNet == nil {
		s.OutcomeNet = make(map[game.Outcome]float64)
	}
	if s.SeatResults == nil {
		s.SeatResults = make(map[int]*SeatStats)
	}

	s.Rounds += o.Rounds
	s.SumNet += o.SumNet
	s.SumNet2 += o.SumNet2
	s.Values = append(s.Values, o.Values...)
	s.Hands += o.Hands
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Pushes += o.Pushes
	s.Blackjacks += o.Blackjacks
	s.Busts += o.Busts
	s.Doubles += o.Doubles
	s.SplitRounds += o.SplitRounds
	s.AllNet += o.AllNet
	s.BiggestWin = math.Max(s.BiggestWin, o.BiggestWin)
	s.BiggestLoss = math.Min(s.BiggestLoss, o.BiggestLoss)
	for k, v := range o.OutcomeNet {
		s.OutcomeNet[k] += v
	}
	for seat, st := range o.SeatResults {
		mine := s.SeatResults[seat]
		if mine == nil {
			mine = &SeatStats{}
			s.SeatResults[seat] = mine
		}
		mine.Rounds += st.Rounds
		mine.SumNet += st.SumNet
	}
}

// Median returns the median round result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for one seat
func (s *Statistics) SeatMean(seat int) float64 {
	st := s.SeatResults[seat]
	if st == nil || st.Rounds == 0 {
		return 0
	}
	return st.SumNet / float64(st.Rounds)
}

// WinRate is the share of hands won, blackjacks included
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins+s.Blackjacks) / float64(s.Hands)
}

// IsLedgerBalanced checks the per-outcome buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	sum := 0.0
	for _, v := range s.OutcomeNet {
		sum += v
	}
	return math.Abs(s.AllNet-sum) <= 1e-6
}

// Validate checks the accumulated data is internally consistent
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f does not match outcome buckets", s.AllNet)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if settled := s.Wins + s.Losses + s.Pushes + s.Blackjacks; settled != s.Hands {
		return fmt.Errorf("settled hands (%d) do not match hands played (%d)", settled, s.Hands)
	}
	seatRounds := 0
	for _, st := range s.SeatResults {
		seatRounds += st.Rounds
	}
	if seatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match rounds (%d)", seatRounds, s.Rounds)
	}
	return nil
}
