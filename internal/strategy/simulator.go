package strategy

import (
	"math/rand"
	"sync"
	"time"
)

// Fixed payout table of the simulator. Win and loss magnitudes are constants
// of the simulator, not of the strategy.
const (
	winProfit   = 10.0
	lossPenalty = 5.0
)

// TradeResult is the outcome of a single simulated trade.
type TradeResult struct {
	Win         bool    `json:"win"`
	ProfitDelta float64 `json:"profitDelta"`
}

// OutcomeProvider draws win/loss outcomes. Injected so tests can supply
// deterministic sequences.
type OutcomeProvider interface {
	Outcome() bool
}

// RandomOutcomes draws uniformly random outcomes (p = 0.5 win).
type RandomOutcomes struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomOutcomes() *RandomOutcomes {
	return &RandomOutcomes{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *RandomOutcomes) Outcome() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < 0.5
}

// applyOutcome mutates performance counters and returns the signed profit
// delta. wins <= trades holds by construction.
func applyOutcome(p *Performance, win bool) float64 {
	p.Trades++
	if win {
		p.Wins++
		p.Profit += winProfit
		return winProfit
	}
	p.Profit -= lossPenalty
	return -lossPenalty
}
