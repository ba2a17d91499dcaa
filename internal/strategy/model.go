package strategy

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Type enumerates the supported strategy families.
type Type string

const (
	TypeScalping  Type = "Scalping"
	TypeSwing     Type = "Swing Trading"
	TypeArbitrage Type = "Arbitrage"
	TypeGrid      Type = "Grid Trading"
	TypeDCA       Type = "DCA"
)

// Status is the lifecycle state of a strategy.
type Status string

const (
	StatusActive Status = "Active"
	StatusPaused Status = "Paused"
)

// RiskLevel grades the configured risk appetite.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Leverage multipliers offered by the trade surface.
var leverageOptions = map[string]bool{
	"1x": true, "2x": true, "5x": true, "10x": true, "20x": true,
}

// Config holds the tunable parameters of a strategy.
type Config struct {
	RiskLevel       RiskLevel `json:"riskLevel"`
	MaxPositionSize float64   `json:"maxPositionSize"` // percent of account, 1-100
	StopLoss        float64   `json:"stopLoss"`        // percent, 0.1-50
	TakeProfit      float64   `json:"takeProfit"`      // percent, 0.1-100
	Leverage        string    `json:"leverage"`
	TradingPairs    []string  `json:"tradingPairs"`
}

// Performance accumulates simulated trade outcomes.
type Performance struct {
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	Profit float64 `json:"profit"`
}

// Strategy is a named, configured trading policy.
type Strategy struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        Type        `json:"type"`
	Status      Status      `json:"status"`
	Pairs       []string    `json:"pairs"`
	Config      Config      `json:"config"`
	Performance Performance `json:"performance"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// WinRate returns wins/trades as a fraction, 0 when no trades yet.
func (s Strategy) WinRate() float64 {
	if s.Performance.Trades == 0 {
		return 0
	}
	return float64(s.Performance.Wins) / float64(s.Performance.Trades)
}

// Clone returns a deep copy so projections never alias shared slices.
func (s Strategy) Clone() Strategy {
	out := s
	out.Pairs = append([]string(nil), s.Pairs...)
	out.Config.TradingPairs = append([]string(nil), s.Config.TradingPairs...)
	return out
}

// ValidationError marks user-recoverable input problems. State is left
// unchanged whenever one is returned.
type ValidationError struct {
	Code string
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validTypes = map[Type]bool{
	TypeScalping: true, TypeSwing: true, TypeArbitrage: true, TypeGrid: true, TypeDCA: true,
}

var validRiskLevels = map[RiskLevel]bool{
	RiskLow: true, RiskMedium: true, RiskHigh: true,
}

// ValidateInput checks a create/update submission. It does not look at the
// collection; capacity is the store's concern.
func ValidateInput(name string, typ Type, cfg Config) error {
	if name == "" {
		return validationErr("name_required", "strategy name must not be empty")
	}
	if !validTypes[typ] {
		return validationErr("bad_type", "unknown strategy type %q", typ)
	}
	if len(cfg.TradingPairs) == 0 {
		return validationErr("pairs_required", "at least one trading pair is required")
	}
	if !validRiskLevels[cfg.RiskLevel] {
		return validationErr("bad_risk_level", "unknown risk level %q", cfg.RiskLevel)
	}
	if cfg.MaxPositionSize < 1 || cfg.MaxPositionSize > 100 {
		return validationErr("bad_position_size", "maxPositionSize %.2f outside 1-100", cfg.MaxPositionSize)
	}
	if cfg.StopLoss < 0.1 || cfg.StopLoss > 50 {
		return validationErr("bad_stop_loss", "stopLoss %.2f outside 0.1-50", cfg.StopLoss)
	}
	if cfg.TakeProfit < 0.1 || cfg.TakeProfit > 100 {
		return validationErr("bad_take_profit", "takeProfit %.2f outside 0.1-100", cfg.TakeProfit)
	}
	if !leverageOptions[cfg.Leverage] {
		return validationErr("bad_leverage", "unsupported leverage %q", cfg.Leverage)
	}
	return nil
}

// SortNewestFirst orders a collection by descending creation time, the order
// every consumer presents to users.
func SortNewestFirst(list []Strategy) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
