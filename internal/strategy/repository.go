package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"strategy-core/pkg/db"
)

// Slot is the snapshot slot holding the JSON-serialized collection.
const Slot = "strategies"

// seededSlot marks that first-run seeding already happened, so a cleared
// collection stays empty instead of being seeded again.
const seededSlot = "strategies.seeded"

// Repository is the sole owner of the durable strategy collection. There is
// no partial update: every mutation writes the full collection back.
type Repository interface {
	// ReadAll returns the persisted collection, seeding it on first use.
	ReadAll(ctx context.Context) ([]Strategy, error)
	// WriteAll replaces the persisted collection wholesale.
	WriteAll(ctx context.Context, list []Strategy) error
	// Clear removes the persisted slot entirely.
	Clear(ctx context.Context) error
}

// SQLRepository persists the collection as a single JSON slot in SQLite.
type SQLRepository struct {
	db    *db.Database
	seeds []Strategy
}

// NewSQLRepository builds a repository over database. seeds is written on the
// first-ever read when no data exists; pass nil to use DefaultSeeds.
func NewSQLRepository(database *db.Database, seeds []Strategy) *SQLRepository {
	if seeds == nil {
		seeds = DefaultSeeds()
	}
	return &SQLRepository{db: database, seeds: seeds}
}

// ReadAll returns the persisted collection. A missing slot on first read is
// seeded with the example strategies. Malformed JSON is logged and re-seeded
// rather than surfaced as an error.
func (r *SQLRepository) ReadAll(ctx context.Context) ([]Strategy, error) {
	payload, ok, err := r.db.GetSlot(ctx, Slot)
	if err != nil {
		return nil, fmt.Errorf("read strategies: %w", err)
	}
	if !ok {
		if _, seeded, err := r.db.GetSlot(ctx, seededSlot); err != nil {
			return nil, fmt.Errorf("read seed marker: %w", err)
		} else if seeded {
			// Cleared by the last delete; absence is a valid empty state.
			return []Strategy{}, nil
		}
		return r.seed(ctx)
	}

	var list []Strategy
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		log.Printf("⚠️ strategies slot corrupt, re-seeding: %v", err)
		return r.seed(ctx)
	}
	SortNewestFirst(list)
	return list, nil
}

// WriteAll replaces the persisted collection.
func (r *SQLRepository) WriteAll(ctx context.Context, list []Strategy) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode strategies: %w", err)
	}
	if err := r.db.PutSlot(ctx, Slot, string(payload)); err != nil {
		return fmt.Errorf("write strategies: %w", err)
	}
	return nil
}

// Clear drops the slot. The seeded marker stays, so subsequent reads see an
// empty collection.
func (r *SQLRepository) Clear(ctx context.Context) error {
	if err := r.db.DeleteSlot(ctx, Slot); err != nil {
		return fmt.Errorf("clear strategies: %w", err)
	}
	return nil
}

func (r *SQLRepository) seed(ctx context.Context) ([]Strategy, error) {
	list := make([]Strategy, len(r.seeds))
	for i, s := range r.seeds {
		list[i] = s.Clone()
	}
	SortNewestFirst(list)
	if err := r.WriteAll(ctx, list); err != nil {
		return nil, err
	}
	if err := r.db.PutSlot(ctx, seededSlot, "1"); err != nil {
		return nil, fmt.Errorf("mark seeded: %w", err)
	}
	return list, nil
}

// DefaultSeeds returns the two example strategies installed on first run.
func DefaultSeeds() []Strategy {
	now := time.Now().UTC().Truncate(time.Second)
	return []Strategy{
		{
			ID:     "seed-scalping-master",
			Name:   "Scalping Master",
			Type:   TypeScalping,
			Status: StatusPaused,
			Pairs:  []string{"BTC/USDT", "ETH/USDT"},
			Config: Config{
				RiskLevel:       RiskHigh,
				MaxPositionSize: 5,
				StopLoss:        2,
				TakeProfit:      4,
				Leverage:        "5x",
				TradingPairs:    []string{"BTC/USDT", "ETH/USDT"},
			},
			CreatedAt: now,
		},
		{
			ID:     "seed-swing-trader-pro",
			Name:   "Swing Trader Pro",
			Type:   TypeSwing,
			Status: StatusPaused,
			Pairs:  []string{"ADA/USDT", "SOL/USDT"},
			Config: Config{
				RiskLevel:       RiskMedium,
				MaxPositionSize: 10,
				StopLoss:        5,
				TakeProfit:      12,
				Leverage:        "2x",
				TradingPairs:    []string{"ADA/USDT", "SOL/USDT"},
			},
			CreatedAt: now.Add(-time.Hour),
		},
	}
}
