package feed

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource supplies current mid prices; nil result means "no data".
type PriceSource interface {
	GetAllMids(ctx context.Context) map[string]string
}

// Direction of the last observed price change.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Snapshot is one subscriber-visible view of the live price state.
type Snapshot struct {
	Coin        string    `json:"coin"`
	Price       string    `json:"price"`
	PrevPrice   string    `json:"prevPrice"`
	LastUpdated time.Time `json:"lastUpdated"`
	Loading     bool      `json:"loading"`
	Err         string    `json:"error,omitempty"`
}

// Direction compares the current price against the previous one. Neutral when
// they are equal, when either is missing, or when either fails to parse.
func (s Snapshot) Direction() Direction {
	if s.Price == "" || s.PrevPrice == "" {
		return DirectionNeutral
	}
	cur, err := decimal.NewFromString(s.Price)
	if err != nil {
		return DirectionNeutral
	}
	prev, err := decimal.NewFromString(s.PrevPrice)
	if err != nil {
		return DirectionNeutral
	}
	switch cur.Cmp(prev) {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}

// Subscription polls one coin at one cadence. Subscriptions are fully
// independent: two subscriptions to the same coin never share a timer or a
// cached price.
type Subscription struct {
	mu       sync.RWMutex
	coin     string
	interval time.Duration
	source   PriceSource
	snap     Snapshot
	stopped  bool
	cancel   context.CancelFunc
}

// NewSubscription builds a subscription starting in the Loading state.
func NewSubscription(source PriceSource, coin string, interval time.Duration) *Subscription {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Subscription{
		coin:     coin,
		interval: interval,
		source:   source,
		snap:     Snapshot{Coin: coin, Loading: true},
	}
}

// Start fires an immediate fetch and then polls at the fixed cadence until
// Stop is called or ctx is cancelled.
func (s *Subscription) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		s.poll(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.poll(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop tears the subscription down. In-flight fetches are not aborted, but
// their results are discarded; no state transition happens after Stop.
func (s *Subscription) Stop() {
	s.mu.Lock()
	s.stopped = true
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Snapshot returns a copy of the current state.
func (s *Subscription) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Subscription) poll(ctx context.Context) {
	mids := s.source.GetAllMids(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		// Result landed after teardown; drop it.
		return
	}

	if mids == nil {
		s.snap.Loading = false
		s.snap.Err = "failed to fetch price data"
		return
	}
	price, ok := mids[s.coin]
	if !ok {
		s.snap.Loading = false
		s.snap.Err = "price not found for " + s.coin
		return
	}

	s.snap.PrevPrice = s.snap.Price
	s.snap.Price = price
	s.snap.LastUpdated = time.Now()
	s.snap.Loading = false
	s.snap.Err = ""
}
