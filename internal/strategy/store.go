package strategy

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation references an unknown strategy ID.
var ErrNotFound = errors.New("strategy not found")

// Notifier receives a status message after each mutation outcome.
type Notifier interface {
	Publish(message, severity string)
}

// StoreConfig wires a Store consumer.
type StoreConfig struct {
	// Name identifies this consumer in logs (e.g. "editor", "trade").
	Name string
	Repo Repository
	// MaxStrategies caps the collection on create; 0 means the default of 10.
	MaxStrategies int
	// SyncInterval is the repository poll cadence; 0 means 1s.
	SyncInterval time.Duration
	// Outcomes drives the trade simulator; nil means RandomOutcomes.
	Outcomes OutcomeProvider
	// Notifier is optional.
	Notifier Notifier
}

// Store is one consumer's in-memory projection of the repository. The
// repository stays authoritative: the projection is disposable and is
// replaced wholesale on every poll tick. Mutations follow the shared
// read-modify-write model, so two consumers writing concurrently clobber each
// other's unrelated changes (last writer wins on the entire collection); that
// trade-off is part of the contract, not an accident to harden away.
type Store struct {
	mu       sync.RWMutex
	name     string
	repo     Repository
	list     []Strategy
	max      int
	interval time.Duration
	outcomes OutcomeProvider
	notifier Notifier
}

// NewStore builds a consumer projection. Call Load or Start before reading.
func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxStrategies <= 0 {
		cfg.MaxStrategies = 10
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = time.Second
	}
	if cfg.Outcomes == nil {
		cfg.Outcomes = NewRandomOutcomes()
	}
	if cfg.Name == "" {
		cfg.Name = "store"
	}
	return &Store{
		name:     cfg.Name,
		repo:     cfg.Repo,
		max:      cfg.MaxStrategies,
		interval: cfg.SyncInterval,
		outcomes: cfg.Outcomes,
		notifier: cfg.Notifier,
	}
}

// Reconcile replaces a stale local projection with freshly polled data. The
// remote collection wins wholesale; there is no per-record merging.
func Reconcile(local, remote []Strategy) []Strategy {
	merged := make([]Strategy, len(remote))
	for i, s := range remote {
		merged[i] = s.Clone()
	}
	SortNewestFirst(merged)
	return merged
}

// Load reads the repository once and replaces the projection.
func (s *Store) Load(ctx context.Context) error {
	remote, err := s.repo.ReadAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.list = Reconcile(s.list, remote)
	s.mu.Unlock()
	return nil
}

// Start loads once, then polls the repository on the sync interval so writes
// from other consumers become visible. Runs until ctx is cancelled.
func (s *Store) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Load(ctx); err != nil {
					log.Printf("[%s] strategy sync error: %v", s.name, err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// List returns the projection newest-first. Callers own the returned slice.
func (s *Store) List() []Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Strategy, len(s.list))
	for i, st := range s.list {
		out[i] = st.Clone()
	}
	return out
}

// Get returns one strategy by ID.
func (s *Store) Get(id string) (Strategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.list {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return Strategy{}, false
}

// Create validates and appends a new strategy. New entries get a fresh ID and
// creation time, start Paused with zeroed performance, and count against the
// collection cap.
func (s *Store) Create(ctx context.Context, name string, typ Type, cfg Config) (Strategy, error) {
	if err := ValidateInput(name, typ, cfg); err != nil {
		s.notify(err.Error(), "error")
		return Strategy{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.list) >= s.max {
		err := validationErr("at_capacity", "strategy limit reached (%d)", s.max)
		s.notifyLocked(err.Msg, "error")
		return Strategy{}, err
	}

	st := Strategy{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      typ,
		Status:    StatusPaused,
		Pairs:     append([]string(nil), cfg.TradingPairs...),
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}

	next := append(cloneAll(s.list), st)
	SortNewestFirst(next)
	if err := s.repo.WriteAll(ctx, next); err != nil {
		s.notifyLocked("failed to save strategy", "error")
		return Strategy{}, err
	}
	s.list = next
	s.notifyLocked("strategy \""+name+"\" deployed", "success")
	return st.Clone(), nil
}

// Update replaces name/type/config of an existing strategy. The original
// creation time and accumulated performance are preserved.
func (s *Store) Update(ctx context.Context, id, name string, typ Type, cfg Config) (Strategy, error) {
	if err := ValidateInput(name, typ, cfg); err != nil {
		s.notify(err.Error(), "error")
		return Strategy{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Strategy{}, ErrNotFound
	}

	next := cloneAll(s.list)
	st := &next[idx]
	st.Name = name
	st.Type = typ
	st.Config = cfg
	st.Pairs = append([]string(nil), cfg.TradingPairs...)

	SortNewestFirst(next)
	if err := s.repo.WriteAll(ctx, next); err != nil {
		s.notifyLocked("failed to save strategy", "error")
		return Strategy{}, err
	}
	s.list = next
	s.notifyLocked("strategy \""+name+"\" updated", "success")

	updated, _ := findByID(next, id)
	return updated, nil
}

// SetStatus flips a strategy between Active and Paused. Unknown IDs are a
// silent no-op.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	next := cloneAll(s.list)
	next[idx].Status = status
	if err := s.repo.WriteAll(ctx, next); err != nil {
		return err
	}
	s.list = next
	verb := "paused"
	if status == StatusActive {
		verb = "started"
	}
	s.notifyLocked("strategy \""+next[idx].Name+"\" "+verb, "info")
	return nil
}

// Delete removes a strategy permanently. Deleting the last record clears the
// repository slot; the collection stays empty on subsequent reads rather than
// re-seeding. Unknown IDs are a silent no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	name := s.list[idx].Name
	next := append(cloneAll(s.list[:idx]), cloneAll(s.list[idx+1:])...)
	if len(next) == 0 {
		if err := s.repo.Clear(ctx); err != nil {
			return err
		}
	} else if err := s.repo.WriteAll(ctx, next); err != nil {
		return err
	}
	s.list = next
	s.notifyLocked("strategy \""+name+"\" deleted", "info")
	return nil
}

// RecordTrade draws one simulated outcome and applies the fixed payout table
// to the strategy's performance counters. The write goes through the same
// full-collection path as every other mutation.
func (s *Store) RecordTrade(ctx context.Context, id string) (TradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return TradeResult{}, ErrNotFound
	}

	win := s.outcomes.Outcome()
	next := cloneAll(s.list)
	delta := applyOutcome(&next[idx].Performance, win)

	if err := s.repo.WriteAll(ctx, next); err != nil {
		return TradeResult{}, err
	}
	s.list = next

	res := TradeResult{Win: win, ProfitDelta: delta}
	if win {
		s.notifyLocked("trade won on \""+next[idx].Name+"\"", "success")
	} else {
		s.notifyLocked("trade lost on \""+next[idx].Name+"\"", "error")
	}
	return res, nil
}

func (s *Store) indexLocked(id string) int {
	for i, st := range s.list {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(message, severity string) {
	if s.notifier != nil {
		s.notifier.Publish(message, severity)
	}
}

// notifyLocked exists only to mark call sites where s.mu is already held;
// the notifier must never call back into the store.
func (s *Store) notifyLocked(message, severity string) {
	if s.notifier != nil {
		s.notifier.Publish(message, severity)
	}
}

func cloneAll(list []Strategy) []Strategy {
	out := make([]Strategy, len(list))
	for i, st := range list {
		out[i] = st.Clone()
	}
	return out
}

func findByID(list []Strategy, id string) (Strategy, bool) {
	for _, st := range list {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return Strategy{}, false
}
