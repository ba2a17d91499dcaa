package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity levels surfaced to the UI.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notification is one ephemeral status message. It is decoupled from
// persistence and disappears on its own after the channel TTL.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`

	expiresAt time.Time
}

// Channel collects auto-expiring notifications and fans them out to
// subscribers.
type Channel struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items []Notification
	subs  []chan Notification
}

// NewChannel creates a channel; ttl <= 0 defaults to 3 seconds.
func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Channel{ttl: ttl}
}

// Publish records a message and fans it out. Slow subscribers are skipped so
// a stuck websocket never blocks a store mutation.
func (c *Channel) Publish(message, severity string) {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	n.expiresAt = n.CreatedAt.Add(c.ttl)

	c.mu.Lock()
	c.pruneLocked(time.Now())
	c.items = append(c.items, n)
	subs := append([]chan Notification(nil), c.subs...)
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Active returns the not-yet-expired notifications, oldest first.
func (c *Channel) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(time.Now())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Subscribe registers a listener and returns the channel plus an unsubscribe
// function.
func (c *Channel) Subscribe(buffer int) (<-chan Notification, func()) {
	ch := make(chan Notification, buffer)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()

	unsub := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub == ch {
				close(sub)
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
	}
	return ch, unsub
}

// Start runs a janitor that drops expired notifications even when nobody
// reads Active. Runs until ctx is cancelled.
func (c *Channel) Start(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				c.pruneLocked(time.Now())
				c.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *Channel) pruneLocked(now time.Time) {
	kept := c.items[:0]
	for _, n := range c.items {
		if n.expiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}
