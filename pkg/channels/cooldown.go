package channels

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sipeed/sobot/pkg/commands"
)

const cooldownSweepInterval = time.Minute

type cooldownEntry struct {
	limiter  *rate.Limiter
	per      time.Duration
	lastSeen time.Time
}

// Cooldowns enforces each command's declared per-user cooldown.
type Cooldowns struct {
	mu      sync.Mutex
	entries map[string]*cooldownEntry
	now     func() time.Time
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{
		entries: make(map[string]*cooldownEntry),
		now:     time.Now,
	}
}

// Allow consumes one use of command for user. When the user is on cooldown it
// returns false and how long until the next use is allowed.
func (c *Cooldowns) Allow(command, userID string, policy commands.Cooldown) (bool, time.Duration) {
	if policy.Rate <= 0 || policy.Per <= 0 {
		return true, 0
	}

	key := command + "\x00" + userID
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cooldownEntry{
			limiter: rate.NewLimiter(rate.Every(policy.Per/time.Duration(policy.Rate)), policy.Rate),
			per:     policy.Per,
		}
		c.entries[key] = entry
	}
	entry.lastSeen = now
	limiter := entry.limiter
	c.mu.Unlock()

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, policy.Per
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len reports the number of tracked (command, user) pairs.
func (c *Cooldowns) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep drops entries whose cooldown has fully elapsed.
func (c *Cooldowns) Sweep() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.Sub(entry.lastSeen) > entry.per {
			delete(c.entries, key)
		}
	}
}

// Run sweeps periodically until ctx is done.
func (c *Cooldowns) Run(ctx context.Context) {
	ticker := time.NewTicker(cooldownSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
