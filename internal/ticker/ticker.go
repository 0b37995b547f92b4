// Package ticker drives all registered instances at a fixed simulation
// rate from a single scheduling goroutine.
package ticker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veydras/realmd/internal/constants"
)

// Updatable is one simulated world driven by the loop.
type Updatable interface {
	Update(dt float64, tick uint64, now time.Time)
}

// Loop advances every registered instance at TickRate Hz. Registration is
// safe from any goroutine; iteration tolerates add/remove between ticks.
type Loop struct {
	mu        sync.RWMutex
	instances map[string]Updatable

	tick    atomic.Uint64
	running atomic.Bool
}

// NewLoop creates an empty tick loop.
func NewLoop() *Loop {
	return &Loop{instances: make(map[string]Updatable)}
}

// Register adds an instance under its id.
func (l *Loop) Register(id string, inst Updatable) {
	l.mu.Lock()
	l.instances[id] = inst
	l.mu.Unlock()
}

// Unregister removes an instance.
func (l *Loop) Unregister(id string) {
	l.mu.Lock()
	delete(l.instances, id)
	l.mu.Unlock()
}

// Count returns the number of registered instances.
func (l *Loop) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.instances)
}

// Tick returns the current tick counter.
func (l *Loop) Tick() uint64 { return l.tick.Load() }

// Stop requests a cooperative stop; the loop exits at the next cycle.
func (l *Loop) Stop() { l.running.Store(false) }

// Run drives the loop until the context is cancelled or Stop is called.
// dt passed to instances is the real elapsed interval; overrun carries
// into the next cycle rather than dropping ticks.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	ticker := time.NewTicker(constants.TickPeriod)
	defer ticker.Stop()

	last := time.Now()
	slog.Info("tick loop started", "rate_hz", constants.TickRate)

	for l.running.Load() {
		select {
		case <-ctx.Done():
			slog.Info("tick loop stopping", "tick", l.tick.Load())
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			tick := l.tick.Add(1)
			l.step(dt, tick, now)
		}
	}
	slog.Info("tick loop stopped", "tick", l.tick.Load())
	return nil
}

// step advances every instance once. The registry is snapshotted so an
// instance may register or unregister others from inside its update.
func (l *Loop) step(dt float64, tick uint64, now time.Time) {
	l.mu.RLock()
	batch := make([]Updatable, 0, len(l.instances))
	for _, inst := range l.instances {
		batch = append(batch, inst)
	}
	l.mu.RUnlock()

	for _, inst := range batch {
		inst.Update(dt, tick, now)
	}
}
