// Package reconciler advances leases and rooms through their time-driven
// lifecycle transitions and keeps derived property occupancy consistent.
package reconciler

import (
	"context"
	"sync"
	"time"

	"rentora_backend/platform/logger"
)

const (
	defaultInterval = time.Hour
	defaultCooldown = 5 * time.Minute
)

// CycleStats summarizes the last completed reconciliation cycle.
type CycleStats struct {
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
	Activated     int       `json:"activated"`
	Expired       int       `json:"expired"`
	ReleasedHolds int       `json:"releasedHolds"`
	LastError     string    `json:"lastError,omitempty"`
}

// Engine runs the lease reconciliation loop: activation, expiration and
// room-hold reaping, in that order, every interval. Items are processed
// sequentially with per-item failure isolation; a phase-level failure ends
// the cycle and the next one starts after the cooldown instead of the
// regular interval.
type Engine struct {
	store    Store
	docs     DocumentStore
	log      *logger.Logger
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu    sync.Mutex
	stats CycleStats
}

// NewEngine creates the reconciliation engine. A nil docs store disables
// object-storage cleanup. Non-positive durations fall back to defaults.
func NewEngine(store Store, docs DocumentStore, log *logger.Logger, interval, cooldown time.Duration) *Engine {
	if interval <= 0 {
		interval = defaultInterval
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	return &Engine{
		store:    store,
		docs:     docs,
		log:      log,
		interval: interval,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Run executes cycles until ctx is cancelled. Eligibility predicates are
// idempotent time comparisons, so a cancelled cycle is simply re-evaluated
// from current database state on the next start.
func (e *Engine) Run(ctx context.Context) {
	if e == nil || e.store == nil {
		return
	}

	for {
		delay := e.interval
		if err := e.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.log.Error("reconciliation cycle failed", "error", err)
			delay = e.cooldown
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// runCycle executes one Activation → Expiration → Reaping pass. Only
// phase-level failures (queries, not items) propagate as errors.
func (e *Engine) runCycle(ctx context.Context) error {
	stats := CycleStats{StartedAt: e.now().UTC()}

	activated, err := e.activateDueContracts(ctx)
	stats.Activated = activated
	if err != nil {
		return e.finishCycle(stats, err)
	}
	if ctx.Err() != nil {
		return e.finishCycle(stats, ctx.Err())
	}

	expired, err := e.expireDueContracts(ctx)
	stats.Expired = expired
	if err != nil {
		return e.finishCycle(stats, err)
	}
	if ctx.Err() != nil {
		return e.finishCycle(stats, ctx.Err())
	}

	released, err := e.releaseExpiredHolds(ctx)
	stats.ReleasedHolds = released
	return e.finishCycle(stats, err)
}

func (e *Engine) finishCycle(stats CycleStats, err error) error {
	stats.FinishedAt = e.now().UTC()
	if err != nil {
		stats.LastError = err.Error()
	}

	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()

	return err
}

// Stats returns the last completed cycle's summary.
func (e *Engine) Stats() CycleStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// today returns the current UTC calendar day. Start/end date eligibility is
// a whole-day comparison.
func (e *Engine) today() time.Time {
	return e.now().UTC().Truncate(24 * time.Hour)
}
