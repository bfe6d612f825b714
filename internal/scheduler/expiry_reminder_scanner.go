package scheduler

import (
	"context"
	"time"

	"rentora_backend/internal/leases/domain"
	"rentora_backend/platform/config"
	"rentora_backend/platform/logger"

	"github.com/google/uuid"
)

type reminderStore interface {
	ContractsDueForExpiryReminder(ctx context.Context, from, until time.Time) ([]*domain.Contract, error)
	MarkExpiryReminderSent(ctx context.Context, contractID uuid.UUID, sentAt time.Time) error
}

// ExpiryReminderScanner periodically finds Active contracts approaching
// their end date and enqueues one reminder task per contract. The sent
// stamp guards against enqueueing the same reminder twice.
type ExpiryReminderScanner struct {
	sched    ReminderScheduler
	store    reminderStore
	log      *logger.Logger
	leadDays int
	interval time.Duration
	now      func() time.Time
}

func NewExpiryReminderScanner(cfg config.ReminderConfig, store reminderStore, sched ReminderScheduler, log *logger.Logger) *ExpiryReminderScanner {
	leadDays := cfg.GetReminderLeadDays()
	if leadDays < 1 {
		leadDays = 30
	}

	interval := cfg.GetReminderScanInterval()
	if interval <= 0 {
		interval = time.Hour
	}

	return &ExpiryReminderScanner{
		sched:    sched,
		store:    store,
		log:      log,
		leadDays: leadDays,
		interval: interval,
		now:      time.Now,
	}
}

func (s *ExpiryReminderScanner) Run(ctx context.Context) {
	if s == nil || s.sched == nil || s.store == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := s.scanOnce(ctx); err != nil {
			s.log.Warn("expiry reminder scan failed", "error", err)
		}
	}
}

func (s *ExpiryReminderScanner) scanOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()
	until := now.AddDate(0, 0, s.leadDays)

	contracts, err := s.store.ContractsDueForExpiryReminder(ctx, now, until)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, contract := range contracts {
		payload := LeaseExpiryReminderPayload{
			ContractID: contract.ID.String(),
			EndDate:    contract.EndDate.Format(endDateFormat),
		}
		if err := s.sched.ScheduleLeaseExpiryReminder(ctx, payload); err != nil {
			s.log.Warn("failed to enqueue expiry reminder",
				"contractId", contract.ID, "error", err)
			continue
		}
		// Stamp after a successful enqueue so a failed enqueue is retried
		// on the next scan. A failed stamp can at worst duplicate one
		// reminder.
		if err := s.store.MarkExpiryReminderSent(ctx, contract.ID, now); err != nil {
			s.log.Warn("failed to stamp expiry reminder",
				"contractId", contract.ID, "error", err)
			continue
		}
		enqueued++
	}

	return enqueued, nil
}
