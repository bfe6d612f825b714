package billing

import (
	"context"
	"time"

	"rentora_backend/platform/config"
	"rentora_backend/platform/logger"
)

type invoiceStore interface {
	GenerateForPeriod(ctx context.Context, period time.Time) (int64, error)
}

// Generator periodically fills in the current month's invoices. Contracts
// activated mid-month pick up their invoice on the next tick.
type Generator struct {
	store    invoiceStore
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time
}

func NewGenerator(cfg config.BillingConfig, store invoiceStore, log *logger.Logger) *Generator {
	interval := cfg.GetInvoiceInterval()
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &Generator{
		store:    store,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

func (g *Generator) Run(ctx context.Context) {
	if g == nil || g.store == nil {
		return
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := g.generateOnce(ctx); err != nil {
			g.log.Warn("invoice generation failed", "error", err)
		}
	}
}

func (g *Generator) generateOnce(ctx context.Context) error {
	period := periodStart(g.now().UTC())

	created, err := g.store.GenerateForPeriod(ctx, period)
	if err != nil {
		return err
	}
	if created > 0 {
		g.log.Info("generated monthly invoices",
			"period", period.Format("2006-01"), "count", created)
	}
	return nil
}

// periodStart truncates a timestamp to the first day of its month.
func periodStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
