package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentora_backend/platform/logger"
)

type fakeInvoiceStore struct {
	periods []time.Time
	created int64
	err     error
}

func (f *fakeInvoiceStore) GenerateForPeriod(_ context.Context, period time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.periods = append(f.periods, period)
	return f.created, nil
}

func newTestGenerator(store invoiceStore, now time.Time) *Generator {
	return &Generator{
		store:    store,
		log:      logger.New("development"),
		interval: time.Hour,
		now:      func() time.Time { return now },
	}
}

func TestGenerateOnceUsesFirstOfMonth(t *testing.T) {
	store := &fakeInvoiceStore{created: 3}
	now := time.Date(2026, time.August, 17, 14, 45, 0, 0, time.UTC)

	g := newTestGenerator(store, now)
	if err := g.generateOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.periods) != 1 {
		t.Fatalf("expected 1 generation call, got %d", len(store.periods))
	}
	want := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !store.periods[0].Equal(want) {
		t.Fatalf("expected period %v, got %v", want, store.periods[0])
	}
}

func TestGenerateOncePropagatesStoreError(t *testing.T) {
	store := &fakeInvoiceStore{err: errors.New("connection reset")}

	g := newTestGenerator(store, time.Now())
	if err := g.generateOnce(context.Background()); err == nil {
		t.Fatalf("expected error from store")
	}
}

func TestPeriodStart(t *testing.T) {
	got := periodStart(time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC))
	want := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
