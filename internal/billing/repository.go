// Package billing generates monthly rent invoices for active leases.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new billing repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GenerateForPeriod inserts one invoice per Active contract for the given
// billing period. The unique (contract_id, period) constraint makes the
// statement idempotent: re-running a period only fills the gaps.
func (r *Repository) GenerateForPeriod(ctx context.Context, period time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, contract_id, period, amount_cents, status, created_at)
		SELECT gen_random_uuid(), c.id, $1, c.rent_cents + c.charges_cents, 'pending', now()
		FROM contracts c
		WHERE c.status = 'active'
		ON CONFLICT (contract_id, period) DO NOTHING`, period)
	if err != nil {
		return 0, fmt.Errorf("failed to generate invoices: %w", err)
	}
	return result.RowsAffected(), nil
}
