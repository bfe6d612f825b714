// Package repository provides database operations for the leases bounded
// context. Queries return detached domain entities; all mutations go through
// the per-item transactional save operations in tx.go.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentora_backend/internal/leases/domain"
	"rentora_backend/platform/apperr"
)

const (
	propertyNotFoundMsg = "property not found"
	occupantNotFoundMsg = "occupant not found"
	contractNotFoundMsg = "contract not found"
)

const contractColumns = `id, property_id, occupant_id, room_id, rent_cents, charges_cents,
		start_date, end_date, status, created_at, updated_at`

const roomColumns = `id, property_id, name, status, on_hold_until, contract_id, created_at, updated_at`

// Repository provides database operations for contracts, properties, rooms
// and occupants.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leases repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var c domain.Contract
	var status string
	err := row.Scan(
		&c.ID, &c.PropertyID, &c.OccupantID, &c.RoomID, &c.RentCents, &c.ChargesCents,
		&c.StartDate, &c.EndDate, &status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = domain.ContractStatus(status)
	return &c, nil
}

func (r *Repository) queryContracts(ctx context.Context, query string, args ...any) ([]*domain.Contract, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

// ContractsDueForActivation returns Signed contracts whose start date is on
// or before the given day.
func (r *Repository) ContractsDueForActivation(ctx context.Context, day time.Time) ([]*domain.Contract, error) {
	query := `SELECT ` + contractColumns + `
		FROM contracts WHERE status = 'signed' AND start_date <= $1 ORDER BY start_date`
	return r.queryContracts(ctx, query, day)
}

// ContractsDueForExpiry returns Active contracts whose end date is strictly
// before the given day.
func (r *Repository) ContractsDueForExpiry(ctx context.Context, day time.Time) ([]*domain.Contract, error) {
	query := `SELECT ` + contractColumns + `
		FROM contracts WHERE status = 'active' AND end_date < $1 ORDER BY end_date`
	return r.queryContracts(ctx, query, day)
}

// ContractByID retrieves a contract by its ID.
func (r *Repository) ContractByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	contract, err := scanContract(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(contractNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// PropertyByID retrieves a property with its rooms loaded eagerly.
func (r *Repository) PropertyByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var p domain.Property
	var usage, status string
	query := `SELECT id, name, usage_type, status, occupied_rooms, on_hold_rooms, created_at, updated_at
		FROM properties WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &usage, &status, &p.OccupiedRooms, &p.OnHoldRooms, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(propertyNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	p.Usage = domain.UsageType(usage)
	p.Status = domain.PropertyStatus(status)

	if p.Usage.IsColocation() {
		if p.Rooms, err = r.roomsForProperty(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

func (r *Repository) roomsForProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE property_id = $1 ORDER BY name, id`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var result []*domain.Room
	for rows.Next() {
		var room domain.Room
		var status string
		err := rows.Scan(
			&room.ID, &room.PropertyID, &room.Name, &status,
			&room.OnHoldUntil, &room.ContractID, &room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.Status = domain.RoomStatus(status)
		result = append(result, &room)
	}
	return result, rows.Err()
}

// PropertiesWithExpiredHolds returns properties having at least one room
// OnHold past its deadline, rooms loaded eagerly.
func (r *Repository) PropertiesWithExpiredHolds(ctx context.Context, asOf time.Time) ([]*domain.Property, error) {
	query := `SELECT DISTINCT p.id FROM properties p
		JOIN rooms rm ON rm.property_id = p.id
		WHERE rm.status = 'on_hold' AND rm.on_hold_until < $1`

	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired holds: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	properties := make([]*domain.Property, 0, len(ids))
	for _, id := range ids {
		property, err := r.PropertyByID(ctx, id)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, nil
}

// OccupantByID retrieves an occupant by its ID.
func (r *Repository) OccupantByID(ctx context.Context, id uuid.UUID) (*domain.Occupant, error) {
	var o domain.Occupant
	var status string
	query := `SELECT id, first_name, last_name, email, phone, status, property_id, created_at, updated_at
		FROM occupants WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &status, &o.PropertyID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(occupantNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get occupant: %w", err)
	}
	o.Status = domain.OccupantStatus(status)
	return &o, nil
}

// HasOtherContractInStatus reports whether the property holds another
// contract, excluding the given one, in the given status.
func (r *Repository) HasOtherContractInStatus(ctx context.Context, propertyID, excludeContractID uuid.UUID, status domain.ContractStatus) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM contracts WHERE property_id = $1 AND id <> $2 AND status = $3)`

	err := r.pool.QueryRow(ctx, query, propertyID, excludeContractID, string(status)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check property contracts: %w", err)
	}
	return exists, nil
}

// CountOtherActiveContracts counts the occupant's Active contracts,
// excluding the given one.
func (r *Repository) CountOtherActiveContracts(ctx context.Context, occupantID, excludeContractID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM contracts
		WHERE occupant_id = $1 AND id <> $2 AND status = 'active'`

	err := r.pool.QueryRow(ctx, query, occupantID, excludeContractID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active contracts: %w", err)
	}
	return count, nil
}

// ContractsDueForExpiryReminder returns Active contracts ending within the
// given window whose expiry reminder has not been sent yet.
func (r *Repository) ContractsDueForExpiryReminder(ctx context.Context, from, until time.Time) ([]*domain.Contract, error) {
	query := `SELECT ` + contractColumns + `
		FROM contracts
		WHERE status = 'active' AND end_date >= $1 AND end_date <= $2
		  AND expiry_reminder_sent_at IS NULL
		ORDER BY end_date`
	return r.queryContracts(ctx, query, from, until)
}

// MarkExpiryReminderSent stamps the contract's reminder as sent.
func (r *Repository) MarkExpiryReminderSent(ctx context.Context, contractID uuid.UUID, sentAt time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE contracts SET expiry_reminder_sent_at = $2, updated_at = now() WHERE id = $1`,
		contractID, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(contractNotFoundMsg)
	}
	return nil
}
