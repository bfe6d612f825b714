package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rentora_backend/internal/leases/domain"
)

// Each save below commits one reconciliation item atomically. The contract,
// its property row, the property's rooms and the occupant move together or
// not at all, so a crash mid-cycle never leaves a half-applied item.

// SaveActivation persists an activated contract with its side effects. A nil
// property skips the property and room writes.
func (r *Repository) SaveActivation(ctx context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	return r.saveTransition(ctx, c, p, o)
}

// SaveExpiry persists an expired contract with its side effects. A nil
// property skips the property and room writes.
func (r *Repository) SaveExpiry(ctx context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	return r.saveTransition(ctx, c, p, o)
}

func (r *Repository) saveTransition(ctx context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := updateContract(ctx, tx, c); err != nil {
		return err
	}
	if p != nil {
		if err := updateProperty(ctx, tx, p); err != nil {
			return err
		}
	}
	if o != nil {
		if err := updateOccupant(ctx, tx, o); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ReleaseHold frees a held room and, when the hold backed a Draft contract,
// deletes the draft with its payments and documents. It returns the storage
// file keys of the deleted documents so the caller can remove the objects.
func (r *Repository) ReleaseHold(ctx context.Context, p *domain.Property, room *domain.Room, draft *domain.Contract) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := updateRoom(ctx, tx, room); err != nil {
		return nil, err
	}
	if err := updatePropertyRow(ctx, tx, p); err != nil {
		return nil, err
	}

	var fileKeys []string
	if draft != nil {
		if fileKeys, err = deleteDraftCascade(ctx, tx, draft); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fileKeys, nil
}

func updateContract(ctx context.Context, tx pgx.Tx, c *domain.Contract) error {
	_, err := tx.Exec(ctx,
		`UPDATE contracts SET status = $2, updated_at = now() WHERE id = $1`,
		c.ID, string(c.Status))
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

func updateProperty(ctx context.Context, tx pgx.Tx, p *domain.Property) error {
	if err := updatePropertyRow(ctx, tx, p); err != nil {
		return err
	}
	for _, room := range p.Rooms {
		if err := updateRoom(ctx, tx, room); err != nil {
			return err
		}
	}
	return nil
}

func updatePropertyRow(ctx context.Context, tx pgx.Tx, p *domain.Property) error {
	_, err := tx.Exec(ctx,
		`UPDATE properties SET status = $2, occupied_rooms = $3, on_hold_rooms = $4, updated_at = now()
		WHERE id = $1`,
		p.ID, string(p.Status), p.OccupiedRooms, p.OnHoldRooms)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

func updateRoom(ctx context.Context, tx pgx.Tx, room *domain.Room) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET status = $2, on_hold_until = $3, contract_id = $4, updated_at = now()
		WHERE id = $1`,
		room.ID, string(room.Status), room.OnHoldUntil, room.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

func updateOccupant(ctx context.Context, tx pgx.Tx, o *domain.Occupant) error {
	_, err := tx.Exec(ctx,
		`UPDATE occupants SET status = $2, property_id = $3, updated_at = now() WHERE id = $1`,
		o.ID, string(o.Status), o.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to update occupant: %w", err)
	}
	return nil
}

func deleteDraftCascade(ctx context.Context, tx pgx.Tx, draft *domain.Contract) ([]string, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE contract_id = $1`, draft.ID); err != nil {
		return nil, fmt.Errorf("failed to delete payments: %w", err)
	}

	rows, err := tx.Query(ctx,
		`DELETE FROM documents WHERE contract_id = $1 RETURNING file_key`, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete documents: %w", err)
	}
	defer rows.Close()

	var fileKeys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan file key: %w", err)
		}
		fileKeys = append(fileKeys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if _, err := tx.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, draft.ID); err != nil {
		return nil, fmt.Errorf("failed to delete draft contract: %w", err)
	}
	return fileKeys, nil
}
