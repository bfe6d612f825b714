package reconciler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentora_backend/internal/leases/domain"
)

// Store is the persistence surface the engine reconciles against. Queries
// return detached domain entities; the Save/Release operations persist one
// item's full mutation set in a single transaction, so a failed item never
// leaks partial writes from earlier items in the same phase.
type Store interface {
	// ContractsDueForActivation returns Signed contracts whose start date
	// is on or before the given day.
	ContractsDueForActivation(ctx context.Context, day time.Time) ([]*domain.Contract, error)
	// ContractsDueForExpiry returns Active contracts whose end date is
	// strictly before the given day.
	ContractsDueForExpiry(ctx context.Context, day time.Time) ([]*domain.Contract, error)
	// PropertiesWithExpiredHolds returns properties having at least one
	// room OnHold past its deadline, rooms loaded eagerly.
	PropertiesWithExpiredHolds(ctx context.Context, asOf time.Time) ([]*domain.Property, error)

	PropertyByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	OccupantByID(ctx context.Context, id uuid.UUID) (*domain.Occupant, error)
	ContractByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// HasOtherContractInStatus reports whether the property holds another
	// contract (excluding the given one) in the given status.
	HasOtherContractInStatus(ctx context.Context, propertyID, excludeContractID uuid.UUID, status domain.ContractStatus) (bool, error)
	// CountOtherActiveContracts counts the occupant's Active contracts,
	// excluding the given one.
	CountOtherActiveContracts(ctx context.Context, occupantID, excludeContractID uuid.UUID) (int, error)

	// SaveActivation persists an activation in one transaction. A nil
	// property skips the property/room writes (missing-room anomaly).
	SaveActivation(ctx context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error
	// SaveExpiry persists an expiration in one transaction, same nil
	// property semantics as SaveActivation.
	SaveExpiry(ctx context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error
	// ReleaseHold persists a room release and, when draft is non-nil,
	// cascade-deletes the draft contract with its payments and documents,
	// all in one transaction. Returns the file keys of deleted documents
	// so callers can drop the stored objects.
	ReleaseHold(ctx context.Context, p *domain.Property, room *domain.Room, draft *domain.Contract) ([]string, error)
}

// DocumentStore removes stored document objects orphaned by a draft
// cascade delete. Removal is best-effort and happens after the database
// transaction committed.
type DocumentStore interface {
	RemoveObject(ctx context.Context, fileKey string) error
}
