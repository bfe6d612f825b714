package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentora_backend/internal/leases/domain"
)

// releaseExpiredHolds frees rooms held past their deadline. A hold backing a
// still-unsigned Draft contract takes the draft down with it, including its
// payments and documents. Per-room failures are isolated: one bad room does
// not prevent releasing the others.
func (e *Engine) releaseExpiredHolds(ctx context.Context) (int, error) {
	asOf := e.now().UTC()

	properties, err := e.store.PropertiesWithExpiredHolds(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("expired holds query: %w", err)
	}

	released := 0
	for _, property := range properties {
		for _, room := range property.Rooms {
			if ctx.Err() != nil {
				return released, ctx.Err()
			}
			if !room.HoldExpired(asOf) {
				continue
			}
			ok, err := e.releaseOneHold(ctx, property.ID, room.ID, asOf)
			if err != nil {
				e.log.ItemFailure("reaping", "room", room.ID.String(), err)
				continue
			}
			if ok {
				released++
			}
		}
	}

	return released, nil
}

// releaseOneHold re-loads the property so each room's mutation set starts
// from committed state; a failed neighbour cannot leak partial changes into
// this room's save.
func (e *Engine) releaseOneHold(ctx context.Context, propertyID, roomID uuid.UUID, asOf time.Time) (bool, error) {
	property, err := e.store.PropertyByID(ctx, propertyID)
	if err != nil {
		return false, fmt.Errorf("load property: %w", err)
	}

	room, ok := property.Room(roomID)
	if !ok {
		return false, fmt.Errorf("room %s no longer belongs to property", roomID)
	}
	// Re-check against the clock: a hold extended between the query and
	// this pass is left alone.
	if !room.HoldExpired(asOf) {
		return false, nil
	}

	var draft *domain.Contract
	if room.ContractID != nil {
		contract, err := e.store.ContractByID(ctx, *room.ContractID)
		if err != nil {
			return false, fmt.Errorf("load held contract: %w", err)
		}
		if contract.IsDraft() {
			draft = contract
		}
	}

	if err := property.ReleaseRoom(room.ID); err != nil {
		return false, err
	}

	fileKeys, err := e.store.ReleaseHold(ctx, property, room, draft)
	if err != nil {
		return false, fmt.Errorf("save hold release: %w", err)
	}

	e.log.StateTransition("room", room.ID.String(),
		string(domain.RoomStatusOnHold), string(domain.RoomStatusVacant))
	if draft != nil {
		e.log.Info("deleted draft contract backing expired hold",
			"contractId", draft.ID, "roomId", room.ID)
	}

	e.removeDocumentObjects(ctx, fileKeys)
	return true, nil
}

// removeDocumentObjects drops stored objects orphaned by a draft cascade
// delete. Failures only warn: the database rows are already gone and object
// storage cleanup can be retried out of band.
func (e *Engine) removeDocumentObjects(ctx context.Context, fileKeys []string) {
	if e.docs == nil {
		return
	}
	for _, key := range fileKeys {
		if key == "" {
			continue
		}
		if err := e.docs.RemoveObject(ctx, key); err != nil {
			e.log.Warn("failed to remove document object", "fileKey", key, "error", err)
		}
	}
}
