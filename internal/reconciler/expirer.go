package reconciler

import (
	"context"
	"errors"
	"fmt"

	"rentora_backend/internal/leases/domain"
)

// expireDueContracts transitions Active contracts past their end date to
// Expired, releases their occupancy and deactivates occupants left without
// any Active lease. Per-contract failures are logged and skipped.
func (e *Engine) expireDueContracts(ctx context.Context) (int, error) {
	due, err := e.store.ContractsDueForExpiry(ctx, e.today())
	if err != nil {
		return 0, fmt.Errorf("expiration query: %w", err)
	}

	expired := 0
	for _, contract := range due {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		if err := e.expireOne(ctx, contract); err != nil {
			e.log.ItemFailure("expiration", "contract", contract.ID.String(), err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (e *Engine) expireOne(ctx context.Context, contract *domain.Contract) error {
	if err := contract.MarkExpired(); err != nil {
		return err
	}

	property, err := e.store.PropertyByID(ctx, contract.PropertyID)
	if err != nil {
		return fmt.Errorf("load property: %w", err)
	}

	remaining, err := e.remainingContracts(ctx, property, contract)
	if err != nil {
		return err
	}

	policy := domain.PolicyFor(property.Usage)
	if err := policy.Release(property, contract, remaining); err != nil {
		if !errors.Is(err, domain.ErrRoomRequired) {
			return fmt.Errorf("release: %w", err)
		}
		e.log.Warn(missingRoomMsg,
			"contractId", contract.ID,
			"propertyId", property.ID,
			"usage", property.Usage)
		property = nil
	}

	occupant, err := e.store.OccupantByID(ctx, contract.OccupantID)
	if err != nil {
		return fmt.Errorf("load occupant: %w", err)
	}

	active, err := e.store.CountOtherActiveContracts(ctx, occupant.ID, contract.ID)
	if err != nil {
		return fmt.Errorf("count active contracts: %w", err)
	}
	if active == 0 {
		occupant.DissociateFromProperty()
		occupant.Deactivate()
	}

	if err := e.store.SaveExpiry(ctx, contract, property, occupant); err != nil {
		return fmt.Errorf("save expiry: %w", err)
	}

	e.log.StateTransition("contract", contract.ID.String(),
		string(domain.ContractStatusActive), string(domain.ContractStatusExpired))
	return nil
}

// remainingContracts resolves the fallback inputs the direct policy needs.
// Colocation status is derived from rooms, so the lookups are skipped there.
func (e *Engine) remainingContracts(ctx context.Context, property *domain.Property, contract *domain.Contract) (domain.RemainingContracts, error) {
	if property.Usage.IsColocation() {
		return domain.RemainingContracts{}, nil
	}

	hasActive, err := e.store.HasOtherContractInStatus(ctx, property.ID, contract.ID, domain.ContractStatusActive)
	if err != nil {
		return domain.RemainingContracts{}, fmt.Errorf("lookup active contracts: %w", err)
	}
	hasSigned, err := e.store.HasOtherContractInStatus(ctx, property.ID, contract.ID, domain.ContractStatusSigned)
	if err != nil {
		return domain.RemainingContracts{}, fmt.Errorf("lookup signed contracts: %w", err)
	}

	return domain.RemainingContracts{Active: hasActive, Signed: hasSigned}, nil
}
