package reconciler

import (
	"context"
	"errors"
	"fmt"

	"rentora_backend/internal/leases/domain"
)

const missingRoomMsg = "colocation contract has no room reference, skipping property update"

// activateDueContracts transitions Signed contracts whose start date has
// arrived to Active and propagates occupancy. Per-contract failures are
// logged and skipped; the batch continues.
func (e *Engine) activateDueContracts(ctx context.Context) (int, error) {
	due, err := e.store.ContractsDueForActivation(ctx, e.today())
	if err != nil {
		return 0, fmt.Errorf("activation query: %w", err)
	}

	activated := 0
	for _, contract := range due {
		if ctx.Err() != nil {
			return activated, ctx.Err()
		}
		if err := e.activateOne(ctx, contract); err != nil {
			e.log.ItemFailure("activation", "contract", contract.ID.String(), err)
			continue
		}
		activated++
	}

	return activated, nil
}

func (e *Engine) activateOne(ctx context.Context, contract *domain.Contract) error {
	if err := contract.Activate(); err != nil {
		return err
	}

	property, err := e.store.PropertyByID(ctx, contract.PropertyID)
	if err != nil {
		return fmt.Errorf("load property: %w", err)
	}

	policy := domain.PolicyFor(property.Usage)
	if err := policy.Occupy(property, contract); err != nil {
		if !errors.Is(err, domain.ErrRoomRequired) {
			return fmt.Errorf("occupy: %w", err)
		}
		// Inconsistent configuration, not a fatal error: activate the
		// contract and occupant but leave the property untouched.
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
	occupant.SetActive(contract.PropertyID)

	if err := e.store.SaveActivation(ctx, contract, property, occupant); err != nil {
		return fmt.Errorf("save activation: %w", err)
	}

	e.log.StateTransition("contract", contract.ID.String(),
		string(domain.ContractStatusSigned), string(domain.ContractStatusActive))
	return nil
}
