// Package domain provides core business rules for the leases bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"

	"rentora_backend/platform/apperr"
)

// ContractStatus is the lifecycle status of a lease contract.
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusSigned     ContractStatus = "signed"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract binds an occupant to a property (optionally a single room) for a
// date range at a given rent. Drafts are created and signed elsewhere; the
// reconciliation engine owns the time-driven transitions.
type Contract struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	OccupantID   uuid.UUID
	RoomID       *uuid.UUID
	RentCents    int64
	ChargesCents int64
	StartDate    time.Time
	EndDate      time.Time
	Status       ContractStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activate transitions the contract from Signed to Active.
// Only Signed contracts may become Active.
func (c *Contract) Activate() error {
	if c.Status != ContractStatusSigned {
		return apperr.Conflict("contract is not signed, cannot activate").WithOp("contract.activate")
	}
	c.Status = ContractStatusActive
	return nil
}

// MarkExpired transitions the contract from Active to Expired.
// Only Active contracts may expire.
func (c *Contract) MarkExpired() error {
	if c.Status != ContractStatusActive {
		return apperr.Conflict("contract is not active, cannot expire").WithOp("contract.markExpired")
	}
	c.Status = ContractStatusExpired
	return nil
}

// IsDraft reports whether the contract was never signed. Draft contracts are
// deletable without residual obligations.
func (c *Contract) IsDraft() bool {
	return c.Status == ContractStatusDraft
}
