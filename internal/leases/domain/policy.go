package domain

import "errors"

// ErrRoomRequired is returned when a colocation contract that must reference
// a room does not. Callers treat this as a logged anomaly, not a fatal
// error: the contract and occupant transitions proceed, only the
// property-status step is skipped.
var ErrRoomRequired = errors.New("colocation contract has no room reference")

// RemainingContracts describes what other contracts a property still holds
// after the one being released. Only consulted by the direct (non-colocation)
// policy; colocation status is derived from room states instead.
type RemainingContracts struct {
	Active bool
	Signed bool
}

// OccupancyPolicy applies usage-type-specific occupancy rules when a
// contract activates or expires. Activation and expiration share one policy
// per usage type so the two phases cannot diverge.
type OccupancyPolicy interface {
	Occupy(p *Property, c *Contract) error
	Release(p *Property, c *Contract, remaining RemainingContracts) error
}

// PolicyFor returns the occupancy policy for a usage type.
func PolicyFor(usage UsageType) OccupancyPolicy {
	switch usage {
	case UsageColocationSolidaire:
		return solidairePolicy{}
	case UsageColocation, UsageColocationIndividual:
		return perRoomPolicy{}
	default:
		return directPolicy{}
	}
}

// directPolicy covers SingleUnit and ShortTerm: property status is a direct
// function of the contracts that exist on it.
type directPolicy struct{}

func (directPolicy) Occupy(p *Property, _ *Contract) error {
	return p.SetStatus(PropertyStatusActive)
}

func (directPolicy) Release(p *Property, _ *Contract, remaining RemainingContracts) error {
	switch {
	case remaining.Active:
		return p.SetStatus(PropertyStatusActive)
	case remaining.Signed:
		return p.SetStatus(PropertyStatusReserved)
	default:
		return p.SetStatus(PropertyStatusVacant)
	}
}

// perRoomPolicy covers Colocation and ColocationIndividual: each contract
// must reference the room it occupies.
type perRoomPolicy struct{}

func (perRoomPolicy) Occupy(p *Property, c *Contract) error {
	if c.RoomID == nil {
		return ErrRoomRequired
	}
	return p.OccupyRoom(*c.RoomID, c.ID)
}

func (perRoomPolicy) Release(p *Property, c *Contract, _ RemainingContracts) error {
	if c.RoomID == nil {
		return ErrRoomRequired
	}
	return p.ReleaseRoom(*c.RoomID)
}

// solidairePolicy covers ColocationSolidaire: one contract may cover the
// whole property. A room reference is honored when present; without one the
// contract spans every room.
type solidairePolicy struct{}

func (solidairePolicy) Occupy(p *Property, c *Contract) error {
	if c.RoomID != nil {
		return p.OccupyRoom(*c.RoomID, c.ID)
	}
	p.OccupyAllRooms(c.ID)
	return nil
}

func (solidairePolicy) Release(p *Property, c *Contract, _ RemainingContracts) error {
	if c.RoomID != nil {
		return p.ReleaseRoom(*c.RoomID)
	}
	p.ReleaseAllRooms()
	return nil
}
