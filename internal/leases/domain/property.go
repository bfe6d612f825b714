package domain

import (
	"time"

	"github.com/google/uuid"

	"rentora_backend/platform/apperr"
)

// UsageType is how a property is let.
type UsageType string

const (
	UsageSingleUnit           UsageType = "single_unit"
	UsageColocation           UsageType = "colocation"
	UsageColocationIndividual UsageType = "colocation_individual"
	UsageColocationSolidaire  UsageType = "colocation_solidaire"
	UsageShortTerm            UsageType = "short_term"
)

// IsColocation reports whether the usage type is one of the room-based
// colocation variants.
func (u UsageType) IsColocation() bool {
	switch u {
	case UsageColocation, UsageColocationIndividual, UsageColocationSolidaire:
		return true
	}
	return false
}

// PropertyStatus is the derived occupancy status of a property.
type PropertyStatus string

const (
	PropertyStatusVacant   PropertyStatus = "vacant"
	PropertyStatusReserved PropertyStatus = "reserved"
	PropertyStatusActive   PropertyStatus = "active"
)

// Property aggregates its rooms for the colocation usage types. For those,
// Status and the room counters are a projection of the rooms' statuses and
// are never written directly; every room mutation goes through the methods
// below so the projection is recomputed in one place.
type Property struct {
	ID            uuid.UUID
	Name          string
	Usage         UsageType
	Status        PropertyStatus
	Rooms         []*Room
	OccupiedRooms int
	OnHoldRooms   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Room returns the room with the given ID, if present.
func (p *Property) Room(id uuid.UUID) (*Room, bool) {
	for _, r := range p.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// SetStatus writes the status directly. Valid only for non-colocation usage
// types; colocation status is derived from rooms.
func (p *Property) SetStatus(status PropertyStatus) error {
	if p.Usage.IsColocation() {
		return apperr.Conflict("colocation property status is derived from rooms").WithOp("property.setStatus")
	}
	p.Status = status
	return nil
}

// OccupyRoom marks one room Occupied and links it to the contract.
func (p *Property) OccupyRoom(roomID, contractID uuid.UUID) error {
	room, ok := p.Room(roomID)
	if !ok {
		return apperr.NotFound("room does not belong to property").WithOp("property.occupyRoom")
	}
	room.occupy(contractID)
	p.recomputeOccupancy()
	return nil
}

// ReleaseRoom marks one room Vacant, clearing its hold deadline and
// contract link.
func (p *Property) ReleaseRoom(roomID uuid.UUID) error {
	room, ok := p.Room(roomID)
	if !ok {
		return apperr.NotFound("room does not belong to property").WithOp("property.releaseRoom")
	}
	room.release()
	p.recomputeOccupancy()
	return nil
}

// OccupyAllRooms occupies every room under a single contract. Used for
// ColocationSolidaire whole-property leases.
func (p *Property) OccupyAllRooms(contractID uuid.UUID) {
	for _, r := range p.Rooms {
		r.occupy(contractID)
	}
	p.recomputeOccupancy()
}

// ReleaseAllRooms releases every room.
func (p *Property) ReleaseAllRooms() {
	for _, r := range p.Rooms {
		r.release()
	}
	p.recomputeOccupancy()
}

// recomputeOccupancy projects the property status and counters from current
// room states. Must run after every room mutation.
func (p *Property) recomputeOccupancy() {
	occupied, onHold := 0, 0
	for _, r := range p.Rooms {
		switch r.Status {
		case RoomStatusOccupied:
			occupied++
		case RoomStatusOnHold:
			onHold++
		}
	}

	p.OccupiedRooms = occupied
	p.OnHoldRooms = onHold

	switch {
	case occupied > 0:
		p.Status = PropertyStatusActive
	case onHold > 0:
		p.Status = PropertyStatusReserved
	default:
		p.Status = PropertyStatusVacant
	}
}
