package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus is the occupancy status of a single room.
type RoomStatus string

const (
	RoomStatusVacant   RoomStatus = "vacant"
	RoomStatusOnHold   RoomStatus = "on_hold"
	RoomStatusOccupied RoomStatus = "occupied"
)

// Room is a child of a colocation property. A room OnHold always carries a
// non-nil OnHoldUntil deadline; once the deadline elapses the room must not
// remain OnHold.
type Room struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	Name        string
	Status      RoomStatus
	OnHoldUntil *time.Time
	ContractID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HoldExpired reports whether the room is OnHold past its deadline.
func (r *Room) HoldExpired(now time.Time) bool {
	return r.Status == RoomStatusOnHold && r.OnHoldUntil != nil && r.OnHoldUntil.Before(now)
}

func (r *Room) occupy(contractID uuid.UUID) {
	r.Status = RoomStatusOccupied
	r.OnHoldUntil = nil
	r.ContractID = &contractID
}

func (r *Room) release() {
	r.Status = RoomStatusVacant
	r.OnHoldUntil = nil
	r.ContractID = nil
}
