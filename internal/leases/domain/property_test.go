package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

const (
	fmtExpectedPropertyStatus = "expected property status=%q, got %q"
	fmtExpectedRoomStatus     = "expected room status=%q, got %q"
)

func newColocation(usage UsageType, roomCount int) *Property {
	p := &Property{ID: uuid.New(), Usage: usage, Status: PropertyStatusVacant}
	for i := 0; i < roomCount; i++ {
		p.Rooms = append(p.Rooms, &Room{ID: uuid.New(), PropertyID: p.ID, Status: RoomStatusVacant})
	}
	return p
}

func TestOccupyRoomRecomputesProjection(t *testing.T) {
	p := newColocation(UsageColocationIndividual, 3)
	contractID := uuid.New()

	if err := p.OccupyRoom(p.Rooms[1].ID, contractID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Rooms[1].Status != RoomStatusOccupied {
		t.Fatalf(fmtExpectedRoomStatus, RoomStatusOccupied, p.Rooms[1].Status)
	}
	if p.Rooms[1].ContractID == nil || *p.Rooms[1].ContractID != contractID {
		t.Fatalf("expected room contract link to be set")
	}
	if p.OccupiedRooms != 1 || p.OnHoldRooms != 0 {
		t.Fatalf("expected counters occupied=1 onHold=0, got %d/%d", p.OccupiedRooms, p.OnHoldRooms)
	}
	if p.Status != PropertyStatusActive {
		t.Fatalf(fmtExpectedPropertyStatus, PropertyStatusActive, p.Status)
	}
}

func TestReleaseRoomClearsHoldAndLink(t *testing.T) {
	p := newColocation(UsageColocation, 2)
	until := time.Now().Add(time.Hour)
	contractID := uuid.New()
	p.Rooms[0].Status = RoomStatusOnHold
	p.Rooms[0].OnHoldUntil = &until
	p.Rooms[0].ContractID = &contractID
	p.recomputeOccupancy()

	if p.Status != PropertyStatusReserved {
		t.Fatalf(fmtExpectedPropertyStatus, PropertyStatusReserved, p.Status)
	}

	if err := p.ReleaseRoom(p.Rooms[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	room := p.Rooms[0]
	if room.Status != RoomStatusVacant || room.OnHoldUntil != nil || room.ContractID != nil {
		t.Fatalf("expected released room to be vacant with cleared hold and link, got %+v", room)
	}
	if p.Status != PropertyStatusVacant {
		t.Fatalf(fmtExpectedPropertyStatus, PropertyStatusVacant, p.Status)
	}
}

func TestOccupyAllRoomsAndReleaseAllRooms(t *testing.T) {
	p := newColocation(UsageColocationSolidaire, 4)
	contractID := uuid.New()

	p.OccupyAllRooms(contractID)
	for _, r := range p.Rooms {
		if r.Status != RoomStatusOccupied {
			t.Fatalf(fmtExpectedRoomStatus, RoomStatusOccupied, r.Status)
		}
		if r.ContractID == nil || *r.ContractID != contractID {
			t.Fatalf("expected every room linked to the whole-property contract")
		}
	}
	if p.OccupiedRooms != 4 || p.Status != PropertyStatusActive {
		t.Fatalf("expected 4 occupied rooms and active status, got %d %q", p.OccupiedRooms, p.Status)
	}

	p.ReleaseAllRooms()
	for _, r := range p.Rooms {
		if r.Status != RoomStatusVacant || r.ContractID != nil {
			t.Fatalf("expected every room vacant and unlinked, got %+v", r)
		}
	}
	if p.OccupiedRooms != 0 || p.Status != PropertyStatusVacant {
		t.Fatalf("expected 0 occupied rooms and vacant status, got %d %q", p.OccupiedRooms, p.Status)
	}
}

func TestSetStatusRejectedForColocation(t *testing.T) {
	p := newColocation(UsageColocationSolidaire, 1)
	if err := p.SetStatus(PropertyStatusActive); err == nil {
		t.Fatalf("expected direct status write on colocation property to fail")
	}

	single := &Property{ID: uuid.New(), Usage: UsageSingleUnit, Status: PropertyStatusVacant}
	if err := single.SetStatus(PropertyStatusActive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single.Status != PropertyStatusActive {
		t.Fatalf(fmtExpectedPropertyStatus, PropertyStatusActive, single.Status)
	}
}

func TestOccupyUnknownRoom(t *testing.T) {
	p := newColocation(UsageColocation, 1)
	if err := p.OccupyRoom(uuid.New(), uuid.New()); err == nil {
		t.Fatalf("expected occupying a foreign room to fail")
	}
}

func TestHoldExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	now := time.Now()

	expired := Room{Status: RoomStatusOnHold, OnHoldUntil: &past}
	if !expired.HoldExpired(now) {
		t.Fatalf("expected hold past its deadline to be expired")
	}

	pending := Room{Status: RoomStatusOnHold, OnHoldUntil: &future}
	if pending.HoldExpired(now) {
		t.Fatalf("hold with future deadline must not be expired")
	}

	vacant := Room{Status: RoomStatusVacant}
	if vacant.HoldExpired(now) {
		t.Fatalf("vacant room must never report an expired hold")
	}
}
