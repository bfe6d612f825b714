package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"rentora_backend/internal/leases/domain"
)

func addHeldRoom(store *fakeStore, p *domain.Property, index int, deadline time.Time, contractID *uuid.UUID) *domain.Room {
	room := p.Rooms[index]
	room.Status = domain.RoomStatusOnHold
	room.OnHoldUntil = &deadline
	room.ContractID = contractID
	return room
}

func TestReaperReleasesExpiredHoldAndDeletesDraftCascade(t *testing.T) {
	store := newFakeStore()
	docs := &fakeDocumentStore{}
	p := addColocation(store, domain.UsageColocationIndividual, 2)
	o := addOccupant(store, domain.OccupantStatusInactive)

	draft := addContract(store, p, o, domain.ContractStatusDraft, daysAhead(5), daysAhead(370))
	roomID := p.Rooms[0].ID
	draft.RoomID = &roomID
	addHeldRoom(store, p, 0, testNow.Add(-time.Hour), &draft.ID)

	store.payments = []fakePayment{
		{id: uuid.New(), contractID: draft.ID},
		{id: uuid.New(), contractID: draft.ID},
	}
	store.documents = []fakeDocument{
		{id: uuid.New(), contractID: draft.ID, fileKey: "contracts/draft.pdf"},
	}

	e := newTestEngine(store, docs)
	released, err := e.releaseExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}
	if released != 1 {
		t.Fatalf("expected 1 released hold, got %d", released)
	}

	room := store.properties[p.ID].Rooms[0]
	if room.Status != domain.RoomStatusVacant || room.OnHoldUntil != nil || room.ContractID != nil {
		t.Fatalf("expected vacant room with cleared hold and link, got %+v", room)
	}

	if _, ok := store.contracts[draft.ID]; ok {
		t.Fatalf("expected draft contract deleted")
	}
	if len(store.payments) != 0 {
		t.Fatalf("expected dependent payments deleted, %d remain", len(store.payments))
	}
	if len(store.documents) != 0 {
		t.Fatalf("expected dependent documents deleted, %d remain", len(store.documents))
	}
	if len(docs.removed) != 1 || docs.removed[0] != "contracts/draft.pdf" {
		t.Fatalf("expected stored document object removed, got %v", docs.removed)
	}
}

func TestReaperKeepsSignedContractBehindExpiredHold(t *testing.T) {
	store := newFakeStore()
	p := addColocation(store, domain.UsageColocation, 1)
	o := addOccupant(store, domain.OccupantStatusInactive)

	signed := addContract(store, p, o, domain.ContractStatusSigned, daysAhead(5), daysAhead(370))
	addHeldRoom(store, p, 0, testNow.Add(-time.Minute), &signed.ID)

	e := newTestEngine(store, nil)
	if _, err := e.releaseExpiredHolds(context.Background()); err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}

	if store.properties[p.ID].Rooms[0].Status != domain.RoomStatusVacant {
		t.Fatalf("expected room released")
	}
	if _, ok := store.contracts[signed.ID]; !ok {
		t.Fatalf("signed contract must survive its hold expiring")
	}
}

func TestReaperLeavesUnexpiredHolds(t *testing.T) {
	store := newFakeStore()
	p := addColocation(store, domain.UsageColocation, 2)
	addHeldRoom(store, p, 0, testNow.Add(time.Hour), nil)

	e := newTestEngine(store, nil)
	released, err := e.releaseExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}
	if released != 0 {
		t.Fatalf("expected no releases, got %d", released)
	}
	if store.properties[p.ID].Rooms[0].Status != domain.RoomStatusOnHold {
		t.Fatalf("unexpired hold must be left alone")
	}
}

func TestReaperIsolatesRoomFailures(t *testing.T) {
	store := newFakeStore()
	p := addColocation(store, domain.UsageColocationIndividual, 2)
	broken := addHeldRoom(store, p, 0, testNow.Add(-time.Hour), nil)
	addHeldRoom(store, p, 1, testNow.Add(-time.Hour), nil)
	store.failSaveRoom[broken.ID] = true

	e := newTestEngine(store, nil)
	released, err := e.releaseExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}
	if released != 1 {
		t.Fatalf("expected the healthy room released despite the failure, got %d", released)
	}
}

func TestReaperIdempotent(t *testing.T) {
	store := newFakeStore()
	p := addColocation(store, domain.UsageColocation, 1)
	addHeldRoom(store, p, 0, testNow.Add(-time.Hour), nil)

	e := newTestEngine(store, nil)
	if _, err := e.releaseExpiredHolds(context.Background()); err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}

	again, err := e.releaseExpiredHolds(context.Background())
	if err != nil {
		t.Fatalf(fmtUnexpectedError, err)
	}
	if again != 0 {
		t.Fatalf("second pass with unchanged time must be a no-op, got %d", again)
	}
}
