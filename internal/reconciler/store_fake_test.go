package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentora_backend/internal/leases/domain"
	"rentora_backend/platform/apperr"
)

var errSaveFailed = errors.New("save failed")

type fakePayment struct {
	id         uuid.UUID
	contractID uuid.UUID
}

type fakeDocument struct {
	id         uuid.UUID
	contractID uuid.UUID
	fileKey    string
}

// fakeStore mimics the repository's transactional semantics in memory:
// queries hand out detached copies, saves write copies back atomically, and
// a configured failure leaves the stored state untouched.
type fakeStore struct {
	contracts  map[uuid.UUID]*domain.Contract
	properties map[uuid.UUID]*domain.Property
	occupants  map[uuid.UUID]*domain.Occupant
	payments   []fakePayment
	documents  []fakeDocument

	failSaveContract map[uuid.UUID]bool
	failSaveRoom     map[uuid.UUID]bool
	queryErr         error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contracts:        make(map[uuid.UUID]*domain.Contract),
		properties:       make(map[uuid.UUID]*domain.Property),
		occupants:        make(map[uuid.UUID]*domain.Occupant),
		failSaveContract: make(map[uuid.UUID]bool),
		failSaveRoom:     make(map[uuid.UUID]bool),
	}
}

func copyContract(c *domain.Contract) *domain.Contract {
	dup := *c
	if c.RoomID != nil {
		roomID := *c.RoomID
		dup.RoomID = &roomID
	}
	return &dup
}

func copyOccupant(o *domain.Occupant) *domain.Occupant {
	dup := *o
	if o.PropertyID != nil {
		propertyID := *o.PropertyID
		dup.PropertyID = &propertyID
	}
	return &dup
}

func copyProperty(p *domain.Property) *domain.Property {
	dup := *p
	dup.Rooms = make([]*domain.Room, 0, len(p.Rooms))
	for _, r := range p.Rooms {
		room := *r
		if r.OnHoldUntil != nil {
			until := *r.OnHoldUntil
			room.OnHoldUntil = &until
		}
		if r.ContractID != nil {
			contractID := *r.ContractID
			room.ContractID = &contractID
		}
		dup.Rooms = append(dup.Rooms, &room)
	}
	return &dup
}

func (s *fakeStore) ContractsDueForActivation(_ context.Context, day time.Time) ([]*domain.Contract, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var due []*domain.Contract
	for _, c := range s.contracts {
		if c.Status == domain.ContractStatusSigned && !c.StartDate.After(day) {
			due = append(due, copyContract(c))
		}
	}
	return due, nil
}

func (s *fakeStore) ContractsDueForExpiry(_ context.Context, day time.Time) ([]*domain.Contract, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var due []*domain.Contract
	for _, c := range s.contracts {
		if c.Status == domain.ContractStatusActive && c.EndDate.Before(day) {
			due = append(due, copyContract(c))
		}
	}
	return due, nil
}

func (s *fakeStore) PropertiesWithExpiredHolds(_ context.Context, asOf time.Time) ([]*domain.Property, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var matches []*domain.Property
	for _, p := range s.properties {
		for _, r := range p.Rooms {
			if r.HoldExpired(asOf) {
				matches = append(matches, copyProperty(p))
				break
			}
		}
	}
	return matches, nil
}

func (s *fakeStore) PropertyByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, apperr.NotFound("property not found")
	}
	return copyProperty(p), nil
}

func (s *fakeStore) OccupantByID(_ context.Context, id uuid.UUID) (*domain.Occupant, error) {
	o, ok := s.occupants[id]
	if !ok {
		return nil, apperr.NotFound("occupant not found")
	}
	return copyOccupant(o), nil
}

func (s *fakeStore) ContractByID(_ context.Context, id uuid.UUID) (*domain.Contract, error) {
	c, ok := s.contracts[id]
	if !ok {
		return nil, apperr.NotFound("contract not found")
	}
	return copyContract(c), nil
}

func (s *fakeStore) HasOtherContractInStatus(_ context.Context, propertyID, excludeContractID uuid.UUID, status domain.ContractStatus) (bool, error) {
	for _, c := range s.contracts {
		if c.PropertyID == propertyID && c.ID != excludeContractID && c.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountOtherActiveContracts(_ context.Context, occupantID, excludeContractID uuid.UUID) (int, error) {
	count := 0
	for _, c := range s.contracts {
		if c.OccupantID == occupantID && c.ID != excludeContractID && c.Status == domain.ContractStatusActive {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) saveItem(c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	if s.failSaveContract[c.ID] {
		return errSaveFailed
	}
	s.contracts[c.ID] = copyContract(c)
	if p != nil {
		s.properties[p.ID] = copyProperty(p)
	}
	s.occupants[o.ID] = copyOccupant(o)
	return nil
}

func (s *fakeStore) SaveActivation(_ context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	return s.saveItem(c, p, o)
}

func (s *fakeStore) SaveExpiry(_ context.Context, c *domain.Contract, p *domain.Property, o *domain.Occupant) error {
	return s.saveItem(c, p, o)
}

func (s *fakeStore) ReleaseHold(_ context.Context, p *domain.Property, room *domain.Room, draft *domain.Contract) ([]string, error) {
	if s.failSaveRoom[room.ID] {
		return nil, errSaveFailed
	}

	s.properties[p.ID] = copyProperty(p)

	var fileKeys []string
	if draft != nil {
		delete(s.contracts, draft.ID)

		var payments []fakePayment
		for _, pay := range s.payments {
			if pay.contractID != draft.ID {
				payments = append(payments, pay)
			}
		}
		s.payments = payments

		var documents []fakeDocument
		for _, doc := range s.documents {
			if doc.contractID == draft.ID {
				fileKeys = append(fileKeys, doc.fileKey)
				continue
			}
			documents = append(documents, doc)
		}
		s.documents = documents
	}

	return fileKeys, nil
}

type fakeDocumentStore struct {
	removed   []string
	removeErr error
}

func (d *fakeDocumentStore) RemoveObject(_ context.Context, fileKey string) error {
	if d.removeErr != nil {
		return d.removeErr
	}
	d.removed = append(d.removed, fileKey)
	return nil
}
