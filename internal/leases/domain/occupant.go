package domain

import (
	"time"

	"github.com/google/uuid"
)

// OccupantStatus is the activity status of an occupant.
type OccupantStatus string

const (
	OccupantStatusActive   OccupantStatus = "active"
	OccupantStatusInactive OccupantStatus = "inactive"
)

// Occupant is the tenant holding lease contracts. An occupant is Active only
// while holding at least one Active contract; when the last one expires it
// is dissociated from the property and deactivated.
type Occupant struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Status     OccupantStatus
	PropertyID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SetActive marks the occupant Active and associates it to a property.
func (o *Occupant) SetActive(propertyID uuid.UUID) {
	o.Status = OccupantStatusActive
	o.PropertyID = &propertyID
}

// Deactivate marks the occupant Inactive.
func (o *Occupant) Deactivate() {
	o.Status = OccupantStatusInactive
}

// DissociateFromProperty clears the property association.
func (o *Occupant) DissociateFromProperty() {
	o.PropertyID = nil
}

// FullName returns the occupant's display name.
func (o *Occupant) FullName() string {
	return o.FirstName + " " + o.LastName
}
