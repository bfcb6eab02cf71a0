package model

import (
	"time"

	"github.com/google/uuid"
)

// Plant represents a plant owned by the authenticated user.
type Plant struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Description *string
	LastWatered *time.Time
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

// PlantCreate holds the fields required to create a plant. LastWatered is
// mandatory at creation time.
type PlantCreate struct {
	Name        string
	Type        string
	Description *string
	LastWatered time.Time
}

// PlantUpdate is a partial update. Nil fields are not sent and are left
// unchanged by the backend.
type PlantUpdate struct {
	Name        *string
	Type        *string
	Description *string
	LastWatered *time.Time
}

// IsEmpty reports whether the update carries no fields at all.
func (u PlantUpdate) IsEmpty() bool {
	return u.Name == nil && u.Type == nil && u.Description == nil && u.LastWatered == nil
}

// PlantWithLastWatered pairs a plant with the most recent watering time known
// for it. It is derived on the client and never persisted.
// The plant is embedded so its fields read directly off the projection.
// LastWatered shadows Plant.LastWatered.
type PlantWithLastWatered struct {
	Plant
	LastWatered *time.Time
}

// WithLastWatered derives the projection for plant. A known watering event
// wins over the plant's own last-watered field; when neither exists the
// projection has no last-watered time.
func WithLastWatered(plant Plant, last *WateringEvent) PlantWithLastWatered {
	if last != nil {
		t := last.WateredAt
		return PlantWithLastWatered{Plant: plant, LastWatered: &t}
	}
	return PlantWithLastWatered{Plant: plant, LastWatered: plant.LastWatered}
}
