package model

import (
	"time"

	"github.com/google/uuid"
)

// WateringEvent records a single watering of a plant.
type WateringEvent struct {
	ID             uuid.UUID
	PlantID        uuid.UUID
	WateredAt      time.Time
	FertilizerUsed bool
	Notes          *string
	CreatedAt      time.Time
}

// WateringEventCreate holds the fields for recording a new watering event.
type WateringEventCreate struct {
	PlantID        uuid.UUID
	WateredAt      time.Time
	FertilizerUsed bool
	Notes          *string
}

// WateringEventUpdate is a partial update. The plant and watered-at time are
// immutable after creation, so only the fertilizer flag and notes can change.
// A nil field means "not provided", which is distinct from false or empty.
type WateringEventUpdate struct {
	FertilizerUsed *bool
	Notes          *string
}
