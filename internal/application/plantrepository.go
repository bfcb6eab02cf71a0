package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// ErrEmptyUpdate is returned by UpdatePlant for an update that changes nothing.
var ErrEmptyUpdate = errors.New("plant update has no fields")

// PlantRepository exposes the plant and watering endpoints as Outcomes.
// Every call is a single attempt; failures are never retried.
type PlantRepository struct {
	api   driven.PlantAPI
	clock Clock
}

// NewPlantRepository creates a new PlantRepository.
func NewPlantRepository(api driven.PlantAPI, clock Clock) *PlantRepository {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PlantRepository{api: api, clock: clock}
}

// ListPlants returns the current user's plants.
func (r *PlantRepository) ListPlants(ctx context.Context) model.Outcome[[]model.Plant] {
	v, err := r.api.ListPlants(ctx)
	return outcomeOf(v, err)
}

// GetPlant returns one plant by ID.
func (r *PlantRepository) GetPlant(ctx context.Context, id uuid.UUID) model.Outcome[model.Plant] {
	v, err := r.api.GetPlant(ctx, id)
	return outcomeOf(v, err)
}

// CreatePlant creates a plant owned by the current user.
func (r *PlantRepository) CreatePlant(ctx context.Context, req model.PlantCreate) model.Outcome[model.Plant] {
	v, err := r.api.CreatePlant(ctx, req)
	return outcomeOf(v, err)
}

// UpdatePlant applies a partial update to a plant. An update without fields
// fails with ErrEmptyUpdate and sends nothing.
func (r *PlantRepository) UpdatePlant(ctx context.Context, id uuid.UUID, req model.PlantUpdate) model.Outcome[model.Plant] {
	if req.IsEmpty() {
		return model.Failure[model.Plant](ErrEmptyUpdate)
	}
	v, err := r.api.UpdatePlant(ctx, id, req)
	return outcomeOf(v, err)
}

// DeletePlant removes a plant and its watering history.
func (r *PlantRepository) DeletePlant(ctx context.Context, id uuid.UUID) model.Outcome[struct{}] {
	return done(r.api.DeletePlant(ctx, id))
}

// WaterPlant sets the plant's last-watered time to now through a plant
// update. Recording a watering event is the preferred path; this one leaves
// no history behind.
func (r *PlantRepository) WaterPlant(ctx context.Context, id uuid.UUID) model.Outcome[model.Plant] {
	now := r.clock.Now().UTC()
	return r.UpdatePlant(ctx, id, model.PlantUpdate{LastWatered: &now})
}

// RecordWatering records a watering event for a plant.
func (r *PlantRepository) RecordWatering(ctx context.Context, req model.WateringEventCreate) model.Outcome[model.WateringEvent] {
	v, err := r.api.RecordWatering(ctx, req)
	return outcomeOf(v, err)
}

// WateringHistory returns a plant's watering events, newest first.
func (r *PlantRepository) WateringHistory(ctx context.Context, plantID uuid.UUID) model.Outcome[[]model.WateringEvent] {
	v, err := r.api.ListWateringHistory(ctx, plantID)
	return outcomeOf(v, err)
}

// LastWateringEvent returns the plant's most recent watering event, or a
// successful nil when the plant has never been watered.
func (r *PlantRepository) LastWateringEvent(ctx context.Context, plantID uuid.UUID) model.Outcome[*model.WateringEvent] {
	ev, err := r.api.GetLastWateringEvent(ctx, plantID)
	if errors.Is(err, driven.ErrNoContent) {
		return model.Success[*model.WateringEvent](nil)
	}
	if err != nil {
		return model.Failure[*model.WateringEvent](err)
	}
	return model.Success(&ev)
}

// UpdateWateringEvent applies a partial update to a watering event.
func (r *PlantRepository) UpdateWateringEvent(ctx context.Context, id uuid.UUID, req model.WateringEventUpdate) model.Outcome[model.WateringEvent] {
	v, err := r.api.UpdateWateringEvent(ctx, id, req)
	return outcomeOf(v, err)
}

// DeleteWateringEvent removes one watering event.
func (r *PlantRepository) DeleteWateringEvent(ctx context.Context, id uuid.UUID) model.Outcome[struct{}] {
	return done(r.api.DeleteWateringEvent(ctx, id))
}
