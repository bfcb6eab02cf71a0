package viewmodel

import (
	"context"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// PlantDetailState is the plant detail screen's snapshot.
type PlantDetailState struct {
	Action
	Plant *model.Plant
	// DescriptionHTML is the plant description rendered from markdown.
	DescriptionHTML string
	History         []model.WateringEvent
	// Watered is set after a watering was recorded, until ClearWatered.
	Watered bool
	// Deleted is set once the plant has been deleted.
	Deleted bool
}

// PlantDetail is the state holder for the plant detail screen.
type PlantDetail struct {
	holder[PlantDetailState]
	plants *application.PlantRepository
	clock  application.Clock
}

// NewPlantDetail creates a PlantDetail whose tasks end with ctx. A nil clock
// reads the wall clock.
func NewPlantDetail(ctx context.Context, plants *application.PlantRepository, clock application.Clock) *PlantDetail {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &PlantDetail{holder: newHolder(ctx, PlantDetailState{}), plants: plants, clock: clock}
}

// LoadPlant fetches the plant and then its watering history.
func (d *PlantDetail) LoadPlant(id uuid.UUID) {
	d.run(beginLoading, func(ctx context.Context) func(PlantDetailState) PlantDetailState {
		return d.reload(ctx, id)
	})
}

// RecordWatering records a watering event as of now and reloads the plant
// and its history.
func (d *PlantDetail) RecordWatering(id uuid.UUID, fertilizerUsed bool, notes string) {
	req := model.WateringEventCreate{
		PlantID:        id,
		WateredAt:      d.clock.Now().UTC(),
		FertilizerUsed: fertilizerUsed,
		Notes:          optional(notes),
	}

	d.run(beginLoading, func(ctx context.Context) func(PlantDetailState) PlantDetailState {
		recorded := d.plants.RecordWatering(ctx, req)
		if !recorded.OK() {
			return withFailure(recorded.Err())
		}
		if ctx.Err() != nil {
			return nil
		}

		refresh := d.reload(ctx, id)
		if refresh == nil {
			return nil
		}
		return func(s PlantDetailState) PlantDetailState {
			s = refresh(s)
			s.Watered = true
			return s
		}
	})
}

// EditWateringEvent applies a partial update to an event and refreshes the
// history. Nil arguments leave the stored values unchanged.
func (d *PlantDetail) EditWateringEvent(eventID uuid.UUID, fertilizerUsed *bool, notes *string) {
	req := model.WateringEventUpdate{FertilizerUsed: fertilizerUsed, Notes: notes}

	d.run(beginLoading, func(ctx context.Context) func(PlantDetailState) PlantDetailState {
		out := d.plants.UpdateWateringEvent(ctx, eventID, req)
		if !out.OK() {
			return withFailure(out.Err())
		}
		return d.refreshHistory(ctx, out.Value().PlantID)
	})
}

// DeleteWateringEvent deletes an event and refreshes the history of the
// loaded plant.
func (d *PlantDetail) DeleteWateringEvent(eventID uuid.UUID) {
	plantID, loaded := d.loadedPlantID()

	d.run(beginLoading, func(ctx context.Context) func(PlantDetailState) PlantDetailState {
		out := d.plants.DeleteWateringEvent(ctx, eventID)
		if !out.OK() {
			return withFailure(out.Err())
		}
		if !loaded {
			return func(s PlantDetailState) PlantDetailState {
				s.Action = succeeded()
				return s
			}
		}
		return d.refreshHistory(ctx, plantID)
	})
}

// DeletePlant deletes the plant and sets Deleted.
func (d *PlantDetail) DeletePlant(id uuid.UUID) {
	d.run(beginLoading, func(ctx context.Context) func(PlantDetailState) PlantDetailState {
		out := d.plants.DeletePlant(ctx, id)
		if !out.OK() {
			return withFailure(out.Err())
		}
		return func(s PlantDetailState) PlantDetailState {
			s.Action, s.Deleted = succeeded(), true
			return s
		}
	})
}

// ClearError drops a displayed error.
func (d *PlantDetail) ClearError() {
	d.set(func(s PlantDetailState) PlantDetailState {
		s.Action = s.cleared()
		return s
	})
}

// ClearWatered acknowledges a recorded watering.
func (d *PlantDetail) ClearWatered() {
	d.set(func(s PlantDetailState) PlantDetailState {
		s.Watered = false
		return s
	})
}

// reload fetches the plant and then its history. A failed plant fetch still
// attempts the history; the last failure wins the error message.
func (d *PlantDetail) reload(ctx context.Context, id uuid.UUID) func(PlantDetailState) PlantDetailState {
	plant := d.plants.GetPlant(ctx, id)
	if ctx.Err() != nil {
		return nil
	}
	history := d.plants.WateringHistory(ctx, id)

	return func(s PlantDetailState) PlantDetailState {
		s.Action = succeeded()
		if plant.OK() {
			p := plant.Value()
			s.Plant = &p
			s.DescriptionHTML = RenderDescription(p.Description)
		} else {
			s.Action = failed(plant.Err())
		}
		if history.OK() {
			s.History = history.Value()
		} else {
			s.Action = failed(history.Err())
		}
		return s
	}
}

func (d *PlantDetail) refreshHistory(ctx context.Context, plantID uuid.UUID) func(PlantDetailState) PlantDetailState {
	history := d.plants.WateringHistory(ctx, plantID)
	return func(s PlantDetailState) PlantDetailState {
		if !history.OK() {
			s.Action = failed(history.Err())
			return s
		}
		s.Action, s.History = succeeded(), history.Value()
		return s
	}
}

func (d *PlantDetail) loadedPlantID() (uuid.UUID, bool) {
	s := d.State()
	if s.Plant == nil {
		return uuid.Nil, false
	}
	return s.Plant.ID, true
}

func beginLoading(s PlantDetailState) PlantDetailState {
	s.Action = loading()
	return s
}

func withFailure(err error) func(PlantDetailState) PlantDetailState {
	return func(s PlantDetailState) PlantDetailState {
		s.Action = failed(err)
		return s
	}
}
