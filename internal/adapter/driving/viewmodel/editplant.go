package viewmodel

import (
	"context"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// EditPlantState is the edit-plant screen's snapshot. Saved is set once an
// update has been accepted.
type EditPlantState struct {
	Action
	Plant *model.Plant
	Saved bool
}

// EditPlant is the state holder for the edit-plant screen.
type EditPlant struct {
	holder[EditPlantState]
	plants *application.PlantRepository
}

// NewEditPlant creates an EditPlant whose tasks end with ctx.
func NewEditPlant(ctx context.Context, plants *application.PlantRepository) *EditPlant {
	return &EditPlant{holder: newHolder(ctx, EditPlantState{}), plants: plants}
}

// LoadPlant fetches the plant being edited.
func (e *EditPlant) LoadPlant(id uuid.UUID) {
	e.run(
		func(s EditPlantState) EditPlantState {
			s.Action = loading()
			return s
		},
		func(ctx context.Context) func(EditPlantState) EditPlantState {
			out := e.plants.GetPlant(ctx, id)
			return func(s EditPlantState) EditPlantState {
				if !out.OK() {
					s.Action = failed(out.Err())
					return s
				}
				plant := out.Value()
				s.Action, s.Plant = succeeded(), &plant
				return s
			}
		},
	)
}

// UpdatePlant sends name, type and description. A blank description is left
// out of the request, so the stored one is kept.
func (e *EditPlant) UpdatePlant(id uuid.UUID, name, kind, description string) {
	if msg := checkForm(plantForm{Name: name, Type: kind}, "Name and type are required"); msg != "" {
		e.set(func(s EditPlantState) EditPlantState {
			s.Action = invalid(msg)
			return s
		})
		return
	}

	req := model.PlantUpdate{Name: &name, Type: &kind, Description: optional(description)}

	e.run(
		func(s EditPlantState) EditPlantState {
			s.Action, s.Saved = loading(), false
			return s
		},
		func(ctx context.Context) func(EditPlantState) EditPlantState {
			out := e.plants.UpdatePlant(ctx, id, req)
			return func(s EditPlantState) EditPlantState {
				if !out.OK() {
					s.Action = failed(out.Err())
					return s
				}
				plant := out.Value()
				s.Action, s.Plant, s.Saved = succeeded(), &plant, true
				return s
			}
		},
	)
}

// ClearError drops a displayed error.
func (e *EditPlant) ClearError() {
	e.set(func(s EditPlantState) EditPlantState {
		s.Action = s.cleared()
		return s
	})
}
