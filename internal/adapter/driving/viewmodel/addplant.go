package viewmodel

import (
	"context"
	"strings"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// AddPlantState is the add-plant screen's snapshot. Plant is the created
// plant once the action succeeds.
type AddPlantState struct {
	Action
	Plant *model.Plant
}

// AddPlant is the state holder for the add-plant screen.
type AddPlant struct {
	holder[AddPlantState]
	plants *application.PlantRepository
	clock  application.Clock
}

// NewAddPlant creates an AddPlant whose tasks end with ctx. A nil clock
// reads the wall clock.
func NewAddPlant(ctx context.Context, plants *application.PlantRepository, clock application.Clock) *AddPlant {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &AddPlant{holder: newHolder(ctx, AddPlantState{}), plants: plants, clock: clock}
}

// AddPlant creates a plant watered as of now. A blank description is sent as
// absent.
func (a *AddPlant) AddPlant(name, kind, description string) {
	if msg := checkForm(plantForm{Name: name, Type: kind}, "Name and type are required"); msg != "" {
		a.set(func(AddPlantState) AddPlantState { return AddPlantState{Action: invalid(msg)} })
		return
	}

	req := model.PlantCreate{
		Name:        name,
		Type:        kind,
		Description: optional(description),
		LastWatered: a.clock.Now().UTC(),
	}

	a.run(
		func(AddPlantState) AddPlantState { return AddPlantState{Action: loading()} },
		func(ctx context.Context) func(AddPlantState) AddPlantState {
			out := a.plants.CreatePlant(ctx, req)
			return func(AddPlantState) AddPlantState {
				if !out.OK() {
					return AddPlantState{Action: failed(out.Err())}
				}
				plant := out.Value()
				return AddPlantState{Action: succeeded(), Plant: &plant}
			}
		},
	)
}

// ClearError drops a displayed error.
func (a *AddPlant) ClearError() {
	a.set(func(s AddPlantState) AddPlantState {
		s.Action = s.cleared()
		return s
	})
}

// optional maps a blank form value to absent.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
