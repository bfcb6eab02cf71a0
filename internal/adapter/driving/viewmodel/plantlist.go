package viewmodel

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// PlantListState is the plant list screen's snapshot.
type PlantListState struct {
	Action
	Plants []model.PlantWithLastWatered
}

// PlantList is the state holder for the plant list screen.
type PlantList struct {
	holder[PlantListState]
	plants *application.PlantRepository
	auth   *application.AuthRepository
}

// NewPlantList creates a PlantList whose tasks end with ctx.
func NewPlantList(ctx context.Context, plants *application.PlantRepository, auth *application.AuthRepository) *PlantList {
	return &PlantList{holder: newHolder(ctx, PlantListState{}), plants: plants, auth: auth}
}

// LoadPlants fetches the plant list and then, one plant at a time, the most
// recent watering event of each. A failed lookup falls back to the plant's
// stored last-watered time instead of failing the list.
func (l *PlantList) LoadPlants() {
	l.run(
		func(s PlantListState) PlantListState {
			s.Action = loading()
			return s
		},
		func(ctx context.Context) func(PlantListState) PlantListState {
			out := l.plants.ListPlants(ctx)
			if !out.OK() {
				return func(s PlantListState) PlantListState {
					s.Action = failed(out.Err())
					return s
				}
			}

			rows := make([]model.PlantWithLastWatered, 0, len(out.Value()))
			for _, plant := range out.Value() {
				if ctx.Err() != nil {
					return nil
				}
				last := l.plants.LastWateringEvent(ctx, plant.ID)
				if !last.OK() {
					slog.Warn("last watering lookup failed, using stored time",
						"plant_id", plant.ID, "error", last.Err())
					rows = append(rows, model.WithLastWatered(plant, nil))
					continue
				}
				rows = append(rows, model.WithLastWatered(plant, last.Value()))
			}

			return func(PlantListState) PlantListState {
				return PlantListState{Action: succeeded(), Plants: rows}
			}
		},
	)
}

// Logout forgets the current token.
func (l *PlantList) Logout() {
	l.scope.Launch(func(ctx context.Context) {
		if err := l.auth.Logout(ctx); err != nil {
			slog.Error("logout failed", "error", err)
		}
	})
}
