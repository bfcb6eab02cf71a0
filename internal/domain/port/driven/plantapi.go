package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

var (
	// ErrEmptyBody is returned when a 2xx response carried no body where one
	// was expected.
	ErrEmptyBody = errors.New("empty response body")

	// ErrNoContent is returned by GetLastWateringEvent when the backend answers
	// 204 No Content. It is not a failure: the plant has never been watered.
	ErrNoContent = errors.New("no content")
)

// APIError is returned for any non-2xx response. Error() deliberately reports
// only the status code; Detail carries the backend's message when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error: %d", e.StatusCode)
}

// StatusCode extracts the HTTP status from err if it wraps an *APIError.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// PlantAPI defines the driven port for the remote plant-watering backend.
// Each method maps one endpoint; there is no business logic behind it.
type PlantAPI interface {
	// Auth

	Register(ctx context.Context, username, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (model.AuthToken, error)
	CurrentUser(ctx context.Context) (model.User, error)

	// Plants

	ListPlants(ctx context.Context) ([]model.Plant, error)
	GetPlant(ctx context.Context, id uuid.UUID) (model.Plant, error)
	CreatePlant(ctx context.Context, req model.PlantCreate) (model.Plant, error)
	UpdatePlant(ctx context.Context, id uuid.UUID, req model.PlantUpdate) (model.Plant, error)
	DeletePlant(ctx context.Context, id uuid.UUID) error

	// Watering

	RecordWatering(ctx context.Context, req model.WateringEventCreate) (model.WateringEvent, error)
	ListWateringHistory(ctx context.Context, plantID uuid.UUID) ([]model.WateringEvent, error)
	// GetLastWateringEvent returns ErrNoContent when the backend reports that
	// no watering event exists yet.
	GetLastWateringEvent(ctx context.Context, plantID uuid.UUID) (model.WateringEvent, error)
	UpdateWateringEvent(ctx context.Context, id uuid.UUID, req model.WateringEventUpdate) (model.WateringEvent, error)
	DeleteWateringEvent(ctx context.Context, id uuid.UUID) error
}
