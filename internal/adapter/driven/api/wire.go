package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// naiveLayout matches ISO-8601 datetimes emitted without an offset. The
// backend stores UTC, so these are read as UTC instants.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// timestamp is an ISO-8601 instant on the wire.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.ParseInLocation(naiveLayout, s, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	*t = timestamp(parsed.UTC())
	return nil
}

func stampPtr(t *time.Time) *timestamp {
	if t == nil {
		return nil
	}
	ts := timestamp(*t)
	return &ts
}

func timePtr(t *timestamp) *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

type credentialsJSON struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userJSON struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsActive bool      `json:"is_active"`
}

type tokenJSON struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type plantJSON struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description *string    `json:"description"`
	LastWatered *timestamp `json:"last_watered"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   timestamp  `json:"created_at"`
}

type plantCreateJSON struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	LastWatered timestamp `json:"last_watered"`
}

type plantUpdateJSON struct {
	Name        *string    `json:"name,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Description *string    `json:"description,omitempty"`
	LastWatered *timestamp `json:"last_watered,omitempty"`
}

type wateringJSON struct {
	ID             uuid.UUID `json:"id"`
	PlantID        uuid.UUID `json:"plant_id"`
	WateredAt      timestamp `json:"watered_at"`
	FertilizerUsed bool      `json:"fertilizer_used"`
	Notes          *string   `json:"notes"`
	CreatedAt      timestamp `json:"created_at"`
}

type wateringCreateJSON struct {
	PlantID        uuid.UUID `json:"plant_id"`
	WateredAt      timestamp `json:"watered_at"`
	FertilizerUsed bool      `json:"fertilizer_used"`
	Notes          *string   `json:"notes,omitempty"`
}

// wateringUpdateJSON omits unset fields so the backend leaves them unchanged.
type wateringUpdateJSON struct {
	FertilizerUsed *bool   `json:"fertilizer_used,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func mapUser(u userJSON) model.User {
	return model.User{ID: u.ID, Username: u.Username, IsActive: u.IsActive}
}

func mapPlant(p plantJSON) model.Plant {
	return model.Plant{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		LastWatered: timePtr(p.LastWatered),
		OwnerID:     p.OwnerID,
		CreatedAt:   time.Time(p.CreatedAt),
	}
}

func mapPlants(in []plantJSON) []model.Plant {
	out := make([]model.Plant, 0, len(in))
	for _, p := range in {
		out = append(out, mapPlant(p))
	}
	return out
}

func mapWatering(e wateringJSON) model.WateringEvent {
	return model.WateringEvent{
		ID:             e.ID,
		PlantID:        e.PlantID,
		WateredAt:      time.Time(e.WateredAt),
		FertilizerUsed: e.FertilizerUsed,
		Notes:          e.Notes,
		CreatedAt:      time.Time(e.CreatedAt),
	}
}

func mapWaterings(in []wateringJSON) []model.WateringEvent {
	out := make([]model.WateringEvent, 0, len(in))
	for _, e := range in {
		out = append(out, mapWatering(e))
	}
	return out
}

func plantCreateBody(req model.PlantCreate) plantCreateJSON {
	return plantCreateJSON{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		LastWatered: timestamp(req.LastWatered),
	}
}

func plantUpdateBody(req model.PlantUpdate) plantUpdateJSON {
	return plantUpdateJSON{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		LastWatered: stampPtr(req.LastWatered),
	}
}

func wateringCreateBody(req model.WateringEventCreate) wateringCreateJSON {
	return wateringCreateJSON{
		PlantID:        req.PlantID,
		WateredAt:      timestamp(req.WateredAt),
		FertilizerUsed: req.FertilizerUsed,
		Notes:          req.Notes,
	}
}

func wateringUpdateBody(req model.WateringEventUpdate) wateringUpdateJSON {
	return wateringUpdateJSON{
		FertilizerUsed: req.FertilizerUsed,
		Notes:          req.Notes,
	}
}
