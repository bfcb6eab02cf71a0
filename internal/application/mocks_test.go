package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// --- Mock implementations ---

// memStore is an in-memory CredentialStore. Setting failDelete or failSet
// makes the matching method return that error.
type memStore struct {
	mu         sync.Mutex
	data       map[string]string
	failSet    error
	failGet    error
	failDelete error
	sets       int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Set(_ context.Context, store, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[store+"/"+key] = value
	return nil
}

func (m *memStore) Get(_ context.Context, store, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[store+"/"+key]
	return v, ok, nil
}

func (m *memStore) Delete(_ context.Context, store, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.data, store+"/"+key)
	return nil
}

func (m *memStore) value(store, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[store+"/"+key]
	return v, ok
}

var errNotMocked = errors.New("not mocked")

// mockAPI implements driven.PlantAPI. Unset function fields return
// errNotMocked so a test fails loudly when it reaches an unexpected endpoint.
type mockAPI struct {
	register       func(ctx context.Context, username, password string) (model.User, error)
	login          func(ctx context.Context, username, password string) (model.AuthToken, error)
	currentUser    func(ctx context.Context) (model.User, error)
	listPlants     func(ctx context.Context) ([]model.Plant, error)
	getPlant       func(ctx context.Context, id uuid.UUID) (model.Plant, error)
	createPlant    func(ctx context.Context, req model.PlantCreate) (model.Plant, error)
	updatePlant    func(ctx context.Context, id uuid.UUID, req model.PlantUpdate) (model.Plant, error)
	deletePlant    func(ctx context.Context, id uuid.UUID) error
	recordWatering func(ctx context.Context, req model.WateringEventCreate) (model.WateringEvent, error)
	history        func(ctx context.Context, plantID uuid.UUID) ([]model.WateringEvent, error)
	lastWatering   func(ctx context.Context, plantID uuid.UUID) (model.WateringEvent, error)
	updateEvent    func(ctx context.Context, id uuid.UUID, req model.WateringEventUpdate) (model.WateringEvent, error)
	deleteEvent    func(ctx context.Context, id uuid.UUID) error
}

var _ driven.PlantAPI = (*mockAPI)(nil)

func (m *mockAPI) Register(ctx context.Context, username, password string) (model.User, error) {
	if m.register == nil {
		return model.User{}, errNotMocked
	}
	return m.register(ctx, username, password)
}

func (m *mockAPI) Login(ctx context.Context, username, password string) (model.AuthToken, error) {
	if m.login == nil {
		return model.AuthToken{}, errNotMocked
	}
	return m.login(ctx, username, password)
}

func (m *mockAPI) CurrentUser(ctx context.Context) (model.User, error) {
	if m.currentUser == nil {
		return model.User{}, errNotMocked
	}
	return m.currentUser(ctx)
}

func (m *mockAPI) ListPlants(ctx context.Context) ([]model.Plant, error) {
	if m.listPlants == nil {
		return nil, errNotMocked
	}
	return m.listPlants(ctx)
}

func (m *mockAPI) GetPlant(ctx context.Context, id uuid.UUID) (model.Plant, error) {
	if m.getPlant == nil {
		return model.Plant{}, errNotMocked
	}
	return m.getPlant(ctx, id)
}

func (m *mockAPI) CreatePlant(ctx context.Context, req model.PlantCreate) (model.Plant, error) {
	if m.createPlant == nil {
		return model.Plant{}, errNotMocked
	}
	return m.createPlant(ctx, req)
}

func (m *mockAPI) UpdatePlant(ctx context.Context, id uuid.UUID, req model.PlantUpdate) (model.Plant, error) {
	if m.updatePlant == nil {
		return model.Plant{}, errNotMocked
	}
	return m.updatePlant(ctx, id, req)
}

func (m *mockAPI) DeletePlant(ctx context.Context, id uuid.UUID) error {
	if m.deletePlant == nil {
		return errNotMocked
	}
	return m.deletePlant(ctx, id)
}

func (m *mockAPI) RecordWatering(ctx context.Context, req model.WateringEventCreate) (model.WateringEvent, error) {
	if m.recordWatering == nil {
		return model.WateringEvent{}, errNotMocked
	}
	return m.recordWatering(ctx, req)
}

func (m *mockAPI) ListWateringHistory(ctx context.Context, plantID uuid.UUID) ([]model.WateringEvent, error) {
	if m.history == nil {
		return nil, errNotMocked
	}
	return m.history(ctx, plantID)
}

func (m *mockAPI) GetLastWateringEvent(ctx context.Context, plantID uuid.UUID) (model.WateringEvent, error) {
	if m.lastWatering == nil {
		return model.WateringEvent{}, errNotMocked
	}
	return m.lastWatering(ctx, plantID)
}

func (m *mockAPI) UpdateWateringEvent(ctx context.Context, id uuid.UUID, req model.WateringEventUpdate) (model.WateringEvent, error) {
	if m.updateEvent == nil {
		return model.WateringEvent{}, errNotMocked
	}
	return m.updateEvent(ctx, id, req)
}

func (m *mockAPI) DeleteWateringEvent(ctx context.Context, id uuid.UUID) error {
	if m.deleteEvent == nil {
		return errNotMocked
	}
	return m.deleteEvent(ctx, id)
}
