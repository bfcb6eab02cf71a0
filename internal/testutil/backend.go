// Package testutil provides an in-memory stand-in for the plant-watering
// backend, for tests that exercise the client end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// wireTime mimics the backend, which emits naive UTC datetimes.
const wireTime = "2006-01-02T15:04:05.999999"

const signingKey = "fake-backend-secret"

type user struct {
	ID       uuid.UUID
	Username string
	Password string
}

type plant struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Description *string
	LastWatered *time.Time
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

type event struct {
	ID             uuid.UUID
	PlantID        uuid.UUID
	WateredAt      time.Time
	FertilizerUsed bool
	Notes          *string
	CreatedAt      time.Time
}

// Backend is a fake of the REST backend. It keeps all state in memory and
// enforces bearer authentication on everything outside /auth/register and
// /auth/token.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]*user
	plants   map[uuid.UUID]*plant
	events   map[uuid.UUID]*event
	failures map[string]int
	calls    map[string]int
	now      func() time.Time
}

// NewBackend starts a fake backend that is shut down when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		users:    make(map[string]*user),
		plants:   make(map[uuid.UUID]*plant),
		events:   make(map[uuid.UUID]*event),
		failures: make(map[string]int),
		calls:    make(map[string]int),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", b.register)
	mux.HandleFunc("POST /auth/token", b.token)
	mux.HandleFunc("GET /auth/me", b.authed(b.me))
	mux.HandleFunc("GET /plants", b.authed(b.listPlants))
	mux.HandleFunc("POST /plants", b.authed(b.createPlant))
	mux.HandleFunc("GET /plants/{id}", b.authed(b.getPlant))
	mux.HandleFunc("PUT /plants/{id}", b.authed(b.updatePlant))
	mux.HandleFunc("DELETE /plants/{id}", b.authed(b.deletePlant))
	mux.HandleFunc("POST /watering", b.authed(b.recordWatering))
	mux.HandleFunc("GET /watering/plant/{id}", b.authed(b.history))
	mux.HandleFunc("GET /watering/plant/{id}/last", b.authed(b.lastWatering))
	mux.HandleFunc("PUT /watering/{id}", b.authed(b.updateWatering))
	mux.HandleFunc("DELETE /watering/{id}", b.authed(b.deleteWatering))

	b.Server = httptest.NewServer(b.intercept(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Fail makes every request matching method and path answer status until
// Recover is called. Path may end in "*" to match a prefix.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = status
}

// Recover clears all injected failures.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}

// Calls returns how many requests matched "METHOD path" exactly.
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

// AddUser creates an account directly, bypassing the register endpoint.
func (b *Backend) AddUser(username, password string) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &user{ID: uuid.New(), Username: username, Password: password}
	b.users[username] = u
	return u.ID
}

// AddPlant stores a plant for owner directly and returns its ID.
func (b *Backend) AddPlant(owner uuid.UUID, name, kind string, lastWatered *time.Time) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &plant{ID: uuid.New(), Name: name, Type: kind, LastWatered: lastWatered, OwnerID: owner, CreatedAt: b.now().UTC()}
	b.plants[p.ID] = p
	return p.ID
}

// AddWatering stores a watering event directly and returns its ID.
func (b *Backend) AddWatering(plantID uuid.UUID, wateredAt time.Time, fertilizer bool) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := &event{ID: uuid.New(), PlantID: plantID, WateredAt: wateredAt.UTC(), FertilizerUsed: fertilizer, CreatedAt: b.now().UTC()}
	b.events[e.ID] = e
	return e.ID
}

// Event returns a copy of a stored watering event's fertilizer flag and notes.
func (b *Backend) Event(id uuid.UUID) (fertilizer bool, notes *string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[id]
	if !ok {
		return false, nil, false
	}
	return e.FertilizerUsed, e.Notes, true
}

// PlantCount returns the number of stored plants.
func (b *Backend) PlantCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.plants)
}

func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		key := r.Method + " " + r.URL.Path
		b.calls[key]++
		status, failing := b.failures[key]
		if !failing {
			for pattern, s := range b.failures {
				if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasPrefix(key, prefix) {
					status, failing = s, true
					break
				}
			}
		}
		b.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(next func(http.ResponseWriter, *http.Request, *user)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return []byte(signingKey), nil
		})
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}

		b.mu.Lock()
		u, ok := b.users[claims.Subject]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r, u)
	}
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		writeValidation(w, "username", "field required")
		return
	}

	b.mu.Lock()
	if _, exists := b.users[in.Username]; exists {
		b.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
		return
	}
	u := &user{ID: uuid.New(), Username: in.Username, Password: in.Password}
	b.users[in.Username] = u
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, userBody(u))
}

func (b *Backend) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeValidation(w, "username", "field required")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	b.mu.Lock()
	u, ok := b.users[username]
	b.mu.Unlock()
	if !ok || u.Password != password {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}

	now := b.now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		ID:        uuid.NewString(),
	}).SignedString([]byte(signingKey))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": signed, "token_type": "bearer"})
}

func (b *Backend) me(w http.ResponseWriter, _ *http.Request, u *user) {
	writeJSON(w, http.StatusOK, userBody(u))
}

func (b *Backend) listPlants(w http.ResponseWriter, _ *http.Request, u *user) {
	b.mu.Lock()
	out := make([]map[string]any, 0)
	owned := make([]*plant, 0)
	for _, p := range b.plants {
		if p.OwnerID == u.ID {
			owned = append(owned, p)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })
	for _, p := range owned {
		out = append(out, plantBody(p))
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createPlant(w http.ResponseWriter, r *http.Request, u *user) {
	var in struct {
		Name        string     `json:"name"`
		Type        string     `json:"type"`
		Description *string    `json:"description"`
		LastWatered *time.Time `json:"last_watered"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" || in.Type == "" {
		writeValidation(w, "name", "field required")
		return
	}

	b.mu.Lock()
	for _, p := range b.plants {
		if p.OwnerID == u.ID && p.Name == in.Name {
			b.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Plant with this name already exists"})
			return
		}
	}
	p := &plant{
		ID:          uuid.New(),
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		LastWatered: utcPtr(in.LastWatered),
		OwnerID:     u.ID,
		CreatedAt:   b.now().UTC(),
	}
	b.plants[p.ID] = p
	body := plantBody(p)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) getPlant(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	p := b.ownedPlant(r.PathValue("id"), u)
	var body map[string]any
	if p != nil {
		body = plantBody(p)
	}
	b.mu.Unlock()

	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Plant not found"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) updatePlant(w http.ResponseWriter, r *http.Request, u *user) {
	var in struct {
		Name        *string    `json:"name"`
		Type        *string    `json:"type"`
		Description *string    `json:"description"`
		LastWatered *time.Time `json:"last_watered"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeValidation(w, "body", "invalid json")
		return
	}

	b.mu.Lock()
	p := b.ownedPlant(r.PathValue("id"), u)
	if p == nil {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Plant not found"})
		return
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.LastWatered != nil {
		p.LastWatered = utcPtr(in.LastWatered)
	}
	body := plantBody(p)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) deletePlant(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	p := b.ownedPlant(r.PathValue("id"), u)
	if p != nil {
		delete(b.plants, p.ID)
		for id, e := range b.events {
			if e.PlantID == p.ID {
				delete(b.events, id)
			}
		}
	}
	b.mu.Unlock()

	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Plant not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) recordWatering(w http.ResponseWriter, r *http.Request, u *user) {
	var in struct {
		PlantID        string     `json:"plant_id"`
		WateredAt      *time.Time `json:"watered_at"`
		FertilizerUsed bool       `json:"fertilizer_used"`
		Notes          *string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeValidation(w, "plant_id", "field required")
		return
	}

	b.mu.Lock()
	p := b.ownedPlant(in.PlantID, u)
	if p == nil {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Plant not found"})
		return
	}
	wateredAt := b.now().UTC()
	if in.WateredAt != nil {
		wateredAt = in.WateredAt.UTC()
	}
	e := &event{
		ID:             uuid.New(),
		PlantID:        p.ID,
		WateredAt:      wateredAt,
		FertilizerUsed: in.FertilizerUsed,
		Notes:          in.Notes,
		CreatedAt:      b.now().UTC(),
	}
	b.events[e.ID] = e
	body := eventBody(e)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) history(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	events := b.plantEvents(r.PathValue("id"), u)
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, eventBody(e))
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) lastWatering(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	events := b.plantEvents(r.PathValue("id"), u)
	var body map[string]any
	if len(events) > 0 {
		body = eventBody(events[0])
	}
	b.mu.Unlock()

	if body == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) updateWatering(w http.ResponseWriter, r *http.Request, u *user) {
	var in struct {
		FertilizerUsed *bool   `json:"fertilizer_used"`
		Notes          *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeValidation(w, "body", "invalid json")
		return
	}

	b.mu.Lock()
	e := b.ownedEvent(r.PathValue("id"), u)
	if e == nil {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Watering event not found"})
		return
	}
	if in.FertilizerUsed != nil {
		e.FertilizerUsed = *in.FertilizerUsed
	}
	if in.Notes != nil {
		e.Notes = in.Notes
	}
	body := eventBody(e)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) deleteWatering(w http.ResponseWriter, r *http.Request, u *user) {
	b.mu.Lock()
	e := b.ownedEvent(r.PathValue("id"), u)
	if e != nil {
		delete(b.events, e.ID)
	}
	b.mu.Unlock()

	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Watering event not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPlant must be called with b.mu held.
func (b *Backend) ownedPlant(rawID string, u *user) *plant {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	p, ok := b.plants[id]
	if !ok || p.OwnerID != u.ID {
		return nil
	}
	return p
}

// ownedEvent must be called with b.mu held.
func (b *Backend) ownedEvent(rawID string, u *user) *event {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	e, ok := b.events[id]
	if !ok {
		return nil
	}
	if p, ok := b.plants[e.PlantID]; !ok || p.OwnerID != u.ID {
		return nil
	}
	return e
}

// plantEvents returns a plant's events newest first. Must be called with b.mu held.
func (b *Backend) plantEvents(rawID string, u *user) []*event {
	p := b.ownedPlant(rawID, u)
	if p == nil {
		return nil
	}
	var out []*event
	for _, e := range b.events {
		if e.PlantID == p.ID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WateredAt.After(out[j].WateredAt) })
	return out
}

func userBody(u *user) map[string]any {
	return map[string]any{"id": u.ID.String(), "username": u.Username, "is_active": true}
}

func plantBody(p *plant) map[string]any {
	var lastWatered any
	if p.LastWatered != nil {
		lastWatered = p.LastWatered.Format(wireTime)
	}
	return map[string]any{
		"id":           p.ID.String(),
		"name":         p.Name,
		"type":         p.Type,
		"description":  p.Description,
		"last_watered": lastWatered,
		"owner_id":     p.OwnerID.String(),
		"created_at":   p.CreatedAt.Format(wireTime),
	}
}

func eventBody(e *event) map[string]any {
	return map[string]any{
		"id":              e.ID.String(),
		"plant_id":        e.PlantID.String(),
		"watered_at":      e.WateredAt.Format(wireTime),
		"fertilizer_used": e.FertilizerUsed,
		"notes":           e.Notes,
		"created_at":      e.CreatedAt.Format(time.RFC3339Nano),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{
			{"loc": []string{"body", field}, "msg": msg, "type": fmt.Sprintf("value_error.%s", strings.ReplaceAll(msg, " ", "_"))},
		},
	})
}
