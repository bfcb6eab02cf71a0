// Package api implements the PlantAPI port as a typed REST client for the
// plant-watering backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PlantAPI = (*Client)(nil)

// Options configures NewClient.
type Options struct {
	BaseURL string
	// Timeout bounds each request end to end. Zero means no client timeout.
	Timeout time.Duration
	// Tokens, when set, is consulted on every request by the BearerTransport.
	Tokens TokenSource
	// Logger receives per-request debug logs. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics, when set, instruments the transport.
	Metrics *Metrics
	// Transport is the innermost round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client implements the driven.PlantAPI port over HTTP.
type Client struct {
	http    *http.Client
	baseURL *url.URL
}

// NewClient creates a new API client with the following transport stack,
// outermost first:
//  1. Prometheus instrumentation (when Metrics is set)
//  2. request logging
//  3. BearerTransport (token injection)
//  4. the base transport
func NewClient(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var rt http.RoundTripper = &BearerTransport{Tokens: opts.Tokens, Base: opts.Transport}
	rt = &loggingTransport{logger: logger, next: rt}
	if opts.Metrics != nil {
		rt = opts.Metrics.InstrumentRoundTripper(rt)
	}

	return NewClientWithHTTPClient(&http.Client{Transport: rt, Timeout: opts.Timeout}, opts.BaseURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// No token injection happens unless httpClient's transport does it.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{http: httpClient, baseURL: u}, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) (model.User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, credentialsJSON{Username: username, Password: password}, "auth", "register")
	if err != nil {
		return model.User{}, err
	}

	var out userJSON
	if err := c.do(req, &out); err != nil {
		return model.User{}, err
	}
	return mapUser(out), nil
}

// Login exchanges username and password for an access token. The body is
// form-encoded as the token endpoint expects.
func (c *Client) Login(ctx context.Context, username, password string) (model.AuthToken, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("auth", "token"), strings.NewReader(form.Encode()))
	if err != nil {
		return model.AuthToken{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var out tokenJSON
	if err := c.do(req, &out); err != nil {
		return model.AuthToken{}, err
	}
	return model.AuthToken{AccessToken: out.AccessToken, TokenType: out.TokenType}, nil
}

// CurrentUser returns the account the bearer token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, nil, "auth", "me")
	if err != nil {
		return model.User{}, err
	}

	var out userJSON
	if err := c.do(req, &out); err != nil {
		return model.User{}, err
	}
	return mapUser(out), nil
}

// ListPlants returns every plant owned by the current user.
func (c *Client) ListPlants(ctx context.Context) ([]model.Plant, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, nil, "plants")
	if err != nil {
		return nil, err
	}

	var out []plantJSON
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return mapPlants(out), nil
}

// GetPlant returns a single plant.
func (c *Client) GetPlant(ctx context.Context, id uuid.UUID) (model.Plant, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, nil, "plants", id.String())
	if err != nil {
		return model.Plant{}, err
	}

	var out plantJSON
	if err := c.do(req, &out); err != nil {
		return model.Plant{}, err
	}
	return mapPlant(out), nil
}

// CreatePlant creates a plant.
func (c *Client) CreatePlant(ctx context.Context, in model.PlantCreate) (model.Plant, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, plantCreateBody(in), "plants")
	if err != nil {
		return model.Plant{}, err
	}

	var out plantJSON
	if err := c.do(req, &out); err != nil {
		return model.Plant{}, err
	}
	return mapPlant(out), nil
}

// UpdatePlant applies a partial update to a plant.
func (c *Client) UpdatePlant(ctx context.Context, id uuid.UUID, in model.PlantUpdate) (model.Plant, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, plantUpdateBody(in), "plants", id.String())
	if err != nil {
		return model.Plant{}, err
	}

	var out plantJSON
	if err := c.do(req, &out); err != nil {
		return model.Plant{}, err
	}
	return mapPlant(out), nil
}

// DeletePlant deletes a plant.
func (c *Client) DeletePlant(ctx context.Context, id uuid.UUID) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, nil, "plants", id.String())
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// RecordWatering records a watering event.
func (c *Client) RecordWatering(ctx context.Context, in model.WateringEventCreate) (model.WateringEvent, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, wateringCreateBody(in), "watering")
	if err != nil {
		return model.WateringEvent{}, err
	}

	var out wateringJSON
	if err := c.do(req, &out); err != nil {
		return model.WateringEvent{}, err
	}
	return mapWatering(out), nil
}

// ListWateringHistory returns all watering events for a plant, newest first
// as ordered by the backend.
func (c *Client) ListWateringHistory(ctx context.Context, plantID uuid.UUID) ([]model.WateringEvent, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, nil, "watering", "plant", plantID.String())
	if err != nil {
		return nil, err
	}

	var out []wateringJSON
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return mapWaterings(out), nil
}

// GetLastWateringEvent returns the most recent watering event for a plant.
// A 204 response, or a 2xx response without a body, yields driven.ErrNoContent.
func (c *Client) GetLastWateringEvent(ctx context.Context, plantID uuid.UUID) (model.WateringEvent, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, nil, "watering", "plant", plantID.String(), "last")
	if err != nil {
		return model.WateringEvent{}, err
	}

	var out wateringJSON
	if err := c.do(req, &out); err != nil {
		if errors.Is(err, driven.ErrEmptyBody) {
			return model.WateringEvent{}, driven.ErrNoContent
		}
		return model.WateringEvent{}, err
	}
	return mapWatering(out), nil
}

// UpdateWateringEvent applies a partial update to a watering event.
func (c *Client) UpdateWateringEvent(ctx context.Context, id uuid.UUID, in model.WateringEventUpdate) (model.WateringEvent, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, wateringUpdateBody(in), "watering", id.String())
	if err != nil {
		return model.WateringEvent{}, err
	}

	var out wateringJSON
	if err := c.do(req, &out); err != nil {
		return model.WateringEvent{}, err
	}
	return mapWatering(out), nil
}

// DeleteWateringEvent deletes a watering event.
func (c *Client) DeleteWateringEvent(ctx context.Context, id uuid.UUID) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, nil, "watering", id.String())
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) endpoint(elem ...string) string {
	return c.baseURL.JoinPath(elem...).String()
}

// newJSONRequest builds a request for the given path segments. A nil body
// sends no payload.
func (c *Client) newJSONRequest(ctx context.Context, method string, body any, elem ...string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request body: %w", method, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(elem...), reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a 2xx body into v. A nil v discards the body.
// Non-2xx responses yield *driven.APIError; a 2xx response with no body
// where v expects one yields driven.ErrEmptyBody.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if v == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return driven.ErrEmptyBody
	}

	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
