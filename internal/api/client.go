package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running barberqd over HTTP using the static bearer
// token, which the server treats as owner-level access.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the given base URL, e.g. "http://127.0.0.1:8480".
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx response decoded from the uniform error body.
type APIError struct {
	StatusCode int
	Code       string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api: %s (%s, http %d)", e.Reason, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("api: %s (http %d)", e.Code, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody ErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: errBody.Error, Reason: errBody.Reason}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks daemon liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Queue fetches the full queue projection.
func (c *Client) Queue(ctx context.Context) (*QueueResponse, error) {
	var out QueueResponse
	if err := c.do(ctx, http.MethodGet, "/api/barbers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus applies a status transition to one barber.
func (c *Client) SetStatus(ctx context.Context, barberID int64, status string) (*Barber, error) {
	var out EntryResponse
	req := StatusRequest{BarberID: barberID, Status: status}
	if err := c.do(ctx, http.MethodPost, "/api/barbers/status", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Cycle advances a barber one step around the tap rotation.
func (c *Client) Cycle(ctx context.Context, barberID int64) (*Barber, error) {
	var out EntryResponse
	if err := c.do(ctx, http.MethodPost, "/api/barbers/cycle", CycleRequest{BarberID: barberID}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Reorder rewrites the queue ordering from an ordered id list.
func (c *Client) Reorder(ctx context.Context, order []int64) error {
	return c.do(ctx, http.MethodPost, "/api/barbers/order", OrderRequest{Order: order}, nil)
}

// CreateBarber adds a roster entry.
func (c *Client) CreateBarber(ctx context.Context, name, status string) (*Barber, error) {
	var out EntryResponse
	req := CreateBarberRequest{Name: name, Status: status}
	if err := c.do(ctx, http.MethodPost, "/api/barbers", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateBarber edits a roster entry.
func (c *Client) UpdateBarber(ctx context.Context, id int64, req UpdateBarberRequest) (*Barber, error) {
	var out EntryResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/barbers/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteBarber removes a roster entry.
func (c *Client) DeleteBarber(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/barbers/%d", id), nil, nil)
}

// Settings fetches the shop settings, including the TV token.
func (c *Client) Settings(ctx context.Context) (*SettingsResponse, error) {
	var out SettingsResponse
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings writes shop settings fields.
func (c *Client) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	var out SettingsResponse
	if err := c.do(ctx, http.MethodPut, "/api/settings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RotateTVToken invalidates the current TV link and returns the new token.
func (c *Client) RotateTVToken(ctx context.Context) (string, error) {
	var out TVTokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/settings/tv-token", nil, &out); err != nil {
		return "", err
	}
	return out.TVToken, nil
}

// Users fetches every staff account.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out UsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateUser adds a staff account.
func (c *Client) CreateUser(ctx context.Context, req UpsertUserRequest) (*User, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateUser edits a staff account.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpsertUserRequest) (*User, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteUser removes a staff account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}

// TVURL renders the shareable TV link for a token.
func (c *Client) TVURL(token string) string {
	return c.baseURL + "/tv?token=" + url.QueryEscape(token)
}
