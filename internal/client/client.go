// Package client mirrors the moderation API on the consumer side: it
// tracks the fetched collection together with loading, error and
// per-action pending state, and only merges changes the server has
// confirmed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spec-kit/rental-moderation/internal/api/dto"
)

// APIError is a decoded error envelope from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// State is a copy of the cached dashboard state.
type State struct {
	Listings []dto.ListingResponse
	Loading  bool
	Err      string
	Pending  map[string]bool
}

// DashboardClient is the client-side state cache over the HTTP surface.
type DashboardClient struct {
	baseURL string
	httpc   *http.Client

	mu       sync.Mutex
	token    string
	listings []dto.ListingResponse
	loading  bool
	lastErr  string
	pending  map[string]struct{}
}

// New constructs a client for the given base URL.
func New(baseURL string) *DashboardClient {
	return &DashboardClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		pending: make(map[string]struct{}),
	}
}

// SetToken stores the bearer token attached to mutating calls.
func (c *DashboardClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Login authenticates and keeps the issued token for later calls.
func (c *DashboardClient) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", dto.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Auth.Token)
	return &resp, nil
}

// FetchListings refreshes the cached collection. On failure the previous
// collection stays available and only the error is recorded.
func (c *DashboardClient) FetchListings(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.lastErr = ""
	c.mu.Unlock()

	var fetched []dto.ListingResponse
	err := c.doJSON(ctx, http.MethodGet, "/listings", nil, &fetched)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = err.Error()
		return err
	}
	c.listings = fetched
	return nil
}

// UpdateListing edits mutable fields. The cached entry changes only after
// the server confirms the update.
func (c *DashboardClient) UpdateListing(ctx context.Context, id string, fields dto.UpdateFieldsPayload) (*dto.ListingResponse, error) {
	return c.mutate(ctx, id, http.MethodPost, dto.UpdateListingRequest{ID: id, UpdatedData: fields})
}

// Approve moves a pending listing to approved.
func (c *DashboardClient) Approve(ctx context.Context, id string) (*dto.ListingResponse, error) {
	return c.mutate(ctx, id, http.MethodPut, dto.SetStatusRequest{ID: id, Status: "approved"})
}

// Reject moves a pending listing to rejected with a reason.
func (c *DashboardClient) Reject(ctx context.Context, id, reason string) (*dto.ListingResponse, error) {
	return c.mutate(ctx, id, http.MethodPut, dto.SetStatusRequest{ID: id, Status: "rejected", RejectionReason: &reason})
}

// Snapshot returns a copy of the cached state.
func (c *DashboardClient) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := State{
		Listings: append([]dto.ListingResponse(nil), c.listings...),
		Loading:  c.loading,
		Err:      c.lastErr,
		Pending:  make(map[string]bool, len(c.pending)),
	}
	for id := range c.pending {
		state.Pending[id] = true
	}
	return state
}

// IsPending reports whether an action for the listing is in flight.
func (c *DashboardClient) IsPending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

func (c *DashboardClient) mutate(ctx context.Context, id, method string, body any) (*dto.ListingResponse, error) {
	c.mu.Lock()
	c.pending[id] = struct{}{}
	c.lastErr = ""
	c.mu.Unlock()

	var resp dto.UpdatedItemResponse
	err := c.doJSON(ctx, method, "/listings", body, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if err != nil {
		c.lastErr = err.Error()
		return nil, err
	}
	c.mergeLocked(resp.UpdatedItem)
	return &resp.UpdatedItem, nil
}

// mergeLocked replaces the cached entry matching the confirmed listing.
func (c *DashboardClient) mergeLocked(updated dto.ListingResponse) {
	for i := range c.listings {
		if c.listings[i].ID == updated.ID {
			c.listings[i] = updated
			return
		}
	}
	c.listings = append(c.listings, updated)
}

func (c *DashboardClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: string(payload)}
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(payload, &envelope); jsonErr == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
