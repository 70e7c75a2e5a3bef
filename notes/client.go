// Package notes calls the remote enrichment endpoint that serves formation
// notes to authorized users.
package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-success response from the notes endpoint. Error() returns
// the remote message verbatim so callers can surface it unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Doer abstracts *http.Client for testability.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches notes over HTTP. The zero value is not usable; construct it
// with NewClient.
type Client struct {
	serviceURL string
	apiKey     string
	httpc      Doer
}

// NewClient builds a notes client for the given service URL and public client
// key. Empty values are accepted: requests then fail at the remote and the
// caller's degrade path applies.
func NewClient(serviceURL, apiKey string) *Client {
	return &Client{
		serviceURL: serviceURL,
		apiKey:     apiKey,
		httpc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(d Doer) *Client {
	c.httpc = d
	return c
}

type fetchRequest struct {
	FormationID int64 `json:"formation_id"`
}

type fetchResponse struct {
	Notes *string `json:"notes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Fetch requests the notes for a formation on behalf of the session owning
// accessToken. A non-success status yields an *APIError carrying the parsed
// remote message; transport and decode failures yield ordinary errors.
func (c *Client) Fetch(ctx context.Context, accessToken string, formationID int64) (*string, error) {
	body, err := json.Marshal(fetchRequest{FormationID: formationID})
	if err != nil {
		return nil, fmt.Errorf("notes: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/notes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notes: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notes: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var remote errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&remote); err == nil && remote.Error != "" {
			apiErr.Message = remote.Error
		} else {
			apiErr.Message = fmt.Sprintf("notes service returned status %d", resp.StatusCode)
		}
		return nil, apiErr
	}

	var payload fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("notes: decode response: %w", err)
	}

	return payload.Notes, nil
}
