// Package api is the REST client for the incident tracker service. It
// issues the five operations the client consumes and decodes the service's
// error envelope; the transport performs a single automatic retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

const (
	requestTimeout = 15 * time.Second

	// One retry on transport errors and 5xx; reads are not retried further
	// and the UI surfaces the failure instead.
	maxRetries = 1
)

// Client is the interface the TUI talks to; it exists so tests can swap in
// a mock without a running service.
type Client interface {
	ListSummaries(ctx context.Context) ([]incident.IncidentSummary, error)
	GetIncident(ctx context.Context, id string) (*incident.Incident, error)
	CreateIncident(ctx context.Context, req incident.CreateIncidentRequest) (*incident.Incident, error)
	UpdateIncident(ctx context.Context, id string, up incident.Update) (*incident.Incident, error)
	DeleteIncident(ctx context.Context, id string) error
}

// HTTPClient implements Client against a live incident service.
type HTTPClient struct {
	baseURL string
	http    *retryablehttp.Client
}

var _ Client = (*HTTPClient)(nil)

// New returns a client rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string) *HTTPClient {
	c := retryablehttp.NewClient()
	c.RetryMax = maxRetries
	c.RetryWaitMin = 250 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = requestTimeout
	c.Logger = nil

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    c,
	}
}

func (c *HTTPClient) ListSummaries(ctx context.Context) ([]incident.IncidentSummary, error) {
	var summaries []incident.IncidentSummary
	err := c.do(ctx, http.MethodGet, "/incidents/summaries", nil, &summaries)
	if err != nil {
		return nil, fmt.Errorf("api.ListSummaries(): %w", err)
	}
	return summaries, nil
}

func (c *HTTPClient) GetIncident(ctx context.Context, id string) (*incident.Incident, error) {
	var i incident.Incident
	err := c.do(ctx, http.MethodGet, "/incidents/"+id, nil, &i)
	if err != nil {
		return nil, fmt.Errorf("api.GetIncident(): incident `%v`: %w", id, err)
	}
	return &i, nil
}

func (c *HTTPClient) CreateIncident(ctx context.Context, req incident.CreateIncidentRequest) (*incident.Incident, error) {
	var i incident.Incident
	err := c.do(ctx, http.MethodPost, "/incidents", req, &i)
	if err != nil {
		return nil, fmt.Errorf("api.CreateIncident(): %w", err)
	}
	return &i, nil
}

func (c *HTTPClient) UpdateIncident(ctx context.Context, id string, up incident.Update) (*incident.Incident, error) {
	var i incident.Incident
	err := c.do(ctx, http.MethodPatch, "/incidents/"+id, up, &i)
	if err != nil {
		return nil, fmt.Errorf("api.UpdateIncident(): incident `%v`: %w", id, err)
	}
	return &i, nil
}

func (c *HTTPClient) DeleteIncident(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/incidents/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("api.DeleteIncident(): incident `%v`: %w", id, err)
	}
	return nil
}

// errorEnvelope matches the service's error body. Validation rejections
// populate details; other failures may only set error.
type errorEnvelope struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Message = env.Error
		apiErr.Details = env.Details
	}
	return apiErr
}
