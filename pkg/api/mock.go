package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

var ErrMockError = fmt.Errorf("api.Mock(): mock error") // Used to mock errors in unit tests

// MockUpdate records one UpdateIncident call.
type MockUpdate struct {
	ID     string
	Update incident.Update
}

// MockClient implements Client against an in-memory incident map. Mutations
// behave like the real service: updates merge non-nil fields, deletes make
// later gets 404. Set Err to force every call to fail.
type MockClient struct {
	Summaries []incident.IncidentSummary
	Incidents map[string]*incident.Incident
	Err       error

	ListCalls   int
	GetCalls    []string
	CreateCalls []incident.CreateIncidentRequest
	UpdateCalls []MockUpdate
	DeleteCalls []string
}

var _ Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{Incidents: map[string]*incident.Incident{}}
}

func (m *MockClient) ListSummaries(ctx context.Context) ([]incident.IncidentSummary, error) {
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summaries, nil
}

func (m *MockClient) GetIncident(ctx context.Context, id string) (*incident.Incident, error) {
	m.GetCalls = append(m.GetCalls, id)
	if m.Err != nil {
		return nil, m.Err
	}
	i, ok := m.Incidents[id]
	if !ok {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "incident not found"}
	}
	cp := *i
	return &cp, nil
}

func (m *MockClient) CreateIncident(ctx context.Context, req incident.CreateIncidentRequest) (*incident.Incident, error) {
	m.CreateCalls = append(m.CreateCalls, req)
	if m.Err != nil {
		return nil, m.Err
	}

	i := &incident.Incident{
		ID:        fmt.Sprintf("mock-%d", len(m.CreateCalls)),
		Title:     req.Title,
		Summary:   req.Summary,
		Severity:  req.Severity,
		Status:    req.Status,
		CreatedBy: req.CreatedBy,
		CreatedAt: req.CreatedAt,
		Tags:      req.Tags,
		Timeline:  req.Timeline,
		Notes:     req.Notes,
	}
	if m.Incidents == nil {
		m.Incidents = map[string]*incident.Incident{}
	}
	m.Incidents[i.ID] = i
	cp := *i
	return &cp, nil
}

func (m *MockClient) UpdateIncident(ctx context.Context, id string, up incident.Update) (*incident.Incident, error) {
	m.UpdateCalls = append(m.UpdateCalls, MockUpdate{ID: id, Update: up})
	if m.Err != nil {
		return nil, m.Err
	}
	i, ok := m.Incidents[id]
	if !ok {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "incident not found"}
	}

	if up.Title != nil {
		i.Title = *up.Title
	}
	if up.Summary != nil {
		i.Summary = *up.Summary
	}
	if up.Severity != nil {
		i.Severity = *up.Severity
	}
	if up.Status != nil {
		i.Status = *up.Status
	}
	if up.Tags != nil {
		i.Tags = *up.Tags
	}
	if up.ResolutionNote != nil {
		i.ResolutionNote = *up.ResolutionNote
	}
	if up.ResolvedAt != nil {
		i.ResolvedAt = up.ResolvedAt
	}
	if up.Timeline != nil {
		i.Timeline = *up.Timeline
	}
	if up.Notes != nil {
		i.Notes = *up.Notes
	}

	cp := *i
	return &cp, nil
}

func (m *MockClient) DeleteIncident(ctx context.Context, id string) error {
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Incidents[id]; !ok {
		return &APIError{StatusCode: http.StatusNotFound, Message: "incident not found"}
	}
	delete(m.Incidents, id)
	return nil
}
