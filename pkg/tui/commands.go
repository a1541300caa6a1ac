package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/cache"
	"github.com/PaulEvans8669/incidents/pkg/incident"
)

type updatedSummariesMsg struct {
	summaries []incident.IncidentSummary
	fromCache bool
	err       error
}

// updateSummaries fetches the incident list. force bypasses the cache
// (manual refresh and the interval poll, where the tick itself already
// spaces out requests); post-mutation background reloads leave it unset.
func updateSummaries(c api.Client, store *cache.Store, force bool) tea.Cmd {
	return func() tea.Msg {
		if !force {
			if cached, ok := store.Summaries(); ok {
				return updatedSummariesMsg{summaries: cached, fromCache: true}
			}
		}

		s, err := c.ListSummaries(context.Background())
		if err != nil {
			return updatedSummariesMsg{err: err}
		}
		store.SetSummaries(s)
		return updatedSummariesMsg{summaries: s}
	}
}

type gotIncidentMsg struct {
	id       string
	incident *incident.Incident
	err      error
}

func getIncident(c api.Client, store *cache.Store, id string, force bool) tea.Cmd {
	return func() tea.Msg {
		if !force {
			if cached, ok := store.Incident(id); ok {
				return gotIncidentMsg{id: id, incident: &cached}
			}
		}

		i, err := c.GetIncident(context.Background(), id)
		if err != nil {
			return gotIncidentMsg{id: id, err: err}
		}
		store.SetIncident(*i)
		return gotIncidentMsg{id: id, incident: i}
	}
}

type createdIncidentMsg struct {
	incident *incident.Incident
	err      error
}

func createIncident(c api.Client, store *cache.Store, req incident.CreateIncidentRequest) tea.Cmd {
	return func() tea.Msg {
		i, err := c.CreateIncident(context.Background(), req)
		if err != nil {
			return createdIncidentMsg{err: err}
		}
		store.InvalidateSummaries()
		store.SetIncident(*i)
		return createdIncidentMsg{incident: i}
	}
}

type mutatedIncidentMsg struct {
	id     string
	action string
	err    error
}

// submitUpdate sends a partial update. On success the affected cache keys
// are invalidated, never patched; the handler forces a fresh read.
func submitUpdate(c api.Client, store *cache.Store, id string, up incident.Update, action string) tea.Cmd {
	return func() tea.Msg {
		_, err := c.UpdateIncident(context.Background(), id, up)
		if err != nil {
			return mutatedIncidentMsg{id: id, action: action, err: err}
		}
		store.InvalidateIncident(id)
		store.InvalidateSummaries()
		return mutatedIncidentMsg{id: id, action: action}
	}
}

type deletedIncidentMsg struct {
	id  string
	err error
}

func deleteIncident(c api.Client, store *cache.Store, id string) tea.Cmd {
	return func() tea.Msg {
		err := c.DeleteIncident(context.Background(), id)
		if err != nil {
			return deletedIncidentMsg{id: id, err: err}
		}
		store.InvalidateIncident(id)
		store.InvalidateSummaries()
		return deletedIncidentMsg{id: id}
	}
}

type pollSummariesMsg struct{}

// pollTick drives the fixed-interval background refresh of the list view.
func pollTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return pollSummariesMsg{}
	})
}
