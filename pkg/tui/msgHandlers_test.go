package tui

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/cache"
	"github.com/PaulEvans8669/incidents/pkg/incident"
)

func newTestModel(c api.Client) model {
	return InitialModel(Config{
		Client:       c,
		Store:        cache.New(time.Minute),
		Actor:        "amy",
		RefreshEvery: time.Minute,
	})
}

func openIncident(id string) incident.Incident {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return incident.Incident{
		ID:        id,
		Title:     "DB down",
		Summary:   "primary unreachable",
		Severity:  incident.SeverityHigh,
		Status:    incident.StatusOpen,
		CreatedBy: "amy",
		CreatedAt: created,
		Timeline: []incident.TimelineEvent{
			{ID: "evt000001", Timestamp: created, Description: "Incident created", Actor: "amy"},
		},
		Notes: []incident.Note{},
		Tags:  []string{"db"},
	}
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdatedSummariesPopulatesTable(t *testing.T) {
	m := newTestModel(api.NewMockClient())

	next, _ := m.Update(updatedSummariesMsg{summaries: []incident.IncidentSummary{
		{ID: "abc123def", Title: "DB down", Severity: incident.SeverityHigh, Status: incident.StatusOpen},
		{ID: "xyz789ghi", Title: "API latency", Severity: incident.SeverityLow, Status: incident.StatusClosed},
	}})
	m = next.(model)

	assert.False(t, m.fetching)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "abc123def", m.table.Rows()[0][0])
}

func TestStatusFilterNarrowsTable(t *testing.T) {
	m := newTestModel(api.NewMockClient())

	next, _ := m.Update(updatedSummariesMsg{summaries: []incident.IncidentSummary{
		{ID: "abc123def", Status: incident.StatusOpen},
		{ID: "xyz789ghi", Status: incident.StatusClosed},
	}})
	m = next.(model)
	require.Len(t, m.table.Rows(), 2)

	// First press of 's' cycles from "all" to OPEN
	next, _ = m.Update(keyRunes('s'))
	m = next.(model)

	assert.Equal(t, "OPEN", m.filter.Status)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "abc123def", m.table.Rows()[0][0])

	// 'c' clears every predicate without re-fetching
	next, _ = m.Update(keyRunes('c'))
	m = next.(model)
	assert.Len(t, m.table.Rows(), 2)
}

func TestGotIncidentDropsStaleResponse(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeDetail
	m.selectedID = "abc123def"

	other := openIncident("xyz789ghi")
	next, _ := m.Update(gotIncidentMsg{id: "xyz789ghi", incident: &other})
	m = next.(model)

	assert.Nil(t, m.selected)
}

func TestGotIncidentNotFound(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeDetail
	m.selectedID = "abc123def"

	next, _ := m.Update(gotIncidentMsg{
		id:  "abc123def",
		err: &api.APIError{StatusCode: http.StatusNotFound, Message: "incident not found"},
	})
	m = next.(model)

	assert.Equal(t, modeNotFound, m.mode)
	assert.Nil(t, m.err)
}

func TestQuickResolveFlow(t *testing.T) {
	mc := api.NewMockClient()
	inc := openIncident("abc123def")
	mc.Incidents["abc123def"] = &inc

	m := newTestModel(mc)
	m.mode = modeResolve
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel
	m.entry.SetValue("failover completed")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)
	assert.True(t, m.mutating)

	msg := cmd()
	mutated, ok := msg.(mutatedIncidentMsg)
	require.True(t, ok)
	assert.NoError(t, mutated.err)

	require.Len(t, mc.UpdateCalls, 1)
	up := mc.UpdateCalls[0].Update
	assert.Equal(t, incident.StatusResolved, *up.Status)
	assert.Equal(t, "failover completed", *up.ResolutionNote)
	assert.NotNil(t, up.ResolvedAt)

	next, _ = m.Update(msg)
	m = next.(model)
	assert.Equal(t, modeDetail, m.mode)
	assert.False(t, m.mutating)
	assert.True(t, m.fetching)
	assert.Empty(t, m.entry.Value())
}

func TestQuickResolveRequiresNote(t *testing.T) {
	mc := api.NewMockClient()
	m := newTestModel(mc)
	m.mode = modeResolve
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel
	m.entry.SetValue("   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	// Nothing was sent; the user stays in the resolve prompt
	assert.Nil(t, cmd)
	assert.Equal(t, modeResolve, m.mode)
	assert.False(t, m.mutating)
	assert.Empty(t, mc.UpdateCalls)
}

func TestResolveUnavailableWhenResolved(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeDetail
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	sel.Status = incident.StatusResolved
	m.selected = &sel

	next, _ := m.Update(keyRunes('r'))
	m = next.(model)

	assert.Equal(t, modeDetail, m.mode)
	assert.Contains(t, m.status, "already")
}

func TestCreateValidationFailureStaysLocal(t *testing.T) {
	mc := api.NewMockClient()
	m := newTestModel(mc)
	m.mode = modeCreate
	m.form = newCreateForm()
	m.form.summary.SetValue("primary unreachable")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)

	// Empty title blocks submission before any network call
	assert.Nil(t, cmd)
	assert.Equal(t, modeCreate, m.mode)
	assert.Empty(t, mc.CreateCalls)
	assert.Equal(t, "Title is required", m.form.errs["title"])
	assert.NotContains(t, m.form.errs, "summary")
}

func TestCreateFlow(t *testing.T) {
	mc := api.NewMockClient()
	m := newTestModel(mc)
	m.mode = modeCreate
	m.form = newCreateForm()
	m.form.title.SetValue("DB down")
	m.form.summary.SetValue("primary unreachable")
	m.form.tags.SetValue("db, db, prod")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	require.NotNil(t, cmd)
	assert.True(t, m.mutating)

	msg := cmd()
	created, ok := msg.(createdIncidentMsg)
	require.True(t, ok)
	require.NoError(t, created.err)

	require.Len(t, mc.CreateCalls, 1)
	req := mc.CreateCalls[0]
	assert.Equal(t, "DB down", req.Title)
	assert.Equal(t, incident.SeverityMedium, req.Severity)
	assert.Equal(t, incident.StatusOpen, req.Status)
	assert.Equal(t, []string{"db", "prod"}, req.Tags)
	assert.Equal(t, "amy", req.CreatedBy)
	require.Len(t, req.Timeline, 1)
	assert.Equal(t, "Incident created", req.Timeline[0].Description)

	next, _ = m.Update(msg)
	m = next.(model)
	assert.Equal(t, modeDetail, m.mode)
	assert.Equal(t, created.incident.ID, m.selectedID)
}

func TestCreateBackendValidationMapsToForm(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeCreate
	m.form = newCreateForm()
	m.mutating = true

	next, _ := m.Update(createdIncidentMsg{err: &api.APIError{
		StatusCode: http.StatusBadRequest,
		Details:    []string{"severity: unknown value"},
	}})
	m = next.(model)

	assert.Equal(t, modeCreate, m.mode)
	assert.False(t, m.mutating)
	assert.Equal(t, "unknown value", m.form.errs["severity"])
}

func TestDeleteFlow(t *testing.T) {
	mc := api.NewMockClient()
	inc := openIncident("abc123def")
	mc.Incidents["abc123def"] = &inc

	m := newTestModel(mc)
	m.mode = modeConfirmDelete
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel

	next, cmd := m.Update(keyRunes('y'))
	m = next.(model)
	require.NotNil(t, cmd)

	msg := cmd()
	deleted, ok := msg.(deletedIncidentMsg)
	require.True(t, ok)
	require.NoError(t, deleted.err)
	assert.Equal(t, []string{"abc123def"}, mc.DeleteCalls)

	next, _ = m.Update(msg)
	m = next.(model)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.selectedID)
	assert.Nil(t, m.selected)
}

func TestDeleteDeclined(t *testing.T) {
	mc := api.NewMockClient()
	m := newTestModel(mc)
	m.mode = modeConfirmDelete
	m.selectedID = "abc123def"

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)

	assert.Nil(t, cmd)
	assert.Equal(t, modeDetail, m.mode)
	assert.Empty(t, mc.DeleteCalls)
}

func TestAddEventFlow(t *testing.T) {
	mc := api.NewMockClient()
	inc := openIncident("abc123def")
	mc.Incidents["abc123def"] = &inc

	m := newTestModel(mc)
	m.mode = modeEvent
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel
	m.entry.SetValue("failover started")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, mutatedIncidentMsg{}, msg)

	require.Len(t, mc.UpdateCalls, 1)
	up := mc.UpdateCalls[0].Update
	require.NotNil(t, up.Timeline)
	// Whole-collection replacement: existing entry plus the new one
	require.Len(t, *up.Timeline, 2)
	added := (*up.Timeline)[1]
	assert.Equal(t, "failover started", added.Description)
	assert.Equal(t, "amy", added.Actor)
	assert.Len(t, added.ID, 9)
	assert.Nil(t, up.Notes)
	assert.Nil(t, up.Status)
}

func TestEditFlowSubmitsOnlyEditableFields(t *testing.T) {
	mc := api.NewMockClient()
	inc := openIncident("abc123def")
	mc.Incidents["abc123def"] = &inc

	m := newTestModel(mc)
	m.mode = modeDetail
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel

	// Enter edit mode, change the title, save
	next, _ := m.Update(keyRunes('e'))
	m = next.(model)
	require.Equal(t, modeEdit, m.mode)
	require.NotNil(t, m.draft)

	m.form.title.SetValue("DB down again")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	require.NotNil(t, cmd)

	_ = cmd()
	require.Len(t, mc.UpdateCalls, 1)
	up := mc.UpdateCalls[0].Update
	assert.Equal(t, "DB down again", *up.Title)
	assert.Nil(t, up.ResolvedAt)
	assert.Nil(t, up.Timeline)
	assert.Nil(t, up.Notes)
}

func TestEditCancelDiscardsDraft(t *testing.T) {
	mc := api.NewMockClient()
	m := newTestModel(mc)
	m.mode = modeDetail
	m.selectedID = "abc123def"
	sel := openIncident("abc123def")
	m.selected = &sel

	next, _ := m.Update(keyRunes('e'))
	m = next.(model)
	require.Equal(t, modeEdit, m.mode)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)

	assert.Equal(t, modeDetail, m.mode)
	assert.Nil(t, m.draft)
	assert.Empty(t, mc.UpdateCalls)
}

func TestLateMutationKeepsCurrentView(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeList
	m.selectedID = ""
	m.mutating = true

	// The user backed out to the list before the resolve round-trip
	// finished; the saved result must not pull them into an empty
	// detail view.
	next, _ := m.Update(mutatedIncidentMsg{id: "abc123def", action: "resolve"})
	m = next.(model)

	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.fetching)
	assert.False(t, m.mutating)
	assert.Contains(t, m.status, "saved")
}

func TestLateMutationFailureKeepsCurrentView(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeList
	m.selectedID = ""
	m.mutating = true

	next, _ := m.Update(mutatedIncidentMsg{id: "abc123def", action: "resolve", err: api.ErrMockError})
	m = next.(model)

	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.status, "failed")
}

func TestLateDeleteKeepsCurrentView(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeList
	m.selectedID = ""
	m.mutating = true

	next, _ := m.Update(deletedIncidentMsg{id: "abc123def"})
	m = next.(model)

	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.fetching)
	assert.Empty(t, m.selectedID)
}

func TestPollOnlyFetchesOnListView(t *testing.T) {
	m := newTestModel(api.NewMockClient())

	m.mode = modeDetail
	next, _ := m.Update(pollSummariesMsg{})
	m = next.(model)
	assert.False(t, m.fetching)

	m.mode = modeList
	next, _ = m.Update(pollSummariesMsg{})
	m = next.(model)
	assert.True(t, m.fetching)
}

func TestPollBypassesFreshSummariesCache(t *testing.T) {
	mc := api.NewMockClient()
	mc.Summaries = []incident.IncidentSummary{{ID: "abc123def", Status: incident.StatusOpen}}

	m := newTestModel(mc)
	m.refreshEvery = time.Millisecond
	m.mode = modeList
	m.store.SetSummaries([]incident.IncidentSummary{{ID: "abc123def", Status: incident.StatusOpen}})

	next, cmd := m.Update(pollSummariesMsg{})
	m = next.(model)
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	// The poll fires once per interval, so its fetch must reach the
	// service even while the cached list is still within its TTL.
	var got updatedSummariesMsg
	for _, c := range batch {
		if msg, ok := c().(updatedSummariesMsg); ok {
			got = msg
		}
	}

	assert.Equal(t, 1, mc.ListCalls)
	assert.False(t, got.fromCache)
}

func TestSearchFiltersAsTyped(t *testing.T) {
	m := newTestModel(api.NewMockClient())

	next, _ := m.Update(updatedSummariesMsg{summaries: []incident.IncidentSummary{
		{ID: "abc123def", Title: "DB down", Status: incident.StatusOpen},
		{ID: "xyz789ghi", Title: "API latency", Status: incident.StatusOpen},
	}})
	m = next.(model)

	next, _ = m.Update(keyRunes('/'))
	m = next.(model)
	require.Equal(t, modeSearch, m.mode)

	next, _ = m.Update(keyRunes('d'))
	m = next.(model)
	next, _ = m.Update(keyRunes('b'))
	m = next.(model)

	assert.Equal(t, "db", m.filter.Query)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "abc123def", m.table.Rows()[0][0])
}
