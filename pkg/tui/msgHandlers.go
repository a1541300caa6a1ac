package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/incident"
)

const (
	loadingIncidentsStatus = "loading incidents..."
	loadingIncidentStatus  = "loading incident..."
	savingStatus           = "saving..."
	noIncidentSelected     = "no incident highlighted"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.windowSizeMsgHandler(msg)

	case tea.KeyMsg:
		return m.keyMsgHandler(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollSummariesMsg:
		return m.pollSummariesMsgHandler()

	case updatedSummariesMsg:
		return m.updatedSummariesMsgHandler(msg)

	case gotIncidentMsg:
		return m.gotIncidentMsgHandler(msg)

	case createdIncidentMsg:
		return m.createdIncidentMsgHandler(msg)

	case mutatedIncidentMsg:
		return m.mutatedIncidentMsgHandler(msg)

	case deletedIncidentMsg:
		return m.deletedIncidentMsgHandler(msg)
	}

	return m, nil
}

// windowSizeMsgHandler resizes the tui according to the new terminal
// window size.
func (m model) windowSizeMsgHandler(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	windowSize = msg
	borderEdges := 4

	m.help.Width = msg.Width - borderEdges

	width := msg.Width - borderEdges
	m.table.SetColumns([]table.Column{
		{Title: "ID", Width: width / 8},
		{Title: "Title", Width: width * 3 / 8},
		{Title: "Severity", Width: width / 8},
		{Title: "Status", Width: width / 8},
		{Title: "Tags", Width: width / 4},
	})
	m.table.SetHeight(msg.Height - 9)

	m.viewport.Width = width
	m.viewport.Height = msg.Height - 9

	return m, nil
}

// pollSummariesMsgHandler fires on the fixed refresh interval. The tick is
// always rescheduled, but a fetch only happens while the list is the
// active view.
func (m model) pollSummariesMsgHandler() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{pollTick(m.refreshEvery)}

	if m.mode == modeList || m.mode == modeSearch {
		m.fetching = true
		if len(m.summaries) == 0 {
			m.setStatus(loadingIncidentsStatus)
		}
		// The tick fires once per refresh interval, so the poll always goes
		// to the service; serving the cache here would stretch the effective
		// refresh cadence toward twice the interval.
		cmds = append(cmds, updateSummaries(m.client, m.store, true))
	}

	return m, tea.Batch(cmds...)
}

func (m model) updatedSummariesMsgHandler(msg updatedSummariesMsg) (tea.Model, tea.Cmd) {
	m.fetching = false

	if msg.err != nil {
		log.Error("updatedSummariesMsgHandler", "error", msg.err)
		if len(m.summaries) == 0 {
			// Nothing to show; surface the page-level error state
			m.err = msg.err
			return m, nil
		}
		m.setStatus("refresh failed: " + msg.err.Error())
		return m, nil
	}

	m.summaries = msg.summaries
	m.applyFilter()

	source := ""
	if msg.fromCache {
		source = " (cached)"
	}
	m.setStatus(fmt.Sprintf("showing %d of %d incidents%s", len(m.table.Rows()), len(m.summaries), source))
	return m, nil
}

func (m model) gotIncidentMsgHandler(msg gotIncidentMsg) (tea.Model, tea.Cmd) {
	// A response for an incident the user has navigated away from is
	// simply not rendered.
	if msg.id != m.selectedID {
		log.Debug("gotIncidentMsgHandler", "stale response for", msg.id, "selected", m.selectedID)
		return m, nil
	}

	m.fetching = false

	if msg.err != nil {
		if api.IsNotFound(msg.err) {
			m.mode = modeNotFound
			return m, nil
		}
		m.err = msg.err
		return m, nil
	}

	m.selected = msg.incident
	m.renderDetail()
	m.setStatus("viewing " + msg.incident.ID)
	return m, nil
}

func (m model) createdIncidentMsgHandler(msg createdIncidentMsg) (tea.Model, tea.Cmd) {
	m.mutating = false

	if msg.err != nil {
		log.Error("createdIncidentMsgHandler", "error", msg.err)
		// Backend field validation maps back onto the form; the user's
		// input is preserved either way.
		var apiErr *api.APIError
		if api.IsValidation(msg.err) && errors.As(msg.err, &apiErr) {
			m.form.errs = apiErr.FieldErrors()
			m.setStatus("validation failed")
			return m, nil
		}
		m.setStatus("create failed: " + msg.err.Error())
		return m, nil
	}

	m.selectedID = msg.incident.ID
	m.selected = msg.incident
	m.mode = modeDetail
	m.renderDetail()
	m.setStatus("created " + msg.incident.ID)

	// The list was invalidated by the create; reload it in the background
	return m, updateSummaries(m.client, m.store, false)
}

func (m model) mutatedIncidentMsgHandler(msg mutatedIncidentMsg) (tea.Model, tea.Cmd) {
	m.mutating = false

	// The user has navigated away from this incident; don't yank them back
	// into the detail view. The cache was already invalidated, so a
	// background list reload is all that is left to do.
	if msg.id != m.selectedID {
		log.Debug("mutatedIncidentMsgHandler", "stale response for", msg.id, "selected", m.selectedID)
		if msg.err != nil {
			m.setStatus(msg.action + " failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus(msg.action + " saved")
		return m, updateSummaries(m.client, m.store, false)
	}

	if msg.err != nil {
		log.Error("mutatedIncidentMsgHandler", "action", msg.action, "error", msg.err)
		// Failed mutations leave the editing state intact so the user can
		// correct and resubmit.
		var apiErr *api.APIError
		if m.mode == modeEdit && api.IsValidation(msg.err) && errors.As(msg.err, &apiErr) {
			m.form.errs = apiErr.FieldErrors()
			m.setStatus("validation failed")
			return m, nil
		}
		m.setStatus(msg.action + " failed: " + msg.err.Error())
		return m, nil
	}

	// Success: leave any sub-mode, drop the draft, and force fresh reads
	// of the record and the list (both were invalidated).
	m.draft = nil
	m.entry.SetValue("")
	m.entry.Blur()
	m.mode = modeDetail
	m.fetching = true
	m.setStatus(msg.action + " saved")

	return m, tea.Batch(
		getIncident(m.client, m.store, msg.id, true),
		updateSummaries(m.client, m.store, false),
	)
}

func (m model) deletedIncidentMsgHandler(msg deletedIncidentMsg) (tea.Model, tea.Cmd) {
	m.mutating = false

	// Same staleness rule as mutations: a late delete response must not
	// change whatever view the user moved on to.
	if msg.id != m.selectedID {
		log.Debug("deletedIncidentMsgHandler", "stale response for", msg.id, "selected", m.selectedID)
		if msg.err != nil {
			m.setStatus("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus("deleted " + msg.id)
		return m, updateSummaries(m.client, m.store, false)
	}

	if msg.err != nil {
		log.Error("deletedIncidentMsgHandler", "error", msg.err)
		m.mode = modeDetail
		m.setStatus("delete failed: " + msg.err.Error())
		return m, nil
	}

	m.clearSelected("deleted " + msg.id)
	m.fetching = true
	m.setStatus("deleted " + msg.id)
	return m, updateSummaries(m.client, m.store, false)
}

func (m model) keyMsgHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if key.Matches(msg, defaultKeyMap.Quit) && !m.typing() {
		return m, tea.Quit
	}

	if m.err != nil {
		return m.errorKeyHandler(msg)
	}

	switch m.mode {
	case modeList:
		return m.listKeyHandler(msg)
	case modeSearch:
		return m.searchKeyHandler(msg)
	case modeDetail:
		return m.detailKeyHandler(msg)
	case modeNotFound:
		return m.notFoundKeyHandler(msg)
	case modeCreate, modeEdit:
		return m.formKeyHandler(msg)
	case modeResolve, modeEvent, modeNote:
		return m.entryKeyHandler(msg)
	case modeConfirmDelete:
		return m.confirmDeleteKeyHandler(msg)
	}

	return m, nil
}

// typing reports whether a text field currently owns the keyboard, so
// plain letters must not trigger bindings.
func (m model) typing() bool {
	switch m.mode {
	case modeSearch, modeResolve, modeEvent, modeNote:
		return true
	case modeCreate, modeEdit:
		return !m.form.onSelector()
	}
	return false
}

func (m model) errorKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeyMap.Back) {
		m.err = nil
	}
	return m, nil
}

func (m model) listKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()

	case key.Matches(msg, defaultKeyMap.Up):
		m.table.MoveUp(1)

	case key.Matches(msg, defaultKeyMap.Down):
		m.table.MoveDown(1)

	case key.Matches(msg, defaultKeyMap.Top):
		m.table.GotoTop()

	case key.Matches(msg, defaultKeyMap.Bottom):
		m.table.GotoBottom()

	case key.Matches(msg, defaultKeyMap.Refresh):
		m.fetching = true
		m.setStatus(loadingIncidentsStatus)
		return m, updateSummaries(m.client, m.store, true)

	case key.Matches(msg, defaultKeyMap.Search):
		m.mode = modeSearch
		return m, m.search.Focus()

	case key.Matches(msg, defaultKeyMap.StatusFilter):
		m.cycleStatusFilter()

	case key.Matches(msg, defaultKeyMap.SeverityFilter):
		m.cycleSeverityFilter()

	case key.Matches(msg, defaultKeyMap.ClearFilters):
		m.clearFilters()

	case key.Matches(msg, defaultKeyMap.New):
		m.form = newCreateForm()
		m.mode = modeCreate

	case key.Matches(msg, defaultKeyMap.Enter):
		id := m.highlightedID()
		if id == "" {
			m.setStatus(noIncidentSelected)
			return m, nil
		}
		m.selectedID = id
		m.selected = nil
		m.mode = modeDetail
		m.fetching = true
		m.setStatus(loadingIncidentStatus)
		return m, getIncident(m.client, m.store, id, false)
	}

	return m, nil
}

func (m model) searchKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Back), key.Matches(msg, defaultKeyMap.Enter):
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Filtering recomputes on every keystroke, entirely client-local
	m.filter.Query = m.search.Value()
	m.applyFilter()
	return m, cmd
}

func (m model) detailKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()

	case key.Matches(msg, defaultKeyMap.Back):
		m.clearSelected("user went back")
		return m, nil

	case key.Matches(msg, defaultKeyMap.Refresh):
		m.fetching = true
		m.setStatus(loadingIncidentStatus)
		return m, getIncident(m.client, m.store, m.selectedID, true)

	case key.Matches(msg, defaultKeyMap.Edit):
		if m.selected == nil {
			return m, nil
		}
		d := incident.NewDraft(*m.selected)
		m.draft = &d
		m.form = newEditForm(d)
		m.mode = modeEdit
		return m, nil

	case key.Matches(msg, defaultKeyMap.Resolve):
		if m.selected == nil {
			return m, nil
		}
		// Quick resolve is unavailable once resolved or closed
		if m.selected.Status == incident.StatusResolved || m.selected.Status == incident.StatusClosed {
			m.setStatus("incident is already " + m.selected.Status.Display())
			return m, nil
		}
		m.entry.Placeholder = "Add resolution notes..."
		m.mode = modeResolve
		return m, m.entry.Focus()

	case key.Matches(msg, defaultKeyMap.AddEvent):
		if m.selected == nil {
			return m, nil
		}
		m.entry.Placeholder = "What happened?"
		m.mode = modeEvent
		return m, m.entry.Focus()

	case key.Matches(msg, defaultKeyMap.AddNote):
		if m.selected == nil {
			return m, nil
		}
		m.entry.Placeholder = "Add a note..."
		m.mode = modeNote
		return m, m.entry.Focus()

	case key.Matches(msg, defaultKeyMap.Delete):
		if m.selected == nil {
			return m, nil
		}
		m.mode = modeConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) notFoundKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeyMap.Back) || key.Matches(msg, defaultKeyMap.Enter) {
		m.clearSelected("incident not found")
	}
	return m, nil
}

func (m model) formKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Back):
		// Cancel discards the working copy without any network call
		m.draft = nil
		m.form = incidentForm{}
		if m.mode == modeCreate {
			m.mode = modeList
		} else {
			m.mode = modeDetail
		}
		return m, nil

	case key.Matches(msg, defaultKeyMap.NextField):
		m.form.nextField()
		return m, nil

	case key.Matches(msg, defaultKeyMap.PrevField):
		m.form.prevField()
		return m, nil

	case key.Matches(msg, defaultKeyMap.CycleValue):
		if !m.form.onSelector() {
			break
		}
		dir := 1
		if msg.String() == "left" {
			dir = -1
		}
		if m.form.focus == fieldSeverity {
			m.form.cycleSeverity(dir)
		} else {
			next := m.form.cycleStatus(dir)
			if m.draft != nil {
				// Stamp resolvedAt in the working copy so the preview
				// reflects the pending transition
				m.draft.SetStatus(next, time.Now().UTC())
			}
		}
		return m, nil

	case key.Matches(msg, defaultKeyMap.Save):
		if m.mutating {
			return m, nil
		}
		if m.mode == modeCreate {
			return m.submitCreate()
		}
		return m.submitEdit()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m model) submitCreate() (tea.Model, tea.Cmd) {
	req := incident.NewCreateRequest(
		m.form.title.Value(),
		m.form.summary.Value(),
		m.form.severity,
		m.form.status,
		m.form.tagList(),
		m.actor,
		time.Now().UTC(),
	)

	// Local validation failure blocks submission without touching the
	// network; errors render inline on their fields.
	if errs := req.Validate(); errs != nil {
		m.form.errs = errs
		m.setStatus("validation failed")
		return m, nil
	}

	m.form.errs = nil
	m.mutating = true
	m.setStatus(savingStatus)
	return m, createIncident(m.client, m.store, req)
}

func (m model) submitEdit() (tea.Model, tea.Cmd) {
	if m.draft == nil {
		return m, nil
	}

	m.draft.Title = m.form.title.Value()
	m.draft.Summary = m.form.summary.Value()
	m.draft.Tags = m.form.tagList()
	m.draft.Severity = m.form.severity
	m.draft.ResolutionNote = m.form.resolution.Value()

	m.mutating = true
	m.setStatus(savingStatus)
	return m, submitUpdate(m.client, m.store, m.draft.ID, m.draft.Changes(), "edit")
}

func (m model) entryKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Back):
		// Discard without side effects
		m.entry.SetValue("")
		m.entry.Blur()
		m.mode = modeDetail
		return m, nil

	case key.Matches(msg, defaultKeyMap.Enter):
		if m.mutating || m.selected == nil {
			return m, nil
		}
		return m.submitEntry()
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

// submitEntry confirms the pending quick-resolve, timeline event, or note.
// Identifiers and timestamps are generated here, at confirm time.
func (m model) submitEntry() (tea.Model, tea.Cmd) {
	now := time.Now().UTC()
	text := m.entry.Value()

	var up incident.Update
	var action string

	switch m.mode {
	case modeResolve:
		var err error
		up, err = incident.QuickResolve(*m.selected, text, now)
		if err != nil {
			m.setStatus("cannot resolve: " + err.Error())
			return m, nil
		}
		action = "resolve"

	case modeEvent:
		if len(text) == 0 {
			m.setStatus("event description is required")
			return m, nil
		}
		up = incident.AppendEvent(*m.selected, text, m.actor, now)
		action = "add event"

	case modeNote:
		if len(text) == 0 {
			m.setStatus("note text is required")
			return m, nil
		}
		up = incident.AppendNote(*m.selected, text, m.actor, now)
		action = "add note"

	default:
		return m, nil
	}

	m.mutating = true
	m.setStatus(savingStatus)
	return m, submitUpdate(m.client, m.store, m.selected.ID, up, action)
}

func (m model) confirmDeleteKeyHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeyMap.Confirm) {
		if m.mutating {
			return m, nil
		}
		m.mutating = true
		m.setStatus("deleting...")
		return m, deleteIncident(m.client, m.store, m.selectedID)
	}

	m.mode = modeDetail
	return m, nil
}

