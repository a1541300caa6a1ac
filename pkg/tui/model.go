package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/cache"
	"github.com/PaulEvans8669/incidents/pkg/incident"
)

// focusMode tracks which part of the single screen owns key input.
type focusMode int

const (
	modeList focusMode = iota
	modeSearch
	modeDetail
	modeNotFound
	modeCreate
	modeEdit
	modeResolve
	modeEvent
	modeNote
	modeConfirmDelete
)

// statusFilters and severityFilters are the cycling order for the two list
// predicates, starting from the "all" sentinel.
var (
	statusFilters   = []string{incident.FilterAll, "OPEN", "IN_PROGRESS", "RESOLVED", "CLOSED"}
	severityFilters = []string{incident.FilterAll, "low", "medium", "high", "critical"}
)

type model struct {
	err error

	client       api.Client
	store        *cache.Store
	actor        string
	refreshEvery time.Duration

	mode     focusMode
	table    table.Model
	search   textinput.Model
	entry    textinput.Model
	form     incidentForm
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	filter    incident.Filter
	summaries []incident.IncidentSummary

	// selectedID is the incident the detail view expects; late responses
	// for anything else are dropped (the "view" has unmounted).
	selectedID string
	selected   *incident.Incident
	draft      *incident.Draft

	fetching bool
	mutating bool
	status   string
}

// Config carries everything the UI needs from the command layer.
type Config struct {
	Client       api.Client
	Store        *cache.Store
	Actor        string
	RefreshEvery time.Duration
}

func InitialModel(cfg Config) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Create the markdown renderer once; reusing it is much faster than
	// creating a new one per detail render.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		log.Error("InitialModel", "failed to create markdown renderer", err)
		renderer = nil
	}

	refresh := cfg.RefreshEvery
	if refresh <= 0 {
		refresh = cache.DefaultTTL
	}

	return model{
		client:       cfg.Client,
		store:        cfg.Store,
		actor:        cfg.Actor,
		refreshEvery: refresh,
		mode:         modeList,
		table:        newIncidentTable(),
		search:       newSearchInput(),
		entry:        newEntryInput(),
		viewport:     newDetailViewport(),
		help:         newHelp(),
		spinner:      s,
		renderer:     renderer,
		filter:       incident.Filter{Status: incident.FilterAll, Severity: incident.FilterAll},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return pollSummariesMsg{} },
		pollTick(m.refreshEvery),
	)
}

func (m *model) setStatus(msg string) {
	log.Info("setStatus", "status", msg)
	m.status = msg
}

func (m *model) toggleHelp() {
	m.help.ShowAll = !m.help.ShowAll
}

// applyFilter recomputes the table rows from the last fetched list. Pure
// and local: changing a filter never re-fetches.
func (m *model) applyFilter() {
	filtered := m.filter.Apply(m.summaries)
	m.table.SetRows(summaryRows(filtered))
}

func (m *model) cycleStatusFilter() {
	m.filter.Status = nextFilter(statusFilters, m.filter.Status)
	m.applyFilter()
}

func (m *model) cycleSeverityFilter() {
	m.filter.Severity = nextFilter(severityFilters, m.filter.Severity)
	m.applyFilter()
}

func (m *model) clearFilters() {
	m.filter = incident.Filter{Status: incident.FilterAll, Severity: incident.FilterAll}
	m.search.SetValue("")
	m.applyFilter()
}

func nextFilter(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// highlightedID returns the incident id of the highlighted table row, or ""
// when the table is empty.
func (m *model) highlightedID() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[0] // Column [0] is the incident ID
}

// clearSelected drops the detail state and any in-progress draft.
func (m *model) clearSelected(reason string) {
	log.Debug("clearSelected", "id", m.selectedID, "reason", reason)
	m.selectedID = ""
	m.selected = nil
	m.draft = nil
	m.mode = modeList
}

func newSearchInput() textinput.Model {
	i := textinput.New()
	i.Prompt = " / "
	i.Placeholder = "search title, summary, tags"
	i.CharLimit = 100
	i.Width = 50
	return i
}

func newEntryInput() textinput.Model {
	i := textinput.New()
	i.Prompt = " > "
	i.CharLimit = 500
	i.Width = 70
	return i
}

func newHelp() help.Model {
	h := help.New()
	h.ShowAll = false
	return h
}

func newDetailViewport() viewport.Model {
	vp := viewport.New(initialTableWidth, initialTableHeight)
	return vp
}
