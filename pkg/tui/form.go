package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

type formField int

const (
	fieldTitle formField = iota
	fieldSummary
	fieldTags
	fieldSeverity
	fieldStatus
	fieldResolution
)

// incidentForm backs both the create view and edit-in-place. Text fields
// are bubbles inputs; severity and status are cycled in place. Validation
// errors (local or parsed from backend details) hang off their field.
type incidentForm struct {
	editing bool

	title      textinput.Model
	summary    textarea.Model
	tags       textinput.Model
	resolution textinput.Model

	severity incident.Severity
	status   incident.Status

	focus formField
	errs  incident.FieldErrors
}

func newIncidentForm() incidentForm {
	title := textinput.New()
	title.Placeholder = "Brief description of the incident"
	title.CharLimit = 200
	title.Width = 60

	summary := textarea.New()
	summary.Placeholder = "Detailed description of what happened, impact, and any initial observations"
	summary.SetWidth(60)
	summary.SetHeight(4)

	tags := textinput.New()
	tags.Placeholder = "Comma-separated tags (e.g. database, api, frontend)"
	tags.CharLimit = 200
	tags.Width = 60

	resolution := textinput.New()
	resolution.Placeholder = "Resolution note"
	resolution.CharLimit = 500
	resolution.Width = 60

	f := incidentForm{
		title:      title,
		summary:    summary,
		tags:       tags,
		resolution: resolution,
		severity:   incident.SeverityMedium,
		status:     incident.StatusOpen,
	}
	f.title.Focus()
	return f
}

// newCreateForm returns an empty form with the creation defaults.
func newCreateForm() incidentForm {
	return newIncidentForm()
}

// newEditForm pre-fills the form from the draft working copy.
func newEditForm(d incident.Draft) incidentForm {
	f := newIncidentForm()
	f.editing = true
	f.title.SetValue(d.Title)
	f.summary.SetValue(d.Summary)
	f.tags.SetValue(strings.Join(d.Tags, ", "))
	f.resolution.SetValue(d.ResolutionNote)
	f.severity = d.Severity
	f.status = d.Status
	return f
}

func (f incidentForm) fields() []formField {
	fields := []formField{fieldTitle, fieldSummary, fieldTags, fieldSeverity, fieldStatus}
	if f.editing {
		fields = append(fields, fieldResolution)
	}
	return fields
}

func (f *incidentForm) nextField() {
	f.moveFocus(1)
}

func (f *incidentForm) prevField() {
	f.moveFocus(-1)
}

func (f *incidentForm) moveFocus(dir int) {
	fields := f.fields()
	idx := 0
	for i, field := range fields {
		if field == f.focus {
			idx = i
			break
		}
	}
	f.blurAll()
	f.focus = fields[(idx+dir+len(fields))%len(fields)]
	f.focusCurrent()
}

func (f *incidentForm) blurAll() {
	f.title.Blur()
	f.summary.Blur()
	f.tags.Blur()
	f.resolution.Blur()
}

func (f *incidentForm) focusCurrent() {
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldSummary:
		f.summary.Focus()
	case fieldTags:
		f.tags.Focus()
	case fieldResolution:
		f.resolution.Focus()
	}
}

// onSelector reports whether focus sits on a cycled (non-text) field.
func (f incidentForm) onSelector() bool {
	return f.focus == fieldSeverity || f.focus == fieldStatus
}

// cycleSeverity steps through the conventional scale.
func (f *incidentForm) cycleSeverity(dir int) {
	f.severity = cycleValue(incident.Severities, f.severity, dir)
}

// cycleStatus steps through the status enumeration and returns the new
// value; in edit mode the caller stamps the draft so the resolvedAt
// preview stays accurate.
func (f *incidentForm) cycleStatus(dir int) incident.Status {
	f.status = cycleValue(incident.Statuses, f.status, dir)
	return f.status
}

func cycleValue[T comparable](values []T, current T, dir int) T {
	for i, v := range values {
		if v == current {
			return values[(i+dir+len(values))%len(values)]
		}
	}
	// Stored values outside the conventional scale restart the cycle
	return values[0]
}

// Update routes input to the focused text field.
func (f incidentForm) Update(msg tea.Msg) (incidentForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldSummary:
		f.summary, cmd = f.summary.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	case fieldResolution:
		f.resolution, cmd = f.resolution.Update(msg)
	}
	return f, cmd
}

// tagList parses the comma-separated tags input, trimming and dropping
// exact duplicates.
func (f incidentForm) tagList() []string {
	parts := strings.Split(f.tags.Value(), ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return incident.DedupTags(tags)
}
