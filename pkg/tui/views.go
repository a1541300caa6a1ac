package tui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/PaulEvans8669/incidents/pkg/incident"
	"github.com/PaulEvans8669/incidents/pkg/tui/style"
)

const (
	dot       = "•"
	upArrow   = "↑"
	downArrow = "↓"

	timestampLayout = "2006-01-02 15:04 MST"
)

var windowSize tea.WindowSizeMsg

var errorViewKeyMap = KeyMap{
	Back: defaultKeyMap.Back,
	Quit: defaultKeyMap.Quit,
}

func (m model) View() string {
	if m.err != nil {
		log.Debug("View", "error", m.err)

		var s strings.Builder
		s.WriteString(dot + "ERROR" + dot)
		s.WriteString("\n\n")
		s.WriteString(m.err.Error())
		s.WriteString("\n\n")
		s.WriteString(help.New().View(errorViewKeyMap))
		return style.Error.Render(s.String())
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	switch m.mode {
	case modeNotFound:
		s.WriteString(m.renderNotFound())

	case modeCreate, modeEdit:
		s.WriteString(m.renderForm())

	case modeDetail, modeResolve, modeEvent, modeNote, modeConfirmDelete:
		s.WriteString(style.Viewer.Render(m.viewport.View()))
		s.WriteString(m.renderDetailOverlay())

	default:
		s.WriteString(style.TableContainer.Render(m.table.View()))
		if len(m.table.Rows()) == 0 && !m.fetching {
			s.WriteString("\n")
			if m.filter.Active() {
				s.WriteString(style.Faint.Render(" no incidents match the active filters"))
			} else {
				s.WriteString(style.Faint.Render(" no incidents yet " + dot + " press n to create one"))
			}
		}
		if m.mode == modeSearch || m.search.Value() != "" {
			s.WriteString("\n")
			s.WriteString(m.search.View())
		}
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	s.WriteString("\n")
	s.WriteString(style.Help.Render(m.help.View(defaultKeyMap)))

	return style.Main.Render(s.String())
}

// renderHeader shows the per-status totals over the full (unfiltered) list,
// plus the active filter predicates.
func (m model) renderHeader() string {
	var s strings.Builder

	counts := incident.CountByStatus(m.summaries)
	badges := make([]string, 0, len(incident.Statuses))
	for _, st := range incident.Statuses {
		badges = append(badges, style.StatusBadge(string(st))+fmt.Sprintf(" %d", counts[st]))
	}
	s.WriteString(strings.Join(badges, "  "))

	if m.filter.Active() {
		s.WriteString("  ")
		s.WriteString(style.Faint.Render(filterArea(m.filter)))
	}

	s.WriteString("\n")
	return s.String()
}

func filterArea(f incident.Filter) string {
	parts := []string{}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%q", f.Query))
	}
	if f.Status != incident.FilterAll {
		parts = append(parts, "status="+f.Status)
	}
	if f.Severity != incident.FilterAll {
		parts = append(parts, "severity="+f.Severity)
	}
	return "filters: " + strings.Join(parts, " "+dot+" ")
}

func (m model) renderFooter() string {
	spin := " "
	if m.fetching || m.mutating {
		spin = m.spinner.View()
	}
	line := fmt.Sprintf("%s > %s", spin, m.status)
	if windowSize.Width > 0 {
		line = truncate(line, windowSize.Width)
	}
	return line
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

func (m model) renderNotFound() string {
	var s strings.Builder
	s.WriteString("Incident " + m.selectedID + " was not found.\n\n")
	s.WriteString("It may have been deleted by someone else.\n\n")
	s.WriteString(style.Faint.Render("esc: back to list"))
	return style.Viewer.Render(s.String())
}

// renderDetailOverlay appends the input line for the pending quick action,
// or the delete confirmation prompt.
func (m model) renderDetailOverlay() string {
	switch m.mode {
	case modeResolve:
		return "\n Resolve " + m.selectedID + " " + dot + " a resolution note is required\n" + m.entry.View()
	case modeEvent:
		return "\n Add timeline event to " + m.selectedID + "\n" + m.entry.View()
	case modeNote:
		return "\n Add note to " + m.selectedID + "\n" + m.entry.View()
	case modeConfirmDelete:
		return "\n" + style.FieldError.Render(" Delete "+m.selectedID+"? This cannot be undone.") +
			style.Faint.Render("  y: delete "+dot+" esc: cancel")
	}
	return ""
}

func (m model) renderForm() string {
	var s strings.Builder

	if m.form.editing {
		s.WriteString("Edit " + m.draft.ID + "\n\n")
	} else {
		s.WriteString("New incident\n\n")
	}

	s.WriteString(m.formLabel(fieldTitle, "Title"))
	s.WriteString(m.form.title.View() + "\n")
	s.WriteString(m.fieldError("title"))

	s.WriteString(m.formLabel(fieldSummary, "Summary"))
	s.WriteString(m.form.summary.View() + "\n")
	s.WriteString(m.fieldError("summary"))

	s.WriteString(m.formLabel(fieldTags, "Tags"))
	s.WriteString(m.form.tags.View() + "\n")
	s.WriteString(m.fieldError("tags"))

	s.WriteString(m.formLabel(fieldSeverity, "Severity"))
	s.WriteString(selectorView(string(m.form.severity), m.form.focus == fieldSeverity) + "\n")
	s.WriteString(m.fieldError("severity"))

	s.WriteString(m.formLabel(fieldStatus, "Status"))
	s.WriteString(selectorView(m.form.status.Display(), m.form.focus == fieldStatus) + "\n")
	s.WriteString(m.fieldError("status"))

	if m.form.editing {
		s.WriteString(m.formLabel(fieldResolution, "Resolution note"))
		s.WriteString(m.form.resolution.View() + "\n")
		s.WriteString(m.fieldError("resolutionNote"))

		if m.draft != nil && m.draft.ResolvedAt != nil {
			s.WriteString(style.Faint.Render("Will resolve at "+m.draft.ResolvedAt.Format(timestampLayout)) + "\n")
		}
	}

	s.WriteString(m.unmatchedErrors())

	s.WriteString("\n")
	s.WriteString(style.Faint.Render("tab: next field " + dot + " ctrl+s: save " + dot + " esc: cancel"))

	return style.Viewer.Render(s.String())
}

func (m model) formLabel(f formField, label string) string {
	marker := "  "
	if m.form.focus == f {
		marker = "> "
	}
	return marker + label + "\n"
}

// fieldError renders the inline message for a field, keyed by its wire name.
func (m model) fieldError(field string) string {
	msg, ok := m.form.errs[field]
	if !ok {
		return ""
	}
	return style.FieldError.Render("  "+msg) + "\n"
}

// unmatchedErrors renders the errors no inline field claims: backend details
// keyed to fields the form does not show, and whole-request messages under
// the empty key.
func (m model) unmatchedErrors() string {
	inline := map[string]bool{
		"title": true, "summary": true, "tags": true,
		"severity": true, "status": true, "resolutionNote": true,
	}

	keys := make([]string, 0, len(m.form.errs))
	for k := range m.form.errs {
		if !inline[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var s strings.Builder
	for _, k := range keys {
		msg := m.form.errs[k]
		if k != "" {
			msg = k + ": " + msg
		}
		s.WriteString(style.FieldError.Render("  "+msg) + "\n")
	}
	return s.String()
}

func selectorView(value string, focused bool) string {
	if focused {
		return "  ← " + value + " →"
	}
	return "    " + value
}

// renderDetail fills the viewport from the selected incident. The body is
// markdown run through glamour; if the renderer could not be built the raw
// markdown is shown instead.
func (m *model) renderDetail() {
	if m.selected == nil {
		return
	}

	body, err := detailMarkdown(*m.selected)
	if err != nil {
		log.Error("renderDetail", "error", err)
		m.viewport.SetContent(m.selected.Title)
		return
	}

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = rendered
		} else {
			log.Error("renderDetail", "render error", err)
		}
	}

	m.viewport.SetContent(style.StatusBadge(string(m.selected.Status)) + " " +
		style.SeverityBadge(string(m.selected.Severity)) + "\n" + body)
	m.viewport.GotoTop()
}

type detailData struct {
	ID             string
	Title          string
	Summary        string
	Tags           []string
	CreatedBy      string
	Created        string
	Updated        string
	Resolved       string
	ResolutionNote string
	Feed           []feedItem
}

type feedItem struct {
	Kind      string
	Timestamp string
	Text      string
	Who       string
}

func summarizeIncident(i incident.Incident) detailData {
	d := detailData{
		ID:             i.ID,
		Title:          i.Title,
		Summary:        i.Summary,
		Tags:           i.Tags,
		CreatedBy:      i.CreatedBy,
		Created:        i.CreatedAt.Format(timestampLayout),
		ResolutionNote: i.ResolutionNote,
	}

	if i.UpdatedAt != nil {
		d.Updated = i.UpdatedAt.Format(timestampLayout)
	}
	if i.ResolvedAt != nil {
		d.Resolved = i.ResolvedAt.Format(timestampLayout)
	}

	// Timeline and notes interleave newest-first
	for _, e := range incident.Feed(i) {
		d.Feed = append(d.Feed, feedItem{
			Kind:      string(e.Kind),
			Timestamp: e.Timestamp.Format(timestampLayout),
			Text:      e.Text,
			Who:       e.Actor,
		})
	}

	return d
}

func detailMarkdown(i incident.Incident) (string, error) {
	t, err := template.New("incident").Parse(incidentTemplate)
	if err != nil {
		return "", fmt.Errorf("tui.detailMarkdown(): failed to parse template: %w", err)
	}

	o := new(bytes.Buffer)
	if err := t.Execute(o, summarizeIncident(i)); err != nil {
		return "", fmt.Errorf("tui.detailMarkdown(): failed to execute template: %w", err)
	}

	return o.String(), nil
}

const incidentTemplate = `
# {{ .ID }} - {{ .Title }}

{{ .Summary }}

* Created: {{ .Created }} by {{ .CreatedBy }}
{{- if .Updated }}
* Updated: {{ .Updated }}
{{- end }}
{{- if .Resolved }}
* Resolved: {{ .Resolved }}
{{- end }}
{{- if .Tags }}
* Tags: {{ range $i, $t := .Tags }}{{ if $i }}, {{ end }}{{ $t }}{{ end }}
{{- end }}

{{ if .ResolutionNote -}}
## Resolution

> {{ .ResolutionNote }}
{{- end }}

## Activity

{{ if .Feed }}
{{- range $item := .Feed }}
{{ $item.Timestamp }} [{{ $item.Kind }}] {{ $item.Text }}{{ if $item.Who }} -- {{ $item.Who }}{{ end }}
{{ end }}
{{- else }}
_none_
{{ end }}
`
