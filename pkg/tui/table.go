package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/PaulEvans8669/incidents/pkg/incident"
	"github.com/PaulEvans8669/incidents/pkg/tui/style"
)

const (
	initialTableHeight = 20
	initialTableWidth  = 106
)

var incidentListColumns = []table.Column{
	{Title: "ID", Width: 12},
	{Title: "Title", Width: 40},
	{Title: "Severity", Width: 10},
	{Title: "Status", Width: 13},
	{Title: "Tags", Width: 25},
}

func newIncidentTable() table.Model {
	t := table.New(
		table.WithColumns(incidentListColumns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(initialTableHeight),
	)
	t.SetStyles(style.Table)
	return t
}

// summaryRows converts filtered summaries to table rows; column [0] is the
// incident ID, which handlers read back from the selected row.
func summaryRows(list []incident.IncidentSummary) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, s := range list {
		rows = append(rows, table.Row{
			s.ID,
			s.Title,
			string(s.Severity),
			s.Status.Display(),
			joinTags(s.Tags),
		})
	}
	return rows
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
