package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Quit           key.Binding
	Help           key.Binding
	Back           key.Binding
	Refresh        key.Binding
	Enter          key.Binding
	Search         key.Binding
	StatusFilter   key.Binding
	SeverityFilter key.Binding
	ClearFilters   key.Binding
	New            key.Binding
	Edit           key.Binding
	Resolve        key.Binding
	AddEvent       key.Binding
	AddNote        key.Binding
	Delete         key.Binding
	Save           key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	CycleValue     key.Binding
	Confirm        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Enter}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.Refresh, k.Quit},
		{k.Search, k.StatusFilter, k.SeverityFilter, k.ClearFilters, k.New},
		{k.Edit, k.Resolve, k.AddEvent, k.AddNote, k.Delete, k.Save},
	}
}

var defaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp(upArrow+"/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp(downArrow+"/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/cancel"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view details"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	StatusFilter: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "filter status"),
	),
	SeverityFilter: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "filter severity"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new incident"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Resolve: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "quick resolve"),
	),
	AddEvent: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "add timeline event"),
	),
	AddNote: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "add note"),
	),
	Delete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	CycleValue: key.NewBinding(
		key.WithKeys("left", "right"),
		key.WithHelp("←/→", "change value"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
}
