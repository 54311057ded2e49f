package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. Text fields take runes directly, so only the
// control keys of forms and search are bound here.
type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Down      key.Binding
	Up        key.Binding
	Open      key.Binding
	Back      key.Binding
	Create    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Search    key.Binding
	Refresh   key.Binding
	Copy      key.Binding
	CopyLink  key.Binding
	Browser   key.Binding
	Help      key.Binding
	Confirm   key.Binding

	Save      key.Binding
	Cancel    key.Binding
	NextField key.Binding
	Newline   key.Binding
	Backspace key.Binding
	Accept    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Open:      key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "view")),
		Back:      key.NewBinding(key.WithKeys("esc", "q", "h", " "), key.WithHelp("esc", "back")),
		Create:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "create")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		CopyLink:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy link")),
		Browser:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),

		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch field")),
		Newline:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete char")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		NextMatch: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/↑", "move")),
		PrevMatch: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous match")),
	}
}

// shortHelp returns the bindings shown on the hint line for a mode.
func (k keyMap) shortHelp(m Mode, allowRefresh bool) []key.Binding {
	switch m {
	case Viewing:
		return []key.Binding{k.Back, withHelp(k.Down, "j/k", "scroll"), k.Copy, k.CopyLink, k.Edit, k.Help}
	case CreatingName, EditingName:
		return []key.Binding{withHelp(k.NextField, "tab/enter", "content"), k.Save, k.Cancel}
	case CreatingContent, EditingContent:
		return []key.Binding{withHelp(k.NextField, "tab", "name"), k.Newline, k.Save, k.Cancel}
	case Searching:
		return []key.Binding{k.NextMatch, k.Accept, k.Cancel}
	}

	bindings := []key.Binding{withHelp(k.Down, "j/k", "move"), k.Open, k.Create, k.Edit, k.Delete, k.Search}
	if allowRefresh {
		bindings = append(bindings, k.Refresh)
	}
	return append(bindings, k.Copy, k.Help, k.Quit)
}

// fullHelp returns the columns of the help overlay.
func (k keyMap) fullHelp(allowRefresh bool) [][]key.Binding {
	list := []key.Binding{k.Down, k.Up, k.Open, k.Create, k.Edit, k.Delete, k.Search}
	if allowRefresh {
		list = append(list, k.Refresh)
	}
	list = append(list, k.Quit)

	return [][]key.Binding{
		list,
		{k.Copy, k.CopyLink, k.Browser, k.Back, k.Help, k.ForceQuit},
		{k.NextField, k.Newline, k.Save, k.Cancel},
	}
}

func withHelp(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}
