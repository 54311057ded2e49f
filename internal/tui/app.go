// Package tui is the interactive terminal client. Session holds the state
// machine; AppModel adapts it to a bubbletea program and renders it.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yiblet/sipp/internal/highlight"
)

// tickInterval bounds how long an expired status can stay on screen.
const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// AppModel drives a Session from terminal input.
type AppModel struct {
	Width   int
	Height  int
	Session *Session

	keys        keyMap
	help        help.Model
	highlighter *highlight.Highlighter
	cache       highlightCache
}

// NewAppModel creates the program model for s.
func NewAppModel(s *Session, h *highlight.Highlighter) *AppModel {
	if h == nil {
		h = highlight.New("")
	}
	return &AppModel{
		Width:       120,
		Height:      30,
		Session:     s,
		keys:        newKeyMap(),
		help:        help.New(),
		highlighter: h,
	}
}

// Init starts the status expiry tick.
func (a *AppModel) Init() tea.Cmd {
	return tick()
}

// Update handles terminal events and ticks.
func (a *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.Width = max(m.Width, 40)
		a.Height = max(m.Height, 10)
		a.help.Width = a.Width
		return a, nil
	case tickMsg:
		a.Session.ClearExpiredStatus(a.Session.Now())
		return a, tick()
	case tea.KeyMsg:
		a.handleKeyPress(m)
		if a.Session.Quitting() {
			return a, tea.Quit
		}
		return a, nil
	}
	return a, nil
}

// View renders the current state.
func (a *AppModel) View() string {
	if a.Session.Quitting() {
		return ""
	}
	return AppView(a)
}

// handleKeyPress routes a key. Overlays take precedence over the mode:
// help, then status, then delete confirmation. The key that dismisses an
// overlay does nothing else.
func (a *AppModel) handleKeyPress(msg tea.KeyMsg) {
	s := a.Session

	if key.Matches(msg, a.keys.ForceQuit) {
		s.Quit()
		return
	}

	switch {
	case s.HelpVisible():
		s.HideHelp()
		return
	case hasStatus(s):
		s.ClearStatus()
		return
	case s.PendingDelete() != nil:
		s.ResolveDelete(key.Matches(msg, a.keys.Confirm))
		return
	}

	switch s.Mode() {
	case Browsing:
		a.handleBrowsingKeys(msg)
	case Viewing:
		a.handleViewingKeys(msg)
	case CreatingName, CreatingContent, EditingName, EditingContent:
		a.handleFormKeys(msg)
	case Searching:
		a.handleSearchKeys(msg)
	}
}

func hasStatus(s *Session) bool {
	_, ok := s.Status()
	return ok
}

func (a *AppModel) handleBrowsingKeys(msg tea.KeyMsg) {
	s := a.Session
	k := a.keys

	switch {
	case key.Matches(msg, k.Quit):
		s.Quit()
	case key.Matches(msg, k.Down):
		s.MoveDown()
	case key.Matches(msg, k.Up):
		s.MoveUp()
	case key.Matches(msg, k.Open):
		s.Open()
	case key.Matches(msg, k.Create):
		s.StartCreate()
	case key.Matches(msg, k.Edit):
		s.StartEdit()
	case key.Matches(msg, k.Delete):
		s.RequestDelete()
	case key.Matches(msg, k.Search):
		s.StartSearch()
	case key.Matches(msg, k.Refresh):
		s.Refresh()
	case key.Matches(msg, k.Copy):
		s.CopyContent()
	case key.Matches(msg, k.CopyLink):
		s.CopyLink()
	case key.Matches(msg, k.Browser):
		s.OpenLink()
	case key.Matches(msg, k.Help):
		s.ShowHelp()
	}
}

func (a *AppModel) handleViewingKeys(msg tea.KeyMsg) {
	s := a.Session
	k := a.keys

	switch {
	case key.Matches(msg, k.Back):
		s.Back()
	case key.Matches(msg, k.Down):
		s.ScrollDown()
	case key.Matches(msg, k.Up):
		s.ScrollUp()
	case key.Matches(msg, k.Copy):
		s.CopyContent()
	case key.Matches(msg, k.CopyLink):
		s.CopyLink()
	case key.Matches(msg, k.Browser):
		s.OpenLink()
	case key.Matches(msg, k.Edit):
		s.StartEdit()
	case key.Matches(msg, k.Help):
		s.ShowHelp()
	}
}

func (a *AppModel) handleFormKeys(msg tea.KeyMsg) {
	s := a.Session
	k := a.keys

	switch {
	case key.Matches(msg, k.Save):
		s.Save()
	case key.Matches(msg, k.Cancel):
		s.Cancel()
	case key.Matches(msg, k.NextField):
		s.SwitchField()
	case key.Matches(msg, k.Newline):
		if s.Mode().IsNameField() {
			s.SwitchField()
		} else {
			s.InsertText("\n")
		}
	case key.Matches(msg, k.Backspace):
		s.DeleteBack()
	default:
		if text := typedText(msg); text != "" {
			s.InsertText(text)
		}
	}
}

func (a *AppModel) handleSearchKeys(msg tea.KeyMsg) {
	s := a.Session
	k := a.keys

	switch {
	case key.Matches(msg, k.Cancel):
		s.CancelSearch()
	case key.Matches(msg, k.Accept):
		s.ConfirmSearch()
	case key.Matches(msg, k.NextMatch):
		s.MoveDown()
	case key.Matches(msg, k.PrevMatch):
		s.MoveUp()
	case key.Matches(msg, k.Backspace):
		s.DeleteBack()
	default:
		if text := typedText(msg); text != "" {
			s.InsertText(text)
		}
	}
}

// typedText returns the characters a key press inserts, or "". Alt
// combinations are commands, not text.
func typedText(msg tea.KeyMsg) string {
	if msg.Alt {
		return ""
	}
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	}
	return ""
}
