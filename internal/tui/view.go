package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yiblet/sipp/internal/highlight"
	"github.com/yiblet/sipp/internal/store"
)

const (
	colorBorder = lipgloss.Color("62")
	colorActive = lipgloss.Color("11") // yellow
	colorMuted  = lipgloss.Color("8")
	tabWidth    = 4
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	cursor        = lipgloss.NewStyle().Foreground(colorActive).Render("█")
)

// highlightCache keeps the highlighted lines of the last rendered snippet.
type highlightCache struct {
	name    string
	content string
	lines   []highlight.Line
	valid   bool
}

func (a *AppModel) highlighted(sn *store.Snippet) []highlight.Line {
	c := &a.cache
	if !c.valid || c.name != sn.Name || c.content != sn.Content {
		c.name = sn.Name
		c.content = sn.Content
		c.lines = a.highlighter.Lines(sn.Name, sn.Content)
		c.valid = true
	}
	return c.lines
}

// AppView renders the panes, the hint line and any active overlay.
func AppView(a *AppModel) string {
	if a.Width == 0 {
		return "Initializing..."
	}
	s := a.Session

	bodyHeight := a.Height - 1
	leftWidth := a.Width * 30 / 100
	rightWidth := a.Width - leftWidth

	left := renderLeftColumn(s, leftWidth, bodyHeight)
	right := renderRightPane(a, rightWidth, bodyHeight)
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + renderHints(a)

	switch {
	case s.HelpVisible():
		body := a.help.FullHelpView(a.keys.fullHelp(s.AllowRefresh()))
		view = placeOverlay(view, helpPopup("sipp keys", body), a.Width, a.Height)
	case hasStatus(s):
		st, _ := s.Status()
		view = placeOverlay(view, statusPopup(st.Message, a.Width), a.Width, a.Height)
	case s.PendingDelete() != nil:
		view = placeOverlay(view, confirmPopup(s.PendingDelete().Name, a.Width), a.Width, a.Height)
	}
	return view
}

// box renders lines inside a bordered pane of exactly width x height cells.
// Lines beyond the pane are dropped and long lines are cut.
func box(lines []string, width, height int, border lipgloss.Color) string {
	innerWidth := max(width-4, 1)
	innerHeight := max(height-2, 1)

	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, innerWidth, "…")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 1)).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

func renderLeftColumn(s *Session, width, height int) string {
	if s.Mode() != Searching {
		return renderList(s, width, height)
	}
	searchHeight := 3
	list := renderList(s, width, height-searchHeight)
	input := box([]string{"/" + s.Query() + cursor}, width, searchHeight, colorActive)
	return lipgloss.JoinVertical(lipgloss.Left, list, input)
}

func renderList(s *Session, width, height int) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Snippets (%d)", len(s.Snippets()))), ""}
	rows := max(height-4, 1)

	visible := s.Visible()
	switch {
	case len(s.Snippets()) == 0:
		lines = append(lines, mutedStyle.Render("No snippets yet. Press c to create one."))
	case len(visible) == 0:
		lines = append(lines, mutedStyle.Render("No matches"))
	}

	offset := 0
	if sel := s.SelectedIndex(); sel >= rows {
		offset = sel - rows + 1
	}
	for i := offset; i < len(visible) && i < offset+rows; i++ {
		name := oneLine(s.Snippets()[visible[i]].Name)
		if i == s.SelectedIndex() {
			lines = append(lines, selectedStyle.Render("▶ "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}

	border := colorBorder
	if s.Mode() == Browsing {
		border = colorActive
	}
	return box(lines, width, height, border)
}

func renderRightPane(a *AppModel, width, height int) string {
	s := a.Session
	if s.Mode().IsForm() {
		return renderForm(s, width, height)
	}

	border := colorBorder
	if s.Mode() == Viewing {
		border = colorActive
	}

	sel := s.Selected()
	if sel == nil {
		return box([]string{mutedStyle.Render("Select a snippet")}, width, height, border)
	}

	lines := []string{titleStyle.Render(oneLine(sel.Name)), ""}
	hl := a.highlighted(sel)
	for i := s.Scroll(); i < len(hl); i++ {
		if len(lines) >= height-2 {
			break
		}
		lines = append(lines, renderLine(hl[i]))
	}
	return box(lines, width, height, border)
}

func renderLine(line highlight.Line) string {
	var b strings.Builder
	for _, seg := range line {
		text := strings.TrimRight(seg.Text, "\r\n")
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
		if text == "" {
			continue
		}
		if seg.Color == "" && !seg.Bold {
			b.WriteString(text)
			continue
		}
		style := lipgloss.NewStyle().Bold(seg.Bold)
		if seg.Color != "" {
			style = style.Foreground(lipgloss.Color(seg.Color))
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}

func renderForm(s *Session, width, height int) string {
	d := s.Draft()
	title := "New Snippet"
	if s.Mode().IsEditing() {
		title = "Edit Snippet"
	}

	nameBorder, contentBorder := colorBorder, colorActive
	name, content := d.Name, d.Content
	if s.Mode().IsNameField() {
		nameBorder, contentBorder = colorActive, colorBorder
		name += cursor
	} else {
		content += cursor
	}

	innerWidth := width - 4
	nameBox := box([]string{mutedStyle.Render("Name"), name}, innerWidth+2, 4, nameBorder)

	contentHeight := max(height-2-1-4, 3)
	contentLines := strings.Split(strings.ReplaceAll(content, "\t", strings.Repeat(" ", tabWidth)), "\n")
	// Keep the end of the draft, where typing happens, in view.
	if rows := contentHeight - 3; len(contentLines) > rows {
		contentLines = contentLines[len(contentLines)-rows:]
	}
	contentBox := box(append([]string{mutedStyle.Render("Content")}, contentLines...), innerWidth+2, contentHeight, contentBorder)

	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), nameBox, contentBox)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorActive).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(body)
}

func renderHints(a *AppModel) string {
	s := a.Session
	hints := a.help.ShortHelpView(a.keys.shortHelp(s.Mode(), s.AllowRefresh()))
	return ansi.Truncate(hints, a.Width, "…")
}

// oneLine flattens whitespace that would break a single-line layout.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
