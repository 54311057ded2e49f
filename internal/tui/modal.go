package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Popup border colors.
const (
	colorStatus  = lipgloss.Color("10") // green
	colorConfirm = lipgloss.Color("9")  // bright red
	colorHelp    = lipgloss.Color("12") // blue
)

func popupStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2)
}

// statusPopup renders a status message box.
func statusPopup(msg string, maxWidth int) string {
	text := ansi.Truncate(msg, max(maxWidth-6, 1), "…")
	return popupStyle(colorStatus).
		Foreground(colorStatus).
		Bold(true).
		Render(text)
}

// confirmPopup renders the delete confirmation box.
func confirmPopup(name string, maxWidth int) string {
	name = ansi.Truncate(oneLine(name), max(maxWidth-24, 1), "…")
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render("Delete \""+name+"\"?"),
		"",
		"[y] yes    [any other key] cancel",
	)
	return popupStyle(colorConfirm).Padding(1, 2).Render(body)
}

// helpPopup renders the key reference box.
func helpPopup(title, body string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(title),
		"",
		body,
		"",
		lipgloss.NewStyle().Faint(true).Render("Press any key to close"),
	)
	return popupStyle(colorHelp).Padding(1, 2).Render(content)
}

// placeOverlay draws popup centered over background, keeping the
// background visible on either side of it.
func placeOverlay(background, popup string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	popupLines := strings.Split(popup, "\n")

	popupWidth := 0
	for _, l := range popupLines {
		popupWidth = max(popupWidth, ansi.StringWidth(l))
	}

	startY := max((height-len(popupLines))/2, 0)
	startX := max((width-popupWidth)/2, 0)

	var result strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			result.WriteString("\n")
		}

		idx := i - startY
		if idx < 0 || idx >= len(popupLines) {
			result.WriteString(bgLine)
			continue
		}

		line := popupLines[idx]
		bgWidth := ansi.StringWidth(bgLine)

		before := ansi.Truncate(bgLine, startX, "")
		if pad := startX - ansi.StringWidth(before); pad > 0 {
			before += strings.Repeat(" ", pad)
		}
		result.WriteString(before)
		result.WriteString(line)
		// Reset styles so the popup does not bleed into the background.
		result.WriteString("\x1b[0m")

		if endX := startX + ansi.StringWidth(line); endX < bgWidth {
			result.WriteString(ansi.TruncateLeft(bgLine, endX, ""))
		}
	}
	return result.String()
}
