package tui

// Mode is the primary interaction state of a session.
type Mode int

const (
	Browsing Mode = iota
	Viewing
	CreatingName
	CreatingContent
	EditingName
	EditingContent
	Searching
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case Viewing:
		return "viewing"
	case CreatingName:
		return "creating name"
	case CreatingContent:
		return "creating content"
	case EditingName:
		return "editing name"
	case EditingContent:
		return "editing content"
	case Searching:
		return "searching"
	}
	return "unknown"
}

// IsForm reports whether the mode edits a draft.
func (m Mode) IsForm() bool {
	switch m {
	case CreatingName, CreatingContent, EditingName, EditingContent:
		return true
	}
	return false
}

// IsNameField reports whether the draft's name field has focus.
func (m Mode) IsNameField() bool {
	return m == CreatingName || m == EditingName
}

// IsEditing reports whether the form edits an existing snippet.
func (m Mode) IsEditing() bool {
	return m == EditingName || m == EditingContent
}
