package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yiblet/sipp/internal/backend"
	"github.com/yiblet/sipp/internal/browser"
	"github.com/yiblet/sipp/internal/clipboard"
	"github.com/yiblet/sipp/internal/highlight"
	"github.com/yiblet/sipp/internal/store"
)

// StatusTTL is how long a status message stays up without input.
const StatusTTL = 2 * time.Second

// noSelection marks an empty selection.
const noSelection = -1

// Status messages.
const (
	msgCopied        = "Copied!"
	msgLinkCopied    = "Link copied!"
	msgNoRemote      = "No remote URL configured"
	msgOpened        = "Opened in browser!"
	msgDeleted       = "Deleted!"
	msgNotFound      = "Snippet not found"
	msgEmptyName     = "Name cannot be empty"
	msgCreated       = "Created!"
	msgUpdated       = "Updated!"
	msgRefreshed     = "Refreshed!"
	msgNoClipboard   = "Clipboard unavailable"
	msgNothingToCopy = "No snippet selected"
)

// Status is a transient message and the time it was set.
type Status struct {
	Message string
	At      time.Time
}

// Draft holds the name and content being created or edited.
type Draft struct {
	Name    string
	Content string
}

// Options configures a Session.
type Options struct {
	// LinkBase is the URL prefix for /s/{short_id} links. Empty disables
	// copy-link and open-in-browser.
	LinkBase string
	// Clipboard receives copied content. Nil reports the clipboard as
	// unavailable.
	Clipboard clipboard.Clipboard
	// OpenURL opens a link in a browser. Defaults to browser.Open.
	OpenURL browser.Opener
	// Now is the clock used for status expiry. Defaults to time.Now.
	Now func() time.Time
	// Context is passed to backend calls. Defaults to context.Background().
	Context context.Context
}

// Session is the state of one interactive client. Every input is a method
// call that runs to completion, including any backend call, before the next.
type Session struct {
	backend backend.Backend
	opts    Options

	snippets []*store.Snippet
	selected int
	mode     Mode
	scroll   int

	draft      Draft
	editTarget string

	query     string
	filtered  []int
	preSearch int

	status        *Status
	pendingDelete *store.Snippet
	help          bool
	quitting      bool
}

// NewSession starts a session in Browsing mode over snippets. The first
// snippet is selected when there is one.
func NewSession(b backend.Backend, snippets []*store.Snippet, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.Open
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	opts.LinkBase = strings.TrimRight(opts.LinkBase, "/")

	s := &Session{
		backend:  b,
		opts:     opts,
		snippets: snippets,
		selected: noSelection,
		mode:     Browsing,
	}
	if len(snippets) > 0 {
		s.selected = 0
	}
	return s
}

// Accessors used by rendering and tests.

func (s *Session) Snippets() []*store.Snippet { return s.snippets }
func (s *Session) Mode() Mode                 { return s.mode }
func (s *Session) Scroll() int                { return s.scroll }
func (s *Session) Draft() Draft               { return s.draft }
func (s *Session) Query() string              { return s.query }
func (s *Session) Filtered() []int            { return s.filtered }
func (s *Session) HelpVisible() bool          { return s.help }
func (s *Session) Quitting() bool             { return s.quitting }
func (s *Session) AllowRefresh() bool         { return s.backend.IsRemote() }
func (s *Session) LinkBase() string           { return s.opts.LinkBase }

// SelectedIndex is the selection within the visible sequence, or -1.
func (s *Session) SelectedIndex() int { return s.selected }

// PendingDelete is the snippet awaiting delete confirmation, or nil.
func (s *Session) PendingDelete() *store.Snippet { return s.pendingDelete }

// Status returns the current status, if any.
func (s *Session) Status() (Status, bool) {
	if s.status == nil {
		return Status{}, false
	}
	return *s.status, true
}

// Visible returns the indices into Snippets that are currently listed:
// the search matches while a filter is active, otherwise all of them.
func (s *Session) Visible() []int {
	if s.filtered != nil {
		return s.filtered
	}
	all := make([]int, len(s.snippets))
	for i := range all {
		all[i] = i
	}
	return all
}

func (s *Session) visibleLen() int {
	if s.filtered != nil {
		return len(s.filtered)
	}
	return len(s.snippets)
}

// realIndex maps a visible position to an index into snippets.
func (s *Session) realIndex(i int) int {
	if s.filtered != nil {
		return s.filtered[i]
	}
	return i
}

// Selected returns the selected snippet, or nil.
func (s *Session) Selected() *store.Snippet {
	if s.selected < 0 || s.selected >= s.visibleLen() {
		return nil
	}
	return s.snippets[s.realIndex(s.selected)]
}

// SetStatus replaces the status message.
func (s *Session) SetStatus(msg string) {
	s.status = &Status{Message: msg, At: s.opts.Now()}
}

// ClearStatus removes the status message.
func (s *Session) ClearStatus() {
	s.status = nil
}

// ClearExpiredStatus drops the status once more than StatusTTL has passed.
func (s *Session) ClearExpiredStatus(now time.Time) {
	if s.status != nil && now.Sub(s.status.At) > StatusTTL {
		s.status = nil
	}
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.opts.Now()
}

// Quit ends the session.
func (s *Session) Quit() {
	s.quitting = true
}

// ShowHelp opens the help overlay.
func (s *Session) ShowHelp() {
	s.help = true
}

// HideHelp closes the help overlay.
func (s *Session) HideHelp() {
	s.help = false
}

// MoveDown selects the next visible snippet, wrapping at the end.
func (s *Session) MoveDown() {
	n := s.visibleLen()
	if n == 0 {
		return
	}
	if s.selected < 0 {
		s.selected = 0
	} else {
		s.selected = (s.selected + 1) % n
	}
	s.scroll = 0
}

// MoveUp selects the previous visible snippet, wrapping at the start.
func (s *Session) MoveUp() {
	n := s.visibleLen()
	if n == 0 {
		return
	}
	switch {
	case s.selected < 0:
		s.selected = 0
	case s.selected == 0:
		s.selected = n - 1
	default:
		s.selected--
	}
	s.scroll = 0
}

// Open shows the selected snippet's content.
func (s *Session) Open() {
	if s.Selected() == nil {
		return
	}
	s.mode = Viewing
	s.scroll = 0
}

// Back returns from Viewing to Browsing.
func (s *Session) Back() {
	s.mode = Browsing
}

// ScrollDown moves the content view down, up to the line count.
func (s *Session) ScrollDown() {
	sel := s.Selected()
	if sel == nil {
		return
	}
	if s.scroll < len(highlight.SplitLines(sel.Content)) {
		s.scroll++
	}
}

// ScrollUp moves the content view up.
func (s *Session) ScrollUp() {
	if s.scroll > 0 {
		s.scroll--
	}
}

// StartCreate opens an empty draft.
func (s *Session) StartCreate() {
	s.draft = Draft{}
	s.editTarget = ""
	s.mode = CreatingName
}

// StartEdit opens a draft prefilled from the selected snippet.
func (s *Session) StartEdit() {
	sel := s.Selected()
	if sel == nil {
		return
	}
	s.draft = Draft{Name: sel.Name, Content: sel.Content}
	s.editTarget = sel.ShortID
	s.mode = EditingName
}

// SwitchField moves focus between the name and content fields.
func (s *Session) SwitchField() {
	switch s.mode {
	case CreatingName:
		s.mode = CreatingContent
	case CreatingContent:
		s.mode = CreatingName
	case EditingName:
		s.mode = EditingContent
	case EditingContent:
		s.mode = EditingName
	}
}

// InsertText appends text to the focused field, or to the search query.
// Names are single line.
func (s *Session) InsertText(text string) {
	switch {
	case s.mode == Searching:
		s.SetQuery(s.query + text)
	case s.mode.IsNameField():
		text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
		s.draft.Name += text
	case s.mode.IsForm():
		s.draft.Content += strings.ReplaceAll(text, "\r\n", "\n")
	}
}

// DeleteBack removes the last character of the focused field or query.
func (s *Session) DeleteBack() {
	switch {
	case s.mode == Searching:
		s.SetQuery(trimLastRune(s.query))
	case s.mode.IsNameField():
		s.draft.Name = trimLastRune(s.draft.Name)
	case s.mode.IsForm():
		s.draft.Content = trimLastRune(s.draft.Content)
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// Cancel discards the draft and returns to Browsing.
func (s *Session) Cancel() {
	s.draft = Draft{}
	s.editTarget = ""
	s.mode = Browsing
}

// Save submits the draft. Whitespace-only names are rejected without a
// backend call. On failure the draft and mode are kept.
func (s *Session) Save() {
	if !s.mode.IsForm() {
		return
	}
	if strings.TrimSpace(s.draft.Name) == "" {
		s.SetStatus(msgEmptyName)
		return
	}

	if s.mode.IsEditing() {
		s.saveEdit()
		return
	}

	created, err := s.backend.Create(s.opts.Context, s.draft.Name, s.draft.Content)
	if err != nil {
		s.SetStatus(err.Error())
		return
	}
	s.snippets = append([]*store.Snippet{created}, s.snippets...)
	s.filtered = nil
	s.selected = 0
	s.scroll = 0
	s.draft = Draft{}
	s.mode = Browsing
	s.SetStatus(msgCreated)
}

func (s *Session) saveEdit() {
	updated, err := s.backend.Update(s.opts.Context, s.editTarget, s.draft.Name, s.draft.Content)
	if err != nil {
		s.SetStatus(err.Error())
		return
	}
	if updated == nil {
		s.SetStatus(msgNotFound)
		return
	}

	for i, sn := range s.snippets {
		if sn.ShortID == s.editTarget {
			s.snippets[i] = updated
			break
		}
	}
	s.draft = Draft{}
	s.editTarget = ""
	s.mode = Browsing
	s.SetStatus(msgUpdated)
}

// RequestDelete asks for confirmation before deleting the selected snippet.
func (s *Session) RequestDelete() {
	if sel := s.Selected(); sel != nil {
		s.pendingDelete = sel
	}
}

// ResolveDelete answers the pending confirmation. Only a confirmed request
// reaches the backend.
func (s *Session) ResolveDelete(confirmed bool) {
	target := s.pendingDelete
	s.pendingDelete = nil
	if target == nil || !confirmed {
		return
	}

	deleted, err := s.backend.Delete(s.opts.Context, target.ShortID)
	if err != nil {
		s.SetStatus(err.Error())
		return
	}
	if !deleted {
		s.SetStatus(msgNotFound)
		return
	}

	for i, sn := range s.snippets {
		if sn.ShortID == target.ShortID {
			s.snippets = append(s.snippets[:i], s.snippets[i+1:]...)
			break
		}
	}
	if s.filtered != nil {
		s.refilter()
	}
	s.clampSelection()
	s.scroll = 0
	s.SetStatus(msgDeleted)
}

// StartSearch enters Searching with every snippet matching the empty query.
func (s *Session) StartSearch() {
	s.preSearch = s.selected
	s.mode = Searching
	s.SetQuery("")
}

// SetQuery replaces the search query and recomputes the matches. The first
// match is selected, or nothing when there are none.
func (s *Session) SetQuery(q string) {
	s.query = q
	s.refilter()
	if len(s.filtered) > 0 {
		s.selected = 0
	} else {
		s.selected = noSelection
	}
	s.scroll = 0
}

func (s *Session) refilter() {
	needle := strings.ToLower(s.query)
	filtered := make([]int, 0, len(s.snippets))
	for i, sn := range s.snippets {
		if strings.Contains(strings.ToLower(sn.Name), needle) {
			filtered = append(filtered, i)
		}
	}
	s.filtered = filtered
}

// ConfirmSearch keeps the selected match and drops the filter. With no
// match selected the selection from before the search is restored.
func (s *Session) ConfirmSearch() {
	if s.selected >= 0 && s.selected < len(s.filtered) {
		s.selected = s.filtered[s.selected]
	} else {
		s.selected = s.preSearch
	}
	s.endSearch()
}

// CancelSearch drops the filter and restores the selection from before the
// search.
func (s *Session) CancelSearch() {
	s.selected = s.preSearch
	s.endSearch()
}

func (s *Session) endSearch() {
	s.filtered = nil
	s.query = ""
	s.mode = Browsing
	s.scroll = 0
	s.clampSelection()
}

// Refresh reloads the list from a remote backend and clears any filter.
func (s *Session) Refresh() {
	if !s.backend.IsRemote() {
		return
	}
	snippets, err := s.backend.List(s.opts.Context)
	if err != nil {
		s.SetStatus(err.Error())
		return
	}
	s.snippets = snippets
	s.filtered = nil
	s.query = ""
	s.clampSelection()
	s.scroll = 0
	s.SetStatus(msgRefreshed)
}

// clampSelection keeps the selection inside the visible sequence.
func (s *Session) clampSelection() {
	n := s.visibleLen()
	switch {
	case n == 0:
		s.selected = noSelection
	case s.selected < 0:
		s.selected = 0
	case s.selected >= n:
		s.selected = n - 1
	}
}

// Link returns the web URL of sn, or "" without a link base.
func (s *Session) Link(sn *store.Snippet) string {
	if s.opts.LinkBase == "" || sn == nil {
		return ""
	}
	return s.opts.LinkBase + "/s/" + sn.ShortID
}

// CopyContent copies the selected snippet's content to the clipboard.
func (s *Session) CopyContent() {
	sel := s.Selected()
	if sel == nil {
		s.SetStatus(msgNothingToCopy)
		return
	}
	s.copy(sel.Content, msgCopied)
}

// CopyLink copies the selected snippet's web link to the clipboard.
func (s *Session) CopyLink() {
	sel := s.Selected()
	if sel == nil {
		s.SetStatus(msgNothingToCopy)
		return
	}
	link := s.Link(sel)
	if link == "" {
		s.SetStatus(msgNoRemote)
		return
	}
	s.copy(link, msgLinkCopied)
}

func (s *Session) copy(text, success string) {
	err := clipboard.WriteText(s.opts.Clipboard, text)
	switch {
	case errors.Is(err, clipboard.ErrUnsupported):
		s.SetStatus(msgNoClipboard)
	case err != nil:
		s.SetStatus(fmt.Sprintf("Failed to copy: %v", err))
	default:
		s.SetStatus(success)
	}
}

// OpenLink opens the selected snippet's web page.
func (s *Session) OpenLink() {
	sel := s.Selected()
	if sel == nil {
		s.SetStatus(msgNothingToCopy)
		return
	}
	link := s.Link(sel)
	if link == "" {
		s.SetStatus(msgNoRemote)
		return
	}
	if err := s.opts.OpenURL(link); err != nil {
		s.SetStatus(fmt.Sprintf("Failed to open browser: %v", err))
		return
	}
	s.SetStatus(msgOpened)
}
