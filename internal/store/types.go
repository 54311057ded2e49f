package store

// Snippet is a named piece of text.
type Snippet struct {
	// ID is the numeric identity assigned by the store.
	// It increases monotonically and is never reused.
	ID int64 `json:"id"`

	// ShortID is the public 10 character identifier over [0-9A-Za-z].
	// Generated once at creation and never changed.
	ShortID string `json:"short_id"`

	// Name is the display name. Its trailing extension selects the syntax
	// used for highlighting.
	Name string `json:"name"`

	// Content is the snippet body.
	Content string `json:"content"`
}
