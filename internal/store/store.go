// Package store defines the storage interface for sipp's persistence layer.
// A store holds snippets addressable by both their numeric identity and
// their short id.
package store

import "errors"

// ErrNotFound is returned when a snippet with the requested short id does
// not exist.
var ErrNotFound = errors.New("snippet not found")

// SnippetStore manages snippet persistence.
// Implementations must be safe for concurrent use: the HTTP service calls
// them from many request goroutines.
type SnippetStore interface {
	// Create stores a new snippet and assigns it a fresh identity and short id.
	Create(name, content string) (*Snippet, error)

	// GetByShortID retrieves a single snippet.
	// Returns ErrNotFound if no snippet has that short id.
	GetByShortID(shortID string) (*Snippet, error)

	// List returns all snippets ordered by identity, newest first.
	List() ([]*Snippet, error)

	// DeleteByShortID removes a snippet.
	// Returns false (and no error) when the snippet does not exist.
	DeleteByShortID(shortID string) (bool, error)

	// UpdateByShortID replaces a snippet's name and content.
	// Identity and short id are unchanged. Returns ErrNotFound if absent.
	UpdateByShortID(shortID, name, content string) (*Snippet, error)

	// Close releases any resources (DB connections, file handles, etc.).
	Close() error
}
