// Package backend is the single abstraction the interactive client talks to.
// Local operates on a store in-process; Remote speaks the HTTP API of a sipp
// server. Both report failures as *Error values.
package backend

import (
	"context"

	"github.com/yiblet/sipp/internal/store"
)

// Backend lists and mutates snippets.
type Backend interface {
	// List returns all snippets, newest first.
	List(ctx context.Context) ([]*store.Snippet, error)

	// Create stores a new snippet.
	Create(ctx context.Context, name, content string) (*store.Snippet, error)

	// Delete removes a snippet. Returns false when it did not exist.
	Delete(ctx context.Context, shortID string) (bool, error)

	// Update replaces a snippet's name and content.
	// Returns (nil, nil) when the snippet does not exist.
	Update(ctx context.Context, shortID, name, content string) (*store.Snippet, error)

	// IsRemote reports whether the backend talks to a server. Refresh is only
	// offered for remote backends.
	IsRemote() bool
}
