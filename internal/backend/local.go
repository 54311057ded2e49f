package backend

import (
	"context"
	"errors"

	"github.com/yiblet/sipp/internal/store"
)

// Local runs operations directly against a store.
type Local struct {
	store store.SnippetStore
}

var _ Backend = (*Local)(nil)

// NewLocal wraps st. The caller keeps ownership of st and closes it.
func NewLocal(st store.SnippetStore) *Local {
	return &Local{store: st}
}

func (l *Local) List(ctx context.Context) ([]*store.Snippet, error) {
	snippets, err := l.store.List()
	if err != nil {
		return nil, Storage(err)
	}
	return snippets, nil
}

func (l *Local) Create(ctx context.Context, name, content string) (*store.Snippet, error) {
	s, err := l.store.Create(name, content)
	if err != nil {
		return nil, Storage(err)
	}
	return s, nil
}

func (l *Local) Delete(ctx context.Context, shortID string) (bool, error) {
	deleted, err := l.store.DeleteByShortID(shortID)
	if err != nil {
		return false, Storage(err)
	}
	return deleted, nil
}

func (l *Local) Update(ctx context.Context, shortID, name, content string) (*store.Snippet, error) {
	s, err := l.store.UpdateByShortID(shortID, name, content)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, Storage(err)
	}
	return s, nil
}

func (l *Local) IsRemote() bool { return false }
