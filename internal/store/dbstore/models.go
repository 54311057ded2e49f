package dbstore

import (
	"github.com/yiblet/sipp/internal/store"
)

// SnippetModel represents a snippet row in the database.
type SnippetModel struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	ShortID string `gorm:"size:10;not null;uniqueIndex"`
	Name    string `gorm:"not null"`
	Content string `gorm:"type:text;not null"`
}

// TableName returns the table name for SnippetModel
func (SnippetModel) TableName() string {
	return "snippets"
}

// ToSnippet converts the GORM model to a store.Snippet
func (m *SnippetModel) ToSnippet() *store.Snippet {
	return &store.Snippet{
		ID:      m.ID,
		ShortID: m.ShortID,
		Name:    m.Name,
		Content: m.Content,
	}
}
