// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/retriva/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.ScoredChunk
	Err     error
}

// DocumentContentLoaded carries the full text of a document for the
// preview pane.
type DocumentContentLoaded struct {
	DocumentID string
	Title      string
	Content    string
	Err        error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
