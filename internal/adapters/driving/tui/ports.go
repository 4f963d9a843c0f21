// Package tui provides the interactive terminal interface for retriva.
// It implements a driving adapter following hexagonal architecture
// principles.
package tui

import (
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Document provides full document text for the preview pane.
	// Optional; opening a result reports a message when unset.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
