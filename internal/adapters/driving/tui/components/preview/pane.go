// Package preview provides the detail preview pane for the TUI.
package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/retriva/internal/core/domain"
)

// Pane renders the detail of the selected result. It shows either the
// matched chunk or, after opening, the full document text.
type Pane struct {
	styles *styles.Styles
	title  string
	body   string
	width  int
	height int
}

// NewPane creates a new preview pane component.
func NewPane(s *styles.Styles) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Pane{
		styles: s,
		width:  80,
		height: 8,
	}
}

// Init initialises the preview pane.
func (p *Pane) Init() tea.Cmd {
	return nil
}

// Update handles preview messages. The pane is passive and is driven
// through Set methods.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	return p, nil
}

// View renders the preview pane.
func (p *Pane) View() string {
	if p.body == "" && p.title == "" {
		return p.styles.Muted.Render("Select a result to preview it here.")
	}

	header := p.styles.Subtitle.Render(p.title)
	body := p.clipBody()

	content := header
	if body != "" {
		content += "\n" + p.styles.Normal.Render(body)
	}

	paneWidth := p.width - 4
	if paneWidth < 20 {
		paneWidth = 20
	}

	return p.styles.Preview.Width(paneWidth).Render(content)
}

// clipBody truncates the body to the available height, marking the cut.
func (p *Pane) clipBody() string {
	maxLines := p.height - 3
	if maxLines < 1 {
		maxLines = 1
	}

	lines := strings.Split(p.body, "\n")
	if len(lines) <= maxLines {
		return p.body
	}
	return strings.Join(lines[:maxLines], "\n") + "\n..."
}

// SetResult fills the pane from a scored chunk.
func (p *Pane) SetResult(result *domain.ScoredChunk) {
	if result == nil {
		p.Clear()
		return
	}

	name := result.SourceName
	if name == "" {
		name = result.Chunk.DocumentID
	}

	p.title = fmt.Sprintf("%s, chunk %d (score %.2f)", name, result.Chunk.ChunkIndex, result.Score)
	p.body = strings.TrimSpace(result.Chunk.ChunkText)
}

// SetContent fills the pane with full document text.
func (p *Pane) SetContent(title, content string) {
	p.title = title
	p.body = strings.TrimSpace(content)
}

// Clear empties the pane.
func (p *Pane) Clear() {
	p.title = ""
	p.body = ""
}

// Title returns the current pane title.
func (p *Pane) Title() string {
	return p.title
}

// SetDimensions sets the component dimensions.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Width returns the current width.
func (p *Pane) Width() int {
	return p.width
}

// Height returns the current height.
func (p *Pane) Height() int {
	return p.height
}
