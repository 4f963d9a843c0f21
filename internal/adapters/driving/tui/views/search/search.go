// Package search provides the single search view for the TUI.
// It combines the query input, result list, detail preview, and status
// bar, and moves focus between typing and navigating results.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/components/preview"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
)

// View represents the search view with input, results, preview, and
// status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	preview   *preview.Pane
	statusbar *status.Bar

	searchService   driving.SearchService
	documentService driving.DocumentService
	ctx             context.Context

	class      domain.ContentClass
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating results
	showingDoc bool // true = preview shows the full document
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	documentService driving.DocumentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewSearchInput(s),
		list:            list.NewResultList(s),
		preview:         preview.NewPane(s),
		statusbar:       status.NewBar(s, km),
		searchService:   searchService,
		documentService: documentService,
		ctx:             context.Background(),
		class:           domain.ContentClassAny,
		width:           80,
		height:          24,
		focusInput:      true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.DocumentContentLoaded:
		v.handleContentLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward other messages to the input for cursor blinking.
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.Back) {
		return v.handleBack()
	}

	if v.focusInput {
		return v.handleInputKey(msg, keyStr)
	}
	return v.handleResultsKey(keyStr)
}

// handleBack walks back one step: document preview, then results, then
// the query text, then quitting.
func (v *View) handleBack() (*View, tea.Cmd) {
	switch {
	case v.showingDoc:
		v.showingDoc = false
		v.preview.SetResult(v.list.SelectedResult())
		return v, nil
	case !v.focusInput:
		v.focusInput = true
		v.input.Focus()
		v.statusbar.SetState(status.StateReady)
		return v, nil
	case v.input.Value() != "":
		v.input.SetValue("")
		return v, nil
	default:
		return v, func() tea.Msg { return messages.Quit{} }
	}
}

// handleInputKey processes keys while the query input has focus.
func (v *View) handleInputKey(msg tea.KeyMsg, keyStr string) (*View, tea.Cmd) {
	if keymap.Matches(keyStr, v.keymap.CycleClass) {
		v.class = nextClass(v.class)
		return v, nil
	}

	if keymap.Matches(keyStr, v.keymap.Search) {
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleResultsKey processes keys while navigating results.
func (v *View) handleResultsKey(keyStr string) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
		v.syncPreview()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
		v.syncPreview()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.NewSearch):
		v.focusInput = true
		v.showingDoc = false
		v.input.SetValue("")
		v.statusbar.SetState(status.StateReady)
		return v, v.input.Focus()

	case keymap.Matches(keyStr, v.keymap.Open):
		if v.showingDoc {
			return v, nil
		}
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		if v.documentService == nil {
			v.statusbar.SetMessage("Document preview not available")
			return v, nil
		}
		v.statusbar.SetState(status.StateLoading)
		return v, v.loadDocument(result)
	}

	return v, nil
}

// syncPreview keeps the preview pane on the selected result while the
// cursor moves. A loaded document stays open until dismissed.
func (v *View) syncPreview() {
	if v.showingDoc {
		return
	}
	v.preview.SetResult(v.list.SelectedResult())
}

// performSearch runs the search off the UI loop.
func (v *View) performSearch(query string) tea.Cmd {
	req := domain.SearchRequest{Query: query, Class: v.class}
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := v.searchService.Search(v.ctx, req)
		if err != nil {
			return messages.SearchCompleted{Err: err}
		}
		return messages.SearchCompleted{Results: results}
	}
}

// loadDocument fetches the full document text off the UI loop.
func (v *View) loadDocument(result *domain.ScoredChunk) tea.Cmd {
	docID := result.Chunk.DocumentID
	title := result.SourceName
	if title == "" {
		title = docID
	}
	return func() tea.Msg {
		content, err := v.documentService.GetContent(v.ctx, docID)
		if err != nil {
			return messages.DocumentContentLoaded{DocumentID: docID, Err: err}
		}
		return messages.DocumentContentLoaded{DocumentID: docID, Title: title, Content: content}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.showingDoc = false
	v.list.SetResults(msg.Results)
	v.preview.SetResult(v.list.SelectedResult())
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.focusInput = false
	v.input.Blur()
}

// handleContentLoaded swaps the preview to the full document text.
func (v *View) handleContentLoaded(msg messages.DocumentContentLoaded) {
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.showingDoc = true
	v.preview.SetContent(msg.Title, msg.Content)
	v.statusbar.SetState(status.StateResults)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	header := v.styles.Title.Render("Retriva") + "  " +
		v.styles.Muted.Render("local document search")
	sections = append(sections, header, "")

	sections = append(sections, v.input.View())

	filter := v.styles.Muted.Render("Filter: ") + v.styles.Chip.Render(classLabel(v.class))
	sections = append(sections, filter, "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "")
	sections = append(sections, v.preview.View(), "")
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// nextClass cycles the content class filter.
func nextClass(class domain.ContentClass) domain.ContentClass {
	switch class {
	case domain.ContentClassAny:
		return domain.ContentClassText
	case domain.ContentClassText:
		return domain.ContentClassCode
	default:
		return domain.ContentClassAny
	}
}

// classLabel returns the display label for a content class.
func classLabel(class domain.ContentClass) string {
	switch class {
	case domain.ContentClassText:
		return "Text"
	case domain.ContentClassCode:
		return "Code"
	default:
		return "All"
	}
}

// SetDimensions sets the view dimensions and divides the vertical space
// between the result list and the preview pane.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	previewHeight := height / 3
	if previewHeight < 5 {
		previewHeight = 5
	}
	if previewHeight > 12 {
		previewHeight = 12
	}

	listHeight := height - previewHeight - 10
	if listHeight < 4 {
		listHeight = 4
	}

	v.input.SetWidth(width)
	v.list.SetDimensions(width, listHeight)
	v.preview.SetDimensions(width, previewHeight)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Class returns the active content class filter.
func (v *View) Class() domain.ContentClass {
	return v.class
}

// Results returns the current search results.
func (v *View) Results() []domain.ScoredChunk {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.ScoredChunk {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// ShowingDocument returns whether the preview holds a full document.
func (v *View) ShowingDocument() bool {
	return v.showingDoc
}

// Reset restores the view to its initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.showingDoc = false
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.preview.Clear()
	v.err = nil
	v.statusbar.Clear()
}
