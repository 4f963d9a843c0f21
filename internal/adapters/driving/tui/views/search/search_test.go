package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/retriva/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error)
}

func (m *MockSearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, req)
	}
	return []domain.ScoredChunk{}, nil
}

func (m *MockSearchService) BuildContext(
	_ context.Context,
	_ domain.SearchRequest,
	_ int,
) (*domain.AssembledContext, error) {
	return &domain.AssembledContext{}, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	GetContentFunc func(ctx context.Context, documentID string) (string, error)
}

func (m *MockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if m.GetContentFunc != nil {
		return m.GetContentFunc(ctx, documentID)
	}
	return "", nil
}

func (m *MockDocumentService) Delete(_ context.Context, _ string) error {
	return nil
}

func testResults() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{
			Chunk:      domain.DocumentChunk{ID: "c1", DocumentID: "doc-1", ChunkIndex: 0, ChunkText: "First passage."},
			Score:      0.95,
			SourceName: "guide.md",
		},
		{
			Chunk:      domain.DocumentChunk{ID: "c2", DocumentID: "doc-2", ChunkIndex: 4, ChunkText: "Second passage."},
			Score:      0.82,
			SourceName: "notes.txt",
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), &MockSearchService{}, nil)

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.Equal(t, "", view.Query())
	assert.True(t, view.InputFocused())
	assert.Equal(t, domain.ContentClassAny, view.Class())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := view.WithContext(ctx)

	assert.Equal(t, view, result)
	assert.Equal(t, ctx, view.ctx)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	assert.NotNil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.Ready())
	assert.Equal(t, 100, view.Width())
	assert.Equal(t, 40, view.Height())
}

func TestView_Update_KeyEnter_RunsSearch(t *testing.T) {
	var gotReq domain.SearchRequest
	mock := &MockSearchService{
		SearchFunc: func(_ context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error) {
			gotReq = req
			return testResults(), nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.SetQuery("  embedding pipeline  ")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg := cmd()
	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Len(t, completed.Results, 2)
	assert.Equal(t, "embedding pipeline", gotReq.Query)
	assert.Equal(t, domain.ContentClassAny, gotReq.Class)
	assert.False(t, view.InputFocused())
}

func TestView_Update_KeyEnter_EmptyQuery(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, view.InputFocused())
}

func TestView_Update_KeyEnter_WhitespaceQuery(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetQuery("   ")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_CycleClass(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ContentClassText, view.Class())

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ContentClassCode, view.Class())

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ContentClassAny, view.Class())
}

func TestView_ClassFlowsIntoRequest(t *testing.T) {
	var gotReq domain.SearchRequest
	mock := &MockSearchService{
		SearchFunc: func(_ context.Context, req domain.SearchRequest) ([]domain.ScoredChunk, error) {
			gotReq = req
			return nil, nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.SetQuery("parser")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, domain.ContentClassText, gotReq.Class)
}

func TestView_PerformSearch_NoService(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetQuery("anything")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg := cmd()
	occurred, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, occurred.Err, ErrNoSearchService)
}

func TestView_Update_SearchCompleted(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)

	view.Update(messages.SearchCompleted{Results: testResults()})

	assert.Len(t, view.Results(), 2)
	assert.False(t, view.InputFocused())
	assert.False(t, view.ShowingDocument())
	require.NotNil(t, view.SelectedResult())
	assert.Equal(t, "c1", view.SelectedResult().Chunk.ID)
}

func TestView_Update_SearchCompleted_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)

	view.Update(messages.SearchCompleted{Err: errors.New("search failed")})

	assert.Error(t, view.Err())
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(messages.ErrorOccurred{Err: errors.New("something went wrong")})

	assert.Error(t, view.Err())
}

func TestView_ResultsNavigation(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Update(keyRune('j'))
	assert.Equal(t, 1, view.SelectedIndex())
	// Preview follows the cursor.
	assert.Contains(t, view.preview.Title(), "notes.txt")

	view.Update(keyRune('k'))
	assert.Equal(t, 0, view.SelectedIndex())
	assert.Contains(t, view.preview.Title(), "guide.md")
}

func TestView_OpenDocument(t *testing.T) {
	var gotID string
	docs := &MockDocumentService{
		GetContentFunc: func(_ context.Context, documentID string) (string, error) {
			gotID = documentID
			return "full document text", nil
		},
	}
	view := NewView(nil, nil, &MockSearchService{}, docs)
	view.Update(messages.SearchCompleted{Results: testResults()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(messages.DocumentContentLoaded)
	require.True(t, ok)
	assert.Equal(t, "doc-1", gotID)
	assert.Equal(t, "doc-1", loaded.DocumentID)
	assert.Equal(t, "guide.md", loaded.Title)
	assert.Equal(t, "full document text", loaded.Content)
}

func TestView_OpenDocument_NoDocumentService(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.Update(messages.SearchCompleted{Results: testResults()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, view.ShowingDocument())
}

func TestView_OpenDocument_NoSelection(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, &MockDocumentService{})
	view.Update(messages.SearchCompleted{Results: nil})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_DocumentContentLoaded(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, &MockDocumentService{})
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Update(messages.DocumentContentLoaded{
		DocumentID: "doc-1",
		Title:      "guide.md",
		Content:    "full document text",
	})

	assert.True(t, view.ShowingDocument())
	assert.Equal(t, "guide.md", view.preview.Title())
}

func TestView_DocumentContentLoaded_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, &MockDocumentService{})
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Update(messages.DocumentContentLoaded{Err: errors.New("not found")})

	assert.False(t, view.ShowingDocument())
}

func TestView_Back_ClosesDocument(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, &MockDocumentService{})
	view.Update(messages.SearchCompleted{Results: testResults()})
	view.Update(messages.DocumentContentLoaded{Title: "guide.md", Content: "text"})

	view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, view.ShowingDocument())
	assert.False(t, view.InputFocused())
	// Preview falls back to the selected chunk.
	assert.Contains(t, view.preview.Title(), "chunk 0")
}

func TestView_Back_FromResults(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, view.InputFocused())
	// Results stay visible after returning to the input.
	assert.Len(t, view.Results(), 2)
}

func TestView_Back_ClearsQuery(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetQuery("half typed")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, "", view.Query())
}

func TestView_Back_QuitsWhenEmpty(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.IsType(t, messages.Quit{}, cmd())
}

func TestView_NewSearch(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetQuery("old")
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Update(keyRune('n'))

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Query())
	assert.Len(t, view.Results(), 2)
}

func TestView_QuitFromResults(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.Update(messages.SearchCompleted{Results: testResults()})

	_, cmd := view.Update(keyRune('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, messages.Quit{}, cmd())
}

func TestView_TypingGoesToInput(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(keyRune('q'))

	// "q" is a character while typing, not quit.
	assert.Equal(t, "q", view.Query())
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	assert.Contains(t, view.View(), "Initialising")
}

func TestView_View_RendersSections(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "Retriva")
	assert.Contains(t, output, "Filter:")
	assert.Contains(t, output, "All")
	assert.Contains(t, output, "No results")
}

func TestView_View_ShowsError(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.ErrorOccurred{Err: errors.New("embedder unreachable")})

	assert.Contains(t, view.View(), "embedder unreachable")
}

func TestView_Reset(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetQuery("query")
	view.Update(messages.SearchCompleted{Results: testResults()})

	view.Reset()

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Query())
	assert.Empty(t, view.Results())
	assert.NoError(t, view.Err())
	assert.False(t, view.ShowingDocument())
}
