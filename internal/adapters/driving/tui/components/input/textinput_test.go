package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retriva/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	s := styles.DefaultStyles()

	si := NewSearchInput(s)

	require.NotNil(t, si)
	assert.Equal(t, "", si.Value())
	assert.True(t, si.Focused())
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	si := NewSearchInput(nil)

	require.NotNil(t, si)
	assert.NotNil(t, si.styles)
}

func TestSearchInput_Init(t *testing.T) {
	si := NewSearchInput(nil)

	cmd := si.Init()

	// Blink command from the underlying textinput.
	assert.NotNil(t, cmd)
}

func TestSearchInput_Value(t *testing.T) {
	si := NewSearchInput(nil)

	si.SetValue("chunking strategy")

	assert.Equal(t, "chunking strategy", si.Value())
}

func TestSearchInput_Update_TypesRunes(t *testing.T) {
	si := NewSearchInput(nil)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h', 'i'}}
	updated, _ := si.Update(msg)

	assert.Equal(t, si, updated)
	assert.Equal(t, "hi", si.Value())
}

func TestSearchInput_FocusBlur(t *testing.T) {
	si := NewSearchInput(nil)

	si.Blur()
	assert.False(t, si.Focused())

	si.Focus()
	assert.True(t, si.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	si := NewSearchInput(nil)

	si.SetWidth(100)

	assert.Equal(t, 100, si.Width())
}

func TestSearchInput_SetWidth_Floor(t *testing.T) {
	si := NewSearchInput(nil)

	si.SetWidth(10)

	// The inner input never shrinks below a usable width.
	assert.Equal(t, 10, si.Width())
	assert.Equal(t, 20, si.textinput.Width)
}

func TestSearchInput_View(t *testing.T) {
	si := NewSearchInput(nil)
	si.SetValue("rerank")

	view := si.View()

	assert.Contains(t, view, "rerank")
}

func TestSearchInput_Reset(t *testing.T) {
	si := NewSearchInput(nil)
	si.SetValue("old query")

	si.Reset()

	assert.Equal(t, "", si.Value())
}
