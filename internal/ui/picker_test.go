package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var functionItems = []PickerItem{
	{Label: "balanceOf(address)", SubLabel: "view", Value: "balanceOf(address)"},
	{Label: "transfer(address,uint256)", SubLabel: "nonpayable", Value: "transfer(address,uint256)"},
	{Label: "transferFrom(address,address,uint256)", SubLabel: "nonpayable", Value: "transferFrom(address,address,uint256)"},
}

func press(m pickerModel, keys ...tea.KeyMsg) pickerModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(pickerModel)
	}
	return m
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestPickerNavigateAndSelect(t *testing.T) {
	m := newPickerModel("Pick a function", functionItems)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.selected)
	assert.Equal(t, "transfer(address,uint256)", m.selected.Value)
}

func TestPickerFilter(t *testing.T) {
	m := newPickerModel("Pick", functionItems)
	m = press(m, typed("trans"))
	assert.Equal(t, []int{1, 2}, m.visible)

	m = press(m, typed("ferFROM"))
	assert.Equal(t, []int{2}, m.visible)
	assert.Contains(t, m.View(), "filter: ")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.selected)
	assert.Equal(t, "transferFrom(address,address,uint256)", m.selected.Value)
}

func TestPickerFilterNoMatches(t *testing.T) {
	m := newPickerModel("Pick", functionItems)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, typed("zzz"))
	assert.Empty(t, m.visible)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "no matches")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.selected)

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Len(t, m.visible, 3)
}

func TestPickerCancel(t *testing.T) {
	m := newPickerModel("Pick", functionItems)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(pickerModel)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestPickerViewShowsItems(t *testing.T) {
	view := newPickerModel("Pick a function", functionItems).View()
	assert.Contains(t, view, "Pick a function")
	assert.Contains(t, view, "balanceOf(address)")
	assert.Contains(t, view, "nonpayable")
}

func TestPickItemEmpty(t *testing.T) {
	_, err := PickItem("Pick", nil)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Spinner
// ---------------------------------------------------------------------------

func TestSpinnerWritesAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "calling node")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "calling node")
	assert.True(t, strings.HasSuffix(out, "\r"))
}
