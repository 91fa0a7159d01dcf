package views

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Keys decides which key presses map to list actions
type Keys interface {
	IsUp(tea.KeyMsg) bool
	IsDown(tea.KeyMsg) bool
	IsHome(tea.KeyMsg) bool
	IsEnd(tea.KeyMsg) bool
	IsConfirm(tea.KeyMsg) bool
	IsToggle(tea.KeyMsg) bool
	IsCancel(tea.KeyMsg) bool
	IsDelete(tea.KeyMsg) bool
	IsAdd(tea.KeyMsg) bool
	IsRename(tea.KeyMsg) bool
	IsMoveUp(tea.KeyMsg) bool
	IsMoveDown(tea.KeyMsg) bool
}

// cursor moves a list selection, wrapping at both ends
func cursor(keys Keys, msg tea.KeyMsg, selected, n int) (int, bool) {
	switch {
	case keys.IsUp(msg):
		selected--
		if selected < 0 {
			selected = n - 1
		}
	case keys.IsDown(msg):
		selected++
		if selected >= n {
			selected = 0
		}
	case keys.IsHome(msg):
		selected = 0
	case keys.IsEnd(msg):
		selected = n - 1
	default:
		return selected, false
	}
	return selected, true
}
