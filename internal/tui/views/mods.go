package views

import (
	"fmt"
	"strings"

	"meo/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToggleModMsg is sent to enable/disable a mod
type ToggleModMsg struct {
	Name    string
	Enabled bool
}

// RemoveModMsg is sent to delete a mod and its folder
type RemoveModMsg struct {
	Name string
}

// MoveModMsg is sent to change load order
type MoveModMsg struct {
	Name  string
	Delta int
}

// AddModMsg is sent to create a new mod folder
type AddModMsg struct {
	Name string
}

// RenameModMsg is sent to rename a mod and its folder
type RenameModMsg struct {
	OldName string
	NewName string
}

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptRename
	promptRemove
)

// Mods is the mod list view
type Mods struct {
	keys      Keys
	game      string
	mods      []domain.Mod
	conflicts domain.ConflictReport
	selected  int
	prompt    promptKind
	input     textinput.Model
	width     int
	height    int
}

// NewMods creates a new mod list view
func NewMods(keys Keys, game string, mods []domain.Mod, conflicts domain.ConflictReport) Mods {
	input := textinput.New()
	input.CharLimit = 128
	return Mods{
		keys:      keys,
		game:      game,
		mods:      mods,
		conflicts: conflicts,
		input:     input,
		width:     80,
		height:    24,
	}
}

// WithData replaces the listed mods and conflicts, keeping the selection
// in range.
func (m Mods) WithData(mods []domain.Mod, conflicts domain.ConflictReport) Mods {
	m.mods = mods
	m.conflicts = conflicts
	if m.selected >= len(mods) {
		m.selected = max(len(mods)-1, 0)
	}
	return m
}

// Select moves the cursor to the named mod if it exists
func (m Mods) Select(name string) Mods {
	for i, mod := range m.mods {
		if mod.Name == name {
			m.selected = i
		}
	}
	return m
}

// Selected returns the currently selected index
func (m Mods) Selected() int {
	return m.selected
}

// ModCount returns the number of listed mods
func (m Mods) ModCount() int {
	return len(m.mods)
}

// SelectedMod returns the currently selected mod
func (m Mods) SelectedMod() *domain.Mod {
	if len(m.mods) == 0 || m.selected >= len(m.mods) {
		return nil
	}
	return &m.mods[m.selected]
}

// Prompting reports whether a text prompt or confirmation has focus
func (m Mods) Prompting() bool {
	return m.prompt != promptNone
}

// Init implements tea.Model
func (m Mods) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Mods) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePrompt(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Mods) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.IsAdd(msg) {
		return m.openPrompt(promptAdd, "")
	}
	if len(m.mods) == 0 {
		return m, nil
	}
	if selected, moved := cursor(m.keys, msg, m.selected, len(m.mods)); moved {
		m.selected = selected
		return m, nil
	}

	mod := *m.SelectedMod()
	switch {
	case m.keys.IsToggle(msg):
		return m, func() tea.Msg {
			return ToggleModMsg{Name: mod.Name, Enabled: !mod.Enabled}
		}

	case m.keys.IsDelete(msg):
		m.prompt = promptRemove
		return m, nil

	case m.keys.IsRename(msg):
		return m.openPrompt(promptRename, mod.Name)

	// The cursor follows the mod once the new order has been reloaded
	case m.keys.IsMoveUp(msg):
		if m.selected > 0 {
			return m, func() tea.Msg { return MoveModMsg{Name: mod.Name, Delta: -1} }
		}

	case m.keys.IsMoveDown(msg):
		if m.selected < len(m.mods)-1 {
			return m, func() tea.Msg { return MoveModMsg{Name: mod.Name, Delta: 1} }
		}
	}

	return m, nil
}

func (m Mods) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Mods) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == promptRemove {
		mod := m.SelectedMod()
		m.prompt = promptNone
		if mod != nil && (msg.String() == "y" || msg.String() == "Y") {
			name := mod.Name
			return m, func() tea.Msg { return RemoveModMsg{Name: name} }
		}
		return m, nil
	}

	switch {
	case m.keys.IsCancel(msg):
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case m.keys.IsConfirm(msg):
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		if kind == promptAdd {
			return m, func() tea.Msg { return AddModMsg{Name: value} }
		}
		mod := m.SelectedMod()
		if mod == nil || mod.Name == value {
			return m, nil
		}
		oldName := mod.Name
		return m, func() tea.Msg { return RenameModMsg{OldName: oldName, NewName: value} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Mods) View() string {
	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	itemStyle := lipgloss.NewStyle().
		PaddingLeft(2)

	selectedStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("205")).
		Bold(true)

	disabledStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("241"))

	conflictStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("196"))

	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		PaddingLeft(6)

	output := titleStyle.Render("Mods") + "\n"
	output += infoStyle.Render(fmt.Sprintf("Game: %s", m.game)) + "\n\n"

	if len(m.mods) == 0 {
		output += itemStyle.Render("No mods registered.") + "\n\n"
		output += infoStyle.Render("Press a to add one or run 'meo mod reconcile'") + "\n"
		return output + m.renderPrompt()
	}

	output += infoStyle.Render(fmt.Sprintf("Load Order (%d mods, %d conflicted):", len(m.mods), len(m.conflicts))) + "\n\n"

	for i, mod := range m.mods {
		cursor := "  "
		style := itemStyle
		conflicted := mod.Enabled && m.conflicts.Has(mod.Folder())

		switch {
		case i == m.selected:
			cursor = "▸ "
			style = selectedStyle
		case conflicted:
			style = conflictStyle
		case !mod.Enabled:
			style = disabledStyle
		}

		status := "[✓]"
		if !mod.Enabled {
			status = "[ ]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, status, mod.Name)
		if conflicted {
			line += " !"
		}
		output += style.Render(line) + "\n"

		if i == m.selected && conflicted {
			for _, p := range m.conflicts[mod.Folder()] {
				output += detailStyle.Render(p) + "\n"
			}
		}
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	output += helpStyle.Render("space: toggle  K/J: reorder  a: add  r: rename  d: delete")

	return output + m.renderPrompt()
}

func (m Mods) renderPrompt() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		MarginTop(1)

	switch m.prompt {
	case promptAdd:
		return "\n" + promptStyle.Render("New mod name: ") + m.input.View()
	case promptRename:
		return "\n" + promptStyle.Render("Rename to: ") + m.input.View()
	case promptRemove:
		if mod := m.SelectedMod(); mod != nil {
			return "\n" + promptStyle.Render(fmt.Sprintf("Delete %s and its folder? (y/N)", mod.Name))
		}
	}
	return ""
}
