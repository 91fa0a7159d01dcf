package views

import (
	"fmt"

	"meo/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TogglePluginMsg is sent to enable/disable a plugin
type TogglePluginMsg struct {
	Path    string
	Enabled bool
}

// MovePluginMsg is sent to change plugin load order
type MovePluginMsg struct {
	Path  string
	Delta int
}

// Plugins is the plugin load order view
type Plugins struct {
	keys     Keys
	plugins  []domain.Plugin
	selected int
	width    int
	height   int
}

// NewPlugins creates a new plugin list view
func NewPlugins(keys Keys, plugins []domain.Plugin) Plugins {
	return Plugins{keys: keys, plugins: plugins, width: 80, height: 24}
}

// WithData replaces the listed plugins
func (p Plugins) WithData(plugins []domain.Plugin) Plugins {
	p.plugins = plugins
	if p.selected >= len(plugins) {
		p.selected = max(len(plugins)-1, 0)
	}
	return p
}

// Select moves the cursor to the plugin with the given path, if listed
func (p Plugins) Select(path string) Plugins {
	for i, pl := range p.plugins {
		if pl.Path == path {
			p.selected = i
		}
	}
	return p
}

// Selected returns the currently selected index
func (p Plugins) Selected() int {
	return p.selected
}

// Init implements tea.Model
func (p Plugins) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p Plugins) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
	}
	return p, nil
}

func (p Plugins) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(p.plugins) == 0 {
		return p, nil
	}
	if selected, moved := cursor(p.keys, msg, p.selected, len(p.plugins)); moved {
		p.selected = selected
		return p, nil
	}

	plugin := p.plugins[p.selected]
	switch {
	case p.keys.IsToggle(msg):
		return p, func() tea.Msg {
			return TogglePluginMsg{Path: plugin.Path, Enabled: !plugin.Enabled}
		}

	case p.keys.IsMoveUp(msg):
		if p.selected > 0 {
			return p, func() tea.Msg { return MovePluginMsg{Path: plugin.Path, Delta: -1} }
		}

	case p.keys.IsMoveDown(msg):
		if p.selected < len(p.plugins)-1 {
			return p, func() tea.Msg { return MovePluginMsg{Path: plugin.Path, Delta: 1} }
		}
	}
	return p, nil
}

// View implements tea.Model
func (p Plugins) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)
	itemStyle := lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle := itemStyle.Foreground(lipgloss.Color("205")).Bold(true)
	disabledStyle := itemStyle.Foreground(lipgloss.Color("241"))
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	output := titleStyle.Render("Plugins") + "\n"
	if len(p.plugins) == 0 {
		return output + itemStyle.Render("No "+domain.PluginExtension+" files found in the game directory.") + "\n"
	}
	output += infoStyle.Render(fmt.Sprintf("Load Order (%d plugins):", len(p.plugins))) + "\n\n"

	for i, pl := range p.plugins {
		cursor := "  "
		style := itemStyle
		if i == p.selected {
			cursor = "▸ "
			style = selectedStyle
		} else if !pl.Enabled {
			style = disabledStyle
		}
		status := "[✓]"
		if !pl.Enabled {
			status = "[ ]"
		}
		output += style.Render(fmt.Sprintf("%s%s %s", cursor, status, pl.Path)) + "\n"
	}

	output += "\n" + infoStyle.Render("space: toggle  K/J: reorder")
	return output
}
