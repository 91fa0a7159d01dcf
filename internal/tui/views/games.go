package views

import (
	"fmt"

	"meo/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GameSelectedMsg is sent when a game is selected
type GameSelectedMsg struct {
	Game *domain.Game
}

// Games is the game selection view
type Games struct {
	keys     Keys
	games    []*domain.Game
	current  string
	selected int
}

// NewGames creates a new game selection view
func NewGames(keys Keys, games []*domain.Game, current string) Games {
	g := Games{keys: keys, games: games, current: current}
	for i, game := range games {
		if game.Name == current {
			g.selected = i
		}
	}
	return g
}

// Selected returns the currently selected index
func (g Games) Selected() int {
	return g.selected
}

// SelectedGame returns the currently selected game
func (g Games) SelectedGame() *domain.Game {
	if len(g.games) == 0 || g.selected >= len(g.games) {
		return nil
	}
	return g.games[g.selected]
}

// Init implements tea.Model
func (g Games) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (g Games) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(g.games) == 0 {
		return g, nil
	}
	if selected, moved := cursor(g.keys, keyMsg, g.selected, len(g.games)); moved {
		g.selected = selected
		return g, nil
	}
	if g.keys.IsConfirm(keyMsg) || g.keys.IsToggle(keyMsg) {
		game := g.SelectedGame()
		return g, func() tea.Msg { return GameSelectedMsg{Game: game} }
	}
	return g, nil
}

// View implements tea.Model
func (g Games) View() string {
	if len(g.games) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("No games configured.\n\nAdd a game with:\n  meo game add <name> /path/to/config_<game>.toml")
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)
	itemStyle := lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle := itemStyle.Foreground(lipgloss.Color("205")).Bold(true)
	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		PaddingLeft(4)

	output := titleStyle.Render("Games") + "\n\n"
	for i, game := range g.games {
		cursor := "  "
		style := itemStyle
		if i == g.selected {
			cursor = "▸ "
			style = selectedStyle
		}
		marker := ""
		if game.Name == g.current {
			marker = " (current)"
		}
		output += style.Render(fmt.Sprintf("%s%s%s", cursor, game.Name, marker)) + "\n"
		if i == g.selected {
			output += detailStyle.Render(fmt.Sprintf("Config: %s", game.ConfigPath)) + "\n"
		}
	}
	return output + "\n" + detailStyle.UnsetPaddingLeft().Render("enter: switch game")
}
