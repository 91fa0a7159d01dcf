package views_test

import (
	"testing"

	"meo/internal/domain"
	"meo/internal/tui"
	"meo/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugins_ToggleAndMove(t *testing.T) {
	p := views.NewPlugins(tui.NewKeyMap("vim"), []domain.Plugin{
		{Path: "a.dll", Enabled: true},
		{Path: "dlls/b.dll", Enabled: false},
	})
	assert.Contains(t, p.View(), "dlls/b.dll")

	next, _ := p.Update(key("j"))
	p = next.(views.Plugins)
	assert.Equal(t, 1, p.Selected())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	assert.Equal(t, views.TogglePluginMsg{Path: "dlls/b.dll", Enabled: true}, cmd())

	next, cmd = p.Update(key("K"))
	require.NotNil(t, cmd)
	assert.Equal(t, views.MovePluginMsg{Path: "dlls/b.dll", Delta: -1}, cmd())
	assert.Equal(t, 1, next.(views.Plugins).Selected(), "selection waits for the reload")

	assert.Equal(t, 0, p.Select("a.dll").Selected())
	assert.Equal(t, 1, p.Select("missing.dll").Selected())
}

func TestPlugins_Empty(t *testing.T) {
	p := views.NewPlugins(tui.NewKeyMap("vim"), nil)
	assert.Contains(t, p.View(), "No .dll files")

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Nil(t, cmd)
}

func TestGames_Select(t *testing.T) {
	games := []*domain.Game{
		{Name: "Dark Souls III", ConfigPath: "/ds3/config_darksouls3.toml"},
		{Name: "Elden Ring", ConfigPath: "/er/config_eldenring.toml"},
	}
	g := views.NewGames(tui.NewKeyMap("standard"), games, "Elden Ring")
	assert.Equal(t, 1, g.Selected())
	assert.Contains(t, g.View(), "(current)")

	next, _ := g.Update(tea.KeyMsg{Type: tea.KeyUp})
	g = next.(views.Games)

	_, cmd := g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "Dark Souls III", cmd().(views.GameSelectedMsg).Game.Name)
}

func TestGames_Empty(t *testing.T) {
	g := views.NewGames(tui.NewKeyMap("vim"), nil, "")
	assert.Contains(t, g.View(), "meo game add")
}
