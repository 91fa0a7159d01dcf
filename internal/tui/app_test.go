package tui_test

import (
	"os"
	"path/filepath"
	"testing"

	"meo/internal/core"
	"meo/internal/tui"
	"meo/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderConfig = `[modengine]
external_dlls = []

[extension.mod_loader]
enabled = true
mods = [
    { enabled = true, name = "ModA", path = "mod/ModA" },
    { enabled = true, name = "ModB", path = "mod/ModB" },
]
`

func setupApp(t *testing.T) (tui.App, string) {
	t.Helper()
	gameDir := t.TempDir()
	configPath := filepath.Join(gameDir, "config_eldenring.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(loaderConfig), 0644))
	for _, p := range []string{"mod/ModA/x/item.param", "mod/ModB/y/item.param"} {
		full := filepath.Join(gameDir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}

	svc, err := core.NewService(core.ServiceConfig{ConfigDir: t.TempDir(), DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	_, err = svc.Games().Add("Elden Ring", configPath)
	require.NoError(t, err)

	return tui.NewApp(svc, ""), gameDir
}

func send(t *testing.T, m tea.Model, msg tea.Msg) tui.App {
	t.Helper()
	next, cmd := m.Update(msg)
	app := next.(tui.App)
	if cmd != nil {
		if follow := cmd(); follow != nil {
			if _, quit := follow.(tea.QuitMsg); !quit {
				return send(t, app, follow)
			}
		}
	}
	return app
}

func TestNewApp_WithoutService(t *testing.T) {
	app := tui.NewApp(nil, "")

	assert.Equal(t, tui.ViewMods, app.CurrentView())
	assert.Contains(t, app.View(), "No mods registered")
}

func TestApp_NavigateToView(t *testing.T) {
	app := tui.NewApp(nil, "")

	app = send(t, app, tui.NavigateMsg{View: tui.ViewPlugins})
	assert.Equal(t, tui.ViewPlugins, app.CurrentView())

	app = send(t, app, runes("3"))
	assert.Equal(t, tui.ViewGames, app.CurrentView())
}

func TestApp_QuitOnQ(t *testing.T) {
	app := tui.NewApp(nil, "")

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestApp_ShowsConflicts(t *testing.T) {
	app, _ := setupApp(t)

	view := app.View()
	assert.Contains(t, view, "ModA")
	assert.Contains(t, view, "2 conflicted")
	assert.Contains(t, view, "x/item.param")
}

func TestApp_ToggleClearsConflict(t *testing.T) {
	app, gameDir := setupApp(t)

	app = send(t, app, tea.KeyMsg{Type: tea.KeySpace})
	require.NoError(t, app.Err())
	assert.Contains(t, app.View(), "0 conflicted")

	data, err := os.ReadFile(filepath.Join(gameDir, "config_eldenring.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "enabled = false")
}

func TestApp_AddModThroughPrompt(t *testing.T) {
	app, gameDir := setupApp(t)

	app = send(t, app, runes("a"))
	for _, r := range "ModC" {
		app = send(t, app, runes(string(r)))
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, app.Err())

	info, err := os.Stat(filepath.Join(gameDir, "mod", "ModC"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, app.View(), "ModC")
}

func TestApp_PromptSwallowsGlobalKeys(t *testing.T) {
	app, _ := setupApp(t)

	app = send(t, app, runes("a"))
	app = send(t, app, runes("q"))
	app = send(t, app, runes("2"))
	assert.Equal(t, tui.ViewMods, app.CurrentView())
}

func TestApp_ErrorIsShown(t *testing.T) {
	app, _ := setupApp(t)

	app = send(t, app, views.RenameModMsg{OldName: "ModA", NewName: "ModB"})
	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_MoveKeepsSelectionOnMovedMod(t *testing.T) {
	app, _ := setupApp(t)

	app = send(t, app, runes("J"))
	require.NoError(t, app.Err())
	assert.Equal(t, 1, app.Mods().Selected())
	assert.Equal(t, "ModA", app.Mods().SelectedMod().Name)
}

func TestApp_FailedMoveKeepsSelection(t *testing.T) {
	app, gameDir := setupApp(t)
	require.NoError(t, os.Remove(filepath.Join(gameDir, "config_eldenring.toml")))

	app = send(t, app, runes("J"))
	require.Error(t, app.Err())
	assert.Equal(t, 0, app.Mods().Selected())
	assert.Equal(t, "ModA", app.Mods().SelectedMod().Name)
}
