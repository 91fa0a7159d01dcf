package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"meo/internal/domain"
	"meo/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "vim", cfg.Keybindings)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CurrentGame)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
current_game: Elden Ring
keybindings: standard
log_level: debug
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Elden Ring", cfg.CurrentGame)
	assert.Equal(t, "standard", cfg.Keybindings)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("current_game: [unclosed"), 0644))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &config.Config{CurrentGame: "Sekiro", Keybindings: "vim", LogLevel: "warn"}
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Sekiro", loaded.CurrentGame)
	assert.Equal(t, "warn", loaded.LogLevel)
}

func TestLoadGames_Empty(t *testing.T) {
	dir := t.TempDir()
	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestLoadGames_FromFile(t *testing.T) {
	dir := t.TempDir()
	gamesPath := filepath.Join(dir, "games.yaml")

	content := `
games:
  Elden Ring:
    config_path: /games/er/config_eldenring.toml
    external_dlls:
      - mods/a.dll
      - mods/b.dll
`
	err := os.WriteFile(gamesPath, []byte(content), 0644)
	require.NoError(t, err)

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games["Elden Ring"]
	assert.Equal(t, "Elden Ring", game.Name)
	assert.Equal(t, "/games/er/config_eldenring.toml", game.ConfigPath)
	assert.Equal(t, []string{"mods/a.dll", "mods/b.dll"}, game.Plugins)
}

func TestSaveGame(t *testing.T) {
	dir := t.TempDir()

	game := &domain.Game{
		Name:       "Elden Ring",
		ConfigPath: "/games/er/config_eldenring.toml",
		Plugins:    []string{"x.dll"},
	}

	err := config.SaveGame(dir, game)
	require.NoError(t, err)

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Contains(t, games, "Elden Ring")
	assert.Equal(t, []string{"x.dll"}, games["Elden Ring"].Plugins)
}

func TestDeleteGame(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.SaveGame(dir, &domain.Game{Name: "A", ConfigPath: "/a/config_a.toml"}))
	require.NoError(t, config.SaveGame(dir, &domain.Game{Name: "B", ConfigPath: "/b/config_b.toml"}))

	require.NoError(t, config.DeleteGame(dir, "A"))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	assert.NotContains(t, games, "A")
	assert.Contains(t, games, "B")

	err = config.DeleteGame(dir, "A")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestLoadGames_ExpandsTilde(t *testing.T) {
	dir := t.TempDir()
	gamesPath := filepath.Join(dir, "games.yaml")

	content := `
games:
  Test:
    config_path: ~/games/test/config_test.toml
`
	err := os.WriteFile(gamesPath, []byte(content), 0644)
	require.NoError(t, err)

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 1)

	home, _ := os.UserHomeDir()
	assert.NotContains(t, games["Test"].ConfigPath, "~")
	assert.Equal(t, filepath.Join(home, "games/test/config_test.toml"), games["Test"].ConfigPath)
}
