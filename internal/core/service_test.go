package core_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"meo/internal/core"
	"meo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderConfig = `[modengine]
debug = false
external_dlls = []

[extension.mod_loader]
enabled = true
loose_params = false
mods = [
    { enabled = true, name = "default", path = "mod" },
    { enabled = true, name = "ModA", path = "mod/ModA" },
]
`

func setupService(t *testing.T) (*core.Service, string) {
	t.Helper()
	gameDir := t.TempDir()
	configPath := filepath.Join(gameDir, "config_eldenring.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(loaderConfig), 0644))

	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir: t.TempDir(),
		DataDir:   t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	_, err = svc.Games().Add("Elden Ring", configPath)
	require.NoError(t, err)
	return svc, gameDir
}

func put(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestService_OpenCurrentGame(t *testing.T) {
	svc, gameDir := setupService(t)

	session, err := svc.Open("")
	require.NoError(t, err)
	assert.Equal(t, "Elden Ring", session.Game.Name)
	assert.Equal(t, filepath.Join(gameDir, "mod"), session.OverlayRoot())
	assert.Equal(t, []string{"default", "ModA"}, namesOf(session.Registry.List()))

	_, err = svc.Open("Ghost")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestService_ConflictScenario(t *testing.T) {
	svc, gameDir := setupService(t)
	put(t, filepath.Join(gameDir, "mod", "ModA", "x", "item.param"))
	put(t, filepath.Join(gameDir, "mod", "ModB", "y", "item.param"))

	session, err := svc.Open("")
	require.NoError(t, err)
	_, err = session.Registry.Add("ModB", "")
	require.NoError(t, err)

	report, err := session.Conflicts()
	require.NoError(t, err)
	assert.Equal(t, domain.ConflictReport{
		"ModA": {"x/item.param"},
		"ModB": {"y/item.param"},
	}, report)

	require.NoError(t, session.Registry.SetEnabled("ModB", false))
	report, err = session.Conflicts()
	require.NoError(t, err)
	assert.True(t, report.Empty())

	data, err := os.ReadFile(filepath.Join(gameDir, "config_eldenring.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "mod/ModB")
}

func TestService_MissingOverlayRootIsWarning(t *testing.T) {
	svc, _ := setupService(t)

	session, err := svc.Open("")
	require.NoError(t, err)

	report, err := session.Conflicts()
	assert.ErrorIs(t, err, domain.ErrRootNotFound)
	assert.True(t, report.Empty())
}

func TestService_Plugins(t *testing.T) {
	svc, gameDir := setupService(t)
	put(t, filepath.Join(gameDir, "dlls", "fps.dll"))
	put(t, filepath.Join(gameDir, "modengine2", "bin", "modengine2.dll"))

	session, err := svc.Open("")
	require.NoError(t, err)
	plugins, err := session.Plugins()
	require.NoError(t, err)
	assert.Equal(t, []domain.Plugin{{Path: "dlls/fps.dll", Enabled: false}}, plugins.List())

	require.NoError(t, plugins.SetEnabled("dlls/fps.dll", true))

	data, err := os.ReadFile(filepath.Join(gameDir, "config_eldenring.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dlls/fps.dll")

	game, err := svc.Games().Get("Elden Ring")
	require.NoError(t, err)
	assert.Equal(t, []string{"dlls/fps.dll"}, game.Plugins)
}

func TestService_History(t *testing.T) {
	svc, _ := setupService(t)

	session, err := svc.Open("")
	require.NoError(t, err)
	_, err = session.Registry.Add("ModB", "")
	require.NoError(t, err)
	require.NoError(t, session.Registry.Rename("ModB", "ModC"))

	entries, err := svc.History("Elden Ring", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, "mod.rename", entries[0].Action)
	assert.Equal(t, "ModB", entries[0].Subject)
	assert.Equal(t, "mod.add", entries[1].Action)

	require.NoError(t, svc.RenameGame("Elden Ring", "ER"))
	entries, err = svc.History("ER", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestService_ItemCatalog(t *testing.T) {
	svc, _ := setupService(t)
	path := filepath.Join(svc.ConfigDir(), core.ItemIDsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"am_a.dcx": "Arms"}`), 0644))

	catalog, err := svc.ItemCatalog()
	require.NoError(t, err)
	desc, ok := catalog.Describe("am_a.dcx")
	assert.True(t, ok)
	assert.Equal(t, "Arms", desc)
}

func TestService_Launch(t *testing.T) {
	svc, gameDir := setupService(t)
	script := filepath.Join(gameDir, "launchmod_eldenring.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/bash\necho launched\n"), 0755))

	game, err := svc.Games().Get("Elden Ring")
	require.NoError(t, err)

	var out bytes.Buffer
	result, err := svc.Launch(context.Background(), game, &out, &out)
	require.NoError(t, err)
	assert.Equal(t, script, result.Script)
	assert.Contains(t, out.String(), "launched")
}

func namesOf(mods []domain.Mod) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}
