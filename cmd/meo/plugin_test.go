package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"meo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listPlugins(t *testing.T) []pluginJSON {
	t.Helper()
	out, err := execute(t, "", "--json", "plugin", "list")
	require.NoError(t, err)

	var plugins []pluginJSON
	require.NoError(t, json.Unmarshal([]byte(out), &plugins))
	return plugins
}

func TestPluginCmd_Structure(t *testing.T) {
	subs := make(map[string]bool)
	for _, c := range pluginCmd.Commands() {
		subs[c.Name()] = true
	}
	for _, name := range []string{"list", "enable", "disable", "reorder", "move"} {
		assert.True(t, subs[name], "missing plugin %s", name)
	}
}

func TestPlugin_EnableAndOrder(t *testing.T) {
	gameDir := setupGame(t)
	for _, p := range []string{"a.dll", "dlls/b.dll", "modengine2/modengine2.dll"} {
		full := filepath.Join(gameDir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}

	assert.Equal(t, []pluginJSON{
		{Path: "a.dll"},
		{Path: "dlls/b.dll"},
	}, listPlugins(t))

	_, err := execute(t, "", "plugin", "enable", "dlls/b.dll")
	require.NoError(t, err)

	_, err = execute(t, "", "plugin", "move", "dlls/b.dll", "-1")
	require.NoError(t, err)

	assert.Equal(t, []pluginJSON{
		{Path: "dlls/b.dll", Enabled: true},
		{Path: "a.dll"},
	}, listPlugins(t))

	data, err := os.ReadFile(filepath.Join(gameDir, "config_eldenring.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dlls/b.dll")
	assert.NotContains(t, string(data), "a.dll")

	_, err = execute(t, "", "plugin", "reorder", "a.dll", "dlls/b.dll")
	require.NoError(t, err)
	assert.Equal(t, "a.dll", listPlugins(t)[0].Path)

	_, err = execute(t, "", "plugin", "disable", "missing.dll")
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

func TestPlugin_EmptyList(t *testing.T) {
	setupGame(t)

	out, err := execute(t, "", "plugin", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No .dll files found")
}
