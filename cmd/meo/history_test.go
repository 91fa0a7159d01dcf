package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Structure(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
	flag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "20", flag.DefValue)
}

func TestHistory_RecordsChanges(t *testing.T) {
	setupGame(t)
	_, err := execute(t, "", "mod", "add", "ModB")
	require.NoError(t, err)
	_, err = execute(t, "", "mod", "disable", "ModA")
	require.NoError(t, err)

	out, err := execute(t, "", "--json", "history", "-n", "2")
	require.NoError(t, err)

	var entries []historyJSON
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "mod.disable", entries[0].Action)
	assert.Equal(t, "ModA", entries[0].Subject)
	assert.Equal(t, "mod.add", entries[1].Action)
	assert.Equal(t, "Elden Ring", entries[1].Game)

	out, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "game.add")
}

func TestHistory_InvalidLimit(t *testing.T) {
	setupGame(t)

	_, err := execute(t, "", "history", "-n", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be positive")
}
