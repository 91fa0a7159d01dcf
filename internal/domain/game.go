package domain

import (
	"path/filepath"
	"strings"
)

// DefaultOverlayDir is the overlay folder name used when the loader config
// does not list any mod to derive it from.
const DefaultOverlayDir = "mod"

// Game is a managed game profile
type Game struct {
	Name       string   // Display name, unique
	ConfigPath string   // Absolute path to the loader's config_<id>.toml
	Plugins    []string // Full known plugin list, in load order
}

// Dir returns the directory holding the loader config. Mod and plugin paths
// are relative to it.
func (g *Game) Dir() string {
	return filepath.Dir(g.ConfigPath)
}

// ConfigID returns the <id> part of config_<id>.toml
func (g *Game) ConfigID() string {
	base := filepath.Base(g.ConfigPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "config_")
}
