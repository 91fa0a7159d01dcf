package core

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"meo/internal/domain"
	"meo/internal/storage/config"

	"github.com/charmbracelet/log"
)

// GameManager owns the game profiles in games.yaml and the current game
// selection in config.yaml.
type GameManager struct {
	configDir string
	cfg       *config.Config
	games     map[string]*domain.Game
	logger    *log.Logger
	record    RecordFunc
}

// NewGameManager loads games.yaml from configDir
func NewGameManager(configDir string, cfg *config.Config, logger *log.Logger) (*GameManager, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	games, err := config.LoadGames(configDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return &GameManager{
		configDir: configDir,
		cfg:       cfg,
		games:     games,
		logger:    logger,
		record:    func(string, string, string) {},
	}, nil
}

// OnChange sets the function called after each successful mutation. The
// subject is always the game name.
func (m *GameManager) OnChange(fn RecordFunc) {
	if fn == nil {
		fn = func(string, string, string) {}
	}
	m.record = fn
}

// List returns all games sorted by name
func (m *GameManager) List() []*domain.Game {
	games := make([]*domain.Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
	return games
}

// Get returns a game by name
func (m *GameManager) Get(name string) (*domain.Game, error) {
	g, ok := m.games[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, name)
	}
	return g, nil
}

// Add registers a game. The first game added becomes the current game.
func (m *GameManager) Add(name, configPath string) (*domain.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name cannot be empty", domain.ErrInvalidName)
	}
	if _, exists := m.games[name]; exists {
		return nil, fmt.Errorf("%w: game %s", domain.ErrDuplicateName, name)
	}
	path, err := config.ParseGameConfigPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	game := &domain.Game{Name: name, ConfigPath: path}
	if err := config.SaveGame(m.configDir, game); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	m.games[name] = game
	m.record("game.add", name, path)

	if m.cfg.CurrentGame == "" {
		if err := m.Switch(name); err != nil {
			return game, err
		}
	}
	return game, nil
}

// Remove deletes a game profile. The loader config and mod folders are left
// untouched.
func (m *GameManager) Remove(name string) error {
	if _, ok := m.games[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, name)
	}
	if err := config.DeleteGame(m.configDir, name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	delete(m.games, name)
	m.record("game.remove", name, "")

	if m.cfg.CurrentGame == name {
		m.cfg.CurrentGame = ""
		if err := m.cfg.Save(m.configDir); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}
	return nil
}

// Rename changes a game's display name, following it in config.yaml
func (m *GameManager) Rename(oldName, newName string) error {
	game, ok := m.games[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, oldName)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: game name cannot be empty", domain.ErrInvalidName)
	}
	if newName == oldName {
		return nil
	}
	if _, exists := m.games[newName]; exists {
		return fmt.Errorf("%w: game %s", domain.ErrDuplicateName, newName)
	}

	next := make(map[string]*domain.Game, len(m.games))
	for name, g := range m.games {
		next[name] = g
	}
	renamed := *game
	renamed.Name = newName
	delete(next, oldName)
	next[newName] = &renamed

	if err := config.SaveGames(m.configDir, next); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	m.games = next
	m.record("game.rename", oldName, "to="+newName)

	if m.cfg.CurrentGame == oldName {
		m.cfg.CurrentGame = newName
		if err := m.cfg.Save(m.configDir); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}
	return nil
}

// SetPath points a game at a different loader config
func (m *GameManager) SetPath(name, configPath string) error {
	game, ok := m.games[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, name)
	}
	path, err := config.ParseGameConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	updated := *game
	updated.ConfigPath = path
	if err := config.SaveGame(m.configDir, &updated); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	m.games[name] = &updated
	m.record("game.set-path", name, path)
	return nil
}

// Switch makes name the current game
func (m *GameManager) Switch(name string) error {
	if _, ok := m.games[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, name)
	}
	if m.cfg.CurrentGame == name {
		return nil
	}
	m.cfg.CurrentGame = name
	if err := m.cfg.Save(m.configDir); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	m.record("game.switch", name, "")
	return nil
}

// Current returns the current game. When config.yaml names no game or an
// unknown one, the first game by name with a config path becomes current.
func (m *GameManager) Current() (*domain.Game, error) {
	if g, ok := m.games[m.cfg.CurrentGame]; ok {
		return g, nil
	}

	for _, g := range m.List() {
		if g.ConfigPath == "" {
			continue
		}
		if m.cfg.CurrentGame != "" {
			m.logger.Warn("current game not found, falling back", "game", m.cfg.CurrentGame, "fallback", g.Name)
		}
		if err := m.Switch(g.Name); err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: no games configured", domain.ErrGameNotFound)
}

// knownPlugins stores the full plugin order of one game in games.yaml
func (m *GameManager) knownPlugins(name string) KnownPlugins {
	return &gamePlugins{manager: m, name: name}
}

type gamePlugins struct {
	manager *GameManager
	name    string
}

func (p *gamePlugins) LoadKnownPlugins() ([]string, error) {
	g, err := p.manager.Get(p.name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(g.Plugins), nil
}

func (p *gamePlugins) SaveKnownPlugins(paths []string) error {
	g, err := p.manager.Get(p.name)
	if err != nil {
		return err
	}
	updated := *g
	updated.Plugins = slices.Clone(paths)
	if err := config.SaveGame(p.manager.configDir, &updated); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	p.manager.games[p.name] = &updated
	return nil
}
