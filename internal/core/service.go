package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"meo/internal/domain"
	"meo/internal/storage/config"
	"meo/internal/storage/db"
	"meo/internal/storage/modengine"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string   // Directory for configuration files
	DataDir   string   // Directory for database and persistent data
	Fs        afero.Fs // Filesystem for game files; defaults to the OS
	Logger    *log.Logger
}

// Service is the main orchestrator for mod management operations
type Service struct {
	config   *config.Config
	db       *db.DB
	games    *GameManager
	detector *Detector
	fs       afero.Fs
	logger   *log.Logger

	configDir string
	dataDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	// Load configuration
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Open database
	dbPath := filepath.Join(cfg.DataDir, "meo.db")
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Load games
	games, err := NewGameManager(cfg.ConfigDir, appConfig, cfg.Logger)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading games: %w", err)
	}

	s := &Service{
		config:    appConfig,
		db:        database,
		games:     games,
		detector:  NewDetector(cfg.Fs, cfg.Logger),
		fs:        cfg.Fs,
		logger:    cfg.Logger,
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
	}
	games.OnChange(func(action, subject, detail string) {
		s.journal(subject, action, subject, detail)
	})
	return s, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the application configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// ConfigDir returns the configuration directory path
func (s *Service) ConfigDir() string {
	return s.configDir
}

// Logger returns the service logger
func (s *Service) Logger() *log.Logger {
	return s.logger
}

// Games returns the game profile manager
func (s *Service) Games() *GameManager {
	return s.games
}

// DB returns the journal database
func (s *Service) DB() *db.DB {
	return s.db
}

// RenameGame renames a game profile and moves its journal entries along
func (s *Service) RenameGame(oldName, newName string) error {
	if err := s.games.Rename(oldName, newName); err != nil {
		return err
	}
	if err := s.db.RenameJournalGame(oldName, newName); err != nil {
		s.logger.Warn("could not move journal entries", "from", oldName, "to", newName, "err", err)
	}
	return nil
}

// History returns the newest journal entries for a game, or for every game
// when name is empty.
func (s *Service) History(name string, limit int) ([]domain.JournalEntry, error) {
	return s.db.RecentJournal(name, limit)
}

// Open resolves a game (the current one when name is empty) and loads its
// mod registry.
func (s *Service) Open(name string) (*Session, error) {
	var game *domain.Game
	var err error
	if name == "" {
		game, err = s.games.Current()
	} else {
		game, err = s.games.Get(name)
	}
	if err != nil {
		return nil, err
	}

	store := modengine.New(s.fs, game.ConfigPath)
	registry := NewRegistry(s.fs, store, s.logger.With("game", game.Name))
	registry.OnChange(func(action, subject, detail string) {
		s.journal(game.Name, action, subject, detail)
	})

	return &Session{
		Game:     game,
		Registry: registry,
		store:    store,
		svc:      s,
	}, nil
}

// ItemCatalog loads the item catalog from item_ids_path, or parts.json in the
// config directory.
func (s *Service) ItemCatalog() (*ItemCatalog, error) {
	path := s.config.ItemIDsPath
	if path == "" {
		path = filepath.Join(s.configDir, ItemIDsFile)
	}
	return LoadItemCatalog(s.fs, path)
}

// Launch runs the game's launch script and waits for it to exit
func (s *Service) Launch(ctx context.Context, game *domain.Game, stdout, stderr io.Writer) (*LaunchResult, error) {
	launcher := NewLauncher(0)
	launcher.Stdout = stdout
	launcher.Stderr = stderr

	start := time.Now()
	result, err := launcher.Run(ctx, game)
	s.logger.Debug("launch script exited", "game", game.Name, "elapsed", time.Since(start), "err", err)
	if result != nil && result.Script != "" {
		s.journal(game.Name, "game.launch", game.Name, filepath.Base(result.Script))
	}
	return result, err
}

func (s *Service) journal(game, action, subject, detail string) {
	if err := s.db.AppendJournal(game, action, subject, detail); err != nil {
		s.logger.Warn("could not write journal entry", "action", action, "err", err)
	}
}

// Session is one game opened for editing
type Session struct {
	Game     *domain.Game
	Registry *Registry
	store    *modengine.Store
	plugins  *PluginList
	svc      *Service
}

// OverlayRoot returns the game's overlay root directory
func (ss *Session) OverlayRoot() string {
	return ss.Registry.OverlayRoot()
}

// Conflicts runs conflict detection over the enabled mods
func (ss *Session) Conflicts() (domain.ConflictReport, error) {
	return ss.svc.detector.Detect(ss.Registry.OverlayRoot(), ss.Registry.DisabledFolders())
}

// Plugins returns the game's plugin list, scanning the game directory on
// first use.
func (ss *Session) Plugins() (*PluginList, error) {
	if ss.plugins != nil {
		return ss.plugins, nil
	}
	name := ss.Game.Name
	list := NewPluginList(ss.svc.fs, ss.store, ss.svc.games.knownPlugins(name), ss.svc.logger.With("game", name))
	list.OnChange(func(action, subject, detail string) {
		ss.svc.journal(name, action, subject, detail)
	})
	if err := list.Reload(); err != nil {
		return nil, err
	}
	ss.plugins = list
	return list, nil
}

// ModDir returns the absolute directory of a registered mod
func (ss *Session) ModDir(name string) (string, error) {
	m, err := ss.Registry.Get(name)
	if err != nil {
		return "", err
	}
	return ss.Registry.Dir(m), nil
}
