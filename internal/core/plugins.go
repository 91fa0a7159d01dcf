package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"meo/internal/domain"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// pluginPattern matches plugin files at any depth of the game directory
const pluginPattern = "**/*" + domain.PluginExtension

// LoaderPlugins is the loader's list of plugins to inject
type LoaderPlugins interface {
	LoadEnabledPlugins() ([]string, error)
	SaveEnabledPlugins(paths []string) error
	GameDir() string
}

// KnownPlugins persists every plugin the user has seen, in load order
type KnownPlugins interface {
	LoadKnownPlugins() ([]string, error)
	SaveKnownPlugins(paths []string) error
}

// PluginList is the ordered list of plugins found under a game directory.
// The loader only stores enabled plugins, so the full order including
// disabled entries is kept separately and the two are written together.
type PluginList struct {
	fs      afero.Fs
	loader  LoaderPlugins
	known   KnownPlugins
	plugins []domain.Plugin
	logger  *log.Logger
	record  RecordFunc
}

// NewPluginList creates an empty list; call Reload to populate it
func NewPluginList(fsys afero.Fs, loader LoaderPlugins, known KnownPlugins, logger *log.Logger) *PluginList {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PluginList{
		fs:     fsys,
		loader: loader,
		known:  known,
		logger: logger,
		record: func(string, string, string) {},
	}
}

// OnChange sets the function called after each successful mutation
func (p *PluginList) OnChange(fn RecordFunc) {
	if fn == nil {
		fn = func(string, string, string) {}
	}
	p.record = fn
}

// Discover returns every plugin under the game directory, relative to it,
// skipping the loader's own directory at any depth.
func (p *PluginList) Discover() ([]string, error) {
	root := p.loader.GameDir()
	var found []string

	err := afero.Walk(p.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			p.logger.Warn("skipping unreadable entry", "path", path, "err", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if strings.EqualFold(info.Name(), domain.LoaderDir) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pluginPattern, strings.ToLower(rel)); ok {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %w", domain.ErrIO, root, err)
	}
	return found, nil
}

// Reload rebuilds the list from disk. Known entries keep their order and
// entries no longer on disk are dropped. Newly found plugins are appended,
// enabled only if the loader already lists them. Both stores are rewritten
// when the result differs from what they hold.
func (p *PluginList) Reload() error {
	enabledPaths, err := p.loader.LoadEnabledPlugins()
	if err != nil {
		return fmt.Errorf("loading enabled plugins: %w", err)
	}
	knownPaths, err := p.known.LoadKnownPlugins()
	if err != nil {
		return fmt.Errorf("loading known plugins: %w", err)
	}
	onDisk, err := p.Discover()
	if err != nil {
		return err
	}

	enabled := make(map[string]bool, len(enabledPaths))
	for _, path := range enabledPaths {
		enabled[path] = true
	}
	present := make(map[string]bool, len(onDisk))
	for _, path := range onDisk {
		present[path] = true
	}

	// Enabled entries the known list lost still keep their relative order
	order := slices.Clone(knownPaths)
	for _, path := range enabledPaths {
		if !slices.Contains(order, path) {
			order = append(order, path)
		}
	}
	for _, path := range onDisk {
		if !slices.Contains(order, path) {
			order = append(order, path)
		}
	}

	plugins := make([]domain.Plugin, 0, len(order))
	for _, path := range order {
		if !present[path] {
			p.logger.Debug("dropping plugin no longer on disk", "path", path)
			continue
		}
		plugins = append(plugins, domain.Plugin{Path: path, Enabled: enabled[path]})
	}

	if !slices.Equal(knownPaths, allPaths(plugins)) || !slices.Equal(enabledPaths, enabledOnly(plugins)) {
		if err := p.persist(knownPaths, plugins); err != nil {
			return err
		}
	}
	p.plugins = plugins
	return nil
}

// List returns the plugins in load order
func (p *PluginList) List() []domain.Plugin {
	return slices.Clone(p.plugins)
}

// SetEnabled flips one plugin and persists both lists
func (p *PluginList) SetEnabled(path string, enabled bool) error {
	i := p.index(path)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrPluginNotFound, path)
	}
	if p.plugins[i].Enabled == enabled {
		return nil
	}

	next := slices.Clone(p.plugins)
	next[i].Enabled = enabled
	if err := p.persist(allPaths(p.plugins), next); err != nil {
		return err
	}

	p.plugins = next
	action := "plugin.disable"
	if enabled {
		action = "plugin.enable"
	}
	p.record(action, path, "")
	return nil
}

// Reorder replaces the load order. paths must contain every listed plugin
// exactly once.
func (p *PluginList) Reorder(paths []string) error {
	if len(paths) != len(p.plugins) {
		return fmt.Errorf("%w: got %d paths for %d plugins", domain.ErrInvalidOrder, len(paths), len(p.plugins))
	}

	seen := make(map[string]bool, len(paths))
	next := make([]domain.Plugin, 0, len(paths))
	for _, path := range paths {
		if seen[path] {
			return fmt.Errorf("%w: %s listed twice", domain.ErrInvalidOrder, path)
		}
		seen[path] = true
		i := p.index(path)
		if i < 0 {
			return fmt.Errorf("%w: unknown plugin %s", domain.ErrInvalidOrder, path)
		}
		next = append(next, p.plugins[i])
	}

	if err := p.persist(allPaths(p.plugins), next); err != nil {
		return err
	}

	p.plugins = next
	p.record("plugin.reorder", strings.Join(paths, ","), "")
	return nil
}

// Move shifts one plugin by delta places, clamped to the ends
func (p *PluginList) Move(path string, delta int) error {
	i := p.index(path)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrPluginNotFound, path)
	}
	target := moveIndex(len(p.plugins), i, delta)
	if target == i {
		return nil
	}
	return p.Reorder(allPaths(moveItem(p.plugins, i, target)))
}

// persist writes the full order first and the enabled subset second. If the
// second write fails the first is restored so both stores stay in step.
func (p *PluginList) persist(previous []string, next []domain.Plugin) error {
	if err := p.known.SaveKnownPlugins(allPaths(next)); err != nil {
		return fmt.Errorf("saving plugin order: %w", err)
	}
	if err := p.loader.SaveEnabledPlugins(enabledOnly(next)); err != nil {
		saveErr := fmt.Errorf("saving enabled plugins: %w", err)
		if rbErr := p.known.SaveKnownPlugins(previous); rbErr != nil {
			p.logger.Error("could not restore plugin order", "err", rbErr)
			return errors.Join(saveErr, rbErr)
		}
		return saveErr
	}
	return nil
}

func (p *PluginList) index(path string) int {
	for i, pl := range p.plugins {
		if pl.Path == path {
			return i
		}
	}
	return -1
}

func allPaths(plugins []domain.Plugin) []string {
	paths := make([]string, len(plugins))
	for i, pl := range plugins {
		paths[i] = pl.Path
	}
	return paths
}

func enabledOnly(plugins []domain.Plugin) []string {
	paths := make([]string, 0, len(plugins))
	for _, pl := range plugins {
		if pl.Enabled {
			paths = append(paths, pl.Path)
		}
	}
	return paths
}
