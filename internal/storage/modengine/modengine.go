// Package modengine reads and writes the mod loader's TOML config
// (config_<game>.toml). Only the mod list and the enabled plugin list are
// typed; every other key in the document is preserved on write.
package modengine

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"meo/internal/domain"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

type modRecord struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name"`
	Path    string `toml:"path"`
}

type document struct {
	ModEngine struct {
		ExternalDLLs []string `toml:"external_dlls"`
	} `toml:"modengine"`
	Extension struct {
		ModLoader struct {
			Mods []modRecord `toml:"mods"`
		} `toml:"mod_loader"`
	} `toml:"extension"`
}

// Store is the loader config for one game. Every Save re-reads the whole
// document, replaces one key and writes the document back.
type Store struct {
	fs         afero.Fs
	path       string
	overlayDir string
}

// New creates a store for the config file at configPath
func New(fsys afero.Fs, configPath string) *Store {
	return &Store{fs: fsys, path: configPath}
}

// Path returns the config file path
func (s *Store) Path() string {
	return s.path
}

// GameDir returns the directory holding the config file
func (s *Store) GameDir() string {
	return filepath.Dir(s.path)
}

// OverlayRoot returns the absolute overlay root. It reads the config to
// learn the overlay folder name if no load has happened yet.
func (s *Store) OverlayRoot() string {
	if s.overlayDir == "" {
		if _, err := s.load(); err != nil {
			return filepath.Join(s.GameDir(), domain.DefaultOverlayDir)
		}
	}
	return filepath.Join(s.GameDir(), filepath.FromSlash(s.overlayDir))
}

// LoadMods returns the mod list in persisted order with paths relative to
// the overlay root.
func (s *Store) LoadMods() ([]domain.Mod, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	mods := make([]domain.Mod, 0, len(doc.Extension.ModLoader.Mods))
	for i, rec := range doc.Extension.ModLoader.Mods {
		if rec.Name == "" {
			return nil, fmt.Errorf("%w: mod entry %d has no name", domain.ErrInvalidConfig, i+1)
		}
		mods = append(mods, domain.Mod{
			Name:         rec.Name,
			Enabled:      rec.Enabled,
			RelativePath: s.toOverlay(rec.Path),
		})
	}
	return mods, nil
}

// SaveMods replaces the mod list
func (s *Store) SaveMods(mods []domain.Mod) error {
	raw, err := s.readRaw()
	if err != nil {
		return err
	}

	records := make([]any, len(mods))
	for i, m := range mods {
		records[i] = map[string]any{
			"enabled": m.Enabled,
			"name":    m.Name,
			"path":    s.toDisk(m.RelativePath),
		}
	}
	table(table(raw, "extension"), "mod_loader")["mods"] = records

	return s.write(raw)
}

// LoadEnabledPlugins returns the loader's enabled plugin paths in load order
func (s *Store) LoadEnabledPlugins() ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.ModEngine.ExternalDLLs, nil
}

// SaveEnabledPlugins replaces the loader's enabled plugin list
func (s *Store) SaveEnabledPlugins(paths []string) error {
	raw, err := s.readRaw()
	if err != nil {
		return err
	}

	list := make([]any, len(paths))
	for i, p := range paths {
		list[i] = p
	}
	table(raw, "modengine")["external_dlls"] = list

	return s.write(raw)
}

func (s *Store) read() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: loader config %s: %w", domain.ErrIO, s.path, err)
		}
		return nil, fmt.Errorf("%w: reading loader config: %w", domain.ErrIO, err)
	}
	return data, nil
}

func (s *Store) load() (*document, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing loader config: %w", domain.ErrInvalidConfig, err)
	}

	if s.overlayDir == "" {
		s.overlayDir = domain.DefaultOverlayDir
		if mods := doc.Extension.ModLoader.Mods; len(mods) > 0 {
			if first := firstSegment(mods[0].Path); first != "" {
				s.overlayDir = first
			}
		}
	}

	return &doc, nil
}

func (s *Store) readRaw() (map[string]any, error) {
	// Typed decode first so the overlay folder is known and the document is
	// validated before it is rewritten.
	if _, err := s.load(); err != nil {
		return nil, err
	}

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing loader config: %w", domain.ErrInvalidConfig, err)
	}
	return raw, nil
}

// write replaces the config file through a temp file and rename so a failed
// write never leaves a truncated document behind.
func (s *Store) write(raw map[string]any) error {
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling loader config: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.GameDir(), ".meo-config-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp config: %w", domain.ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: writing loader config: %w", domain.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: writing loader config: %w", domain.ErrIO, err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: replacing loader config: %w", domain.ErrIO, err)
	}
	return nil
}

// toOverlay converts a loader path (relative to the game dir) to a path
// relative to the overlay root.
func (s *Store) toOverlay(diskPath string) string {
	p := path.Clean(strings.ReplaceAll(diskPath, `\`, "/"))
	rel, err := filepath.Rel(filepath.FromSlash(s.overlayDir), filepath.FromSlash(p))
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// toDisk converts an overlay-relative path back to the loader's form
func (s *Store) toDisk(rel string) string {
	return path.Join(s.overlayDir, rel)
}

func firstSegment(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if p == "." || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "..") {
		return ""
	}
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// table returns raw[key] as a table, creating or replacing it as needed
func table(raw map[string]any, key string) map[string]any {
	if t, ok := raw[key].(map[string]any); ok {
		return t
	}
	t := make(map[string]any)
	raw[key] = t
	return t
}
