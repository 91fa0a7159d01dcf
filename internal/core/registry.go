package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"meo/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ModStore persists a game's mod list
type ModStore interface {
	LoadMods() ([]domain.Mod, error)
	SaveMods(mods []domain.Mod) error
	OverlayRoot() string
}

// RecordFunc is called after every successful mutation
type RecordFunc func(action, subject, detail string)

// Registry is the ordered mod list of one game. The directory operation is
// the source of truth: the store is only written after the filesystem change
// succeeded, and filesystem changes are undone when the store write fails.
type Registry struct {
	fs     afero.Fs
	store  ModStore
	root   string
	mods   []domain.Mod
	logger *log.Logger
	record RecordFunc
}

// NewRegistry loads the mod list from store. A store that cannot be read
// yields an empty registry; the failure is logged and available from Reload.
func NewRegistry(fsys afero.Fs, store ModStore, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Registry{
		fs:     fsys,
		store:  store,
		logger: logger,
		record: func(string, string, string) {},
	}
	if err := r.Reload(); err != nil {
		r.logger.Warn("mod list unavailable, starting empty", "err", err)
	}
	return r
}

// OnChange sets the function called after each successful mutation
func (r *Registry) OnChange(fn RecordFunc) {
	if fn == nil {
		fn = func(string, string, string) {}
	}
	r.record = fn
}

// Reload re-reads the mod list from the store
func (r *Registry) Reload() error {
	mods, err := r.store.LoadMods()
	r.root = r.store.OverlayRoot()
	if err != nil {
		r.mods = nil
		return err
	}
	r.mods = mods
	return nil
}

// OverlayRoot returns the absolute overlay root directory
func (r *Registry) OverlayRoot() string {
	return r.root
}

// List returns all mods in persisted order
func (r *Registry) List() []domain.Mod {
	return slices.Clone(r.mods)
}

// Get returns the mod with the given name
func (r *Registry) Get(name string) (domain.Mod, error) {
	i := r.index(name)
	if i < 0 {
		return domain.Mod{}, fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	}
	return r.mods[i], nil
}

// Dir returns the absolute directory of a mod
func (r *Registry) Dir(m domain.Mod) string {
	return filepath.Join(r.root, filepath.FromSlash(m.RelativePath))
}

// DisabledFolders returns the top-level folder names that conflict
// detection must skip. A folder an enabled mod also resolves to is never
// skipped, and mods without a folder have nothing to exclude.
func (r *Registry) DisabledFolders() map[string]struct{} {
	enabled := make(map[string]bool)
	for _, m := range r.mods {
		if m.Enabled {
			enabled[m.Folder()] = true
		}
	}

	disabled := make(map[string]struct{})
	for _, m := range r.mods {
		folder := m.Folder()
		if m.Enabled || folder == "" || enabled[folder] {
			continue
		}
		disabled[folder] = struct{}{}
	}
	return disabled
}

// Add creates the mod's directory if needed and appends an enabled record.
// An empty relativePath defaults to the mod name. A mod owns exactly one
// top-level folder, so relativePath must be a single path segment.
func (r *Registry) Add(name, relativePath string) (domain.Mod, error) {
	if err := domain.ValidateModName(name); err != nil {
		return domain.Mod{}, fmt.Errorf("%w: %q", err, name)
	}
	if r.index(name) >= 0 {
		return domain.Mod{}, fmt.Errorf("%w: mod %s", domain.ErrDuplicateName, name)
	}

	if relativePath == "" {
		relativePath = name
	}
	rel := normalizeRel(relativePath)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return domain.Mod{}, fmt.Errorf("%w: path %q must be inside the overlay root", domain.ErrInvalidName, relativePath)
	}
	if strings.Contains(rel, "/") {
		return domain.Mod{}, fmt.Errorf("%w: path %q must be a top-level folder", domain.ErrInvalidName, relativePath)
	}
	for _, m := range r.mods {
		if normalizeRel(m.RelativePath) == rel {
			return domain.Mod{}, fmt.Errorf("%w: path %s is used by %s", domain.ErrDuplicateName, rel, m.Name)
		}
	}

	mod := domain.Mod{Name: name, Enabled: true, RelativePath: rel}
	dir := r.Dir(mod)

	existed, err := afero.DirExists(r.fs, dir)
	if err != nil {
		return domain.Mod{}, fmt.Errorf("%w: checking %s: %w", domain.ErrIO, dir, err)
	}
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return domain.Mod{}, fmt.Errorf("%w: creating %s: %w", domain.ErrIO, dir, err)
	}

	next := append(slices.Clone(r.mods), mod)
	if err := r.store.SaveMods(next); err != nil {
		if !existed {
			if rmErr := r.fs.RemoveAll(dir); rmErr != nil {
				r.logger.Error("could not remove directory after failed save", "dir", dir, "err", rmErr)
			}
		}
		return domain.Mod{}, fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	r.record("mod.add", name, "path="+rel)
	return mod, nil
}

// Remove deletes the mod's directory and then its record. If the directory
// cannot be deleted the record is kept.
func (r *Registry) Remove(name string) error {
	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	}
	mod := r.mods[i]
	if mod.Folder() == "" {
		return fmt.Errorf("%w: %s does not own a folder under the overlay root", domain.ErrInvalidName, name)
	}
	rel := normalizeRel(mod.RelativePath)
	for _, other := range r.mods {
		if other.Name != name && strings.HasPrefix(normalizeRel(other.RelativePath)+"/", rel+"/") {
			return fmt.Errorf("%w: %s lives inside %s", domain.ErrInvalidName, other.Name, rel)
		}
	}

	dir := r.Dir(mod)
	if err := r.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: deleting %s: %w", domain.ErrIO, dir, err)
	}

	next := slices.Delete(slices.Clone(r.mods), i, i+1)
	if err := r.store.SaveMods(next); err != nil {
		return fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	r.record("mod.remove", name, "")
	return nil
}

// Rename moves the mod's directory to the new name, then updates the record.
// A failed store write moves the directory back.
func (r *Registry) Rename(oldName, newName string) error {
	i := r.index(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, oldName)
	}
	if err := domain.ValidateModName(newName); err != nil {
		return fmt.Errorf("%w: %q", err, newName)
	}
	if oldName == newName {
		return nil
	}
	if r.index(newName) >= 0 {
		return fmt.Errorf("%w: mod %s", domain.ErrDuplicateName, newName)
	}

	mod := r.mods[i]
	renamed := mod
	renamed.Name = newName

	moveDir := mod.Folder() != ""
	oldDir := r.Dir(mod)
	var newDir string
	if moveDir {
		renamed.RelativePath = path.Join(path.Dir(normalizeRel(mod.RelativePath)), newName)
		newDir = r.Dir(renamed)

		if _, err := r.fs.Stat(newDir); err == nil {
			return fmt.Errorf("%w: folder %s already exists", domain.ErrDuplicateName, newDir)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: checking %s: %w", domain.ErrIO, newDir, err)
		}
		if err := r.fs.Rename(oldDir, newDir); err != nil {
			return fmt.Errorf("%w: renaming %s: %w", domain.ErrIO, oldDir, err)
		}
	}

	next := slices.Clone(r.mods)
	next[i] = renamed
	if err := r.store.SaveMods(next); err != nil {
		if moveDir {
			if rbErr := r.fs.Rename(newDir, oldDir); rbErr != nil {
				r.logger.Error("could not restore folder after failed save", "from", newDir, "to", oldDir, "err", rbErr)
				return errors.Join(fmt.Errorf("saving mod list: %w", err), rbErr)
			}
		}
		return fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	r.record("mod.rename", oldName, "to="+newName)
	return nil
}

// SetEnabled flips the mod's flag and persists it immediately
func (r *Registry) SetEnabled(name string, enabled bool) error {
	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	}
	if r.mods[i].Enabled == enabled {
		return nil
	}

	next := slices.Clone(r.mods)
	next[i].Enabled = enabled
	if err := r.store.SaveMods(next); err != nil {
		return fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	action := "mod.disable"
	if enabled {
		action = "mod.enable"
	}
	r.record(action, name, "")
	return nil
}

// Reorder replaces the load order. names must contain every registered mod
// exactly once.
func (r *Registry) Reorder(names []string) error {
	if len(names) != len(r.mods) {
		return fmt.Errorf("%w: got %d names for %d mods", domain.ErrInvalidOrder, len(names), len(r.mods))
	}

	seen := make(map[string]bool, len(names))
	next := make([]domain.Mod, 0, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: %s listed twice", domain.ErrInvalidOrder, name)
		}
		seen[name] = true
		i := r.index(name)
		if i < 0 {
			return fmt.Errorf("%w: unknown mod %s", domain.ErrInvalidOrder, name)
		}
		next = append(next, r.mods[i])
	}

	if err := r.store.SaveMods(next); err != nil {
		return fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	r.record("mod.reorder", strings.Join(names, ","), "")
	return nil
}

// Move shifts one mod by delta places in the load order, clamped to the ends
func (r *Registry) Move(name string, delta int) error {
	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	}
	names := make([]string, len(r.mods))
	for k, m := range r.mods {
		names[k] = m.Name
	}
	target := moveIndex(len(names), i, delta)
	if target == i {
		return nil
	}
	return r.Reorder(moveItem(names, i, target))
}

// Reconcile registers top-level folders under the overlay root that no mod
// points at. They are appended disabled, in one store write.
func (r *Registry) Reconcile() ([]domain.Mod, error) {
	entries, err := afero.ReadDir(r.fs, r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootNotFound, r.root)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, r.root, err)
	}

	known := make(map[string]bool)
	for _, m := range r.mods {
		if folder := m.Folder(); folder != "" {
			known[folder] = true
		}
	}

	var added []domain.Mod
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || known[name] || domain.IsReservedFolder(name) || strings.HasPrefix(name, ".") {
			continue
		}
		if r.index(name) >= 0 {
			r.logger.Warn("folder matches a mod name registered under another path", "folder", name)
			continue
		}
		added = append(added, domain.Mod{Name: name, Enabled: false, RelativePath: name})
	}
	if len(added) == 0 {
		return nil, nil
	}

	next := append(slices.Clone(r.mods), added...)
	if err := r.store.SaveMods(next); err != nil {
		return nil, fmt.Errorf("saving mod list: %w", err)
	}

	r.mods = next
	for _, m := range added {
		r.logger.Info("registered folder found on disk", "mod", m.Name)
		r.record("mod.discover", m.Name, "")
	}
	return added, nil
}

// Validate reports enabled mods whose directory is missing
func (r *Registry) Validate() []domain.ModProblem {
	var problems []domain.ModProblem
	for _, m := range r.mods {
		if !m.Enabled {
			continue
		}
		info, err := r.fs.Stat(r.Dir(m))
		switch {
		case errors.Is(err, os.ErrNotExist):
			problems = append(problems, domain.ModProblem{Mod: m, Reason: "directory missing"})
		case err != nil:
			problems = append(problems, domain.ModProblem{Mod: m, Reason: err.Error()})
		case !info.IsDir():
			problems = append(problems, domain.ModProblem{Mod: m, Reason: "not a directory"})
		}
	}
	return problems
}

// Folders lists the top-level folders under the overlay root with their
// modification time and total size. Reserved game folders are left out.
func (r *Registry) Folders() ([]domain.ModFolder, error) {
	entries, err := afero.ReadDir(r.fs, r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootNotFound, r.root)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, r.root, err)
	}

	var folders []domain.ModFolder
	for _, e := range entries {
		if !e.IsDir() || domain.IsReservedFolder(e.Name()) {
			continue
		}
		folders = append(folders, domain.ModFolder{
			Name:       e.Name(),
			ModifiedAt: e.ModTime(),
			Size:       r.treeSize(filepath.Join(r.root, e.Name())),
		})
	}
	return folders, nil
}

func (r *Registry) treeSize(dir string) int64 {
	var total int64
	_ = afero.Walk(r.fs, dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (r *Registry) index(name string) int {
	for i, m := range r.mods {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func normalizeRel(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

func moveIndex(n, i, delta int) int {
	target := i + delta
	if target < 0 {
		target = 0
	}
	if target > n-1 {
		target = n - 1
	}
	return target
}

func moveItem[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}
