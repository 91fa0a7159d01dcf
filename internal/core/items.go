package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"meo/internal/domain"

	"github.com/spf13/afero"
)

// ItemIDsFile is the default catalog file name in the config directory
const ItemIDsFile = "parts.json"

// familyPrefixLen is the number of leading characters shared by item IDs of
// the same equipment family (e.g. "am" for arm pieces).
const familyPrefixLen = 2

// ItemID is one entry of the item catalog
type ItemID struct {
	ID          string
	Description string
}

// TreeEntry is one file or directory inside a mod folder
type TreeEntry struct {
	Path        string // Relative to the mod folder, forward slashes
	IsDir       bool
	Description string // Catalog description, empty when unknown
}

// ItemCatalog maps game asset file names to readable descriptions
type ItemCatalog struct {
	fs    afero.Fs
	names map[string]string
}

// LoadItemCatalog reads a JSON object of file name to description. A missing
// file yields an empty catalog.
func LoadItemCatalog(fsys afero.Fs, path string) (*ItemCatalog, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewItemCatalog(fsys, nil), nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, path, err)
	}

	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrInvalidConfig, path, err)
	}
	return NewItemCatalog(fsys, names), nil
}

// NewItemCatalog creates a catalog from an in-memory map
func NewItemCatalog(fsys afero.Fs, names map[string]string) *ItemCatalog {
	if names == nil {
		names = make(map[string]string)
	}
	return &ItemCatalog{fs: fsys, names: names}
}

// Len returns the number of known IDs
func (c *ItemCatalog) Len() int {
	return len(c.names)
}

// Describe returns the description of a file name
func (c *ItemCatalog) Describe(fileName string) (string, bool) {
	desc, ok := c.names[fileName]
	return desc, ok
}

// Alternatives returns the catalog IDs of the same family as fileName, sorted
// by description. Unknown file names have no alternatives.
func (c *ItemCatalog) Alternatives(fileName string) []ItemID {
	if _, ok := c.names[fileName]; !ok {
		return nil
	}
	prefix := family(fileName)

	var alts []ItemID
	for id, desc := range c.names {
		if family(id) == prefix {
			alts = append(alts, ItemID{ID: id, Description: desc})
		}
	}
	sort.Slice(alts, func(i, j int) bool {
		if alts[i].Description != alts[j].Description {
			return alts[i].Description < alts[j].Description
		}
		return alts[i].ID < alts[j].ID
	})
	return alts
}

// Tree lists everything under dir in lexical order, describing known files
func (c *ItemCatalog) Tree(dir string) ([]TreeEntry, error) {
	if ok, err := afero.DirExists(c.fs, dir); err != nil || !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
	}

	var entries []TreeEntry
	err := afero.Walk(c.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return nil
		}
		entry := TreeEntry{Path: filepath.ToSlash(rel), IsDir: info.IsDir()}
		if !entry.IsDir {
			entry.Description = c.names[info.Name()]
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", domain.ErrIO, dir, err)
	}
	return entries, nil
}

// Swap renames filePath to another catalog ID in the same directory and
// returns the new path. The new ID must belong to the file's family and an
// existing file is never overwritten.
func (c *ItemCatalog) Swap(filePath, newID string) (string, error) {
	oldName := filepath.Base(filePath)
	if _, ok := c.names[newID]; !ok {
		return "", fmt.Errorf("%w: item id %s", domain.ErrNotFound, newID)
	}
	if _, ok := c.names[oldName]; !ok {
		return "", fmt.Errorf("%w: %s is not a catalog item", domain.ErrInvalidName, oldName)
	}
	if family(newID) != family(oldName) {
		return "", fmt.Errorf("%w: %s and %s are different item families", domain.ErrInvalidName, oldName, newID)
	}
	if oldName == newID {
		return filePath, nil
	}

	newPath := filepath.Join(filepath.Dir(filePath), newID)
	if _, err := c.fs.Stat(newPath); err == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateName, newPath)
	}
	if err := c.fs.Rename(filePath, newPath); err != nil {
		return "", fmt.Errorf("%w: renaming %s: %w", domain.ErrIO, filePath, err)
	}
	return newPath, nil
}

func family(name string) string {
	if len(name) < familyPrefixLen {
		return name
	}
	return name[:familyPrefixLen]
}
