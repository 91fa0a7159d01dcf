package domain

import (
	"path"
	"strings"
	"time"
)

// Mod is one folder of override files, toggled on or off as a unit.
type Mod struct {
	Name         string // Unique within a game
	Enabled      bool   // Whether the loader applies it and conflict detection scans it
	RelativePath string // Relative to the overlay root, forward slashes ("." is the root itself)
}

// Folder returns the top-level folder under the overlay root that holds the
// mod's files, or "" when the mod points at the overlay root or outside it.
func (m Mod) Folder() string {
	rel := path.Clean(m.RelativePath)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return rel
}

// ModProblem reports a registry invariant that does not hold on disk
type ModProblem struct {
	Mod    Mod
	Reason string
}

// ModFolder is a top-level directory found under the overlay root
type ModFolder struct {
	Name       string
	ModifiedAt time.Time
	Size       int64 // Total size of regular files, in bytes
}

// ReservedFolders are game asset folders that live under the overlay root but
// are never mods.
var ReservedFolders = []string{"chr", "parts", "sfx", "menu"}

// IsReservedFolder reports whether name is one of ReservedFolders
func IsReservedFolder(name string) bool {
	for _, r := range ReservedFolders {
		if r == name {
			return true
		}
	}
	return false
}

// ValidateModName rejects names that cannot double as a single folder name.
func ValidateModName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrInvalidName
	case name == "." || name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, `/\`):
		return ErrInvalidName
	}
	return nil
}
