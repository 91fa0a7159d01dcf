package domain

import (
	"path"
	"sort"
)

// ConflictReport maps a top-level mod folder to the paths, relative to that
// folder, of its files whose name also appears in another enabled mod.
// An empty report means no conflicts.
type ConflictReport map[string][]string

// Empty reports whether no conflicts were found
func (r ConflictReport) Empty() bool {
	return len(r) == 0
}

// Has reports whether folder has at least one conflicting file
func (r ConflictReport) Has(folder string) bool {
	return len(r[folder]) > 0
}

// Folders returns the conflicted folder names, sorted
func (r ConflictReport) Folders() []string {
	folders := make([]string, 0, len(r))
	for f := range r {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	return folders
}

// OverlayPaths returns folder's conflicting paths relative to the overlay root
func (r ConflictReport) OverlayPaths(folder string) []string {
	paths := make([]string, len(r[folder]))
	for i, p := range r[folder] {
		paths[i] = path.Join(folder, p)
	}
	return paths
}

// FileCount returns the total number of conflicting file entries
func (r ConflictReport) FileCount() int {
	n := 0
	for _, paths := range r {
		n += len(paths)
	}
	return n
}
