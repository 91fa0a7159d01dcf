package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"meo/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Detector finds files provided by more than one enabled mod. Files are
// matched by name only, regardless of the directory they sit in, because the
// loader resolves overrides by file name.
type Detector struct {
	fs       afero.Fs
	reserved map[string]bool
	logger   *log.Logger
}

// NewDetector creates a detector that skips domain.ReservedFolders
func NewDetector(fsys afero.Fs, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reserved := make(map[string]bool, len(domain.ReservedFolders))
	for _, name := range domain.ReservedFolders {
		reserved[name] = true
	}
	return &Detector{fs: fsys, reserved: reserved, logger: logger}
}

// Detect walks every top-level mod folder under root except those named in
// disabled, and reports each file whose name also occurs in a different mod
// folder.
//
// A missing root yields an empty report together with domain.ErrRootNotFound;
// callers may treat that as a warning. Unreadable entries are logged and
// skipped.
func (d *Detector) Detect(root string, disabled map[string]struct{}) (domain.ConflictReport, error) {
	report := domain.ConflictReport{}

	info, err := d.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.logger.Warn("overlay root does not exist", "root", root)
			return report, fmt.Errorf("%w: %s", domain.ErrRootNotFound, root)
		}
		return report, fmt.Errorf("%w: checking %s: %w", domain.ErrIO, root, err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("%w: %s is not a directory", domain.ErrRootNotFound, root)
	}

	// file name -> overlay-relative paths, plus first-seen order of names
	byName := make(map[string][]string)
	var order []string

	walkErr := afero.Walk(d.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			d.logger.Warn("skipping unreadable entry", "path", p, "err", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		topLevel := !strings.Contains(rel, "/")

		if info.IsDir() {
			if topLevel && d.skipFolder(rel, disabled) {
				return filepath.SkipDir
			}
			return nil
		}
		if topLevel {
			// Loose files in the overlay root belong to no mod
			return nil
		}

		name := path.Base(rel)
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], rel)
		return nil
	})
	if walkErr != nil {
		return domain.ConflictReport{}, fmt.Errorf("%w: walking %s: %w", domain.ErrIO, root, walkErr)
	}

	for _, name := range order {
		paths := byName[name]
		if len(paths) < 2 || !spansFolders(paths) {
			continue
		}
		for _, rel := range paths {
			folder, rest, _ := strings.Cut(rel, "/")
			report[folder] = append(report[folder], rest)
		}
	}

	if !report.Empty() {
		d.logger.Debug("conflicts detected", "mods", len(report), "files", report.FileCount())
	}
	return report, nil
}

func (d *Detector) skipFolder(name string, disabled map[string]struct{}) bool {
	if d.reserved[name] {
		return true
	}
	_, off := disabled[name]
	return off
}

// spansFolders reports whether the paths belong to at least two top-level folders
func spansFolders(paths []string) bool {
	first, _, _ := strings.Cut(paths[0], "/")
	for _, p := range paths[1:] {
		if folder, _, _ := strings.Cut(p, "/"); folder != first {
			return true
		}
	}
	return false
}
