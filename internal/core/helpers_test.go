package core

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"meo/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

// faultyFs fails selected operations and passes everything else through
type faultyFs struct {
	afero.Fs
	failRename    bool
	failRemoveAll bool
	failMkdir     bool
}

func (f *faultyFs) Rename(oldname, newname string) error {
	if f.failRename {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errInjected}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *faultyFs) RemoveAll(path string) error {
	if f.failRemoveAll {
		return &os.PathError{Op: "removeall", Path: path, Err: errInjected}
	}
	return f.Fs.RemoveAll(path)
}

func (f *faultyFs) MkdirAll(path string, perm os.FileMode) error {
	if f.failMkdir {
		return &os.PathError{Op: "mkdir", Path: path, Err: errInjected}
	}
	return f.Fs.MkdirAll(path, perm)
}

// memStore keeps the mod list in memory
type memStore struct {
	root    string
	mods    []domain.Mod
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) LoadMods() ([]domain.Mod, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return slices.Clone(s.mods), nil
}

func (s *memStore) SaveMods(mods []domain.Mod) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.mods = slices.Clone(mods)
	return nil
}

func (s *memStore) OverlayRoot() string {
	return s.root
}

const testRoot = "/game/mod"

func writeFile(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte("data"), 0644))
}

func modNames(mods []domain.Mod) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}
