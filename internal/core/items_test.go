package core

import (
	"path/filepath"
	"testing"

	"meo/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testItems = map[string]string{
	"am_f_1000.partsbnd.dcx": "Vagabond Gauntlets",
	"am_f_1100.partsbnd.dcx": "Blaidd's Gauntlets",
	"hd_m_1000.partsbnd.dcx": "Vagabond Helm",
}

func TestLoadItemCatalog(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg/parts.json", []byte(`{"am_a.dcx": "Arms", "hd_a.dcx": "Head"}`), 0644))

	c, err := LoadItemCatalog(fsys, "/cfg/parts.json")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	desc, ok := c.Describe("hd_a.dcx")
	assert.True(t, ok)
	assert.Equal(t, "Head", desc)
}

func TestLoadItemCatalog_MissingIsEmpty(t *testing.T) {
	c, err := LoadItemCatalog(afero.NewMemMapFs(), "/cfg/parts.json")
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestLoadItemCatalog_Invalid(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg/parts.json", []byte(`[1, 2`), 0644))

	_, err := LoadItemCatalog(fsys, "/cfg/parts.json")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestItemCatalog_Alternatives(t *testing.T) {
	c := NewItemCatalog(afero.NewMemMapFs(), testItems)

	alts := c.Alternatives("am_f_1000.partsbnd.dcx")
	assert.Equal(t, []ItemID{
		{ID: "am_f_1100.partsbnd.dcx", Description: "Blaidd's Gauntlets"},
		{ID: "am_f_1000.partsbnd.dcx", Description: "Vagabond Gauntlets"},
	}, alts)

	assert.Nil(t, c.Alternatives("unknown.dcx"))
}

func TestItemCatalog_Tree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, filepath.Join(testRoot, "ModA", "parts", "am_f_1000.partsbnd.dcx"))
	writeFile(t, fsys, filepath.Join(testRoot, "ModA", "regulation.bin"))
	c := NewItemCatalog(fsys, testItems)

	entries, err := c.Tree(filepath.Join(testRoot, "ModA"))
	require.NoError(t, err)
	assert.Equal(t, []TreeEntry{
		{Path: "parts", IsDir: true},
		{Path: "parts/am_f_1000.partsbnd.dcx", Description: "Vagabond Gauntlets"},
		{Path: "regulation.bin"},
	}, entries)

	_, err = c.Tree(filepath.Join(testRoot, "Missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCatalog_Swap(t *testing.T) {
	fsys := afero.NewMemMapFs()
	oldPath := filepath.Join(testRoot, "ModA", "parts", "am_f_1000.partsbnd.dcx")
	writeFile(t, fsys, oldPath)
	c := NewItemCatalog(fsys, testItems)

	newPath, err := c.Swap(oldPath, "am_f_1100.partsbnd.dcx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testRoot, "ModA", "parts", "am_f_1100.partsbnd.dcx"), newPath)

	ok, _ := afero.Exists(fsys, newPath)
	assert.True(t, ok)
	ok, _ = afero.Exists(fsys, oldPath)
	assert.False(t, ok)
}

func TestItemCatalog_SwapRefusals(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := filepath.Join(testRoot, "ModA", "parts")
	writeFile(t, fsys, filepath.Join(dir, "am_f_1000.partsbnd.dcx"))
	writeFile(t, fsys, filepath.Join(dir, "am_f_1100.partsbnd.dcx"))
	writeFile(t, fsys, filepath.Join(dir, "readme.txt"))
	c := NewItemCatalog(fsys, testItems)

	_, err := c.Swap(filepath.Join(dir, "am_f_1000.partsbnd.dcx"), "am_f_1100.partsbnd.dcx")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = c.Swap(filepath.Join(dir, "am_f_1000.partsbnd.dcx"), "hd_m_1000.partsbnd.dcx")
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = c.Swap(filepath.Join(dir, "readme.txt"), "am_f_1000.partsbnd.dcx")
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = c.Swap(filepath.Join(dir, "am_f_1000.partsbnd.dcx"), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
