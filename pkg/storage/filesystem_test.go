package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveWithPrune(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = store.Save("logos/2024/03/15/school.png", []byte("png"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveWithPrune("logos/2024/03/15/school.png"))

	// The dated directory chain should be pruned away with the file.
	_, err = os.Stat(filepath.Join(base, "logos"))
	assert.True(t, os.IsNotExist(err))
	// The base directory itself must survive.
	_, err = os.Stat(base)
	assert.NoError(t, err)
}

func TestRemoveWithPruneKeepsOccupiedDirs(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = store.Save("logos/2024/a.png", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("logos/2024/b.png", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveWithPrune("logos/2024/a.png"))

	_, err = os.Stat(filepath.Join(base, "logos", "2024", "b.png"))
	assert.NoError(t, err)
}

func TestRemoveWithPruneMissingFile(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	assert.NoError(t, store.RemoveWithPrune("logos/nope.png"))
}
