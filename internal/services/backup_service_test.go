package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brazzinioc/twitter-api/internal/storage"
)

func TestCreateSnapshot_CopiesCollectionFiles(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	users := NewUserService(store, nil)
	_, err = users.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	backupDir := t.TempDir()
	svc := NewBackupService(store, backupDir, 10)

	path, err := svc.CreateSnapshot()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(path, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice@x.com")

	snaps, err := svc.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestCreateSnapshot_PrunesBeyondRetention(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	backupDir := t.TempDir()
	svc := NewBackupService(store, backupDir, 2)

	// Snapshot names have second granularity; pre-create old ones instead
	// of sleeping through three distinct timestamps.
	for _, name := range []string{"20200101-000000", "20200102-000000"} {
		require.NoError(t, os.MkdirAll(filepath.Join(backupDir, name), 0755))
	}

	users := NewUserService(store, nil)
	_, err = users.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	_, err = svc.CreateSnapshot()
	require.NoError(t, err)

	snaps, err := svc.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	// The oldest snapshot is gone; the newest survives.
	assert.Equal(t, "20200102-000000", snaps[0])
	assert.True(t, snaps[1] > "20200102-000000")
}
