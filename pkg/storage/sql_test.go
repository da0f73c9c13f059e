package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/stretchr/testify/require"
)

func newSQLStorage(t *testing.T) *SQLStorage {
	t.Helper()
	storage, err := FromSQLite(filepath.Join(t.TempDir(), "backups.sqlite"), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSQLStorage_CreateBackup(t *testing.T) {
	storage := newSQLStorage(t)

	first := &core.Backup{Epoch: 1, Metrics: map[string]core.Series[float64]{"loss": {0.9}}, CreatedAt: time.Now()}
	second := &core.Backup{Epoch: 2, Metrics: map[string]core.Series[float64]{"loss": {0.9, 0.4}}, State: []byte("weights"), CreatedAt: time.Now()}

	require.NoError(t, storage.CreateBackup(first))
	require.NoError(t, storage.CreateBackup(second))
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	backup, err := storage.Backup(2)
	require.NoError(t, err)
	require.Equal(t, 2, backup.Epoch)
	require.Equal(t, core.Series[float64]{0.9, 0.4}, backup.Metrics["loss"])
	require.Equal(t, []byte("weights"), backup.State)

	_, err = storage.Backup(3)
	require.ErrorIs(t, err, core.ErrBackupNotFound)
}

func TestSQLStorage_Backups(t *testing.T) {
	storage := newSQLStorage(t)

	for epoch := 1; epoch <= 4; epoch++ {
		require.NoError(t, storage.CreateBackup(&core.Backup{Epoch: epoch, CreatedAt: time.Now()}))
	}

	backups, err := storage.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 4)
	require.Equal(t, int64(1), backups[0].ID)

	backups, err = storage.Backups(core.WithEpochAtLeast(3))
	require.NoError(t, err)
	require.Len(t, backups, 2)
	require.Equal(t, 3, backups[0].Epoch)
}

func TestOpen(t *testing.T) {
	memory, err := Open("", "")
	require.NoError(t, err)
	require.IsType(t, &BuntStorage{}, memory)
	require.NoError(t, memory.Close())

	sqlite, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "open.sqlite"))
	require.NoError(t, err)
	require.IsType(t, &SQLStorage{}, sqlite)
	require.NoError(t, sqlite.Close())

	_, err = Open("postgres", "")
	require.Error(t, err)
}
