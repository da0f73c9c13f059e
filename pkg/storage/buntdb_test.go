package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestBuntStorage_CreateBackup(t *testing.T) {
	storage, err := FromMemory()
	require.NoError(t, err)
	defer storage.Close()

	first := &core.Backup{Epoch: 1, Metrics: map[string]core.Series[float64]{"loss": {0.9, 0.7}}}
	second := &core.Backup{Epoch: 2, Metrics: map[string]core.Series[float64]{"loss": {0.9, 0.7, 0.5}}, State: []byte("weights")}

	require.NoError(t, storage.CreateBackup(first))
	require.NoError(t, storage.CreateBackup(second))
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
	require.False(t, first.CreatedAt.IsZero())

	backup, err := storage.Backup(2)
	require.NoError(t, err)
	require.Equal(t, 2, backup.Epoch)
	require.Equal(t, core.Series[float64]{0.9, 0.7, 0.5}, backup.Metrics["loss"])
	require.Equal(t, []byte("weights"), backup.State)
}

func TestBuntStorage_BackupNotFound(t *testing.T) {
	storage, err := FromMemory()
	require.NoError(t, err)
	defer storage.Close()

	_, err = storage.Backup(7)
	require.ErrorIs(t, err, core.ErrBackupNotFound)
}

func TestBuntStorage_Backups(t *testing.T) {
	storage, err := FromMemory()
	require.NoError(t, err)
	defer storage.Close()

	for epoch := 1; epoch <= 12; epoch++ {
		require.NoError(t, storage.CreateBackup(&core.Backup{Epoch: epoch}))
	}

	backups, err := storage.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 12)
	for i, backup := range backups {
		require.Equal(t, int64(i+1), backup.ID)
	}

	backups, err = storage.Backups(core.WithEpochAtLeast(10))
	require.NoError(t, err)
	require.Len(t, backups, 3)
	require.Equal(t, 10, backups[0].Epoch)

	backups, err = storage.Backups(core.WithCreatedBeforeOrEqual(time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	require.Empty(t, backups)
}

func TestBuntStorage_ReopenContinuesIDs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "backups.db")

	storage, err := FromFile(file)
	require.NoError(t, err)
	require.NoError(t, storage.CreateBackup(&core.Backup{Epoch: 1}))
	require.NoError(t, storage.CreateBackup(&core.Backup{Epoch: 2}))
	require.NoError(t, storage.Close())

	storage, err = FromFile(file)
	require.NoError(t, err)
	defer storage.Close()

	backup := &core.Backup{Epoch: 3}
	require.NoError(t, storage.CreateBackup(backup))
	require.Equal(t, int64(3), backup.ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("redis", "")
	require.Error(t, err)
}
