package tutor

import (
	"bytes"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBackup(t *testing.T) {
	store, err := storage.FromMemory()
	require.NoError(t, err)
	defer store.Close()

	_, err = findBackup(store, 0)
	require.ErrorIs(t, err, core.ErrBackupNotFound)

	for epoch := 1; epoch <= 3; epoch++ {
		require.NoError(t, store.CreateBackup(&core.Backup{Epoch: epoch, CreatedAt: time.Now()}))
	}

	latest, err := findBackup(store, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Epoch)

	first, err := findBackup(store, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Epoch)

	_, err = findBackup(store, 9)
	require.ErrorIs(t, err, core.ErrBackupNotFound)
}

func TestWriteSummary(t *testing.T) {
	backup := &core.Backup{
		ID:    2,
		Epoch: 4,
		Metrics: map[string]core.Series[float64]{
			"loss":     {0.9, 0.5, 0.3},
			"accuracy": {},
		},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	var buffer bytes.Buffer
	require.NoError(t, writeSummary(&buffer, backup, SummaryOptions{Histogram: true, Bins: 3}))

	output := buffer.String()
	assert.Contains(t, output, "BACKUP 2 | EPOCH 4 | 2024-05-01 12:00:00")
	assert.Contains(t, output, "loss")
	assert.Contains(t, output, "accuracy")
	assert.Contains(t, output, "-- loss --")
	assert.NotContains(t, output, "-- accuracy --")
}
