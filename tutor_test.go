package tutor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/config"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/logger/zerolog"
	"github.com/raykavin/tutor/pkg/monitor"
	"github.com/raykavin/tutor/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) { n.messages = append(n.messages, message) }
func (n *recordingNotifier) OnError(err error)     { n.messages = append(n.messages, err.Error()) }

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := zerolog.New(zerolog.Config{Level: "error", JSON: true, Output: io.Discard})
	require.NoError(t, err)
	return log
}

func newTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Port:       0,
		Title:      "test",
		Metrics:    []string{"loss", "accuracy"},
		MaxPoints:  3,
		StaleAfter: time.Minute,
		Storage:    config.StorageConfig{Driver: storage.DriverBunt},
		Fields: []monitor.ConfigField{
			{Name: "augment", Type: monitor.FieldBoolean},
		},
	}
}

func TestNew(t *testing.T) {
	first, second := &recordingNotifier{}, &recordingNotifier{}

	tutor, err := New(newTestConfig(),
		WithLogger(newTestLogger(t)),
		WithLogLevel(logger.ErrorLevel),
		WithNotifier(first),
		WithNotifier(second),
	)
	require.NoError(t, err)
	defer tutor.Close(context.Background())

	mon := tutor.Monitor()
	assert.Equal(t, []string{"loss", "accuracy"}, mon.MetricNames())
	assert.Equal(t, map[string]any{"augment": false}, mon.Config())

	registry := tutor.Dashboard().Registry()
	require.Equal(t, 2, registry.Len())
	assert.Equal(t, "loss-canvas", registry.Get(0).ID())
	assert.Equal(t, "accuracy-canvas", registry.Get(1).ID())

	for _, value := range []float64{4, 3, 2, 1} {
		require.NoError(t, mon.Meter("loss", value))
	}
	assert.Equal(t, []float64{3, 2, 1}, registry.Get(0).Values(0))
	assert.Equal(t, []string{"2", "3", "4"}, registry.Get(0).Labels())

	mon.Log("hello")
	assert.Equal(t, []string{"hello"}, first.messages)
	assert.Equal(t, []string{"hello"}, second.messages)
}

func TestNew_MissingCanvas(t *testing.T) {
	cfg := newTestConfig()
	cfg.Canvases = []string{"loss-canvas"}

	_, err := New(cfg, WithLogger(newTestLogger(t)))
	require.ErrorIs(t, err, core.ErrSurfaceNotFound)
}

func TestNew_FailureKeepsGivenStorageOpen(t *testing.T) {
	store, err := storage.FromMemory()
	require.NoError(t, err)
	defer store.Close()

	cfg := newTestConfig()
	cfg.Canvases = []string{"loss-canvas"}

	_, err = New(cfg, WithLogger(newTestLogger(t)), WithStorage(store))
	require.ErrorIs(t, err, core.ErrSurfaceNotFound)

	backup := &core.Backup{Epoch: 1}
	require.NoError(t, store.CreateBackup(backup))
	assert.Equal(t, int64(1), backup.ID)
}

func TestNew_LoadsStoredBackups(t *testing.T) {
	store, err := storage.FromMemory()
	require.NoError(t, err)

	previous, err := New(newTestConfig(), WithLogger(newTestLogger(t)), WithStorage(store))
	require.NoError(t, err)
	require.NoError(t, previous.Monitor().Meter("loss", 0.5))
	_, err = previous.Monitor().Backup(context.Background())
	require.NoError(t, err)

	tutor, err := New(newTestConfig(), WithLogger(newTestLogger(t)), WithStorage(store))
	require.NoError(t, err)
	require.Len(t, tutor.Monitor().Backups(), 1)

	require.NoError(t, tutor.Close(context.Background()))
	require.NoError(t, tutor.Close(context.Background()))
}
