package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tutor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, config.Port)
	assert.Equal(t, []string{"metric1", "metric2", "metric3", "metric4"}, config.Metrics)
	assert.Empty(t, config.Canvases)
	assert.Equal(t, 10*time.Minute, config.StaleAfter)
	assert.Zero(t, config.Simulation)
	assert.Zero(t, config.MaxPoints)
	assert.Equal(t, "buntdb", config.Storage.Driver)
	assert.False(t, config.Telegram.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
port: 9090
title: MNIST
metrics: [loss, accuracy]
max_points: 500
stale_after: 1d
simulation: 250ms
storage:
  driver: sqlite
  path: /tmp/backups.sqlite
fields:
  - name: lr
    type: range
    min: 0.001
    max: 0.1
    step: 0.001
  - name: optimizer
    type: option
    options: [adam, sgd]
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Port)
	assert.Equal(t, "MNIST", config.Title)
	assert.Equal(t, []string{"loss", "accuracy"}, config.Metrics)
	assert.Equal(t, 500, config.MaxPoints)
	assert.Equal(t, 24*time.Hour, config.StaleAfter)
	assert.Equal(t, 250*time.Millisecond, config.Simulation)
	assert.Equal(t, StorageConfig{Driver: "sqlite", Path: "/tmp/backups.sqlite"}, config.Storage)

	require.Len(t, config.Fields, 2)
	assert.Equal(t, monitor.ConfigField{Name: "lr", Type: monitor.FieldRange, Min: 0.001, Max: 0.1, Step: 0.001}, config.Fields[0])
	assert.Equal(t, []string{"adam", "sgd"}, config.Fields[1].Options)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\nmetrics: [loss]\n")
	t.Setenv("TUTOR_PORT", "7000")
	t.Setenv("TUTOR_METRICS", "loss,accuracy")
	t.Setenv("TUTOR_TELEGRAM_ENABLED", "true")
	t.Setenv("TUTOR_TELEGRAM_TOKEN", "token")
	t.Setenv("TUTOR_TELEGRAM_USERS", "1,2")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, config.Port)
	assert.Equal(t, []string{"loss", "accuracy"}, config.Metrics)
	assert.True(t, config.Telegram.Enabled)
	assert.Equal(t, []int{1, 2}, config.Telegram.Users)
	assert.Equal(t, []string{"loss", "accuracy"}, config.Settings().Metrics)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "duration", env: map[string]string{"TUTOR_STALE_AFTER": "soon"}},
		{name: "max points", env: map[string]string{"TUTOR_MAX_POINTS": "-1"}},
		{name: "telegram user", env: map[string]string{"TUTOR_TELEGRAM_USERS": "bob"}},
		{name: "telegram token", env: map[string]string{"TUTOR_TELEGRAM_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load("")
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
