package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raykavin/tutor/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	log, err := New(Config{Level: "info", JSON: true, Output: buffer})
	require.NoError(t, err)

	log.WithField("metric", "loss").WithError(errors.New("boom")).Info("sample dropped")
	log.Debug("not written")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	require.Equal(t, "info", line["level"])
	require.Equal(t, "sample dropped", line["message"])
	require.Equal(t, "loss", line["metric"])
	require.Equal(t, "boom", line["error"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestAdapter_SetLevel(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	log, err := New(Config{Level: "info", JSON: true, Output: buffer})
	require.NoError(t, err)
	require.Equal(t, logger.InfoLevel, log.GetLevel())

	log.SetLevel(logger.ErrorLevel)
	require.Equal(t, logger.ErrorLevel, log.GetLevel())

	log.Warn("hidden")
	require.Zero(t, buffer.Len())
}

func TestFormatCaller(t *testing.T) {
	require.Empty(t, formatCaller(""))
	require.Equal(t, "nocolon.go", formatCaller("/a/b/nocolon.go"))
	require.Contains(t, formatCaller("/a/b/chart.go:12"), "chart.go")
}
