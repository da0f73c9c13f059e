package metric

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestRange(t *testing.T) {
	low, high := Range([]float64{3, -1, 8, 2})
	assert.Equal(t, -1.0, low)
	assert.Equal(t, 8.0, high)

	low, high = Range(nil)
	assert.Zero(t, low)
	assert.Zero(t, high)
}

func TestSmooth(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1}
	smoothed := Smooth(values, 3)
	require.Len(t, smoothed, len(values))
	assert.True(t, math.IsNaN(smoothed[0]))
	assert.True(t, math.IsNaN(smoothed[1]))
	assert.InDelta(t, 1.0, smoothed[5], 1e-9)

	short := Smooth([]float64{4, 5}, 10)
	assert.Equal(t, []float64{4, 5}, short)
}

func TestSummarize(t *testing.T) {
	values := make([]float64, 0, 20)
	for i := 1; i <= 20; i++ {
		values = append(values, float64(i))
	}

	summary := Summarize("accuracy", values)
	assert.Equal(t, "accuracy", summary.Name)
	assert.Equal(t, 20, summary.Count)
	assert.Equal(t, 20.0, summary.Last)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 20.0, summary.Max)
	assert.InDelta(t, 10.5, summary.Mean, 1e-9)
	assert.Greater(t, summary.StdDev, 0.0)
	assert.Greater(t, summary.EMA, 10.0)
	assert.LessOrEqual(t, summary.MeanInterval.Lower, summary.MeanInterval.Upper)

	text := summary.String()
	assert.Contains(t, text, "accuracy")
	assert.Contains(t, text, "20.0000")
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize("loss", nil)
	assert.Equal(t, 0, summary.Count)
	assert.Contains(t, summary.String(), "loss")
}

func TestWriteTable(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	WriteTable(buffer, []Summary{Summarize("loss", []float64{0.9, 0.5}), Summarize("acc", []float64{0.1})})
	assert.Contains(t, buffer.String(), "loss")
	assert.Contains(t, buffer.String(), "acc")
}

func TestPrintHistogram(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	require.NoError(t, PrintHistogram(buffer, []float64{1, 2, 2, 3, 3, 3}, 3))
	assert.NotEmpty(t, buffer.String())

	buffer.Reset()
	require.NoError(t, PrintHistogram(buffer, nil, 3))
	assert.Contains(t, buffer.String(), "no samples")
}

func TestBootstrap_Empty(t *testing.T) {
	assert.Equal(t, BootstrapInterval{}, Bootstrap(nil, Mean, 10, 0.95))
}

func TestBootstrap_Constant(t *testing.T) {
	interval := Bootstrap([]float64{2, 2, 2, 2}, Mean, 50, 0.9)
	assert.Equal(t, 2.0, interval.Lower)
	assert.Equal(t, 2.0, interval.Upper)
	assert.Equal(t, 2.0, interval.Mean)
	assert.Zero(t, interval.StdDev)
}

func TestBootstrap_Bounds(t *testing.T) {
	values := []float64{0.1, 0.4, 0.35, 0.8, 0.55, 0.2, 0.9}
	interval := Bootstrap(values, Mean, 200, 0.95)
	assert.LessOrEqual(t, interval.Lower, interval.Upper)
	assert.GreaterOrEqual(t, interval.Lower, 0.1)
	assert.LessOrEqual(t, interval.Upper, 0.9)
}
