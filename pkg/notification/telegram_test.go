package notification

import (
	"context"
	"testing"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

type fakeMonitor struct {
	epoch   int
	metrics map[string]core.Series[float64]
	names   []string
	logs    []string
	backups []core.BackupSummary
}

func (f *fakeMonitor) Epoch() int            { return f.epoch }
func (f *fakeMonitor) MetricNames() []string { return f.names }
func (f *fakeMonitor) Logs() []string        { return f.logs }

func (f *fakeMonitor) Series(name string) (core.Series[float64], error) {
	series, ok := f.metrics[name]
	if !ok {
		return nil, core.ErrUnknownMetric
	}
	return series, nil
}

func (f *fakeMonitor) Backups() []core.BackupSummary { return f.backups }

func (f *fakeMonitor) Backup(context.Context) (core.BackupSummary, error) {
	summary := core.BackupSummary{ID: int64(len(f.backups) + 1), Epoch: f.epoch}
	f.backups = append(f.backups, summary)
	return summary, nil
}

func TestAuthorized(t *testing.T) {
	settings := &core.Settings{Telegram: core.TelegramSettings{Users: []int{42}}}

	assert.True(t, authorized(settings, &tb.Update{Message: &tb.Message{Sender: &tb.User{ID: 42}}}))
	assert.False(t, authorized(settings, &tb.Update{Message: &tb.Message{Sender: &tb.User{ID: 7}}}))
	assert.False(t, authorized(settings, &tb.Update{}))
}

func TestFormatStatus(t *testing.T) {
	monitor := &fakeMonitor{
		epoch: 3,
		names: []string{"loss", "accuracy"},
		metrics: map[string]core.Series[float64]{
			"loss":     {0.9, 0.5},
			"accuracy": {},
		},
	}

	status := formatStatus(monitor)
	assert.Contains(t, status, "*EPOCH* `3`")
	assert.Contains(t, status, "loss: `0.5000` (2 samples)")
	assert.Contains(t, status, "accuracy: `-`")
}

func TestFormatLogs(t *testing.T) {
	assert.Equal(t, "No logs registered.", formatLogs(nil, 10))
	assert.Equal(t, "b\nc", formatLogs([]string{"a", "b", "c"}, 2))
}

func TestFormatBackups(t *testing.T) {
	assert.Equal(t, "No backups registered.", formatBackups(nil))

	monitor := &fakeMonitor{epoch: 2}
	_, err := monitor.Backup(context.Background())
	require.NoError(t, err)
	monitor.backups[0].Metrics = map[string]float64{"loss": 0.25, "acc": 0.75}

	assert.Equal(t, "*BACKUPS*\n`1` epoch `2` acc=`0.7500` loss=`0.2500`\n", formatBackups(monitor.Backups()))
}
