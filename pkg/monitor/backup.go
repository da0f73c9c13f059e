package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/core"
)

// Backup persists the epoch, every metric series and, with a checkpointer,
// the model state. It returns the summary shown to dashboard clients.
func (m *Monitor) Backup(ctx context.Context) (core.BackupSummary, error) {
	var state []byte
	if m.checkpointer != nil {
		var err error
		if state, err = m.checkpointer.Checkpoint(ctx); err != nil {
			return core.BackupSummary{}, fmt.Errorf("failed to checkpoint model: %w", err)
		}
	}

	m.RLock()
	backup := &core.Backup{
		Epoch:     m.epoch,
		Metrics:   make(map[string]core.Series[float64], len(m.metrics)),
		State:     state,
		CreatedAt: time.Now(),
	}
	for name, values := range m.metrics {
		backup.Metrics[name] = values.Clone()
	}
	m.RUnlock()

	if err := m.storage.CreateBackup(backup); err != nil {
		return core.BackupSummary{}, fmt.Errorf("failed to store backup: %w", err)
	}

	summary := backup.Summary()

	m.Lock()
	m.backups = append(m.backups, summary)
	notifier := m.notifier
	m.Unlock()

	m.log.WithFields(map[string]any{
		"backup": summary.ID,
		"epoch":  summary.Epoch,
	}).Info("Backup created")
	if notifier != nil {
		notifier.Notify(fmt.Sprintf("Backup %d created at epoch %d", summary.ID, summary.Epoch))
	}

	return summary, nil
}

// LoadBackups lists the backups already in storage, e.g. from a previous run
func (m *Monitor) LoadBackups() error {
	backups, err := m.storage.Backups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	summaries := make([]core.BackupSummary, 0, len(backups))
	for _, backup := range backups {
		summaries = append(summaries, backup.Summary())
	}

	m.Lock()
	m.backups = summaries
	m.Unlock()
	return nil
}

// Restore loads a backup: epoch, metric series and model state are replaced
// and bound charts are redrawn with the restored series. Clients see the
// change as a reset on their next CheckInfo.
func (m *Monitor) Restore(ctx context.Context, id int64) error {
	backup, err := m.storage.Backup(id)
	if err != nil {
		return err
	}

	if m.checkpointer != nil && len(backup.State) > 0 {
		if err := m.checkpointer.Restore(ctx, backup.State); err != nil {
			return fmt.Errorf("failed to restore model state: %w", err)
		}
	}

	// hold every lane so no sample lands between the series swap and the redraw
	m.RLock()
	lanes := make([]*sync.Mutex, 0, len(m.lanes))
	for name := range m.names.Iter() {
		lanes = append(lanes, m.lanes[name])
	}
	m.RUnlock()

	for _, lane := range lanes {
		lane.Lock()
		defer lane.Unlock()
	}

	type redraw struct {
		chart  *chart.Chart
		values core.Series[float64]
	}

	m.Lock()
	m.epoch = backup.Epoch
	redraws := make([]redraw, 0, len(m.charts))
	for name := range m.metrics {
		values := backup.Metrics[name].Clone()
		m.metrics[name] = values
		if c, ok := m.charts[name]; ok {
			redraws = append(redraws, redraw{chart: c, values: values.Clone()})
		}
	}
	m.currentID = id
	m.Unlock()

	for _, r := range redraws {
		if err := chart.Reset(r.chart, sampleLabels(r.values.Length()), r.values); err != nil {
			return err
		}
	}

	m.log.WithField("backup", id).Info("Backup restored")
	return nil
}
