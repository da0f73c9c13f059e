package tutor

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/raykavin/tutor/pkg/client"
	"github.com/raykavin/tutor/pkg/config"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/metric"
	"github.com/raykavin/tutor/pkg/storage"
	"github.com/samber/lo"
)

// SummaryOptions controls PrintSummary
type SummaryOptions struct {
	Histogram bool
	Bins      int
}

// PrintSummary writes the statistics of a stored backup, the latest when id is 0
func PrintSummary(w io.Writer, cfg *config.AppConfig, id int64, options SummaryOptions) error {
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	backup, err := findBackup(store, id)
	if err != nil {
		return err
	}

	return writeSummary(w, backup, options)
}

func writeSummary(w io.Writer, backup *core.Backup, options SummaryOptions) error {
	names := lo.Keys(backup.Metrics)
	slices.Sort(names)

	summaries := lo.Map(names, func(name string, _ int) metric.Summary {
		return metric.Summarize(name, backup.Metrics[name])
	})

	fmt.Fprintf(w, "BACKUP %d | EPOCH %d | %s\n", backup.ID, backup.Epoch, backup.CreatedAt.Format("2006-01-02 15:04:05"))
	metric.WriteTable(w, summaries)

	if !options.Histogram {
		return nil
	}

	for _, name := range names {
		values := backup.Metrics[name]
		if values.Length() == 0 {
			continue
		}

		fmt.Fprintf(w, "\n-- %s --\n", name)
		if err := metric.PrintHistogram(w, values, options.Bins); err != nil {
			return fmt.Errorf("failed to print histogram of %s: %w", name, err)
		}
	}

	return nil
}

// Replay pushes a stored backup, the latest when id is 0, into the dashboard at url
func Replay(ctx context.Context, cfg *config.AppConfig, url string, id int64, metrics ...string) error {
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	backup, err := findBackup(store, id)
	if err != nil {
		return err
	}

	var options []client.ReplayOption
	if len(metrics) > 0 {
		options = append(options, client.WithMetrics(metrics...))
	}

	return client.New(url, DefaultLog).Replay(ctx, *backup, options...)
}

// findBackup returns the backup with the given id, or the latest one when id is 0
func findBackup(store core.BackupStorage, id int64) (*core.Backup, error) {
	if id > 0 {
		return store.Backup(id)
	}

	backups, err := store.Backups()
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return nil, core.ErrBackupNotFound
	}
	return backups[len(backups)-1], nil
}
