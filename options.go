package tutor

import (
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/plot"
)

// Option is a functional option for configuring a Tutor instance
type Option func(*Tutor)

// WithStorage sets the backup storage, by default the one named in the config is opened.
// If New fails the storage is left open. Close releases it.
func WithStorage(storage core.BackupStorage) Option {
	return func(t *Tutor) {
		t.storage = storage
	}
}

// WithLogger replaces DefaultLog
func WithLogger(log logger.Logger) Option {
	return func(t *Tutor) {
		t.log = log
	}
}

// WithLogLevel sets the log level. eg: logger.DebugLevel, logger.InfoLevel, logger.WarnLevel
func WithLogLevel(level logger.Level) Option {
	return func(t *Tutor) {
		t.logLevel = &level
	}
}

// WithNotifier registers a notifier for logs and backups. Telegram is added from the config.
func WithNotifier(notifier core.Notifier) Option {
	return func(t *Tutor) {
		t.notifiers = append(t.notifiers, notifier)
	}
}

// WithCheckpointer saves and restores model state together with every backup
func WithCheckpointer(checkpointer core.Checkpointer) Option {
	return func(t *Tutor) {
		t.checkpointer = checkpointer
	}
}

// WithDashboardOptions passes extra options to the dashboard
func WithDashboardOptions(options ...plot.Option) Option {
	return func(t *Tutor) {
		t.dashboardOptions = append(t.dashboardOptions, options...)
	}
}
