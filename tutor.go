// Package tutor assembles the training monitor, its backup storage and the
// live dashboard into one service.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/config"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/monitor"
	"github.com/raykavin/tutor/pkg/notification"
	"github.com/raykavin/tutor/pkg/plot"
	"github.com/raykavin/tutor/pkg/storage"
)

type Tutor struct {
	config       *config.AppConfig
	log          logger.Logger
	logLevel     *logger.Level
	storage      core.BackupStorage
	ownsStorage  bool
	checkpointer core.Checkpointer
	notifiers    []core.Notifier
	telegram     core.NotifierWithStart

	monitor          *monitor.Monitor
	dashboard        *plot.Dashboard
	dashboardOptions []plot.Option

	closeOnce sync.Once
}

// New creates the monitor with one metric per configured name, opens the
// backup storage and builds the dashboard. It fails when a metric has no
// canvas to draw on.
func New(cfg *config.AppConfig, options ...Option) (*Tutor, error) {
	t := &Tutor{
		config: cfg,
		log:    DefaultLog,
	}

	for _, option := range options {
		option(t)
	}

	if t.logLevel != nil {
		t.log.SetLevel(*t.logLevel)
	}

	if err := initializeStorage(t); err != nil {
		return nil, err
	}

	if err := initializeMonitor(t); err != nil {
		t.releaseStorage()
		return nil, err
	}

	if err := initializeNotifications(t); err != nil {
		t.releaseStorage()
		return nil, err
	}

	if err := initializeDashboard(t); err != nil {
		t.releaseStorage()
		return nil, err
	}

	return t, nil
}

// initializeStorage opens the configured backup storage unless one was given
func initializeStorage(t *Tutor) error {
	if t.storage != nil {
		return nil
	}

	var err error
	t.storage, err = storage.Open(t.config.Storage.Driver, t.config.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	t.ownsStorage = true
	return nil
}

// releaseStorage closes the storage after a failed New, unless the caller
// passed it in with WithStorage
func (t *Tutor) releaseStorage() {
	if !t.ownsStorage {
		return
	}
	if err := t.storage.Close(); err != nil {
		t.log.WithError(err).Warn("Failed to close storage")
	}
}

func initializeMonitor(t *Tutor) error {
	var options []monitor.Option
	if t.checkpointer != nil {
		options = append(options, monitor.WithCheckpointer(t.checkpointer))
	}

	t.monitor = monitor.New(t.log, t.storage, options...)

	for _, name := range t.config.Metrics {
		if err := t.monitor.MakeMetric(name); err != nil {
			return err
		}
	}

	if len(t.config.Fields) > 0 {
		if err := t.monitor.MakeConfig(t.config.Fields); err != nil {
			return err
		}
	}

	return t.monitor.LoadBackups()
}

// initializeNotifications sets up Telegram and fans out to every notifier
func initializeNotifications(t *Tutor) error {
	if t.config.Telegram.Enabled {
		settings := t.config.Settings()
		telegram, err := notification.NewTelegram(t.monitor, &settings)
		if err != nil {
			return err
		}
		t.telegram = telegram
		t.notifiers = append(t.notifiers, telegram)
	}

	switch len(t.notifiers) {
	case 0:
	case 1:
		t.monitor.SetNotifier(t.notifiers[0])
	default:
		t.monitor.SetNotifier(notifiers(t.notifiers))
	}
	return nil
}

func initializeDashboard(t *Tutor) error {
	chartConfig := core.DefaultChartConfig()
	chartConfig.MaxPoints = t.config.MaxPoints

	options := []plot.Option{
		plot.WithPort(t.config.Port),
		plot.WithTitle(t.config.Title),
		plot.WithChartConfig(chartConfig),
		plot.WithStaleAfter(t.config.StaleAfter),
	}
	if t.config.Debug {
		options = append(options, plot.WithDebug())
	}
	if t.config.Simulation > 0 {
		options = append(options, plot.WithSimulation(t.config.Simulation))
	}
	if len(t.config.Canvases) > 0 {
		layout := plot.NewLayout()
		for _, id := range t.config.Canvases {
			layout.Add(chart.Surface{ID: id, Width: plot.DefaultCanvasWidth, Height: plot.DefaultCanvasHeight})
		}
		options = append(options, plot.WithLayout(layout))
	}
	options = append(options, t.dashboardOptions...)

	var err error
	t.dashboard, err = plot.NewDashboard(t.log, t.monitor, options...)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	return nil
}

// Monitor returns the training monitor the training loop meters into
func (t *Tutor) Monitor() *monitor.Monitor {
	return t.monitor
}

// Dashboard returns the dashboard serving the charts
func (t *Tutor) Dashboard() *plot.Dashboard {
	return t.dashboard
}

// Run serves the dashboard until ctx is done, then shuts everything down
func (t *Tutor) Run(ctx context.Context) error {
	if t.telegram != nil {
		t.telegram.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- t.dashboard.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return multierror.Append(fmt.Errorf("dashboard stopped: %w", err), t.Close(context.Background()))
		}
		return t.Close(context.Background())
	case <-ctx.Done():
		t.log.Info("Shutting down")
		return t.Close(context.Background())
	}
}

// Close stops the dashboard and releases the storage. Safe to call twice.
func (t *Tutor) Close(ctx context.Context) error {
	var result *multierror.Error

	t.closeOnce.Do(func() {
		if err := t.dashboard.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to shutdown dashboard: %w", err))
		}
		if err := t.storage.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close storage: %w", err))
		}
	})

	return result.ErrorOrNil()
}

// notifiers fans a notification out to several notifiers
type notifiers []core.Notifier

func (n notifiers) Notify(message string) {
	for _, notifier := range n {
		notifier.Notify(message)
	}
}

func (n notifiers) OnError(err error) {
	for _, notifier := range n {
		notifier.OnError(err)
	}
}
