package monitor

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/StudioSol/set"
	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
)

// Monitor collects the metrics, logs, backups and live configuration of a
// training run. It is shared between the training loop, which meters
// samples, and the dashboard, which reads deltas and pushes config changes.
type Monitor struct {
	sync.RWMutex
	log          logger.Logger
	storage      core.BackupStorage
	checkpointer core.Checkpointer
	notifier     core.Notifier

	names   *set.LinkedHashSetString
	metrics map[string]core.Series[float64]
	charts  map[string]*chart.Chart
	// lanes serialize the series append and the chart update of one metric
	lanes   map[string]*sync.Mutex
	logs    []string
	backups []core.BackupSummary

	template      []ConfigField
	config        map[string]any
	pendingConfig bool

	currentID int64
	epoch     int
}

// Option defines a function type for configuring a Monitor instance
type Option func(*Monitor)

// WithCheckpointer saves and restores model state with every backup
func WithCheckpointer(checkpointer core.Checkpointer) Option {
	return func(m *Monitor) {
		m.checkpointer = checkpointer
	}
}

// WithNotifier forwards log lines and backup notices
func WithNotifier(notifier core.Notifier) Option {
	return func(m *Monitor) {
		m.notifier = notifier
	}
}

// New creates a monitor persisting backups in storage
func New(log logger.Logger, storage core.BackupStorage, options ...Option) *Monitor {
	m := &Monitor{
		log:     log,
		storage: storage,
		names:   set.NewLinkedHashSetString(),
		metrics: make(map[string]core.Series[float64]),
		charts:  make(map[string]*chart.Chart),
		lanes:   make(map[string]*sync.Mutex),
		logs:    make([]string, 0),
		backups: make([]core.BackupSummary, 0),
		config:  make(map[string]any),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// MakeMetric registers an empty metric. Metric order follows registration.
func (m *Monitor) MakeMetric(name string) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.metrics[name]; ok {
		return fmt.Errorf("%w: %s", core.ErrMetricExists, name)
	}

	m.names.Add(name)
	m.metrics[name] = core.Series[float64]{}
	m.lanes[name] = &sync.Mutex{}
	return nil
}

func (m *Monitor) lane(name string) (*sync.Mutex, error) {
	m.RLock()
	defer m.RUnlock()

	lane, ok := m.lanes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownMetric, name)
	}
	return lane, nil
}

// BindChart draws the metric on c. The chart is reset to the samples
// already metered and receives every following sample.
func (m *Monitor) BindChart(name string, c *chart.Chart) error {
	lane, err := m.lane(name)
	if err != nil {
		return err
	}
	lane.Lock()
	defer lane.Unlock()

	m.Lock()
	m.charts[name] = c
	values := m.metrics[name].Clone()
	m.Unlock()

	return chart.Reset(c, sampleLabels(len(values)), values)
}

// Meter appends a sample to a metric and to its chart, if bound. Samples
// of one metric reach the chart in the order they enter the series.
func (m *Monitor) Meter(name string, value float64) error {
	lane, err := m.lane(name)
	if err != nil {
		return err
	}
	lane.Lock()
	defer lane.Unlock()

	m.Lock()
	values := append(m.metrics[name], value)
	m.metrics[name] = values
	c := m.charts[name]
	m.Unlock()

	if c != nil {
		chart.AddData(c, strconv.Itoa(values.Length()), value)
	}
	return nil
}

// SetNotifier replaces the notifier. Notifiers that report on the monitor
// itself are created after it and attached here.
func (m *Monitor) SetNotifier(notifier core.Notifier) {
	m.Lock()
	defer m.Unlock()
	m.notifier = notifier
}

// Log records a message for the dashboard and forwards it to the notifier
func (m *Monitor) Log(message string) {
	m.Lock()
	m.logs = append(m.logs, message)
	notifier := m.notifier
	m.Unlock()

	m.log.Info(message)
	if notifier != nil {
		notifier.Notify(message)
	}
}

// SetEpoch sets the current training epoch
func (m *Monitor) SetEpoch(epoch int) {
	m.Lock()
	defer m.Unlock()
	m.epoch = epoch
}

// Epoch returns the current training epoch
func (m *Monitor) Epoch() int {
	m.RLock()
	defer m.RUnlock()
	return m.epoch
}

// CurrentID returns the id of the last restored backup, zero if none
func (m *Monitor) CurrentID() int64 {
	m.RLock()
	defer m.RUnlock()
	return m.currentID
}

// MetricNames returns the metric names in registration order
func (m *Monitor) MetricNames() []string {
	m.RLock()
	defer m.RUnlock()

	names := make([]string, 0, len(m.metrics))
	for name := range m.names.Iter() {
		names = append(names, name)
	}
	return names
}

// Series returns a copy of the samples of a metric
func (m *Monitor) Series(name string) (core.Series[float64], error) {
	m.RLock()
	defer m.RUnlock()

	values, ok := m.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownMetric, name)
	}
	return values.Clone(), nil
}

// Logs returns a copy of all log messages
func (m *Monitor) Logs() []string {
	m.RLock()
	defer m.RUnlock()

	out := make([]string, len(m.logs))
	copy(out, m.logs)
	return out
}

// Backups returns the summaries of the backups taken in this run
func (m *Monitor) Backups() []core.BackupSummary {
	m.RLock()
	defer m.RUnlock()

	out := make([]core.BackupSummary, len(m.backups))
	copy(out, m.backups)
	return out
}

func sampleLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}
