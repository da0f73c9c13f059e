package plot

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/monitor"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Dashboard serves the live training charts
type Dashboard struct {
	port               int
	debug              bool
	title              string
	log                logger.Logger
	monitor            *monitor.Monitor
	layout             *Layout
	chartConfig        core.ChartConfig
	registry           *chart.Registry
	wsManager          *WebSocketManager
	server             HTTPServer
	indexHTML          *template.Template
	scriptContent      string
	staleAfter         time.Duration
	simulationInterval time.Duration
	cancelSimulation   context.CancelFunc
}

// Option defines a function type for configuring a Dashboard instance
type Option func(*Dashboard)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(d *Dashboard) {
		d.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(d *Dashboard) {
		d.debug = true
	}
}

// WithTitle sets the page title
func WithTitle(title string) Option {
	return func(d *Dashboard) {
		d.title = title
	}
}

// WithLayout sets the canvases the page declares. Defaults to one canvas per metric.
func WithLayout(layout *Layout) Option {
	return func(d *Dashboard) {
		d.layout = layout
	}
}

// WithChartConfig sets the configuration shared by every chart
func WithChartConfig(config core.ChartConfig) Option {
	return func(d *Dashboard) {
		d.chartConfig = config
	}
}

// WithHTTPServer replaces the default gorilla/mux server
func WithHTTPServer(server HTTPServer) Option {
	return func(d *Dashboard) {
		d.server = server
	}
}

// WithStaleAfter sets how long without a redraw the health check tolerates
func WithStaleAfter(d time.Duration) Option {
	return func(dashboard *Dashboard) {
		dashboard.staleAfter = d
	}
}

// WithSimulation feeds random samples into every metric at the given interval
func WithSimulation(interval time.Duration) Option {
	return func(d *Dashboard) {
		d.simulationInterval = interval
	}
}

// NewDashboard creates one chart per monitor metric and binds them together.
// It fails when a metric has no canvas in the layout.
func NewDashboard(log logger.Logger, mon *monitor.Monitor, options ...Option) (*Dashboard, error) {
	d := &Dashboard{
		port:        8080,
		title:       "Training",
		log:         log,
		monitor:     mon,
		chartConfig: core.DefaultChartConfig(),
		staleAfter:  10 * time.Minute,
	}

	for _, option := range options {
		option(d)
	}

	metrics := mon.MetricNames()
	if d.layout == nil {
		d.layout = MetricLayout(metrics...)
	}
	if d.server == nil {
		d.server = NewMuxServer()
	}

	ids := make([]string, len(metrics))
	for i, metric := range metrics {
		ids[i] = CanvasID(metric)
	}

	d.wsManager = NewWebSocketManager(log)

	var err error
	d.registry, err = chart.NewRegistry(d.layout, ids, d.chartConfig, d.wsManager)
	if err != nil {
		d.wsManager.Close()
		return nil, err
	}
	d.wsManager.SetSnapshotSource(d.registry.Snapshots)

	for i, metric := range metrics {
		if err := mon.BindChart(metric, d.registry.Get(i)); err != nil {
			d.wsManager.Close()
			return nil, fmt.Errorf("failed to bind chart for %s: %w", metric, err)
		}
	}

	d.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !d.debug,
		MinifyIdentifiers: !d.debug,
		MinifyWhitespace:  !d.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}

	d.scriptContent = string(transpiled.Code)
	d.registerHandlers()

	return d, nil
}

// Registry returns the charts in canvas order
func (d *Dashboard) Registry() *chart.Registry {
	return d.registry
}

// Port returns the configured port
func (d *Dashboard) Port() int {
	return d.port
}

// Handler returns the HTTP handler serving the dashboard
func (d *Dashboard) Handler() http.Handler {
	return d.server.Handler()
}

func (d *Dashboard) registerHandlers() {
	s := d.server

	s.RegisterHandler("/assets/chart.js", d.handleScript, http.MethodGet)
	s.RegisterFileServer("/assets/", http.FS(staticFiles))

	s.RegisterHandler("/health", d.handleHealth, http.MethodGet)
	s.RegisterHandler("/history", d.handleHistory, http.MethodGet)
	s.RegisterHandler("/ws", d.wsManager.HandleWebSocket)

	s.RegisterHandler("/api/charts", d.handleCharts, http.MethodGet)
	s.RegisterHandler("/api/info", d.handleInfo, http.MethodPost)
	s.RegisterHandler("/api/config", d.handleGetConfig, http.MethodGet)
	s.RegisterHandler("/api/config", d.handleUpdateConfig, http.MethodPost)
	s.RegisterHandler("/api/metrics/{name}", d.handleMeter, http.MethodPost)
	s.RegisterHandler("/api/logs", d.handleLog, http.MethodPost)
	s.RegisterHandler("/api/backups", d.handleBackups, http.MethodGet)
	s.RegisterHandler("/api/backups", d.handleCreateBackup, http.MethodPost)
	s.RegisterHandler("/api/backups/{id:[0-9]+}/restore", d.handleRestore, http.MethodPost)

	s.RegisterHandler("/", d.handleIndex, http.MethodGet)
}

// Start serves the dashboard and blocks until the server stops
func (d *Dashboard) Start(ctx context.Context) error {
	if d.simulationInterval > 0 {
		simCtx, cancel := context.WithCancel(ctx)
		d.cancelSimulation = cancel
		d.log.Info("Starting metric simulation with interval ", d.simulationInterval)
		d.StartSimulation(simCtx, d.simulationInterval)
	}

	d.log.Infof("Dashboard available at http://localhost:%d", d.port)
	return d.server.Start(d.port)
}

// Shutdown stops the simulation, the websocket broadcaster and the server
func (d *Dashboard) Shutdown(ctx context.Context) error {
	if d.cancelSimulation != nil {
		d.cancelSimulation()
	}
	d.wsManager.Close()
	return d.server.Shutdown(ctx)
}
