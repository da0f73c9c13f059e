package chart

import (
	"sync"

	"github.com/raykavin/tutor/pkg/core"
)

// Chart is a handle to one line chart drawn on a page surface
type Chart struct {
	sync.Mutex
	id       string
	surface  Surface
	config   core.ChartConfig
	data     Data
	renderer Renderer
}

func newChart(surface Surface, config core.ChartConfig, renderer Renderer) *Chart {
	return &Chart{
		id:       surface.ID,
		surface:  surface,
		config:   config,
		data:     newData(config.Style),
		renderer: renderer,
	}
}

// ID returns the canvas identifier the chart was created for
func (c *Chart) ID() string {
	return c.id
}

// Surface returns the drawing surface the chart is bound to
func (c *Chart) Surface() Surface {
	return c.surface
}

// Config returns the chart configuration
func (c *Chart) Config() core.ChartConfig {
	return c.config
}

// Len returns the number of points currently held
func (c *Chart) Len() int {
	c.Lock()
	defer c.Unlock()

	return c.data.Len()
}

// Labels returns a copy of the label sequence
func (c *Chart) Labels() []string {
	c.Lock()
	defer c.Unlock()

	labels, _ := c.data.snapshot()
	return labels
}

// Values returns a copy of the values of dataset i
func (c *Chart) Values(i int) []float64 {
	c.Lock()
	defer c.Unlock()

	_, datasets := c.data.snapshot()
	return datasets[i].Data
}

// Snapshot returns a copy of the chart data and its render options
func (c *Chart) Snapshot() Snapshot {
	c.Lock()
	defer c.Unlock()

	labels, datasets := c.data.snapshot()
	return Snapshot{
		ID:       c.id,
		Type:     c.config.Type,
		Options:  c.config.Options,
		Labels:   labels,
		Datasets: datasets,
	}
}
