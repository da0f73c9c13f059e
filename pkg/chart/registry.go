package chart

import (
	"fmt"

	"github.com/raykavin/tutor/pkg/core"
)

// Registry is the ordered set of charts created at startup.
// Position i holds the chart for the i-th configured canvas id.
type Registry struct {
	charts []*Chart
	byID   map[string]*Chart
}

// NewRegistry creates one chart per canvas id, in order. It fails on the
// first id the resolver cannot find and returns no partial registry.
func NewRegistry(resolver SurfaceResolver, ids []string, config core.ChartConfig, renderer Renderer) (*Registry, error) {
	if renderer == nil {
		renderer = NopRenderer{}
	}

	registry := &Registry{
		charts: make([]*Chart, 0, len(ids)),
		byID:   make(map[string]*Chart, len(ids)),
	}

	for _, id := range ids {
		surface, err := resolver.Surface(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve canvas %q: %w", id, err)
		}

		chart := newChart(surface, config, renderer)
		registry.charts = append(registry.charts, chart)
		registry.byID[id] = chart
	}

	return registry, nil
}

// Len returns the number of charts
func (r *Registry) Len() int {
	return len(r.charts)
}

// Get returns the chart at position i
func (r *Registry) Get(i int) *Chart {
	return r.charts[i]
}

// ByID returns the chart created for the given canvas id
func (r *Registry) ByID(id string) (*Chart, bool) {
	chart, ok := r.byID[id]
	return chart, ok
}

// Charts returns the charts in registry order
func (r *Registry) Charts() []*Chart {
	out := make([]*Chart, len(r.charts))
	copy(out, r.charts)
	return out
}

// Snapshots returns a snapshot of every chart in registry order
func (r *Registry) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(r.charts))
	for _, chart := range r.charts {
		out = append(out, chart.Snapshot())
	}
	return out
}
