package plot

import (
	"fmt"

	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/core"
)

const (
	DefaultCanvasWidth  = 600
	DefaultCanvasHeight = 300
	canvasSuffix        = "-canvas"
)

// CanvasID returns the canvas element id a metric is drawn on
func CanvasID(metric string) string {
	return metric + canvasSuffix
}

// Layout is the set of canvas elements the dashboard page declares, in page order
type Layout struct {
	surfaces []chart.Surface
	byID     map[string]chart.Surface
}

// NewLayout declares the given canvases
func NewLayout(surfaces ...chart.Surface) *Layout {
	layout := &Layout{byID: make(map[string]chart.Surface, len(surfaces))}
	for _, surface := range surfaces {
		layout.Add(surface)
	}
	return layout
}

// MetricLayout declares one default sized canvas per metric
func MetricLayout(metrics ...string) *Layout {
	layout := NewLayout()
	for _, metric := range metrics {
		layout.Add(chart.Surface{ID: CanvasID(metric), Width: DefaultCanvasWidth, Height: DefaultCanvasHeight})
	}
	return layout
}

// Add declares a canvas; redeclaring an id replaces its size
func (l *Layout) Add(surface chart.Surface) {
	if _, ok := l.byID[surface.ID]; !ok {
		l.surfaces = append(l.surfaces, surface)
	} else {
		for i := range l.surfaces {
			if l.surfaces[i].ID == surface.ID {
				l.surfaces[i] = surface
			}
		}
	}
	l.byID[surface.ID] = surface
}

// Surface implements chart.SurfaceResolver
func (l *Layout) Surface(id string) (chart.Surface, error) {
	surface, ok := l.byID[id]
	if !ok {
		return chart.Surface{}, fmt.Errorf("%w: %s", core.ErrSurfaceNotFound, id)
	}
	return surface, nil
}

// Surfaces returns the declared canvases in page order
func (l *Layout) Surfaces() []chart.Surface {
	out := make([]chart.Surface, len(l.surfaces))
	copy(out, l.surfaces)
	return out
}
