package chart

import (
	"fmt"

	"github.com/raykavin/tutor/pkg/core"
)

// AddData appends label to the chart labels and value to every dataset,
// then requests one redraw. When the chart is configured with MaxPoints the
// oldest point is dropped once the limit is exceeded.
func AddData(c *Chart, label string, value float64) {
	c.Lock()
	c.data.push(label, value)
	c.data.trim(c.config.MaxPoints)
	c.Unlock()

	c.renderer.Redraw(c)
}

// RemoveData removes the last label and the last value of every dataset,
// then requests one redraw. An empty chart is left untouched, no redraw is
// requested and core.ErrEmptyChart is returned.
func RemoveData(c *Chart) error {
	c.Lock()
	ok := c.data.pop()
	c.Unlock()

	if !ok {
		return core.ErrEmptyChart
	}

	c.renderer.Redraw(c)
	return nil
}

// Reset replaces the whole chart content and requests one redraw.
func Reset(c *Chart, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("%w: %d labels, %d values", core.ErrLengthMismatch, len(labels), len(values))
	}

	c.Lock()
	c.data.reset(labels, values)
	c.data.trim(c.config.MaxPoints)
	c.Unlock()

	c.renderer.Redraw(c)
	return nil
}
