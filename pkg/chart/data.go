package chart

import (
	"github.com/raykavin/tutor/pkg/core"
)

// Dataset is one plotted line: its style and its values, aligned with the chart labels
type Dataset struct {
	core.SeriesStyle
	Data []float64 `json:"data"`
}

// Data keeps the label sequence and every dataset's value sequence in lockstep.
// The sequences are only changed through push, pop, shift and reset so their
// lengths are always equal.
type Data struct {
	labels   []string
	datasets [][]float64
	styles   []core.SeriesStyle
}

func newData(styles ...core.SeriesStyle) Data {
	d := Data{
		labels:   []string{},
		datasets: make([][]float64, len(styles)),
		styles:   styles,
	}
	for i := range d.datasets {
		d.datasets[i] = []float64{}
	}
	return d
}

// Len returns the number of points
func (d *Data) Len() int {
	return len(d.labels)
}

// push appends label and the same value to every dataset
func (d *Data) push(label string, value float64) {
	d.labels = append(d.labels, label)
	for i := range d.datasets {
		d.datasets[i] = append(d.datasets[i], value)
	}
}

// pop removes the last point; it reports false when there is nothing to remove
func (d *Data) pop() bool {
	n := len(d.labels)
	if n == 0 {
		return false
	}
	d.labels = d.labels[:n-1]
	for i := range d.datasets {
		d.datasets[i] = d.datasets[i][:n-1]
	}
	return true
}

// shift drops the oldest point
func (d *Data) shift() {
	if len(d.labels) == 0 {
		return
	}
	d.labels = d.labels[1:]
	for i := range d.datasets {
		d.datasets[i] = d.datasets[i][1:]
	}
}

// trim drops the oldest points until at most limit remain. A limit of zero keeps everything.
func (d *Data) trim(limit int) {
	if limit <= 0 {
		return
	}
	for len(d.labels) > limit {
		d.shift()
	}
}

// reset replaces the content with one label per value, applied to every dataset
func (d *Data) reset(labels []string, values []float64) {
	d.labels = append(make([]string, 0, len(labels)), labels...)
	for i := range d.datasets {
		d.datasets[i] = append(make([]float64, 0, len(values)), values...)
	}
}

// Snapshot is a copy of chart data safe to hand to other goroutines
type Snapshot struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Options  core.ChartOptions `json:"options"`
	Labels   []string          `json:"labels"`
	Datasets []Dataset         `json:"datasets"`
}

func (d *Data) snapshot() ([]string, []Dataset) {
	labels := make([]string, len(d.labels))
	copy(labels, d.labels)

	datasets := make([]Dataset, len(d.datasets))
	for i, values := range d.datasets {
		data := make([]float64, len(values))
		copy(data, values)
		datasets[i] = Dataset{SeriesStyle: d.styles[i], Data: data}
	}
	return labels, datasets
}
