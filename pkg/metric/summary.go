package metric

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

const (
	smoothingPeriod   = 10
	bootstrapSamples  = 1000
	bootstrapInterval = 0.95
)

// Summary describes one metric series
type Summary struct {
	Name   string
	Count  int
	Last   float64
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	EMA    float64
	// MeanInterval is the bootstrap confidence interval of the mean
	MeanInterval BootstrapInterval
}

// Summarize computes the summary of a metric series
func Summarize(name string, values []float64) Summary {
	summary := Summary{Name: name, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	summary.Last = values[len(values)-1]
	summary.Min, summary.Max = Range(values)
	summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		summary.StdDev = 0
	}

	smoothed := Smooth(values, smoothingPeriod)
	summary.EMA = smoothed[len(smoothed)-1]
	summary.MeanInterval = Bootstrap(values, Mean, bootstrapSamples, bootstrapInterval)

	return summary
}

// String formats the summary as a text table
func (s Summary) String() string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)

	data := [][]string{
		{"Metric", s.Name},
		{"Samples", strconv.Itoa(s.Count)},
		{"Last", formatFloat(s.Last)},
		{"Min", formatFloat(s.Min)},
		{"Max", formatFloat(s.Max)},
		{"Mean", formatFloat(s.Mean)},
		{"StdDev", formatFloat(s.StdDev)},
		{fmt.Sprintf("EMA(%d)", smoothingPeriod), formatFloat(s.EMA)},
		{"Mean 95%", fmt.Sprintf("%s ~ %s", formatFloat(s.MeanInterval.Lower), formatFloat(s.MeanInterval.Upper))},
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return tableString.String()
}

// WriteTable renders several summaries side by side, one row per metric
func WriteTable(w io.Writer, summaries []Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Samples", "Last", "Min", "Max", "Mean", "StdDev", "EMA"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range summaries {
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Count),
			formatFloat(s.Last),
			formatFloat(s.Min),
			formatFloat(s.Max),
			formatFloat(s.Mean),
			formatFloat(s.StdDev),
			formatFloat(s.EMA),
		})
	}
	table.Render()
}

// PrintHistogram writes a terminal histogram of the values
func PrintHistogram(w io.Writer, values []float64, bins int) error {
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "no samples")
		return err
	}

	hist := histogram.Hist(bins, values)
	return histogram.Fprint(w, hist, histogram.Linear(10))
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
