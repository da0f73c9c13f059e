package core

const (
	ChartTypeLine = "line"

	DefaultBackgroundColor = "rgba(0,0,0,0)"
	DefaultBorderColor     = "#ffa000"
)

// SeriesStyle is the visual style of a single plotted line
type SeriesStyle struct {
	BackgroundColor string `json:"backgroundColor" mapstructure:"background_color"`
	BorderColor     string `json:"borderColor" mapstructure:"border_color"`
	PointRadius     int    `json:"pointRadius" mapstructure:"point_radius"`
}

// LegendOptions controls the chart legend
type LegendOptions struct {
	Display bool `json:"display" mapstructure:"display"`
}

// ChartOptions holds the non-data options handed to the browser chart library
type ChartOptions struct {
	Legend LegendOptions `json:"legend" mapstructure:"legend"`
	// Events lists the interaction events the chart reacts to. Empty disables all of them.
	Events []string `json:"events" mapstructure:"events"`
}

// ChartConfig is the full configuration of one chart
type ChartConfig struct {
	Type    string       `json:"type" mapstructure:"type"`
	Style   SeriesStyle  `json:"style" mapstructure:"style"`
	Options ChartOptions `json:"options" mapstructure:"options"`
	// MaxPoints bounds the number of points kept per chart. Zero keeps everything.
	MaxPoints int `json:"maxPoints" mapstructure:"max_points"`
}

// DefaultChartConfig returns the style every metric chart uses: a single
// transparent orange line without point markers, legend or interaction.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Type: ChartTypeLine,
		Style: SeriesStyle{
			BackgroundColor: DefaultBackgroundColor,
			BorderColor:     DefaultBorderColor,
			PointRadius:     0,
		},
		Options: ChartOptions{
			Legend: LegendOptions{Display: false},
			Events: []string{},
		},
	}
}
