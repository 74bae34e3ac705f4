package models

// ChartType identifies how a ChartSpec should be rendered.
type ChartType string

const (
	ChartTypeBar  ChartType = "bar"
	ChartTypePie  ChartType = "pie"
	ChartTypeLine ChartType = "line"
)

// Answer is the result of one question: a text summary and an optional chart.
// Answers are produced fresh per question and never persisted.
type Answer struct {
	Text  string     `json:"text"`
	Chart *ChartSpec `json:"chart,omitempty"`
}

// ChartSpec is a render-ready chart description. The HTTP layer returns it
// as JSON for web frontends and can also rasterize it to PNG on request.
type ChartSpec struct {
	Type   ChartType     `json:"type"`
	Title  string        `json:"title"`
	XLabel string        `json:"x_label,omitempty"`
	YLabel string        `json:"y_label,omitempty"`
	Series []ChartSeries `json:"series"`
}

// ChartSeries is one named data series within a chart. For pie charts a
// single series holds one point per slice.
type ChartSeries struct {
	Name   string       `json:"name,omitempty"`
	Color  string       `json:"color,omitempty"` // hex, e.g. "#2E86AB"
	Points []ChartPoint `json:"points"`
}

// ChartPoint is a single labeled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
