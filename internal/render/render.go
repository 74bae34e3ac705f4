// Package render rasterizes chart specs to PNG.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/ficopilot/internal/models"
)

// Renderer implements interfaces.ChartRenderer using go-chart.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the spec as a PNG image.
func (r *Renderer) Render(spec *models.ChartSpec, w io.Writer) error {
	if spec == nil || len(spec.Series) == 0 {
		return fmt.Errorf("chart spec has no series")
	}

	switch spec.Type {
	case models.ChartTypeBar:
		return renderBar(spec, w)
	case models.ChartTypePie:
		return renderPie(spec, w)
	case models.ChartTypeLine:
		return renderLine(spec, w)
	default:
		return fmt.Errorf("unsupported chart type %q", spec.Type)
	}
}

func colorFromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func barStyle(hex string) chart.Style {
	if hex == "" {
		return chart.Style{}
	}
	c := colorFromHex(hex)
	return chart.Style{FillColor: c, StrokeColor: c}
}

func renderBar(spec *models.ChartSpec, w io.Writer) error {
	var bars []chart.Value
	for _, s := range spec.Series {
		for _, p := range s.Points {
			label := s.Name
			if label == "" {
				label = p.Label
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: p.Value,
				Style: barStyle(s.Color),
			})
		}
	}
	if len(bars) == 0 {
		return fmt.Errorf("bar chart has no values")
	}

	graph := chart.BarChart{
		Title:    spec.Title,
		Width:    900,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			ValueFormatter: moneyTickFormatter,
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func renderPie(spec *models.ChartSpec, w io.Writer) error {
	points := spec.Series[0].Points
	if len(points) == 0 {
		return fmt.Errorf("pie chart has no slices")
	}

	var total float64
	for _, p := range points {
		total += p.Value
	}
	if total == 0 {
		return fmt.Errorf("pie chart total is zero")
	}

	values := make([]chart.Value, 0, len(points))
	for _, p := range points {
		values = append(values, chart.Value{
			// Slices are labeled percent+name, largest first.
			Label: fmt.Sprintf("%s %.1f%%", p.Label, p.Value/total*100),
			Value: p.Value,
		})
	}

	graph := chart.PieChart{
		Title:  spec.Title,
		Width:  500,
		Height: 500,
		Values: values,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func renderLine(spec *models.ChartSpec, w io.Writer) error {
	series := spec.Series[0]
	if len(series.Points) == 0 {
		return fmt.Errorf("line chart has no points")
	}

	xValues := make([]time.Time, 0, len(series.Points)+1)
	yValues := make([]float64, 0, len(series.Points)+1)
	for i, p := range series.Points {
		t, err := time.Parse("2006-01", p.Label)
		if err != nil {
			return fmt.Errorf("line point %d: label %q is not a month: %w", i, p.Label, err)
		}
		xValues = append(xValues, t)
		yValues = append(yValues, p.Value)
	}

	// A single month still renders: extend it into a flat one-day segment
	// so the x range is non-zero.
	if len(xValues) == 1 {
		xValues = append(xValues, xValues[0].AddDate(0, 0, 1))
		yValues = append(yValues, yValues[0])
	}

	yAxis := chart.YAxis{
		Name:           spec.YLabel,
		ValueFormatter: moneyTickFormatter,
	}

	// A flat series has a zero y range, which go-chart refuses; pad it.
	minY, maxY := yValues[0], yValues[0]
	for _, v := range yValues[1:] {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	if minY == maxY {
		pad := math.Abs(minY) * 0.1
		if pad == 0 {
			pad = 1
		}
		yAxis.Range = &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}

	style := chart.Style{StrokeWidth: 3, DotWidth: 4}
	if series.Color != "" {
		c := colorFromHex(series.Color)
		style.StrokeColor = c
		style.DotColor = c
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:         spec.XLabel,
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).Format("2006-01")
				}
				return ""
			},
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    series.Name,
				Style:   style,
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func moneyTickFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		if f >= 1000 || f <= -1000 {
			return fmt.Sprintf("$%.0fk", f/1000)
		}
		return fmt.Sprintf("$%.0f", f)
	}
	return ""
}
