// Package report renders portfolio and market data as PNG charts and XLSX workbooks.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

var ErrNoData = errors.New("no data to chart")

const (
	chartWidth  = 800
	chartHeight = 400
)

// Point is one sample of a time series.
type Point struct {
	Time  time.Time
	Value float64
}

// ValuePoints converts portfolio history into chart points.
func ValuePoints(history []entities.ValuePoint) []Point {
	points := make([]Point, 0, len(history))
	for _, v := range history {
		if v.Date.IsZero() {
			continue
		}
		points = append(points, Point{Time: v.Date.Time, Value: v.TotalValue.InexactFloat64()})
	}
	return points
}

// PricePoints converts stock history into chart points. Unparseable dates are skipped.
func PricePoints(history []entities.PricePoint) []Point {
	points := make([]Point, 0, len(history))
	for _, p := range history {
		t, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, p.Date); err != nil {
				continue
			}
		}
		points = append(points, Point{Time: t, Value: p.Price.InexactFloat64()})
	}
	return points
}

// LineChart renders points as a PNG line chart.
func LineChart(title string, points []Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	for _, p := range points {
		xs = append(xs, p.Time)
		ys = append(ys, p.Value)
	}
	// go-chart needs at least two x values.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
