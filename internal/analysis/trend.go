package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/datalens/internal/table"
)

// Direction is the sign of a fitted trend.
type Direction string

const (
	Upward   Direction = "Upward"
	Downward Direction = "Downward"
	Stable   Direction = "Stable"
)

// TrendResult is the regression-based trend of a value column over a date column.
// Only Enabled is set when the trend could not be computed.
type TrendResult struct {
	Enabled      bool      `json:"enabled"`
	DateColumn   string    `json:"date_column,omitempty"`
	ValueColumn  string    `json:"value_column,omitempty"`
	Trend        Direction `json:"trend,omitempty"`
	Slope        *float64  `json:"slope,omitempty"`
	FutureValues []float64 `json:"future_values,omitempty"`
}

// DetectTrend describes the first numeric column by comparing its last value to its mean.
// It ignores row order semantics and is reported next to the time-series trend.
func DetectTrend(t *table.Table, s Schema) string {
	nums := s.Numeric()
	if len(nums) == 0 {
		return "No numeric data"
	}
	name := nums[0]
	c, _ := t.Column(name)
	vals := numericValues(c)
	if len(vals) < 3 {
		return "Not enough data to detect trend"
	}
	if vals[len(vals)-1] > stat.Mean(vals, nil) {
		return fmt.Sprintf("Upward trend in %s", name)
	}
	return fmt.Sprintf("Stable/Downward trend in %s", name)
}

type seriesPoint struct {
	at     time.Time
	noDate bool
	y      float64
}

// TimeSeriesTrend sorts rows by dateCol, fits y = a + b*rank by least squares and
// forecasts the next opt.ForecastHorizon ranks. Any unusable input returns a disabled result.
func TimeSeriesTrend(t *table.Table, dateCol, valueCol string, opt Options) TrendResult {
	opt = opt.withDefaults()
	disabled := TrendResult{}
	dc, ok := t.Column(dateCol)
	if !ok {
		return disabled
	}
	vc, ok := t.Column(valueCol)
	if !ok {
		return disabled
	}
	n := t.Rows()
	if n < 2 {
		return disabled
	}

	pts := make([]seriesPoint, n)
	for i := 0; i < n; i++ {
		switch {
		case dc.Missing(i):
			pts[i].noDate = true
		case dc.Kind == table.KindTimestamp:
			pts[i].at = dc.Times[i]
		default:
			ts, ok := table.ParseTime(dc.Text(i))
			if !ok {
				return disabled
			}
			pts[i].at = ts
		}
		y, ok := cellNumber(vc, i)
		if !ok {
			return disabled
		}
		pts[i].y = y
	}
	// rows without a date go last, like NaT in an ascending sort
	sort.SliceStable(pts, func(a, b int) bool {
		if pts[a].noDate != pts[b].noDate {
			return !pts[a].noDate
		}
		return pts[a].at.Before(pts[b].at)
	})

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range pts {
		xs[i] = float64(i)
		ys[i] = p.y
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if !finite(alpha) || !finite(beta) {
		return disabled
	}

	dir := Stable
	switch {
	case beta > 0:
		dir = Upward
	case beta < 0:
		dir = Downward
	}
	future := make([]float64, opt.ForecastHorizon)
	for k := range future {
		future[k] = round2(alpha + beta*float64(n+k))
	}
	slope := round2(beta)
	return TrendResult{
		Enabled:      true,
		DateColumn:   dateCol,
		ValueColumn:  valueCol,
		Trend:        dir,
		Slope:        &slope,
		FutureValues: future,
	}
}

func cellNumber(c *table.Column, i int) (float64, bool) {
	if c.Kind == table.KindNumber {
		v := c.Nums[i]
		return v, !math.IsNaN(v)
	}
	return table.ParseNumber(c.Text(i))
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
