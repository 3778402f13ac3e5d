package analysis

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/datalens/internal/parser"
	"github.com/KaramelBytes/datalens/internal/table"
)

// Report is the full analysis of one table. Missing cells in the row projections are nil.
type Report struct {
	Filename             string                    `json:"filename"`
	Columns              []string                  `json:"columns"`
	Rows                 int                       `json:"rows"`
	Summary              map[string]ColumnSummary  `json:"summary"`
	RecommendedChart     Chart                     `json:"recommended_chart"`
	Anomalies            string                    `json:"anomalies"`
	AnomalyCount         int                       `json:"anomaly_count"`
	AnomalyFlags         []int                     `json:"anomaly_flags"`
	RawNumericRows       []map[string]any          `json:"raw_numeric_rows"`
	RawCategoricalRows   []map[string]any          `json:"raw_categorical_rows"`
	CategoryDistribution map[string]map[string]int `json:"category_distribution"`
	Trend                string                    `json:"trend"`
	TimeSeries           TrendResult               `json:"time_series"`
	Insights             []string                  `json:"ai_insights"`

	schema Schema
}

// Analyze runs every stage over t. It does not fail: stages that cannot produce a result
// fall back to their empty form.
func Analyze(t *table.Table, opt Options) *Report {
	opt = opt.withDefaults()
	s := Classify(t, opt)
	summary := Summarize(t, s)
	anomalies := DetectAnomalies(t, s, opt)
	trend := DetectTrend(t, s)

	ts := TrendResult{}
	if dates, nums := s.Dates(), s.Numeric(); len(dates) > 0 && len(nums) > 0 {
		ts = TimeSeriesTrend(t, dates[0], nums[0], opt)
	}

	return &Report{
		Filename:             t.Name,
		Columns:              t.Names(),
		Rows:                 t.Rows(),
		Summary:              summary,
		RecommendedChart:     RecommendChart(s),
		Anomalies:            fmt.Sprintf("%d anomalies detected", anomalies.Count),
		AnomalyCount:         anomalies.Count,
		AnomalyFlags:         anomalies.Flags,
		RawNumericRows:       projectRows(t, s.Numeric(), numericCell),
		RawCategoricalRows:   projectRows(t, s.Categorical(), textCell),
		CategoryDistribution: distribution(t, s.Categorical()),
		Trend:                trend,
		TimeSeries:           ts,
		Insights:             GenerateInsights(s, summary, trend, anomalies),
		schema:               s,
	}
}

// Run parses raw as filename and analyzes it. The result is either the sanitized report
// or a single "error" key holding a message for the caller.
func Run(filename string, raw []byte, opt Options) (out map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			out = ErrorPayload(fmt.Errorf("%v", r))
		}
	}()
	t, err := parser.ParseBytes(filename, raw)
	if err != nil {
		return ErrorPayload(err)
	}
	rep := Analyze(t, opt)
	rep.Filename = filename
	m, ok := Sanitize(rep).(map[string]any)
	if !ok {
		return ErrorPayload(errors.New("report is not encodable"))
	}
	return m
}

// ErrorPayload is the response body for a failed analysis.
func ErrorPayload(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

func numericCell(c *table.Column, i int) any {
	v, ok := cellNumber(c, i)
	if !ok {
		return nil
	}
	return v
}

func textCell(c *table.Column, i int) any {
	if c.Missing(i) {
		return nil
	}
	return c.Text(i)
}

func projectRows(t *table.Table, names []string, cell func(*table.Column, int) any) []map[string]any {
	out := make([]map[string]any, t.Rows())
	cols := make([]*table.Column, len(names))
	for k, name := range names {
		cols[k], _ = t.Column(name)
	}
	for i := range out {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			rec[c.Name] = cell(c, i)
		}
		out[i] = rec
	}
	return out
}

func distribution(t *table.Table, names []string) map[string]map[string]int {
	out := make(map[string]map[string]int, len(names))
	for _, name := range names {
		c, _ := t.Column(name)
		counts := make(map[string]int)
		for _, kv := range valueCounts(c) {
			counts[kv.Value] = kv.Count
		}
		out[name] = counts
	}
	return out
}
