package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact human-readable report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Filename != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Filename))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	b.WriteString(fmt.Sprintf("Recommended chart: %s\n\n", r.RecommendedChart))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.schema.Columns {
		kind := string(c.Type)
		if c.Date && c.Type != TypeTemporal {
			kind += ", date"
		}
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), kind))
		switch s := r.Summary[c.Name].(type) {
		case NumericSummary:
			b.WriteString(fmt.Sprintf(" (count %d)", s.Count))
			if s.Mean != nil {
				b.WriteString(fmt.Sprintf(" min %.4g, max %.4g, mean %.4g", *s.Min, *s.Max, *s.Mean))
			}
			if s.Std != nil {
				b.WriteString(fmt.Sprintf(", std %.4g", *s.Std))
			}
		case CategoricalSummary:
			b.WriteString(fmt.Sprintf(" (count %d, unique %d)", s.Count, s.Unique))
			if s.Top != nil {
				b.WriteString(fmt.Sprintf(" top: %s(%d)", safeVal(*s.Top), *s.Freq))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[TRENDS]\n")
	b.WriteString(fmt.Sprintf("- %s\n", r.Trend))
	if ts := r.TimeSeries; ts.Enabled {
		b.WriteString(fmt.Sprintf("- %s by %s: %s, slope %.2f, next %v\n",
			ts.ValueColumn, ts.DateColumn, ts.Trend, *ts.Slope, ts.FutureValues))
	}

	b.WriteString("\n[ANOMALIES]\n")
	b.WriteString(fmt.Sprintf("- %s\n", r.Anomalies))

	if len(r.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, s := range r.Insights {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
