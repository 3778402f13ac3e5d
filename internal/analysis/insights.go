package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateInsights renders the analysis as short English sentences: categorical modes,
// numeric ranges, the generic trend and the anomaly rows, in that order.
func GenerateInsights(s Schema, summary map[string]ColumnSummary, trend string, anomalies AnomalyResult) []string {
	var out []string
	for _, name := range s.Categorical() {
		cs, ok := summary[name].(CategoricalSummary)
		if !ok || cs.Top == nil || cs.Freq == nil {
			continue
		}
		out = append(out, fmt.Sprintf("In '%s', the most frequent category is '%s' appearing %d times.", name, *cs.Top, *cs.Freq))
	}
	for _, name := range s.Numeric() {
		ns, ok := summary[name].(NumericSummary)
		if !ok || ns.Count == 0 || ns.Mean == nil {
			continue
		}
		out = append(out, fmt.Sprintf("For numeric column '%s', values range from %.2f to %.2f with an average of %.2f.", name, *ns.Min, *ns.Max, *ns.Mean))
	}
	out = append(out, fmt.Sprintf("Trend Analysis: %s.", trend))

	rows := anomalies.Rows()
	if len(rows) == 0 {
		out = append(out, "No anomalies were detected in this dataset.")
		return out
	}
	out = append(out, fmt.Sprintf("Anomaly Detection: Found %d anomaly points at rows %s.", len(rows), formatRows(rows)))
	return out
}

func formatRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
