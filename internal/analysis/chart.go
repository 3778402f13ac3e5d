package analysis

// Chart is a recommended visualization.
type Chart string

const (
	LineChart   Chart = "Line Chart"
	PieChart    Chart = "Pie Chart"
	ScatterPlot Chart = "Scatter Plot"
	Histogram   Chart = "Histogram"
)

// RecommendChart picks a chart from the column-type composition. Rules are checked in
// order and the first match wins.
func RecommendChart(s Schema) Chart {
	numeric := len(s.Numeric())
	categorical := len(s.Categorical())
	dates := len(s.Dates())
	switch {
	case dates >= 1 && numeric >= 1:
		return LineChart
	case categorical >= 1 && numeric <= 1:
		return PieChart
	case numeric >= 2:
		return ScatterPlot
	case numeric == 1:
		return Histogram
	default:
		return PieChart
	}
}
