package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const salesCSV = `date,sales
2024-01-01,100
2024-01-02,110
2024-01-03,120
2024-01-04,130
2024-01-05,140
2024-01-06,150
2024-01-07,160
2024-01-08,170
2024-01-09,180
2024-01-10,190
`

func TestRunSalesSeries(t *testing.T) {
	out := Run("sales.csv", []byte(salesCSV), DefaultOptions())
	if msg, ok := out["error"]; ok {
		t.Fatalf("unexpected error: %v", msg)
	}
	if out["filename"] != "sales.csv" || out["rows"] != int64(10) {
		t.Fatalf("filename/rows: %v %v", out["filename"], out["rows"])
	}
	if !reflect.DeepEqual(out["columns"], []any{"date", "sales"}) {
		t.Fatalf("columns: %v", out["columns"])
	}
	if out["recommended_chart"] != "Line Chart" {
		t.Fatalf("chart: %v", out["recommended_chart"])
	}
	ts := out["time_series"].(map[string]any)
	if ts["enabled"] != true || ts["trend"] != "Upward" || ts["date_column"] != "date" || ts["value_column"] != "sales" {
		t.Fatalf("time series: %v", ts)
	}
	if !reflect.DeepEqual(ts["future_values"], []any{200.0, 210.0, 220.0}) || ts["slope"] != 10.0 {
		t.Fatalf("forecast: %v slope %v", ts["future_values"], ts["slope"])
	}
	if out["trend"] != "Upward trend in sales" {
		t.Fatalf("generic trend: %v", out["trend"])
	}
	flags := out["anomaly_flags"].([]any)
	if len(flags) != 10 {
		t.Fatalf("flags: %v", flags)
	}
	if !strings.HasSuffix(out["anomalies"].(string), " anomalies detected") {
		t.Fatalf("anomalies text: %v", out["anomalies"])
	}
	cat := out["raw_categorical_rows"].([]any)
	if len(cat) != 10 || cat[0].(map[string]any)["date"] != "2024-01-01" {
		t.Fatalf("categorical rows: %v", cat)
	}
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestRunSingleCategoricalColumn(t *testing.T) {
	csv := "grade\n" + strings.Repeat("A\n", 8) + strings.Repeat("B\n", 2)
	out := Run("grades.csv", []byte(csv), DefaultOptions())
	if msg, ok := out["error"]; ok {
		t.Fatalf("unexpected error: %v", msg)
	}
	if out["recommended_chart"] != "Pie Chart" {
		t.Fatalf("chart: %v", out["recommended_chart"])
	}
	grade := out["summary"].(map[string]any)["grade"].(map[string]any)
	if grade["top"] != "A" || grade["freq"] != int64(8) || grade["unique"] != int64(2) {
		t.Fatalf("grade summary: %v", grade)
	}
	if out["trend"] != "No numeric data" {
		t.Fatalf("trend: %v", out["trend"])
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		raw      string
		want     string
	}{
		{"empty", "data.csv", "", "Empty file uploaded"},
		{"empty unsupported", "notes.txt", "", "Empty file uploaded"},
		{"unsupported", "notes.txt", "a,b\n1,2\n", "Unsupported file format"},
		{"header only", "data.csv", "a,b\n", "File contains no rows"},
	}
	for _, tc := range cases {
		out := Run(tc.filename, []byte(tc.raw), DefaultOptions())
		if !reflect.DeepEqual(out, map[string]any{"error": tc.want}) {
			t.Fatalf("%s: got %v", tc.name, out)
		}
	}
}

func TestRunMalformedWorkbook(t *testing.T) {
	out := Run("book.xlsx", []byte("not a zip"), DefaultOptions())
	msg, ok := out["error"].(string)
	if !ok || msg == "" || len(out) != 1 {
		t.Fatalf("expected error payload, got %v", out)
	}
}

func TestAnalyzeProjections(t *testing.T) {
	tb := buildTable(t, "region,units,price",
		"north,3,1.5",
		"south,,2.5",
		",4,NA",
		"north,5,3.0",
	)
	rep := Analyze(tb, DefaultOptions())
	if rep.RecommendedChart != ScatterPlot {
		t.Fatalf("chart: %s", rep.RecommendedChart)
	}
	if len(rep.RawNumericRows) != 4 || rep.RawNumericRows[1]["units"] != nil || rep.RawNumericRows[0]["price"] != 1.5 {
		t.Fatalf("numeric rows: %v", rep.RawNumericRows)
	}
	if rep.RawCategoricalRows[2]["region"] != nil || rep.RawCategoricalRows[1]["region"] != "south" {
		t.Fatalf("categorical rows: %v", rep.RawCategoricalRows)
	}
	want := map[string]map[string]int{"region": {"north": 2, "south": 1}}
	if !reflect.DeepEqual(rep.CategoryDistribution, want) {
		t.Fatalf("distribution: %v", rep.CategoryDistribution)
	}
	if rep.TimeSeries.Enabled {
		t.Fatalf("no date column, time series should be disabled")
	}
	if !reflect.DeepEqual(rep.AnomalyFlags, []int{0, 0, 0, 0}) {
		t.Fatalf("only two complete rows, flags: %v", rep.AnomalyFlags)
	}

	md := rep.Markdown()
	for _, s := range []string{"[DATASET SUMMARY]", "File: test.csv", "Rows: 4", "- region: categorical", "- units: numeric", "[INSIGHTS]"} {
		if !strings.Contains(md, s) {
			t.Fatalf("markdown missing %q:\n%s", s, md)
		}
	}
}

func TestGenerateInsights(t *testing.T) {
	tb := buildTable(t, "kind,value,empty",
		"a,1,",
		"b,2,",
		"a,3.5,",
	)
	s := Classify(tb, DefaultOptions())
	sum := Summarize(tb, s)
	got := GenerateInsights(s, sum, DetectTrend(tb, s), AnomalyResult{Count: 2, Flags: []int{1, 0, 1}})
	want := []string{
		"In 'kind', the most frequent category is 'a' appearing 2 times.",
		"For numeric column 'value', values range from 1.00 to 3.50 with an average of 2.17.",
		"Trend Analysis: Upward trend in value.",
		"Anomaly Detection: Found 2 anomaly points at rows [1, 3].",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}

	got = GenerateInsights(Schema{}, nil, "No numeric data", AnomalyResult{Flags: []int{}})
	want = []string{"Trend Analysis: No numeric data.", "No anomalies were detected in this dataset."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}
