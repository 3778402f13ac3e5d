package analysis

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/datalens/internal/table"
)

// buildTable builds a table from a header line and comma separated rows.
func buildTable(t *testing.T, header string, rows ...string) *table.Table {
	t.Helper()
	recs := make([][]string, len(rows))
	for i, r := range rows {
		recs[i] = strings.Split(r, ",")
	}
	tb, err := table.Build("test.csv", strings.Split(header, ","), recs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tb
}

func TestClassify(t *testing.T) {
	tb := buildTable(t, "date,region,sales,mostly",
		"2024-01-01,north,10,2024-01-01",
		"2024-01-02,south,12,2024/01/02",
		"2024-01-03,north,,01/03/2024",
		"2024-01-04,east,15,2024-01-04 10:00",
		"2024-01-05,north,NA,soon",
	)
	s := Classify(tb, DefaultOptions())
	want := map[string]struct {
		typ  ColumnType
		date bool
	}{
		"date":   {TypeCategorical, true},
		"region": {TypeCategorical, false},
		"sales":  {TypeNumeric, false},
		"mostly": {TypeCategorical, true},
	}
	for _, c := range s.Columns {
		w := want[c.Name]
		if c.Type != w.typ || c.Date != w.date {
			t.Fatalf("%s: got %s/%v want %s/%v", c.Name, c.Type, c.Date, w.typ, w.date)
		}
	}
	if got := s.Numeric(); len(got) != 1 || got[0] != "sales" {
		t.Fatalf("numeric: %v", got)
	}
	if got := DetectDateColumns(tb, DefaultOptions()); len(got) != 2 || got[0] != "date" || got[1] != "mostly" {
		t.Fatalf("dates: %v", got)
	}
}

func TestClassifyRejectsBelowThreshold(t *testing.T) {
	tb := buildTable(t, "when",
		"2024-01-01",
		"2024-01-02",
		"later",
		"never",
		"2024-01-05",
	)
	if got := DetectDateColumns(tb, DefaultOptions()); len(got) != 0 {
		t.Fatalf("expected no date columns, got %v", got)
	}
}

func TestClassifySamplesOnlyLeadingValues(t *testing.T) {
	tb := buildTable(t, "when",
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"x", "y", "z",
	)
	if got := DetectDateColumns(tb, DefaultOptions()); len(got) != 1 {
		t.Fatalf("expected date column from first five values, got %v", got)
	}
}

func TestClassifyNumericIsNeverDate(t *testing.T) {
	tb := buildTable(t, "year", "2020", "2021", "2022")
	s := Classify(tb, DefaultOptions())
	if s.Columns[0].Type != TypeNumeric || s.Columns[0].Date {
		t.Fatalf("unexpected classification: %+v", s.Columns[0])
	}
}

func TestRecommendChart(t *testing.T) {
	col := func(typ ColumnType, date bool) Classification {
		return Classification{Name: string(typ), Type: typ, Date: date}
	}
	num := col(TypeNumeric, false)
	cat := col(TypeCategorical, false)
	date := col(TypeCategorical, true)
	cases := []struct {
		name string
		cols []Classification
		want Chart
	}{
		{"date and numeric", []Classification{date, num}, LineChart},
		{"category and one numeric", []Classification{cat, num}, PieChart},
		{"two numeric", []Classification{num, num}, ScatterPlot},
		{"category and two numeric", []Classification{cat, num, num}, ScatterPlot},
		{"one numeric", []Classification{num}, Histogram},
		{"date only", []Classification{date}, PieChart},
		{"nothing", nil, PieChart},
	}
	for _, tc := range cases {
		if got := RecommendChart(Schema{Columns: tc.cols}); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
