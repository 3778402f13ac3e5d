package analysis

import (
	"strings"

	"github.com/KaramelBytes/datalens/internal/table"
)

// ColumnType is the inferred role of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeTemporal    ColumnType = "temporal"
)

// Classification is the inferred type of one column. Date is set for temporal storage and
// for text columns whose values look like dates; a date text column is still categorical.
type Classification struct {
	Name  string
	Index int
	Type  ColumnType
	Date  bool
}

// Schema is the per-column classification of a table, in column order.
type Schema struct {
	Columns []Classification
}

// Classify computes the classification of every column once. Numeric and categorical
// roles come from storage; only text columns are sampled for dates.
func Classify(t *table.Table, opt Options) Schema {
	opt = opt.withDefaults()
	s := Schema{Columns: make([]Classification, len(t.Columns))}
	for i, c := range t.Columns {
		cl := Classification{Name: c.Name, Index: i}
		switch c.Kind {
		case table.KindNumber:
			cl.Type = TypeNumeric
		case table.KindTimestamp:
			cl.Type = TypeTemporal
			cl.Date = true
		default:
			cl.Type = TypeCategorical
			cl.Date = looksLikeDates(c, opt)
		}
		s.Columns[i] = cl
	}
	return s
}

// DetectDateColumns returns the names of date-like columns in order.
func DetectDateColumns(t *table.Table, opt Options) []string {
	return Classify(t, opt).Dates()
}

func looksLikeDates(c *table.Column, opt Options) bool {
	limit := opt.DateSampleSize
	sample, success := 0, 0
	for i := 0; i < c.Len() && sample < limit; i++ {
		if c.Missing(i) {
			continue
		}
		sample++
		v := c.Text(i)
		if !strings.ContainsAny(v, "-/:") {
			continue
		}
		if _, ok := table.ParseTime(v); ok {
			success++
		}
	}
	if sample == 0 {
		return false
	}
	return float64(success)/float64(sample) >= opt.DateThreshold
}

func (s Schema) filter(keep func(Classification) bool) []string {
	var out []string
	for _, c := range s.Columns {
		if keep(c) {
			out = append(out, c.Name)
		}
	}
	return out
}

// Numeric returns numeric column names in order.
func (s Schema) Numeric() []string {
	return s.filter(func(c Classification) bool { return c.Type == TypeNumeric })
}

// Categorical returns categorical column names in order.
func (s Schema) Categorical() []string {
	return s.filter(func(c Classification) bool { return c.Type == TypeCategorical })
}

// Dates returns date-like column names in order.
func (s Schema) Dates() []string {
	return s.filter(func(c Classification) bool { return c.Date })
}
