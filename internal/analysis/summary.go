package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/datalens/internal/table"
)

// ColumnSummary is a NumericSummary or a CategoricalSummary.
type ColumnSummary interface {
	summaryType() ColumnType
}

// NumericSummary holds descriptive statistics. Stats are nil when the column has no values.
type NumericSummary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Std   *float64 `json:"std"` // sample standard deviation; nil below two values
}

func (NumericSummary) summaryType() ColumnType { return TypeNumeric }

// CategoricalSummary holds the value profile of a text column. Top and Freq are nil
// when the column has no values.
type CategoricalSummary struct {
	Count  int     `json:"count"`
	Unique int     `json:"unique"`
	Top    *string `json:"top"`
	Freq   *int    `json:"freq"`
}

func (CategoricalSummary) summaryType() ColumnType { return TypeCategorical }

// CategoryCount is one distinct value and how often it occurs.
type CategoryCount struct {
	Value string
	Count int
}

// Summarize produces one summary per column, keyed by column name.
func Summarize(t *table.Table, s Schema) map[string]ColumnSummary {
	out := make(map[string]ColumnSummary, len(s.Columns))
	for _, cl := range s.Columns {
		c := t.Columns[cl.Index]
		if cl.Type == TypeNumeric {
			out[cl.Name] = summarizeNumeric(numericValues(c))
			continue
		}
		out[cl.Name] = summarizeCategorical(c)
	}
	return out
}

func summarizeNumeric(vals []float64) NumericSummary {
	sum := NumericSummary{Count: len(vals)}
	if len(vals) == 0 {
		return sum
	}
	mean, std := stat.MeanStdDev(vals, nil)
	lo, hi := floats.Min(vals), floats.Max(vals)
	sum.Mean, sum.Min, sum.Max = &mean, &lo, &hi
	if len(vals) > 1 {
		sum.Std = &std
	}
	return sum
}

func summarizeCategorical(c *table.Column) CategoricalSummary {
	counts := valueCounts(c)
	sum := CategoricalSummary{Unique: len(counts)}
	for _, kv := range counts {
		sum.Count += kv.Count
	}
	if len(counts) > 0 {
		top, freq := counts[0].Value, counts[0].Count
		sum.Top, sum.Freq = &top, &freq
	}
	return sum
}

// numericValues returns the non-missing values of a column coerced to numbers.
// Cells that do not parse are dropped.
func numericValues(c *table.Column) []float64 {
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.Kind == table.KindNumber {
			if v := c.Nums[i]; !math.IsNaN(v) {
				out = append(out, v)
			}
			continue
		}
		if v, ok := table.ParseNumber(c.Text(i)); ok {
			out = append(out, v)
		}
	}
	return out
}

// valueCounts counts non-missing values, most frequent first; ties sort by value.
func valueCounts(c *table.Column) []CategoryCount {
	cats := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.Missing(i) {
			continue
		}
		cats[c.Text(i)]++
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	return tops
}
