package analysis

import (
	"math/rand"

	"github.com/KaramelBytes/datalens/internal/table"
)

// AnomalyResult flags outlier rows. Flags is aligned with table rows and holds 0 or 1;
// it is empty only when the table has no numeric columns.
type AnomalyResult struct {
	Count int   `json:"count"`
	Flags []int `json:"flags"`
}

// Rows returns the 1-based row numbers of flagged rows.
func (a AnomalyResult) Rows() []int {
	var out []int
	for i, f := range a.Flags {
		if f == 1 {
			out = append(out, i+1)
		}
	}
	return out
}

// DetectAnomalies runs an isolation forest over all numeric columns jointly. Rows with a
// missing numeric value are not scored and stay unflagged.
func DetectAnomalies(t *table.Table, s Schema, opt Options) AnomalyResult {
	opt = opt.withDefaults()
	names := s.Numeric()
	if len(names) == 0 {
		return AnomalyResult{Flags: []int{}}
	}
	n := t.Rows()
	none := AnomalyResult{Flags: make([]int, n)}

	cols := make([]*table.Column, len(names))
	for k, name := range names {
		cols[k], _ = t.Column(name)
	}
	var x [][]float64
	var origin []int
rows:
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for k, c := range cols {
			v, ok := cellNumber(c, i)
			if !ok {
				continue rows
			}
			if !finite(v) {
				return none
			}
			row[k] = v
		}
		x = append(x, row)
		origin = append(origin, i)
	}
	if len(x) < 3 {
		return none
	}

	forest := fitIsolationForest(x, opt.Trees, opt.MaxSamples, rand.New(rand.NewSource(opt.Seed)))
	scores := forest.scores(x)
	neg := make([]float64, len(scores))
	for i, sc := range scores {
		if !finite(sc) {
			return none
		}
		neg[i] = -sc
	}
	offset := quantile(sortedCopy(neg), opt.Contamination)

	res := AnomalyResult{Flags: make([]int, n)}
	for k, v := range neg {
		if v < offset {
			res.Flags[origin[k]] = 1
			res.Count++
		}
	}
	return res
}
