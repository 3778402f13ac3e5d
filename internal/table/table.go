package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared storage type of a column after loading.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// Column holds one named column. Cells always carries the raw text ("" when missing);
// Nums and Times are populated for number and timestamp storage respectively.
type Column struct {
	Name  string
	Kind  Kind
	Cells []string
	Nums  []float64   // NaN marks a missing value
	Times []time.Time // zero marks a missing value
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Cells) }

// Missing reports whether cell i holds no value.
func (c *Column) Missing(i int) bool {
	switch c.Kind {
	case KindNumber:
		return math.IsNaN(c.Nums[i])
	case KindTimestamp:
		return c.Times[i].IsZero()
	default:
		return c.Cells[i] == ""
	}
}

// Text renders cell i as text. Timestamps are rendered as RFC 3339.
func (c *Column) Text(i int) string {
	if c.Kind == KindTimestamp && !c.Times[i].IsZero() {
		return c.Times[i].Format(time.RFC3339)
	}
	return c.Cells[i]
}

// Present returns the indices of non-missing cells in row order.
func (c *Column) Present() []int {
	out := make([]int, 0, len(c.Cells))
	for i := range c.Cells {
		if !c.Missing(i) {
			out = append(out, i)
		}
	}
	return out
}

// Table is an ordered set of equally long columns loaded from one file.
// It is not modified once a loader returns it.
type Table struct {
	Name    string
	Columns []*Column
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// naTokens are cell values read as missing, in addition to blank cells.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsMissingToken reports whether a raw cell value denotes a missing value.
func IsMissingToken(s string) bool {
	v := strings.TrimSpace(s)
	if v == "" {
		return true
	}
	_, ok := naTokens[v]
	return ok
}

// ParseNumber parses a cell as a float. Missing cells and non-numeric text report false.
func ParseNumber(s string) (float64, bool) {
	if IsMissingToken(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Build assembles a Table from a header and data records. Short records are padded with
// missing cells; records longer than the header grow the header with unnamed columns.
// Storage kinds are inferred per column: a column is numeric when every non-missing
// cell parses as a number, text otherwise.
func Build(name string, header []string, records [][]string) (*Table, error) {
	width := len(header)
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}
	names := make([]string, width)
	copy(names, header)
	names = dedupeHeader(names)

	t := &Table{Name: name, Columns: make([]*Column, width)}
	for j := 0; j < width; j++ {
		cells := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) && !IsMissingToken(rec[j]) {
				cells[i] = rec[j]
			}
		}
		t.Columns[j] = newColumn(names[j], cells)
	}
	return t, nil
}

func newColumn(name string, cells []string) *Column {
	c := &Column{Name: name, Kind: KindText, Cells: cells}
	nums := make([]float64, len(cells))
	for i, v := range cells {
		if v == "" {
			nums[i] = math.NaN()
			continue
		}
		f, ok := ParseNumber(v)
		if !ok {
			return c
		}
		nums[i] = f
	}
	c.Kind = KindNumber
	c.Nums = nums
	return c
}

// SetTimestamps converts the column to timestamp storage. times must align with Cells.
func (c *Column) SetTimestamps(times []time.Time) {
	c.Kind = KindTimestamp
	c.Nums = nil
	c.Times = times
}

// SetText converts the column to text storage. Cells keep their raw text.
func (c *Column) SetText() {
	c.Kind = KindText
	c.Nums = nil
	c.Times = nil
}

// dedupeHeader names blank headers "Unnamed: <i>" and suffixes repeats with ".1", ".2", ...
func dedupeHeader(in []string) []string {
	out := make([]string, len(in))
	seen := make(map[string]int, len(in))
	for i, h := range in {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		base := h
		for {
			if _, dup := seen[h]; !dup {
				break
			}
			seen[base]++
			h = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}
