package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datalens/internal/table"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse loads the first worksheet. Row 1 is the header. Cell values are read unformatted
// so numbers keep full precision; numeric columns styled as dates become timestamps.
func (xlsxParser) Parse(name string, content []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &ParseError{Format: ".xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: ".xlsx", Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Format: ".xlsx", Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Format: ".xlsx", Err: errNoColumns}
	}
	t, err := table.Build(name, rows[0], rows[1:])
	if err != nil {
		return nil, &ParseError{Format: ".xlsx", Err: err}
	}
	markTextColumns(f, sheet, t)
	markDateColumns(f, sheet, t)
	return t, nil
}

// markTextColumns keeps numeric-looking columns as text when any value is stored as a
// string cell, so "007" stays "007".
func markTextColumns(f *excelize.File, sheet string, t *table.Table) {
	for j, c := range t.Columns {
		if c.Kind != table.KindNumber {
			continue
		}
		for i := range c.Cells {
			if c.Missing(i) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				continue
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				continue
			}
			if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
				c.SetText()
				break
			}
		}
	}
}

type cellFormat int

const (
	formatOther cellFormat = iota
	formatDate
	formatTime
)

// markDateColumns switches numeric columns to timestamp storage when every value is a
// serial number in a date-formatted cell. Columns formatted as time of day only become
// text holding the displayed value, such as "12:30".
func markDateColumns(f *excelize.File, sheet string, t *table.Table) {
cols:
	for j, c := range t.Columns {
		if c.Kind != table.KindNumber {
			continue
		}
		times := make([]time.Time, c.Len())
		shown := make([]string, c.Len())
		dates, clocks := 0, 0
		for i, v := range c.Nums {
			if c.Missing(i) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				continue cols
			}
			switch formatOf(f, sheet, cell) {
			case formatDate:
				ts, err := excelize.ExcelDateToTime(v, false)
				if err != nil {
					continue cols
				}
				times[i] = ts
				dates++
			case formatTime:
				text, err := f.GetCellValue(sheet, cell)
				if err != nil {
					continue cols
				}
				shown[i] = text
				clocks++
			default:
				continue cols
			}
		}
		switch {
		case dates > 0 && clocks == 0:
			c.SetTimestamps(times)
		case clocks > 0 && dates == 0:
			copy(c.Cells, shown)
			c.SetText()
		}
	}
}

func formatOf(f *excelize.File, sheet, cell string) cellFormat {
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return formatOther
	}
	style, err := f.GetStyle(id)
	if err != nil || style == nil {
		return formatOther
	}
	if style.CustomNumFmt != nil {
		return customFormat(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 17, n == 22:
		return formatDate
	case n >= 18 && n <= 21, n >= 45 && n <= 47:
		return formatTime
	}
	return formatOther
}

// customFormat classifies a custom number format code. Quoted literals and bracketed
// sections such as colors are ignored, except elapsed-time sections like [h].
func customFormat(code string) cellFormat {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
			if r == 'h' || r == 'm' || r == 's' {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	body := b.String()
	switch {
	case strings.ContainsAny(body, "yd"):
		return formatDate
	case strings.ContainsAny(body, "hs"):
		return formatTime
	}
	return formatOther
}
