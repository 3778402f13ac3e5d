package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/KaramelBytes/datalens/internal/table"
)

type xlsParser struct{}

func (xlsParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

// Parse loads the first sheet of a legacy BIFF workbook. Row 0 is the header.
func (xlsParser) Parse(name string, content []byte) (t *table.Table, err error) {
	// the BIFF reader panics on some malformed records
	defer func() {
		if r := recover(); r != nil {
			t = nil
			err = &ParseError{Format: ".xls", Err: fmt.Errorf("malformed workbook: %v", r)}
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, &ParseError{Format: ".xls", Err: err}
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &ParseError{Format: ".xls", Err: fmt.Errorf("workbook has no sheets")}
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	rows = trimBlankTail(rows)
	if len(rows) == 0 {
		return nil, &ParseError{Format: ".xls", Err: errNoColumns}
	}
	t, err = table.Build(name, rows[0], rows[1:])
	if err != nil {
		return nil, &ParseError{Format: ".xls", Err: err}
	}
	return t, nil
}

func trimBlankTail(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		blank := true
		for _, v := range last {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
