package parser_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datalens/internal/parser"
	"github.com/KaramelBytes/datalens/internal/table"
)

func TestParseBytesErrors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content []byte
		want    error
	}{
		{"empty upload", "data.csv", nil, parser.ErrEmptyInput},
		{"empty upload wins over extension", "notes.txt", []byte{}, parser.ErrEmptyInput},
		{"unsupported extension", "notes.txt", []byte("a,b\n1,2\n"), parser.ErrUnsupportedFormat},
		{"header only", "data.csv", []byte("a,b\n"), parser.ErrEmptyTable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseBytes(tc.file, tc.content)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseBytesMessages(t *testing.T) {
	_, err := parser.ParseBytes("x.txt", []byte("x"))
	if err == nil || err.Error() != "Unsupported file format" {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = parser.ParseBytes("x.csv", nil)
	if err == nil || err.Error() != "Empty file uploaded" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCSV(t *testing.T) {
	content := "date,region,sales\n" +
		"2024-01-01,North,10\n" +
		"2024-01-02,South,NA\n" +
		"\n" +
		"2024-01-03,,12.5\n"
	tb, err := parser.ParseBytes("Sales.CSV", []byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tb.Name != "Sales.CSV" {
		t.Fatalf("name = %q", tb.Name)
	}
	if tb.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", tb.Rows())
	}
	sales, ok := tb.Column("sales")
	if !ok || sales.Kind != table.KindNumber {
		t.Fatalf("sales column = %#v", sales)
	}
	region, _ := tb.Column("region")
	if region.Kind != table.KindText || !region.Missing(2) {
		t.Fatalf("region column = %#v", region)
	}
}

func TestParseCSVRejectsWideRows(t *testing.T) {
	_, err := parser.ParseBytes("bad.csv", []byte("a,b\n1,2,3\n"))
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Format != ".csv" {
		t.Fatalf("format = %q", pe.Format)
	}
}

func TestParseCSVFallsBackOnInvalidUTF8(t *testing.T) {
	content := []byte("name,score\ncaf\xe9,1\nbar,2\n")
	tb, err := parser.ParseBytes("latin.csv", content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	name, _ := tb.Column("name")
	if got := name.Cells[0]; got != "caf\uFFFD" {
		t.Fatalf("decoded cell = %q", got)
	}
}

func TestParseCSVStripsBOM(t *testing.T) {
	tb, err := parser.ParseBytes("bom.csv", []byte("\xEF\xBB\xBFid,v\n1,2\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := tb.Column("id"); !ok {
		t.Fatalf("BOM not stripped from header: %#v", tb.Names())
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"product", "units"},
		{"apple", 3},
		{"pear", 5},
		{"apple", 7},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	tb, err := parser.ParseBytes("stock.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tb.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", tb.Rows())
	}
	units, _ := tb.Column("units")
	if units.Kind != table.KindNumber || units.Nums[2] != 7 {
		t.Fatalf("units = %#v", units)
	}
	product, _ := tb.Column("product")
	if product.Kind != table.KindText || product.Cells[1] != "pear" {
		t.Fatalf("product = %#v", product)
	}
}

func TestParseXLSXDateColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.SetCellValue("Sheet1", "A1", "day"))
	must(f.SetCellValue("Sheet1", "B1", "amount"))
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		must(f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+2), start.AddDate(0, 0, i)))
		must(f.SetCellValue("Sheet1", fmt.Sprintf("B%d", i+2), 1234.5*float64(i+1)))
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	must(err)
	must(f.SetCellStyle("Sheet1", "B2", "B4", style))
	buf, err := f.WriteToBuffer()
	must(err)

	tb, err := parser.ParseBytes("daily.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	day, _ := tb.Column("day")
	if day.Kind != table.KindTimestamp || !day.Times[2].Equal(start.AddDate(0, 0, 2)) {
		t.Fatalf("day = %#v", day)
	}
	if got := day.Text(0); got != "2024-01-15T00:00:00Z" {
		t.Fatalf("day text = %q", got)
	}
	amount, _ := tb.Column("amount")
	if amount.Kind != table.KindNumber || amount.Nums[1] != 2469 {
		t.Fatalf("formatted numbers must stay numeric: %#v", amount)
	}
}

func TestParseXLSXKeepsStringCellsAsText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.SetCellValue("Sheet1", "A1", "code"))
	must(f.SetCellValue("Sheet1", "B1", "qty"))
	must(f.SetCellValue("Sheet1", "A2", "007"))
	must(f.SetCellValue("Sheet1", "A3", "042"))
	must(f.SetCellValue("Sheet1", "B2", 7))
	must(f.SetCellValue("Sheet1", "B3", 42))
	buf, err := f.WriteToBuffer()
	must(err)

	tb, err := parser.ParseBytes("codes.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	code, _ := tb.Column("code")
	if code.Kind != table.KindText || code.Text(0) != "007" || code.Text(1) != "042" {
		t.Fatalf("string cells must stay text: %#v", code)
	}
	qty, _ := tb.Column("qty")
	if qty.Kind != table.KindNumber || qty.Nums[1] != 42 {
		t.Fatalf("qty = %#v", qty)
	}
}

func TestParseXLSXTimeOfDayColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.SetCellValue("Sheet1", "A1", "opens"))
	must(f.SetCellValue("Sheet1", "A2", 0.5))
	must(f.SetCellValue("Sheet1", "A3", 0.75))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 20}) // h:mm
	must(err)
	must(f.SetCellStyle("Sheet1", "A2", "A3", style))
	buf, err := f.WriteToBuffer()
	must(err)

	tb, err := parser.ParseBytes("hours.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opens, _ := tb.Column("opens")
	if opens.Kind != table.KindText {
		t.Fatalf("time-of-day column should be text, got %s", opens.Kind)
	}
	if opens.Text(0) != "12:00" || opens.Text(1) != "18:00" {
		t.Fatalf("opens cells = %q", opens.Cells)
	}
}

func TestParseXLSGarbage(t *testing.T) {
	_, err := parser.ParseBytes("legacy.xls", []byte("definitely not a BIFF workbook"))
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Format != ".xls" {
		t.Fatalf("format = %q", pe.Format)
	}
}

func TestParseXLSXGarbage(t *testing.T) {
	_, err := parser.ParseBytes("broken.xlsx", []byte("definitely not a zip"))
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "harvest.csv")
	if err := os.WriteFile(p, []byte("plot,yield\nA1,3\nB2,4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(tb.Names(), ",") != "plot,yield" {
		t.Fatalf("names = %v", tb.Names())
	}
}
