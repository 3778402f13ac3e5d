package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/KaramelBytes/datalens/internal/table"
)

var (
	errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")
	errNoColumns   = errors.New("no columns to parse from file")
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

// Parse reads comma-separated text with a header row. Content that is not valid UTF-8
// is decoded again with invalid bytes replaced by U+FFFD.
func (csvParser) Parse(name string, content []byte) (*table.Table, error) {
	t, err := readCSV(name, content)
	if err == nil {
		return t, nil
	}
	decoded, _, derr := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if derr != nil {
		return nil, &ParseError{Format: ".csv", Err: err}
	}
	t, err = readCSV(name, decoded)
	if err != nil {
		return nil, &ParseError{Format: ".csv", Err: err}
	}
	return t, nil
}

func readCSV(name string, content []byte) (*table.Table, error) {
	if !utf8.Valid(content) {
		return nil, errInvalidUTF8
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}
		records = append(records, rec)
	}
	return table.Build(name, header, records)
}
