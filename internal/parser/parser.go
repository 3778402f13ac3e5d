package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/datalens/internal/table"
)

// Parser turns the bytes of one uploaded file into a Table.
type Parser interface {
	CanParse(filename string) bool
	Parse(name string, content []byte) (*table.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseBytes selects a parser based on the filename extension and loads a Table.
// The filename is used only for parser selection and as the table name.
func ParseBytes(filename string, content []byte) (*table.Table, error) {
	if len(content) == 0 {
		return nil, ErrEmptyInput
	}
	var p Parser
	for _, cand := range registry {
		if cand.CanParse(filename) {
			p = cand
			break
		}
	}
	if p == nil {
		return nil, ErrUnsupportedFormat
	}
	t, err := p.Parse(filepath.Base(filename), content)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ParseError{Format: filepath.Ext(filename), Err: err}
	}
	if t.Rows() == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// ParseFile reads a file from disk and loads it with ParseBytes.
func ParseFile(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(path, data)
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
	Register(xlsParser{})
}
