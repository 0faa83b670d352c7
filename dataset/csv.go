// Package dataset reads and writes the CSV tables produced by the pipeline.
//
// Every value is written inside double quotes with embedded quotes doubled,
// and missing values are written as empty strings. Header names are written
// bare.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is an ordered set of rows under a header.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with a copy of header.
func NewTable(header []string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// Append adds a row to the table. Short rows are padded with empty values
// and long rows are truncated to the header width.
func (t *Table) Append(values ...string) {
	row := make([]string, len(t.Header))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the named column of row i, or an empty string if the column
// does not exist.
func (t *Table) Value(i int, name string) string {
	col := t.Column(name)
	if col < 0 || col >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][col]
}

// Write serializes the table to w.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(t.Header, ",")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range t.Rows {
		quoted := make([]string, len(t.Header))
		for i := range t.Header {
			var value string
			if i < len(row) {
				value = row[i]
			}
			quoted[i] = Quote(value)
		}

		if _, err := bw.WriteString("\n" + strings.Join(quoted, ",")); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if _, err := bw.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	return bw.Flush()
}

// Quote wraps value in double quotes, doubling any embedded quotes.
func Quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// WriteFile writes the table to path, creating parent directories as
// needed.
func WriteFile(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Read parses a CSV table with a header row. A leading UTF-8 byte order mark
// is stripped from the first header. Stray quotes inside unquoted fields are
// kept as literal characters. Rows are padded or truncated to the
// header width.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		table.Append(record...)
	}

	return table, nil
}

// ReadFile reads a CSV table from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return table, nil
}
