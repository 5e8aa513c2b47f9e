// Package table reads header-first CSV files into string tables.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain"
)

const utf8BOM = "\ufeff"

// Table is a CSV file held in memory. Rows are padded to len(Columns).
type Table struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// Read loads a CSV file. A missing file wraps domain.ErrSourceNotFound.
func Read(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, domain.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path)
}

// Parse reads CSV from r. source names the input in errors.
func Parse(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: empty file", source)
		}
		return nil, fmt.Errorf("read %s header: %w", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := &Table{Source: source, Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("read %s line %d: %d fields, header has %d", source, line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Require fails with domain.ErrMissingColumn unless every name is a column.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return fmt.Errorf("%s: column %q: %w", t.Source, n, domain.ErrMissingColumn)
		}
	}
	return nil
}

// Rename renames column from to to. Renaming an absent column is a no-op.
func (t *Table) Rename(from, to string) {
	if from == to {
		return
	}
	if i := t.ColumnIndex(from); i >= 0 {
		t.Columns[i] = to
	}
}

// IsIndexColumn reports whether a header looks like an auto-generated
// index column: blank, or named like "Unnamed: 0".
func IsIndexColumn(name string) bool {
	return strings.TrimSpace(name) == "" || strings.Contains(name, "Unnamed")
}

// DropIndexColumns removes every column for which IsIndexColumn is true.
func (t *Table) DropIndexColumns() {
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !IsIndexColumn(c) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}

	t.Columns = pick(t.Columns, keep)
	for i, row := range t.Rows {
		t.Rows[i] = pick(row, keep)
	}
}

// Value returns the cell at row/column, or "" when the column is absent.
func (t *Table) Value(row int, column string) string {
	i := t.ColumnIndex(column)
	if i < 0 {
		return ""
	}
	return t.Rows[row][i]
}

func pick(s []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
