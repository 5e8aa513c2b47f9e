package index

import "github.com/kailas-cloud/folio/internal/domain/attrs"

// FileAttributes is an externally supplied per-file attribute table.
// A filename may appear on several rows.
type FileAttributes struct {
	columns []string
	rows    []attrs.Map
	byFile  map[string][]int
}

// NewFileAttributes creates a table. filenames[i] owns rows[i]; columns
// lists the attribute columns (filename column excluded) in source order.
func NewFileAttributes(columns, filenames []string, rows []attrs.Map) *FileAttributes {
	fa := &FileAttributes{columns: columns, rows: rows, byFile: make(map[string][]int)}
	for i, f := range filenames {
		fa.byFile[f] = append(fa.byFile[f], i)
	}
	return fa
}

// Len returns the number of rows.
func (fa *FileAttributes) Len() int { return len(fa.rows) }

// Columns returns the attribute column names.
func (fa *FileAttributes) Columns() []string {
	out := make([]string, len(fa.columns))
	copy(out, fa.columns)
	return out
}

// For returns the attribute rows of filename in source order.
func (fa *FileAttributes) For(filename string) []attrs.Map {
	idx := fa.byFile[filename]
	out := make([]attrs.Map, len(idx))
	for i, j := range idx {
		out[i] = fa.rows[j]
	}
	return out
}
