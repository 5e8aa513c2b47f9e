package attributes

import (
	"fmt"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/index"
	"github.com/kailas-cloud/folio/internal/repository/table"
)

// FilenameColumn is the canonical join column.
const FilenameColumn = "filename"

// Load reads a per-file attribute CSV. filenameColumn names the source
// column holding the image filename; it becomes the join key.
func Load(path, filenameColumn string) (*index.FileAttributes, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load file attributes: %w", err)
	}
	return FromTable(t, filenameColumn)
}

// FromTable converts a parsed table. All values stay text.
func FromTable(t *table.Table, filenameColumn string) (*index.FileAttributes, error) {
	if filenameColumn != "" {
		t.Rename(filenameColumn, FilenameColumn)
	}
	t.DropIndexColumns()
	if err := t.Require(FilenameColumn); err != nil {
		return nil, fmt.Errorf("load file attributes: %w", err)
	}

	fi := t.ColumnIndex(FilenameColumn)
	columns := make([]string, 0, len(t.Columns)-1)
	for i, c := range t.Columns {
		if i != fi {
			columns = append(columns, c)
		}
	}

	filenames := make([]string, 0, t.Len())
	rows := make([]attrs.Map, 0, t.Len())
	for _, row := range t.Rows {
		var m attrs.Map
		for i, c := range t.Columns {
			if i != fi {
				m.Set(c, row[i])
			}
		}
		filenames = append(filenames, row[fi])
		rows = append(rows, m)
	}

	return index.NewFileAttributes(columns, filenames, rows), nil
}
