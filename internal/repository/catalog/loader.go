package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/attrs"
	domcat "github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/repository/table"
)

// Load reads a bibliographic catalog CSV. idColumn names the source column
// holding the catalog ID; it is renamed to catalog.IDColumn.
func Load(path, idColumn string) (*domcat.Catalog, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return FromTable(t, idColumn)
}

// FromTable converts a parsed table, applying typed coercion.
func FromTable(t *table.Table, idColumn string) (*domcat.Catalog, error) {
	t.DropIndexColumns()
	if idColumn != "" {
		t.Rename(idColumn, domcat.IDColumn)
	}
	if err := t.Require(domcat.IDColumn); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	records := make([]domcat.Record, 0, t.Len())
	for i, row := range t.Rows {
		var fields attrs.Map
		for j, col := range t.Columns {
			v, err := coerce(col, row[j])
			if err != nil {
				return nil, &domain.FormatError{Source: t.Source, Row: i + 1, Column: col, Value: row[j], Err: err}
			}
			fields.Set(col, v)
		}
		records = append(records, domcat.NewRecord(fields))
	}

	return domcat.New(t.Columns, records), nil
}

// coerce types the columns with a known type. Unknown columns stay text.
func coerce(column, value string) (any, error) {
	if column != domcat.ImprintYearColumn {
		return value, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("not an integer: %w", err)
	}
	return n, nil
}
