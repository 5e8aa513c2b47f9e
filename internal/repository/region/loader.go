package region

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/attrs"
	domregion "github.com/kailas-cloud/folio/internal/domain/region"
	"github.com/kailas-cloud/folio/internal/repository/table"
)

// Column names of a region attribute export.
const (
	ColFilename   = "filename"
	ColRegionID   = "region_id"
	ColShape      = "region_shape_attributes"
	ColAttributes = "region_attributes"
)

// Load reads a region attribute CSV (one row per region). filenameColumn
// names the source column holding the image filename.
func Load(path, filenameColumn string) (*domregion.Store, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	return FromTable(t, filenameColumn)
}

// FromTable converts a parsed table. Shapes stay raw; attributes are
// decoded up front so a malformed export fails at startup.
func FromTable(t *table.Table, filenameColumn string) (*domregion.Store, error) {
	t.DropIndexColumns()
	if filenameColumn != "" {
		t.Rename(filenameColumn, ColFilename)
	}
	if err := t.Require(ColFilename, ColRegionID, ColShape, ColAttributes); err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	fi := t.ColumnIndex(ColFilename)
	ri := t.ColumnIndex(ColRegionID)
	si := t.ColumnIndex(ColShape)
	ai := t.ColumnIndex(ColAttributes)

	records := make([]domregion.Record, 0, t.Len())
	for i, row := range t.Rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[ri]))
		if err != nil {
			return nil, &domain.FormatError{Source: t.Source, Row: i + 1, Column: ColRegionID, Value: row[ri], Err: err}
		}
		a, err := attrs.ParseJSON(row[ai])
		if err != nil {
			return nil, &domain.FormatError{Source: t.Source, Row: i + 1, Column: ColAttributes, Value: row[ai], Err: err}
		}
		records = append(records, domregion.Record{
			Filename:   row[fi],
			RegionID:   id,
			Shape:      row[si],
			Attributes: a,
		})
	}

	return domregion.NewStore(records), nil
}
