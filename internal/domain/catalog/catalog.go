package catalog

import "github.com/kailas-cloud/folio/internal/domain/attrs"

// Canonical column names.
const (
	IDColumn          = "id"
	ImprintYearColumn = "imprint_year"
)

// TextColumns are coerced to text on load.
var TextColumns = []string{IDColumn, "author", "title", "imprint", "format"}

// Record is one bibliographic entry (immutable value object).
// Column order follows the source file.
type Record struct {
	fields attrs.Map
}

// NewRecord creates a Record from ordered fields.
func NewRecord(fields attrs.Map) Record {
	return Record{fields: fields.Clone()}
}

// ID returns the catalog identifier.
func (r Record) ID() string { return r.fields.Text(IDColumn) }

// Text returns the display form of a column value.
func (r Record) Text(column string) string { return r.fields.Text(column) }

// Value returns the typed value of a column.
func (r Record) Value(column string) (any, bool) { return r.fields.Get(column) }

// Fields returns columns and values in source order.
func (r Record) Fields() []attrs.Entry { return r.fields.Entries() }

// Catalog is a read-only table of records. A nil Catalog is empty.
type Catalog struct {
	columns []string
	records []Record
}

// New creates a Catalog.
func New(columns []string, records []Record) *Catalog {
	return &Catalog{columns: columns, records: records}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Columns returns the column names in source order.
func (c *Catalog) Columns() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Lookup returns every record whose ID equals id, in source order.
// IDs are not required to be unique.
func (c *Catalog) Lookup(id string) []Record {
	if c == nil {
		return nil
	}
	var out []Record
	for _, r := range c.records {
		if r.ID() == id {
			out = append(out, r)
		}
	}
	return out
}

// First returns the first record with the given ID.
func (c *Catalog) First(id string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	for _, r := range c.records {
		if r.ID() == id {
			return r, true
		}
	}
	return Record{}, false
}
