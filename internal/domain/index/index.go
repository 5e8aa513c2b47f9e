package index

import (
	"strings"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/filename"
)

// Row is one entry of the attribute index.
type Row struct {
	DocID       int
	Filename    string
	CatalogID   string
	SecondaryID string
	Folio       string
	FolioGroup  string
	ParseKind   filename.Kind
	// Attributes holds the externally supplied per-file columns, minus the
	// filename column. Empty when no attribute table was joined.
	Attributes attrs.Map
}

// NewRow derives a row from a document filename.
func NewRow(docID int, name string) Row {
	p := filename.Parse(name)
	return Row{
		DocID:       docID,
		Filename:    name,
		CatalogID:   p.CatalogID,
		SecondaryID: p.SecondaryID,
		Folio:       p.Folio,
		FolioGroup:  p.FolioGroup(),
		ParseKind:   p.Kind,
	}
}

// Index is the read-only attribute index of a dataset.
type Index struct {
	rows       []Row
	byFilename map[string]int
	attributes bool
}

// New creates an Index. byFilename maps every dataset filename to its docID.
func New(rows []Row, byFilename map[string]int, attributesAvailable bool) *Index {
	return &Index{rows: rows, byFilename: byFilename, attributes: attributesAvailable}
}

// Len returns the number of rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Rows returns all rows in index order.
func (ix *Index) Rows() []Row {
	out := make([]Row, len(ix.rows))
	copy(out, ix.rows)
	return out
}

// AttributesAvailable reports whether an external attribute table was joined.
func (ix *Index) AttributesAvailable() bool { return ix.attributes }

// DocID returns the docID of an exact filename.
func (ix *Index) DocID(name string) (int, bool) {
	id, ok := ix.byFilename[name]
	return id, ok
}

// Row returns the first row for docID.
func (ix *Index) Row(docID int) (Row, bool) {
	for _, r := range ix.rows {
		if r.DocID == docID {
			return r, true
		}
	}
	return Row{}, false
}

// Search returns rows whose filename contains substr (case-sensitive), in
// index order.
func (ix *Index) Search(substr string) []Row {
	var out []Row
	for _, r := range ix.rows {
		if strings.Contains(r.Filename, substr) {
			out = append(out, r)
		}
	}
	return out
}
