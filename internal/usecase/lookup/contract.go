package lookup

import (
	"context"

	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/index"
	"github.com/kailas-cloud/folio/internal/domain/region"
)

// Resolver maps a docID to the document's display filename.
type Resolver interface {
	DisplayPath(docID int) (string, error)
}

// IndexSearcher finds index rows by filename substring.
type IndexSearcher interface {
	Search(substr string) []index.Row
}

// CatalogLookup finds catalog records by catalog ID.
type CatalogLookup interface {
	Lookup(id string) []catalog.Record
}

// RegionSource lists the regions of a filename.
type RegionSource interface {
	For(filename string) []region.Record
}

// DocumentCache stores rendered document fragments by docID.
type DocumentCache interface {
	Get(ctx context.Context, docID int) (string, bool)
	Put(ctx context.Context, docID int, fragment string)
}
