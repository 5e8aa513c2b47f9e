package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain/filename"
	domindex "github.com/kailas-cloud/folio/internal/domain/index"
)

// Builder assembles the attribute index of a dataset.
type Builder struct {
	resolver Resolver
	logger   *zap.Logger
}

// New creates a Builder.
func New(resolver Resolver, logger *zap.Logger) *Builder {
	return &Builder{resolver: resolver, logger: logger}
}

// Build parses the filename of every docID in [0, size) into a base row.
//
// With ext == nil the base table is the index and AttributesAvailable is
// false. Otherwise base rows are inner-joined with ext on filename: every
// base row is paired with each matching attribute row, in base order then
// attribute order, and files missing on either side are dropped.
//
// The filename→docID map covers every dataset file, joined or not; a
// repeated filename maps to its last docID.
func (b *Builder) Build(ctx context.Context, size int, ext *domindex.FileAttributes) (*domindex.Index, error) {
	base := make([]domindex.Row, 0, size)
	byFilename := make(map[string]int, size)
	fallbacks := 0

	for docID := 0; docID < size; docID++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}
		name, err := b.resolver.DisplayPath(docID)
		if err != nil {
			return nil, fmt.Errorf("build index: resolve docID %d: %w", docID, err)
		}
		byFilename[name] = docID

		row := domindex.NewRow(docID, name)
		if row.ParseKind == filename.KindFallback {
			fallbacks++
			b.logger.Debug("Filename matched no naming convention",
				zap.Int("doc_id", docID),
				zap.String("filename", name),
			)
		}
		base = append(base, row)
	}

	if fallbacks > 0 {
		b.logger.Warn("Some filenames parsed with the fixed-width fallback; folio discarded",
			zap.Int("count", fallbacks),
			zap.Int("total", size),
		)
	}

	if ext == nil {
		return domindex.New(base, byFilename, false), nil
	}

	joined := make([]domindex.Row, 0, len(base))
	for _, r := range base {
		for _, a := range ext.For(r.Filename) {
			jr := r
			jr.Attributes = a.Clone()
			joined = append(joined, jr)
		}
	}

	b.logger.Info("Joined file attributes",
		zap.Int("dataset_rows", len(base)),
		zap.Int("attribute_rows", ext.Len()),
		zap.Int("joined_rows", len(joined)),
	)

	return domindex.New(joined, byFilename, true), nil
}
