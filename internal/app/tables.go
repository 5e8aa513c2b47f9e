// Package app loads the read-only tables a folio process serves from.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/folio/internal/config"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/index"
	"github.com/kailas-cloud/folio/internal/domain/region"
	"github.com/kailas-cloud/folio/internal/repository/attributes"
	catrepo "github.com/kailas-cloud/folio/internal/repository/catalog"
	"github.com/kailas-cloud/folio/internal/repository/dataset"
	regionrepo "github.com/kailas-cloud/folio/internal/repository/region"
	indexuc "github.com/kailas-cloud/folio/internal/usecase/index"
)

// Table names used in logs, health reports and metrics.
const (
	TableDataset        = "dataset"
	TableIndex          = "index"
	TableCatalog        = "catalog"
	TableRegions        = "regions"
	TableFileAttributes = "file_attributes"
)

// Tables is everything loaded at startup. It is never mutated afterwards,
// so it is safe to share between request goroutines.
type Tables struct {
	Dataset *dataset.Dataset
	Index   *index.Index
	// Catalog and Regions are nil when their source is not configured.
	Catalog *catalog.Catalog
	Regions *region.Store

	fileAttributes int
}

// Counts returns the row count of every loaded table.
func (t *Tables) Counts() map[string]int {
	counts := map[string]int{
		TableDataset: t.Dataset.Len(),
		TableIndex:   t.Index.Len(),
	}
	if t.Catalog != nil {
		counts[TableCatalog] = t.Catalog.Len()
	}
	if t.Regions != nil {
		counts[TableRegions] = t.Regions.Len()
	}
	if t.Index.AttributesAvailable() {
		counts[TableFileAttributes] = t.fileAttributes
	}
	return counts
}

// Load reads the dataset and the configured CSV sources concurrently, then
// builds the attribute index. Any failure aborts the whole load.
func Load(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Tables, error) {
	var (
		t   Tables
		ext *index.FileAttributes
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		ds, err := loadDataset(cfg.Dataset)
		if err != nil {
			return err
		}
		t.Dataset = ds
		logger.Info("Loaded dataset",
			zap.String("dataset", ds.Name()),
			zap.Int("rows", ds.Len()),
		)
		return nil
	})

	if src := cfg.Sources.FileAttributes; src.Enabled() {
		g.Go(func() error {
			fa, err := attributes.Load(src.Path, src.KeyColumn)
			if err != nil {
				return fmt.Errorf("file attributes: %w", err)
			}
			ext = fa
			logger.Info("Loaded file attributes", zap.String("source", src.Path), zap.Int("rows", fa.Len()))
			return nil
		})
	}

	if src := cfg.Sources.Catalog; src.Enabled() {
		g.Go(func() error {
			cat, err := catrepo.Load(src.Path, src.KeyColumn)
			if err != nil {
				return fmt.Errorf("catalog: %w", err)
			}
			t.Catalog = cat
			logger.Info("Loaded catalog", zap.String("source", src.Path), zap.Int("rows", cat.Len()))
			return nil
		})
	}

	if src := cfg.Sources.Regions; src.Enabled() {
		g.Go(func() error {
			regions, err := regionrepo.Load(src.Path, src.KeyColumn)
			if err != nil {
				return fmt.Errorf("regions: %w", err)
			}
			t.Regions = regions
			logger.Info("Loaded regions", zap.String("source", src.Path), zap.Int("rows", regions.Len()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	// gctx is canceled once Wait returns; the index build runs on ctx.
	idx, err := indexuc.New(t.Dataset, logger).Build(ctx, t.Dataset.Len(), ext)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	t.Index = idx
	if ext != nil {
		t.fileAttributes = ext.Len()
	}
	logger.Info("Built attribute index",
		zap.Int("rows", idx.Len()),
		zap.Bool("attributes_available", idx.AttributesAvailable()),
	)

	return &t, nil
}

func loadDataset(cfg config.DatasetConfig) (*dataset.Dataset, error) {
	if cfg.ImageList != "" {
		ds, err := dataset.FromList(cfg.Name, cfg.ImageList)
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		return ds, nil
	}
	ds, err := dataset.FromDir(cfg.Name, cfg.ImageDir, cfg.Extensions)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return ds, nil
}
