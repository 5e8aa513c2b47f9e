package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/abiiranathan/goflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/app"
	"github.com/kailas-cloud/folio/internal/config"
	dbRedis "github.com/kailas-cloud/folio/internal/db/redis"
	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/filename"
	"github.com/kailas-cloud/folio/internal/domain/index"
	logpkg "github.com/kailas-cloud/folio/internal/logger"
	"github.com/kailas-cloud/folio/internal/render"
	"github.com/kailas-cloud/folio/internal/repository/pagecache"
	lookupuc "github.com/kailas-cloud/folio/internal/usecase/lookup"
	"github.com/kailas-cloud/folio/internal/version"
)

// options holds every flag value; subcommands read the ones they declare.
type options struct {
	Env        string
	ConfigPath string
	Name       string
	DocID      int
	Verbose    bool
}

func envOrDefault() string {
	return config.GetEnv()
}

func defineFlags(opts *options, out io.Writer) *goflag.Context {
	configFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "config",
		ShortName: "c",
		Value:     &opts.ConfigPath,
		Usage:     "Config file (default: config/<ENV>.yaml)",
		Required:  false,
		Validator: nil,
	}

	ctx := goflag.NewContext()

	ctx.AddFlag(goflag.FlagBool, "verbose", "v", &opts.Verbose, "Log table loading", false)

	ctx.AddSubCommand("parse", "Parse a page image filename", func() {
		printParsed(out, opts.Name)
	}).AddFlag(goflag.FlagString, "name", "n", &opts.Name, "The filename to parse", true)

	ctx.AddSubCommand("index", "Dump the attribute index as TSV", func() {
		tables := mustLoadTables(opts)
		if err := writeIndex(out, tables.Index); err != nil {
			log.Fatalln(err)
		}
	}).AddFlagPtr(&configFlag)

	ctx.AddSubCommand("catalog", "Print the catalog record of a document", func() {
		tables := mustLoadTables(opts)
		svc := lookupuc.New(tables.Dataset, tables.Index, tables.Catalog, tables.Regions, render.New(render.Options{}))
		recs, err := svc.Metadata(context.Background(), metadataQuery(opts))
		if err != nil {
			log.Fatalln(err)
		}
		printCatalog(out, recs)
	}).AddFlagPtr(&configFlag).
		AddFlag(goflag.FlagString, "file", "f", &opts.Name, "Look up by filename", false).
		AddFlag(goflag.FlagInt, "doc", "d", &opts.DocID, "Look up by docID", false)

	ctx.AddSubCommand("purge-cache", "Delete cached pages of the configured dataset", func() {
		n, err := purgeCache(opts)
		if err != nil {
			log.Fatalln(err)
		}
		_, _ = fmt.Fprintf(out, "deleted %d cached pages\n", n)
	}).AddFlagPtr(&configFlag)

	ctx.AddSubCommand("version", "Print build information", func() {
		_, _ = fmt.Fprintln(out, version.String())
	})

	return ctx
}

func loadConfig(opts *options) (config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFile(opts.ConfigPath)
	}
	return config.Load(opts.Env)
}

func newLogger(opts *options, cfg config.Config) (*zap.Logger, error) {
	if !opts.Verbose {
		return zap.NewNop(), nil
	}
	return logpkg.NewLogger(opts.Env, cfg.Logging.Level)
}

func mustLoadTables(opts *options) *app.Tables {
	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalln(err)
	}
	logger, err := newLogger(opts, cfg)
	if err != nil {
		log.Fatalln(err)
	}
	tables, err := app.Load(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalln(err)
	}
	return tables
}

func metadataQuery(opts *options) lookupuc.Query {
	var q lookupuc.Query
	if opts.Name != "" {
		name := opts.Name
		q.Filename = &name
	}
	if opts.DocID >= 0 {
		id := opts.DocID
		q.DocID = &id
	}
	return q
}

func purgeCache(opts *options) (int64, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return 0, err
	}
	if !cfg.Cache.Enabled {
		return 0, fmt.Errorf("cache is not enabled in the config")
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		return 0, fmt.Errorf("create cache store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		return 0, err
	}
	cache := pagecache.New(store, cfg.Dataset.Name, 0, nil, zap.NewNop())
	return cache.Purge(ctx)
}

func printParsed(w io.Writer, name string) {
	p := filename.Parse(name)
	_, _ = fmt.Fprintf(w, "catalog_id:   %s\n", p.CatalogID)
	_, _ = fmt.Fprintf(w, "secondary_id: %s\n", p.SecondaryID)
	_, _ = fmt.Fprintf(w, "folio:        %s\n", p.Folio)
	_, _ = fmt.Fprintf(w, "folio_group:  %s\n", p.FolioGroup())
	_, _ = fmt.Fprintf(w, "convention:   %s\n", p.Kind)
}

func printCatalog(w io.Writer, recs []catalog.Record) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "not found")
		return
	}
	for i, rec := range recs {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		for _, f := range rec.Fields() {
			_, _ = fmt.Fprintf(w, "%s: %s\n", f.Key, attrs.Format(f.Value))
		}
	}
}

// writeIndex writes one TSV line per index row. Attribute columns follow
// the fixed ones in the order of the first row that has them.
func writeIndex(w io.Writer, idx *index.Index) error {
	rows := idx.Rows()
	var extra []string
	if len(rows) > 0 {
		extra = rows[0].Attributes.Keys()
	}

	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	header := append([]string{"doc_id", "filename", "catalog_id", "secondary_id", "folio", "folio_group", "convention"}, extra...)
	if err := tw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		line := []string{
			strconv.Itoa(r.DocID), r.Filename, r.CatalogID, r.SecondaryID,
			r.Folio, r.FolioGroup, r.ParseKind.String(),
		}
		for _, k := range extra {
			line = append(line, r.Attributes.Text(k))
		}
		if err := tw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", r.DocID, err)
		}
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}
