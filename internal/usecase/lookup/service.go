package lookup

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/filename"
	"github.com/kailas-cloud/folio/internal/domain/region"
	"github.com/kailas-cloud/folio/internal/render"
)

// Outcome tells which branch produced a page.
type Outcome string

const (
	// OutcomeForm is a request with neither docID nor filename.
	OutcomeForm Outcome = "form"
	// OutcomeDocument is a single rendered document.
	OutcomeDocument Outcome = "document"
	// OutcomeNoMatch is a filename search without results.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeMatches is a filename search with several results.
	OutcomeMatches Outcome = "matches"
)

// Query selects what to show. DocID wins over Filename.
type Query struct {
	DocID    *int
	Filename *string
}

// Page is a rendered page body ready for the page template.
type Page struct {
	Title   string
	Body    string
	Outcome Outcome
}

// Service answers filename lookups with HTML.
type Service struct {
	resolver Resolver
	index    IndexSearcher
	catalog  CatalogLookup
	regions  RegionSource
	renderer *render.Renderer
	cache    DocumentCache
	outcomes *prometheus.CounterVec
}

// New creates a lookup service. catalog and regions may be nil.
func New(
	resolver Resolver,
	idx IndexSearcher,
	cat CatalogLookup,
	regions RegionSource,
	renderer *render.Renderer,
) *Service {
	return &Service{
		resolver: resolver,
		index:    idx,
		catalog:  cat,
		regions:  regions,
		renderer: renderer,
	}
}

// WithCache enables caching of rendered documents.
func (s *Service) WithCache(c DocumentCache) *Service {
	s.cache = c
	return s
}

// WithOutcomes counts pages by outcome. cv has a single label "outcome".
func (s *Service) WithOutcomes(cv *prometheus.CounterVec) *Service {
	s.outcomes = cv
	return s
}

// Page renders the lookup page. The search form always comes first.
//
// A docID is rendered without consulting the index; an out-of-range docID
// fails with domain.ErrDocumentOutOfRange. A filename is matched as a
// case-sensitive substring against the index: one hit renders that
// document, none renders a no-match message, several render a link list.
func (s *Service) Page(ctx context.Context, q Query) (Page, error) {
	keyword := ""
	if q.Filename != nil {
		keyword = *q.Filename
	}
	body := s.renderer.SearchForm(keyword)

	var (
		frag    string
		outcome Outcome
	)
	switch {
	case q.DocID != nil:
		doc, err := s.Document(ctx, *q.DocID)
		if err != nil {
			return Page{}, err
		}
		frag, outcome = doc, OutcomeDocument
	case q.Filename != nil:
		rows := s.index.Search(*q.Filename)
		switch len(rows) {
		case 0:
			frag, outcome = s.renderer.NoMatch(*q.Filename), OutcomeNoMatch
		case 1:
			doc, err := s.Document(ctx, rows[0].DocID)
			if err != nil {
				return Page{}, err
			}
			frag, outcome = doc, OutcomeDocument
		default:
			frag, outcome = s.renderer.MatchList(rows), OutcomeMatches
		}
	default:
		outcome = OutcomeForm
	}

	s.count(outcome)
	return Page{Title: domain.PageTitle, Body: body + frag, Outcome: outcome}, nil
}

// Document renders a single page image with its catalog record and regions.
func (s *Service) Document(ctx context.Context, docID int) (string, error) {
	if s.cache != nil {
		if frag, ok := s.cache.Get(ctx, docID); ok {
			return frag, nil
		}
	}

	name, err := s.resolver.DisplayPath(docID)
	if err != nil {
		return "", fmt.Errorf("resolve document: %w", err)
	}

	frag := s.renderer.Document(render.Document{
		DocID:    docID,
		Filename: name,
		Catalog:  s.lookupCatalog(name),
		Regions:  s.lookupRegions(name),
	})

	if s.cache != nil {
		s.cache.Put(ctx, docID, frag)
	}
	return frag, nil
}

// Metadata returns the catalog records of a document chosen by docID or
// filename. Neither being set is a user error (domain.ErrEmptyQuery).
func (s *Service) Metadata(_ context.Context, q Query) ([]catalog.Record, error) {
	var name string
	switch {
	case q.Filename != nil:
		name = *q.Filename
	case q.DocID != nil:
		n, err := s.resolver.DisplayPath(*q.DocID)
		if err != nil {
			return nil, fmt.Errorf("resolve document: %w", err)
		}
		name = n
	default:
		return nil, domain.ErrEmptyQuery
	}
	return s.lookupCatalog(name), nil
}

func (s *Service) lookupCatalog(name string) []catalog.Record {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Lookup(filename.Parse(name).CatalogID)
}

func (s *Service) lookupRegions(name string) []region.Record {
	if s.regions == nil {
		return nil
	}
	return s.regions.For(name)
}

func (s *Service) count(o Outcome) {
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(string(o)).Inc()
	}
}
