// Package render turns catalog, region and index data into HTML fragments.
// Every function is pure; all data values are HTML-escaped.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/index"
	"github.com/kailas-cloud/folio/internal/domain/region"
)

// visibleRegionRows is how many region metadata rows show before "show more".
const visibleRegionRows = 4

// NonRectNotice is shown on regions that have no croppable bounding box.
const NonRectNotice = "Not showing non-rectangular region"

// Options holds the URLs the fragments link to.
type Options struct {
	// CatalogURL is a fmt template taking the catalog ID.
	CatalogURL string
	// ImageEndpoint serves page images by docID.
	ImageEndpoint string
	// SearchEndpoint runs visual search by docID.
	SearchEndpoint string
	// PageEndpoint is this service's per-document view.
	PageEndpoint string
	// ThumbnailHeight is the display height requested for page images.
	ThumbnailHeight int
}

// DefaultOptions returns the links used by the manuscript viewer.
func DefaultOptions() Options {
	return Options{
		CatalogURL:      "http://data.cerl.org/istc/%s",
		ImageEndpoint:   "getImage",
		SearchEndpoint:  "search",
		PageEndpoint:    "file_attributes",
		ThumbnailHeight: 500,
	}
}

// Renderer renders fragments with fixed Options.
type Renderer struct {
	opts Options
}

// New creates a Renderer. Zero option fields take DefaultOptions values.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.CatalogURL == "" {
		opts.CatalogURL = def.CatalogURL
	}
	if opts.ImageEndpoint == "" {
		opts.ImageEndpoint = def.ImageEndpoint
	}
	if opts.SearchEndpoint == "" {
		opts.SearchEndpoint = def.SearchEndpoint
	}
	if opts.PageEndpoint == "" {
		opts.PageEndpoint = def.PageEndpoint
	}
	if opts.ThumbnailHeight <= 0 {
		opts.ThumbnailHeight = def.ThumbnailHeight
	}
	return &Renderer{opts: opts}
}

// Document is everything shown for one page image.
type Document struct {
	DocID    int
	Filename string
	Catalog  []catalog.Record
	Regions  []region.Record
}

// SearchForm renders the filename search box. keyword pre-fills the input.
func (r *Renderer) SearchForm(keyword string) string {
	return fmt.Sprintf(`
<div class="istc_search_panel pagerow">
  <form method="GET" action="./%s" id="filename_search">
    <input type="text" id="filename_search_keyword" name="filename" placeholder="Image filename (e.g. i3v)" size="25" value="%s">
    <button type="submit" value="Search">Search</button>
  </form>
</div>`, r.opts.PageEndpoint, esc(keyword))
}

// NoMatch renders the empty search result.
func (r *Renderer) NoMatch(keyword string) string {
	return fmt.Sprintf(`<div class="search_result_i pagerow"><p>No match found for keyword "%s"</p></div>`, esc(keyword))
}

// MatchList renders an ordered list of links to the matching documents.
func (r *Renderer) MatchList(rows []index.Row) string {
	var b strings.Builder
	b.WriteString(`<div class="search_result_i pagerow">`)
	fmt.Fprintf(&b, `<div class="header"><span>Showing %d matches</span><span></span></div><ul>`, len(rows))
	for _, row := range rows {
		fmt.Fprintf(&b, `<li><a title="View image attributes" href="%s?docID=%d">%s</a></li>`,
			r.opts.PageEndpoint, row.DocID, esc(row.Filename))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

// CatalogNotFound is the message shown when a file has no catalog record.
func CatalogNotFound(filename string) string {
	return "ISTC metadata for " + esc(filename) + " not found!"
}

// Catalog renders the first of recs as a two-column table, one row per
// column. The ID links to the public catalog; empty values keep their row.
func (r *Renderer) Catalog(filename string, recs []catalog.Record) string {
	if len(recs) == 0 {
		return CatalogNotFound(filename)
	}

	var b strings.Builder
	b.WriteString(`<table class="metadata_table"><tbody>`)
	for _, f := range recs[0].Fields() {
		value := attrs.Format(f.Value)
		switch {
		case f.Key == catalog.IDColumn:
			url := fmt.Sprintf(r.opts.CatalogURL, value)
			fmt.Fprintf(&b, `<tr><td>%s</td><td><a target="_blank" href="%s">%s</a></td></tr>`,
				esc(f.Key), esc(url), esc(value))
		case value == "":
			fmt.Fprintf(&b, `<tr><td>%s</td><td></td></tr>`, esc(f.Key))
		default:
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, esc(f.Key), esc(value))
		}
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// Region renders one annotated region of document docID. The first four
// metadata rows are always visible; later non-empty rows are hidden until
// the checkbox toggle is ticked (pure CSS, see the page stylesheet).
//
// Crop previews are not emitted: region coordinates refer to the original
// scan, not the resized copy the image endpoint serves. The crop specifier
// of rect regions is kept on the block as data-crop.
func (r *Renderer) Region(rec region.Record, docID int) string {
	notice, crop := "", ""
	if box, ok := rec.CropBox(); ok {
		crop = fmt.Sprintf(` data-crop="%s"`, esc(box.Spec()))
	} else {
		notice = NonRectNotice
	}
	toggleID := fmt.Sprintf("doc_%d_region_%d_metadata", docID, rec.RegionID)

	var b strings.Builder
	fmt.Fprintf(&b, `
<div class="search_result_i pagerow" data-doc-id="%d" data-region-id="%d"%s>
  <div class="header">
    <span>Region: %d</span>
    <span><a href="%s?docID=%d">Document %d</a> <span style="color: red">%s</span></span>
  </div>
  <div class="istc_metadata"><strong>Region Metadata</strong>
    <input type="checkbox" class="show_more_state" id="%s" />
    <table class="metadata_table show_more_wrap"><tbody>
`, docID, rec.RegionID, crop, rec.RegionID+1, r.opts.PageEndpoint, docID, docID, notice, toggleID)

	for i, e := range rec.Attributes.Entries() {
		value := attrs.Format(e.Value)
		switch {
		case value == "":
			fmt.Fprintf(&b, `<tr><td>%s</td><td></td></tr>`, esc(e.Key))
		case i < visibleRegionRows:
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, esc(e.Key), esc(value))
		default:
			fmt.Fprintf(&b, `<tr class="show_more_target"><td>%s</td><td>%s</td></tr>`, esc(e.Key), esc(value))
		}
	}

	fmt.Fprintf(&b, `</tbody></table><label for="%s" class="show_more_trigger"></label>`, toggleID)
	b.WriteString(`</div></div>`)
	return b.String()
}

// Document renders the header, thumbnail, catalog block and tools of a
// page image, followed by each of its regions in order.
func (r *Renderer) Document(d Document) string {
	var regions strings.Builder
	for _, rec := range d.Regions {
		regions.WriteString(r.Region(rec, d.DocID))
	}

	return fmt.Sprintf(`
<div class="search_result_i pagerow" data-doc-id="%d">
<div class="header">
  <span>Filename: %s</span>
  <span></span>
</div>

<div class="img_panel">
  <a href="%s?docID=%d"><img src="%s?docID=%d&amp;height=%d"></a>
</div>
<div class="istc_metadata"><strong>ISTC Metadata</strong>%s</div>

<div class="search_result_tools">
<ul class="hlist">
  <li><a href="%s?docID=%d">Search using this image</a></li>
</ul>
</div>
</div>
%s`,
		d.DocID,
		esc(d.Filename),
		r.opts.SearchEndpoint, d.DocID, r.opts.ImageEndpoint, d.DocID, r.opts.ThumbnailHeight,
		r.Catalog(d.Filename, d.Catalog),
		r.opts.SearchEndpoint, d.DocID,
		regions.String(),
	)
}

func esc(s string) string { return html.EscapeString(s) }
