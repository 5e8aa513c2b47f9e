package lookup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/index"
	"github.com/kailas-cloud/folio/internal/domain/region"
	"github.com/kailas-cloud/folio/internal/render"
)

// --- Mocks ---

type mockResolver struct {
	files []string
	calls int
}

func (m *mockResolver) DisplayPath(docID int) (string, error) {
	m.calls++
	if docID < 0 || docID >= len(m.files) {
		return "", domain.NewOutOfRange(docID, len(m.files))
	}
	return m.files[docID], nil
}

type mockCache struct {
	entries map[int]string
	gets    int
	puts    int
}

func (m *mockCache) Get(_ context.Context, docID int) (string, bool) {
	m.gets++
	v, ok := m.entries[docID]
	return v, ok
}

func (m *mockCache) Put(_ context.Context, docID int, fragment string) {
	m.puts++
	if m.entries == nil {
		m.entries = make(map[int]string)
	}
	m.entries[docID] = fragment
}

// --- Fixtures ---

var testFiles = []string{
	"ia00152000_00202205_i2v.jpg",
	"ia00149000_00200293 a2r.jpg",
	"ib00297900_02001216_A1r.jpg",
	"ia00152000_00202205_i3v.jpg",
}

func newTestService(t *testing.T) (*Service, *mockResolver) {
	t.Helper()

	rows := make([]index.Row, len(testFiles))
	byName := make(map[string]int)
	for i, f := range testFiles {
		rows[i] = index.NewRow(i, f)
		byName[f] = i
	}
	ix := index.New(rows, byName, false)

	var f attrs.Map
	f.Set("id", "ia00152000")
	f.Set("title", "De civitate Dei")
	f.Set("imprint_year", 1475)
	cat := catalog.New([]string{"id", "title", "imprint_year"}, []catalog.Record{catalog.NewRecord(f)})

	mk := func(file string, id int, kind string) region.Record {
		var a attrs.Map
		a.Set("type", kind)
		return region.Record{Filename: file, RegionID: id, Attributes: a}
	}
	regions := region.NewStore([]region.Record{
		mk(testFiles[2], 0, "woodcut"),
		mk(testFiles[2], 1, "initial"),
		mk(testFiles[0], 0, "border"),
	})

	res := &mockResolver{files: testFiles}
	return New(res, ix, cat, regions, render.New(render.Options{})), res
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

// --- Tests ---

func TestPage_FormOnly(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Page(context.Background(), Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Outcome != OutcomeForm {
		t.Errorf("Outcome = %q", p.Outcome)
	}
	if p.Title != "Filename search" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.Contains(p.Body, `id="filename_search"`) {
		t.Error("missing search form")
	}
	if strings.Contains(p.Body, "pagerow\" data-doc-id") {
		t.Error("form-only page must not render documents")
	}
}

func TestPage_DocID(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Page(context.Background(), Query{DocID: intp(0), Filename: strp("A1r")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Outcome != OutcomeDocument {
		t.Fatalf("Outcome = %q", p.Outcome)
	}
	if !strings.Contains(p.Body, "Filename: ia00152000_00202205_i2v.jpg") {
		t.Error("docID must win over filename")
	}
	if !strings.Contains(p.Body, "De civitate Dei") {
		t.Error("missing catalog block")
	}
	if !strings.Contains(p.Body, "border") {
		t.Error("missing region block")
	}
}

func TestPage_DocIDOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)
	for _, id := range []int{-1, len(testFiles)} {
		_, err := svc.Page(context.Background(), Query{DocID: intp(id)})
		if !errors.Is(err, domain.ErrDocumentOutOfRange) {
			t.Errorf("docID %d: expected ErrDocumentOutOfRange, got %v", id, err)
		}
	}
}

func TestPage_SingleMatch(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Page(context.Background(), Query{Filename: strp("A1r")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Outcome != OutcomeDocument {
		t.Fatalf("Outcome = %q", p.Outcome)
	}
	body := p.Body
	for _, w := range []string{
		"Filename: ib00297900_02001216_A1r.jpg",
		"ISTC metadata for ib00297900_02001216_A1r.jpg not found!",
		"<span>Region: 1</span>",
		"<span>Region: 2</span>",
	} {
		if !strings.Contains(body, w) {
			t.Errorf("missing %q", w)
		}
	}
	if strings.Index(body, "woodcut") > strings.Index(body, "initial") {
		t.Error("regions out of source order")
	}
	if strings.Contains(body, "border") {
		t.Error("regions of other files leaked in")
	}
}

func TestPage_NoMatch(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Page(context.Background(), Query{Filename: strp("zz999")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Outcome != OutcomeNoMatch {
		t.Fatalf("Outcome = %q", p.Outcome)
	}
	if !strings.Contains(p.Body, `No match found for keyword "zz999"`) {
		t.Errorf("unexpected body:\n%s", p.Body)
	}
}

func TestPage_MultipleMatches(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Page(context.Background(), Query{Filename: strp("ia00")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Outcome != OutcomeMatches {
		t.Fatalf("Outcome = %q", p.Outcome)
	}
	if c := strings.Count(p.Body, "<li><a title=\"View image attributes\""); c != 3 {
		t.Fatalf("expected 3 links, got %d", c)
	}
	last := -1
	for _, id := range []string{"docID=0\"", "docID=1\"", "docID=3\""} {
		i := strings.Index(p.Body, "file_attributes?"+id)
		if i < last {
			t.Errorf("link %s out of index order", id)
		}
		last = i
	}
}

func TestPage_CountsOutcomes(t *testing.T) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_lookup_outcomes_total"}, []string{"outcome"})
	svc, _ := newTestService(t)
	svc.WithOutcomes(cv)

	ctx := context.Background()
	_, _ = svc.Page(ctx, Query{})
	_, _ = svc.Page(ctx, Query{Filename: strp("ia00")})
	_, _ = svc.Page(ctx, Query{Filename: strp("nothing")})
	_, _ = svc.Page(ctx, Query{DocID: intp(2)})

	for o, want := range map[Outcome]float64{
		OutcomeForm: 1, OutcomeMatches: 1, OutcomeNoMatch: 1, OutcomeDocument: 1,
	} {
		if got := testutil.ToFloat64(cv.WithLabelValues(string(o))); got != want {
			t.Errorf("outcome %q = %v, want %v", o, got, want)
		}
	}
}

func TestDocument_Cache(t *testing.T) {
	svc, res := newTestService(t)
	cache := &mockCache{}
	svc.WithCache(cache)
	ctx := context.Background()

	first, err := svc.Document(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.puts != 1 {
		t.Fatalf("expected 1 put, got %d", cache.puts)
	}

	calls := res.calls
	second, err := svc.Document(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Error("cached fragment differs")
	}
	if res.calls != calls {
		t.Error("cache hit must not resolve the document again")
	}

	if _, err := svc.Document(ctx, 99); err == nil {
		t.Error("expected error for out-of-range docID")
	}
	if cache.puts != 1 {
		t.Error("failed renders must not be cached")
	}
}

func TestDocument_WithoutOptionalSources(t *testing.T) {
	res := &mockResolver{files: testFiles}
	ix := index.New(nil, nil, false)
	svc := New(res, ix, nil, nil, render.New(render.Options{}))

	frag, err := svc.Document(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(frag, "not found!") {
		t.Error("missing catalog should render not found")
	}
	if strings.Contains(frag, "Region:") {
		t.Error("no regions expected")
	}
}

func TestMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Metadata(ctx, Query{}); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}

	recs, err := svc.Metadata(ctx, Query{DocID: intp(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID() != "ia00152000" {
		t.Errorf("unexpected records %+v", recs)
	}

	recs, err = svc.Metadata(ctx, Query{Filename: strp("ib00297900_02001216_A1r.jpg"), DocID: intp(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Error("filename should take precedence and miss the catalog")
	}

	if _, err := svc.Metadata(ctx, Query{DocID: intp(-5)}); !errors.Is(err, domain.ErrDocumentOutOfRange) {
		t.Errorf("expected ErrDocumentOutOfRange, got %v", err)
	}
}
