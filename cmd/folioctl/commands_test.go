package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
	"github.com/kailas-cloud/folio/internal/domain/catalog"
	"github.com/kailas-cloud/folio/internal/domain/index"
)

func TestPrintParsed(t *testing.T) {
	var buf bytes.Buffer
	printParsed(&buf, "ia00152000_00202205_i2v.jpg")
	out := buf.String()
	for _, w := range []string{"catalog_id:   ia00152000", "secondary_id: 00202205", "folio:        i2v", "folio_group:  i"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q in\n%s", w, out)
		}
	}
}

func TestWriteIndex(t *testing.T) {
	var a attrs.Map
	a.Set("century", "15")
	r0 := index.NewRow(0, "ia00152000_00202205_i2v.jpg")
	r0.Attributes = a
	idx := index.New([]index.Row{r0}, map[string]int{r0.Filename: 0}, true)

	var buf bytes.Buffer
	if err := writeIndex(&buf, idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "\tcentury") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0\tia00152000_00202205_i2v.jpg\tia00152000\t00202205\ti2v\ti\tunderscore\t15" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestMetadataQuery(t *testing.T) {
	q := metadataQuery(&options{DocID: -1})
	if q.DocID != nil || q.Filename != nil {
		t.Errorf("expected empty query, got %+v", q)
	}

	q = metadataQuery(&options{DocID: 4, Name: "a.jpg"})
	if q.DocID == nil || *q.DocID != 4 || q.Filename == nil || *q.Filename != "a.jpg" {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, nil)
	if buf.String() != "not found\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	var f attrs.Map
	f.Set("id", "ia00152000")
	f.Set("imprint_year", 1475)
	buf.Reset()
	printCatalog(&buf, []catalog.Record{catalog.NewRecord(f)})
	if buf.String() != "id: ia00152000\nimprint_year: 1475\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
