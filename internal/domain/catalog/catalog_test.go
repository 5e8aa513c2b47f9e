package catalog

import (
	"testing"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
)

func record(id, title string, year int) Record {
	var f attrs.Map
	f.Set(IDColumn, id)
	f.Set("title", title)
	f.Set(ImprintYearColumn, year)
	return NewRecord(f)
}

func TestLookup(t *testing.T) {
	c := New([]string{"id", "title", "imprint_year"}, []Record{
		record("ia001", "Biblia", 1475),
		record("ib002", "Psalterium", 1480),
		record("ia001", "Biblia (dup)", 1476),
	})

	got := c.Lookup("ia001")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Text("title") != "Biblia" || got[1].Text("title") != "Biblia (dup)" {
		t.Errorf("matches out of source order: %q, %q", got[0].Text("title"), got[1].Text("title"))
	}

	if got := c.Lookup("zz999"); len(got) != 0 {
		t.Errorf("expected no match, got %d", len(got))
	}
	if got := c.Lookup("IA001"); len(got) != 0 {
		t.Errorf("lookup must be exact, got %d", len(got))
	}
}

func TestFirst(t *testing.T) {
	c := New(nil, []Record{record("ia001", "A", 1475), record("ia001", "B", 1476)})

	r, ok := c.First("ia001")
	if !ok {
		t.Fatal("expected match")
	}
	if r.Text("title") != "A" {
		t.Errorf("First returned %q, want A", r.Text("title"))
	}
	if r.Text(ImprintYearColumn) != "1475" {
		t.Errorf("imprint_year text = %q", r.Text(ImprintYearColumn))
	}
	if v, _ := r.Value(ImprintYearColumn); v != 1475 {
		t.Errorf("imprint_year value = %v (%T)", v, v)
	}

	if _, ok := c.First("missing"); ok {
		t.Error("expected no match")
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 {
		t.Error("nil catalog Len should be 0")
	}
	if c.Lookup("x") != nil {
		t.Error("nil catalog Lookup should be nil")
	}
	if _, ok := c.First("x"); ok {
		t.Error("nil catalog First should miss")
	}
	if c.Columns() != nil {
		t.Error("nil catalog Columns should be nil")
	}
}

func TestRecord_FieldsOrder(t *testing.T) {
	r := record("ia001", "Biblia", 1475)
	fields := r.Fields()
	want := []string{"id", "title", "imprint_year"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields", len(fields))
	}
	for i, k := range want {
		if fields[i].Key != k {
			t.Errorf("field %d = %q, want %q", i, fields[i].Key, k)
		}
	}
	if r.ID() != "ia001" {
		t.Errorf("ID() = %q", r.ID())
	}
}
