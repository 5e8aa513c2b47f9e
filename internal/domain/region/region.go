package region

import "github.com/kailas-cloud/folio/internal/domain/attrs"

// Record is one annotated region of a page image.
type Record struct {
	Filename   string
	RegionID   int
	Shape      string // raw JSON shape descriptor
	Attributes attrs.Map
}

// CropBox returns the bounding box of a rectangular region.
func (r Record) CropBox() (CropBox, bool) {
	s, err := ParseShape(r.Shape)
	if err != nil {
		return CropBox{}, false
	}
	return s.Rect()
}

// Store holds region records grouped by filename. A nil Store is empty.
type Store struct {
	records []Record
	byFile  map[string][]int
}

// NewStore indexes records by filename, keeping source order.
func NewStore(records []Record) *Store {
	s := &Store{records: records, byFile: make(map[string][]int)}
	for i, r := range records {
		s.byFile[r.Filename] = append(s.byFile[r.Filename], i)
	}
	return s
}

// Len returns the total number of regions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// For returns the regions of filename in source order.
func (s *Store) For(filename string) []Record {
	if s == nil {
		return nil
	}
	idx := s.byFile[filename]
	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out
}
