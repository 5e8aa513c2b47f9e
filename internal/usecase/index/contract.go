package index

// Resolver maps a docID to the document's display filename.
type Resolver interface {
	DisplayPath(docID int) (string, error)
}
