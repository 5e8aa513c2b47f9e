package health

import "context"

// CachePinger checks page cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// TableCounter reports the row count of each loaded table.
type TableCounter interface {
	Counts() map[string]int
}
