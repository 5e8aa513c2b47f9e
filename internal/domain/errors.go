package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentOutOfRange signals a docID outside [0, dataset size).
	ErrDocumentOutOfRange = errors.New("document out of range")
	// ErrEmptyQuery signals a lookup with neither docID nor filename.
	ErrEmptyQuery = errors.New("either docID or filename must be provided")
	// ErrFormat signals a tabular source value that cannot be coerced.
	ErrFormat = errors.New("format error")
	// ErrSourceNotFound signals a configured source file that does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrMissingColumn signals a required column absent from a source header.
	ErrMissingColumn = errors.New("missing column")
)

// FormatError wraps ErrFormat with the location of the offending value.
type FormatError struct {
	Source string
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s row %d column %q: cannot coerce %q", ErrFormat.Error(), e.Source, e.Row, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// OutOfRangeError wraps ErrDocumentOutOfRange with the offending docID.
type OutOfRangeError struct {
	DocID int
	Size  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: docID %d, dataset has %d documents", ErrDocumentOutOfRange.Error(), e.DocID, e.Size)
}

func (e *OutOfRangeError) Unwrap() error { return ErrDocumentOutOfRange }

// NewOutOfRange creates an out-of-range error.
func NewOutOfRange(docID, size int) error {
	return &OutOfRangeError{DocID: docID, Size: size}
}
