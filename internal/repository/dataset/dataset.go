// Package dataset resolves document positions to display filenames.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain"
)

// DefaultExtensions are the image extensions picked up by FromDir.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff"}

// Dataset is a named, ordered list of page images. docID is the position
// in that list.
type Dataset struct {
	name  string
	files []string
}

// New creates a Dataset from filenames in docID order.
func New(name string, files []string) *Dataset {
	out := make([]string, len(files))
	copy(out, files)
	return &Dataset{name: name, files: out}
}

// FromDir lists image files directly under dir, sorted by name.
// Extension matching is case-insensitive; nil exts means DefaultExtensions.
func FromDir(name, dir string, exts []string) (*Dataset, error) {
	if exts == nil {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(filepath.Clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read image dir %s: %w", dir, domain.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read image dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if hasExt(e.Name(), exts) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return &Dataset{name: name, files: files}, nil
}

// FromList reads one filename per line. Blank lines and lines starting
// with '#' are skipped; file order is docID order.
func FromList(name, path string) (*Dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open image list %s: %w", path, domain.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("open image list %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var files []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read image list %s: %w", path, err)
	}
	return &Dataset{name: name, files: files}, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of documents.
func (d *Dataset) Len() int { return len(d.files) }

// DisplayPath returns the filename of docID.
func (d *Dataset) DisplayPath(docID int) (string, error) {
	if docID < 0 || docID >= len(d.files) {
		return "", domain.NewOutOfRange(docID, len(d.files))
	}
	return d.files[docID], nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
