package region

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/folio/internal/domain/attrs"
)

// ShapeRect is the only shape with a croppable bounding box.
const ShapeRect = "rect"

// identityTransform is the homography sent alongside every crop box.
const identityTransform = "1,0,0,0,1,0,0,0,1"

// Shape is a decoded region shape descriptor: a name plus geometry params.
type Shape struct {
	Name   string
	Params attrs.Map
}

// ParseShape decodes a shape descriptor such as
// {"name":"rect","x":267,"y":450,"width":576,"height":573}.
func ParseShape(raw string) (Shape, error) {
	m, err := attrs.ParseJSON(raw)
	if err != nil {
		return Shape{}, fmt.Errorf("parse shape: %w", err)
	}
	if m.Len() == 0 {
		return Shape{}, fmt.Errorf("parse shape: empty descriptor")
	}

	var s Shape
	for _, e := range m.Entries() {
		if e.Key == "name" {
			s.Name = attrs.Format(e.Value)
			continue
		}
		s.Params.Set(e.Key, e.Value)
	}
	return s, nil
}

// Rect returns the bounding box of a rect shape. Any other shape, or a
// rect with a missing or non-numeric coordinate, has no box.
func (s Shape) Rect() (CropBox, bool) {
	if s.Name != ShapeRect {
		return CropBox{}, false
	}
	var vals [4]int
	for i, k := range []string{"x", "y", "width", "height"} {
		v, ok := s.Params.Get(k)
		if !ok {
			return CropBox{}, false
		}
		n, ok := toInt(v)
		if !ok {
			return CropBox{}, false
		}
		vals[i] = n
	}
	return CropBox{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, true
}

// toInt truncates a JSON number, or a string holding one, toward zero.
func toInt(v any) (int, bool) {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = strings.TrimSpace(n)
	default:
		return 0, false
	}
	if i, err := strconv.Atoi(text); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// CropBox is an axis-aligned region bounding box in image pixels.
type CropBox struct {
	X, Y, Width, Height int
}

// Spec returns the query-string region specifier understood by the
// image-cropping endpoint.
func (b CropBox) Spec() string {
	return fmt.Sprintf("xl=%d&xu=%d&yl=%d&yu=%d&H=%s",
		b.X, b.X+b.Width, b.Y, b.Y+b.Height, identityTransform)
}
