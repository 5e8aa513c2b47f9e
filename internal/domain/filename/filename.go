// Package filename splits page-image filenames into catalog identifier,
// secondary identifier and folio designator.
//
// Two naming conventions are recognised:
//
//	ia00152000_00202205_i2v.jpg   (two underscores)
//	ia00149000_00200293 a2r.jpg   (one underscore, one space)
//
// Anything else falls back to a fixed-width split that drops the folio.
package filename

import "strings"

// UnknownFolio replaces an empty folio.
const UnknownFolio = "_UNKNOWN_"

// fallbackWidth is the secondary identifier width assumed by the fallback split.
const fallbackWidth = 7

// Kind tells which naming convention produced a Parsed value.
type Kind int

const (
	// KindUnderscore is CATALOG_SECONDARY_FOLIO.ext.
	KindUnderscore Kind = iota + 1
	// KindSpace is CATALOG_SECONDARY FOLIO.ext.
	KindSpace
	// KindFallback is any other name; the folio is discarded.
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindUnderscore:
		return "underscore"
	case KindSpace:
		return "space"
	case KindFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Parsed is the result of Parse.
type Parsed struct {
	CatalogID   string
	SecondaryID string
	Folio       string
	Kind        Kind
}

// Confident reports whether the name matched one of the known conventions.
func (p Parsed) Confident() bool { return p.Kind != KindFallback }

// FolioKnown reports whether a folio was extracted.
func (p Parsed) FolioKnown() bool { return p.Folio != UnknownFolio }

// FolioGroup returns the first character of the folio, or UnknownFolio.
func (p Parsed) FolioGroup() string {
	if !p.FolioKnown() || p.Folio == "" {
		return UnknownFolio
	}
	for _, r := range p.Folio {
		return string(r)
	}
	return UnknownFolio
}

// Parse never fails: names that match no convention degrade to the
// fallback split, and an empty folio becomes UnknownFolio.
func Parse(name string) Parsed {
	stem := name
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		stem = name[:dot]
	}

	underscores := strings.Count(stem, "_")
	spaces := strings.Count(stem, " ")

	var p Parsed
	switch {
	case underscores == 2:
		catalogID, rest, _ := strings.Cut(stem, "_")
		secondaryID, folio, _ := strings.Cut(rest, "_")
		p = Parsed{CatalogID: catalogID, SecondaryID: secondaryID, Folio: folio, Kind: KindUnderscore}
	case underscores == 1 && spaces == 1:
		catalogID, rest, _ := strings.Cut(stem, "_")
		secondaryID, folio, _ := strings.Cut(rest, " ")
		p = Parsed{CatalogID: catalogID, SecondaryID: secondaryID, Folio: folio, Kind: KindSpace}
	default:
		p = fallback(name, stem)
	}

	if p.Folio == "" {
		p.Folio = UnknownFolio
	}
	return p
}

// fallback keeps the text before the first underscore and the fixed-width
// slice after it, measured on the full name including the extension.
func fallback(name, stem string) Parsed {
	catalogID, rest, found := strings.Cut(name, "_")
	if !found {
		return Parsed{CatalogID: stem, Kind: KindFallback}
	}
	r := []rune(rest)
	if len(r) > fallbackWidth {
		r = r[:fallbackWidth]
	}
	return Parsed{CatalogID: catalogID, SecondaryID: string(r), Kind: KindFallback}
}
