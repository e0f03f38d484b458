package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedKey is returned for document keys that do not follow the
// register's key grammar.
var ErrMalformedKey = errors.New("malformed document key")

// ContentType is the trailing segment of a document key.
type ContentType string

const (
	ContentPDF ContentType = "PDF"
	ContentXML ContentType = "XML"
)

const (
	keySegments     = 9
	filingRefLength = 13
)

// DocumentKey is a decoded register document key:
//
//	FNR_AZ_ZNR_PNR_FKEN_UNR_DKZ_URKID_CONTENTTYPE
//
// e.g. 435836_5690342302057_000___000_30_30137347_XML. Empty segments are
// legal except FNR, AZ and the content type. AZ, the filing reference, is
// shared by the PDF and XML renditions of the same filing.
type DocumentKey struct {
	FNR         string
	AZ          string
	ZNR         string
	PNR         string
	FKEN        string
	UNR         string
	DKZ         string
	URKID       string
	ContentType ContentType
}

// ParseDocumentKey decodes s, rejecting anything outside the grammar.
func ParseDocumentKey(s string) (DocumentKey, error) {
	parts := strings.Split(s, "_")
	if len(parts) != keySegments {
		return DocumentKey{}, fmt.Errorf("%w: %q has %d segments, want %d", ErrMalformedKey, s, len(parts), keySegments)
	}
	k := DocumentKey{
		FNR:         parts[0],
		AZ:          parts[1],
		ZNR:         parts[2],
		PNR:         parts[3],
		FKEN:        parts[4],
		UNR:         parts[5],
		DKZ:         parts[6],
		URKID:       parts[7],
		ContentType: ContentType(parts[8]),
	}
	if k.FNR == "" {
		return DocumentKey{}, fmt.Errorf("%w: %q has no company number", ErrMalformedKey, s)
	}
	if len(k.AZ) != filingRefLength {
		return DocumentKey{}, fmt.Errorf("%w: %q filing reference %q is not %d characters", ErrMalformedKey, s, k.AZ, filingRefLength)
	}
	if k.ContentType != ContentPDF && k.ContentType != ContentXML {
		return DocumentKey{}, fmt.Errorf("%w: %q has unknown content type %q", ErrMalformedKey, s, parts[8])
	}
	return k, nil
}

// String encodes k back into its key form.
func (k DocumentKey) String() string {
	return strings.Join([]string{
		k.FNR, k.AZ, k.ZNR, k.PNR, k.FKEN, k.UNR, k.DKZ, k.URKID, string(k.ContentType),
	}, "_")
}

// FilingReference returns the segment identifying the underlying filing.
func (k DocumentKey) FilingReference() string { return k.AZ }

// IsXML reports whether the key addresses the structured XML rendition.
func (k DocumentKey) IsXML() bool { return k.ContentType == ContentXML }
