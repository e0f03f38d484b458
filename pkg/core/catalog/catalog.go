// Package catalog turns a company's raw document list into the filings the
// profile needs: the latest annual-statement XMLs, the count of distinct
// filings, and everything else for listing.
package catalog

import (
	"sort"
	"time"

	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/models"
)

// DefaultMaxAnnualXML is the number of annual-statement XMLs kept.
const DefaultMaxAnnualXML = models.MaxFinancialYears

// MissingDate sorts documents without a filing date first.
var MissingDate = models.NewDate(1900, time.January, 1)

// Options tunes Build.
type Options struct {
	// MaxAnnualXML caps AnnualXMLKeys; zero means DefaultMaxAnnualXML.
	MaxAnnualXML int
}

// Catalog is the result of Build.
type Catalog struct {
	// Others are the non-annual-statement documents, ascending by filing date.
	Others []models.DocumentRef
	// AnnualXMLKeys are the newest annual-statement XML keys, newest first.
	AnnualXMLKeys []string
	// DistinctFilingYears counts each filing reference once, whatever the
	// number of renditions.
	DistinctFilingYears int
	// Rejected holds annual-statement keys that failed to parse.
	Rejected []string
}

// Build classifies listings, which must be in register order (oldest first,
// PDFs before XMLs). The input is not modified.
func Build(listings []registry.DocumentListing, opts Options) Catalog {
	maxXML := opts.MaxAnnualXML
	if maxXML <= 0 {
		maxXML = DefaultMaxAnnualXML
	}

	var cat Catalog
	counted := make(map[string]bool)
	collected := make(map[string]bool)

	// newest first, so the first occurrence of a filing is its latest revision
	for i := len(listings) - 1; i >= 0; i-- {
		l := listings[i]
		if l.TypeLabel != registry.AnnualStatementLabel {
			filed := l.FilingDate
			if filed.IsZero() {
				filed = MissingDate
			}
			cat.Others = append(cat.Others, models.DocumentRef{Key: l.Key, Type: l.TypeLabel, FilingDate: filed})
			continue
		}

		key, err := ParseDocumentKey(l.Key)
		if err != nil {
			cat.Rejected = append(cat.Rejected, l.Key)
			continue
		}

		ref := key.FilingReference()
		if !counted[ref] {
			counted[ref] = true
			cat.DistinctFilingYears++
		}
		if key.IsXML() && !collected[ref] {
			collected[ref] = true
			cat.AnnualXMLKeys = append(cat.AnnualXMLKeys, l.Key)
		}
	}

	if len(cat.AnnualXMLKeys) > maxXML {
		cat.AnnualXMLKeys = cat.AnnualXMLKeys[:maxXML]
	}
	sort.SliceStable(cat.Others, func(i, j int) bool {
		return cat.Others[i].FilingDate.Before(cat.Others[j].FilingDate.Time)
	})
	return cat
}
