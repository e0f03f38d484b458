// Package registrytest provides an in-memory registry.Client for tests.
package registrytest

import (
	"context"
	"fmt"
	"sync"

	"company_profiler/pkg/core/registry"
)

// Fake serves canned register data and counts calls per operation.
type Fake struct {
	mu sync.Mutex

	Records   map[string]*registry.MasterRecord
	Listings  map[string][]registry.DocumentListing
	Documents map[string][]byte
	Searches  map[string][]registry.CompanySummary

	// Err, when set, is returned by every call.
	Err error

	Calls map[string]int
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		Records:   map[string]*registry.MasterRecord{},
		Listings:  map[string][]registry.DocumentListing{},
		Documents: map[string][]byte{},
		Searches:  map[string][]registry.CompanySummary{},
		Calls:     map[string]int{},
	}
}

func (f *Fake) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[op]++
	return f.Err
}

// CallCount returns how often op was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}

func (f *Fake) FetchMasterRecord(_ context.Context, companyNumber string) (*registry.MasterRecord, error) {
	if err := f.record("FetchMasterRecord"); err != nil {
		return nil, err
	}
	rec, ok := f.Records[companyNumber]
	if !ok {
		return nil, &registry.UpstreamError{Op: "AUSZUG_V2_", Message: fmt.Sprintf("Firmenbuchnummer %s nicht gefunden", companyNumber)}
	}
	return rec, nil
}

func (f *Fake) FetchDocumentList(_ context.Context, companyNumber string) ([]registry.DocumentListing, error) {
	if err := f.record("FetchDocumentList"); err != nil {
		return nil, err
	}
	return f.Listings[companyNumber], nil
}

func (f *Fake) FetchDocumentBytes(_ context.Context, key string) ([]byte, error) {
	if err := f.record("FetchDocumentBytes"); err != nil {
		return nil, err
	}
	doc, ok := f.Documents[key]
	if !ok {
		return nil, &registry.UpstreamError{Op: "URKUNDE", Message: "Urkunde nicht gefunden"}
	}
	return doc, nil
}

func (f *Fake) SearchCompanies(_ context.Context, name string) ([]registry.CompanySummary, error) {
	if err := f.record("SearchCompanies"); err != nil {
		return nil, err
	}
	return f.Searches[name], nil
}

var _ registry.Client = (*Fake)(nil)
