package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/core/registry/registrytest"
	"company_profiler/pkg/core/searchcache"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		term string
		want Mode
	}{
		{"123456a", ModeNumber},
		{" 12345Z ", ModeNumber},
		{"1234a", ModeName},
		{"1234567a", ModeName},
		{"123456", ModeName},
		{"Muster GmbH", ModeName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMode(tt.term), tt.term)
	}
}

func hits(n int) []registry.CompanySummary {
	out := make([]registry.CompanySummary, n)
	for i := range out {
		out[i] = registry.CompanySummary{CompanyNumber: fmt.Sprintf("%06da", i), Status: "active", Name: fmt.Sprintf("Firma %d", i)}
	}
	return out
}

func newService(fake *registrytest.Fake, clk clock.Clock) *Service {
	return NewService(fake, searchcache.New[[]registry.CompanySummary](8, 10*time.Minute, clk), nil)
}

func TestSearch_Pagination(t *testing.T) {
	fake := registrytest.New()
	fake.Searches["muster"] = hits(32)
	svc := newService(fake, nil)

	tests := []struct {
		page      int
		wantPage  int
		wantCount int
		wantFirst string
	}{
		{1, 1, 15, "000000a"},
		{2, 2, 15, "000015a"},
		{3, 3, 2, "000030a"},
		{99, 3, 2, "000030a"},
		{0, 1, 15, "000000a"},
		{-4, 1, 15, "000000a"},
	}
	for _, tt := range tests {
		res, err := svc.Search(context.Background(), "muster", tt.page)
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, tt.wantPage, res.Page)
		require.Len(t, res.Companies, tt.wantCount)
		assert.Equal(t, tt.wantFirst, res.Companies[0].CompanyNumber)
	}
	assert.Equal(t, 1, fake.CallCount("SearchCompanies"), "later pages come from the cache")
}

func TestSearch_EmptyResultHasOnePage(t *testing.T) {
	svc := newService(registrytest.New(), nil)
	res, err := svc.Search(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Empty(t, res.Companies)
}

func TestSearch_CacheIsCaseInsensitiveAndExpires(t *testing.T) {
	fake := registrytest.New()
	fake.Searches["Muster"] = hits(1)
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := newService(fake, clk)

	_, err := svc.Search(context.Background(), "Muster", 1)
	require.NoError(t, err)
	res, err := svc.Search(context.Background(), "MUSTER", 1)
	require.NoError(t, err)
	assert.Len(t, res.Companies, 1)
	assert.Equal(t, 1, fake.CallCount("SearchCompanies"))

	clk.Advance(10 * time.Minute)
	_, err = svc.Search(context.Background(), "muster", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.CallCount("SearchCompanies"))
}

func TestSearch_ByNumber(t *testing.T) {
	fake := registrytest.New()
	fake.Records["123456a"] = &registry.MasterRecord{
		FNRAttr: "123456a",
		Firma: registry.Firma{
			Names: []registry.FirmaName{{Designation: []string{"Muster GmbH"}}},
			Seats: []registry.FirmaSeat{{Seat: "Wien"}},
		},
		History: []registry.HistoryEntry{
			{Texts: []string{"Neueintragung"}},
			{Texts: []string{"Amtswegige Löschung"}},
		},
	}
	svc := newService(fake, nil)

	res, err := svc.Search(context.Background(), "123456A", 1)
	require.NoError(t, err)
	require.Len(t, res.Companies, 1)
	assert.Equal(t, registry.CompanySummary{CompanyNumber: "123456a", Status: "deleted", Name: "Muster GmbH", Location: "Wien"}, res.Companies[0])
	assert.Zero(t, fake.CallCount("SearchCompanies"))
}

func TestSearch_Errors(t *testing.T) {
	fake := registrytest.New()
	svc := newService(fake, nil)

	_, err := svc.Search(context.Background(), " ", 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Search(context.Background(), "654321b", 1)
	assert.ErrorIs(t, err, registry.ErrUpstreamUnavailable)

	fake.Err = &registry.UpstreamError{Op: "SUCHEFIRMA", Message: "Suchbegriff zu kurz"}
	_, err = svc.Search(context.Background(), "ab", 1)
	assert.ErrorIs(t, err, registry.ErrUpstreamUnavailable)
	msg, ok := registry.UpstreamMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Suchbegriff zu kurz", msg)
}
