package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/models"
)

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name  string
		firma registry.Firma
		want  *models.Address
	}{
		{
			name: "street and place are joined",
			firma: registry.Firma{Addresses: []registry.FirmaAddress{{
				Street: []string{"Hauptplatz"}, Place: []string{"Top 3", " "}, HouseNumber: "7", PostalCode: "8010", City: "Graz",
			}}},
			want: &models.Address{Street: "Hauptplatz, Top 3", HouseNumber: "7", PostalCode: "8010", City: "Graz"},
		},
		{
			name:  "seat fallback",
			firma: registry.Firma{Seats: []registry.FirmaSeat{{Seat: "Linz"}}},
			want:  &models.Address{City: "Linz"},
		},
		{
			name:  "seat place text",
			firma: registry.Firma{Seats: []registry.FirmaSeat{{PlaceText: "Salzburg"}}},
			want:  &models.Address{City: "Salzburg"},
		},
		{
			name: "nothing",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLocation(&registry.MasterRecord{Firma: tt.firma})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractManagement_NameFallbacks(t *testing.T) {
	rec := &registry.MasterRecord{
		Functions: []registry.Function{
			{PNRElem: "A", Text: "Prokurist"},
			{PNRElem: "B", Text: "Gesellschafter"},
			{PNRElem: "C", Text: "Geschäftsführer"},
		},
		Persons: []registry.Person{
			{PNRElem: "A", Details: []registry.PersonDetails{{FormattedName: []string{"Dr. Anna Berg"}, FirstName: "Anna", LastName: "Berg"}}},
			{PNRElem: "B", Details: []registry.PersonDetails{{Designation: []string{"Holding AG"}}}},
			{PNRElem: "C", Details: []registry.PersonDetails{{FirstName: "Karl", LastName: "Huber", BirthDate: "1970-02-03"}}},
		},
	}

	got := ExtractManagement(rec)
	require.Len(t, got, 3)
	assert.Equal(t, "Dr. Anna Berg", got[0].Name)
	assert.Equal(t, "Holding AG", got[1].Name)
	assert.Equal(t, "Karl Huber", got[2].Name)
	assert.Equal(t, models.NewDate(1970, time.February, 3), got[2].DateOfBirth)
	assert.True(t, got[0].DateOfBirth.IsZero())
}

func TestExtractHistory_VerbatimAndLenientDates(t *testing.T) {
	rec := &registry.MasterRecord{History: []registry.HistoryEntry{
		{VNRElem: "3", CompletedOn: "garbage", Texts: []string{"Löschung wegen Vermögenslosigkeit", "second"}, Court: "LG Feldkirch", ReceivedOn: "20240102"},
	}}

	got := ExtractHistory(rec)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].EventNumber)
	assert.Equal(t, "Löschung wegen Vermögenslosigkeit", got[0].EventText)
	assert.True(t, got[0].EventDate.IsZero())
	assert.Equal(t, models.NewDate(2024, time.January, 2), got[0].FiledDate)
}

func TestExtractBasicInfo_EmptyLists(t *testing.T) {
	info := ExtractBasicInfo(&registry.MasterRecord{FNRElem: "99999z"})
	assert.Equal(t, "99999z", info.CompanyNumber)
	assert.Nil(t, info.CompanyName)
	assert.Nil(t, info.LegalForm)
	assert.Nil(t, info.EuropeanID)
}
