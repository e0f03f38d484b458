// Package registry is the transport to the company register web service.
//
// The register answers SOAP 1.2 requests. Every list in a master record may
// legitimately be empty, so the types below never assume presence.
package registry

import (
	"context"
	"encoding/xml"
	"strings"

	"company_profiler/pkg/models"
)

// Client is the black-box contract the profile pipeline consumes.
type Client interface {
	FetchMasterRecord(ctx context.Context, companyNumber string) (*MasterRecord, error)
	FetchDocumentList(ctx context.Context, companyNumber string) ([]DocumentListing, error)
	FetchDocumentBytes(ctx context.Context, key string) ([]byte, error)
	SearchCompanies(ctx context.Context, name string) ([]CompanySummary, error)
}

// AnnualStatementLabel is the document type label of an annual financial
// statement filing.
const AnnualStatementLabel = "Jahresabschluss"

// DocumentListing is one entry of a company's document search result.
type DocumentListing struct {
	Key        string
	TypeLabel  string
	FilingDate models.Date
}

// CompanySummary is one hit of a name search.
type CompanySummary struct {
	CompanyNumber string `json:"fnr"`
	Status        string `json:"status"`
	Name          string `json:"name"`
	Location      string `json:"location"`
}

// =============================================================================
// MASTER RECORD (AUSZUG)
// =============================================================================

// MasterRecord is the register extract of one company.
type MasterRecord struct {
	XMLName   xml.Name
	FNRAttr   string         `xml:"FNR,attr"`
	FNRElem   string         `xml:"FNR"`
	Firma     Firma          `xml:"FIRMA"`
	EUID      []EUIDEntry    `xml:"EUID"`
	Functions []Function     `xml:"FUN"`
	Persons   []Person       `xml:"PER"`
	History   []HistoryEntry `xml:"VOLLZ"`
}

// CompanyNumber returns the FNR whether it was sent as attribute or element.
func (m *MasterRecord) CompanyNumber() string {
	return firstNonEmpty(m.FNRAttr, m.FNRElem)
}

type Firma struct {
	Names      []FirmaName      `xml:"FI_DKZ02"`
	Addresses  []FirmaAddress   `xml:"FI_DKZ03"`
	Seats      []FirmaSeat      `xml:"FI_DKZ06"`
	LegalForms []FirmaLegalForm `xml:"FI_DKZ07"`
}

type FirmaName struct {
	Designation []string `xml:"BEZEICHNUNG"`
}

type FirmaAddress struct {
	Street      []string `xml:"STRASSE"`
	Place       []string `xml:"STELLE"`
	HouseNumber string   `xml:"HAUSNUMMER"`
	PostalCode  string   `xml:"PLZ"`
	City        string   `xml:"ORT"`
	Country     string   `xml:"STAAT"`
}

type FirmaSeat struct {
	Seat      string `xml:"SITZ"`
	PlaceText string `xml:"ORTNR>TEXT"`
}

type FirmaLegalForm struct {
	Code string `xml:"RECHTSFORM>CODE"`
	Text string `xml:"RECHTSFORM>TEXT"`
}

type EUIDEntry struct {
	EUID string `xml:"EUID"`
}

// Function is a role (FUN) held by the person with the same PNR.
type Function struct {
	PNRAttr string           `xml:"PNR,attr"`
	PNRElem string           `xml:"PNR"`
	Code    string           `xml:"FKEN"`
	Text    string           `xml:"FKENTEXT"`
	Periods []FunctionPeriod `xml:"FU_DKZ10"`
}

func (f *Function) PNR() string { return firstNonEmpty(f.PNRAttr, f.PNRElem) }

type FunctionPeriod struct {
	From string `xml:"DATVON"`
}

type Person struct {
	PNRAttr string          `xml:"PNR,attr"`
	PNRElem string          `xml:"PNR"`
	Details []PersonDetails `xml:"PE_DKZ02"`
}

func (p *Person) PNR() string { return firstNonEmpty(p.PNRAttr, p.PNRElem) }

type PersonDetails struct {
	FormattedName []string `xml:"NAME_FORMATIERT"`
	Designation   []string `xml:"BEZEICHNUNG"`
	FirstName     string   `xml:"VORNAME"`
	LastName      string   `xml:"NACHNAME"`
	BirthDate     string   `xml:"GEBURTSDATUM"`
}

// HistoryEntry is one completed register entry (Vollzug).
type HistoryEntry struct {
	VNRAttr     string   `xml:"VNR,attr"`
	VNRElem     string   `xml:"VNR"`
	CompletedOn string   `xml:"VOLLZUGSDATUM"`
	Texts       []string `xml:"ANTRAGSTEXT"`
	Court       string   `xml:"HG>TEXT"`
	ReceivedOn  string   `xml:"EINGELANGTAM"`
}

func (h *HistoryEntry) VNR() string { return firstNonEmpty(h.VNRAttr, h.VNRElem) }

// DecodeMasterRecord parses a standalone extract document, as found in the
// register's bulk export archives.
func DecodeMasterRecord(data []byte) (*MasterRecord, error) {
	var rec MasterRecord
	if err := xml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
