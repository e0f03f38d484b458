package models

import "time"

// BasicInfo is the company's identity block.
type BasicInfo struct {
	CompanyNumber string  `json:"company_number"`
	CompanyName   *string `json:"company_name"`
	LegalForm     *string `json:"legal_form"`
	EuropeanID    *string `json:"european_id"`
	IsDeleted     bool    `json:"is_deleted"`
}

// Address is the registered business address. Any part may be empty.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// ManagementEntry is one function (role) held by a person in the company.
// PNR is only unique within a single registry extract.
type ManagementEntry struct {
	PNR         string `json:"pnr"`
	Name        string `json:"name"`
	DateOfBirth Date   `json:"date_of_birth"`
	Role        string `json:"role"`
	AppointedOn Date   `json:"appointed_on"`
}

// HistoryEvent is a registry entry, copied verbatim and never mutated.
type HistoryEvent struct {
	EventNumber string `json:"event_number"`
	EventDate   Date   `json:"event_date"`
	EventText   string `json:"event"`
	Court       string `json:"court"`
	FiledDate   Date   `json:"filed_date"`
}

// DocumentRef is a filed document that is not an annual financial statement.
type DocumentRef struct {
	Key        string `json:"id"`
	Type       string `json:"type"`
	FilingDate Date   `json:"filing_date"`
}

// FilingDelay is the delay of one fiscal year's filing.
type FilingDelay struct {
	FiscalYear int  `json:"fiscal_year"`
	Days       int  `json:"days"`
	IsLate     bool `json:"is_late"`
}

// YearCount is a banded count of years.
type YearCount struct {
	Value int       `json:"value"`
	Level RiskLevel `json:"level"`
}

// ComplianceRecord summarises filing discipline.
type ComplianceRecord struct {
	FilingDelays          []FilingDelay `json:"filing_delays"`
	AvgFilingDelay        *Indicator    `json:"avg_filing_delay"`
	MaxFilingDelay        *Indicator    `json:"max_filing_delay"`
	LateFilingFrequency   *Indicator    `json:"late_filing_frequency"`
	MissingReportingYears YearCount     `json:"missing_reporting_years"`
}

// RiskSummary is the aggregate risk indicator of a profile.
// RiskLevel is nil when there is no financial data.
type RiskSummary struct {
	HasReceiver    bool       `json:"has_receiver"`
	RiskLevel      *RiskLevel `json:"risk_level"`
	HighIndicators int        `json:"high_indicators"`
}

// EntityKeys are the canonical keys used to merge graph entities.
type EntityKeys struct {
	ManagerKeys []string `json:"manager_keys"`
	AddressKey  *string  `json:"address_key"`
}

// CompanyProfile is built fresh for every retrieval request.
type CompanyProfile struct {
	BasicInfo     BasicInfo         `json:"basic_info"`
	Location      *Address          `json:"location"`
	Management    []ManagementEntry `json:"management"`
	Financial     []FiscalYear      `json:"financial"`
	History       []HistoryEvent    `json:"history"`
	Documents     []DocumentRef     `json:"documents"`
	Compliance    ComplianceRecord  `json:"compliance_indicators"`
	Risk          RiskSummary       `json:"risk"`
	Keys          EntityKeys        `json:"keys"`
	ParseFailures []string          `json:"parse_failures,omitempty"`
	BuildID       string            `json:"build_id"`
	BuiltAt       time.Time         `json:"built_at"`
}

// MaxFinancialYears caps the number of parsed filings kept per profile.
const MaxFinancialYears = 3

// Latest returns the most recent fiscal year, or nil.
func (p *CompanyProfile) Latest() *FiscalYear {
	if len(p.Financial) == 0 {
		return nil
	}
	return &p.Financial[len(p.Financial)-1]
}

// Glance is the compact summary stored on a company node and shown for
// graph neighbours.
type Glance struct {
	CompanyID    string     `json:"company_id"`
	CompanyName  *string    `json:"company_name"`
	Deleted      bool       `json:"deleted"`
	LastFile     *Date      `json:"last_file,omitempty"`
	MissingYears *int       `json:"missing_years,omitempty"`
	ProfitLoss   *Indicator `json:"profit_loss,omitempty"`
	RiskLevel    *RiskLevel `json:"risk_level"`
	Error        string     `json:"error,omitempty"`
}
