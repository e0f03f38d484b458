package profile

import (
	"company_profiler/pkg/core/indicators"
	"company_profiler/pkg/models"
)

// NoFinancialData is the glance error for companies without parsed filings.
const NoFinancialData = "Financial data is unavailable"

// Glance condenses p into the summary stored on its graph node.
func Glance(p *models.CompanyProfile) models.Glance {
	g := models.Glance{
		CompanyID:   p.BasicInfo.CompanyNumber,
		CompanyName: p.BasicInfo.CompanyName,
		Deleted:     p.BasicInfo.IsDeleted,
		RiskLevel:   p.Risk.RiskLevel,
	}
	latest := p.Latest()
	if latest == nil {
		g.Error = NoFinancialData
		return g
	}

	lastFile := latest.SubmissionDate
	missing := p.Compliance.MissingReportingYears.Value
	g.LastFile = &lastFile
	g.MissingYears = &missing
	if pl := latest.Indicators[indicators.KeyProfitLoss]; pl != nil {
		v := *pl
		g.ProfitLoss = &v
	}
	return g
}
