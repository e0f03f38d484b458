package profile

import (
	"strings"

	"company_profiler/pkg/core/indicators"
	"company_profiler/pkg/models"
)

// receiverKeywords mark a role held by an insolvency or restructuring
// administrator. Matched case-insensitively.
var receiverKeywords = []string{
	"insolvenzverwalter",
	"masseverwalter",
	"sanierungsverwalter",
	"receiver",
	"administrator",
}

// HasReceiver reports whether any role names a receiver or administrator.
func HasReceiver(management []models.ManagementEntry) bool {
	for _, m := range management {
		role := strings.ToLower(m.Role)
		for _, kw := range receiverKeywords {
			if strings.Contains(role, kw) {
				return true
			}
		}
	}
	return false
}

// Summarize derives the aggregate risk from the newest fiscal year. financial
// must be chronological. Without financial data the level is nil.
func Summarize(management []models.ManagementEntry, financial []models.FiscalYear) models.RiskSummary {
	summary := models.RiskSummary{HasReceiver: HasReceiver(management)}
	if len(financial) == 0 {
		return summary
	}
	summary.HighIndicators = indicators.HighCount(financial[len(financial)-1])
	level := indicators.RiskLevelBand.Classify(float64(summary.HighIndicators))
	summary.RiskLevel = &level
	return summary
}
