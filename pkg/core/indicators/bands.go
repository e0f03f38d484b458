package indicators

import (
	"math"

	"company_profiler/pkg/models"
)

// Rule assigns Level to every value below Upper (or equal, if Inclusive).
type Rule struct {
	Level     models.RiskLevel
	Upper     float64
	Inclusive bool
}

// Band is an ordered list of rules with ascending upper bounds whose last
// rule is unbounded, so every value maps to exactly one level.
type Band []Rule

var inf = math.Inf(1)

// Classify returns the level of v.
func (b Band) Classify(v float64) models.RiskLevel {
	for _, r := range b {
		if v < r.Upper || (r.Inclusive && v == r.Upper) {
			return r.Level
		}
	}
	return b[len(b)-1].Level
}

// Levels returns the distinct levels the band can produce.
func (b Band) Levels() []models.RiskLevel {
	seen := make(map[models.RiskLevel]bool, len(b))
	var out []models.RiskLevel
	for _, r := range b {
		if !seen[r.Level] {
			seen[r.Level] = true
			out = append(out, r.Level)
		}
	}
	return out
}

// =============================================================================
// FINANCIAL RATIO BANDS
// =============================================================================

var (
	// WorkingCapitalBand: High if <= 0.
	WorkingCapitalBand = Band{
		{Level: models.RiskHigh, Upper: 0, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// DebtToEquityBand: Low < 1, Medium 1-2, High > 2.
	DebtToEquityBand = Band{
		{Level: models.RiskLow, Upper: 1},
		{Level: models.RiskMedium, Upper: 2, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
	// EquityRatioBand: High < 0.25, Medium 0.25-0.50, Low > 0.50.
	EquityRatioBand = Band{
		{Level: models.RiskHigh, Upper: 0.25},
		{Level: models.RiskMedium, Upper: 0.50, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// CurrentRatioBand: High < 1, Medium 1-2, Low > 2.
	CurrentRatioBand = Band{
		{Level: models.RiskHigh, Upper: 1},
		{Level: models.RiskMedium, Upper: 2, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// CashRatioBand: High < 0.2, Medium 0.2-1, Low > 1.
	CashRatioBand = Band{
		{Level: models.RiskHigh, Upper: 0.2},
		{Level: models.RiskMedium, Upper: 1, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// QuickRatioBand: High < 0.5, Medium 0.5-1, Low > 1.
	QuickRatioBand = Band{
		{Level: models.RiskHigh, Upper: 0.5},
		{Level: models.RiskMedium, Upper: 1, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// FixedAssetCoverageBand: High < 0.5, Medium 0.5-1.0, Low > 1.0.
	FixedAssetCoverageBand = Band{
		{Level: models.RiskHigh, Upper: 0.5},
		{Level: models.RiskMedium, Upper: 1, Inclusive: true},
		{Level: models.RiskLow, Upper: inf},
	}
	// ProfitLossBand: High if negative.
	ProfitLossBand = Band{
		{Level: models.RiskHigh, Upper: 0},
		{Level: models.RiskLow, Upper: inf},
	}
)

// =============================================================================
// COMPLIANCE AND AGGREGATE BANDS
// =============================================================================

var (
	// AvgFilingDelayBand in days: Low <= 90, Medium <= 273, High above.
	AvgFilingDelayBand = Band{
		{Level: models.RiskLow, Upper: 90, Inclusive: true},
		{Level: models.RiskMedium, Upper: 273, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
	// MaxFilingDelayBand in days: Low <= 180, Medium <= 273, High above.
	MaxFilingDelayBand = Band{
		{Level: models.RiskLow, Upper: 180, Inclusive: true},
		{Level: models.RiskMedium, Upper: 273, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
	// LateFilingFrequencyBand: Low < 0.2, Medium <= 0.5, High above.
	LateFilingFrequencyBand = Band{
		{Level: models.RiskLow, Upper: 0.2},
		{Level: models.RiskMedium, Upper: 0.5, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
	// MissingYearsBand: Low <= 0, Medium <= 2, High above.
	MissingYearsBand = Band{
		{Level: models.RiskLow, Upper: 0, Inclusive: true},
		{Level: models.RiskMedium, Upper: 2, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
	// RiskLevelBand maps the High-indicator count of the newest year to the
	// profile's overall level: 0-1 Low, 2-3 Medium, 4+ High.
	RiskLevelBand = Band{
		{Level: models.RiskLow, Upper: 1, Inclusive: true},
		{Level: models.RiskMedium, Upper: 3, Inclusive: true},
		{Level: models.RiskHigh, Upper: inf},
	}
)
