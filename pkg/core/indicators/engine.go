// Package indicators derives banded financial ratios and year-over-year
// trends from parsed fiscal years.
package indicators

import (
	"sort"

	"company_profiler/pkg/models"
)

// Indicator keys.
const (
	KeyWorkingCapital     = "working_capital"
	KeyDebtToEquity       = "debt_to_equity"
	KeyEquityRatio        = "equity_ratio"
	KeyCurrentRatio       = "current_ratio"
	KeyCashRatio          = "cash_ratio"
	KeyQuickRatio         = "quick_ratio"
	KeyFixedAssetCoverage = "fixed_asset_coverage"
	KeyProfitLoss         = "profit_loss"
)

// Trend keys.
const (
	TrendAssetGrowth      = "asset_growth_rate"
	TrendEquityGrowth     = "equity_growth_rate"
	TrendProfitLossGrowth = "profit_loss_growth_rate"
	TrendEquityRatio      = "equity_ratio_delta"
	TrendTotalAssets      = "total_assets_delta"
	TrendWorkingCapital   = "working_capital_delta"
	TrendCurrentRatio     = "current_ratio_delta"
	TrendDebtToEquity     = "debt_to_equity_delta"
)

// IndicatorBands lists every per-year indicator with its band.
var IndicatorBands = map[string]Band{
	KeyWorkingCapital:     WorkingCapitalBand,
	KeyDebtToEquity:       DebtToEquityBand,
	KeyEquityRatio:        EquityRatioBand,
	KeyCurrentRatio:       CurrentRatioBand,
	KeyCashRatio:          CashRatioBand,
	KeyQuickRatio:         QuickRatioBand,
	KeyFixedAssetCoverage: FixedAssetCoverageBand,
	KeyProfitLoss:         ProfitLossBand,
}

// Compute returns copies of years sorted oldest to newest with indicators
// and trends filled in. The input is left untouched. The first year's
// trends are nil.
func Compute(years []models.FiscalYear) []models.FiscalYear {
	out := make([]models.FiscalYear, len(years))
	for i := range years {
		out[i] = years[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].FiscalYear, out[j].FiscalYear
		if !a.End.Equal(b.End.Time) {
			return a.End.Before(b.End.Time)
		}
		return a.Start.Before(b.Start.Time)
	})

	for i := range out {
		out[i].Indicators = YearIndicators(out[i].BalanceSheet)
		if i == 0 {
			out[i].Trends = nil
			continue
		}
		out[i].Trends = YearTrends(out[i-1], out[i])
	}
	return out
}

// YearIndicators computes the banded ratios of one balance sheet. A ratio
// whose denominator is zero is present with a nil value.
func YearIndicators(bs models.BalanceSheet) map[string]*models.Indicator {
	quick := QuickAssets(bs.CashAndBankBalances, bs.Securities, bs.Receivables)
	wc := WorkingCapital(bs.CurrentAssets, bs.DeferredIncome)
	pl := ProfitLoss(bs.RetainedEarnings, bs.RetainedEarningsSubitem)

	values := map[string]*float64{
		KeyWorkingCapital:     &wc,
		KeyDebtToEquity:       DebtToEquity(bs.Liabilities, bs.Equity),
		KeyEquityRatio:        EquityRatio(bs.Equity, bs.TotalLiabilities),
		KeyCurrentRatio:       CurrentRatio(bs.CurrentAssets, bs.DeferredIncome),
		KeyCashRatio:          CashRatio(bs.CashAndBankBalances, bs.DeferredIncome),
		KeyQuickRatio:         QuickRatio(quick, bs.DeferredIncome),
		KeyFixedAssetCoverage: FixedAssetCoverage(bs.Equity, bs.FixedAssets),
		KeyProfitLoss:         &pl,
	}

	out := make(map[string]*models.Indicator, len(values))
	for key, v := range values {
		if v == nil {
			out[key] = nil
			continue
		}
		out[key] = &models.Indicator{Value: *v, Level: IndicatorBands[key].Classify(*v)}
	}
	return out
}

// YearTrends compares curr against prev. Both must carry indicators.
func YearTrends(prev, curr models.FiscalYear) map[string]*float64 {
	prevPL, currPL := indicatorValue(prev, KeyProfitLoss), indicatorValue(curr, KeyProfitLoss)

	trends := map[string]*float64{
		TrendAssetGrowth:    GrowthRate(curr.TotalAssets, prev.TotalAssets),
		TrendEquityGrowth:   GrowthRate(curr.Equity, prev.Equity),
		TrendTotalAssets:    Delta(&prev.TotalAssets, &curr.TotalAssets),
		TrendEquityRatio:    delta(prev, curr, KeyEquityRatio),
		TrendWorkingCapital: delta(prev, curr, KeyWorkingCapital),
		TrendCurrentRatio:   delta(prev, curr, KeyCurrentRatio),
		TrendDebtToEquity:   delta(prev, curr, KeyDebtToEquity),
	}
	trends[TrendProfitLossGrowth] = nil
	if prevPL != nil && currPL != nil {
		trends[TrendProfitLossGrowth] = GrowthRate(*currPL, *prevPL)
	}
	return trends
}

// HighCount returns how many of the year's indicators are High.
func HighCount(year models.FiscalYear) int {
	n := 0
	for _, ind := range year.Indicators {
		if ind != nil && ind.Level == models.RiskHigh {
			n++
		}
	}
	return n
}

func delta(prev, curr models.FiscalYear, key string) *float64 {
	return Delta(indicatorValue(prev, key), indicatorValue(curr, key))
}

func indicatorValue(y models.FiscalYear, key string) *float64 {
	ind := y.Indicators[key]
	if ind == nil {
		return nil
	}
	v := ind.Value
	return &v
}
