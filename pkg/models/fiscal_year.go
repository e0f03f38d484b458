package models

// =============================================================================
// RISK BANDS
// =============================================================================

// RiskLevel is the band attached to a computed indicator.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Indicator is a computed ratio with its band.
// A nil *Indicator means the denominator was zero or absent.
type Indicator struct {
	Value float64   `json:"value"`
	Level RiskLevel `json:"level"`
}

// =============================================================================
// FISCAL YEAR
// =============================================================================

// Period is the accounting period covered by one filing.
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// BalanceSheet holds the raw line items of one filing.
// Lines absent from the document are 0.0, not missing: every ratio needs a
// numeric denominator. This is an approximation, not a data-quality guarantee.
type BalanceSheet struct {
	// Assets (HGB 224 (2))
	FixedAssets         float64 `json:"fixed_assets"`
	IntangibleAssets    float64 `json:"intangible_assets"`
	TangibleAssets      float64 `json:"tangible_assets"`
	FinancialAssets     float64 `json:"financial_assets"`
	CurrentAssets       float64 `json:"current_assets"`
	Inventories         float64 `json:"inventories"`
	Receivables         float64 `json:"receivables"`
	Securities          float64 `json:"securities"`
	CashAndBankBalances float64 `json:"cash_and_bank_balances"`
	PrepaidExpenses     float64 `json:"prepaid_expenses"`
	DeferredTaxAssets   float64 `json:"deferred_tax_assets"`
	TotalAssets         float64 `json:"total_assets"`

	// Equity and liabilities (HGB 224 (3))
	Equity                    float64 `json:"equity"`
	ShareCapital              float64 `json:"share_capital"`
	ShareCapitalSubitem       float64 `json:"share_capital_subitem"`
	ShareCapitalSubitemDetail float64 `json:"share_capital_subitem_detail"`
	CapitalReserves           float64 `json:"capital_reserves"`
	RevenueReserves           float64 `json:"revenue_reserves"`
	RetainedEarnings          float64 `json:"retained_earnings"`
	RetainedEarningsSubitem   float64 `json:"retained_earnings_subitem"`
	Liabilities               float64 `json:"liabilities"`
	DeferredIncome            float64 `json:"deferred_income"`
	DeferredTaxLiabilities    float64 `json:"deferred_tax_liabilities"`
	TotalLiabilities          float64 `json:"total_liabilities"`
}

// FiscalYear is one parsed annual filing plus its derived indicators.
// Trends is nil for the chronologically first year.
type FiscalYear struct {
	SourceKey      string `json:"source_key,omitempty"`
	SubmissionDate Date   `json:"submission_date"`
	FiscalYear     Period `json:"fiscal_year"`
	Currency       string `json:"currency"`
	DirectorName   string `json:"director_name"`

	BalanceSheet

	Indicators map[string]*Indicator `json:"indicators"`
	Trends     map[string]*float64   `json:"trends"`
}

// Clone returns a copy whose maps can be modified without touching y.
func (y FiscalYear) Clone() FiscalYear {
	out := y
	if y.Indicators != nil {
		out.Indicators = make(map[string]*Indicator, len(y.Indicators))
		for k, v := range y.Indicators {
			if v != nil {
				c := *v
				v = &c
			}
			out.Indicators[k] = v
		}
	}
	if y.Trends != nil {
		out.Trends = make(map[string]*float64, len(y.Trends))
		for k, v := range y.Trends {
			if v != nil {
				c := *v
				v = &c
			}
			out.Trends[k] = v
		}
	}
	return out
}
