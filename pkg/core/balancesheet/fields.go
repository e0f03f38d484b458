package balancesheet

import "company_profiler/pkg/models"

// Field binds one balance-sheet line to its HGB position code. Every line
// is read from .//<Code>/POSTENZEILE/BETRAG inside the balance container and
// takes Default when the node is absent.
type Field struct {
	Name    string
	Code    string
	Default float64
	target  func(*models.BalanceSheet) *float64
}

// Fields is the single table of balance-sheet lines and their defaults.
var Fields = []Field{
	// Assets
	{Name: "fixed_assets", Code: "HGB_224_2_A", target: func(b *models.BalanceSheet) *float64 { return &b.FixedAssets }},
	{Name: "intangible_assets", Code: "HGB_224_2_A_I", target: func(b *models.BalanceSheet) *float64 { return &b.IntangibleAssets }},
	{Name: "tangible_assets", Code: "HGB_224_2_A_II", target: func(b *models.BalanceSheet) *float64 { return &b.TangibleAssets }},
	{Name: "financial_assets", Code: "HGB_224_2_A_III", target: func(b *models.BalanceSheet) *float64 { return &b.FinancialAssets }},
	{Name: "current_assets", Code: "HGB_224_2_B", target: func(b *models.BalanceSheet) *float64 { return &b.CurrentAssets }},
	{Name: "inventories", Code: "HGB_224_2_B_I", target: func(b *models.BalanceSheet) *float64 { return &b.Inventories }},
	{Name: "receivables", Code: "HGB_224_2_B_II", target: func(b *models.BalanceSheet) *float64 { return &b.Receivables }},
	{Name: "securities", Code: "HGB_224_2_B_III", target: func(b *models.BalanceSheet) *float64 { return &b.Securities }},
	{Name: "cash_and_bank_balances", Code: "HGB_224_2_B_IV", target: func(b *models.BalanceSheet) *float64 { return &b.CashAndBankBalances }},
	{Name: "prepaid_expenses", Code: "HGB_224_2_C", target: func(b *models.BalanceSheet) *float64 { return &b.PrepaidExpenses }},
	{Name: "deferred_tax_assets", Code: "HGB_224_2_D", target: func(b *models.BalanceSheet) *float64 { return &b.DeferredTaxAssets }},
	{Name: "total_assets", Code: "HGB_224_2", target: func(b *models.BalanceSheet) *float64 { return &b.TotalAssets }},

	// Equity and liabilities
	{Name: "equity", Code: "HGB_224_3_A", target: func(b *models.BalanceSheet) *float64 { return &b.Equity }},
	{Name: "share_capital", Code: "HGB_229_1_A_I", target: func(b *models.BalanceSheet) *float64 { return &b.ShareCapital }},
	{Name: "share_capital_subitem", Code: "HGB_224_3_A_I_a", target: func(b *models.BalanceSheet) *float64 { return &b.ShareCapitalSubitem }},
	{Name: "share_capital_subitem_detail", Code: "HGB_229_1_A_I_a", target: func(b *models.BalanceSheet) *float64 { return &b.ShareCapitalSubitemDetail }},
	{Name: "capital_reserves", Code: "HGB_224_3_A_II", target: func(b *models.BalanceSheet) *float64 { return &b.CapitalReserves }},
	{Name: "revenue_reserves", Code: "HGB_224_3_A_III", target: func(b *models.BalanceSheet) *float64 { return &b.RevenueReserves }},
	{Name: "retained_earnings", Code: "HGB_224_3_A_IV", target: func(b *models.BalanceSheet) *float64 { return &b.RetainedEarnings }},
	{Name: "retained_earnings_subitem", Code: "HGB_224_3_A_IV_x", target: func(b *models.BalanceSheet) *float64 { return &b.RetainedEarningsSubitem }},
	{Name: "liabilities", Code: "HGB_224_3_C", target: func(b *models.BalanceSheet) *float64 { return &b.Liabilities }},
	{Name: "deferred_income", Code: "HGB_224_3_D", target: func(b *models.BalanceSheet) *float64 { return &b.DeferredIncome }},
	{Name: "deferred_tax_liabilities", Code: "HGB_224_3_E", target: func(b *models.BalanceSheet) *float64 { return &b.DeferredTaxLiabilities }},
	{Name: "total_liabilities", Code: "HGB_224_3", target: func(b *models.BalanceSheet) *float64 { return &b.TotalLiabilities }},
}

// Value reads the field's line from b.
func (f Field) Value(b *models.BalanceSheet) float64 {
	return *f.target(b)
}
