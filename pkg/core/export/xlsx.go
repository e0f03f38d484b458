// Package export renders a company profile as an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"company_profiler/pkg/core/balancesheet"
	"company_profiler/pkg/core/indicators"
	"company_profiler/pkg/models"
)

const (
	SheetSummary   = "summary"
	SheetFinancial = "financial"
	SheetDocuments = "documents"
)

// ProfileXLSX returns a workbook with a summary sheet, the financial years
// side by side (one column per year, oldest first) and the document list.
func ProfileXLSX(p *models.CompanyProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetFinancial, SheetDocuments} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	writers := []struct {
		sheet string
		rows  [][]any
	}{
		{SheetSummary, summaryRows(p)},
		{SheetFinancial, financialRows(p.Financial)},
		{SheetDocuments, documentRows(p.Documents)},
	}
	for _, w := range writers {
		if err := writeRows(f, w.sheet, w.rows, header); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRows writes rows from A1 down and bolds the first row.
func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, header)
}

func summaryRows(p *models.CompanyProfile) [][]any {
	rows := [][]any{
		{"field", "value"},
		{"company_number", p.BasicInfo.CompanyNumber},
		{"company_name", deref(p.BasicInfo.CompanyName)},
		{"legal_form", deref(p.BasicInfo.LegalForm)},
		{"european_id", deref(p.BasicInfo.EuropeanID)},
		{"is_deleted", p.BasicInfo.IsDeleted},
		{"address", deref(p.Keys.AddressKey)},
		{"managers", len(p.Management)},
		{"has_receiver", p.Risk.HasReceiver},
		{"high_indicators", p.Risk.HighIndicators},
	}
	if p.Risk.RiskLevel != nil {
		rows = append(rows, []any{"risk_level", string(*p.Risk.RiskLevel)})
	}
	c := p.Compliance
	rows = append(rows,
		[]any{"missing_reporting_years", c.MissingReportingYears.Value},
		[]any{"missing_reporting_years_level", string(c.MissingReportingYears.Level)},
	)
	for _, ind := range []struct {
		name string
		v    *models.Indicator
	}{
		{"avg_filing_delay", c.AvgFilingDelay},
		{"max_filing_delay", c.MaxFilingDelay},
		{"late_filing_frequency", c.LateFilingFrequency},
	} {
		if ind.v != nil {
			rows = append(rows, []any{ind.name, ind.v.Value}, []any{ind.name + "_level", string(ind.v.Level)})
		}
	}
	if len(p.ParseFailures) > 0 {
		rows = append(rows, []any{"parse_failures", strings.Join(p.ParseFailures, ", ")})
	}
	if !p.BuiltAt.IsZero() {
		rows = append(rows, []any{"built_at", p.BuiltAt.UTC().Format(time.RFC3339)})
	}
	return rows
}

func financialRows(years []models.FiscalYear) [][]any {
	row := func(label string, value func(y *models.FiscalYear) any) []any {
		out := make([]any, 0, len(years)+1)
		out = append(out, label)
		for i := range years {
			out = append(out, value(&years[i]))
		}
		return out
	}

	rows := [][]any{
		row("fiscal_year_end", func(y *models.FiscalYear) any { return y.FiscalYear.End.String() }),
		row("fiscal_year_start", func(y *models.FiscalYear) any { return y.FiscalYear.Start.String() }),
		row("submission_date", func(y *models.FiscalYear) any { return y.SubmissionDate.String() }),
		row("currency", func(y *models.FiscalYear) any { return y.Currency }),
		row("director_name", func(y *models.FiscalYear) any { return y.DirectorName }),
	}
	for _, field := range balancesheet.Fields {
		rows = append(rows, row(field.Name, func(y *models.FiscalYear) any { return field.Value(&y.BalanceSheet) }))
	}

	keys := make([]string, 0, len(indicators.IndicatorBands))
	for k := range indicators.IndicatorBands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows,
			row(k, func(y *models.FiscalYear) any {
				if ind := y.Indicators[k]; ind != nil {
					return ind.Value
				}
				return ""
			}),
			row(k+"_level", func(y *models.FiscalYear) any {
				if ind := y.Indicators[k]; ind != nil {
					return string(ind.Level)
				}
				return ""
			}),
		)
	}

	trends := map[string]bool{}
	for i := range years {
		for k := range years[i].Trends {
			trends[k] = true
		}
	}
	trendKeys := make([]string, 0, len(trends))
	for k := range trends {
		trendKeys = append(trendKeys, k)
	}
	sort.Strings(trendKeys)
	for _, k := range trendKeys {
		rows = append(rows, row(k, func(y *models.FiscalYear) any {
			if v := y.Trends[k]; v != nil {
				return *v
			}
			return ""
		}))
	}
	return rows
}

func documentRows(docs []models.DocumentRef) [][]any {
	rows := [][]any{{"id", "type", "filing_date"}}
	for _, d := range docs {
		rows = append(rows, []any{d.Key, d.Type, d.FilingDate.String()})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
