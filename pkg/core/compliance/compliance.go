// Package compliance measures filing discipline: how late annual statements
// were filed and how many reporting years appear to be missing.
package compliance

import (
	"strings"
	"time"

	"company_profiler/pkg/core/indicators"
	"company_profiler/pkg/models"
)

// LateAfterDays is the filing delay (about nine months) above which a filing
// counts as late.
const LateAfterDays = 273

// deregistrationKeywords mark a history entry that deletes the company
// itself. Deleting a function (e.g. "Prokura gelöscht") does not match.
var deregistrationKeywords = []string{
	"löschung der firma",
	"firma gelöscht",
	"firma geloescht",
	"amtswegige löschung",
	"löschung wegen vermögenslosigkeit",
}

// Classify builds the compliance record of a company and reports whether it
// is deleted. years must be chronological, as returned by
// indicators.Compute; history is in register order, formation first.
// asOf replaces the wall clock for companies that are still active.
func Classify(years []models.FiscalYear, history []models.HistoryEvent, distinctFilingYears int, asOf time.Time) (models.ComplianceRecord, bool) {
	rec := models.ComplianceRecord{FilingDelays: make([]models.FilingDelay, 0, len(years))}

	total, longest, late := 0, 0, 0
	for i, y := range years {
		days := FilingDelay(y)
		isLate := days > LateAfterDays
		if isLate {
			late++
		}
		if i == 0 || days > longest {
			longest = days
		}
		total += days
		rec.FilingDelays = append(rec.FilingDelays, models.FilingDelay{
			FiscalYear: y.FiscalYear.End.Year(),
			Days:       days,
			IsLate:     isLate,
		})
	}

	if n := len(years); n > 0 {
		avg := float64(total) / float64(n)
		freq := float64(late) / float64(n)
		rec.AvgFilingDelay = &models.Indicator{Value: avg, Level: indicators.AvgFilingDelayBand.Classify(avg)}
		rec.MaxFilingDelay = &models.Indicator{Value: float64(longest), Level: indicators.MaxFilingDelayBand.Classify(float64(longest))}
		rec.LateFilingFrequency = &models.Indicator{Value: freq, Level: indicators.LateFilingFrequencyBand.Classify(freq)}
	}

	deleted := IsDeleted(history)
	missing := MissingYears(history, distinctFilingYears, deleted, asOf)
	rec.MissingReportingYears = models.YearCount{
		Value: missing,
		Level: indicators.MissingYearsBand.Classify(float64(missing)),
	}
	return rec, deleted
}

// FilingDelay is the number of days between fiscal year end and submission.
func FilingDelay(y models.FiscalYear) int {
	return y.SubmissionDate.DaysSince(y.FiscalYear.End)
}

// IsDeleted reports whether the newest history entry deregisters the company.
func IsDeleted(history []models.HistoryEvent) bool {
	if len(history) == 0 {
		return false
	}
	text := strings.ToLower(history[len(history)-1].EventText)
	for _, kw := range deregistrationKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MissingYears estimates unreported years as the span from formation to
// deletion (or asOf) minus the number of distinct filings. It assumes the
// first history entry is the company's formation.
func MissingYears(history []models.HistoryEvent, distinctFilingYears int, deleted bool, asOf time.Time) int {
	if len(history) == 0 {
		return 0 - distinctFilingYears
	}
	first := eventYear(history[0])
	if first == 0 {
		return 0 - distinctFilingYears
	}

	last := asOf.Year()
	if deleted {
		if y := eventYear(history[len(history)-1]); y != 0 {
			last = y
		}
	}
	return (last - first) - distinctFilingYears
}

func eventYear(e models.HistoryEvent) int {
	switch {
	case !e.FiledDate.IsZero():
		return e.FiledDate.Year()
	case !e.EventDate.IsZero():
		return e.EventDate.Year()
	}
	return 0
}
