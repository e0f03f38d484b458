// Package balancesheet parses annual-statement XML filings into a
// models.FiscalYear holding the raw balance-sheet lines.
package balancesheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"company_profiler/pkg/models"
)

var (
	// ErrMalformedDocument covers undecodable bytes, broken XML and
	// unparsable numbers or dates.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMissingContainer is returned when a mandatory section is absent.
	ErrMissingContainer = errors.New("missing mandatory container")
)

// ParseError ties a parse failure to the document it came from. It is fatal
// for that document only.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ===== CONTAINER NAMES =====

const (
	tagInfo        = "INFO_DATEN"
	tagOutline     = "BILANZ_GLIEDERUNG"
	tagGeneral     = "ALLG_JUSTIZ"
	tagBalance     = "BILANZ"
	tagBalanceForm = "HGB_Form_2"
	tagFiscalYear  = "GJ"
	tagSignatory   = "UNTER"
)

// Parser parses filings. The zero value is ready to use.
type Parser struct{}

// Parse implements the document parser used by the profile builder.
func (Parser) Parse(key string, raw []byte) (models.FiscalYear, error) {
	return Parse(key, raw)
}

// Parse extracts one fiscal year from the raw bytes of the filing with the
// given key. Indicators and trends are left empty.
func Parse(key string, raw []byte) (models.FiscalYear, error) {
	fail := func(sentinel error, format string, args ...any) (models.FiscalYear, error) {
		return models.FiscalYear{}, &ParseError{Key: key, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
	}

	text, _, err := DecodeText(raw)
	if err != nil {
		return fail(ErrMalformedDocument, "%v", err)
	}
	root, err := parseTree(text)
	if err != nil {
		return fail(ErrMalformedDocument, "%v", err)
	}

	info := root.descendant(tagInfo)
	outline := root.descendant(tagOutline)
	if outline == nil {
		return fail(ErrMissingContainer, "%s", tagOutline)
	}
	general := outline.child(tagGeneral)
	if general == nil {
		return fail(ErrMissingContainer, "%s", tagGeneral)
	}
	balance := outline.child(tagBalance)
	if balance == nil {
		balance = outline.child(tagBalanceForm)
	}
	if balance == nil {
		return fail(ErrMissingContainer, "%s or %s", tagBalance, tagBalanceForm)
	}
	fiscal := general.child(tagFiscalYear)
	if fiscal == nil {
		return fail(ErrMissingContainer, "%s", tagFiscalYear)
	}
	signatory := general.child(tagSignatory)

	year := models.FiscalYear{
		SourceKey:    key,
		Currency:     general.childText("WAEHRUNG"),
		DirectorName: strings.TrimSpace(signatory.childText("V_NAME") + " " + signatory.childText("Z_NAME")),
	}

	// submission date falls back to the signing date
	submitted := info.childText("DATUM_ERSTELLUNG")
	if submitted == "" {
		submitted = signatory.childText("DAT_UNT")
	}
	if submitted == "" {
		return fail(ErrMissingContainer, "DATUM_ERSTELLUNG or DAT_UNT")
	}
	if year.SubmissionDate, err = models.ParseDate(submitted); err != nil {
		return fail(ErrMalformedDocument, "submission date: %v", err)
	}

	start, end := fiscal.childText("BEGINN"), fiscal.childText("ENDE")
	if start == "" || end == "" {
		return fail(ErrMissingContainer, "%s/BEGINN or %s/ENDE", tagFiscalYear, tagFiscalYear)
	}
	if year.FiscalYear.Start, err = models.ParseDate(start); err != nil {
		return fail(ErrMalformedDocument, "fiscal year start: %v", err)
	}
	if year.FiscalYear.End, err = models.ParseDate(end); err != nil {
		return fail(ErrMalformedDocument, "fiscal year end: %v", err)
	}

	for _, f := range Fields {
		v, err := lineValue(balance, f)
		if err != nil {
			return fail(ErrMalformedDocument, "%s (%s): %v", f.Name, f.Code, err)
		}
		*f.target(&year.BalanceSheet) = v
	}
	return year, nil
}

func lineValue(balance *element, f Field) (float64, error) {
	node := balance.find(f.Code, "POSTENZEILE", "BETRAG")
	if node == nil || node.text == "" {
		return f.Default, nil
	}
	v, err := strconv.ParseFloat(node.text, 64)
	if err != nil && strings.Contains(node.text, ",") {
		// German notation: "." groups thousands, "," is the decimal mark
		v, err = strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(node.text, ".", ""), ",", "."), 64)
	}
	return v, err
}
