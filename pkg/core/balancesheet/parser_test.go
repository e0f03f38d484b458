package balancesheet

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"company_profiler/pkg/models"
)

type fixture struct {
	encoding   string
	info       string // DATUM_ERSTELLUNG, empty omits INFO_DATEN
	balanceTag string
	director   string
	body       string // content of the balance container
	noOutline  bool
}

func (f fixture) xml() string {
	if f.encoding == "" {
		f.encoding = "UTF-8"
	}
	if f.balanceTag == "" {
		f.balanceTag = "BILANZ"
	}
	if f.director == "" {
		f.director = "Jane"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="%s"?>`+"\n", f.encoding)
	b.WriteString(`<ns0:BILANZ_EINREICHUNG xmlns:ns0="https://finanzonline.bmf.gv.at/bilanz">`)
	if f.info != "" {
		fmt.Fprintf(&b, `<ns0:INFO_DATEN><ns0:DATUM_ERSTELLUNG>%s</ns0:DATUM_ERSTELLUNG></ns0:INFO_DATEN>`, f.info)
	}
	if !f.noOutline {
		b.WriteString(`<ns0:BILANZ_GLIEDERUNG><ns0:ALLG_JUSTIZ>`)
		b.WriteString(`<ns0:GJ><ns0:BEGINN>2022-01-01</ns0:BEGINN><ns0:ENDE>2022-12-31</ns0:ENDE></ns0:GJ>`)
		b.WriteString(`<ns0:WAEHRUNG>EUR</ns0:WAEHRUNG>`)
		fmt.Fprintf(&b, `<ns0:UNTER><ns0:DAT_UNT>2023-09-30</ns0:DAT_UNT><ns0:V_NAME>%s</ns0:V_NAME><ns0:Z_NAME>Doe</ns0:Z_NAME></ns0:UNTER>`, f.director)
		b.WriteString(`</ns0:ALLG_JUSTIZ>`)
		fmt.Fprintf(&b, `<ns0:%s>%s</ns0:%s>`, f.balanceTag, f.body, f.balanceTag)
		b.WriteString(`</ns0:BILANZ_GLIEDERUNG>`)
	}
	b.WriteString(`</ns0:BILANZ_EINREICHUNG>`)
	return b.String()
}

func line(code, amount string) string {
	return fmt.Sprintf(`<ns0:%s><ns0:POSTENZEILE><ns0:BETRAG>%s</ns0:BETRAG></ns0:POSTENZEILE>`, code, amount)
}

func end(code string) string { return fmt.Sprintf(`</ns0:%s>`, code) }

// nestedBalance mirrors the real layout: sub-positions nest inside totals.
var nestedBalance = line("HGB_224_2", "1000.50") +
	line("HGB_224_2_A", "400") + line("HGB_224_2_A_II", "350") + end("HGB_224_2_A_II") + end("HGB_224_2_A") +
	line("HGB_224_2_B", "600.50") + line("HGB_224_2_B_IV", "120") + end("HGB_224_2_B_IV") + end("HGB_224_2_B") +
	end("HGB_224_2") +
	line("HGB_224_3", "1000.50") +
	line("HGB_224_3_A", "300") + line("HGB_224_3_A_IV", "-20") + end("HGB_224_3_A_IV") + end("HGB_224_3_A") +
	line("HGB_224_3_C", "700.50") + end("HGB_224_3_C") +
	end("HGB_224_3")

func TestParse_PrimaryContainer(t *testing.T) {
	raw := fixture{info: "2023-10-27", body: nestedBalance}.xml()

	y, err := Parse("k1", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "k1", y.SourceKey)
	assert.Equal(t, models.NewDate(2023, time.October, 27), y.SubmissionDate)
	assert.Equal(t, models.NewDate(2022, time.January, 1), y.FiscalYear.Start)
	assert.Equal(t, models.NewDate(2022, time.December, 31), y.FiscalYear.End)
	assert.Equal(t, "EUR", y.Currency)
	assert.Equal(t, "Jane Doe", y.DirectorName)

	assert.Equal(t, 1000.50, y.TotalAssets)
	assert.Equal(t, 400.0, y.FixedAssets)
	assert.Equal(t, 350.0, y.TangibleAssets)
	assert.Equal(t, 600.50, y.CurrentAssets)
	assert.Equal(t, 120.0, y.CashAndBankBalances)
	assert.Equal(t, 300.0, y.Equity)
	assert.Equal(t, -20.0, y.RetainedEarnings)
	assert.Equal(t, 700.50, y.Liabilities)
	assert.Equal(t, 1000.50, y.TotalLiabilities)

	// absent lines default to zero
	assert.Zero(t, y.IntangibleAssets)
	assert.Zero(t, y.DeferredIncome)
	assert.Nil(t, y.Indicators)
	assert.Nil(t, y.Trends)
}

func TestParse_FallbackContainerAndSigningDate(t *testing.T) {
	raw := fixture{balanceTag: "HGB_Form_2", body: line("HGB_224_2", "10") + end("HGB_224_2")}.xml()

	y, err := Parse("k2", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 10.0, y.TotalAssets)
	assert.Equal(t, models.NewDate(2023, time.September, 30), y.SubmissionDate)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "broken xml", raw: `<BILANZ_GLIEDERUNG><ALLG_JUSTIZ>`, want: ErrMalformedDocument},
		{name: "empty", raw: ``, want: ErrMalformedDocument},
		{name: "no outline", raw: fixture{info: "2023-10-27", noOutline: true}.xml(), want: ErrMissingContainer},
		{name: "unknown balance container", raw: fixture{balanceTag: "GUV"}.xml(), want: ErrMissingContainer},
		{name: "bad amount", raw: fixture{body: line("HGB_224_2", "n/a") + end("HGB_224_2")}.xml(), want: ErrMalformedDocument},
		{name: "bad date", raw: fixture{info: "27.10.2023"}.xml(), want: ErrMalformedDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad", []byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bad", pe.Key)
		})
	}
}

func TestParse_DecimalComma(t *testing.T) {
	tests := []struct {
		amount string
		want   float64
	}{
		{amount: "12,5", want: 12.5},
		{amount: "1.234,56", want: 1234.56},
		{amount: "1.234.567,00", want: 1234567},
		{amount: "1234.56", want: 1234.56},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			raw := fixture{body: line("HGB_224_2", tt.amount) + end("HGB_224_2")}.xml()
			y, err := Parse("k", []byte(raw))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, y.TotalAssets, 1e-9)
		})
	}
}

func TestParse_Windows1252Document(t *testing.T) {
	raw := fixture{encoding: "ISO-8859-1", director: "Jürgen"}.xml()
	encoded, err := charmap.Windows1252.NewEncoder().String(raw)
	require.NoError(t, err)

	y, err := Parse("k", []byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Jürgen Doe", y.DirectorName)
}

func TestParse_UTF16Document(t *testing.T) {
	raw := fixture{encoding: "UTF-16", director: "Zoë"}.xml()
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(raw)
	require.NoError(t, err)

	y, err := Parse("k", []byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Zoë Doe", y.DirectorName)
}

func TestDecodeText(t *testing.T) {
	latin, _ := charmap.Windows1252.NewEncoder().String("Straße")

	tests := []struct {
		name     string
		raw      []byte
		wantText string
		wantEnc  Encoding
	}{
		{name: "plain utf-8", raw: []byte("Straße"), wantText: "Straße", wantEnc: EncodingUTF8},
		{name: "utf-8 bom", raw: append([]byte{0xEF, 0xBB, 0xBF}, "Straße"...), wantText: "Straße", wantEnc: EncodingUTF8},
		{name: "undeclared latin", raw: []byte(latin), wantText: "Straße", wantEnc: EncodingWindows1252},
		{
			name:     "utf-8 despite latin declaration",
			raw:      []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><a>Straße</a>`),
			wantText: `<?xml version="1.0" encoding="ISO-8859-1"?><a>Straße</a>`,
			wantEnc:  EncodingUTF8,
		},
		{
			name:     "declared latin-2",
			raw:      append([]byte(`<?xml version="1.0" encoding="ISO-8859-2"?><a>`), 0xB3, '<', '/', 'a', '>'),
			wantText: `<?xml version="1.0" encoding="ISO-8859-2"?><a>ł</a>`,
			wantEnc:  Encoding("iso-8859-2"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := DecodeText(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}
