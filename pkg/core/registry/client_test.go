package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_profiler/pkg/models"
)

func soapResponse(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope">
<env:Body>` + body + `</env:Body></env:Envelope>`
}

// newTestClient starts a server that records the request body and answers
// with status and body.
func newTestClient(t *testing.T, status int, contentType, body string) (*SOAPClient, *string) {
	t.Helper()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got = string(data)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := NewSOAPClient(srv.URL, "test-key", 5*time.Second, nil)
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c, &got
}

func TestFetchMasterRecord(t *testing.T) {
	body := soapResponse(`
<ns1:AUSZUG_V2_RESPONSE xmlns:ns1="ns://firmenbuch.justiz.gv.at/Abfrage/v2/AuszugResponse" ns1:FNR="123456a">
  <ns1:FIRMA>
    <ns1:FI_DKZ02><ns1:BEZEICHNUNG>Muster GmbH</ns1:BEZEICHNUNG></ns1:FI_DKZ02>
    <ns1:FI_DKZ03><ns1:STRASSE>Ring</ns1:STRASSE><ns1:HAUSNUMMER>1</ns1:HAUSNUMMER><ns1:PLZ>1010</ns1:PLZ><ns1:ORT>Wien</ns1:ORT><ns1:STAAT>AUT</ns1:STAAT></ns1:FI_DKZ03>
    <ns1:FI_DKZ07><ns1:RECHTSFORM><ns1:CODE>GES</ns1:CODE><ns1:TEXT>Gesellschaft mit beschränkter Haftung</ns1:TEXT></ns1:RECHTSFORM></ns1:FI_DKZ07>
  </ns1:FIRMA>
  <ns1:FUN ns1:PNR="A"><ns1:FKENTEXT>Geschäftsführer</ns1:FKENTEXT><ns1:FU_DKZ10><ns1:DATVON>20200101</ns1:DATVON></ns1:FU_DKZ10></ns1:FUN>
  <ns1:PER ns1:PNR="A"><ns1:PE_DKZ02><ns1:NAME_FORMATIERT>Jane Doe</ns1:NAME_FORMATIERT><ns1:GEBURTSDATUM>19900501</ns1:GEBURTSDATUM></ns1:PE_DKZ02></ns1:PER>
  <ns1:VOLLZ ns1:VNR="1"><ns1:VOLLZUGSDATUM>20100101</ns1:VOLLZUGSDATUM><ns1:ANTRAGSTEXT>Neueintragung</ns1:ANTRAGSTEXT><ns1:HG><ns1:TEXT>Handelsgericht Wien</ns1:TEXT></ns1:HG><ns1:EINGELANGTAM>20091220</ns1:EINGELANGTAM></ns1:VOLLZ>
</ns1:AUSZUG_V2_RESPONSE>`)
	c, req := newTestClient(t, http.StatusOK, "application/soap+xml", body)

	rec, err := c.FetchMasterRecord(context.Background(), "123456a")
	require.NoError(t, err)

	assert.Contains(t, *req, "<FNR>123456a</FNR>")
	assert.Contains(t, *req, "<STICHTAG>2024-03-01</STICHTAG>")
	assert.Contains(t, *req, "<UMFANG>Kurzinformation</UMFANG>")

	assert.Equal(t, "123456a", rec.CompanyNumber())
	require.Len(t, rec.Firma.Names, 1)
	assert.Equal(t, []string{"Muster GmbH"}, rec.Firma.Names[0].Designation)
	require.Len(t, rec.Firma.LegalForms, 1)
	assert.Equal(t, "GES", rec.Firma.LegalForms[0].Code)
	require.Len(t, rec.Functions, 1)
	assert.Equal(t, "A", rec.Functions[0].PNR())
	require.Len(t, rec.Persons, 1)
	assert.Equal(t, "19900501", rec.Persons[0].Details[0].BirthDate)
	require.Len(t, rec.History, 1)
	assert.Equal(t, "1", rec.History[0].VNR())
	assert.Equal(t, "Handelsgericht Wien", rec.History[0].Court)
}

func TestFetchDocumentList(t *testing.T) {
	body := soapResponse(`
<r:SUCHEURKUNDERESPONSE xmlns:r="ns://firmenbuch.justiz.gv.at/Abfrage/SucheUrkundeResponse">
  <r:ERGEBNIS><r:KEY>435836_5690342302057_000___000_30_30137347_PDF</r:KEY><r:DOKUMENTART><r:TEXT>Jahresabschluss</r:TEXT></r:DOKUMENTART><r:EINGELANGTAM>20230105</r:EINGELANGTAM></r:ERGEBNIS>
  <r:ERGEBNIS><r:KEY>435836_5690342302057_000___000_30_30137347_XML</r:KEY><r:DOKUMENTART><r:TEXT>Jahresabschluss</r:TEXT></r:DOKUMENTART></r:ERGEBNIS>
</r:SUCHEURKUNDERESPONSE>`)
	c, _ := newTestClient(t, http.StatusOK, "application/soap+xml", body)

	docs, err := c.FetchDocumentList(context.Background(), "435836")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, AnnualStatementLabel, docs[0].TypeLabel)
	assert.Equal(t, models.NewDate(2023, time.January, 5), docs[0].FilingDate)
	assert.True(t, docs[1].FilingDate.IsZero())
}

func TestFetchDocumentBytes_DecodesBase64(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("<BILANZ/>"))
	// register wraps long base64 lines
	wrapped := content[:4] + "\n" + content[4:]
	body := soapResponse(`<URKUNDERESPONSE><DOKUMENT><CONTENT>` + wrapped + `</CONTENT></DOKUMENT></URKUNDERESPONSE>`)
	c, req := newTestClient(t, http.StatusOK, "application/soap+xml", body)

	raw, err := c.FetchDocumentBytes(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "<BILANZ/>", string(raw))
	assert.Contains(t, *req, "<KEY>k1</KEY>")
}

func TestSearchCompanies(t *testing.T) {
	body := soapResponse(`
<SUCHEFIRMARESPONSE>
  <ERGEBNIS><FNR>123456a</FNR><NAME>Muster GmbH</NAME><SITZ>Wien</SITZ></ERGEBNIS>
  <ERGEBNIS><FNR>654321b</FNR><STATUS>gelöscht</STATUS><NAME>Alt</NAME><NAME>KG</NAME><SITZ>Graz</SITZ></ERGEBNIS>
</SUCHEFIRMARESPONSE>`)
	c, req := newTestClient(t, http.StatusOK, "application/soap+xml", body)

	res, err := c.SearchCompanies(context.Background(), "muster")
	require.NoError(t, err)
	assert.Contains(t, *req, "<FIRMENWORTLAUT>muster</FIRMENWORTLAUT>")
	assert.Equal(t, []CompanySummary{
		{CompanyNumber: "123456a", Status: "active", Name: "Muster GmbH", Location: "Wien"},
		{CompanyNumber: "654321b", Status: "deleted", Name: "Alt KG", Location: "Graz"},
	}, res)
}

func TestCall_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{
			name:        "soap 1.2 fault",
			status:      http.StatusInternalServerError,
			contentType: "application/soap+xml",
			body:        soapResponse(`<env:Fault><env:Code><env:Value>env:Sender</env:Value></env:Code><env:Reason><env:Text>FNR ungültig</env:Text></env:Reason></env:Fault>`),
			wantMessage: "FNR ungültig",
		},
		{
			name:        "html gateway page",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        `<html><head><title>502 Bad Gateway</title><style>p{}</style></head><body><h1>Bad   Gateway</h1>
<p>try later</p></body></html>`,
			wantMessage: "502 Bad Gateway: Bad Gateway try later",
		},
		{
			name:        "plain error status",
			status:      http.StatusUnauthorized,
			contentType: "text/plain",
			body:        "invalid api key",
			wantMessage: "invalid api key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.status, tt.contentType, tt.body)
			_, err := c.FetchMasterRecord(context.Background(), "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstreamUnavailable)

			msg, ok := UpstreamMessage(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMessage, msg)
		})
	}
}

func TestCall_TransportErrorUnwrapsCause(t *testing.T) {
	c := NewSOAPClient("http://127.0.0.1:1", "k", time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchDocumentList(ctx, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "connect"))
}

func TestDecodeMasterRecord_ElementIdentifiers(t *testing.T) {
	rec, err := DecodeMasterRecord([]byte(`<AUSZUG><FNR>99999z</FNR><FUN><PNR>B</PNR></FUN></AUSZUG>`))
	require.NoError(t, err)
	assert.Equal(t, "99999z", rec.CompanyNumber())
	assert.Equal(t, "B", rec.Functions[0].PNR())
}
