package registry

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	soapEnvelopeNS = "http://www.w3.org/2003/05/soap-envelope"

	opExtract        = "AUSZUG_V2_"
	opSearchDocument = "SUCHEURKUNDE"
	opDocument       = "URKUNDE"
	opSearchCompany  = "SUCHEFIRMA"
)

// requestNamespaces maps each operation to the namespace of its request body.
var requestNamespaces = map[string]string{
	opExtract:        "ns://firmenbuch.justiz.gv.at/Abfrage/v2/AuszugRequest",
	opSearchDocument: "ns://firmenbuch.justiz.gv.at/Abfrage/SucheUrkundeRequest",
	opDocument:       "ns://firmenbuch.justiz.gv.at/Abfrage/UrkundeRequest",
	opSearchCompany:  "ns://firmenbuch.justiz.gv.at/Abfrage/SucheFirmaRequest",
}

// ===== REQUEST BODIES =====

type extractRequest struct {
	XMLName xml.Name
	FNR     string `xml:"FNR"`
	KeyDate string `xml:"STICHTAG"`
	Scope   string `xml:"UMFANG"`
}

type searchDocumentRequest struct {
	XMLName xml.Name
	FNR     string `xml:"FNR"`
	AZ      string `xml:"AZ"`
}

type documentRequest struct {
	XMLName xml.Name
	Key     string `xml:"KEY"`
}

type searchCompanyRequest struct {
	XMLName       xml.Name
	CompanyName   string `xml:"FIRMENWORTLAUT"`
	ExactSearch   bool   `xml:"EXAKTESUCHE"`
	SearchArea    int    `xml:"SUCHBEREICH"`
	Court         string `xml:"GERICHT"`
	LegalForm     string `xml:"RECHTSFORM"`
	LegalProperty string `xml:"RECHTSEIGENSCHAFT"`
	PlaceNumber   string `xml:"ORTNR"`
}

// ===== RESPONSE BODIES =====

type searchDocumentResponse struct {
	Results []struct {
		Key          string `xml:"KEY"`
		DocumentType struct {
			Code string `xml:"CODE"`
			Text string `xml:"TEXT"`
		} `xml:"DOKUMENTART"`
		ReceivedOn string `xml:"EINGELANGTAM"`
	} `xml:"ERGEBNIS"`
}

type documentResponse struct {
	Content string `xml:"DOKUMENT>CONTENT"`
}

type searchCompanyResponse struct {
	Results []struct {
		FNR    string   `xml:"FNR"`
		Status string   `xml:"STATUS"`
		Name   []string `xml:"NAME"`
		Seat   string   `xml:"SITZ"`
	} `xml:"ERGEBNIS"`
}

// ===== ENVELOPE =====

type requestEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    struct {
		Content any
	} `xml:"soap:Body"`
}

type responseEnvelope struct {
	Body struct {
		Fault   *soapFault `xml:"Fault"`
		Content []byte     `xml:",innerxml"`
	} `xml:"Body"`
}

// soapFault covers both SOAP 1.2 (Reason/Text) and 1.1 (faultstring).
type soapFault struct {
	Code        string `xml:"Code>Value"`
	Reason      string `xml:"Reason>Text"`
	FaultString string `xml:"faultstring"`
}

func (f *soapFault) message() string {
	if msg := strings.TrimSpace(firstNonEmpty(f.Reason, f.FaultString)); msg != "" {
		return msg
	}
	return "SOAP fault " + strings.TrimSpace(f.Code)
}

func encodeEnvelope(op string, body any) ([]byte, error) {
	env := requestEnvelope{SoapNS: soapEnvelopeNS}
	env.Body.Content = body

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(env); err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", op, err)
	}
	return buf.Bytes(), nil
}

func requestName(op string) xml.Name {
	return xml.Name{Space: requestNamespaces[op], Local: op + "REQUEST"}
}

// decodeEnvelope returns the SOAP body content, or the fault if one is present.
func decodeEnvelope(data []byte) ([]byte, *soapFault, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, nil, err
	}
	if env.Body.Fault != nil {
		return nil, env.Body.Fault, nil
	}
	return env.Body.Content, nil, nil
}
