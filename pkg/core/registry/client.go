package registry

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/models"
)

const (
	// DefaultEndpoint is the register's public SOAP address.
	DefaultEndpoint = "https://justizonline.gv.at/jop/api/at.gv.justiz.fbw/ws"

	extractScope = "Kurzinformation"
)

// SOAPClient talks to the register over SOAP 1.2. It never retries.
type SOAPClient struct {
	http     *resty.Client
	endpoint string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSOAPClient returns a client for endpoint authenticated with apiKey.
func NewSOAPClient(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *SOAPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("X-API-KEY", apiKey).
		SetHeader("Content-Type", "application/soap+xml;charset=UTF-8").
		SetHeader("Accept", "application/soap+xml, text/xml")

	return &SOAPClient{
		http:     httpClient,
		endpoint: endpoint,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// FetchMasterRecord returns the current short extract of a company.
func (c *SOAPClient) FetchMasterRecord(ctx context.Context, companyNumber string) (*MasterRecord, error) {
	req := extractRequest{
		XMLName: requestName(opExtract),
		FNR:     companyNumber,
		KeyDate: c.now().Format(models.DateLayout),
		Scope:   extractScope,
	}
	var rec MasterRecord
	if err := c.call(ctx, opExtract, req, &rec); err != nil {
		return nil, err
	}
	if rec.CompanyNumber() == "" {
		rec.FNRElem = companyNumber
	}
	return &rec, nil
}

// FetchDocumentList returns all documents filed for a company, in register
// order (oldest first, PDFs before XMLs).
func (c *SOAPClient) FetchDocumentList(ctx context.Context, companyNumber string) ([]DocumentListing, error) {
	req := searchDocumentRequest{
		XMLName: requestName(opSearchDocument),
		FNR:     companyNumber,
	}
	var resp searchDocumentResponse
	if err := c.call(ctx, opSearchDocument, req, &resp); err != nil {
		return nil, err
	}

	out := make([]DocumentListing, 0, len(resp.Results))
	for _, r := range resp.Results {
		filed, err := models.ParseDate(r.ReceivedOn)
		if err != nil {
			c.logger.Debug("unparsable document date",
				zap.String("document_key", r.Key),
				zap.String("value", r.ReceivedOn))
		}
		out = append(out, DocumentListing{
			Key:        strings.TrimSpace(r.Key),
			TypeLabel:  strings.TrimSpace(r.DocumentType.Text),
			FilingDate: filed,
		})
	}
	return out, nil
}

// FetchDocumentBytes returns the decoded content of one document.
func (c *SOAPClient) FetchDocumentBytes(ctx context.Context, key string) ([]byte, error) {
	req := documentRequest{
		XMLName: requestName(opDocument),
		Key:     key,
	}
	var resp documentResponse
	if err := c.call(ctx, opDocument, req, &resp); err != nil {
		return nil, err
	}

	content := strings.Join(strings.Fields(resp.Content), "")
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, &UpstreamError{Op: opDocument, Message: "document content is not base64", Err: err}
	}
	return raw, nil
}

// SearchCompanies runs a fuzzy name search over all companies.
func (c *SOAPClient) SearchCompanies(ctx context.Context, name string) ([]CompanySummary, error) {
	req := searchCompanyRequest{
		XMLName:     requestName(opSearchCompany),
		CompanyName: name,
		SearchArea:  1,
	}
	var resp searchCompanyResponse
	if err := c.call(ctx, opSearchCompany, req, &resp); err != nil {
		return nil, err
	}

	out := make([]CompanySummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		status := "active"
		if strings.TrimSpace(r.Status) != "" {
			status = "deleted"
		}
		out = append(out, CompanySummary{
			CompanyNumber: strings.TrimSpace(r.FNR),
			Status:        status,
			Name:          strings.TrimSpace(strings.Join(r.Name, " ")),
			Location:      strings.TrimSpace(r.Seat),
		})
	}
	c.logger.Debug("name search", zap.String("term", name), zap.Int("results", len(out)))
	return out, nil
}

// call posts one SOAP request and decodes the body content into out.
func (c *SOAPClient) call(ctx context.Context, op string, body any, out any) error {
	err := c.do(ctx, op, body, out)
	if err != nil {
		metrics.IncUpstreamError(op)
		c.logger.Warn("registry call failed", zap.String("operation", op), zap.Error(err))
	}
	return err
}

func (c *SOAPClient) do(ctx context.Context, op string, body any, out any) error {
	payload, err := encodeEnvelope(op, body)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		return &UpstreamError{Op: op, Message: err.Error(), Err: err}
	}

	raw := resp.Body()
	if looksLikeHTML(resp.Header().Get("Content-Type"), raw) {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: htmlErrorMessage(raw)}
	}

	content, fault, decodeErr := decodeEnvelope(raw)
	switch {
	case fault != nil:
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: fault.message()}
	case resp.IsError():
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: firstNonEmpty(truncate(string(raw)), resp.Status())}
	case decodeErr != nil:
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: "malformed SOAP response", Err: decodeErr}
	}

	if err := xml.Unmarshal(content, out); err != nil {
		if errors.Is(err, io.EOF) {
			return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: "empty SOAP body", Err: err}
		}
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode(), Message: fmt.Sprintf("malformed %s response", op), Err: err}
	}
	return nil
}
