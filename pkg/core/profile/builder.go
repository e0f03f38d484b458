// Package profile assembles a CompanyProfile from the register: master
// record, document catalog, parsed filings, indicators, compliance and
// entity keys.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/balancesheet"
	"company_profiler/pkg/core/catalog"
	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/core/compliance"
	"company_profiler/pkg/core/entitykey"
	"company_profiler/pkg/core/indicators"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/models"
)

// DocumentParser turns the raw bytes of one filing into a fiscal year.
type DocumentParser interface {
	Parse(key string, raw []byte) (models.FiscalYear, error)
}

// Options tunes the builder.
type Options struct {
	// RequireCompleteFinancials aborts the build on the first filing that
	// fails to parse. When false the key is recorded in ParseFailures.
	RequireCompleteFinancials bool
	// MaxAnnualXML caps the parsed filings; zero means models.MaxFinancialYears.
	MaxAnnualXML int
}

// Builder builds profiles. It is safe for concurrent use once configured.
type Builder struct {
	client registry.Client
	parser DocumentParser
	clock  clock.Clock
	opts   Options
	logger *zap.Logger
}

// NewBuilder returns a builder reading from client with the default
// balance-sheet parser and the system clock.
func NewBuilder(client registry.Client, opts Options, logger *zap.Logger) *Builder {
	if opts.MaxAnnualXML <= 0 || opts.MaxAnnualXML > models.MaxFinancialYears {
		opts.MaxAnnualXML = models.MaxFinancialYears
	}
	return &Builder{
		client: client,
		parser: balancesheet.Parser{},
		clock:  clock.System{},
		opts:   opts,
		logger: logging.OrNop(logger),
	}
}

// SetParser replaces the document parser (e.g., for testing).
func (b *Builder) SetParser(p DocumentParser) {
	b.parser = p
}

// SetClock replaces the clock that supplies the compliance as-of date.
func (b *Builder) SetClock(c clock.Clock) {
	b.clock = clock.OrSystem(c)
}

// Build fetches and assembles the profile of one company. Register failures
// abort the build and are returned wrapped, so errors.Is against
// registry.ErrUpstreamUnavailable holds.
func (b *Builder) Build(ctx context.Context, companyNumber string) (*models.CompanyProfile, error) {
	companyNumber = strings.TrimSpace(companyNumber)
	if companyNumber == "" {
		return nil, fmt.Errorf("%w: empty company number", apperrors.ErrInvalidInput)
	}

	start := time.Now()
	buildID := uuid.NewString()
	log := b.logger.With(zap.String("company_number", companyNumber), zap.String("build_id", buildID))

	p, err := b.build(ctx, companyNumber, log)
	if err != nil {
		metrics.ObserveProfileBuild(metrics.ResultError, time.Since(start))
		log.Warn("profile build failed", zap.Error(err))
		return nil, err
	}
	p.BuildID = buildID
	p.BuiltAt = b.clock.Now()

	metrics.ObserveProfileBuild(metrics.ResultSuccess, time.Since(start))
	log.Info("profile built",
		zap.Int("fiscal_years", len(p.Financial)),
		zap.Int("parse_failures", len(p.ParseFailures)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

func (b *Builder) build(ctx context.Context, companyNumber string, log *zap.Logger) (*models.CompanyProfile, error) {
	// 1. Master record
	rec, err := b.client.FetchMasterRecord(ctx, companyNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch master record %s: %w", companyNumber, err)
	}

	// 2. Document catalog
	listings, err := b.client.FetchDocumentList(ctx, companyNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch document list %s: %w", companyNumber, err)
	}
	cat := catalog.Build(listings, catalog.Options{MaxAnnualXML: b.opts.MaxAnnualXML})
	for _, key := range cat.Rejected {
		log.Warn("skipping malformed document key", zap.String("document_key", key))
	}

	// 3. Filings, newest first, sequentially
	years, failures, err := b.parseFilings(ctx, cat.AnnualXMLKeys, log)
	if err != nil {
		return nil, err
	}

	// 4. Derived sections
	financial := indicators.Compute(years)
	history := ExtractHistory(rec)
	management := ExtractManagement(rec)
	location := ExtractLocation(rec)
	record, deleted := compliance.Classify(financial, history, cat.DistinctFilingYears, b.clock.Now())

	info := ExtractBasicInfo(rec)
	if info.CompanyNumber == "" {
		info.CompanyNumber = companyNumber
	}
	info.IsDeleted = deleted

	documents := cat.Others
	if documents == nil {
		documents = []models.DocumentRef{}
	}

	return &models.CompanyProfile{
		BasicInfo:  info,
		Location:   location,
		Management: management,
		Financial:  financial,
		History:    history,
		Documents:  documents,
		Compliance: record,
		Risk:       Summarize(management, financial),
		Keys: models.EntityKeys{
			ManagerKeys: entitykey.ManagerKeys(management),
			AddressKey:  entitykey.AddressKey(location),
		},
		ParseFailures: failures,
	}, nil
}

func (b *Builder) parseFilings(ctx context.Context, keys []string, log *zap.Logger) ([]models.FiscalYear, []string, error) {
	years := make([]models.FiscalYear, 0, len(keys))
	var failures []string
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		raw, err := b.client.FetchDocumentBytes(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch document %s: %w", key, err)
		}

		year, err := b.parser.Parse(key, raw)
		if err != nil {
			metrics.IncDocumentParse(metrics.ResultError)
			if b.opts.RequireCompleteFinancials {
				return nil, nil, err
			}
			log.Warn("skipping unparsable filing", zap.String("document_key", key), zap.Error(err))
			failures = append(failures, key)
			continue
		}
		metrics.IncDocumentParse(metrics.ResultSuccess)
		years = append(years, year)
	}
	return years, failures, nil
}
