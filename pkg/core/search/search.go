// Package search answers company searches by register number or by name.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/compliance"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/profile"
	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/core/searchcache"
)

// PageSize is the number of companies per result page.
const PageSize = 15

// Mode is the kind of search a term asks for.
type Mode int

const (
	ModeName Mode = iota
	ModeNumber
)

var companyNumberPattern = regexp.MustCompile(`^\d{5,6}[a-zA-Z]$`)

// DetectMode treats five or six digits followed by a check letter as a
// company number and everything else as a name.
func DetectMode(term string) Mode {
	if companyNumberPattern.MatchString(strings.TrimSpace(term)) {
		return ModeNumber
	}
	return ModeName
}

// Result is one page of search hits.
type Result struct {
	Page       int                       `json:"page"`
	TotalPages int                       `json:"total_pages"`
	Companies  []registry.CompanySummary `json:"companies"`
}

// Service runs searches against the register. Name searches go through the
// cache.
type Service struct {
	client registry.Client
	cache  *searchcache.Cache[[]registry.CompanySummary]
	logger *zap.Logger
}

// NewService wires a search service.
func NewService(client registry.Client, cache *searchcache.Cache[[]registry.CompanySummary], logger *zap.Logger) *Service {
	if cache == nil {
		cache = searchcache.New[[]registry.CompanySummary](0, 0, nil)
	}
	return &Service{client: client, cache: cache, logger: logging.OrNop(logger)}
}

// Search returns the requested page for term. page is clamped into
// [1, TotalPages]; an empty result still has one page.
func (s *Service) Search(ctx context.Context, term string, page int) (*Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty search term", apperrors.ErrInvalidInput)
	}

	if DetectMode(term) == ModeNumber {
		summary, err := s.byNumber(ctx, strings.ToLower(term))
		if err != nil {
			return nil, err
		}
		return &Result{Page: 1, TotalPages: 1, Companies: []registry.CompanySummary{*summary}}, nil
	}

	companies, err := s.cache.GetOrCompute(ctx, term, func(ctx context.Context) ([]registry.CompanySummary, error) {
		found, err := s.client.SearchCompanies(ctx, term)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("name search", zap.String("term", term), zap.Int("hits", len(found)))
		return found, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return paginate(companies, page), nil
}

func paginate(companies []registry.CompanySummary, page int) *Result {
	totalPages := (len(companies) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page = max(1, min(page, totalPages))

	start := min((page-1)*PageSize, len(companies))
	end := min(start+PageSize, len(companies))
	out := make([]registry.CompanySummary, end-start)
	copy(out, companies[start:end])
	return &Result{Page: page, TotalPages: totalPages, Companies: out}
}

func (s *Service) byNumber(ctx context.Context, companyNumber string) (*registry.CompanySummary, error) {
	rec, err := s.client.FetchMasterRecord(ctx, companyNumber)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", companyNumber, err)
	}

	info := profile.ExtractBasicInfo(rec)
	summary := &registry.CompanySummary{CompanyNumber: companyNumber, Status: "active"}
	if info.CompanyName != nil {
		summary.Name = *info.CompanyName
	}
	if loc := profile.ExtractLocation(rec); loc != nil {
		summary.Location = loc.City
	}
	if compliance.IsDeleted(profile.ExtractHistory(rec)) {
		summary.Status = "deleted"
	}
	return summary, nil
}
