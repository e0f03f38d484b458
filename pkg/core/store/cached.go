package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/models"
)

// DefaultMaxAge is how long a stored profile is served without a rebuild.
const DefaultMaxAge = 30 * 24 * time.Hour

// Freshness decides whether a stored profile can be served as is.
type Freshness struct {
	MaxAge time.Duration
}

// IsFresh reports whether a profile saved at savedAt is still usable at now.
func (f Freshness) IsFresh(savedAt, now time.Time) bool {
	maxAge := f.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return now.Sub(savedAt) < maxAge
}

// ProfileStore is the part of GraphStore the cached builder needs.
type ProfileStore interface {
	LoadProfile(ctx context.Context, companyNumber string) (*models.CompanyProfile, time.Time, error)
	SaveProfile(ctx context.Context, p *models.CompanyProfile) error
}

// ProfileBuilder builds a profile from the register.
type ProfileBuilder interface {
	Build(ctx context.Context, companyNumber string) (*models.CompanyProfile, error)
}

// CachedBuilder serves fresh stored profiles and rebuilds stale or missing
// ones, saving the result. Store failures are logged and never fail a
// request that the register can answer.
type CachedBuilder struct {
	store     ProfileStore
	builder   ProfileBuilder
	freshness Freshness
	clock     clock.Clock
	logger    *zap.Logger
}

func NewCachedBuilder(store ProfileStore, builder ProfileBuilder, freshness Freshness, c clock.Clock, logger *zap.Logger) *CachedBuilder {
	return &CachedBuilder{
		store:     store,
		builder:   builder,
		freshness: freshness,
		clock:     clock.OrSystem(c),
		logger:    logging.OrNop(logger),
	}
}

// Build returns the profile of companyNumber.
func (c *CachedBuilder) Build(ctx context.Context, companyNumber string) (*models.CompanyProfile, error) {
	log := c.logger.With(zap.String("company_number", companyNumber))
	start := time.Now()

	stored, savedAt, err := c.store.LoadProfile(ctx, companyNumber)
	switch {
	case err == nil && c.freshness.IsFresh(savedAt, c.clock.Now()):
		metrics.ObserveProfileBuild(metrics.ResultCached, time.Since(start))
		return stored, nil
	case err == nil:
		log.Debug("stored profile is stale", zap.Time("saved_at", savedAt))
	case !errors.Is(err, apperrors.ErrNotFound):
		log.Warn("failed to load stored profile", zap.Error(err))
	}

	p, err := c.builder.Build(ctx, companyNumber)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveProfile(ctx, p); err != nil {
		log.Warn("failed to save profile", zap.String("build_id", p.BuildID), zap.Error(err))
	}
	return p, nil
}
