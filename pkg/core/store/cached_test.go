package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/models"
)

type memStore struct {
	profiles map[string]*models.CompanyProfile
	savedAt  map[string]time.Time
	loadErr  error
	saveErr  error
	saves    int
	clock    clock.Clock
}

func newMemStore(c clock.Clock) *memStore {
	return &memStore{profiles: map[string]*models.CompanyProfile{}, savedAt: map[string]time.Time{}, clock: c}
}

func (m *memStore) LoadProfile(_ context.Context, id string) (*models.CompanyProfile, time.Time, error) {
	if m.loadErr != nil {
		return nil, time.Time{}, m.loadErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, time.Time{}, fmt.Errorf("company %s: %w", id, apperrors.ErrNotFound)
	}
	return p, m.savedAt[id], nil
}

func (m *memStore) SaveProfile(_ context.Context, p *models.CompanyProfile) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[p.BasicInfo.CompanyNumber] = p
	m.savedAt[p.BasicInfo.CompanyNumber] = m.clock.Now()
	return nil
}

type countingBuilder struct {
	calls int
	err   error
}

func (b *countingBuilder) Build(_ context.Context, id string) (*models.CompanyProfile, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &models.CompanyProfile{BasicInfo: models.BasicInfo{CompanyNumber: id}, BuildID: fmt.Sprintf("build-%d", b.calls)}, nil
}

func TestFreshness(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f := Freshness{}
	assert.True(t, f.IsFresh(now.Add(-29*24*time.Hour), now))
	assert.False(t, f.IsFresh(now.Add(-30*24*time.Hour), now))
	assert.False(t, Freshness{MaxAge: time.Hour}.IsFresh(now.Add(-2*time.Hour), now))
}

func TestCachedBuilder(t *testing.T) {
	clk := clock.NewManual(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	st := newMemStore(clk)
	b := &countingBuilder{}
	cb := NewCachedBuilder(st, b, Freshness{MaxAge: 24 * time.Hour}, clk, nil)
	ctx := context.Background()

	p, err := cb.Build(ctx, "123456a")
	require.NoError(t, err)
	assert.Equal(t, "build-1", p.BuildID)
	assert.Equal(t, 1, st.saves)

	clk.Advance(time.Hour)
	p, err = cb.Build(ctx, "123456a")
	require.NoError(t, err)
	assert.Equal(t, "build-1", p.BuildID, "fresh profile is served from the store")
	assert.Equal(t, 1, b.calls)

	clk.Advance(24 * time.Hour)
	p, err = cb.Build(ctx, "123456a")
	require.NoError(t, err)
	assert.Equal(t, "build-2", p.BuildID)
	assert.Equal(t, 2, st.saves)
}

func TestCachedBuilder_StoreFailuresDoNotFailRequests(t *testing.T) {
	clk := clock.NewManual(time.Now())
	st := newMemStore(clk)
	st.loadErr = errors.New("connection refused")
	st.saveErr = errors.New("connection refused")
	cb := NewCachedBuilder(st, &countingBuilder{}, Freshness{}, clk, nil)

	p, err := cb.Build(context.Background(), "123456a")
	require.NoError(t, err)
	assert.Equal(t, "123456a", p.BasicInfo.CompanyNumber)
}

func TestCachedBuilder_BuildErrorPropagates(t *testing.T) {
	clk := clock.NewManual(time.Now())
	boom := errors.New("register down")
	cb := NewCachedBuilder(newMemStore(clk), &countingBuilder{err: boom}, Freshness{}, clk, nil)

	_, err := cb.Build(context.Background(), "123456a")
	assert.ErrorIs(t, err, boom)
}
