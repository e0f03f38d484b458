package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/profile"
	"company_profiler/pkg/models"
)

// Label names a node type of the company graph.
type Label string

const (
	LabelCompany Label = "Company"
	LabelManager Label = "Manager"
	LabelAddress Label = "Address"
)

// ParseLabel accepts a node label in any letter case.
func ParseLabel(s string) (Label, error) {
	for _, l := range []Label{LabelCompany, LabelManager, LabelAddress} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown node label %q", apperrors.ErrInvalidInput, s)
}

// Neighbour is a node directly connected to the queried one. Companies carry
// their glance; managers and addresses are identified by their key alone.
type Neighbour struct {
	Label  Label          `json:"label"`
	ID     string         `json:"id"`
	Glance *models.Glance `json:"glance,omitempty"`
}

// GraphStore reads and writes the company graph.
type GraphStore struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *zap.Logger
}

// NewGraphStore returns a store on pool. A nil clock is the system clock.
func NewGraphStore(pool *pgxpool.Pool, c clock.Clock, logger *zap.Logger) *GraphStore {
	return &GraphStore{pool: pool, clock: clock.OrSystem(c), logger: logging.OrNop(logger)}
}

// SaveProfile upserts the company node with its full profile and glance and
// replaces its manager and address links, in one transaction.
func (s *GraphStore) SaveProfile(ctx context.Context, p *models.CompanyProfile) error {
	id := p.BasicInfo.CompanyNumber
	if id == "" {
		return fmt.Errorf("%w: profile without company number", apperrors.ErrInvalidInput)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	glance, err := json.Marshal(profile.Glance(p))
	if err != nil {
		return fmt.Errorf("failed to marshal glance: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO companies (company_id, data, glance, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id)
		DO UPDATE SET data = EXCLUDED.data, glance = EXCLUDED.glance, updated_at = EXCLUDED.updated_at
	`, id, data, glance, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", id, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM company_managers WHERE company_id = $1`, id)
	batch.Queue(`DELETE FROM company_addresses WHERE company_id = $1`, id)
	queueLinks(batch, id, p.Keys.ManagerKeys, p.Keys.AddressKey)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to link company %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit company %s: %w", id, err)
	}
	s.logger.Debug("profile saved", zap.String("company_number", id), zap.Int("managers", len(p.Keys.ManagerKeys)))
	return nil
}

// queueLinks merges manager and address nodes and links them to the company.
func queueLinks(batch *pgx.Batch, companyID string, managerKeys []string, addressKey *string) {
	for _, mk := range managerKeys {
		batch.Queue(`INSERT INTO managers (manager_key) VALUES ($1) ON CONFLICT DO NOTHING`, mk)
		batch.Queue(`INSERT INTO company_managers (company_id, manager_key) VALUES ($1, $2) ON CONFLICT DO NOTHING`, companyID, mk)
	}
	if addressKey != nil {
		batch.Queue(`INSERT INTO addresses (address_key) VALUES ($1) ON CONFLICT DO NOTHING`, *addressKey)
		batch.Queue(`INSERT INTO company_addresses (company_id, address_key) VALUES ($1, $2) ON CONFLICT DO NOTHING`, companyID, *addressKey)
	}
}

// LoadProfile returns the stored profile and when it was saved. Companies
// known only from a bulk load have no profile and yield ErrNotFound.
func (s *GraphStore) LoadProfile(ctx context.Context, companyNumber string) (*models.CompanyProfile, time.Time, error) {
	var data []byte
	var updatedAt time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT data, updated_at FROM companies
		WHERE company_id = $1 AND data IS NOT NULL
	`, companyNumber).Scan(&data, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("company %s: %w", companyNumber, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load company %s: %w", companyNumber, err)
	}

	var p models.CompanyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal company %s: %w", companyNumber, err)
	}
	return &p, updatedAt, nil
}

const (
	companyNeighboursSQL = `
		SELECT 'Manager', manager_key, NULL::jsonb FROM company_managers WHERE company_id = $1
		UNION ALL
		SELECT 'Address', address_key, NULL::jsonb FROM company_addresses WHERE company_id = $1
		ORDER BY 1, 2`
	managerNeighboursSQL = `
		SELECT 'Company', c.company_id, c.glance
		FROM company_managers cm JOIN companies c ON c.company_id = cm.company_id
		WHERE cm.manager_key = $1
		ORDER BY 2`
	addressNeighboursSQL = `
		SELECT 'Company', c.company_id, c.glance
		FROM company_addresses ca JOIN companies c ON c.company_id = ca.company_id
		WHERE ca.address_key = $1
		ORDER BY 2`
)

// Neighbours lists the nodes linked to the node with the given label and id.
// An unknown node has no neighbours.
func (s *GraphStore) Neighbours(ctx context.Context, label Label, id string) ([]Neighbour, error) {
	var query string
	switch label {
	case LabelCompany:
		query = companyNeighboursSQL
	case LabelManager:
		query = managerNeighboursSQL
	case LabelAddress:
		query = addressNeighboursSQL
	default:
		return nil, fmt.Errorf("%w: unknown node label %q", apperrors.ErrInvalidInput, label)
	}

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbours of %s %s: %w", label, id, err)
	}
	defer rows.Close()

	out := []Neighbour{}
	for rows.Next() {
		var nodeLabel, nodeID string
		var glance []byte
		if err := rows.Scan(&nodeLabel, &nodeID, &glance); err != nil {
			return nil, fmt.Errorf("failed to scan neighbour: %w", err)
		}
		n := Neighbour{Label: Label(nodeLabel), ID: nodeID}
		if glance != nil {
			var g models.Glance
			if err := json.Unmarshal(glance, &g); err != nil {
				return nil, fmt.Errorf("failed to unmarshal glance of %s: %w", nodeID, err)
			}
			n.Glance = &g
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// BulkRow is one company read from a register export archive.
type BulkRow struct {
	CompanyID   string
	Glance      models.Glance
	ManagerKeys []string
	AddressKey  *string
}

// UpsertBatch merges bulk-loaded companies and their links in one
// transaction. It never overwrites a company that already has a full
// profile, and links are only ever added.
func (s *GraphStore) UpsertBatch(ctx context.Context, rows []BulkRow) error {
	if len(rows) == 0 {
		return nil
	}
	now := s.clock.Now()

	batch := &pgx.Batch{}
	for _, r := range rows {
		glance, err := json.Marshal(r.Glance)
		if err != nil {
			return fmt.Errorf("failed to marshal glance of %s: %w", r.CompanyID, err)
		}
		batch.Queue(`
			INSERT INTO companies (company_id, glance, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (company_id)
			DO UPDATE SET glance = EXCLUDED.glance, updated_at = EXCLUDED.updated_at
			WHERE companies.data IS NULL
		`, r.CompanyID, glance, now)
		queueLinks(batch, r.CompanyID, r.ManagerKeys, r.AddressKey)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write batch of %d: %w", len(rows), err)
	}
	return tx.Commit(ctx)
}
