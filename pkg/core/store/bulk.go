package store

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"company_profiler/pkg/core/compliance"
	"company_profiler/pkg/core/entitykey"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/core/profile"
	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/models"
)

// DefaultBatchSize is the number of companies written per transaction.
const DefaultBatchSize = 1000

// =============================================================================
// PROGRESS FILE
// =============================================================================

// ProgressFile records company ids already loaded, one per line, so an
// interrupted load can resume.
type ProgressFile struct {
	path string
}

func NewProgressFile(path string) *ProgressFile {
	return &ProgressFile{path: path}
}

// Load returns the recorded ids. A missing file means nothing was loaded.
func (p *ProgressFile) Load() (map[string]bool, error) {
	done := map[string]bool{}
	f, err := os.Open(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return done, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open progress file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			done[id] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	return done, nil
}

// Mark appends ids to the file.
func (p *ProgressFile) Mark(ids []string) error {
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open progress file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := w.WriteString(id + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("failed to write progress file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	return f.Close()
}

// =============================================================================
// BULK LOADER
// =============================================================================

// BatchWriter persists bulk rows; GraphStore implements it.
type BatchWriter interface {
	UpsertBatch(ctx context.Context, rows []BulkRow) error
}

// BulkStats summarises one load.
type BulkStats struct {
	Inserted  int
	Skipped   int
	Malformed int
}

// BulkLoader imports a zip archive of register extract XML files.
type BulkLoader struct {
	writer    BatchWriter
	progress  *ProgressFile
	batchSize int
	logger    *zap.Logger
}

func NewBulkLoader(writer BatchWriter, progress *ProgressFile, batchSize int, logger *zap.Logger) *BulkLoader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BulkLoader{writer: writer, progress: progress, batchSize: batchSize, logger: logging.OrNop(logger)}
}

// LoadFile imports the archive at zipPath.
func (l *BulkLoader) LoadFile(ctx context.Context, zipPath string) (BulkStats, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return BulkStats{}, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer zr.Close()
	return l.Load(ctx, &zr.Reader)
}

// Load imports every .xml entry of zr not yet recorded in the progress file.
// Entries that fail to decode or carry no company number are counted as
// malformed and skipped. Each batch is marked done after it is written.
func (l *BulkLoader) Load(ctx context.Context, zr *zip.Reader) (BulkStats, error) {
	var stats BulkStats
	done := map[string]bool{}
	if l.progress != nil {
		var err error
		if done, err = l.progress.Load(); err != nil {
			return stats, err
		}
	}

	batch := make([]BulkRow, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.writer.UpsertBatch(ctx, batch); err != nil {
			metrics.AddBulkLoadRows(metrics.ResultError, len(batch))
			return err
		}
		metrics.AddBulkLoadRows(metrics.ResultSuccess, len(batch))

		ids := make([]string, len(batch))
		for i, r := range batch {
			ids[i] = r.CompanyID
			done[r.CompanyID] = true
		}
		if l.progress != nil {
			if err := l.progress.Mark(ids); err != nil {
				return err
			}
		}
		stats.Inserted += len(batch)
		l.logger.Info("inserted companies", zap.Int("total", stats.Inserted))
		batch = batch[:0]
		return nil
	}

	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if entry.FileInfo().IsDir() || !strings.EqualFold(path.Ext(entry.Name), ".xml") {
			continue
		}

		row, err := readEntry(entry)
		if err != nil {
			stats.Malformed++
			l.logger.Debug("skipping archive entry", zap.String("entry", entry.Name), zap.Error(err))
			continue
		}
		if done[row.CompanyID] {
			stats.Skipped++
			continue
		}
		// duplicates within the pending batch
		done[row.CompanyID] = true

		batch = append(batch, row)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

func readEntry(entry *zip.File) (BulkRow, error) {
	rc, err := entry.Open()
	if err != nil {
		return BulkRow{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return BulkRow{}, err
	}
	rec, err := registry.DecodeMasterRecord(data)
	if err != nil {
		return BulkRow{}, err
	}
	return RowFromRecord(rec)
}

// RowFromRecord derives the graph row of one register extract. Bulk rows
// have no financial data, so their glance carries the corresponding error.
func RowFromRecord(rec *registry.MasterRecord) (BulkRow, error) {
	info := profile.ExtractBasicInfo(rec)
	if info.CompanyNumber == "" {
		return BulkRow{}, errors.New("extract without company number")
	}
	info.IsDeleted = compliance.IsDeleted(profile.ExtractHistory(rec))

	p := &models.CompanyProfile{BasicInfo: info}
	return BulkRow{
		CompanyID:   info.CompanyNumber,
		Glance:      profile.Glance(p),
		ManagerKeys: entitykey.ManagerKeys(profile.ExtractManagement(rec)),
		AddressKey:  entitykey.AddressKey(profile.ExtractLocation(rec)),
	}, nil
}
