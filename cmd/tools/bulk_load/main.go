// Command bulk_load imports a zip archive of register extracts into the
// company graph. Progress is appended to a file so a crashed run resumes
// where it stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"company_profiler/pkg/core/config"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "config/profiler.yaml", "path to the YAML config file")
	zipPath := flag.String("zip", "", "archive to import (default: first auszuege*.zip in the working directory)")
	progressPath := flag.String("progress", "progress.txt", "progress file")
	batchSize := flag.Int("batch", store.DefaultBatchSize, "companies per transaction")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *zipPath == "" {
		if *zipPath, err = findArchive("."); err != nil {
			logger.Fatal("no archive", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metrics.Init(nil)
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	loader := store.NewBulkLoader(store.NewGraphStore(pool, nil, logger), store.NewProgressFile(*progressPath), *batchSize, logger)
	stats, err := loader.LoadFile(ctx, *zipPath)
	if err != nil {
		logger.Fatal("bulk load failed", zap.Error(err), zap.Int("inserted", stats.Inserted))
	}
	logger.Info("bulk load complete",
		zap.String("archive", *zipPath),
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("malformed", stats.Malformed),
	)
}

func findArchive(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "auszuege") && strings.HasSuffix(name, ".zip") {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("no auszuege*.zip in %s", dir)
}
