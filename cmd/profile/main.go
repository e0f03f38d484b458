// Command profile builds the profile of one company and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"company_profiler/pkg/core/config"
	"company_profiler/pkg/core/export"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/profile"
	"company_profiler/pkg/core/registry"
)

func main() {
	configPath := flag.String("config", "config/profiler.yaml", "path to the YAML config file")
	xlsxPath := flag.String("xlsx", "", "also write the profile as an Excel workbook to this path")
	strict := flag.Bool("strict", false, "fail when any filing cannot be parsed")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <company-number>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// logs go to stderr so stdout stays valid JSON
	logger, err := logging.New(cfg.LogLevel, "local")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := registry.NewSOAPClient(cfg.Registry.Endpoint, cfg.Registry.APIKey, cfg.Registry.Timeout, logger)
	builder := profile.NewBuilder(client, profile.Options{
		RequireCompleteFinancials: *strict || cfg.Profile.RequireCompleteFinancials,
	}, logger)

	p, err := builder.Build(ctx, flag.Arg(0))
	if err != nil {
		if msg, ok := registry.UpstreamMessage(err); ok {
			logger.Error("register rejected the request", zap.String("message", msg))
		}
		logger.Fatal("build failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		logger.Fatal("encode failed", zap.Error(err))
	}

	if *xlsxPath != "" {
		data, err := export.ProfileXLSX(p)
		if err != nil {
			logger.Fatal("export failed", zap.Error(err))
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			logger.Fatal("write failed", zap.Error(err))
		}
		logger.Info("workbook written", zap.String("path", *xlsxPath))
	}
}
