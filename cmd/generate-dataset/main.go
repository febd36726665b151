package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"aquasense-design/common/database"
	"aquasense-design/common/logger"
	"aquasense-design/internal/config"
	"aquasense-design/internal/dataset"
	"aquasense-design/internal/models"
	"aquasense-design/internal/repository"
	"aquasense-design/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		counts  = flag.String("counts", "", "Comma-separated row counts for types 1..5 (e.g. '800,800,800,1000,800')")
		seeds   = flag.String("seeds", "", "Comma-separated seeds for types 1..5 (default: type id)")
		out     = flag.String("out", cfg.Generator.OutputDir, "Output directory for CSV/XLSX files")
		noCSV   = flag.Bool("no-csv", false, "Skip CSV export")
		noXLSX  = flag.Bool("no-xlsx", false, "Skip XLSX export")
		persist = flag.Bool("persist", false, "Insert generated records into PostgreSQL")
	)
	flag.Parse()

	log, err := logger.NewLogger(cfg.Log.Level, "console", "generate-dataset")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	plan := dataset.Plan{Counts: cfg.GeneratorCounts(), Seeds: cfg.GeneratorSeeds()}
	if *counts != "" {
		vals, err := parseList(*counts)
		if err != nil {
			log.Fatal("Invalid -counts", zap.Error(err))
		}
		for i, id := range models.AllArchetypes {
			plan.Counts[id] = int(vals[i])
		}
	}
	if *seeds != "" {
		vals, err := parseList(*seeds)
		if err != nil {
			log.Fatal("Invalid -seeds", zap.Error(err))
		}
		for i, id := range models.AllArchetypes {
			plan.Seeds[id] = vals[i]
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recordStore service.RecordStore
	if *persist {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Cannot connect to database", zap.Error(err))
		}
		defer database.Close(db)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to ensure schema", zap.Error(err))
		}
		recordStore = repository.NewDesignRecordRepository(db, log)
	}

	gen := service.NewGeneratorService(recordStore, log)
	report, _, err := gen.Generate(ctx, plan, service.GenerateOptions{
		OutputDir: *out,
		CSV:       !*noCSV,
		XLSX:      !*noXLSX,
		Persist:   *persist,
	})
	if err != nil {
		log.Fatal("Dataset generation failed", zap.Error(err))
	}

	for _, id := range models.AllArchetypes {
		fmt.Printf("%-32s %6d rows\n", dataset.TableName(id), report.Rows[id])
	}
	fmt.Printf("%-32s %6d rows\n", dataset.UnionTableName, report.UnionRows)
	for _, f := range report.Files {
		fmt.Printf("wrote %s\n", f)
	}
	if *persist {
		fmt.Printf("persisted %d records (batch %s)\n", report.Persisted, report.BatchID)
	}
}

// parseList 解析五个逗号分隔的非负整数
func parseList(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != len(models.AllArchetypes) {
		return nil, fmt.Errorf("expected %d values, got %d", len(models.AllArchetypes), len(parts))
	}
	out := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
