// Package main provides the features command that flattens the raw store
// into the feature table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"steamdata/internal/config"
	"steamdata/internal/logger"
	"steamdata/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	store := flag.String("store", "", "Raw store path (overrides config)")
	sideStats := flag.String("side-stats", "", "Side stats JSON path (overrides config)")
	output := flag.String("output", "", "Feature CSV path (overrides config)")
	dsn := flag.String("dsn", "", "Optional sink DSN: sqlite:<path>, postgres://..., mysql://..., mongodb://... (overrides config)")
	verbose := flag.Bool("v", false, "Log at debug level")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *store != "" {
		cfg.Paths.RawStore = *store
	}

	if *sideStats != "" {
		cfg.Paths.SideStats = *sideStats
	}

	if *output != "" {
		cfg.Paths.FeaturesCSV = *output
	}

	if *dsn != "" {
		cfg.Sink.DSN = *dsn
	}

	if *dumpConfig != "" {
		if err := cfg.SaveConfig(*dumpConfig); err != nil {
			log.Fatalf("❌ Failed to write config: %v\n", err)
		}

		fmt.Printf("💾 Effective config written to %s\n", *dumpConfig)

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg, runID := logger.NewLogger(cfg.Logging.Level).ForRun("features")

	if *verbose {
		lg.SetLevel("debug")
	}

	fmt.Printf("📂 Reading: %s\n", cfg.Paths.RawStore)

	summary, err := pipeline.RunFeatures(ctx, cfg, lg, runID)
	if err != nil {
		lg.Error("feature extraction aborted", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved %d rows to: %s\n", summary.Written, summary.Output)

	if summary.SinkTable != "" {
		fmt.Printf("🗄️  Inserted %d rows into %s\n", summary.SinkRows, summary.SinkTable)
	}

	if cfg.Paths.Report != "" {
		fmt.Printf("📝 Report: %s\n", cfg.Paths.Report)
	}

	if summary.CoercionFailures > 0 {
		fmt.Printf("⚠️  Numeric coercion diagnostics: %d\n", summary.CoercionFailures)
	}
}
