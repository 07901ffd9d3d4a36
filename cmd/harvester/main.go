// Package main provides the harvester command that fills the raw store from
// the store API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"steamdata/internal/config"
	"steamdata/internal/logger"
	"steamdata/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	idList := flag.String("ids", "", "ID list CSV path (overrides config)")
	store := flag.String("store", "", "Raw store path (overrides config)")
	batchSize := flag.Int("batch-size", 0, "Requests per batch before pausing (overrides config)")
	verbose := flag.Bool("v", false, "Log at debug level")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *idList != "" {
		cfg.Paths.IDList = *idList
	}

	if *store != "" {
		cfg.Paths.RawStore = *store
	}

	if *batchSize > 0 {
		cfg.Harvest.BatchSize = *batchSize
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

	lg, _ := logger.NewLogger(cfg.Logging.Level).ForRun("harvester")

	if *verbose {
		lg.SetLevel("debug")
	}

	fmt.Printf("⚙️  %s\n", cfg)
	fmt.Printf("📥 Harvesting %s -> %s\n", cfg.Paths.IDList, cfg.Paths.RawStore)

	start := time.Now()

	stats, err := pipeline.RunHarvest(ctx, cfg, lg, nil)

	fmt.Println("\n------------------------------------------------")
	fmt.Println("📊 Harvest Summary")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Requested:  %d\n", stats.Requested)
	fmt.Printf("Skipped:    %d (already in store)\n", stats.Skipped)
	fmt.Printf("Written:    %d\n", stats.Written)
	fmt.Printf("Failed:     %d\n", stats.Failed)
	fmt.Printf("Mismatched: %d\n", stats.Mismatched)
	fmt.Printf("Batches:    %d\n", stats.Batches)
	fmt.Printf("Duration:   %v\n", time.Since(start).Round(time.Second))
	fmt.Println("------------------------------------------------")

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("⏸️  Interrupted; rerun to resume.")
		os.Exit(130)
	case err != nil:
		lg.Error("harvest failed", "error", err)
		os.Exit(1)
	}
}
