// Package main provides the idlist command that downloads the catalog id list.
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
	output := flag.String("output", "", "ID list CSV path (overrides config)")
	verbose := flag.Bool("v", false, "Log at debug level")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *output != "" {
		cfg.Paths.IDList = *output
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

	lg, _ := logger.NewLogger(cfg.Logging.Level).ForRun("idlist")

	if *verbose {
		lg.SetLevel("debug")
	}

	fmt.Printf("🌐 GET %s\n", cfg.Harvest.AppListURL)

	stats, err := pipeline.RunIDList(ctx, cfg, lg)
	if err != nil {
		lg.Error("id list failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ ID records written: %d -> %s\n", stats.Kept, cfg.Paths.IDList)

	if stats.MissingID > 0 || stats.MissingName > 0 {
		fmt.Printf("⚠️  Skipped without id: %d, kept without name: %d\n", stats.MissingID, stats.MissingName)
	}
}
