// Package main provides the audit command that tallies raw store records and
// checks run report provenance.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"steamdata/internal/config"
	"steamdata/internal/rawstore"
	"steamdata/internal/report"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	store := flag.String("store", "", "Raw store path (overrides config)")
	reportPath := flag.String("report", "", "Verify the provenance hash of this run report instead of tallying")
	flag.Parse()

	if *reportPath != "" {
		verifyReport(*reportPath)
		return
	}

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *store != "" {
		cfg.Paths.RawStore = *store
	}

	tally, err := rawstore.TallyFile(cfg.Paths.RawStore)
	if err != nil {
		log.Fatalf("❌ Error reading store: %v\n", err)
	}

	fmt.Printf("Good Records Seen:  %8d\n", tally.Good)
	fmt.Printf("Bad Records Seen:   %8d\n", tally.Bad)
	fmt.Printf("Error Records Seen: %8d\n", tally.Error)
	fmt.Println("                    --------")
	fmt.Printf("Total Records Seen: %8d\n", tally.Total)
	fmt.Println("                    --------")
	fmt.Printf("Sanity Check Total: %8d\n", tally.Good+tally.Bad+tally.Error)

	if !tally.Sane() {
		os.Exit(1)
	}
}

func verifyReport(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("❌ Error reading file: %v\n", err)
	}

	p, err := report.Verify(string(content))
	if err != nil {
		log.Fatalf("❌ Verification failed: %v\n", err)
	}

	fmt.Printf("✅ Report verified (run %s, generated %s)\n", p.RunID, p.Generated.Format("2006-01-02 15:04:05"))
}
