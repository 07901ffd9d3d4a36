// Package pipeline wires the harvest and feature extraction stages to their
// configured inputs and outputs. The commands under cmd/ are thin wrappers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steamdata/internal/config"
	"steamdata/internal/logger"
	"steamdata/internal/models"
	"steamdata/internal/normalizer"
	"steamdata/internal/output"
	"steamdata/internal/rawstore"
	"steamdata/internal/report"
	"steamdata/internal/sidestats"
)

// RunFeatures normalizes every eligible raw store record into the feature
// table. Side stats and the column schema are checked before any row is
// written; a failure in either aborts the run.
func RunFeatures(ctx context.Context, cfg *config.Config, log *logger.Logger, runID string) (*report.Summary, error) {
	started := time.Now()

	stats, err := sidestats.Load(cfg.Paths.SideStats, log)
	if err != nil {
		return nil, err
	}

	log.Info("side stats loaded", "path", cfg.Paths.SideStats, "rows", stats.Len(),
		"rejected", stats.Rejected(), "invalid_fields", stats.InvalidFields())

	n := normalizer.NewNormalizer(normalizer.Options{
		Stats:         stats,
		Logger:        log,
		TextDefault:   cfg.Features.TextDefault,
		NonGameGenres: cfg.Features.NonGameGenres,
	})

	if err := normalizer.ValidateSchema(n); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	columns := n.Columns()
	missesBefore := stats.Misses()

	csvOut, err := output.NewCSVWriter(cfg.Paths.FeaturesCSV, columns)
	if err != nil {
		return nil, err
	}

	var sink output.Sink

	if cfg.Sink.DSN != "" {
		sink, err = output.OpenSink(ctx, cfg.Sink.DSN, cfg.Sink.Table, columns, n.Normalize(&models.RawRecord{}))
		if err != nil {
			csvOut.Close()
			return nil, err
		}

		// The probe above counts as a side stats miss.
		missesBefore = stats.Misses()
	}

	proc := normalizer.NewProcessor(n, cfg.Features.ExpectedType)

	scan, err := rawstore.Scan(cfg.Paths.RawStore, func(line int, raw *models.RawRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := proc.Process(raw)
		if errors.Is(err, normalizer.ErrNotEligible) {
			log.Debug("record skipped", "line", line, "reason", err)
			return nil
		}

		if err != nil {
			return err
		}

		if err := csvOut.Write(rec); err != nil {
			return err
		}

		if sink != nil {
			return sink.Write(ctx, rec)
		}

		return nil
	})

	csvErr := csvOut.Close()

	var sinkErr error

	if sink != nil {
		if err != nil || csvErr != nil {
			sinkErr = sink.Abort()
		} else {
			sinkErr = sink.Close()
		}
	}

	if err := errors.Join(err, csvErr, sinkErr); err != nil {
		return nil, err
	}

	summary := &report.Summary{
		RunID:             runID,
		Source:            cfg.Paths.RawStore,
		Output:            cfg.Paths.FeaturesCSV,
		Started:           started,
		Elapsed:           time.Since(started),
		Lines:             scan.Lines,
		BlankLines:        scan.Blank,
		BadLines:          scan.Bad,
		Eligible:          proc.Processed(),
		Written:           csvOut.Rows(),
		Skipped:           proc.Skipped(),
		CoercionFailures:  n.CoercionFailures(),
		SideStatsRows:     stats.Len(),
		SideStatsRejected: stats.Rejected(),
		SideStatsInvalid:  stats.InvalidFields(),
		SideStatsGaps:     stats.Misses() - missesBefore,
		Columns:           len(columns),
	}

	if sink != nil {
		summary.SinkTable = cfg.Sink.Table
		summary.SinkRows = sink.Rows()
	}

	if cfg.Paths.Report != "" {
		if err := summary.WriteFile(cfg.Paths.Report); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
