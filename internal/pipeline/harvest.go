package pipeline

import (
	"context"
	"errors"
	"fmt"

	"steamdata/internal/config"
	"steamdata/internal/harvester"
	"steamdata/internal/logger"
	"steamdata/internal/rawstore"
)

// RunIDList fetches the catalog id list and writes it to the configured id
// list file.
func RunIDList(ctx context.Context, cfg *config.Config, log *logger.Logger) (harvester.AppListStats, error) {
	client := harvester.NewStoreClient(cfg.Harvest)

	entries, stats, err := client.FetchAppList(ctx, cfg.Harvest.AppListURL, log)
	if err != nil {
		return stats, err
	}

	if err := harvester.WriteIDList(cfg.Paths.IDList, entries); err != nil {
		return stats, err
	}

	return stats, nil
}

// RunHarvest fetches every id list entry not yet in the raw store and
// appends it. Restarting after an interruption resumes where it stopped.
func RunHarvest(ctx context.Context, cfg *config.Config, log *logger.Logger, client harvester.Fetcher) (harvester.Stats, error) {
	entries, err := harvester.ReadIDList(cfg.Paths.IDList)
	if err != nil {
		return harvester.Stats{}, err
	}

	seen, err := rawstore.SeenIDs(cfg.Paths.RawStore)
	if err != nil {
		return harvester.Stats{}, fmt.Errorf("failed to scan existing store: %w", err)
	}

	log.Info("harvest state recovered", "ids", len(entries), "already_harvested", len(seen))

	store, err := rawstore.Open(cfg.Paths.RawStore)
	if err != nil {
		return harvester.Stats{}, err
	}

	if client == nil {
		client = harvester.NewStoreClient(cfg.Harvest)
	}

	h := harvester.New(client, store, seen, harvester.Options{
		BatchSize: cfg.Harvest.BatchSize,
		BatchWait: cfg.Harvest.BatchWait(),
		Logger:    log,
	})

	stats, runErr := h.Run(ctx, entries)
	closeErr := store.Close()

	log.Info("raw store updated", "path", cfg.Paths.RawStore, "lines_appended", store.Written())

	return stats, errors.Join(runErr, closeErr)
}
