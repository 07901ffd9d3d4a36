package harvester

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"steamdata/internal/logger"
	"steamdata/internal/normalizer"
)

type appListResponse struct {
	AppList struct {
		Apps []struct {
			AppID json.Number `json:"appid"`
			Name  string      `json:"name"`
		} `json:"apps"`
	} `json:"applist"`
}

// AppListStats counts what FetchAppList kept and dropped.
type AppListStats struct {
	Kept        int
	MissingID   int
	MissingName int
}

// FetchAppList downloads the full catalog id list. Entries without an id
// are skipped; entries without a name are kept and logged for audit.
func (c *StoreClient) FetchAppList(ctx context.Context, appListURL string, log *logger.Logger) ([]IDEntry, AppListStats, error) {
	var resp appListResponse
	if err := c.GetJSON(ctx, appListURL, &resp); err != nil {
		return nil, AppListStats{}, fmt.Errorf("failed to fetch app list: %w", err)
	}

	var stats AppListStats

	entries := make([]IDEntry, 0, len(resp.AppList.Apps))

	for _, app := range resp.AppList.Apps {
		id := normalizer.ToInt(app.AppID, 0)
		if id == 0 {
			stats.MissingID++
			log.Warn("skipping app without id", "name", app.Name)

			continue
		}

		if app.Name == "" {
			stats.MissingName++
			log.Warn("audit: app without name", "appid", id)
		}

		entries = append(entries, IDEntry{ID: strconv.FormatInt(id, 10), Name: app.Name})
	}

	stats.Kept = len(entries)

	return entries, stats, nil
}
