package harvester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"steamdata/internal/logger"
	"steamdata/internal/rawstore"
)

// Fetcher returns the detail payload for one id, keyed by the id the API
// answered for.
type Fetcher interface {
	Details(ctx context.Context, id string) (map[string]json.RawMessage, error)
}

// Appender is the append-only side of the raw store.
type Appender interface {
	Append(v any) error
	Flush() error
}

// Stats summarises one harvest run.
type Stats struct {
	Requested  int
	Skipped    int
	Written    int
	Failed     int
	Mismatched int
	Batches    int
}

// Options configures a Harvester.
type Options struct {
	BatchSize int
	BatchWait time.Duration
	Sleep     SleepFunc
	Logger    *logger.Logger
}

// Harvester walks an id list and appends every not-yet-seen item to the
// raw store. It pauses for BatchWait after every BatchSize requests.
type Harvester struct {
	fetcher   Fetcher
	store     Appender
	seen      map[string]struct{}
	batchSize int
	batchWait time.Duration
	sleep     SleepFunc
	log       *logger.Logger
	batch     int
	stats     Stats
}

// New creates a harvester. seen holds the ids already in the store, usually
// from rawstore.SeenIDs; it is updated as items are written.
func New(fetcher Fetcher, store Appender, seen map[string]struct{}, opts Options) *Harvester {
	if seen == nil {
		seen = make(map[string]struct{})
	}

	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}

	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	return &Harvester{
		fetcher:   fetcher,
		store:     store,
		seen:      seen,
		batchSize: opts.BatchSize,
		batchWait: opts.BatchWait,
		sleep:     opts.Sleep,
		log:       opts.Logger,
	}
}

// Stats returns the counters so far.
func (h *Harvester) Stats() Stats {
	return h.stats
}

// Run harvests every entry in order. Per-item failures are logged and
// counted; only store write failures and cancellation stop the run.
func (h *Harvester) Run(ctx context.Context, entries []IDEntry) (Stats, error) {
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return h.stats, h.finish(err)
		}

		if err := h.harvestOne(ctx, e); err != nil {
			return h.stats, h.finish(err)
		}
	}

	return h.stats, h.finish(nil)
}

func (h *Harvester) harvestOne(ctx context.Context, e IDEntry) error {
	key := rawstore.IDKey(e.ID)
	if _, ok := h.seen[key]; ok {
		h.stats.Skipped++
		return nil
	}

	h.stats.Requested++

	payload, err := h.fetcher.Details(ctx, e.ID)

	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		h.stats.Failed++
		h.log.Warn("request failed, id left for next run", "id", e.ID, "error", err)
	default:
		if err := h.write(e, key, payload); err != nil {
			return err
		}
	}

	return h.tick(ctx)
}

// write appends one store line per response entry with the query fields
// attached. A response id that differs from the request is kept. The id is
// marked seen once at least one line is written.
func (h *Harvester) write(e IDEntry, key string, payload map[string]json.RawMessage) error {
	written := 0

	for _, respID := range slices.Sorted(maps.Keys(payload)) {
		body := payload[respID]

		if rawstore.IDKey(respID) != key {
			h.stats.Mismatched++
			h.log.Warn("response id does not match request", "requested", e.ID, "returned", respID)
		}

		line, err := decodeObject(body)
		if err != nil {
			h.stats.Failed++
			h.log.Warn("undecodable response entry", "id", e.ID, "error", err)

			continue
		}

		line["query_id"] = e.ID
		line["query_name"] = e.Name

		if err := h.store.Append(line); err != nil {
			return err
		}

		h.stats.Written++
		written++
	}

	if written > 0 {
		h.seen[key] = struct{}{}
	}

	return nil
}

// tick advances the batch counter, flushing and pausing on a full batch.
func (h *Harvester) tick(ctx context.Context) error {
	h.batch++
	if h.batchSize <= 0 || h.batch < h.batchSize {
		return nil
	}

	h.batch = 0
	h.stats.Batches++

	if err := h.store.Flush(); err != nil {
		return err
	}

	h.log.Info("batch complete, pausing", "requests", h.batchSize, "wait", h.batchWait)

	return h.sleep(ctx, h.batchWait)
}

func (h *Harvester) finish(runErr error) error {
	if err := h.store.Flush(); err != nil && runErr == nil {
		return err
	}

	return runErr
}

func decodeObject(body json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}

	if m == nil {
		return nil, fmt.Errorf("decode entry: %w", ErrEmptyResponse)
	}

	return m, nil
}
