package harvester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"steamdata/internal/models"
	"steamdata/internal/rawstore"
)

type fakeFetcher struct {
	requested []string
	respond   func(id string) (map[string]json.RawMessage, error)
}

func (f *fakeFetcher) Details(_ context.Context, id string) (map[string]json.RawMessage, error) {
	f.requested = append(f.requested, id)

	if f.respond != nil {
		return f.respond(id)
	}

	body := fmt.Sprintf(`{"success": true, "data": {"type": "game", "steam_appid": %s}}`, id)

	return map[string]json.RawMessage{id: json.RawMessage(body)}, nil
}

type memStore struct {
	lines   []map[string]any
	flushes int
}

func (m *memStore) Append(v any) error {
	m.lines = append(m.lines, v.(map[string]any))
	return nil
}

func (m *memStore) Flush() error {
	m.flushes++
	return nil
}

func entries(ids ...string) []IDEntry {
	out := make([]IDEntry, len(ids))
	for i, id := range ids {
		out[i] = IDEntry{ID: id, Name: "App " + id}
	}

	return out
}

func TestHarvester_ResumesFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")

	w, err := rawstore.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for _, id := range []string{"1", "2"} {
		if err := w.Append(map[string]any{"success": true, "query_id": id}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	seen, err := rawstore.SeenIDs(path)
	if err != nil {
		t.Fatalf("SeenIDs() error = %v", err)
	}

	w, err = rawstore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	f := &fakeFetcher{}
	h := New(f, w, seen, Options{BatchSize: 190})

	stats, err := h.Run(context.Background(), entries("1", "2", "3"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if len(f.requested) != 1 || f.requested[0] != "3" {
		t.Errorf("requested = %v, want [3]", f.requested)
	}

	if stats.Skipped != 2 || stats.Written != 1 {
		t.Errorf("stats = %+v", stats)
	}

	var last *models.RawRecord

	if _, err := rawstore.Scan(path, func(_ int, rec *models.RawRecord) error {
		last = rec
		return nil
	}); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if last == nil || last.QueryID != "3" || last.QueryName != "App 3" || !last.IsSuccess() {
		t.Errorf("last record = %+v", last)
	}
}

func TestHarvester_IDMismatchIsKept(t *testing.T) {
	f := &fakeFetcher{respond: func(string) (map[string]json.RawMessage, error) {
		return map[string]json.RawMessage{"99": json.RawMessage(`{"success": true}`)}, nil
	}}
	store := &memStore{}

	stats, err := New(f, store, nil, Options{}).Run(context.Background(), entries("5"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Mismatched != 1 || stats.Written != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if store.lines[0]["query_id"] != "5" {
		t.Errorf("query_id = %v, want 5", store.lines[0]["query_id"])
	}
}

func TestHarvester_FailureNotMarkedSeen(t *testing.T) {
	f := &fakeFetcher{respond: func(id string) (map[string]json.RawMessage, error) {
		if id == "7" {
			return nil, ErrUnexpectedStatusCode
		}

		return map[string]json.RawMessage{id: json.RawMessage(`{"success": false}`)}, nil
	}}
	store := &memStore{}
	seen := map[string]struct{}{}

	stats, err := New(f, store, seen, Options{}).Run(context.Background(), entries("6", "7", "8"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Failed != 1 || stats.Written != 2 || stats.Requested != 3 {
		t.Errorf("stats = %+v", stats)
	}

	if _, ok := seen["7"]; ok {
		t.Error("failed id marked seen")
	}

	if _, ok := seen["8"]; !ok {
		t.Error("harvested id not marked seen")
	}
}

func TestHarvester_DuplicateIDsInSource(t *testing.T) {
	f := &fakeFetcher{}

	stats, err := New(f, &memStore{}, nil, Options{}).Run(context.Background(), entries("1", "1", "01"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.requested) != 1 || stats.Skipped != 2 {
		t.Errorf("requested = %v stats = %+v", f.requested, stats)
	}
}

func TestHarvester_BatchPause(t *testing.T) {
	var pauses []time.Duration

	store := &memStore{}
	h := New(&fakeFetcher{}, store, nil, Options{
		BatchSize: 2,
		BatchWait: 5 * time.Minute,
		Sleep: func(_ context.Context, d time.Duration) error {
			pauses = append(pauses, d)
			return nil
		},
	})

	stats, err := h.Run(context.Background(), entries("1", "2", "3", "4", "5"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Batches != 2 || len(pauses) != 2 || pauses[0] != 5*time.Minute {
		t.Errorf("batches = %d pauses = %v", stats.Batches, pauses)
	}

	// Two batch flushes plus the final one.
	if store.flushes != 3 {
		t.Errorf("flushes = %d, want 3", store.flushes)
	}
}

func TestHarvester_CancelDuringPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeFetcher{}

	h := New(f, &memStore{}, nil, Options{
		BatchSize: 1,
		BatchWait: time.Hour,
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return Sleep(ctx, d)
		},
	})

	_, err := h.Run(ctx, entries("1", "2", "3"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if len(f.requested) != 1 {
		t.Errorf("requested = %v, want only the first id", f.requested)
	}
}
