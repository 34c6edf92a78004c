package scheduler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
	"github.com/MrSnakeDoc/readmark/internal/sources/backup"
	"github.com/MrSnakeDoc/readmark/internal/store/memory"
)

func TestRetentionSweeper_Sweep(t *testing.T) {
	log := logger.New("error", false)
	now := time.Now()
	store := progress.New(memory.New(), progress.Options{})

	records := []*domain.Bookmark{
		{ID: "fresh", URL: "https://example.com/fresh", CreatedAt: domain.Millis(now.Add(-time.Hour)), UpdatedAt: domain.Millis(now.Add(-time.Hour))},
		{ID: "stale", URL: "https://example.com/stale", CreatedAt: domain.Millis(now.Add(-40 * 24 * time.Hour)), UpdatedAt: domain.Millis(now.Add(-35 * 24 * time.Hour))},
		{ID: "stale-pinned", URL: "https://example.com/pinned", Pinned: true, CreatedAt: domain.Millis(now.Add(-40 * 24 * time.Hour)), UpdatedAt: domain.Millis(now.Add(-40 * 24 * time.Hour))},
	}
	if _, err := store.Import(context.Background(), records); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	rs := NewRetentionSweeper(store, log, time.Hour, 30*24*time.Hour)
	rs.now = func() time.Time { return now }

	removed, err := rs.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removal, got %d", removed)
	}

	if _, err := store.Get(context.Background(), "stale"); err == nil {
		t.Error("Stale bookmark was not removed")
	}
	if _, err := store.Get(context.Background(), "fresh"); err != nil {
		t.Error("Fresh bookmark was incorrectly removed")
	}
	if _, err := store.Get(context.Background(), "stale-pinned"); err != nil {
		t.Error("Pinned bookmark was incorrectly removed")
	}
}

func TestRetentionSweeper_Disabled(t *testing.T) {
	store := progress.New(memory.New(), progress.Options{})
	rs := NewRetentionSweeper(store, logger.New("error", false), 0, 0)

	if rs.interval != DefaultRetentionInterval {
		t.Errorf("interval = %v, want default", rs.interval)
	}
	if n, err := rs.Sweep(context.Background()); n != 0 || err != nil {
		t.Errorf("Sweep() = %d, %v with retention disabled", n, err)
	}
}

func TestBackupImporter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.yaml")

	var buf bytes.Buffer
	records := []*domain.Bookmark{
		{ID: "a", URL: "https://example.com/a", Title: "A", CreatedAt: 2, UpdatedAt: 2},
		{ID: "b", URL: "https://example.com/b", Title: "B", CreatedAt: 1, UpdatedAt: 1},
	}
	if err := backup.Encode(&buf, records, backup.FormatYAML, time.Now()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write backup: %v", err)
	}

	store := progress.New(memory.New(), progress.Options{})
	bus := events.NewBus(4)
	ch, cancel := bus.Subscribe()
	defer cancel()

	trigger := make(chan struct{}, 1)
	bi := NewBackupImporter(path, store, bus, logger.New("error", false), trigger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if err := bi.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer bi.Stop()

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" {
		t.Errorf("Expected [a b] after import, got %d records", len(all))
	}

	select {
	case e := <-ch:
		if e.Type != events.BookmarksImported {
			t.Errorf("event type = %q", e.Type)
		}
	case <-time.After(time.Second):
		t.Error("No import event published")
	}

	res, err := bi.Import(ctx)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Added != 0 || res.Skipped != 2 {
		t.Errorf("Re-import should skip everything, got %+v", res)
	}
}

func TestBackupImporter_MissingFile(t *testing.T) {
	store := progress.New(memory.New(), progress.Options{})
	bi := NewBackupImporter(filepath.Join(t.TempDir(), "nope.yaml"), store, nil, logger.New("error", false), nil)

	if err := bi.Start(context.Background()); err == nil {
		t.Error("Start should fail when the backup file is missing")
	}
}
