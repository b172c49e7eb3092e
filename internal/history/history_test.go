package history

import (
	"database/sql"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixelseek/pixelseek/internal/cv"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func foundResult(x, y, w, h int) cv.MatchResult {
	return cv.MatchResult{Found: true, Bounds: image.Rect(x, y, x+w, y+h)}
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	store.RecordMatch("ok_button", foundResult(5, 5, 3, 3), 1.0, 12*time.Millisecond)
	store.RecordMatch("close_button", cv.MatchResult{}, 0.9, 4*time.Millisecond)

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Newest first.
	if records[0].Template != "close_button" {
		t.Errorf("expected close_button first, got %s", records[0].Template)
	}
	if records[0].Found {
		t.Error("close_button search should be recorded as a miss")
	}

	hit := records[1]
	if hit.Template != "ok_button" || !hit.Found {
		t.Errorf("wrong hit record: %+v", hit)
	}
	if hit.X != 5 || hit.Y != 5 || hit.Width != 3 || hit.Height != 3 {
		t.Errorf("wrong match geometry: %+v", hit)
	}
	if hit.Threshold != 1.0 {
		t.Errorf("wrong threshold: %v", hit.Threshold)
	}
	if hit.DurationMs != 12 {
		t.Errorf("wrong duration: %d", hit.DurationMs)
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.RecordMatch("button", foundResult(i, 0, 2, 2), 1.0, time.Millisecond)
	}

	records, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected limit of 3, got %d", len(records))
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	store.RecordMatch("a", foundResult(0, 0, 1, 1), 1.0, time.Millisecond)
	store.RecordMatch("a", cv.MatchResult{}, 1.0, time.Millisecond)
	store.RecordMatch("b", foundResult(0, 0, 1, 1), 0.8, time.Millisecond)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 templates, got %d", len(stats))
	}

	if stats[0].Template != "a" || stats[0].Searches != 2 || stats[0].Hits != 1 {
		t.Errorf("wrong stats for a: %+v", stats[0])
	}
	if stats[1].Template != "b" || stats[1].Searches != 1 || stats[1].Hits != 1 {
		t.Errorf("wrong stats for b: %+v", stats[1])
	}
}

func TestDeleteOlderThan(t *testing.T) {
	store := openTestStore(t)

	// Insert one record with an old timestamp directly.
	err := store.ExecTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO match_log (template, found, threshold, duration_ms, searched_at)
			VALUES (?, ?, ?, ?, ?)
		`, "stale", false, 1.0, 1, time.Now().Add(-48*time.Hour))
		return err
	})
	if err != nil {
		t.Fatalf("inserting stale record: %v", err)
	}
	store.RecordMatch("fresh", foundResult(0, 0, 1, 1), 1.0, time.Millisecond)

	deleted, err := store.DeleteOlderThan(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted record, got %d", deleted)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 || records[0].Template != "fresh" {
		t.Errorf("expected only the fresh record, got %+v", records)
	}
}
