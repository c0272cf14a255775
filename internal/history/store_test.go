package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecentDetections(t *testing.T) {
	store := openTestStore(t)

	id1, err := store.RecordDetection("confirm.png", 120, 340, 0.91, false)
	if err != nil {
		t.Fatalf("RecordDetection failed: %v", err)
	}
	id2, err := store.RecordDetection("close.png", 500, 60, 0.87, true)
	if err != nil {
		t.Fatalf("RecordDetection failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("IDs not increasing: %d then %d", id1, id2)
	}

	detections, err := store.RecentDetections(10)
	if err != nil {
		t.Fatalf("RecentDetections failed: %v", err)
	}
	if len(detections) != 2 {
		t.Fatalf("got %d detections, want 2", len(detections))
	}

	// Newest first
	d := detections[0]
	if d.Template != "close.png" || d.X != 500 || d.Y != 60 || !d.Dispatched {
		t.Errorf("newest detection = %+v, want close.png at (500,60) dispatched", d)
	}
	if detections[1].Dispatched {
		t.Error("simulated detection recorded as dispatched")
	}
	if d.DetectedAt.IsZero() {
		t.Error("DetectedAt was not stamped")
	}
}

func TestRecentDetectionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.RecordDetection("a.png", i, i, 0.9, false); err != nil {
			t.Fatalf("RecordDetection failed: %v", err)
		}
	}

	detections, err := store.RecentDetections(3)
	if err != nil {
		t.Fatalf("RecentDetections failed: %v", err)
	}
	if len(detections) != 3 {
		t.Errorf("got %d detections, want 3", len(detections))
	}
}

func TestCountByTemplate(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.RecordDetection("frequent.png", 0, 0, 0.9, false); err != nil {
			t.Fatalf("RecordDetection failed: %v", err)
		}
	}
	if _, err := store.RecordDetection("rare.png", 0, 0, 0.9, false); err != nil {
		t.Fatalf("RecordDetection failed: %v", err)
	}

	counts, err := store.CountByTemplate()
	if err != nil {
		t.Fatalf("CountByTemplate failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d templates, want 2", len(counts))
	}
	if counts[0].Template != "frequent.png" || counts[0].Count != 3 {
		t.Errorf("top count = %+v, want frequent.png x3", counts[0])
	}
	if counts[1].Template != "rare.png" || counts[1].Count != 1 {
		t.Errorf("second count = %+v, want rare.png x1", counts[1])
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.RecordDetection("recent.png", 0, 0, 0.9, false); err != nil {
		t.Fatalf("RecordDetection failed: %v", err)
	}

	// Nothing is older than an hour yet
	pruned, err := store.Prune(time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned %d rows, want 0", pruned)
	}

	// A zero retention window removes everything recorded before now
	time.Sleep(5 * time.Millisecond)
	pruned, err = store.Prune(0)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned %d rows, want 1", pruned)
	}

	detections, err := store.RecentDetections(10)
	if err != nil {
		t.Fatalf("RecentDetections failed: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("%d detections remain after prune, want 0", len(detections))
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.RecordDetection("persisted.png", 10, 20, 0.95, true); err != nil {
		t.Fatalf("RecordDetection failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	detections, err := reopened.RecentDetections(10)
	if err != nil {
		t.Fatalf("RecentDetections failed: %v", err)
	}
	if len(detections) != 1 || detections[0].Template != "persisted.png" {
		t.Errorf("persisted rows = %+v, want one persisted.png", detections)
	}
}
