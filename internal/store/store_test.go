package store

import (
	"path/filepath"
	"testing"

	"cfwai/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestQueueRoundTrip(t *testing.T) {
	s := newTestStore(t)
	items := []model.Item{
		{Creator: "Acme", Title: "Episode One", Datecode: "20250101", URL: "https://example/1"},
		{Creator: "Acme", Title: "Episode Two", Datecode: "20250102", URL: "https://example/2"},
	}
	if err := s.SaveQueue(model.StageDecision, items); err != nil {
		t.Fatalf("SaveQueue: %v", err)
	}
	got := s.LoadQueue(model.StageDecision)
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
	for i, item := range got {
		if item.Creator != items[i].Creator || item.URL != items[i].URL {
			t.Fatalf("item %d mismatch: %+v vs %+v", i, item, items[i])
		}
	}
}

func TestLoadQueueMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got := s.LoadQueue(model.StageAging)
	if len(got) != 0 {
		t.Fatalf("expected empty queue, got %d items", len(got))
	}
}

func TestCurrentItemRoundTrip(t *testing.T) {
	s := newTestStore(t)
	item := &model.Item{Creator: "Acme", Title: "In Progress", Datecode: "20250101", URL: "https://example/x"}
	if err := s.SaveCurrent(model.StageDownload, item); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	got, err := s.LoadCurrent(model.StageDownload)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if got == nil || got.Title != item.Title {
		t.Fatalf("expected to recover in-flight item, got %+v", got)
	}
	if err := s.ClearCurrent(model.StageDownload); err != nil {
		t.Fatalf("ClearCurrent: %v", err)
	}
	got, err = s.LoadCurrent(model.StageDownload)
	if err != nil {
		t.Fatalf("LoadCurrent after clear: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no current item after clear, got %+v", got)
	}
}

func TestArchiveAppendIsAppendOnly(t *testing.T) {
	s := newTestStore(t)
	first := model.Item{Creator: "A", Title: "One", Datecode: "20250101", URL: "u1"}
	second := model.Item{Creator: "A", Title: "Two", Datecode: "20250102", URL: "u2"}

	if err := s.ArchiveAppend(model.OutcomePass, first); err != nil {
		t.Fatalf("ArchiveAppend 1: %v", err)
	}
	if err := s.ArchiveAppend(model.OutcomePass, second); err != nil {
		t.Fatalf("ArchiveAppend 2: %v", err)
	}
	got := s.LoadArchive(model.OutcomePass)
	if len(got) != 2 {
		t.Fatalf("expected 2 archived items, got %d", len(got))
	}
	if got[0].Title != "One" || got[1].Title != "Two" {
		t.Fatalf("expected append order preserved, got %+v", got)
	}
}

func TestArchivePathLocation(t *testing.T) {
	s := newTestStore(t)
	want := filepath.Join(s.dataDir, "history", "pass.json")
	if got := s.archivePath(model.OutcomePass); got != want {
		t.Fatalf("archivePath = %q, want %q", got, want)
	}
}

func TestItemExtraFieldRoundTrip(t *testing.T) {
	s := newTestStore(t)
	item := model.Item{
		Creator: "A", Title: "One", Datecode: "20250101", URL: "u1",
		Extra: map[string]any{"future_field": "keep me"},
	}
	if err := s.ArchiveAppend(model.OutcomePass, item); err != nil {
		t.Fatalf("ArchiveAppend: %v", err)
	}
	got := s.LoadArchive(model.OutcomePass)
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Extra["future_field"] != "keep me" {
		t.Fatalf("expected unknown field preserved, got %+v", got[0].Extra)
	}
}
