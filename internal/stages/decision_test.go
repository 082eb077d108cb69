package stages

import (
	"context"
	"testing"
	"time"

	"cfwai/internal/config"
	"cfwai/internal/model"
	"cfwai/internal/store"
)

type recordingDispatcher struct {
	calls []model.Stage
	items []model.Item
}

func (r *recordingDispatcher) EnqueueTo(stage model.Stage, item model.Item) error {
	r.calls = append(r.calls, stage)
	r.items = append(r.items, item)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func TestDecisionStage_HappyPath(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	lib.series = []ShowCandidate{{ID: "1", Title: "Jet Lag: The Game", Monitored: true}}
	lib.episodes["1"] = []model.EpisodeRecord{
		{Series: "Jet Lag: The Game", SeriesID: "1", Season: 1, Episode: 2, Title: "We Played Hide And Seek Across NYC", AirDate: "20250426", HasFile: false, Monitored: true},
	}

	ds := NewDecisionStage(st, lib, config.Policy{}, time.Minute, nil)
	disp := &recordingDispatcher{}
	ds.SetDispatcher(disp)

	item := model.Item{
		Creator:  "Jet Lag: The Game",
		Title:    "Ep 2 — We Played Hide And Seek Across NYC",
		Datecode: "20250427",
		URL:      "https://example/x",
	}

	ds.process(context.Background(), item)

	if len(disp.calls) != 1 || disp.calls[0] != model.StageDownload {
		t.Fatalf("expected one download dispatch, got %v", disp.calls)
	}

	archived := st.LoadArchive(model.OutcomeDownloadEnqueue)
	if len(archived) != 1 {
		t.Fatalf("expected one download_enqueue archive entry, got %d", len(archived))
	}
}

func TestDecisionStage_UnmonitoredSeries(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	lib.series = []ShowCandidate{{ID: "1", Title: "Jet Lag: The Game", Monitored: false}}
	lib.monitoredSer["1"] = false

	ds := NewDecisionStage(st, lib, config.Policy{HonorUnmonitoredSeries: true}, time.Minute, nil)
	ds.SetDispatcher(&recordingDispatcher{})

	item := model.Item{Creator: "Jet Lag: The Game", Title: "Episode 2", Datecode: "20250427", URL: "u"}
	ds.process(context.Background(), item)

	archived := st.LoadArchive(model.OutcomeUnmonitoredSeries)
	if len(archived) != 1 {
		t.Fatalf("expected unmonitored_series archive entry, got %d", len(archived))
	}
}

func TestDecisionStage_LowShowScoreArchivesSeriesScore(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	lib.series = []ShowCandidate{{ID: "1", Title: "Completely Unrelated Show Title", Monitored: true}}

	ds := NewDecisionStage(st, lib, config.Policy{}, time.Minute, nil)
	ds.SetDispatcher(&recordingDispatcher{})

	item := model.Item{Creator: "xyz123", Title: "zzz", Datecode: "20250427", URL: "u"}
	ds.process(context.Background(), item)

	archived := st.LoadArchive(model.OutcomeSeriesScore)
	if len(archived) != 1 {
		t.Fatalf("expected series_score archive entry, got %d", len(archived))
	}
}

func TestDecisionStage_LowEpisodeScoreGoesToAging(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	lib.series = []ShowCandidate{{ID: "1", Title: "Jet Lag: The Game", Monitored: true}}
	lib.episodes["1"] = nil

	ds := NewDecisionStage(st, lib, config.Policy{}, time.Minute, nil)
	disp := &recordingDispatcher{}
	ds.SetDispatcher(disp)

	item := model.Item{Creator: "Jet Lag: The Game", Title: "Jet Lag: The Game", Datecode: "20250427", URL: "u"}
	ds.process(context.Background(), item)

	if len(disp.calls) != 1 || disp.calls[0] != model.StageAging {
		t.Fatalf("expected one aging dispatch, got %v", disp.calls)
	}
}

func TestDecisionStage_TaggedCandidateShortcut(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	// Primary pool has nothing matching; only the tag shortcut surfaces "1".
	lib.series = nil
	lib.tagged["wai-SomeCreator"] = []string{"1"}
	lib.episodes["1"] = []model.EpisodeRecord{
		{Series: "Show", SeriesID: "1", Season: 1, Episode: 1, Title: "Pilot Episode", AirDate: "20250427", HasFile: false, Monitored: true},
	}

	ds := NewDecisionStage(st, lib, config.Policy{}, time.Minute, nil)
	disp := &recordingDispatcher{}
	ds.SetDispatcher(disp)

	item := model.Item{Creator: "SomeCreator", Title: "Pilot Episode", Datecode: "20250427", URL: "u"}
	ds.process(context.Background(), item)

	if len(disp.calls) != 1 || disp.calls[0] != model.StageDownload {
		t.Fatalf("expected tag shortcut to reach download stage, got %v", disp.calls)
	}
}

func TestDecisionStage_Dequeue(t *testing.T) {
	st := newTestStore(t)
	ds := NewDecisionStage(st, newFakeLibrary(), config.Policy{}, time.Minute, nil)

	item := model.Item{Creator: "c", Title: "t", Datecode: "20250101", URL: "u"}
	if err := ds.Enqueue(item); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	removed, err := ds.Dequeue(item)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	if len(ds.queue.Snapshot()) != 0 {
		t.Fatalf("expected empty queue after dequeue")
	}
}
