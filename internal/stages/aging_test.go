package stages

import (
	"context"
	"testing"
	"time"

	"cfwai/internal/config"
	"cfwai/internal/model"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAgingStage_InitRipenessOnEnqueue(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	as := NewAgingStage(st, newFakeLibrary(), config.Policy{}, 4, time.Minute, nil)
	as.now = fixedNow(now)

	item := model.Item{Creator: "c", Title: "t", Datecode: now.AddDate(0, 0, -20).Format("20060102"), URL: "u"}
	if err := as.Enqueue(item); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	snap := as.queue.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected one item in aging queue, got %d", len(snap))
	}
	got := snap[0]
	if got.Ripeness == nil || *got.Ripeness != 80 {
		t.Fatalf("expected ripeness 80 (20 days * 4/day), got %v", got.Ripeness)
	}
	wantNext := now.Add(6 * time.Hour).Unix()
	if got.NextAging == nil || *got.NextAging != wantNext {
		t.Fatalf("expected next_aging %d, got %v", wantNext, got.NextAging)
	}
}

func TestAgingStage_RipeExpiresToManualIntervention(t *testing.T) {
	st := newTestStore(t)
	as := NewAgingStage(st, newFakeLibrary(), config.Policy{}, 4, time.Minute, nil)

	ripeness := 80
	item := model.Item{Creator: "c", Title: "t", Datecode: "20250101", URL: "u", Ripeness: &ripeness}
	as.process(context.Background(), item)

	archived := st.LoadArchive(model.OutcomeManualIntervention)
	if len(archived) != 1 {
		t.Fatalf("expected manual_intervention archive entry, got %d", len(archived))
	}
}

func TestAgingStage_JustBelowThresholdStillAges(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	as := NewAgingStage(st, lib, config.Policy{}, 4, time.Minute, nil)
	now := time.Now()
	as.now = fixedNow(now)

	ripeness := 11 // 3*4 - 1
	lastScan := now.Unix() // scanned just now -> refresh gate closed
	item := model.Item{
		Creator: "Show", Title: "Show", Datecode: "20250101", URL: "u",
		Ripeness: &ripeness, LastScan: &lastScan,
		TitleResult: &model.ShowMatch{MatchedID: "1"},
	}
	as.process(context.Background(), item)

	if len(st.LoadArchive(model.OutcomeManualIntervention)) != 0 {
		t.Fatalf("did not expect manual_intervention archive yet")
	}
	snap := as.queue.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected item requeued into aging, got %d", len(snap))
	}
	if *snap[0].Ripeness != 12 {
		t.Fatalf("expected ripeness incremented to 12, got %d", *snap[0].Ripeness)
	}
}

func TestAgingStage_RefreshGateRequestsUpstreamRefresh(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	as := NewAgingStage(st, lib, config.Policy{}, 4, time.Minute, nil)
	now := time.Now()
	as.now = fixedNow(now)

	ripeness := 0
	lastScan := now.Add(-121 * time.Second).Unix()
	item := model.Item{
		Creator: "Show", Title: "Show", Datecode: "20250101", URL: "u",
		Ripeness: &ripeness, LastScan: &lastScan,
		TitleResult: &model.ShowMatch{MatchedID: "1"},
	}
	as.process(context.Background(), item)

	if len(lib.refreshed) != 1 || lib.refreshed[0] != "1" {
		t.Fatalf("expected a refresh call for series 1, got %v", lib.refreshed)
	}
	snap := as.queue.Snapshot()
	if len(snap) != 1 || *snap[0].Ripeness != 0 {
		t.Fatalf("expected ripeness unchanged at 0 after a refresh tick, got %+v", snap)
	}
}

func TestAgingStage_RematchPromotesToDownload(t *testing.T) {
	st := newTestStore(t)
	lib := newFakeLibrary()
	lib.episodes["1"] = []model.EpisodeRecord{
		{Series: "Show", SeriesID: "1", Season: 1, Episode: 1, Title: "Pilot Episode", AirDate: "20250427", HasFile: false, Monitored: true},
	}
	as := NewAgingStage(st, lib, config.Policy{}, 4, time.Minute, nil)
	disp := &recordingDispatcher{}
	as.SetDispatcher(disp)

	ripeness := 0
	item := model.Item{
		Creator: "Show", Title: "Pilot Episode", Datecode: "20250427", URL: "u",
		Ripeness: &ripeness,
		TitleResult: &model.ShowMatch{MatchedID: "1"},
	}
	as.process(context.Background(), item)

	if len(disp.calls) != 1 || disp.calls[0] != model.StageDownload {
		t.Fatalf("expected promotion to download stage, got %v", disp.calls)
	}
	if len(st.LoadArchive(model.OutcomeRequeued)) != 1 {
		t.Fatalf("expected requeued archive entry")
	}
}
