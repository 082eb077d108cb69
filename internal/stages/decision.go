package stages

import (
	"context"
	"log/slog"
	"time"

	"cfwai/internal/config"
	"cfwai/internal/dispatcher"
	"cfwai/internal/logging"
	"cfwai/internal/matcher"
	"cfwai/internal/model"
	"cfwai/internal/store"
)

const (
	showMatchThreshold    = 80
	episodeMatchThreshold = 70
	taggedCandidateLabel  = "wai-"
)

// DecisionStage implements C6: ingest new items, run matching, dispatch to
// download / aging / terminal archives.
type DecisionStage struct {
	store      *store.Store
	queue      *condQueue
	library    LibraryAdapter
	dispatcher dispatcher.Dispatcher
	policy     config.Policy
	interval   time.Duration
	logger     *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDecisionStage constructs the decision stage, replaying its persisted
// queue so a restart resumes exactly where it left off (§8 crash recovery).
func NewDecisionStage(st *store.Store, library LibraryAdapter, policy config.Policy, interval time.Duration, logger *slog.Logger) *DecisionStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DecisionStage{
		store:    st,
		queue:    newCondQueue(st.LoadQueue(model.StageDecision), policy.FlipFlopQueue),
		library:  library,
		policy:   policy,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "decision"),
	}
}

// SetDispatcher wires the cross-stage hand-off, once all three stages
// exist (Design Notes: no cyclic stage-to-stage imports).
func (d *DecisionStage) SetDispatcher(disp dispatcher.Dispatcher) { d.dispatcher = disp }

// Enqueue adds a freshly-ingested item to the decision queue and persists
// the queue snapshot.
func (d *DecisionStage) Enqueue(item model.Item) error {
	d.queue.Push(item)
	return d.persist()
}

// Dequeue removes the first item in the decision queue matching item
// exactly, per the /dequeue_item ingress operation (§6).
func (d *DecisionStage) Dequeue(item model.Item) (bool, error) {
	_, removed := d.queue.Remove(func(it model.Item) bool { return itemsEqual(it, item) })
	if !removed {
		return false, nil
	}
	return true, d.persist()
}

func (d *DecisionStage) persist() error {
	return d.store.SaveQueue(model.StageDecision, d.queue.Snapshot())
}

// Start launches the worker goroutine. Idempotent: calling Start twice
// while already running is a no-op.
func (d *DecisionStage) Start(ctx context.Context) {
	if d.stopCh != nil {
		return
	}
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.run(ctx)
}

// Stop signals the worker to exit and waits for it to finish the item it
// may currently hold.
func (d *DecisionStage) Stop() {
	if d.stopCh == nil {
		return
	}
	close(d.stopCh)
	d.queue.Stop()
	<-d.doneCh
	d.stopCh = nil
}

func (d *DecisionStage) run(ctx context.Context) {
	defer close(d.doneCh)

	if current, err := d.store.LoadCurrent(model.StageDecision); err == nil && current != nil {
		d.process(ctx, *current)
	}

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		item, ok, stopped := d.queue.Pop(d.interval)
		if stopped {
			return
		}
		if !ok {
			continue
		}
		_ = d.persist()
		d.process(ctx, item)

		select {
		case <-d.stopCh:
			return
		case <-time.After(d.interval):
		}
	}
}

// process runs the MATCHING_SHOW / CANDIDATE_SET_READY / MATCHING_EPISODE /
// CHECK_POLICY state table (§4.6) on a single item.
func (d *DecisionStage) process(ctx context.Context, item model.Item) {
	_ = d.store.SaveCurrent(model.StageDecision, &item)
	defer func() { _ = d.store.ClearCurrent(model.StageDecision) }()

	candidates, shortcutIDs := d.candidatePool(ctx, item.Creator)
	showMatch := matcher.MatchShow(item.CompositeTitle(), candidates)
	item.TitleResult = &showMatch

	if showMatch.Score < showMatchThreshold && len(shortcutIDs) == 0 {
		d.archiveTerminal(model.OutcomeSeriesScore, item)
		return
	}

	if d.policy.HonorUnmonitoredSeries && showMatch.MatchedID != "" {
		monitored, err := d.library.IsMonitoredSeries(ctx, showMatch.MatchedID)
		if err == nil && !monitored {
			d.archiveTerminal(model.OutcomeUnmonitoredSeries, item)
			return
		}
	}

	episodeIDs := candidateSeriesIDs(showMatch.MatchedID, shortcutIDs)
	episodes := d.episodesFor(ctx, episodeIDs)

	isMonitored := func(seriesID string, season, episode int) bool {
		ok, err := d.library.IsMonitoredEpisode(ctx, seriesID, season, episode)
		return err == nil && ok
	}
	episodeMatch := matcher.MatchEpisode(item.CompositeTitle(), item.Datecode, episodes, isMonitored)
	item.EpisodeResult = &episodeMatch

	if episodeMatch.Score < episodeMatchThreshold {
		if d.dispatcher != nil {
			if err := d.dispatcher.EnqueueTo(model.StageAging, item); err != nil {
				logging.ErrorWithContext(d.logger, "failed to enqueue to aging stage", "aging_enqueue_failed", logging.Error(err))
			}
		}
		return
	}

	outcome := checkPolicy(ctx, d.library, d.policy, item)
	if outcome.enqueue && d.dispatcher != nil {
		if err := d.dispatcher.EnqueueTo(model.StageDownload, item); err != nil {
			logging.ErrorWithContext(d.logger, "failed to enqueue to download stage", "download_enqueue_failed", logging.Error(err))
			return
		}
	}
	d.archiveTerminal(outcome.archive, item)
}

// candidatePool lists the show catalog and resolves the tagged-candidate
// shortcut: series labeled "wai-<creator>" are added to the candidate set
// even when the primary show score misses the threshold (§4.6).
func (d *DecisionStage) candidatePool(ctx context.Context, creator string) ([]matcher.ShowCandidate, []string) {
	series, err := d.library.ListSeries(ctx)
	if err != nil {
		logging.ErrorWithContext(d.logger, "failed to list series", "list_series_failed", logging.Error(err))
		series = nil
	}
	candidates := make([]matcher.ShowCandidate, 0, len(series))
	for _, s := range series {
		candidates = append(candidates, matcher.ShowCandidate{Title: s.Title, ID: s.ID})
	}

	shortcutIDs, err := d.library.TaggedSeriesIDs(ctx, taggedCandidateLabel+creator)
	if err != nil {
		shortcutIDs = nil
	}
	return candidates, dedupStrings(shortcutIDs)
}

func (d *DecisionStage) episodesFor(ctx context.Context, seriesIDs []string) []model.EpisodeRecord {
	var out []model.EpisodeRecord
	for _, id := range seriesIDs {
		if id == "" {
			continue
		}
		episodes, err := d.library.ListEpisodes(ctx, id, "")
		if err != nil {
			logging.ErrorWithContext(d.logger, "failed to list episodes", "list_episodes_failed", logging.String("series_id", id), logging.Error(err))
			continue
		}
		out = append(out, episodes...)
	}
	return out
}

func (d *DecisionStage) archiveTerminal(outcome model.Outcome, item model.Item) {
	if err := d.store.ArchiveAppend(outcome, item); err != nil {
		logging.ErrorWithContext(d.logger, "failed to archive item", "archive_failed", logging.String("outcome", outcome.String()), logging.Error(err))
	}
}

func candidateSeriesIDs(primary string, shortcuts []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(shortcuts)+1)
	if primary != "" {
		seen[primary] = struct{}{}
		out = append(out, primary)
	}
	for _, id := range shortcuts {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupStrings(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func itemsEqual(a, b model.Item) bool {
	return a.Creator == b.Creator && a.Title == b.Title && a.Datecode == b.Datecode && a.URL == b.URL
}
