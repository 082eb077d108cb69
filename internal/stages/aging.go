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

// refreshGateSeconds is the §4.7 step 4 cooldown: an item is only allowed
// to trigger another upstream refresh once more than this many seconds
// have elapsed since its last_scan.
const refreshGateSeconds = 120

// AgingStage implements C7: hold low-confidence items, wake on schedule,
// request upstream refreshes, re-match, re-dispatch.
type AgingStage struct {
	store        *store.Store
	queue        *agingQueue
	library      LibraryAdapter
	dispatcher   dispatcher.Dispatcher
	policy       config.Policy
	ripenessRate int
	logger       *slog.Logger
	now          func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewAgingStage constructs the aging stage, replaying its persisted queue.
func NewAgingStage(st *store.Store, library LibraryAdapter, policy config.Policy, ripenessPerDay int, interval time.Duration, logger *slog.Logger) *AgingStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	now := time.Now
	return &AgingStage{
		store:        st,
		queue:        newAgingQueue(st.LoadQueue(model.StageAging), interval, now),
		library:      library,
		policy:       policy,
		ripenessRate: ripenessPerDay,
		logger:       logging.NewComponentLogger(logger, "aging"),
		now:          now,
	}
}

// SetDispatcher wires the cross-stage hand-off.
func (a *AgingStage) SetDispatcher(disp dispatcher.Dispatcher) { a.dispatcher = disp }

// Enqueue adds item to the aging queue, initializing its ripeness and
// next_aging fields if this is the item's first time aging (§4.7).
func (a *AgingStage) Enqueue(item model.Item) error {
	a.initRipeness(&item)
	a.queue.Push(item)
	return a.persist()
}

func (a *AgingStage) initRipeness(item *model.Item) {
	if item.Ripeness != nil {
		return
	}
	now := a.now()
	days := matcher.DaysBetweenDatecodes(now, item.Datecode)
	ripeness := days * a.ripenessRate
	item.Ripeness = &ripeness
	next := now.Add(a.tickDuration()).Unix()
	item.NextAging = &next
}

func (a *AgingStage) tickDuration() time.Duration {
	if a.ripenessRate <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(86400/a.ripenessRate) * time.Second
}

func (a *AgingStage) persist() error {
	return a.store.SaveQueue(model.StageAging, a.queue.Snapshot())
}

// Start launches the worker goroutine.
func (a *AgingStage) Start(ctx context.Context) {
	if a.stopCh != nil {
		return
	}
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.run(ctx)
}

// Stop signals the worker to exit and waits for it to finish.
func (a *AgingStage) Stop() {
	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	a.queue.Stop()
	<-a.doneCh
	a.stopCh = nil
}

func (a *AgingStage) run(ctx context.Context) {
	defer close(a.doneCh)

	if current, err := a.store.LoadCurrent(model.StageAging); err == nil && current != nil {
		a.process(ctx, *current)
	}

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		item, ok, stopped := a.queue.Pop()
		if stopped {
			return
		}
		if !ok {
			continue
		}
		_ = a.persist()
		a.process(ctx, item)

		select {
		case <-a.stopCh:
			return
		default:
		}
	}
}

// process implements the §4.7 dispatch steps on a single ripe item.
func (a *AgingStage) process(ctx context.Context, item model.Item) {
	_ = a.store.SaveCurrent(model.StageAging, &item)
	defer func() { _ = a.store.ClearCurrent(model.StageAging) }()

	a.initRipeness(&item)

	manualThreshold := a.ripenessRate * 3
	if *item.Ripeness >= manualThreshold {
		a.archiveTerminal(model.OutcomeManualIntervention, item)
		return
	}

	seriesID := ""
	if item.TitleResult != nil {
		seriesID = item.TitleResult.MatchedID
	}
	episodes := a.episodesFor(ctx, seriesID)

	isMonitored := func(sid string, season, episode int) bool {
		ok, err := a.library.IsMonitoredEpisode(ctx, sid, season, episode)
		return err == nil && ok
	}
	rematch := matcher.MatchEpisode(item.CompositeTitle(), item.Datecode, episodes, isMonitored)
	item.EpisodeResult = &rematch

	if rematch.Score >= episodeMatchThreshold {
		outcome := checkPolicy(ctx, a.library, a.policy, item)
		if outcome.enqueue {
			if a.dispatcher != nil {
				if err := a.dispatcher.EnqueueTo(model.StageDownload, item); err != nil {
					logging.ErrorWithContext(a.logger, "failed to enqueue to download stage", "download_enqueue_failed", logging.Error(err))
					a.requeue(item)
					return
				}
			}
			a.archiveTerminal(model.OutcomeRequeued, item)
			return
		}
		a.archiveTerminal(outcome.archive, item)
		return
	}

	now := a.now()
	lastScan := int64(0)
	if item.LastScan != nil {
		lastScan = *item.LastScan
	}
	if now.Unix()-lastScan > refreshGateSeconds {
		if seriesID != "" {
			if err := a.library.RefreshSeries(ctx, seriesID); err != nil {
				logging.ErrorWithContext(a.logger, "failed to refresh series", "refresh_series_failed", logging.String("series_id", seriesID), logging.Error(err))
			}
		}
		scan := now.Unix()
		item.LastScan = &scan
		a.rescheduleAndRequeue(&item)
		return
	}

	*item.Ripeness++
	a.rescheduleAndRequeue(&item)
}

func (a *AgingStage) rescheduleAndRequeue(item *model.Item) {
	next := a.now().Add(a.tickDuration()).Unix()
	item.NextAging = &next
	a.requeue(*item)
}

func (a *AgingStage) requeue(item model.Item) {
	a.queue.Push(item)
	if err := a.persist(); err != nil {
		logging.ErrorWithContext(a.logger, "failed to persist aging queue", "persist_failed", logging.Error(err))
	}
}

func (a *AgingStage) episodesFor(ctx context.Context, seriesID string) []model.EpisodeRecord {
	if seriesID == "" {
		return nil
	}
	episodes, err := a.library.ListEpisodes(ctx, seriesID, "")
	if err != nil {
		logging.ErrorWithContext(a.logger, "failed to list episodes", "list_episodes_failed", logging.String("series_id", seriesID), logging.Error(err))
		return nil
	}
	return episodes
}

func (a *AgingStage) archiveTerminal(outcome model.Outcome, item model.Item) {
	if err := a.store.ArchiveAppend(outcome, item); err != nil {
		logging.ErrorWithContext(a.logger, "failed to archive item", "archive_failed", logging.String("outcome", outcome.String()), logging.Error(err))
	}
}
