package stages

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cfwai/internal/config"
	"cfwai/internal/logging"
	"cfwai/internal/model"
	"cfwai/internal/store"
)

// DownloadStage implements C8: download, tag, move, import. A failed
// download or move, or a missing episode match, records download_fail and
// terminates the worker loop after the current item — the worker
// deliberately exits so the operator notices (§4.8); the ingress and the
// other stages keep running. A tagging failure keeps the original filename
// and continues; a failed import is stored on the item's import_result and
// the item is still archived to pass.
type DownloadStage struct {
	store      *store.Store
	queue      *condQueue
	library    LibraryAdapter
	downloader Downloader
	tagger     Tagger
	mover      Mover
	paths      config.Paths
	interval   time.Duration
	logger     *slog.Logger
	onFatal    func()

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDownloadStage constructs the download stage, replaying its persisted
// queue.
func NewDownloadStage(st *store.Store, library LibraryAdapter, downloader Downloader, tagger Tagger, mover Mover, paths config.Paths, interval time.Duration, logger *slog.Logger, onFatal func()) *DownloadStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DownloadStage{
		store:      st,
		queue:      newCondQueue(st.LoadQueue(model.StageDownload), false),
		library:    library,
		downloader: downloader,
		tagger:     tagger,
		mover:      mover,
		paths:      paths,
		interval:   interval,
		logger:     logging.NewComponentLogger(logger, "download"),
		onFatal:    onFatal,
	}
}

// Enqueue adds item to the download queue and persists the snapshot.
func (d *DownloadStage) Enqueue(item model.Item) error {
	d.queue.Push(item)
	return d.store.SaveQueue(model.StageDownload, d.queue.Snapshot())
}

// Start launches the worker goroutine.
func (d *DownloadStage) Start(ctx context.Context) {
	if d.stopCh != nil {
		return
	}
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.run(ctx)
}

// Stop signals the worker to exit and waits for it to finish.
func (d *DownloadStage) Stop() {
	if d.stopCh == nil {
		return
	}
	close(d.stopCh)
	d.queue.Stop()
	<-d.doneCh
	d.stopCh = nil
}

func (d *DownloadStage) run(ctx context.Context) {
	defer close(d.doneCh)

	if current, err := d.store.LoadCurrent(model.StageDownload); err == nil && current != nil {
		if !d.process(ctx, *current) {
			d.fail()
			return
		}
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
		_ = d.store.SaveQueue(model.StageDownload, d.queue.Snapshot())

		if !d.process(ctx, item) {
			d.fail()
			return
		}

		select {
		case <-d.stopCh:
			return
		case <-time.After(d.interval):
		}
	}
}

func (d *DownloadStage) fail() {
	if d.onFatal != nil {
		d.onFatal()
	}
}

// process runs download -> tag -> move -> manual_import -> archive(pass).
// It returns false if the download or move failed or no episode match is
// recorded, signaling the worker to exit.
func (d *DownloadStage) process(ctx context.Context, item model.Item) bool {
	_ = d.store.SaveCurrent(model.StageDownload, &item)
	defer func() { _ = d.store.ClearCurrent(model.StageDownload) }()

	if err := d.store.ArchiveAppend(model.OutcomeAllProcessed, item); err != nil {
		logging.ErrorWithContext(d.logger, "failed to archive entry", "archive_failed", logging.Error(err))
	}

	result, err := d.downloader.Download(ctx, item.URL, d.paths.WAIOutTemp)
	if err != nil {
		return d.fatal(item, fmt.Errorf("download: %w", err))
	}
	item.DownloadFilename = result.FilePath

	tagged, err := d.tagger.Tag(result.FilePath)
	if err != nil {
		// Missing sidecar: log and keep the original filename, but this is
		// not a download failure — continue the pipeline (§7).
		logging.WarnWithContext(d.logger, "tagging failed; continuing with original filename", "tag_failed", logging.Error(err))
		tagged = result.FilePath
	}
	item.FileName = filepath.Base(tagged)

	finalPath := tagged
	if d.mover != nil && d.paths.SonarrInPath != "" {
		moved, err := d.mover.Move(tagged, d.paths.SonarrInPath)
		if err != nil {
			return d.fatal(item, fmt.Errorf("move into library staging: %w", err))
		}
		finalPath = moved
		item.FileName = filepath.Base(finalPath)
	}

	ep := item.EpisodeResult
	if ep == nil {
		return d.fatal(item, fmt.Errorf("move into library staging: no episode match recorded"))
	}
	result2, err := d.library.ManualImport(ctx, ep.MatchedSeriesID, ep.Season, ep.Episode, item.FileName, d.paths.SonarrInPath)
	if err != nil {
		item.ImportResult = &model.ImportResult{Status: "error"}
	} else {
		item.ImportResult = &result2
	}
	_ = finalPath

	if err := d.store.ArchiveAppend(model.OutcomePass, item); err != nil {
		logging.ErrorWithContext(d.logger, "failed to archive pass outcome", "archive_failed", logging.Error(err))
	}
	return true
}

func (d *DownloadStage) fatal(item model.Item, err error) bool {
	logging.ErrorWithContext(d.logger, "download stage failed; worker exiting", "download_stage_failed", logging.Error(err))
	if archErr := d.store.ArchiveAppend(model.OutcomeDownloadFail, item); archErr != nil {
		logging.ErrorWithContext(d.logger, "failed to archive download failure", "archive_failed", logging.Error(archErr))
	}
	return false
}
