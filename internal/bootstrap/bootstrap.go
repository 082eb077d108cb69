// Package bootstrap is the composition root: it wires the concrete
// library/downloader/tagger/mover adapters into the stage workers'
// narrow interfaces, builds the dispatcher and supervisor, and is the
// one place allowed to import every leaf package. Grounded on the
// teacher's cmd/spindled/bootstrap.go registerStages helper, generalized
// from a single call site into a full App.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"cfwai/internal/config"
	"cfwai/internal/downloader"
	"cfwai/internal/httpapi"
	"cfwai/internal/langid"
	"cfwai/internal/mover"
	"cfwai/internal/model"
	"cfwai/internal/sonarr"
	"cfwai/internal/stages"
	"cfwai/internal/store"
	"cfwai/internal/supervisor"
	"cfwai/internal/tagger"
)

// App holds every long-lived component the daemon needs, assembled once
// at startup.
type App struct {
	Config     *config.Config
	Store      *store.Store
	Decision   *stages.DecisionStage
	Aging      *stages.AgingStage
	Download   *stages.DownloadStage
	Supervisor *supervisor.Supervisor
	Handlers   *httpapi.Handlers
}

// Build constructs the full dependency graph. onDownloadFatal is invoked
// from the download stage's worker goroutine when a download-pipeline
// failure means that worker has exited for good (spec.md §6 exit code 1).
func Build(cfg *config.Config, logger *slog.Logger, onDownloadFatal func()) (*App, error) {
	st, err := store.New(cfg.Paths.DataDir, logger)
	if err != nil {
		return nil, err
	}

	client := sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.API)
	library := &sonarrAdapter{client: client}

	dl := downloader.New(cfg.Downloader.Binary, logger)
	dlAdapter := &downloaderAdapter{downloader: dl}

	classifier := langid.Heuristic{}
	tg := tagger.New(classifier)
	tgAdapter := &taggerAdapter{tagger: tg}

	mv := mover.New()

	decisionInterval := minutesToDuration(cfg.Workflow.DecisionQueueInterval)
	agingInterval := minutesToDuration(cfg.Workflow.AgingQueueInterval)
	downloadInterval := minutesToDuration(cfg.Workflow.DownloadQueueInterval)

	decision := stages.NewDecisionStage(st, library, cfg.Policy, decisionInterval, logger)
	aging := stages.NewAgingStage(st, library, cfg.Policy, cfg.Aging.RipenessPerDay, agingInterval, logger)
	download := stages.NewDownloadStage(st, library, dlAdapter, tgAdapter, mv, cfg.Paths, downloadInterval, logger, onDownloadFatal)

	stages.NewDispatcher(decision, aging, download)

	sup := supervisor.New(cfg.Paths.DataDir, decision, aging, download, logger)

	handlers := httpapi.NewHandlers(st, decision, sup, logger)

	return &App{
		Config:     cfg,
		Store:      st,
		Decision:   decision,
		Aging:      aging,
		Download:   download,
		Supervisor: sup,
		Handlers:   handlers,
	}, nil
}

// StartAll starts every stage whose run flag is enabled in the config, as
// a group, under ctx.
func (a *App) StartAll(ctx context.Context) {
	a.Supervisor.StartAll(ctx, map[model.Stage]bool{
		model.StageDecision: a.Config.Workflow.RunDecisionQueue,
		model.StageAging:    a.Config.Workflow.RunAgingQueue,
		model.StageDownload: a.Config.Workflow.RunDownloadQueue,
	})
}

func minutesToDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
