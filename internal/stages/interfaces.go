package stages

import (
	"context"

	"cfwai/internal/model"
)

// LibraryAdapter is the subset of the library adapter (C3) the stages call.
// It is narrower than sonarr.Client so the stages package never imports the
// sonarr package directly, keeping the adapter swappable in tests.
type LibraryAdapter interface {
	ListSeries(ctx context.Context) ([]ShowCandidate, error)
	ListEpisodes(ctx context.Context, seriesID, seriesTitle string) ([]model.EpisodeRecord, error)
	IsMonitoredSeries(ctx context.Context, seriesID string) (bool, error)
	IsMonitoredEpisode(ctx context.Context, seriesID string, season, episode int) (bool, error)
	IsEpisodeFile(ctx context.Context, seriesID string, season, episode int) (bool, error)
	TaggedSeriesIDs(ctx context.Context, label string) ([]string, error)
	RefreshSeries(ctx context.Context, seriesID string) error
	ManualImport(ctx context.Context, seriesID string, season, episode int, filename, folder string) (model.ImportResult, error)
}

// ShowCandidate mirrors sonarr.SeriesSummary, duplicated here so this
// package's public surface does not leak the sonarr package's types.
type ShowCandidate struct {
	ID        string
	Title     string
	Monitored bool
}

// Downloader is the subset of the downloader adapter (C4) the download
// stage calls.
type Downloader interface {
	Download(ctx context.Context, url, targetDir string) (DownloadResult, error)
}

// DownloadResult is the outcome of a successful download.
type DownloadResult struct {
	FilePath string
}

// Tagger is the subset of the tagger (C5) the download stage calls.
type Tagger interface {
	Tag(filePath string) (string, error)
}

// Mover relocates the tagged media file into the library's staging
// directory, renaming it when possible and falling back to copy-then-remove
// across filesystems. Only the media file is moved; its sidecar stays where
// it is. During the cross-filesystem copy the destination file is visible
// before it is complete.
type Mover interface {
	Move(filePath, destDir string) (string, error)
}
